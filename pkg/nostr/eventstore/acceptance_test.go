package eventstore

import (
	"strings"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"

	"github.com/Hubmakerlabs/eventstore/pkg/nostr/event"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/event/eventest"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventid"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/kind"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/tags"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/timestamp"
)

const now timestamp.T = 1000

func ts(t timestamp.T) *timestamp.T { return &t }

func TestCheckAcceptance(t *testing.T) {
	pk := eventest.Pubkey()
	note := eventest.New(pk, kind.TextNote, 500, nil, "hi")
	v1 := eventest.New(pk, 30000, 100, tags.T{{"d", "x"}}, "A")
	v2 := eventest.New(pk, 30000, 101, tags.T{{"d", "x"}}, "B")

	for _, tc := range []struct {
		name string
		ev   *event.T
		p    Precondition
		want Reason
	}{
		{"plain", note, Precondition{}, Accepted},
		{"duplicate", note, Precondition{Exists: true}, Duplicate},
		{"ephemeral", eventest.New(pk, 20001, 1, nil, ""), Precondition{},
			Ephemeral},
		{"expired", eventest.New(pk, 1, 1, tags.T{{"expiration", "1000"}}, ""),
			Precondition{}, Expired},
		{"not yet expired",
			eventest.New(pk, 1, 1, tags.T{{"expiration", "1001"}}, ""),
			Precondition{}, Accepted},
		{"bad expiration",
			eventest.New(pk, 1, 1, tags.T{{"expiration", "never"}}, ""),
			Precondition{}, Malformed},
		{"negative time", eventest.New(pk, 1, -1, nil, ""), Precondition{},
			Malformed},
		{"bad pubkey", &event.T{ID: note.ID, PubKey: "xyz"}, Precondition{},
			Malformed},
		{"tombstoned", note, Precondition{Tombstoned: true, Exists: true},
			Deleted},
		{"vanished", note, Precondition{VanishedUntil: ts(500)}, Deleted},
		{"after vanish", note, Precondition{VanishedUntil: ts(499)}, Accepted},
		{"vanish request exempt", eventest.New(pk, kind.Vanish, 400,
			tags.T{{"relay", AllRelays}}, ""),
			Precondition{VanishedUntil: ts(500)}, Accepted},
		{"address deleted", v2, Precondition{AddressDeletedUntil: ts(101)},
			Deleted},
		{"newer version", v2, Precondition{Current: &Version{100, v1.ID}},
			Accepted},
		{"stale version", v1, Precondition{Current: &Version{101, v2.ID}},
			StaleVersion},
		{"same version", v1, Precondition{Current: &Version{100, v1.ID}},
			StaleVersion},
		{"current version again", v1, Precondition{Exists: true,
			Current: &Version{100, v1.ID}}, StaleVersion},
		{"upper case pubkey", eventest.New(strings.ToUpper(pk), 0, 1, nil, ""),
			Precondition{}, Malformed},
		{"upper case id", &event.T{ID: eventid.T(strings.ToUpper(
			note.ID.String())), PubKey: pk, Sig: note.Sig}, Precondition{},
			Malformed},
		{"upper case signature", &event.T{ID: note.ID, PubKey: pk,
			Sig: strings.ToUpper(note.Sig)}, Precondition{}, Malformed},
	} {
		t.Run(tc.name, func(t *testing.T) {
			tc.p.Now = now
			assert.Equal(t, tc.want, ReasonOf(CheckAcceptance(tc.ev, &tc.p)))
		})
	}
}

func TestTieBreak(t *testing.T) {
	pk := eventest.Pubkey()
	a := eventest.New(pk, 0, 100, nil, "one")
	b := eventest.New(pk, 0, 100, nil, "two")
	lo, hi := a, b
	if hi.ID < lo.ID {
		lo, hi = hi, lo
	}
	p := &Precondition{Now: now, Current: &Version{hi.CreatedAt, hi.ID}}
	assert.NoError(t, CheckAcceptance(lo, p))
	p.Current = &Version{lo.CreatedAt, lo.ID}
	assert.ErrorIs(t, CheckAcceptance(hi, p), ErrStaleVersion)
}

func TestReasonOf(t *testing.T) {
	assert.Equal(t, StaleVersion, ReasonOf(badger.ErrConflict))
	assert.Equal(t, Failed, ReasonOf(badger.ErrKeyNotFound))
	assert.True(t, Rejected(reject(ErrDeleted, "x")))
	assert.False(t, Rejected(badger.ErrDBClosed))
	assert.Equal(t, "stale", StaleVersion.String())
}

func TestAddresses(t *testing.T) {
	pk := eventest.Pubkey()
	a, ok := ParseAddress("30023:" + pk + ":a:b")
	assert.True(t, ok)
	assert.Equal(t, Address{30023, pk, "a:b"}, a)
	a, ok = ParseAddress("10002:" + pk + ":ignored")
	assert.True(t, ok)
	assert.Equal(t, "", a.D)
	_, ok = ParseAddress("1:" + pk + ":")
	assert.False(t, ok)
	_, ok = ParseAddress("30023:nothex:d")
	assert.False(t, ok)

	del := eventest.New(pk, kind.Deletion, 1, tags.T{
		{"e", eventest.New(pk, 1, 1, nil, "").ID.String()},
		{"e", "short"},
		{"a", "30023:" + pk + ":post"},
	}, "")
	ids, addrs := DeletionTargets(del)
	assert.Len(t, ids, 1)
	assert.Equal(t, []Address{{30023, pk, "post"}}, addrs)

	v := eventest.New(pk, kind.Vanish, 1,
		tags.T{{"relay", "wss://relay.example.com/"}}, "")
	assert.True(t, VanishApplies(v, "wss://relay.example.com"))
	assert.False(t, VanishApplies(v, "wss://other.example.com"))
	assert.False(t, VanishApplies(v, ""))
	v.Tags = tags.T{{"relay", AllRelays}}
	assert.True(t, VanishApplies(v, ""))
}
