package event_test

import (
	"encoding/json"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hubmakerlabs/eventstore/pkg/nostr/event"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/event/eventest"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/kind"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/tag"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/tags"
)

const TestPubHex = "4fdb07df4a683e3ee9b2a9d117e01bfe2548d7e8c0d4cb56d77e9c23091c3fc3"

func TestEventID(t *testing.T) {
	ev := &event.T{
		PubKey:    TestPubHex,
		CreatedAt: 1700000000,
		Kind:      kind.TextNote,
		Tags:      tags.T{{"t", "nostr"}, {"p", "abc"}},
		Content:   "a <b> & \"c\"\nline",
	}
	assert.Equal(t,
		"fee42850ec53942d9ff5c27d32fd7ee3f412423b9d68aed40e5d03fd1234ad94",
		ev.GetID().String())
	// nil tags hash the same as an empty list
	ev = &event.T{PubKey: TestPubHex, CreatedAt: 1700000000,
		Kind: kind.TextNote}
	assert.Equal(t,
		"9f6a164f565c779dea64b57535cba88f962d87214948116ce0efe6e2f84eba06",
		ev.GetID().String())
}

func TestEventJSON(t *testing.T) {
	ev := eventest.New(TestPubHex, kind.LongFormPost, 1700000000,
		tags.T{{"d", "post"}, tag.T{"t", "go"}}, "body")
	b, err := json.Marshal(ev)
	require.NoError(t, err)
	var out event.T
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, ev, &out)
	assert.True(t, out.CheckID())
	assert.Equal(t, "30023:"+TestPubHex+":post", out.Address())
}

func TestOrdering(t *testing.T) {
	a := &event.T{ID: "aa", CreatedAt: 10}
	b := &event.T{ID: "bb", CreatedAt: 10}
	c := &event.T{ID: "00", CreatedAt: 9}
	d := &event.T{ID: "ff", CreatedAt: 11}
	evs := event.Ts{c, b, a, d}
	sort.Sort(evs)
	assert.Equal(t, event.Ts{d, a, b, c}, evs)
	assert.True(t, event.Newer(a, b))
	assert.False(t, event.Newer(c, b))
}
