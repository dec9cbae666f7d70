// Package event is the nostr event as the store receives it: already
// verified, with an id that is the hash of its canonical form.
package event

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/minio/sha256-simd"

	"github.com/Hubmakerlabs/eventstore/pkg/hex"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventid"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/kind"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/tags"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/timestamp"
	"github.com/Hubmakerlabs/eventstore/pkg/slog"
)

var log, chk = slog.New(os.Stderr)

func Hash(in []byte) (out []byte) {
	h := sha256.Sum256(in)
	return h[:]
}

// T is the primary datatype of nostr. This is the form of the structure
// that defines its JSON string based format.
type T struct {

	// ID is the SHA256 hash of the canonical encoding of the event
	ID eventid.T `json:"id"`

	// PubKey is the public key of the event creator in *hexadecimal* format
	PubKey string `json:"pubkey"`

	// CreatedAt is the UNIX timestamp of the event according to the event
	// creator (never trust a timestamp!)
	CreatedAt timestamp.T `json:"created_at"`

	// Kind is the nostr protocol code for the type of event. See kind.T
	Kind kind.T `json:"kind"`

	// Tags are a list of tags, which are a list of strings usually structured
	// as a 3 layer scheme indicating specific features of an event.
	Tags tags.T `json:"tags"`

	// Content is an arbitrary string that can contain anything, but usually
	// conforming to a specification relating to the Kind and the Tags.
	Content string `json:"content"`

	// Sig is the signature on the ID hash. The store does not verify it.
	Sig string `json:"sig"`
}

// Ts is a list of events. Sorted, it is in the order the store returns
// results: newest first, and by ascending id among events with the same
// created_at.
type Ts []*T

func (ev Ts) Len() int      { return len(ev) }
func (ev Ts) Swap(i, j int) { ev[i], ev[j] = ev[j], ev[i] }
func (ev Ts) Less(i, j int) bool {
	return Before(ev[i], ev[j])
}

// Before is true when a sorts ahead of b in result order.
func Before(a, b *T) bool {
	if a.CreatedAt != b.CreatedAt {
		return a.CreatedAt > b.CreatedAt
	}
	return a.ID < b.ID
}

// Newer reports whether a supersedes b as a version of the same replaceable
// or addressable identity. At equal created_at the lower id wins.
func Newer(a, b *T) bool { return Before(a, b) }

// ToCanonical renders the array that is hashed to produce the id.
func (ev *T) ToCanonical() []byte {
	t := ev.Tags
	if t == nil {
		t = tags.T{}
	}
	buf := new(bytes.Buffer)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode([]any{0, ev.PubKey, ev.CreatedAt, ev.Kind, t,
		ev.Content}); chk.E(err) {
		return nil
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'})
}

// GetIDBytes returns the raw SHA256 hash of the canonical form of the event.
func (ev *T) GetIDBytes() []byte { return Hash(ev.ToCanonical()) }

// GetID serializes and returns the event ID as a hexadecimal string.
func (ev *T) GetID() eventid.T { return eventid.T(hex.Enc(ev.GetIDBytes())) }

// CheckID reports whether the ID field is the hash of the event.
func (ev *T) CheckID() bool { return ev.ID == ev.GetID() }

// Address is the kind:pubkey:d coordinate of a replaceable or addressable
// event, empty for other kinds. Replaceable kinds use an empty d.
func (ev *T) Address() string {
	switch {
	case ev.Kind.IsAddressable():
		return fmt.Sprintf("%d:%s:%s", ev.Kind, ev.PubKey, ev.Tags.D())
	case ev.Kind.IsReplaceable():
		return fmt.Sprintf("%d:%s:", ev.Kind, ev.PubKey)
	}
	return ""
}

func (ev *T) Serialize() (b []byte) {
	var err error
	if b, err = json.Marshal(ev); chk.E(err) {
		return
	}
	return
}

func (ev *T) String() string { return string(ev.Serialize()) }

func (ev *T) Clone() (c *T) {
	cp := *ev
	cp.Tags = ev.Tags.Clone()
	return &cp
}
