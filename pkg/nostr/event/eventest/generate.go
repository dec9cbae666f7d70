// Package eventest makes well formed events for tests: correct ids, random
// keys and signatures, content drawn from a small vocabulary so full text
// queries have something to find.
package eventest

import (
	"encoding/base64"
	"strings"

	"lukechampine.com/frand"

	"github.com/Hubmakerlabs/eventstore/pkg/hex"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/event"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/kind"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/tag"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/tags"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/timestamp"
)

// Words is the vocabulary random content is drawn from.
var Words = []string{
	"relay", "nostr", "Café", "garden", "bitcoin", "winter", "ocean",
	"lantern", "signal", "harbor", "meadow", "copper", "ÉCOLE", "river",
}

// Base is the created_at the generators count from.
const Base timestamp.T = 1700000000

func Pubkey() string { return hex.Enc(frand.Bytes(32)) }

// New builds an event and computes its id. The signature is random, the store
// does not check it.
func New(pubkey string, k kind.T, ts timestamp.T, t tags.T,
	content string) (ev *event.T) {
	if t == nil {
		t = tags.T{}
	}
	ev = &event.T{
		PubKey:    pubkey,
		CreatedAt: ts,
		Kind:      k,
		Tags:      t,
		Content:   content,
		Sig:       hex.Enc(frand.Bytes(64)),
	}
	ev.ID = ev.GetID()
	return
}

// Generator produces random events from a fixed set of authors.
type Generator struct {
	Authors []string
	Kinds   []kind.T
	Since   timestamp.T
	Span    int
}

func NewGenerator(authors int) (g *Generator) {
	g = &Generator{
		Kinds: []kind.T{kind.TextNote, kind.Repost, kind.Reaction, 1111},
		Since: Base,
		Span:  1000,
	}
	for i := 0; i < authors; i++ {
		g.Authors = append(g.Authors, Pubkey())
	}
	return
}

// Content is a random sentence from Words.
func Content(n int) string {
	w := make([]string, n)
	for i := range w {
		w[i] = Words[frand.Intn(len(Words))]
	}
	return strings.Join(w, " ")
}

// Random is a regular event with a few t and p tags.
func (g *Generator) Random() (ev *event.T) {
	var t tags.T
	for i := frand.Intn(3); i > 0; i-- {
		t = append(t, tag.T{"t", Words[frand.Intn(len(Words))]})
	}
	if frand.Intn(2) == 0 {
		t = append(t, tag.T{"p", g.Authors[frand.Intn(len(g.Authors))]})
	}
	if frand.Intn(4) == 0 {
		t = append(t, tag.T{"client", "eventest"})
	}
	return New(
		g.Authors[frand.Intn(len(g.Authors))],
		g.Kinds[frand.Intn(len(g.Kinds))],
		g.Since+timestamp.T(frand.Intn(g.Span)),
		t,
		Content(1+frand.Intn(6)),
	)
}

// Batch returns n random events.
func (g *Generator) Batch(n int) (evs event.Ts) {
	for i := 0; i < n; i++ {
		evs = append(evs, g.Random())
	}
	return
}

// Blob is a text note from the author with maxSize bytes of random content,
// used to exercise large records.
func Blob(pubkey string, maxSize int) *event.T {
	l := frand.Intn(maxSize*6/8 + 1)
	return New(pubkey, kind.TextNote, timestamp.Now(), nil,
		base64.StdEncoding.EncodeToString(frand.Bytes(l)))
}
