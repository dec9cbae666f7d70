package badger

import (
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/event"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys/createdat"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys/hash"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys/index"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys/kinder"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys/pubkey"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys/rid"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys/serial"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/fulltext"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/timestamp"
)

// order is the trailing part every ordered index key shares: the timestamp,
// the inverted id prefix when ordering by id, and the serial.
func (b *Backend) order(ev *event.T, ser *serial.T) []keys.Element {
	els := keys.Make(createdat.New(ev.CreatedAt))
	if b.Strategy.IDOrder {
		els = append(els, rid.New(ev.ID))
	}
	return append(els, ser)
}

// boundaryLen is the length of the part of an ordered key, after its prefix,
// that decides its position in result order.
func (b *Backend) boundaryLen() int {
	if b.Strategy.IDOrder {
		return createdat.Len + rid.Len
	}
	return createdat.Len
}

// suffixLen is the length of the order part including the serial.
func (b *Backend) suffixLen() int { return b.boundaryLen() + serial.Len }

// GetIndexKeysForEvent generates all the value-less index keys of an event
// under the current strategy. The Id row, which carries the serial as its
// value, is written separately.
func (b *Backend) GetIndexKeysForEvent(ev *event.T,
	ser *serial.T) (keyz [][]byte, err error) {

	keyz = make([][]byte, 0, 8+len(ev.Tags))
	ord := b.order(ev, ser)
	K := kinder.New(ev.Kind)
	var PK *pubkey.T
	if PK, err = pubkey.New(ev.PubKey); chk.E(err) {
		return
	}
	if b.Strategy.CreatedAtIndex {
		keyz = append(keyz, index.CreatedAt.Key(ord...))
	}
	{ // ~ by kind+date
		keyz = append(keyz, index.Kind.Key(append(keys.Make(K), ord...)...))
	}
	{ // ~ by pubkey+date
		keyz = append(keyz, index.Pubkey.Key(append(keys.Make(PK), ord...)...))
	}
	{ // ~ by pubkey+kind+date
		keyz = append(keyz,
			index.PubkeyKind.Key(append(keys.Make(PK, K), ord...)...))
	}
	// ~ by tag hash + date
	for _, h := range b.tagHashes(ev) {
		keyz = append(keyz, index.Tag.Key(append(keys.Make(hash.New(h)),
			ord...)...))
		if b.Strategy.TagKindPubkey {
			keyz = append(keyz, index.TagKP.Key(append(
				keys.Make(hash.New(h), K, PK), ord...)...))
		}
	}
	// ~ by content token + date
	for _, tok := range fulltext.Tokenize(ev.Content) {
		keyz = append(keyz, index.Search.Key(append(
			keys.Make(hash.New(b.hasher.Token(tok))), ord...)...))
	}
	// ~ by expiry
	if exp, ok, _ := ev.Tags.Expiration(); ok {
		keyz = append(keyz, index.Expiry.Key(
			createdat.New(timestamp.T(exp)), ser))
	}
	return
}
