package badger

import (
	"bytes"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/Hubmakerlabs/eventstore/pkg/nostr/context"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/event"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys/index"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys/pubkey"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys/serial"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/timestamp"
)

func vanishKey(author string) (k []byte, err error) {
	var pk *pubkey.T
	if pk, err = pubkey.NewFull(author); err != nil {
		return
	}
	return index.Vanish.Key(pk), nil
}

func authorKey(author string) (k []byte, err error) {
	var pk *pubkey.T
	if pk, err = pubkey.NewFull(author); err != nil {
		return
	}
	return index.Author.Key(pk), nil
}

// touchAuthor records an insert by author. It is a blind write, so inserts by
// one author do not conflict with each other, only with a vanish.
func touchAuthor(txn *badger.Txn, author string, ser *serial.T) (err error) {
	var k []byte
	if k, err = authorKey(author); chk.E(err) {
		return
	}
	return txn.Set(k, ser.Val)
}

// vanishedUntil is the author's vanish cutoff, nil if they never vanished.
func (b *Backend) vanishedUntil(txn *badger.Txn,
	author string) (cutoff *timestamp.T, err error) {

	var k []byte
	if k, err = vanishKey(author); err != nil {
		return
	}
	var item *badger.Item
	if item, err = txn.Get(k); notFound(err) {
		return nil, nil
	} else if err != nil {
		return
	}
	err = item.Value(func(v []byte) error {
		cutoff = timestamp.FromBytes(v).Ptr()
		return nil
	})
	return
}

// Vanish removes everything author published at or before cutoff, and keeps
// it out from then on, if scope is this store's scope or all relays.
func (b *Backend) Vanish(c context.T, author, scope string,
	cutoff timestamp.T) (n int, err error) {

	if scope != eventstore.AllRelays && (b.Scope == "" ||
		strings.TrimSuffix(scope, "/") != strings.TrimSuffix(b.Scope, "/")) {
		log.D.F("vanish for %s does not apply to %q", author, b.Scope)
		return
	}
	err = b.updateRetry("vanish of "+author, func(txn *badger.Txn) (err error) {
		n, err = b.applyVanish(txn, author, cutoff, nil)
		return
	})
	return
}

// applyVanish carries out a vanish inside txn. keep is the serial of the
// vanish request, which stays.
func (b *Backend) applyVanish(txn *badger.Txn, author string,
	cutoff timestamp.T, keep *serial.T) (n int, err error) {

	var k []byte
	if k, err = vanishKey(author); chk.D(err) {
		return
	}
	var prev *timestamp.T
	if prev, err = b.vanishedUntil(txn, author); err != nil {
		return
	}
	// read so that an insert by the author committing first fails this
	var ak []byte
	if ak, err = authorKey(author); chk.D(err) {
		return
	}
	if _, err = txn.Get(ak); err != nil && !notFound(err) {
		return
	}
	err = nil
	if prev == nil || *prev < cutoff {
		if err = txn.Set(k, cutoff.Bytes()); chk.E(err) {
			return
		}
	}
	var pk *pubkey.T
	if pk, err = pubkey.New(author); chk.D(err) {
		return
	}
	prefix := index.Pubkey.Key(pk)
	var sers []*serial.T
	if err = b.scanPrefix(txn, prefix, 0, cutoff,
		func(k []byte) (more bool, err error) {
			ser := serial.FromKey(k)
			if keep != nil && bytes.Equal(ser.Val, keep.Val) {
				return true, nil
			}
			sers = append(sers, ser)
			return true, nil
		}); err != nil {
		return
	}
	for _, ser := range sers {
		var ev *event.T
		if ev, err = b.getRecord(txn, ser); chk.E(err) {
			return
		}
		// the index holds a pubkey prefix
		if ev.PubKey != author {
			continue
		}
		if err = b.remove(txn, ser); err != nil {
			return
		}
		n++
	}
	return
}
