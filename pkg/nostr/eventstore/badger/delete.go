package badger

import (
	"github.com/dgraph-io/badger/v4"

	"github.com/Hubmakerlabs/eventstore/pkg/nostr/context"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/event"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventid"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys/id"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys/index"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys/pubkey"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys/serial"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/kind"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/timestamp"
)

// tombKey is the guard that keeps an id deleted by author out of the store.
func tombKey(evID eventid.T, author string) (k []byte, err error) {
	var pk *pubkey.T
	if pk, err = pubkey.NewFull(author); err != nil {
		return
	}
	return index.Tombstone.Key(id.New(evID), pk), nil
}

func (b *Backend) tombstoned(txn *badger.Txn, evID eventid.T,
	author string) (ok bool, err error) {

	var k []byte
	if k, err = tombKey(evID, author); err != nil {
		return
	}
	if _, err = txn.Get(k); err == nil {
		return true, nil
	} else if notFound(err) {
		err = nil
	}
	return
}

// DeleteEvents removes the events named by id and the versions of the named
// addresses created at or before at, for those authored by requester, and
// guards all of them against being stored again.
func (b *Backend) DeleteEvents(c context.T, requester string,
	ids []eventid.T, addrs []eventstore.Address,
	at timestamp.T) (n int, err error) {

	err = b.updateRetry("deletion by "+requester, func(txn *badger.Txn) (err error) {
		n, err = b.applyDeletion(txn, requester, ids, addrs, at, nil)
		return
	})
	return
}

// applyDeletion carries out a deletion request inside txn. req is the
// deletion event itself when there is one, it is never a target.
func (b *Backend) applyDeletion(txn *badger.Txn, requester string,
	ids []eventid.T, addrs []eventstore.Address, at timestamp.T,
	req *event.T) (n int, err error) {

	for _, evID := range ids {
		if req != nil && evID == req.ID {
			continue
		}
		var tk []byte
		if tk, err = tombKey(evID, requester); chk.D(err) {
			return
		}
		if err = txn.Set(tk, nil); chk.E(err) {
			return
		}
		var ser *serial.T
		if ser, err = b.serialOf(txn, evID); notFound(err) {
			err = nil
			continue
		} else if err != nil {
			return
		}
		var ev *event.T
		if ev, err = b.getRecord(txn, ser); chk.E(err) {
			return
		}
		// only the author can delete, and deletions are not undone
		if ev.PubKey != requester || ev.Kind == kind.Deletion {
			continue
		}
		if err = b.remove(txn, ser); err != nil {
			return
		}
		n++
	}
	for _, a := range addrs {
		if a.Pubkey != requester {
			continue
		}
		var bk *bucket
		var e *identity
		if bk, e, err = b.getBucket(txn, a); err != nil {
			return
		}
		if !e.HasDeleted || timestamp.T(e.DeletedTo) < at {
			e.HasDeleted, e.DeletedTo = true, at.I64()
		}
		if e.Live && timestamp.T(e.CreatedAt) <= at {
			if _, err = b.removeRecord(txn,
				serial.FromUint64(e.Serial)); err != nil {
				return
			}
			e.Live, e.Serial = false, 0
			n++
		}
		if err = b.putBucket(txn, bk); err != nil {
			return
		}
	}
	return
}

// remove deletes a stored event and clears it from its identity record.
func (b *Backend) remove(txn *badger.Txn, ser *serial.T) (err error) {
	var ev *event.T
	if ev, err = b.removeRecord(txn, ser); err != nil {
		return
	}
	return b.unlinkIdentity(txn, ev, ser)
}
