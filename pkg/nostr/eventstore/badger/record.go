package badger

import (
	"errors"

	"github.com/dgraph-io/badger/v4"

	"github.com/Hubmakerlabs/eventstore/pkg/nostr/event"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventid"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys/id"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys/index"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys/serial"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/nostrbinary"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/timestamp"
)

func notFound(err error) bool { return errors.Is(err, badger.ErrKeyNotFound) }

// serialOf looks up the serial of a stored event id. The error is
// badger.ErrKeyNotFound if there is none.
func (b *Backend) serialOf(txn *badger.Txn, evID eventid.T) (ser *serial.T,
	err error) {

	var item *badger.Item
	if item, err = txn.Get(index.Id.Key(id.New(evID))); err != nil {
		return
	}
	var v []byte
	if v, err = item.ValueCopy(nil); chk.E(err) {
		return
	}
	return serial.New(v), nil
}

// getRecord decodes the event stored under ser, from the cache if it is
// there. Records never change once written, a serial is not reused.
func (b *Backend) getRecord(txn *badger.Txn, ser *serial.T) (ev *event.T,
	err error) {

	s := ser.Uint64()
	if v, ok := b.cache.Get(s); ok {
		return v.(*event.T), nil
	}
	var item *badger.Item
	if item, err = txn.Get(index.Event.Key(ser)); err != nil {
		return
	}
	var v []byte
	if v, err = item.ValueCopy(nil); chk.E(err) {
		return
	}
	if ev, err = nostrbinary.Unmarshal(v); chk.E(err) {
		return
	}
	b.cache.Set(s, ev, int64(len(v)))
	return
}

// putRecord writes the event record and all its index rows.
func (b *Backend) putRecord(txn *badger.Txn, ev *event.T) (ser *serial.T,
	err error) {

	var bin []byte
	if bin, err = nostrbinary.Marshal(ev); chk.D(err) {
		return
	}
	var idx []byte
	if idx, ser, err = b.SerialKey(); chk.E(err) {
		return
	}
	if err = txn.Set(idx, bin); chk.D(err) {
		return
	}
	var n int
	if n, err = b.putIndexes(txn.Set, ev, ser); err != nil {
		return
	}
	log.T.F("saved event %s serial %d with %d index rows", ev.ID,
		ser.Uint64(), n)
	return
}

// putIndexes writes the Id row and every index row of an event stored under
// ser through set, which is either a transaction or a write batch.
func (b *Backend) putIndexes(set func(k, v []byte) error, ev *event.T,
	ser *serial.T) (n int, err error) {

	if err = set(index.Id.Key(id.New(ev.ID)), ser.Val); chk.D(err) {
		return
	}
	var keyz [][]byte
	if keyz, err = b.GetIndexKeysForEvent(ev, ser); chk.E(err) {
		return
	}
	for _, k := range keyz {
		if err = set(k, nil); chk.D(err) {
			return
		}
	}
	return len(keyz) + 1, nil
}

// removeRecord deletes the event under ser and every index row pointing at
// it. The identity record is left to the caller.
func (b *Backend) removeRecord(txn *badger.Txn, ser *serial.T) (ev *event.T,
	err error) {

	if ev, err = b.getRecord(txn, ser); err != nil {
		return
	}
	var keyz [][]byte
	if keyz, err = b.GetIndexKeysForEvent(ev, ser); chk.E(err) {
		return
	}
	keyz = append(keyz, index.Id.Key(id.New(ev.ID)), index.Event.Key(ser))
	for _, k := range keyz {
		if err = txn.Delete(k); chk.D(err) {
			return
		}
	}
	b.cache.Del(ser.Uint64())
	log.T.F("removed event %s serial %d", ev.ID, ser.Uint64())
	return
}

// expired is true when ev carries an expiration at or before now.
func expired(ev *event.T, now timestamp.T) bool {
	exp, ok, err := ev.Tags.Expiration()
	return ok && err == nil && timestamp.T(exp) <= now
}
