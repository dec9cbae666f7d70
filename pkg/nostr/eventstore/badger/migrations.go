package badger

import (
	"encoding/binary"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"

	"github.com/Hubmakerlabs/eventstore/pkg/nostr/event"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys/arb"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys/index"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys/serial"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/nostrbinary"
)

var (
	strategyKey = index.Meta.Key(arb.NewFromString("strategy"))
	hasherKey   = index.Meta.Key(arb.NewFromString("taghash"))
)

// layout is what the indexes on disk were built with.
type layout struct {
	version  uint16
	strategy byte
	hasher   uint32
}

func (b *Backend) wanted() layout {
	return layout{DbVersion, b.Strategy.byte(), b.hasher.Version}
}

func (b *Backend) stored(txn *badger.Txn) (l layout, found bool, err error) {
	get := func(k []byte) (v []byte, err error) {
		var item *badger.Item
		if item, err = txn.Get(k); err != nil {
			return
		}
		return item.ValueCopy(nil)
	}
	var v []byte
	if v, err = get(index.Version.Key()); notFound(err) {
		return l, false, nil
	} else if err != nil {
		return
	}
	if len(v) == 2 {
		l.version = binary.BigEndian.Uint16(v)
	}
	if v, err = get(strategyKey); err == nil && len(v) == 1 {
		l.strategy = v[0]
	} else if err != nil && !notFound(err) {
		return
	}
	if v, err = get(hasherKey); err == nil && len(v) == 4 {
		l.hasher = binary.BigEndian.Uint32(v)
	} else if err != nil && !notFound(err) {
		return
	}
	return l, true, nil
}

func (b *Backend) writeLayout(txn *badger.Txn, l layout) (err error) {
	if err = txn.Set(index.Version.Key(),
		binary.BigEndian.AppendUint16(nil, l.version)); chk.E(err) {
		return
	}
	if err = txn.Set(strategyKey, []byte{l.strategy}); chk.E(err) {
		return
	}
	return txn.Set(hasherKey, binary.BigEndian.AppendUint32(nil, l.hasher))
}

// runMigrations records the layout of a new store, and rebuilds the indexes of
// an existing one built with another strategy or tag hasher.
func (b *Backend) runMigrations() (err error) {
	want := b.wanted()
	var have layout
	var found bool
	if err = b.View(func(txn *badger.Txn) (err error) {
		have, found, err = b.stored(txn)
		return
	}); chk.E(err) {
		return
	}
	if found && have == want {
		return
	}
	if found {
		log.I.F("index layout changed from %s hash v%d to %s hash v%d",
			strategyFromByte(have.strategy), have.hasher, b.Strategy,
			want.hasher)
		if err = b.Rebuild(); chk.E(err) {
			return
		}
	}
	return b.Update(func(txn *badger.Txn) (err error) {
		return b.writeLayout(txn, want)
	})
}

// Rebuild drops every index that is derived from the event records and writes
// it again under the current strategy, and files the identity records under
// the current tag hasher.
func (b *Backend) Rebuild() (err error) {
	b.WG.Add(1)
	defer b.WG.Done()
	var idents []identity
	if err = b.View(func(txn *badger.Txn) (err error) {
		idents, err = b.identities(txn)
		return
	}); err != nil {
		return
	}
	if err = b.DB.DropPrefix(index.GetAsBytes(
		append([]index.P{index.Address}, index.Derived...)...)...); chk.E(err) {
		return
	}
	wb := b.DB.NewWriteBatch()
	defer wb.Cancel()
	for _, bk := range b.rekey(idents) {
		var v []byte
		if v, err = cbor.Marshal(bk.entries); chk.E(err) {
			return
		}
		if err = wb.Set(bk.key, v); chk.E(err) {
			return
		}
	}
	var count, rows int
	prefix := []byte{index.Event.B()}
	if err = b.View(func(txn *badger.Txn) (err error) {
		it := txn.NewIterator(badger.IteratorOptions{
			Prefix:         prefix,
			PrefetchValues: true,
			PrefetchSize:   100,
		})
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			ser := serial.FromKey(item.Key())
			var v []byte
			if v, err = item.ValueCopy(nil); chk.E(err) {
				return
			}
			var ev *event.T
			if ev, err = nostrbinary.Unmarshal(v); chk.E(err) {
				return
			}
			var n int
			if n, err = b.putIndexes(wb.Set, ev, ser); err != nil {
				return
			}
			count++
			rows += n
		}
		return
	}); err != nil {
		return
	}
	if err = wb.Flush(); chk.E(err) {
		return
	}
	log.I.F("rebuilt %d index rows for %d events and %d identities", rows,
		count, len(idents))
	return
}
