package badger

import (
	"github.com/dgraph-io/badger/v4"

	"github.com/Hubmakerlabs/eventstore/pkg/nostr/context"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys/createdat"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys/index"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys/serial"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/filter"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/timestamp"
)

// CountEvents is the number of events QueryEvents returns for the same
// filters. Filters whose plan decides them from the keys alone are counted
// without loading the events.
func (b *Backend) CountEvents(c context.T, fs ...*filter.T) (count int,
	err error) {

	now := b.now()
	union := make(map[uint64]struct{})
	err = b.View(func(txn *badger.Txn) (err error) {
		var due map[uint64]bool
		for _, f := range fs {
			if f == nil {
				continue
			}
			if b.done(c) {
				return context.Canceled
			}
			q := b.PrepareQueries(f)
			if !q.exact {
				var pq *PriorityQueue
				if pq, err = b.run(txn, q, now); err != nil {
					return
				}
				for _, qe := range pq.Queries {
					union[qe.ser] = struct{}{}
				}
				continue
			}
			if due == nil {
				if due, err = b.due(txn, now); err != nil {
					return
				}
			}
			log.T.F("counting filter %s by keys, plan %s", f, q.plan)
			if err = b.collect(txn, q, due, union); err != nil {
				return
			}
		}
		return
	})
	if err != nil {
		return
	}
	count = len(union)
	if b.MaxLimit > 0 && count > b.MaxLimit {
		count = b.MaxLimit
	}
	return
}

// due is the serials of events that have expired but not been swept yet.
func (b *Backend) due(txn *badger.Txn, now timestamp.T) (sers map[uint64]bool,
	err error) {

	sers = make(map[uint64]bool)
	it := txn.NewIterator(badger.IteratorOptions{
		Prefix: []byte{index.Expiry.B()},
	})
	defer it.Close()
	for it.Rewind(); it.Valid(); it.Next() {
		k := it.Item().Key()
		if createdat.FromKey(k, PrefixLen).Val > now {
			break
		}
		sers[serial.FromKey(k).Uint64()] = true
	}
	return
}

// collect adds the serials an exact plan reads to into, leaving out due.
func (b *Backend) collect(txn *badger.Txn, q *query, due map[uint64]bool,
	into map[uint64]struct{}) (err error) {

	add := func(s uint64) {
		if !due[s] {
			into[s] = struct{}{}
		}
	}
	switch {
	case q.plan == PlanNone:
	case q.plan == PlanIDs:
		for _, evID := range q.ids {
			var ser *serial.T
			if ser, err = b.serialOf(txn, evID); notFound(err) {
				err = nil
				continue
			} else if err != nil {
				return
			}
			add(ser.Uint64())
		}
	case q.full:
		it := txn.NewIterator(badger.IteratorOptions{
			Prefix: []byte{index.Event.B()},
		})
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			add(serial.FromKey(it.Item().Key()).Uint64())
		}
	default:
		for _, prefix := range q.scans {
			if err = b.scanPrefix(txn, prefix, q.since, q.until,
				func(k []byte) (more bool, err error) {
					if len(k)-len(prefix) == b.suffixLen() {
						add(serial.FromKey(k).Uint64())
					}
					return true, nil
				}); err != nil {
				return
			}
		}
	}
	return
}
