package badger

import (
	"bytes"
	"encoding/binary"
	"sort"

	"github.com/dgraph-io/badger/v4"

	"github.com/Hubmakerlabs/eventstore/pkg/nostr/context"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/event"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventid"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys/createdat"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys/index"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys/serial"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/filter"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/nostrbinary"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/timestamp"
)

// QueryEvents returns the union of the events matching each filter. Every
// filter is read on its own down to its own limit, the serials are merged,
// and the result is sorted newest first with ascending id breaking ties,
// then capped at MaxLimit if one is set.
func (b *Backend) QueryEvents(c context.T, fs ...*filter.T) (evs event.Ts,
	err error) {

	if evs, err = b.query(c, fs); err != nil {
		return
	}
	if b.MaxLimit > 0 && len(evs) > b.MaxLimit {
		evs = evs[:b.MaxLimit]
	}
	return
}

// query is QueryEvents without the global cap.
func (b *Backend) query(c context.T, fs []*filter.T) (evs event.Ts,
	err error) {

	now := b.now()
	union := make(map[uint64]*event.T)
	err = b.View(func(txn *badger.Txn) (err error) {
		for _, f := range fs {
			if f == nil {
				continue
			}
			if b.done(c) {
				return context.Canceled
			}
			q := b.PrepareQueries(f)
			log.T.F("filter %s plan %s scans %d joins %d", f, q.plan,
				len(q.scans), len(q.joins))
			var pq *PriorityQueue
			if pq, err = b.run(txn, q, now); err != nil {
				return
			}
			for _, qe := range pq.Queries {
				union[qe.ser] = qe.T
			}
		}
		return
	})
	if err != nil {
		return
	}
	evs = make(event.Ts, 0, len(union))
	for _, ev := range union {
		evs = append(evs, ev)
	}
	sort.Sort(evs)
	return
}

// run reads one filter, returning at most its limit of matching events.
func (b *Backend) run(txn *badger.Txn, q *query,
	now timestamp.T) (pq *PriorityQueue, err error) {

	pq = NewPriorityQueue(q.limit)
	// seen records, by serial, whether a candidate matched the filter
	seen := make(map[uint64]bool)
	accept := func(ev *event.T) bool {
		return q.f.Matches(ev) && !expired(ev, now)
	}
	switch {
	case q.plan == PlanNone:
	case q.ids != nil:
		for _, evID := range q.ids {
			var ser *serial.T
			if ser, err = b.serialOf(txn, evID); notFound(err) {
				err = nil
				continue
			} else if err != nil {
				return
			}
			if _, ok := seen[ser.Uint64()]; ok {
				continue
			}
			var ev *event.T
			if ev, err = b.getRecord(txn, ser); chk.E(err) {
				return
			}
			ok := accept(ev)
			seen[ser.Uint64()] = ok
			if ok {
				pq.Offer(&queryEvent{ev, ser.Uint64()})
			}
		}
	case q.full:
		err = b.scanRecords(txn, func(ser uint64, ev *event.T) error {
			if accept(ev) {
				pq.Offer(&queryEvent{ev, ser})
			}
			return nil
		})
	default:
		for _, prefix := range q.scans {
			if err = b.runScan(txn, q, prefix, seen, accept, pq); err != nil {
				return
			}
		}
	}
	return
}

// runScan walks one prefix newest first. Once the filter's limit has been
// matched it goes on only while keys tie with the last match on created_at,
// and on the id prefix when the keys carry it.
func (b *Backend) runScan(txn *badger.Txn, q *query, prefix []byte,
	seen map[uint64]bool, accept func(ev *event.T) bool,
	pq *PriorityQueue) (err error) {

	var matched int
	var boundary []byte
	bl := b.boundaryLen()
	return b.scanPrefix(txn, prefix, q.since, q.until,
		func(k []byte) (more bool, err error) {
			suffix := k[len(prefix):]
			if len(suffix) != b.suffixLen() {
				// a prefix of some longer key layout
				return true, nil
			}
			if boundary != nil && !bytes.Equal(suffix[:bl], boundary) {
				return false, nil
			}
			ser := serial.FromKey(k)
			s := ser.Uint64()
			ok, done := seen[s]
			if !done {
				for _, j := range q.joins {
					if _, err = txn.Get(append(append([]byte{}, j...),
						suffix...)); notFound(err) {
						err = nil
						seen[s] = false
						return true, nil
					} else if err != nil {
						return
					}
				}
				var ev *event.T
				if ev, err = b.getRecord(txn, ser); chk.E(err) {
					return
				}
				ok = accept(ev)
				seen[s] = ok
				if ok {
					pq.Offer(&queryEvent{ev, s})
				}
			}
			if ok {
				matched++
				if q.limit > 0 && matched == q.limit {
					boundary = append([]byte{}, suffix[:bl]...)
				}
			}
			return true, nil
		})
}

// scanPrefix hands fn the keys under prefix whose timestamp, which follows the
// prefix, is within since and until, newest first, until fn returns false.
func (b *Backend) scanPrefix(txn *badger.Txn, prefix []byte, since,
	until timestamp.T, fn func(k []byte) (more bool, err error)) (err error) {

	it := txn.NewIterator(badger.IteratorOptions{
		Reverse: true,
		Prefix:  prefix,
	})
	defer it.Close()
	start := binary.BigEndian.AppendUint64(append([]byte{}, prefix...),
		uint64(until)+1)
	for it.Seek(start); it.ValidForPrefix(prefix); it.Next() {
		k := it.Item().KeyCopy(nil)
		if len(k) < len(prefix)+createdat.Len {
			continue
		}
		if createdat.FromKey(k, len(prefix)).Val < since {
			break
		}
		var more bool
		if more, err = fn(k); err != nil || !more {
			return
		}
	}
	return
}

// scanRecords decodes every stored event in serial order and hands it to fn,
// stopping at the first error fn returns.
func (b *Backend) scanRecords(txn *badger.Txn,
	fn func(ser uint64, ev *event.T) error) (err error) {

	prefix := []byte{index.Event.B()}
	it := txn.NewIterator(badger.IteratorOptions{
		Prefix:         prefix,
		PrefetchValues: true,
		PrefetchSize:   100,
	})
	defer it.Close()
	for it.Rewind(); it.Valid(); it.Next() {
		item := it.Item()
		ser := serial.FromKey(item.Key()).Uint64()
		var ev *event.T
		if err = item.Value(func(v []byte) (err error) {
			ev, err = nostrbinary.Unmarshal(v)
			return
		}); chk.E(err) {
			return
		}
		if err = fn(ser, ev); err != nil {
			return
		}
	}
	return
}

// GetEvent fetches one stored, unexpired event by id.
func (b *Backend) GetEvent(c context.T, evID eventid.T) (ev *event.T,
	err error) {

	err = b.View(func(txn *badger.Txn) (err error) {
		var ser *serial.T
		if ser, err = b.serialOf(txn, evID); notFound(err) {
			return eventstore.ErrEventNotExists
		} else if err != nil {
			return
		}
		ev, err = b.getRecord(txn, ser)
		return
	})
	if err == nil && expired(ev, b.now()) {
		ev, err = nil, eventstore.ErrEventNotExists
	}
	return
}

// HasEvent reports whether an event with this id is stored.
func (b *Backend) HasEvent(c context.T, evID eventid.T) (ok bool, err error) {
	if _, err = b.GetEvent(c, evID); err == nil {
		return true, nil
	} else if err == eventstore.ErrEventNotExists {
		return false, nil
	}
	return
}
