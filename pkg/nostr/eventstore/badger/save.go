package badger

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/Hubmakerlabs/eventstore/pkg/nostr/context"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/event"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys/serial"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/kind"
)

// SaveEvent is the single insert path. In one transaction it gathers what the
// store knows about the event, applies the acceptance rules, removes the
// version it supersedes, writes the record and its indexes, and carries out
// deletion and vanish requests.
func (b *Backend) SaveEvent(c context.T, ev *event.T) (err error) {
	if err = eventstore.Validate(ev); err != nil {
		return
	}
	// a conflict means another writer committed first, so the acceptance
	// rules are evaluated again against what it wrote
	err = b.updateRetry("insert of "+ev.ID.String(),
		func(txn *badger.Txn) (err error) {
			return b.saveEvent(txn, ev)
		})
	if errors.Is(err, badger.ErrConflict) {
		err = fmt.Errorf("%w: lost %d insert races: %v",
			eventstore.ErrStaleVersion, maxConflicts, err)
	}
	if err != nil && !eventstore.Rejected(err) {
		log.E.F("saving event %s: %v", ev.ID, err)
	}
	return
}

func (b *Backend) precondition(txn *badger.Txn,
	ev *event.T) (p *eventstore.Precondition, err error) {

	p = &eventstore.Precondition{Now: b.now()}
	if _, err = b.serialOf(txn, ev.ID); err == nil {
		p.Exists = true
	} else if !notFound(err) {
		return
	}
	if p.Tombstoned, err = b.tombstoned(txn, ev.ID, ev.PubKey); err != nil {
		return
	}
	if p.VanishedUntil, err = b.vanishedUntil(txn, ev.PubKey); err != nil {
		return
	}
	return p, nil
}

func (b *Backend) saveEvent(txn *badger.Txn, ev *event.T) (err error) {
	var p *eventstore.Precondition
	if p, err = b.precondition(txn, ev); err != nil {
		return
	}
	addr, replaceable := eventstore.AddressOf(ev)
	var bk *bucket
	var e *identity
	if replaceable {
		if bk, e, err = b.getBucket(txn, addr); err != nil {
			return
		}
		p.Current, p.AddressDeletedUntil = e.current(), e.deletedUntil()
	}
	if err = eventstore.CheckAcceptance(ev, p); err != nil {
		log.D.Ln("rejected", ev.ID, err)
		return
	}
	if replaceable && e.Live {
		if _, err = b.removeRecord(txn,
			serial.FromUint64(e.Serial)); err != nil {
			return
		}
		log.D.F("event %s supersedes %s at %s", ev.ID, e.ID, addr)
	}
	var ser *serial.T
	if ser, err = b.putRecord(txn, ev); err != nil {
		return
	}
	if replaceable {
		e.HasVersion, e.CreatedAt, e.ID = true, ev.CreatedAt.I64(), ev.ID.String()
		e.Live, e.Serial = true, ser.Uint64()
		if err = b.putBucket(txn, bk); err != nil {
			return
		}
	}
	switch ev.Kind {
	case kind.Deletion:
		ids, addrs := eventstore.DeletionTargets(ev)
		var n int
		if n, err = b.applyDeletion(txn, ev.PubKey, ids, addrs, ev.CreatedAt,
			ev); err != nil {
			return
		}
		log.D.F("deletion %s removed %d events", ev.ID, n)
	case kind.Vanish:
		if !eventstore.VanishApplies(ev, b.Scope) {
			break
		}
		var n int
		if n, err = b.applyVanish(txn, ev.PubKey, ev.CreatedAt,
			ser); err != nil {
			return
		}
		log.D.F("vanish %s removed %d events", ev.ID, n)
	}
	// written last, badger does not track a read of the transaction's own
	// write and the vanish above must be seen reading it
	return touchAuthor(txn, ev.PubKey, ser)
}
