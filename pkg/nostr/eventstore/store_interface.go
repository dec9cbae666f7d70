// Package eventstore defines the storage contract for nostr events and the
// acceptance rules every backend applies on insert: replaceable and
// addressable versioning, deletion and vanish guards, expiration.
package eventstore

import (
	"io"

	"github.com/Hubmakerlabs/eventstore/pkg/nostr/context"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/event"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventid"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/filter"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/timestamp"
)

// Store is a persistence layer for verified nostr events.
type Store interface {
	// Init opens the underlying storage. It must be called before anything
	// else.
	Init() (err error)
	// Close must be called after you're done using the store, to free up
	// resources and so on.
	Close() (err error)
	// SaveEvent stores an event if the acceptance rules allow it, replacing
	// an older version of the same identity and applying deletion and vanish
	// requests, all in one transaction. A refusal is one of the Err
	// sentinels of this package.
	SaveEvent(c context.T, ev *event.T) (err error)
	// QueryEvents returns the union of the events matching each filter, each
	// filter contributing at most its own limit, newest first and by
	// ascending id at equal created_at.
	QueryEvents(c context.T, fs ...*filter.T) (evs event.Ts, err error)
	// CountEvents is the number of events QueryEvents would return.
	CountEvents(c context.T, fs ...*filter.T) (count int, err error)
	// GetEvent fetches one stored event by id.
	GetEvent(c context.T, id eventid.T) (ev *event.T, err error)
	// DeleteEvents removes the events and addresses named, where they are
	// authored by requester, and guards them from being stored again.
	DeleteEvents(c context.T, requester string, ids []eventid.T,
		addrs []Address, at timestamp.T) (n int, err error)
	// Vanish removes everything author published up to cutoff if scope
	// applies to this store, and refuses such events from then on.
	Vanish(c context.T, author, scope string,
		cutoff timestamp.T) (n int, err error)
	// SweepExpired removes events whose expiration has passed.
	SweepExpired(c context.T) (n int, err error)
	// Export writes every stored event as a line of JSON.
	Export(c context.T, w io.Writer) (err error)
	// Import saves every line of JSON read from r.
	Import(c context.T, r io.Reader) (res ImportResult, err error)
}

// ImportResult counts the outcome of every line of an import by Reason.
type ImportResult map[Reason]int

// Refused is how many lines were not stored.
func (r ImportResult) Refused() (n int) {
	for reason, count := range r {
		if reason != Accepted {
			n += count
		}
	}
	return
}
