package eventstore

import (
	"github.com/Hubmakerlabs/eventstore/pkg/hex"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/event"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventid"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/kind"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/timestamp"
)

// Version is the created_at and id of one version of an identity.
type Version struct {
	CreatedAt timestamp.T
	ID        eventid.T
}

// Precondition is what a backend knows about the store when an event
// arrives, gathered inside the insert transaction.
type Precondition struct {
	Now timestamp.T
	// Exists is true when an event with this id is stored.
	Exists bool
	// Tombstoned is true when the author of the event asked for its id to be
	// deleted.
	Tombstoned bool
	// VanishedUntil is the author's vanish cutoff, if any.
	VanishedUntil *timestamp.T
	// AddressDeletedUntil is the deletion cutoff on the event's address.
	AddressDeletedUntil *timestamp.T
	// Current is the newest accepted version of the event's address.
	Current *Version
}

// Validate checks the fields the store depends on are well formed.
func Validate(ev *event.T) (err error) {
	if ev == nil {
		return reject(ErrMalformed, "nil event")
	}
	if err = ev.ID.Validate(); err != nil {
		return reject(ErrMalformed, "id: %s", err)
	}
	if _, err = hex.DecLen(ev.PubKey, 32); err != nil ||
		!hex.IsLower(ev.PubKey) {
		return reject(ErrMalformed, "pubkey %q", ev.PubKey)
	}
	if _, err = hex.Dec(ev.Sig); err != nil || !hex.IsLower(ev.Sig) {
		return reject(ErrMalformed, "signature is not lower case hex")
	}
	if ev.CreatedAt < 0 {
		return reject(ErrMalformed, "negative created_at %d", ev.CreatedAt)
	}
	if _, _, err = ev.Tags.Expiration(); err != nil {
		return reject(ErrMalformed, "%s", err)
	}
	return nil
}

// CheckAcceptance decides whether ev may be stored given p. The checks run in
// a fixed order so an event that fails several reports the first: malformed,
// ephemeral, expired, deleted, stale, duplicate. Storing the current version
// of an address again is a stale version, not a duplicate.
func CheckAcceptance(ev *event.T, p *Precondition) (err error) {
	if err = Validate(ev); err != nil {
		return
	}
	if ev.Kind.IsEphemeral() {
		return reject(ErrEphemeral, "kind %d is not stored", ev.Kind)
	}
	exp, hasExp, _ := ev.Tags.Expiration()
	if hasExp && timestamp.T(exp) <= p.Now {
		return reject(ErrExpired, "expired at %d, now %d", exp, p.Now)
	}
	if p.Tombstoned {
		return reject(ErrDeleted, "event %s was deleted by its author", ev.ID)
	}
	if p.VanishedUntil != nil && ev.Kind != kind.Vanish &&
		ev.CreatedAt <= *p.VanishedUntil {
		return reject(ErrDeleted, "author vanished until %d", *p.VanishedUntil)
	}
	if p.AddressDeletedUntil != nil && ev.CreatedAt <= *p.AddressDeletedUntil {
		return reject(ErrDeleted, "address deleted until %d",
			*p.AddressDeletedUntil)
	}
	if p.Current != nil && !event.Newer(ev,
		&event.T{CreatedAt: p.Current.CreatedAt, ID: p.Current.ID}) {
		return reject(ErrStaleVersion, "%d/%s is not newer than %d/%s",
			ev.CreatedAt, ev.ID, p.Current.CreatedAt, p.Current.ID)
	}
	if p.Exists {
		return reject(ErrDuplicate, "event %s is already stored", ev.ID)
	}
	return nil
}
