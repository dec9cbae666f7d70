package eventstore

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// Rejections returned by SaveEvent. They are wrapped with detail, test for
// them with errors.Is or switch on ReasonOf.
var (
	ErrExpired      = errors.New("expired")
	ErrStaleVersion = errors.New("stale version")
	ErrDeleted      = errors.New("deleted")
	ErrMalformed    = errors.New("malformed")
	ErrDuplicate    = errors.New("duplicate")
	ErrEphemeral    = errors.New("ephemeral")
)

var ErrEventNotExists = errors.New("event not found")

// Reason classifies the outcome of an insert.
type Reason int

const (
	Accepted Reason = iota
	Expired
	StaleVersion
	Deleted
	Malformed
	Duplicate
	Ephemeral
	// Failed is a storage error rather than a rejection.
	Failed
)

var reasonNames = map[Reason]string{
	Accepted:     "accepted",
	Expired:      "expired",
	StaleVersion: "stale",
	Deleted:      "deleted",
	Malformed:    "malformed",
	Duplicate:    "duplicate",
	Ephemeral:    "ephemeral",
	Failed:       "failed",
}

func (r Reason) String() string { return reasonNames[r] }

// ReasonOf maps an error from SaveEvent to its Reason. A transaction conflict
// with a concurrent writer is a StaleVersion.
func ReasonOf(err error) Reason {
	switch {
	case err == nil:
		return Accepted
	case errors.Is(err, ErrExpired):
		return Expired
	case errors.Is(err, ErrStaleVersion), errors.Is(err, badger.ErrConflict):
		return StaleVersion
	case errors.Is(err, ErrDeleted):
		return Deleted
	case errors.Is(err, ErrMalformed):
		return Malformed
	case errors.Is(err, ErrDuplicate):
		return Duplicate
	case errors.Is(err, ErrEphemeral):
		return Ephemeral
	}
	return Failed
}

// Rejected is true for the errors that refuse an event, as opposed to failures
// of the store.
func Rejected(err error) bool {
	r := ReasonOf(err)
	return r != Accepted && r != Failed
}

func reject(sentinel error, format string, a ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, a...))
}
