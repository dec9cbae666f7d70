package index

import (
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys"
)

type P byte

// Key writes a key with the P prefix byte and an arbitrary list of
// keys.Element.
func (p P) Key(element ...keys.Element) (b []byte) {
	b = keys.Write(
		append([]keys.Element{New(byte(p))}, element...)...)
	return
}

// B returns the index.P as a byte.
func (p P) B() byte { return byte(p) }

// I returns the index.P as an int.
func (p P) I() int { return int(p) }

// In the layouts below {rid} is the bitwise inverse of the first 8 bytes of
// the event id. It is only written when the store orders by id, which makes a
// reverse scan come out newest first and by ascending id within a second.
const (
	// Event is the event record keyed by its serial, a monotonic counter
	// provided by badger.
	//
	//   [ 0 ][ 8 bytes Serial ] : nostrbinary event
	Event P = iota

	// CreatedAt is the time ordered index over all events.
	//
	//   [ 1 ][ 8 bytes timestamp.T ]{ 8 bytes rid }[ 8 bytes Serial ]
	CreatedAt

	// Id maps the full event id to the serial.
	//
	//   [ 2 ][ 32 bytes eventid ] : [ 8 bytes Serial ]
	Id

	// Kind contains the kind and datestamp.
	//
	//   [ 3 ][ 2 bytes kind.T ][ 8 bytes timestamp.T ]{ rid }[ 8 bytes Serial ]
	Kind

	// Pubkey contains pubkey prefix and timestamp.
	//
	//   [ 4 ][ 8 bytes pubkey prefix ][ 8 bytes timestamp.T ]{ rid }[ 8 bytes Serial ]
	Pubkey

	// PubkeyKind contains pubkey prefix, kind and timestamp.
	//
	//   [ 5 ][ 8 bytes pubkey prefix ][ 2 bytes kind.T ][ 8 bytes timestamp.T ]{ rid }[ 8 bytes Serial ]
	PubkeyKind

	// Tag is the hash of a tag name and value.
	//
	//   [ 6 ][ 8 bytes tag hash ][ 8 bytes timestamp.T ]{ rid }[ 8 bytes Serial ]
	Tag

	// TagKP is a tag row that also carries the kind and author, written
	// alongside Tag when the strategy asks for it.
	//
	//   [ 7 ][ 8 bytes tag hash ][ 2 bytes kind.T ][ 8 bytes pubkey prefix ][ 8 bytes timestamp.T ]{ rid }[ 8 bytes Serial ]
	TagKP

	// Address is the identity record of a replaceable or addressable event,
	// one bucket per address hash.
	//
	//   [ 8 ][ 8 bytes address hash ] : cbor list of identity entries
	Address

	// Search is a full text token row.
	//
	//   [ 9 ][ 8 bytes token hash ][ 8 bytes timestamp.T ]{ rid }[ 8 bytes Serial ]
	Search

	// Expiry orders events by their expiration tag.
	//
	//   [ 10 ][ 8 bytes timestamp.T expiry ][ 8 bytes Serial ]
	Expiry

	// Tombstone records that an author asked for an id to be deleted.
	//
	//   [ 11 ][ 32 bytes eventid ][ 32 bytes pubkey ]
	Tombstone

	// Vanish is an author's vanish cutoff.
	//
	//   [ 12 ][ 32 bytes pubkey ] : [ 8 bytes timestamp.T ]
	Vanish

	// Author is written by every insert and read by every vanish, so an
	// insert and a vanish of the same author that overlap cannot both commit.
	//
	//   [ 13 ][ 32 bytes pubkey ] : [ 8 bytes Serial ]
	Author
)

const (
	// Meta holds the settings the indexes were built with.
	//
	//   [ 254 ][ name ] : value
	Meta P = 254
	// Version is the key that stores the version number, the value is a 16-bit
	// integer (2 bytes)
	//
	//   [ 255 ] : [ 2 byte/16 bit version code ]
	Version P = 255
)

// Derived are the prefixes whose rows are computed from the event records and
// can be dropped and rebuilt.
var Derived = []P{
	CreatedAt,
	Id,
	Kind,
	Pubkey,
	PubkeyKind,
	Tag,
	TagKP,
	Search,
	Expiry,
}

// All is every prefix in use.
var All = append([]P{Event, Address, Tombstone, Vanish, Author, Meta,
	Version},
	Derived...)

// GetAsBytes returns the prefixes as single byte slices, as DropPrefix wants.
func GetAsBytes(prf ...P) (b [][]byte) {
	b = make([][]byte, len(prf))
	for i := range prf {
		b[i] = []byte{byte(prf[i])}
	}
	return
}
