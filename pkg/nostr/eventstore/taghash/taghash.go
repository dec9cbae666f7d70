// Package taghash maps tag name/value pairs, search tokens and replaceable
// addresses onto the 64 bit values the index keys are built from.
//
// The hash is versioned: the version is mixed into every digest and persisted
// with the store, and changing it means rebuilding the indexes. Collisions
// only ever add candidates, every candidate is checked against the decoded
// event before it is returned.
package taghash

import (
	"encoding/binary"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/Hubmakerlabs/eventstore/pkg/nostr/kind"
)

// Current is the hash version new stores are created with.
const Current uint32 = 1

// namespaces keep a tag, a search token and an address with the same text
// from hashing to the same value.
const (
	nsTag byte = iota + 1
	nsToken
	nsAddress
)

type Hasher struct {
	Version uint32
}

func New(version uint32) Hasher { return Hasher{Version: version} }

// Default hashes with the current version.
var Default = New(Current)

func (h Hasher) digest(ns byte, fields ...string) uint64 {
	d := xxhash.New()
	var hdr [5]byte
	binary.BigEndian.PutUint32(hdr[:4], h.Version)
	hdr[4] = ns
	_, _ = d.Write(hdr[:])
	var l [4]byte
	for _, f := range fields {
		binary.BigEndian.PutUint32(l[:], uint32(len(f)))
		_, _ = d.Write(l[:])
		_, _ = d.WriteString(f)
	}
	return d.Sum64()
}

// Tag hashes a tag name and value.
func (h Hasher) Tag(name, value string) uint64 {
	return h.digest(nsTag, name, value)
}

// Token hashes a normalised full text token.
func (h Hasher) Token(word string) uint64 { return h.digest(nsToken, word) }

// Address hashes the identity of a replaceable or addressable event.
func (h Hasher) Address(k kind.T, pubkey, d string) uint64 {
	return h.digest(nsAddress, strconv.Itoa(int(k)), pubkey, d)
}
