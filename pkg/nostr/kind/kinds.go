// Package kind defines the event kind type and the ranges that decide how the
// store treats an event: regular, replaceable, ephemeral or addressable.
package kind

import (
	"strconv"
)

// T is the event kind, referred to as kind.T.
type T uint16

func (ki T) ToInt() int       { return int(ki) }
func (ki T) ToUint16() uint16 { return uint16(ki) }
func (ki T) String() string   { return strconv.Itoa(int(ki)) }

const (
	ProfileMetadata T = 0
	TextNote        T = 1
	FollowList      T = 3
	// Deletion is a request by an author to remove their own events, named
	// by id in e tags and by address in a tags.
	Deletion T = 5
	Repost   T = 6
	Reaction T = 7
	// Vanish asks the relays named in its relay tags to drop everything the
	// author has published up to its created_at.
	Vanish   T = 62
	GiftWrap T = 1059
	// RelayList is replaceable.
	RelayList    T = 10002
	ClientAuth   T = 22242
	LongFormPost T = 30023
	AppData      T = 30078
)

const (
	ReplaceableStart T = 10000
	ReplaceableEnd   T = 20000
	EphemeralStart   T = 20000
	EphemeralEnd     T = 30000
	AddressableStart T = 30000
	AddressableEnd   T = 40000
)

// IsReplaceable is true for kinds where only the newest version per author is
// kept.
func (ki T) IsReplaceable() bool {
	return ki == ProfileMetadata || ki == FollowList ||
		(ki >= ReplaceableStart && ki < ReplaceableEnd)
}

// IsEphemeral is true for kinds that are never stored.
func (ki T) IsEphemeral() bool {
	return ki >= EphemeralStart && ki < EphemeralEnd
}

// IsAddressable is true for kinds where the newest version per author and d
// tag is kept.
func (ki T) IsAddressable() bool {
	return ki >= AddressableStart && ki < AddressableEnd
}

func (ki T) IsRegular() bool {
	return !ki.IsReplaceable() && !ki.IsEphemeral() && !ki.IsAddressable()
}
