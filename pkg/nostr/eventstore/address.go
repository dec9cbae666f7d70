package eventstore

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Hubmakerlabs/eventstore/pkg/hex"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/event"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventid"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/kind"
)

// AllRelays in a vanish request's relay tag applies it to every store.
const AllRelays = "ALL_RELAYS"

// Address is the identity of a replaceable or addressable event. D is empty
// for replaceable kinds.
type Address struct {
	Kind   kind.T
	Pubkey string
	D      string
}

// AddressOf returns the identity of ev, and false for kinds that have none.
func AddressOf(ev *event.T) (a Address, ok bool) {
	switch {
	case ev.Kind.IsAddressable():
		return Address{ev.Kind, ev.PubKey, ev.Tags.D()}, true
	case ev.Kind.IsReplaceable():
		return Address{ev.Kind, ev.PubKey, ""}, true
	}
	return
}

func (a Address) String() string {
	return fmt.Sprintf("%d:%s:%s", a.Kind, a.Pubkey, a.D)
}

// ParseAddress reads a kind:pubkey:d coordinate as found in a tags. The d part
// may itself contain colons.
func ParseAddress(v string) (a Address, ok bool) {
	split := strings.SplitN(v, ":", 3)
	if len(split) < 2 {
		return
	}
	k, err := strconv.ParseUint(split[0], 10, 16)
	if err != nil {
		return
	}
	if _, err = hex.DecLen(split[1], 32); err != nil {
		return
	}
	a = Address{Kind: kind.T(k), Pubkey: split[1]}
	if len(split) == 3 {
		a.D = split[2]
	}
	if !a.Kind.IsAddressable() {
		a.D = ""
	}
	ok = a.Kind.IsAddressable() || a.Kind.IsReplaceable()
	return
}

// DeletionTargets returns the well formed ids of the e tags and coordinates of
// the a tags of a deletion request.
func DeletionTargets(ev *event.T) (ids []eventid.T, addrs []Address) {
	for _, v := range ev.Tags.Values("e") {
		if id, err := eventid.New(v); err == nil {
			ids = append(ids, id)
		}
	}
	for _, v := range ev.Tags.Values("a") {
		if a, ok := ParseAddress(v); ok {
			addrs = append(addrs, a)
		}
	}
	return
}

// VanishApplies reports whether a vanish request names scope, or all relays,
// in its relay tags.
func VanishApplies(ev *event.T, scope string) bool {
	scope = strings.TrimSuffix(scope, "/")
	for _, r := range ev.Tags.Values("relay") {
		if r == AllRelays || (scope != "" && strings.TrimSuffix(r, "/") == scope) {
			return true
		}
	}
	return false
}
