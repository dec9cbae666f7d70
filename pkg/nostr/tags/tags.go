// Package tags is the tag list of an event with the lookups the store needs:
// prefix search, membership tests and the reserved d and expiration tags.
package tags

import (
	"errors"
	"strconv"

	"github.com/Hubmakerlabs/eventstore/pkg/nostr/tag"
)

// T is a list of tag.T - which are lists of string elements with ordering and
// no uniqueness constraint (not a set).
type T []tag.T

// ErrBadExpiration is returned by Expiration when the tag value is not a
// decimal unix timestamp.
var ErrBadExpiration = errors.New("expiration tag is not a unix timestamp")

// GetFirst gets the first tag in tags that matches the prefix, see
// [tag.T.StartsWith]
func (t T) GetFirst(tagPrefix []string) *tag.T {
	for _, v := range t {
		if v.StartsWith(tagPrefix) {
			return &v
		}
	}
	return nil
}

// GetAll gets all the tags that match the prefix, see [tag.T.StartsWith]
func (t T) GetAll(tagPrefix ...string) T {
	result := make(T, 0, len(t))
	for _, v := range t {
		if v.StartsWith(tagPrefix) {
			result = append(result, v)
		}
	}
	return result
}

// Values returns the values of every tag with the given name.
func (t T) Values(name string) (vals []string) {
	for _, v := range t {
		if v.Indexable() && v.Key() == name {
			vals = append(vals, v.Value())
		}
	}
	return
}

// ContainsAny returns true if any of the strings given in `values` matches the
// value of a tag with the given name.
func (t T) ContainsAny(tagName string, values ...string) bool {
	for _, v := range t {
		if !v.Indexable() || v.Key() != tagName {
			continue
		}
		for _, candidate := range values {
			if v.Value() == candidate {
				return true
			}
		}
	}
	return false
}

// ContainsAll returns true only if every one of `values` is the value of some
// tag with the given name.
func (t T) ContainsAll(tagName string, values ...string) bool {
	for _, candidate := range values {
		if !t.ContainsAny(tagName, candidate) {
			return false
		}
	}
	return true
}

// D returns the value of the first d tag, or an empty string if there is none,
// which is the identifier of an addressable event.
func (t T) D() string {
	if d := t.GetFirst([]string{"d", ""}); d != nil {
		return d.Value()
	}
	return ""
}

// Expiration parses the first expiration tag. present is false when the event
// has none.
func (t T) Expiration() (exp int64, present bool, err error) {
	e := t.GetFirst([]string{"expiration", ""})
	if e == nil {
		return
	}
	present = true
	if exp, err = strconv.ParseInt(e.Value(), 10, 64); err != nil {
		err = ErrBadExpiration
	}
	return
}

func (t T) Clone() (c T) {
	c = make(T, len(t))
	for i := range t {
		c[i] = t[i].Clone()
	}
	return
}
