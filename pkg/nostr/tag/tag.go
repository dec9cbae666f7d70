// Package tag is a single event tag, an ordered list of strings whose first
// element names it.
package tag

import (
	"encoding/json"
	"strings"
)

// The tag position meanings so they are clear when reading.
const (
	Key = iota
	Value
	Relay
)

// T is a list of strings with a literal ordering.
//
// Not a set, there can be repeating elements.
type T []string

// StartsWith checks a tag has the same initial set of elements.
//
// The last element is treated specially in that it is considered to match if
// the candidate has the same initial substring as its corresponding element.
func (t T) StartsWith(prefix []string) bool {
	prefixLen := len(prefix)
	if prefixLen == 0 {
		return true
	}
	if prefixLen > len(t) {
		return false
	}
	for i := 0; i < prefixLen-1; i++ {
		if prefix[i] != t[i] {
			return false
		}
	}
	return strings.HasPrefix(t[prefixLen-1], prefix[prefixLen-1])
}

// Key returns the first element of the tag.
func (t T) Key() string {
	if len(t) > Key {
		return t[Key]
	}
	return ""
}

// Value returns the second element of the tag.
func (t T) Value() string {
	if len(t) > Value {
		return t[Value]
	}
	return ""
}

// Indexable is true when the tag has both a name and a value.
func (t T) Indexable() bool { return len(t) > Value }

// IsSingleLetter reports whether the tag name is one ASCII letter, the names
// that get indexed by default.
func (t T) IsSingleLetter() bool {
	k := t.Key()
	if len(k) != 1 {
		return false
	}
	c := k[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func (t T) Clone() (c T) {
	c = make(T, len(t))
	copy(c, t)
	return
}

func (t T) String() string {
	b, _ := json.Marshal([]string(t))
	return string(b)
}
