// Package filter is the query value the store evaluates: id, author and kind
// allow-lists, any-of and all-of tag predicates, a full text search string, a
// time range and a limit.
package filter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"golang.org/x/exp/slices"

	"github.com/Hubmakerlabs/eventstore/pkg/nostr/event"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/fulltext"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/kind"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/timestamp"
)

// T is a query where one or all elements can be filled in.
//
// A nil list places no constraint, an empty but non-nil one matches nothing.
// Tags requires, for each name, one of the listed values to be present on the
// event. TagsAll requires every listed value. In JSON these are flattened into
// the object as "#name" and "&name" keys.
type T struct {
	IDs     []string
	Kinds   []kind.T
	Authors []string
	Tags    TagMap
	TagsAll TagMap
	Since   *timestamp.T
	Until   *timestamp.T
	// Limit is the most events this filter contributes, 0 is unlimited.
	Limit  int
	Search string
}

// Ts is a list of filters whose results are combined by union.
type Ts []*T

type TagMap map[string][]string

func (t TagMap) Clone() (t1 TagMap) {
	if t == nil {
		return
	}
	t1 = make(TagMap, len(t))
	for i := range t {
		t1[i] = slices.Clone(t[i])
	}
	return
}

// Names returns the tag names in sorted order.
func (t TagMap) Names() (n []string) {
	for k := range t {
		n = append(n, k)
	}
	sort.Strings(n)
	return
}

func (f *T) String() string {
	j, _ := json.Marshal(f)
	return string(j)
}

// Empty reports whether the time range excludes everything.
func (f *T) Empty() bool {
	return f.Since != nil && f.Until != nil && *f.Since > *f.Until
}

// Matches is the reference predicate: the store's results for a filter are
// exactly the stored, unexpired events this returns true for.
func (f *T) Matches(ev *event.T) bool {
	if ev == nil {
		return false
	}
	if f.IDs != nil && !slices.Contains(f.IDs, ev.ID.String()) {
		return false
	}
	if f.Kinds != nil && !slices.Contains(f.Kinds, ev.Kind) {
		return false
	}
	if f.Authors != nil && !slices.Contains(f.Authors, ev.PubKey) {
		return false
	}
	for name, vals := range f.Tags {
		if vals != nil && !ev.Tags.ContainsAny(name, vals...) {
			return false
		}
	}
	for name, vals := range f.TagsAll {
		if !ev.Tags.ContainsAll(name, vals...) {
			return false
		}
	}
	if f.Since != nil && ev.CreatedAt < *f.Since {
		return false
	}
	if f.Until != nil && ev.CreatedAt > *f.Until {
		return false
	}
	if f.Search != "" && !fulltext.Match(ev.Content, f.Search) {
		return false
	}
	return true
}

func (f *T) Clone() (clone *T) {
	clone = &T{
		IDs:     slices.Clone(f.IDs),
		Authors: slices.Clone(f.Authors),
		Kinds:   slices.Clone(f.Kinds),
		Limit:   f.Limit,
		Search:  f.Search,
		Tags:    f.Tags.Clone(),
		TagsAll: f.TagsAll.Clone(),
	}
	if f.Since != nil {
		clone.Since = f.Since.Ptr()
	}
	if f.Until != nil {
		clone.Until = f.Until.Ptr()
	}
	return
}

type field struct {
	key string
	val any
}

// MarshalJSON writes the fields in a fixed order with the tag maps unfolded
// into the object, sorted by name.
func (f *T) MarshalJSON() (b []byte, err error) {
	var fields []field
	if f.IDs != nil {
		fields = append(fields, field{"ids", f.IDs})
	}
	if f.Authors != nil {
		fields = append(fields, field{"authors", f.Authors})
	}
	if f.Kinds != nil {
		fields = append(fields, field{"kinds", f.Kinds})
	}
	for _, name := range f.Tags.Names() {
		fields = append(fields, field{"#" + name, f.Tags[name]})
	}
	for _, name := range f.TagsAll.Names() {
		fields = append(fields, field{"&" + name, f.TagsAll[name]})
	}
	if f.Since != nil {
		fields = append(fields, field{"since", *f.Since})
	}
	if f.Until != nil {
		fields = append(fields, field{"until", *f.Until})
	}
	if f.Limit > 0 {
		fields = append(fields, field{"limit", f.Limit})
	}
	if f.Search != "" {
		fields = append(fields, field{"search", f.Search})
	}
	buf := new(bytes.Buffer)
	buf.WriteByte('{')
	for i, fl := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		var k, v []byte
		if k, err = json.Marshal(fl.key); err != nil {
			return
		}
		if v, err = json.Marshal(fl.val); err != nil {
			return
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON collects "#x" and "&x" keys into Tags and TagsAll.
func (f *T) UnmarshalJSON(b []byte) (err error) {
	if f == nil {
		return fmt.Errorf("cannot unmarshal into nil filter")
	}
	var raw map[string]json.RawMessage
	if err = json.Unmarshal(b, &raw); err != nil {
		return
	}
	*f = T{}
	for k, v := range raw {
		switch {
		case k == "ids":
			err = json.Unmarshal(v, &f.IDs)
		case k == "authors":
			err = json.Unmarshal(v, &f.Authors)
		case k == "kinds":
			err = json.Unmarshal(v, &f.Kinds)
		case k == "since":
			f.Since = new(timestamp.T)
			err = json.Unmarshal(v, f.Since)
		case k == "until":
			f.Until = new(timestamp.T)
			err = json.Unmarshal(v, f.Until)
		case k == "limit":
			err = json.Unmarshal(v, &f.Limit)
		case k == "search":
			err = json.Unmarshal(v, &f.Search)
		case len(k) > 1 && k[0] == '#':
			if f.Tags == nil {
				f.Tags = make(TagMap)
			}
			var vals []string
			err = json.Unmarshal(v, &vals)
			if vals == nil {
				vals = []string{}
			}
			f.Tags[k[1:]] = vals
		case len(k) > 1 && k[0] == '&':
			if f.TagsAll == nil {
				f.TagsAll = make(TagMap)
			}
			var vals []string
			err = json.Unmarshal(v, &vals)
			f.TagsAll[k[1:]] = vals
		}
		if err != nil {
			return fmt.Errorf("filter field %q: %w", k, err)
		}
	}
	return
}
