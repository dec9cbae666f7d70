package badger

import (
	"math"
	"sort"

	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventid"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys/hash"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys/index"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys/kinder"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys/pubkey"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/fulltext"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/filter"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/timestamp"
)

// maxTagKPScans bounds the tag x kind x author product for which the
// combined tag index is used.
const maxTagKPScans = 256

// Plan names, in order of preference.
const (
	PlanNone      = "none"
	PlanIDs       = "ids"
	PlanTagKP     = "tag+kind+author"
	PlanAuthors   = "authors"
	PlanTagsAll   = "tags-all"
	PlanTags      = "tags"
	PlanSearch    = "search"
	PlanKinds     = "kinds"
	PlanCreatedAt = "created_at"
	PlanFullScan  = "scan"
)

// query is how one filter is read: point lookups by id, ordered prefix scans
// whose keys end in the common order suffix, or a walk over every record.
// Every key a scan yields must also exist under each join prefix with the same
// suffix, which is how all-of tags and further search tokens are matched
// without loading the event.
type query struct {
	f     *filter.T
	plan  string
	ids   []eventid.T
	scans [][]byte
	joins [][]byte
	full  bool
	since timestamp.T
	until timestamp.T
	limit int
	// exact is true when the keys read decide the filter by themselves.
	exact bool
}

// unsatisfiable is true for filters that can match nothing.
func unsatisfiable(f *filter.T) bool {
	if f.Empty() {
		return true
	}
	if (f.IDs != nil && len(f.IDs) == 0) ||
		(f.Kinds != nil && len(f.Kinds) == 0) ||
		(f.Authors != nil && len(f.Authors) == 0) {
		return true
	}
	for _, vals := range f.Tags {
		if vals != nil && len(vals) == 0 {
			return true
		}
	}
	return false
}

// exact reports whether plan reads precisely the events f matches, apart
// from expiry, so they can be counted from their keys. Author keys hold a
// prefix of the pubkey and tag and token keys hold hashes, so plans using
// them are not exact, and a limit needs the ids to break ties.
func exact(f *filter.T, plan string) bool {
	if f.Limit > 0 || f.Authors != nil || f.Tags != nil || f.TagsAll != nil ||
		f.Search != "" {
		return false
	}
	switch plan {
	case PlanNone, PlanKinds, PlanCreatedAt:
		return true
	case PlanIDs, PlanFullScan:
		return f.Kinds == nil && f.Since == nil && f.Until == nil
	}
	return false
}

// pubkeyPrefixes returns the index prefixes of the well formed authors, the
// others cannot match anything.
func pubkeyPrefixes(authors []string) (pks []*pubkey.T) {
	for _, a := range authors {
		if pk, err := pubkey.New(a); err == nil {
			pks = append(pks, pk)
		}
	}
	return
}

// anyOfName picks the indexable any-of tag name with the fewest values.
func (b *Backend) anyOfName(f *filter.T) (name string, ok bool) {
	best := math.MaxInt
	for _, n := range f.Tags.Names() {
		if vals := f.Tags[n]; vals != nil && len(vals) < best &&
			b.indexableName(n) {
			name, best, ok = n, len(vals), true
		}
	}
	return
}

// PrepareQueries analyses a filter and chooses how to read it.
func (b *Backend) PrepareQueries(f *filter.T) (q *query) {
	defer func() { q.exact = exact(f, q.plan) }()
	q = &query{f: f, since: 0, until: math.MaxInt64, limit: f.Limit}
	if f.Since != nil {
		q.since = *f.Since
	}
	if f.Until != nil {
		q.until = *f.Until
	}
	if q.limit < 0 {
		q.limit = 0
	}
	if unsatisfiable(f) {
		q.plan = PlanNone
		return
	}
	if f.IDs != nil {
		q.plan = PlanIDs
		for _, v := range f.IDs {
			if evID, err := eventid.New(v); err == nil {
				q.ids = append(q.ids, evID)
			}
		}
		return
	}
	// the all-of tag values and search tokens that can be joined on
	var allOf []uint64
	for _, n := range f.TagsAll.Names() {
		if !b.indexableName(n) {
			continue
		}
		for _, v := range f.TagsAll[n] {
			allOf = append(allOf, b.hasher.Tag(n, v))
		}
	}
	tokens := fulltext.Tokenize(f.Search)
	// longest first, a long word is likely the rarest
	sort.SliceStable(tokens, func(i, j int) bool {
		return len(tokens[i]) > len(tokens[j])
	})
	var tokenHashes []uint64
	for _, t := range tokens {
		tokenHashes = append(tokenHashes, b.hasher.Token(t))
	}
	join := func(p index.P, hs []uint64) {
		for _, h := range hs {
			q.joins = append(q.joins, p.Key(hash.New(h)))
		}
	}
	anyName, hasAny := b.anyOfName(f)
	pks := pubkeyPrefixes(f.Authors)
	switch {
	case hasAny && b.Strategy.TagKindPubkey && f.Kinds != nil &&
		f.Authors != nil &&
		len(f.Tags[anyName])*len(f.Kinds)*len(pks) <= maxTagKPScans:
		q.plan = PlanTagKP
		for _, v := range f.Tags[anyName] {
			h := hash.New(b.hasher.Tag(anyName, v))
			for _, k := range f.Kinds {
				for _, pk := range pks {
					q.scans = append(q.scans,
						index.TagKP.Key(h, kinder.New(k), pk))
				}
			}
		}
		join(index.Tag, allOf)
		join(index.Search, tokenHashes)
	case f.Authors != nil:
		q.plan = PlanAuthors
		for _, pk := range pks {
			if f.Kinds == nil {
				q.scans = append(q.scans, index.Pubkey.Key(pk))
				continue
			}
			for _, k := range f.Kinds {
				q.scans = append(q.scans,
					index.PubkeyKind.Key(pk, kinder.New(k)))
			}
		}
		join(index.Tag, allOf)
		join(index.Search, tokenHashes)
	case len(allOf) > 0:
		q.plan = PlanTagsAll
		q.scans = [][]byte{index.Tag.Key(hash.New(allOf[0]))}
		join(index.Tag, allOf[1:])
		join(index.Search, tokenHashes)
	case hasAny:
		q.plan = PlanTags
		for _, v := range f.Tags[anyName] {
			q.scans = append(q.scans,
				index.Tag.Key(hash.New(b.hasher.Tag(anyName, v))))
		}
		join(index.Search, tokenHashes)
	case len(tokenHashes) > 0:
		q.plan = PlanSearch
		q.scans = [][]byte{index.Search.Key(hash.New(tokenHashes[0]))}
		join(index.Search, tokenHashes[1:])
	case f.Kinds != nil:
		q.plan = PlanKinds
		for _, k := range f.Kinds {
			q.scans = append(q.scans, index.Kind.Key(kinder.New(k)))
		}
	case b.Strategy.CreatedAtIndex:
		q.plan = PlanCreatedAt
		q.scans = [][]byte{index.CreatedAt.Key()}
	default:
		q.plan = PlanFullScan
		q.full = true
	}
	return
}
