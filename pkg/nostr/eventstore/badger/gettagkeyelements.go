package badger

import (
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/event"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/tag"
)

// indexable reports whether the strategy puts t in the tag index.
func (b *Backend) indexable(t tag.T) bool {
	if !t.Indexable() {
		return false
	}
	return b.Strategy.AllTags || t.IsSingleLetter()
}

// indexableName is indexable for a tag name as used in a filter.
func (b *Backend) indexableName(name string) bool {
	return b.indexable(tag.T{name, ""})
}

// tagHashes returns the distinct hashes of the indexable tags of ev.
func (b *Backend) tagHashes(ev *event.T) (hs []uint64) {
	seen := make(map[uint64]struct{}, len(ev.Tags))
	for _, t := range ev.Tags {
		if !b.indexable(t) {
			continue
		}
		h := b.hasher.Tag(t.Key(), t.Value())
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		hs = append(hs, h)
	}
	return
}
