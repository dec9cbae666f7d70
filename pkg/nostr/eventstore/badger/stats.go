package badger

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/dustin/go-humanize"

	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys/index"
)

// Stats is a summary of what the store holds.
type Stats struct {
	Events   int
	Strategy Strategy
	// LSM and VLog are the sizes of badger's tables and value log in bytes.
	LSM, VLog int64
}

func (s Stats) String() string {
	return fmt.Sprintf("%d events, strategy %s, lsm %s, vlog %s", s.Events,
		s.Strategy, humanize.IBytes(uint64(s.LSM)),
		humanize.IBytes(uint64(s.VLog)))
}

// Stats counts the stored event records, expired ones not yet swept included.
func (b *Backend) Stats() (s Stats, err error) {
	s.Strategy = b.Strategy
	s.LSM, s.VLog = b.DB.Size()
	prefix := []byte{index.Event.B()}
	err = b.View(func(txn *badger.Txn) (err error) {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: prefix})
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			s.Events++
		}
		return
	})
	return
}
