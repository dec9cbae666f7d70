package badger

import (
	"github.com/dgraph-io/badger/v4"

	"github.com/Hubmakerlabs/eventstore/pkg/nostr/context"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys/createdat"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys/index"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys/serial"
)

// SweepExpired removes every event whose expiration is at or before the
// current time, in batches of one transaction each. Queries already hide such
// events, this reclaims their space.
func (b *Backend) SweepExpired(c context.T) (n int, err error) {
	now := b.now()
	prefix := []byte{index.Expiry.B()}
	for !b.done(c) {
		var removed int
		if err = b.Update(func(txn *badger.Txn) (err error) {
			var sers []*serial.T
			it := txn.NewIterator(badger.IteratorOptions{Prefix: prefix})
			for it.Rewind(); it.Valid() && len(sers) < sweepBatch; it.Next() {
				k := it.Item().Key()
				if createdat.FromKey(k, PrefixLen).Val > now {
					break
				}
				sers = append(sers, serial.FromKey(k))
			}
			it.Close()
			for _, ser := range sers {
				if err = b.remove(txn, ser); err != nil {
					return
				}
			}
			removed = len(sers)
			return
		}); chk.E(err) {
			return
		}
		n += removed
		if removed < sweepBatch {
			break
		}
	}
	if n > 0 {
		log.I.F("swept %d expired events", n)
	}
	return
}
