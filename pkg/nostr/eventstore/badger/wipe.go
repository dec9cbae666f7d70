package badger

import (
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys/index"
)

// Wipe deletes every event, index and guard, and records the layout again so
// the store can go on being used.
func (b *Backend) Wipe() (err error) {
	b.WG.Wait()
	if err = b.DB.DropPrefix(index.GetAsBytes(index.All...)...); chk.E(err) {
		return
	}
	b.cache.Clear()
	log.I.Ln("wiped event store")
	return b.runMigrations()
}
