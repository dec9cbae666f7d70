package badger

import (
	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"

	"github.com/Hubmakerlabs/eventstore/pkg/nostr/context"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/event"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventid"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys/hash"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys/index"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys/serial"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/kind"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/timestamp"
)

// identity is the state of one replaceable or addressable address: the newest
// version ever accepted, whether it is still stored, and how far back the
// author has deleted the address.
type identity struct {
	_          struct{} `cbor:",toarray"`
	Kind       uint16
	Pubkey     string
	D          string
	HasVersion bool
	CreatedAt  int64
	ID         string
	Live       bool
	Serial     uint64
	HasDeleted bool
	DeletedTo  int64
}

func (e *identity) is(a eventstore.Address) bool {
	return kind.T(e.Kind) == a.Kind && e.Pubkey == a.Pubkey && e.D == a.D
}

func (e *identity) current() *eventstore.Version {
	if !e.HasVersion {
		return nil
	}
	return &eventstore.Version{CreatedAt: timestamp.T(e.CreatedAt),
		ID: eventid.T(e.ID)}
}

func (e *identity) deletedUntil() *timestamp.T {
	if !e.HasDeleted {
		return nil
	}
	return timestamp.T(e.DeletedTo).Ptr()
}

// bucket is every identity sharing one address hash, almost always one.
// Reading and writing it on every replaceable insert also makes two racing
// inserts for the same address conflict.
type bucket struct {
	key     []byte
	entries []identity
}

func (b *Backend) addressKey(a eventstore.Address) []byte {
	return index.Address.Key(hash.New(b.hasher.Address(a.Kind, a.Pubkey, a.D)))
}

func (e *identity) address() eventstore.Address {
	return eventstore.Address{Kind: kind.T(e.Kind), Pubkey: e.Pubkey, D: e.D}
}

func (b *Backend) getBucket(txn *badger.Txn, a eventstore.Address) (bk *bucket,
	e *identity, err error) {

	bk = &bucket{key: b.addressKey(a)}
	var item *badger.Item
	if item, err = txn.Get(bk.key); notFound(err) {
		err = nil
	} else if err != nil {
		return
	} else if err = item.Value(func(v []byte) error {
		return cbor.Unmarshal(v, &bk.entries)
	}); chk.E(err) {
		return
	}
	for i := range bk.entries {
		if bk.entries[i].is(a) {
			return bk, &bk.entries[i], nil
		}
	}
	bk.entries = append(bk.entries, identity{
		Kind:   a.Kind.ToUint16(),
		Pubkey: a.Pubkey,
		D:      a.D,
	})
	e = &bk.entries[len(bk.entries)-1]
	return
}

func (b *Backend) putBucket(txn *badger.Txn, bk *bucket) (err error) {
	var v []byte
	if v, err = cbor.Marshal(bk.entries); chk.E(err) {
		return
	}
	return txn.Set(bk.key, v)
}

// identities reads every identity entry in the store.
func (b *Backend) identities(txn *badger.Txn) (all []identity, err error) {
	it := txn.NewIterator(badger.IteratorOptions{
		Prefix:         []byte{index.Address.B()},
		PrefetchValues: true,
	})
	defer it.Close()
	for it.Rewind(); it.Valid(); it.Next() {
		var entries []identity
		if err = it.Item().Value(func(v []byte) error {
			return cbor.Unmarshal(v, &entries)
		}); chk.E(err) {
			return
		}
		all = append(all, entries...)
	}
	return
}

// rekey groups identity entries into buckets under the current address hash.
func (b *Backend) rekey(all []identity) (buckets []*bucket) {
	byKey := make(map[string]*bucket)
	for _, e := range all {
		k := b.addressKey(e.address())
		bk, ok := byKey[string(k)]
		if !ok {
			bk = &bucket{key: k}
			byKey[string(k)] = bk
			buckets = append(buckets, bk)
		}
		bk.entries = append(bk.entries, e)
	}
	return
}

// unlinkIdentity marks the address of ev as having no stored version if ser
// is the stored one.
func (b *Backend) unlinkIdentity(txn *badger.Txn, ev *event.T,
	ser *serial.T) (err error) {

	a, ok := eventstore.AddressOf(ev)
	if !ok {
		return
	}
	var bk *bucket
	var e *identity
	if bk, e, err = b.getBucket(txn, a); err != nil {
		return
	}
	if !e.Live || e.Serial != ser.Uint64() {
		return
	}
	e.Live, e.Serial = false, 0
	return b.putBucket(txn, bk)
}

// HasAddress reports whether a version of the address is stored.
func (b *Backend) HasAddress(c context.T, k kind.T, pubkey,
	d string) (ok bool, err error) {

	if !k.IsAddressable() {
		d = ""
	}
	err = b.View(func(txn *badger.Txn) (err error) {
		var e *identity
		if _, e, err = b.getBucket(txn, eventstore.Address{Kind: k,
			Pubkey: pubkey, D: d}); err != nil {
			return
		}
		ok = e.Live
		return
	})
	return
}
