// Package badger is the badger backed event store: event records keyed by a
// serial, time ordered secondary indexes pointing at them, and identity,
// tombstone and vanish records enforcing the acceptance rules.
package badger

import (
	"errors"
	"os"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/dgraph-io/ristretto"
	"github.com/dustin/go-humanize"

	"github.com/Hubmakerlabs/eventstore/pkg/nostr/context"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys/index"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys/serial"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/taghash"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/timestamp"
	"github.com/Hubmakerlabs/eventstore/pkg/slog"
	"github.com/Hubmakerlabs/eventstore/pkg/units"
)

var log, chk = slog.New(os.Stderr)

var _ eventstore.Store = (*Backend)(nil)

// Config is how a Backend is opened.
type Config struct {
	// Path is the database directory, ignored when InMemory is set.
	Path     string
	InMemory bool
	// Strategy is the index layout. Opening an existing store with a
	// different one rebuilds the indexes.
	Strategy Strategy
	// Scope is the relay URL vanish requests are matched against.
	Scope string
	// MaxLimit caps the number of events a query returns after the filters
	// are merged, 0 is no cap.
	MaxLimit int
	// BlockCacheSize is badger's block cache in bytes.
	BlockCacheSize int
	// RecordCacheSize is the budget in bytes of decoded events kept in memory.
	RecordCacheSize int64
	// Clock is the time used for expiration, timestamp.Now if nil.
	Clock timestamp.Clock
	// LogLevel is how much of badger's own logging is shown.
	LogLevel int
}

// DefaultConfig is a disk store at path with the default strategy.
func DefaultConfig(path string) Config {
	return Config{
		Path:            path,
		Strategy:        DefaultStrategy,
		BlockCacheSize:  64 * units.Mb,
		RecordCacheSize: 64 * units.Mb,
		LogLevel:        slog.Warn,
	}
}

type Backend struct {
	Ctx context.T
	WG  sync.WaitGroup
	Config
	// DB is the badger db interface
	*badger.DB
	// seq is the monotonic collision free index for raw event storage.
	seq    *badger.Sequence
	hasher taghash.Hasher
	// cache holds decoded events by serial.
	cache *ristretto.Cache
}

// New returns a Backend that is ready to Init.
//
// Note that the cancel function for the context needs to be managed by the
// caller.
func New(c context.T, cfg Config) (b *Backend) {
	if c == nil {
		c = context.Bg()
	}
	if cfg.Clock == nil {
		cfg.Clock = timestamp.Now
	}
	b = &Backend{
		Ctx:    c,
		Config: cfg,
		hasher: taghash.Default,
	}
	return
}

func (b *Backend) Init() (err error) {
	opts := badger.DefaultOptions(b.Path)
	if b.InMemory {
		log.I.Ln("opening in memory badger event store")
		opts = opts.WithInMemory(true).WithDir("").WithValueDir("")
	} else {
		log.I.Ln("opening badger event store at", b.Path)
	}
	if b.BlockCacheSize > 0 {
		opts.BlockCacheSize = int64(b.BlockCacheSize)
	}
	opts.Compression = options.ZSTD
	opts.Logger = logger{b.LogLevel, "badger"}
	if b.DB, err = badger.Open(opts); chk.E(err) {
		return err
	}
	if b.seq, err = b.DB.GetSequence([]byte("events"), 1000); chk.E(err) {
		return err
	}
	if b.RecordCacheSize <= 0 {
		b.RecordCacheSize = 16 * units.Mb
	}
	if b.cache, err = ristretto.NewCache(&ristretto.Config{
		NumCounters: b.RecordCacheSize / 64,
		MaxCost:     b.RecordCacheSize,
		BufferItems: 64,
	}); chk.E(err) {
		return err
	}
	log.D.F("record cache %s, block cache %s",
		humanize.IBytes(uint64(b.RecordCacheSize)),
		humanize.IBytes(uint64(opts.BlockCacheSize)))
	if err = b.runMigrations(); chk.E(err) {
		return log.E.Err("error running migrations: %w; %s", err, b.Path)
	}
	return nil
}

// Close waits for running writes and closes the database.
func (b *Backend) Close() (err error) {
	b.WG.Wait()
	if b.seq != nil {
		chk.E(b.seq.Release())
	}
	if b.cache != nil {
		b.cache.Close()
	}
	if b.DB != nil {
		err = b.DB.Close()
	}
	return
}

// Hasher is the tag hasher the indexes are built with.
func (b *Backend) Hasher() taghash.Hasher { return b.hasher }

func (b *Backend) now() timestamp.T { return b.Clock() }

// SerialKey returns a key used for storing events, and the serial to copy
// into index keys.
func (b *Backend) SerialKey() (idx []byte, ser *serial.T, err error) {
	var s uint64
	if s, err = b.seq.Next(); chk.E(err) {
		return
	}
	ser = serial.FromUint64(s)
	return index.Event.Key(ser), ser, nil
}

// done is true when either the caller or the backend context is cancelled.
func (b *Backend) done(c context.T) bool {
	select {
	case <-c.Done():
		return true
	case <-b.Ctx.Done():
		return true
	default:
	}
	return false
}

func (b *Backend) Update(fn func(txn *badger.Txn) (err error)) (err error) {
	b.WG.Add(1)
	defer b.WG.Done()
	err = b.DB.Update(fn)
	return
}

// updateRetry is Update run again, up to maxConflicts times, while it conflicts
// with a transaction that committed first.
func (b *Backend) updateRetry(what string,
	fn func(txn *badger.Txn) (err error)) (err error) {

	for i := 0; i < maxConflicts; i++ {
		if err = b.Update(fn); !errors.Is(err, badger.ErrConflict) {
			return
		}
		log.D.F("%s conflicted, attempt %d", what, i+1)
	}
	return
}

func (b *Backend) View(fn func(txn *badger.Txn) (err error)) (err error) {
	err = b.DB.View(fn)
	return
}
