package app

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Hubmakerlabs/eventstore/pkg/nostr/context"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventid"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/filter"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/timestamp"
	"github.com/Hubmakerlabs/eventstore/pkg/units"
)

// BackendConfig is the store configuration the settings describe.
func (c *Config) BackendConfig() (bc badger.Config, err error) {
	bc = badger.DefaultConfig(c.DataDir)
	if c.Strategy != "" {
		if bc.Strategy, err = badger.ParseStrategy(c.Strategy); chk.E(err) {
			return
		}
	}
	bc.Scope = c.Scope
	if c.MaxLimit != nil {
		bc.MaxLimit = *c.MaxLimit
	}
	if c.BlockCache > 0 {
		bc.BlockCacheSize = c.BlockCache * units.Mb
	}
	if c.RecordCache > 0 {
		bc.RecordCacheSize = int64(c.RecordCache) * units.Mb
	}
	return
}

// Run opens the store and carries out the subcommand, writing results to out.
func Run(c context.T, cfg *Config, in io.Reader, out io.Writer) (err error) {
	var bc badger.Config
	if bc, err = cfg.BackendConfig(); err != nil {
		return
	}
	db := badger.New(c, bc)
	if err = db.Init(); chk.E(err) {
		return log.E.Err("unable to start database: '%s'", err)
	}
	defer func() { chk.E(db.Close()) }()
	switch {
	case cfg.ImportCmd != nil:
		return Import(c, db, cfg.ImportCmd.FromFile, in)
	case cfg.ExportCmd != nil:
		return Export(c, db, cfg.ExportCmd.ToFile, out)
	case cfg.QueryCmd != nil:
		return Query(c, db, cfg.QueryCmd.Filters, out)
	case cfg.CountCmd != nil:
		var fs filter.Ts
		if fs, err = parseFilters(cfg.CountCmd.Filters); err != nil {
			return
		}
		var n int
		if n, err = db.CountEvents(c, fs...); chk.E(err) {
			return
		}
		_, err = fmt.Fprintln(out, n)
	case cfg.DeleteCmd != nil:
		return Delete(c, db, cfg.DeleteCmd, out)
	case cfg.VanishCmd != nil:
		v := cfg.VanishCmd
		cutoff := timestamp.Now()
		if v.Cutoff > 0 {
			cutoff = timestamp.FromUnix(v.Cutoff)
		}
		var n int
		if n, err = db.Vanish(c, v.Author, v.Scope, cutoff); chk.E(err) {
			return
		}
		_, err = fmt.Fprintf(out, "removed %d events\n", n)
	case cfg.SweepCmd != nil:
		var n int
		if n, err = db.SweepExpired(c); chk.E(err) {
			return
		}
		_, err = fmt.Fprintf(out, "swept %d expired events\n", n)
	case cfg.StatsCmd != nil:
		var st badger.Stats
		if st, err = db.Stats(); chk.E(err) {
			return
		}
		_, err = fmt.Fprintln(out, st)
	case cfg.Wipe != nil:
		return db.Wipe()
	}
	return
}

func parseFilters(args []string) (fs filter.Ts, err error) {
	for _, a := range args {
		f := &filter.T{}
		if err = json.Unmarshal([]byte(a), f); err != nil {
			return nil, log.E.Err("bad filter %s: %w", a, err)
		}
		fs = append(fs, f)
	}
	return
}

// Query prints the events matching the filters, one JSON object per line.
func Query(c context.T, db *badger.Backend, args []string,
	out io.Writer) (err error) {

	var fs filter.Ts
	if fs, err = parseFilters(args); err != nil {
		return
	}
	evs, err := db.QueryEvents(c, fs...)
	if chk.E(err) {
		return
	}
	w := bufio.NewWriter(out)
	for _, ev := range evs {
		if _, err = w.Write(ev.Serialize()); chk.E(err) {
			return
		}
		if err = w.WriteByte('\n'); chk.E(err) {
			return
		}
	}
	return w.Flush()
}

// Import a collection of JSON events from stdin or from one or more files, line
// structured JSON.
func Import(c context.T, db *badger.Backend, files []string,
	in io.Reader) (err error) {

	log.D.Ln("running import subcommand on these files:", files)
	total := make(eventstore.ImportResult)
	add := func(r io.Reader) (err error) {
		var res eventstore.ImportResult
		res, err = db.Import(c, r)
		for reason, n := range res {
			total[reason] += n
		}
		return
	}
	if len(files) == 0 {
		if err = add(in); chk.E(err) {
			return
		}
	}
	for i := range files {
		var fh *os.File
		if fh, err = os.Open(files[i]); chk.E(err) {
			return
		}
		err = add(fh)
		chk.D(fh.Close())
		if chk.E(err) {
			return
		}
	}
	for reason, n := range total {
		log.I.F("%s: %d", reason, n)
	}
	return
}

// Export writes every stored event as JSON to a file or to out.
func Export(c context.T, db *badger.Backend, filename string,
	out io.Writer) (err error) {

	log.D.Ln("running export subcommand")
	if filename != "" {
		var fh *os.File
		if fh, err = os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_TRUNC,
			0644); chk.E(err) {
			return
		}
		defer func() { chk.E(fh.Close()) }()
		out = fh
	}
	return db.Export(c, out)
}

// Delete removes events and addresses on behalf of their author.
func Delete(c context.T, db *badger.Backend, d *DeleteCmd,
	out io.Writer) (err error) {

	var ids []eventid.T
	for _, s := range d.IDs {
		var id eventid.T
		if id, err = eventid.New(s); err != nil {
			return log.E.Err("bad event id %s: %w", s, err)
		}
		ids = append(ids, id)
	}
	var addrs []eventstore.Address
	for _, s := range d.Addresses {
		a, ok := eventstore.ParseAddress(s)
		if !ok {
			return log.E.Err("bad address %s", s)
		}
		addrs = append(addrs, a)
	}
	at := timestamp.Now()
	if d.At > 0 {
		at = timestamp.FromUnix(d.At)
	}
	var n int
	if n, err = db.DeleteEvents(c, d.Requester, ids, addrs, at); chk.E(err) {
		return
	}
	_, err = fmt.Fprintf(out, "deleted %d events\n", n)
	return
}
