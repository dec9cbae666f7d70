package badger

import (
	"bufio"
	"encoding/json"
	"io"

	"github.com/dgraph-io/badger/v4"

	"github.com/Hubmakerlabs/eventstore/pkg/nostr/context"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/event"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore"
	"github.com/Hubmakerlabs/eventstore/pkg/units"
)

// MaxLineSize is the longest line of JSON Import accepts.
const MaxLineSize = 4 * units.Mb

// Export writes every stored event that has not expired as a line of JSON, in
// the order they were stored.
func (b *Backend) Export(c context.T, w io.Writer) (err error) {
	now := b.now()
	bw := bufio.NewWriter(w)
	var count int
	err = b.View(func(txn *badger.Txn) (err error) {
		return b.scanRecords(txn, func(ser uint64, ev *event.T) (err error) {
			if expired(ev, now) {
				return
			}
			if b.done(c) {
				return context.Canceled
			}
			if _, err = bw.Write(ev.Serialize()); err != nil {
				return
			}
			count++
			return bw.WriteByte('\n')
		})
	})
	if err != nil {
		return
	}
	if err = bw.Flush(); chk.E(err) {
		return
	}
	log.I.F("exported %d events", count)
	return
}

// Import saves every line of JSON read from r as an event and counts what
// became of them. Lines that do not decode, or whose id is not the hash of
// the event, are counted as malformed.
func (b *Backend) Import(c context.T, r io.Reader) (res eventstore.ImportResult,
	err error) {

	res = make(eventstore.ImportResult)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*units.Kb), MaxLineSize)
	for scanner.Scan() {
		if b.done(c) {
			return res, context.Canceled
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		ev := &event.T{}
		if err = json.Unmarshal(line, ev); chk.D(err) {
			res[eventstore.Malformed]++
			continue
		}
		if !ev.CheckID() {
			log.D.F("id mismatch got %s, expected %s", ev.ID, ev.GetID())
			res[eventstore.Malformed]++
			continue
		}
		err = b.SaveEvent(c, ev)
		reason := eventstore.ReasonOf(err)
		if reason == eventstore.Failed {
			return
		}
		res[reason]++
	}
	if err = scanner.Err(); chk.E(err) {
		return
	}
	log.I.F("imported %d events, %d refused", res[eventstore.Accepted],
		res.Refused())
	return res, nil
}
