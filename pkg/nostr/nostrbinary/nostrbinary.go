// Package nostrbinary is the compact CBOR record an event is stored as: ids,
// keys and signature as raw bytes, the rest as is.
package nostrbinary

import (
	"errors"
	"fmt"
	"os"

	"github.com/fxamacker/cbor/v2"

	"github.com/Hubmakerlabs/eventstore/pkg/hex"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/event"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventid"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/kind"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/tag"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/tags"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/timestamp"
	"github.com/Hubmakerlabs/eventstore/pkg/slog"
)

var log, chk = slog.New(os.Stderr)

// Event is the stored form. Fields are encoded positionally.
type Event struct {
	_         struct{} `cbor:",toarray"`
	ID        [eventid.Len]byte
	PubKey    [32]byte
	CreatedAt int64
	Kind      uint16
	Tags      [][]string
	Content   string
	Sig       []byte
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	if encMode, err = cbor.CoreDetEncOptions().EncMode(); chk.E(err) {
		panic(err)
	}
	if decMode, err = (cbor.DecOptions{
		MaxArrayElements: 1 << 20,
	}).DecMode(); chk.E(err) {
		panic(err)
	}
}

// FromEventT converts an event.T into an Event, checking the hex fields are
// correctly formed.
func FromEventT(ev *event.T) (evb *Event, err error) {
	if ev == nil {
		err = errors.New("nil event")
		return
	}
	evb = &Event{
		CreatedAt: ev.CreatedAt.I64(),
		Kind:      ev.Kind.ToUint16(),
		Content:   ev.Content,
	}
	var b []byte
	if b, err = hex.DecLen(string(ev.ID), eventid.Len); err != nil {
		err = fmt.Errorf("invalid event id %q", ev.ID)
		return
	}
	copy(evb.ID[:], b)
	if b, err = hex.DecLen(ev.PubKey, 32); err != nil {
		err = fmt.Errorf("invalid event pubkey %q", ev.PubKey)
		return
	}
	copy(evb.PubKey[:], b)
	if evb.Sig, err = hex.Dec(ev.Sig); err != nil {
		err = fmt.Errorf("invalid event signature %q", ev.Sig)
		return
	}
	evb.Tags = make([][]string, len(ev.Tags))
	for i := range ev.Tags {
		evb.Tags[i] = ev.Tags[i]
	}
	return
}

// ToEventT is the reverse of FromEventT.
func (evb *Event) ToEventT() (ev *event.T) {
	ev = &event.T{
		ID:        eventid.FromBytes(evb.ID[:]),
		PubKey:    hex.Enc(evb.PubKey[:]),
		CreatedAt: timestamp.T(evb.CreatedAt),
		Kind:      kind.T(evb.Kind),
		Tags:      make(tags.T, len(evb.Tags)),
		Content:   evb.Content,
		Sig:       hex.Enc(evb.Sig),
	}
	for i := range evb.Tags {
		ev.Tags[i] = tag.T(evb.Tags[i])
	}
	return
}

// Marshal encodes an event to its stored form.
func Marshal(ev *event.T) (b []byte, err error) {
	var evb *Event
	if evb, err = FromEventT(ev); err != nil {
		return
	}
	return encMode.Marshal(evb)
}

// Unmarshal decodes a stored record.
func Unmarshal(b []byte) (ev *event.T, err error) {
	evb := &Event{}
	if err = decMode.Unmarshal(b, evb); chk.E(err) {
		return
	}
	ev = evb.ToEventT()
	return
}
