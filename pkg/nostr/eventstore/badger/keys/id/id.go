// Package id is the full 32 byte event id as a key element.
package id

import (
	"bytes"
	"fmt"

	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventid"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys"
)

const Len = eventid.Len

type T struct {
	Val []byte
}

var _ keys.Element = &T{}

// New makes an id element from the hex id, or an empty one for reading if
// none is given. An id that does not decode is all zeroes.
func New[V eventid.T | string](evID ...V) (p *T) {
	p = &T{Val: make([]byte, Len)}
	if len(evID) < 1 || len(evID[0]) < 1 {
		return
	}
	copy(p.Val, eventid.T(evID[0]).Bytes())
	return
}

func (p *T) Write(buf *bytes.Buffer) {
	if len(p.Val) != Len {
		panic(fmt.Sprintln("must use New or initialize Val with len", Len))
	}
	buf.Write(p.Val)
}

func (p *T) Read(buf *bytes.Buffer) (el keys.Element) {
	// allow uninitialized struct
	if len(p.Val) != Len {
		p.Val = make([]byte, Len)
	}
	if n, err := buf.Read(p.Val); err != nil || n != Len {
		return nil
	}
	return p
}

func (p *T) Len() int { return Len }

func (p *T) EventID() eventid.T { return eventid.FromBytes(p.Val) }
