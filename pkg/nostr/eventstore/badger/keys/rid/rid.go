// Package rid is the inverted id prefix written after the timestamp in ordered
// index keys. Inverting it means a reverse scan visits ids within the same
// second in ascending order.
package rid

import (
	"bytes"
	"fmt"

	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventid"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys"
)

const Len = 8

type T struct {
	Val []byte
}

var _ keys.Element = &T{}

func New(evID eventid.T) (p *T) {
	p = &T{Val: make([]byte, Len)}
	copy(p.Val, evID.Bytes())
	for i := range p.Val {
		p.Val[i] = ^p.Val[i]
	}
	return
}

func (p *T) Write(buf *bytes.Buffer) {
	if len(p.Val) != Len {
		panic(fmt.Sprintln("must use New or initialize Val with len", Len))
	}
	buf.Write(p.Val)
}

func (p *T) Read(buf *bytes.Buffer) (el keys.Element) {
	if len(p.Val) != Len {
		p.Val = make([]byte, Len)
	}
	if n, err := buf.Read(p.Val); err != nil || n != Len {
		return nil
	}
	return p
}

func (p *T) Len() int { return Len }
