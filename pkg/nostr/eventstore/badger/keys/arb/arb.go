package arb

import (
	"bytes"

	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys"
)

// T is an arbitrary length byte string. In any construction there can only be
// one with arbitrary length, and it has to be the last element for a key to
// be read back.
type T struct {
	Val []byte
}

var _ keys.Element = &T{}

func New(b []byte) (p *T) { return &T{Val: b} }

func NewFromString(s string) (p *T) { return New([]byte(s)) }

func (p *T) Write(buf *bytes.Buffer) { buf.Write(p.Val) }

// Read takes the remainder of the buffer.
func (p *T) Read(buf *bytes.Buffer) (el keys.Element) {
	p.Val = make([]byte, buf.Len())
	copy(p.Val, buf.Bytes())
	buf.Reset()
	return p
}

func (p *T) Len() int {
	if p == nil {
		panic("uninitialized pointer to arb.T")
	}
	return len(p.Val)
}

func (p *T) String() string { return string(p.Val) }
