// Package hash is a 64 bit tag, token or address hash as a key element.
package hash

import (
	"bytes"
	"encoding/binary"

	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys"
)

const Len = 8

type T struct {
	Val uint64
}

var _ keys.Element = &T{}

func New(h uint64) (p *T) { return &T{Val: h} }

func (p *T) Write(buf *bytes.Buffer) {
	b := make([]byte, Len)
	binary.BigEndian.PutUint64(b, p.Val)
	buf.Write(b)
}

func (p *T) Read(buf *bytes.Buffer) (el keys.Element) {
	b := make([]byte, Len)
	if n, err := buf.Read(b); err != nil || n != Len {
		return nil
	}
	p.Val = binary.BigEndian.Uint64(b)
	return p
}

func (p *T) Len() int { return Len }
