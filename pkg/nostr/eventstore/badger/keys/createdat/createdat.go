package createdat

import (
	"bytes"
	"encoding/binary"

	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/timestamp"
)

const Len = 8

type T struct {
	Val timestamp.T
}

var _ keys.Element = &T{}

func New(c timestamp.T) (p *T) { return &T{Val: c} }

// FromKey reads the timestamp found at offset in k.
func FromKey(k []byte, offset int) (p *T) {
	return &T{Val: timestamp.FromBytes(k[offset : offset+Len])}
}

func (c *T) Write(buf *bytes.Buffer) {
	buf.Write(c.Val.Bytes())
}

func (c *T) Read(buf *bytes.Buffer) (el keys.Element) {
	b := make([]byte, Len)
	if n, err := buf.Read(b); err != nil || n != Len {
		return nil
	}
	c.Val = timestamp.FromUnix(int64(binary.BigEndian.Uint64(b)))
	return c
}

func (c *T) Len() int { return Len }
