package pubkey

import (
	"bytes"
	"fmt"

	"github.com/Hubmakerlabs/eventstore/pkg/hex"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys"
)

const (
	// Len is the pubkey prefix used in index keys.
	Len = 8
	// FullLen is a whole key, used where a prefix match is not good enough.
	FullLen = 32
)

type T struct {
	Val []byte
}

var _ keys.Element = &T{}

// New creates a new pubkey prefix, if parameter is omitted, new one is
// allocated (for read) if more than one is given, only the first is used, and
// if the first one is not the correct hexadecimal length of 64, return error.
func New(pk ...string) (p *T, err error) {
	if len(pk) < 1 {
		return &T{make([]byte, Len)}, nil
	}
	var b []byte
	if b, err = hex.DecLen(pk[0], FullLen); err != nil {
		err = fmt.Errorf("pubkey must be 64 hex chars, got %q", pk[0])
		return
	}
	return &T{Val: b[:Len]}, nil
}

// NewFull is the whole 32 byte key, for read if pk is omitted.
func NewFull(pk ...string) (p *T, err error) {
	if len(pk) < 1 {
		return &T{make([]byte, FullLen)}, nil
	}
	var b []byte
	if b, err = hex.DecLen(pk[0], FullLen); err != nil {
		err = fmt.Errorf("pubkey must be 64 hex chars, got %q", pk[0])
		return
	}
	return &T{Val: b}, nil
}

func (p *T) Write(buf *bytes.Buffer) {
	if p == nil {
		panic("nil pubkey")
	}
	if len(p.Val) != Len && len(p.Val) != FullLen {
		panic(fmt.Sprintln("must use New or NewFull, got len", len(p.Val)))
	}
	buf.Write(p.Val)
}

func (p *T) Read(buf *bytes.Buffer) (el keys.Element) {
	// allow uninitialized struct
	if len(p.Val) == 0 {
		p.Val = make([]byte, Len)
	}
	if n, err := buf.Read(p.Val); err != nil || n != len(p.Val) {
		return nil
	}
	return p
}

func (p *T) Len() int { return len(p.Val) }

func (p *T) Hex() string { return hex.Enc(p.Val) }
