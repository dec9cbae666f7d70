package eventid

import (
	"fmt"

	"github.com/Hubmakerlabs/eventstore/pkg/hex"
)

// Len is the length of a raw event id in bytes.
const Len = 32

// T is the SHA256 hash in hexadecimal of the canonical form of an event.
type T string

func (ei T) String() string { return string(ei) }

// Bytes decodes the id, returning nil if it is not valid hex.
func (ei T) Bytes() (b []byte) {
	var err error
	if b, err = hex.Dec(string(ei)); err != nil {
		return nil
	}
	return
}

// New inspects a string and ensures it is a valid, 64 character long
// hexadecimal string, returns the string coerced to the type.
func New(s string) (ei T, err error) {
	ei = T(s)
	if err = ei.Validate(); err != nil {
		ei = ""
	}
	return
}

// FromBytes encodes a raw 32 byte id.
func FromBytes(b []byte) T { return T(hex.Enc(b)) }

// Validate checks the T string is valid lower case hex and 64 characters long.
func (ei T) Validate() (err error) {
	if len(ei) != Len*2 {
		return fmt.Errorf("event ID invalid length: got %d expect %d",
			len(ei), Len*2)
	}
	if _, err = hex.Dec(string(ei)); err != nil {
		return
	}
	if !hex.IsLower(string(ei)) {
		return fmt.Errorf("event ID %s is not lower case", ei)
	}
	return
}
