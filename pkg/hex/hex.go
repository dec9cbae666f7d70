// Package hex is a shorthand for the hexadecimal codec used for event ids,
// public keys and signatures.
package hex

import (
	"encoding/hex"
)

var (
	Enc = hex.EncodeToString
	Dec = hex.DecodeString
)

// DecLen decodes s and returns an error if the result is not exactly n bytes.
func DecLen(s string, n int) (b []byte, err error) {
	if len(s) != n*2 {
		return nil, hex.InvalidByteError(0)
	}
	if b, err = hex.DecodeString(s); err != nil {
		return nil, err
	}
	return
}

// IsLower reports whether s has no upper case hex digits. Ids and keys are
// compared as strings, so only the lower case form is accepted.
func IsLower(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'F' {
			return false
		}
	}
	return true
}
