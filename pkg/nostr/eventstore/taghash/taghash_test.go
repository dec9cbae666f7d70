package taghash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeterministic(t *testing.T) {
	a, b := New(Current), New(Current)
	assert.Equal(t, a.Tag("p", "alice"), b.Tag("p", "alice"))
	assert.Equal(t, Default.Token("cafe"), b.Token("cafe"))
	assert.Equal(t, a.Address(30000, "k", "x"), Default.Address(30000, "k", "x"))
}

func TestSeparation(t *testing.T) {
	h := Default
	// field boundaries are part of the hash
	assert.NotEqual(t, h.Tag("pa", "lice"), h.Tag("p", "alice"))
	assert.NotEqual(t, h.Tag("t", "cafe"), h.Token("cafe"))
	assert.NotEqual(t, h.Address(30000, "k", ""), h.Address(3000, "0k", ""))
	// the version changes every value
	assert.NotEqual(t, h.Tag("p", "alice"), New(Current+1).Tag("p", "alice"))
}
