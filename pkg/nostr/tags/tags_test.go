package tags

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hubmakerlabs/eventstore/pkg/nostr/tag"
)

func TestContains(t *testing.T) {
	tt := T{
		{"t", "nostr"},
		{"t", "go"},
		{"p", "abc", "wss://relay"},
		{"x"},
	}
	assert.True(t, tt.ContainsAny("t", "rust", "go"))
	assert.False(t, tt.ContainsAny("t", "rust"))
	assert.False(t, tt.ContainsAny("x", ""))
	assert.True(t, tt.ContainsAll("t", "nostr", "go"))
	assert.False(t, tt.ContainsAll("t", "nostr", "rust"))
	assert.Equal(t, []string{"nostr", "go"}, tt.Values("t"))
	assert.Len(t, tt.GetAll("t"), 2)
}

func TestReserved(t *testing.T) {
	tt := T{{"d", "profile"}, {"d", "second"}}
	assert.Equal(t, "profile", tt.D())
	assert.Equal(t, "", T{{"d"}}.D())
	assert.Equal(t, "", T{}.D())

	exp, ok, err := T{{"expiration", "1700000000"}}.Expiration()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(1700000000), exp)

	_, ok, err = T{{"expiration", "soon"}}.Expiration()
	assert.True(t, ok)
	assert.ErrorIs(t, err, ErrBadExpiration)

	_, ok, err = T{tag.T{"e", "x"}}.Expiration()
	assert.False(t, ok)
	assert.NoError(t, err)
}
