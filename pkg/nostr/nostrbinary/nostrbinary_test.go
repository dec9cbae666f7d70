package nostrbinary_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hubmakerlabs/eventstore/pkg/nostr/event"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/event/eventest"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/nostrbinary"
)

func TestBinaryEvents(t *testing.T) {
	g := eventest.NewGenerator(3)
	for i := 0; i < 200; i++ {
		ev := g.Random()
		b, err := nostrbinary.Marshal(ev)
		require.NoError(t, err)
		var out *event.T
		out, err = nostrbinary.Unmarshal(b)
		require.NoError(t, err)
		assert.Equal(t, ev.Serialize(), out.Serialize())
		assert.True(t, out.CheckID())
	}
}

func TestRejectsBadHex(t *testing.T) {
	ev := eventest.NewGenerator(1).Random()
	ev.PubKey = "zz" + ev.PubKey[2:]
	_, err := nostrbinary.Marshal(ev)
	assert.Error(t, err)
}
