// package keys_test needs to be a different package name or the implementation
// types imports will circular
package keys_test

import (
	"bytes"
	"testing"

	"github.com/minio/sha256-simd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lukechampine.com/frand"

	"github.com/Hubmakerlabs/eventstore/pkg/hex"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventid"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys/arb"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys/createdat"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys/hash"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys/id"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys/index"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys/kinder"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys/pubkey"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys/rid"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/eventstore/badger/keys/serial"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/kind"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/timestamp"
)

func TestElement(t *testing.T) {
	// construct a typical key type of structure
	vp := index.New(index.TagKP)
	i, err := eventid.New(hex.Enc(frand.Bytes(sha256.Size)))
	require.NoError(t, err)
	vid := id.New(i)
	vk := kinder.New(kind.T(1059))
	var vpk *pubkey.T
	vpk, err = pubkey.New(hex.Enc(frand.Bytes(32)))
	require.NoError(t, err)
	vh := hash.New(frand.Uint64n(1 << 63))
	vca := createdat.New(timestamp.Now())
	vr := rid.New(i)
	vs := serial.New(frand.Bytes(serial.Len))
	b := keys.Write(vp, vid, vh, vk, vpk, vca, vr, vs)
	assert.Len(t, b, 1+32+8+2+8+8+8+8)

	vp2, vid2, vh2, vk2 := index.New(0), id.New(""), hash.New(0), kinder.New(0)
	vpk2, _ := pubkey.New()
	vca2, vr2, vs2 := createdat.New(0), &rid.T{}, serial.New(nil)
	keys.Read(b, vp2, vid2, vh2, vk2, vpk2, vca2, vr2, vs2)
	assert.Equal(t, vp.Val, vp2.Val)
	assert.Equal(t, vid.Val, vid2.Val)
	assert.Equal(t, i, vid2.EventID())
	assert.Equal(t, vh.Val, vh2.Val)
	assert.Equal(t, vk.Val, vk2.Val)
	assert.Equal(t, vpk.Val, vpk2.Val)
	assert.Equal(t, vca.Val, vca2.Val)
	assert.Equal(t, vr.Val, vr2.Val)
	assert.Equal(t, vs.Val, vs2.Val)
	assert.Equal(t, vs.Val, serial.FromKey(b).Val)
	assert.Equal(t, vca.Val, createdat.FromKey(b, 1+32+8+2+8).Val)
}

func TestFullPubkeyAndArb(t *testing.T) {
	pk := hex.Enc(frand.Bytes(32))
	full, err := pubkey.NewFull(pk)
	require.NoError(t, err)
	b := index.Meta.Key(full, arb.NewFromString("strategy"))
	out, _ := pubkey.NewFull()
	a := &arb.T{}
	keys.Read(b, index.Empty(), out, a)
	assert.Equal(t, pk, out.Hex())
	assert.Equal(t, "strategy", a.String())
	_, err = pubkey.New("abc")
	assert.Error(t, err)
}

func TestRidOrder(t *testing.T) {
	// ascending ids must give descending rid bytes
	lo := eventid.T("00" + hex.Enc(frand.Bytes(31)))
	hi := eventid.T("ff" + hex.Enc(frand.Bytes(31)))
	assert.Equal(t, 1, bytes.Compare(rid.New(lo).Val, rid.New(hi).Val))
}
