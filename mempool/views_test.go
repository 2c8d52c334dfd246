package mempool_test

import (
	"context"
	"fmt"
	"math/big"
	"testing"

	"github.com/NethermindEth/kakarot-relayer/mempool"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViews(t *testing.T) {
	f := newFixture(t, 16)
	ctx := context.Background()
	alice, bob := newKey(t), newKey(t)
	aliceAddr, bobAddr := crypto.PubkeyToAddress(alice.PublicKey), crypto.PubkeyToAddress(bob.PublicKey)

	for _, tx := range []*types.Transaction{
		dynamicFeeTx(alice, 2, 1),
		dynamicFeeTx(alice, 0, 1),
		dynamicFeeTx(bob, 7, 1),
		dynamicFeeTx(alice, 1, 1),
	} {
		require.NoError(t, f.pool.AddTransaction(ctx, tx))
	}
	creation := types.MustSignNewTx(bob, signer, &types.LegacyTx{
		Nonce:    8,
		GasPrice: big.NewInt(3),
		Gas:      53000,
		Value:    big.NewInt(0),
		Data:     []byte{0x60, 0x00},
	})
	require.NoError(t, f.pool.AddTransaction(ctx, creation))

	content := f.pool.Content()
	require.Len(t, content, 2)
	require.Len(t, content[aliceAddr], 3)
	for i, tx := range content[aliceAddr] {
		assert.Equal(t, uint64(i), tx.Nonce())
	}
	require.Len(t, content[bobAddr], 2)
	assert.Equal(t, uint64(7), content[bobAddr][0].Nonce())

	from := f.pool.ContentFrom(bobAddr)
	require.Len(t, from, 2)
	assert.Equal(t, creation.Hash(), from[1].Hash())
	assert.Empty(t, f.pool.ContentFrom(to))

	pending, queued := f.pool.Status()
	assert.Equal(t, 5, pending)
	assert.Zero(t, queued)

	inspect := f.pool.Inspect()
	assert.Equal(t, fmt.Sprintf("%s: 1 wei + 21000 gas × 1000 wei", to.Hex()), inspect[aliceAddr][0])
	assert.Equal(t, "contract creation: 0 wei + 53000 gas × 3 wei", inspect[bobAddr][8])

	t.Run("views are projections", func(t *testing.T) {
		content[aliceAddr] = nil
		assert.Len(t, f.pool.ContentFrom(aliceAddr), 3)
		assert.Equal(t, 5, f.pool.Len())
	})

	t.Run("removed transactions disappear", func(t *testing.T) {
		require.NoError(t, f.pool.Remove(creation.Hash()))
		assert.Len(t, f.pool.ContentFrom(bobAddr), 1)
		_, ok := f.pool.Inspect()[bobAddr][8]
		assert.False(t, ok)
	})
}

func TestOriginString(t *testing.T) {
	assert.Equal(t, "local", mempool.Local.String())
	assert.Equal(t, "unknown", mempool.Origin(0).String())
}
