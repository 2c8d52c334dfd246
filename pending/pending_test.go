package pending_test

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/NethermindEth/kakarot-relayer/db"
	"github.com/NethermindEth/kakarot-relayer/db/pebble"
	"github.com/NethermindEth/kakarot-relayer/mempool"
	"github.com/NethermindEth/kakarot-relayer/mocks"
	"github.com/NethermindEth/kakarot-relayer/pending"
	"github.com/NethermindEth/kakarot-relayer/utils"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var chainID = big.NewInt(1263227476)

type releaser struct {
	mu       sync.Mutex
	released []common.Hash
}

func (r *releaser) Release(hash common.Hash) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.released = append(r.released, hash)
}

func setup(t *testing.T, n int) (db.DB, *mempool.Pool, []common.Hash) {
	t.Helper()

	testDB := pebble.NewMemTest(t)
	pool, err := mempool.New(testDB, mempool.NewValidator(), chainID, 64, utils.NewNopZapLogger())
	require.NoError(t, err)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	to := common.HexToAddress("0x1111111111111111111111111111111111111111")

	hashes := make([]common.Hash, 0, n)
	for i := range n {
		tx := types.MustSignNewTx(key, types.LatestSignerForChainID(chainID), &types.LegacyTx{
			Nonce:    uint64(i),
			GasPrice: big.NewInt(1),
			Gas:      21000,
			To:       &to,
		})
		require.NoError(t, pool.AddTransaction(context.Background(), tx))
		hashes = append(hashes, tx.Hash())
	}
	return testDB, pool, hashes
}

// dump returns the persisted pending records as raw bytes.
func dump(t *testing.T, database db.DB) map[string][]byte {
	t.Helper()

	content := make(map[string][]byte)
	require.NoError(t, database.View(func(txn db.Transaction) error {
		it, err := txn.NewIterator(db.PendingTx.Key())
		if err != nil {
			return err
		}
		for it.Next() {
			value, err := it.Value()
			if err != nil {
				return errors.Join(err, it.Close())
			}
			content[string(it.Key())] = append([]byte(nil), value...)
		}
		return it.Close()
	}))
	return content
}

func TestSweep(t *testing.T) {
	ctx := context.Background()
	testDB, pool, hashes := setup(t, 3)
	_, err := pool.MarkSubmitted(hashes[0])
	require.NoError(t, err)

	index := mocks.NewMockConfirmedIndex(gomock.NewController(t))
	rel := &releaser{}
	var unresolvedGauge int
	handler := pending.New(pool, index, rel, time.Second, utils.NewNopZapLogger()).
		WithListener(&pending.SelectiveListener{
			OnSweepCb: func(unresolved int, _ time.Duration) { unresolvedGauge = unresolved },
		})

	t.Run("sweeps without confirmations change nothing", func(t *testing.T) {
		index.EXPECT().IsConfirmed(ctx, gomock.Any()).Return(false, nil).Times(6)

		before := dump(t, testDB)
		recordsBefore := pool.Records()
		require.Len(t, before, 3)

		for range 2 {
			result := handler.Sweep(ctx)
			assert.Equal(t, pending.SweepResult{Unresolved: 3}, result)
		}
		assert.Equal(t, before, dump(t, testDB))
		assert.Equal(t, recordsBefore, pool.Records())
		assert.Equal(t, 3, unresolvedGauge)
		assert.Empty(t, rel.released)
	})

	t.Run("confirmed transactions are pruned and released", func(t *testing.T) {
		index.EXPECT().IsConfirmed(ctx, hashes[0]).Return(true, nil)
		index.EXPECT().IsConfirmed(ctx, hashes[1]).Return(false, nil)
		index.EXPECT().IsConfirmed(ctx, hashes[2]).Return(true, nil)

		result := handler.Sweep(ctx)
		assert.Equal(t, pending.SweepResult{Confirmed: 2, Unresolved: 1}, result)
		assert.Equal(t, 1, pool.Len())
		assert.True(t, pool.Has(hashes[1]))
		assert.ElementsMatch(t, []common.Hash{hashes[0], hashes[2]}, rel.released)
		assert.Len(t, dump(t, testDB), 1)
		assert.Equal(t, 1, unresolvedGauge)
	})

	t.Run("lookup failures are skipped", func(t *testing.T) {
		index.EXPECT().IsConfirmed(ctx, hashes[1]).Return(false, errors.New("index unavailable"))

		result := handler.Sweep(ctx)
		assert.Equal(t, pending.SweepResult{Failed: 1}, result)
		assert.True(t, pool.Has(hashes[1]))
	})
}

func TestDatabaseError(t *testing.T) {
	cause := errors.New("connection reset")
	err := error(&pending.DatabaseError{Hash: common.Hash{1}, Err: cause})
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), common.Hash{1}.Hex())
}

func TestRun(t *testing.T) {
	_, pool, hashes := setup(t, 1)
	index := mocks.NewMockConfirmedIndex(gomock.NewController(t))
	index.EXPECT().IsConfirmed(gomock.Any(), hashes[0]).Return(true, nil)

	pruned := make(chan struct{})
	handler := pending.New(pool, index, &releaser{}, time.Millisecond, utils.NewNopZapLogger()).
		WithListener(&pending.SelectiveListener{
			OnSweepCb: func(int, time.Duration) {
				select {
				case <-pruned:
				default:
					close(pruned)
				}
			},
		})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- handler.Run(ctx) }()
	<-pruned
	cancel()
	require.NoError(t, <-done)
	assert.Zero(t, pool.Len())
}
