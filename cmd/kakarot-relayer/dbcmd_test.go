package main_test

import (
	"bytes"
	"context"
	"math/big"
	"strings"
	"testing"

	relayer "github.com/NethermindEth/kakarot-relayer/cmd/kakarot-relayer"
	"github.com/NethermindEth/kakarot-relayer/db/pebble"
	"github.com/NethermindEth/kakarot-relayer/mempool"
	"github.com/NethermindEth/kakarot-relayer/node"
	"github.com/NethermindEth/kakarot-relayer/utils"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDBCmd(t *testing.T) {
	t.Run("pending", func(t *testing.T) {
		dbPath := t.TempDir()
		txs := prepareDB(t, dbPath)

		cmd := relayer.DBCmd(dbPath)
		out := new(bytes.Buffer)
		cmd.SetOut(out)
		cmd.SetArgs([]string{"pending", "--db-path", dbPath})
		require.NoError(t, cmd.ExecuteContext(context.Background()))

		output := out.String()
		first := strings.Index(output, txs[0].Hash().Hex())
		second := strings.Index(output, txs[1].Hash().Hex())
		require.NotEqual(t, -1, first)
		require.NotEqual(t, -1, second)
		assert.Less(t, first, second)
		assert.Contains(t, output, "local")
		assert.Contains(t, output, "TOTAL")
	})

	t.Run("missing database", func(t *testing.T) {
		cmd := relayer.DBCmd("")
		cmd.SetOut(new(bytes.Buffer))
		cmd.SetArgs([]string{"pending", "--db-path", "/does/not/exist"})
		require.Error(t, cmd.ExecuteContext(context.Background()))
	})
}

func prepareDB(t *testing.T, path string) []*types.Transaction {
	t.Helper()

	database, err := pebble.New(path)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, database.Close())
	}()

	chainID := big.NewInt(node.KakarotChainID)
	pool, err := mempool.New(database, mempool.NewValidator(), chainID, 10, utils.NewNopZapLogger())
	require.NoError(t, err)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	to := common.HexToAddress("0x2222222222222222222222222222222222222222")

	txs := make([]*types.Transaction, 0, 2)
	for nonce := range uint64(2) {
		tx := types.MustSignNewTx(key, types.LatestSignerForChainID(chainID), &types.LegacyTx{
			Nonce:    nonce,
			GasPrice: big.NewInt(1),
			Gas:      21000,
			To:       &to,
			Value:    big.NewInt(1),
		})
		require.NoError(t, pool.AddTransaction(context.Background(), tx))
		txs = append(txs, tx)
	}
	return txs
}
