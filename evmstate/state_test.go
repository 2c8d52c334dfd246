package evmstate_test

import (
	"context"
	"errors"
	"testing"

	"github.com/NethermindEth/kakarot-relayer/adapters/eth2sn"
	"github.com/NethermindEth/kakarot-relayer/clients/starknet"
	"github.com/NethermindEth/kakarot-relayer/core/crypto"
	"github.com/NethermindEth/kakarot-relayer/core/felt"
	"github.com/NethermindEth/kakarot-relayer/evmstate"
	"github.com/NethermindEth/kakarot-relayer/mocks"
	"github.com/NethermindEth/kakarot-relayer/utils"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestReader(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockProvider(ctrl)

	deriver, err := eth2sn.NewAddressDeriver(
		utils.HexToFelt(t, "0x7753aaa1814b9f978fd93b66453ae87419b66d764fbf9313847edeb0283ef63"),
		utils.HexToFelt(t, "0x1276d0b017701646f8646b69de6c3b3584edce71879678a679f28c07a9971cf"),
		16,
	)
	require.NoError(t, err)
	feeToken := utils.HexToFelt(t, "0x49d36570d4e46f48e99674bd3fcc84644ddd6b96f7c741b1562b82f9e004dc7")
	reader := evmstate.New(provider, deriver, feeToken)

	evm := common.HexToAddress("0x2222222222222222222222222222222222222222")
	account := deriver.StarknetAddress(evm)
	ctx := context.Background()

	t.Run("nonce of a deployed account", func(t *testing.T) {
		provider.EXPECT().Call(ctx, &starknet.FunctionCall{
			ContractAddress:    account,
			EntryPointSelector: crypto.Selector("get_nonce"),
		}).Return([]*felt.Felt{felt.NewFromUint64(9)}, nil)

		nonce, err := reader.Nonce(ctx, evm)
		require.NoError(t, err)
		assert.Equal(t, uint64(9), nonce)
	})

	t.Run("nonce of an undeployed account", func(t *testing.T) {
		provider.EXPECT().Call(ctx, gomock.Any()).Return(nil, &starknet.Error{Code: starknet.ContractNotFound})

		nonce, err := reader.Nonce(ctx, evm)
		require.NoError(t, err)
		assert.Zero(t, nonce)
	})

	t.Run("nonce errors", func(t *testing.T) {
		failure := errors.New("connection refused")
		provider.EXPECT().Call(ctx, gomock.Any()).Return(nil, failure)
		_, err := reader.Nonce(ctx, evm)
		assert.ErrorIs(t, err, failure)

		provider.EXPECT().Call(ctx, gomock.Any()).Return([]*felt.Felt{}, nil)
		_, err = reader.Nonce(ctx, evm)
		assert.Error(t, err)

		provider.EXPECT().Call(ctx, gomock.Any()).Return([]*felt.Felt{new(felt.Felt).Sub(&felt.Zero, &felt.One)}, nil)
		_, err = reader.Nonce(ctx, evm)
		assert.Error(t, err)
	})

	t.Run("balance", func(t *testing.T) {
		want := new(uint256.Int).Lsh(uint256.NewInt(3), 130)
		want.AddUint64(want, 5)
		low, high := eth2sn.SplitU256(want)

		provider.EXPECT().Call(ctx, &starknet.FunctionCall{
			ContractAddress:    feeToken,
			EntryPointSelector: crypto.Selector("balanceOf"),
			Calldata:           []*felt.Felt{account},
		}).Return([]*felt.Felt{low, high}, nil)

		balance, err := reader.Balance(ctx, evm)
		require.NoError(t, err)
		assert.Equal(t, want, balance)
	})
}
