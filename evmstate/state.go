package evmstate

import (
	"context"
	"fmt"

	"github.com/NethermindEth/kakarot-relayer/clients/starknet"
	"github.com/NethermindEth/kakarot-relayer/core/crypto"
	"github.com/NethermindEth/kakarot-relayer/core/felt"
	"github.com/NethermindEth/kakarot-relayer/mempool"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

var getNonceSelector = crypto.Selector("get_nonce")

type AddressDeriver interface {
	StarknetAddress(evm common.Address) *felt.Felt
}

var _ mempool.StateReader = (*Reader)(nil)

// Reader serves EVM account state from the Kakarot accounts deployed on Starknet.
type Reader struct {
	provider starknet.Provider
	deriver  AddressDeriver
	feeToken *felt.Felt
}

func New(provider starknet.Provider, deriver AddressDeriver, feeToken *felt.Felt) *Reader {
	return &Reader{
		provider: provider,
		deriver:  deriver,
		feeToken: feeToken,
	}
}

// Nonce returns the EVM nonce of addr. Accounts that are not deployed yet have nonce zero.
func (r *Reader) Nonce(ctx context.Context, addr common.Address) (uint64, error) {
	result, err := r.provider.Call(ctx, &starknet.FunctionCall{
		ContractAddress:    r.deriver.StarknetAddress(addr),
		EntryPointSelector: getNonceSelector,
	})
	if starknet.IsErrorCode(err, starknet.ContractNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if len(result) != 1 {
		return 0, fmt.Errorf("get_nonce returned %d felts, want 1", len(result))
	}
	if !result[0].IsUint64() {
		return 0, fmt.Errorf("nonce %s does not fit in 64 bits", result[0])
	}
	return result[0].Uint64(), nil
}

// Balance returns the fee token balance of addr's Starknet account.
func (r *Reader) Balance(ctx context.Context, addr common.Address) (*uint256.Int, error) {
	return starknet.BalanceOf(ctx, r.provider, r.feeToken, r.deriver.StarknetAddress(addr))
}
