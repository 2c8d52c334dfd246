package starknet

import (
	"context"
	"fmt"

	"github.com/NethermindEth/kakarot-relayer/adapters/eth2sn"
	"github.com/NethermindEth/kakarot-relayer/core/crypto"
	"github.com/NethermindEth/kakarot-relayer/core/felt"
	"github.com/holiman/uint256"
)

var balanceOfSelector = crypto.Selector("balanceOf")

// BalanceOf reads the u256 balance of account on an ERC20 token contract.
func BalanceOf(ctx context.Context, p Provider, token, account *felt.Felt) (*uint256.Int, error) {
	result, err := p.Call(ctx, &FunctionCall{
		ContractAddress:    token,
		EntryPointSelector: balanceOfSelector,
		Calldata:           []*felt.Felt{account},
	})
	if err != nil {
		return nil, err
	}
	if len(result) != 2 {
		return nil, fmt.Errorf("balanceOf returned %d felts, want 2", len(result))
	}
	return eth2sn.JoinU256(result[0], result[1])
}
