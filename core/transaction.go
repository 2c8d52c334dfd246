package core

import (
	"errors"
	"fmt"

	"github.com/NethermindEth/kakarot-relayer/core/crypto"
	"github.com/NethermindEth/kakarot-relayer/core/felt"
)

var (
	invokeFelt = new(felt.Felt).SetBytes([]byte("invoke"))

	ErrUnsupportedVersion = errors.New("unsupported transaction version")
)

// InvokeTransaction is the version 1 account invocation a relayer broadcasts.
type InvokeTransaction struct {
	TransactionHash *felt.Felt
	// The arguments that are passed to the validated and execute functions.
	CallData []*felt.Felt
	// Additional information given by the sender, used to validate the transaction.
	Signature []*felt.Felt
	// The maximum fee that the sender is willing to pay for the transaction
	MaxFee *felt.Felt
	// When the fields that comprise a transaction change,
	// either with the addition of a new field or the removal of an existing field,
	// then the transaction version increases.
	Version *felt.Felt
	// The transaction nonce.
	Nonce *felt.Felt
	// The address of the sender of this transaction
	SenderAddress *felt.Felt
}

// Hash computes the transaction hash under the given chain id.
func (i *InvokeTransaction) Hash(chainID *felt.Felt) (*felt.Felt, error) {
	if i.Version == nil || !i.Version.IsOne() {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedVersion, i.Version)
	}

	return crypto.PedersenArray(
		invokeFelt,
		i.Version,
		i.SenderAddress,
		new(felt.Felt),
		crypto.PedersenArray(i.CallData...),
		i.MaxFee,
		chainID,
		i.Nonce,
	), nil
}
