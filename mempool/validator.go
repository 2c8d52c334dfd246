package mempool

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"
)

// txMaxSize is the largest encoded transaction accepted by the pool.
const txMaxSize = 4 * 32 * 1024

//go:generate mockgen -destination=../mocks/mock_state_reader.go -package=mocks github.com/NethermindEth/kakarot-relayer/mempool StateReader
type StateReader interface {
	Nonce(ctx context.Context, addr common.Address) (uint64, error)
	Balance(ctx context.Context, addr common.Address) (*uint256.Int, error)
}

// IngressFilter decides whether a transaction may enter the pool. A non-nil error rejects it.
type IngressFilter interface {
	FilterTx(ctx context.Context, txn *Transaction) error
}

// IngressFilterFunc adapts a function to the IngressFilter interface.
type IngressFilterFunc func(ctx context.Context, txn *Transaction) error

func (f IngressFilterFunc) FilterTx(ctx context.Context, txn *Transaction) error {
	return f(ctx, txn)
}

// Validator runs the ingress filters in order and reports the first rejection.
type Validator struct {
	filters []IngressFilter
}

func NewValidator(filters ...IngressFilter) *Validator {
	return &Validator{filters: filters}
}

func (v *Validator) Validate(ctx context.Context, txn *Transaction) error {
	for _, f := range v.filters {
		if err := f.FilterTx(ctx, txn); err != nil {
			return err
		}
	}
	return nil
}

type formatFilter struct {
	chainID       *big.Int
	blockGasLimit uint64
}

// NewFormatFilter checks the size, fee fields, chain id and gas limit of a transaction.
func NewFormatFilter(chainID *big.Int, blockGasLimit uint64) IngressFilter {
	return &formatFilter{chainID: chainID, blockGasLimit: blockGasLimit}
}

func (f *formatFilter) FilterTx(_ context.Context, txn *Transaction) error {
	tx := txn.Tx
	if size := tx.Size(); size > txMaxSize {
		return fmt.Errorf("%w: transaction size %d, limit %d", ErrOversizedData, size, txMaxSize)
	}
	if tx.GasFeeCapIntCmp(tx.GasTipCap()) < 0 {
		return ErrTipAboveFeeCap
	}
	if tx.Protected() && tx.ChainId().Cmp(f.chainID) != 0 {
		return fmt.Errorf("%w: have %d want %d", ErrInvalidChainID, tx.ChainId(), f.chainID)
	}
	if f.blockGasLimit > 0 && tx.Gas() > f.blockGasLimit {
		return fmt.Errorf("%w: gas %d, limit %d", ErrGasLimit, tx.Gas(), f.blockGasLimit)
	}
	return nil
}

// NewBlobFilter rejects EIP-4844 transactions, which cannot be executed on Kakarot.
func NewBlobFilter() IngressFilter {
	return IngressFilterFunc(func(_ context.Context, txn *Transaction) error {
		if txn.Tx.Type() == types.BlobTxType {
			return ErrBlobTxUnsupported
		}
		return nil
	})
}

type BudgetChecker interface {
	CheckBudget(tx *types.Transaction, sender common.Address) error
}

// NewBudgetFilter rejects transactions whose translated calldata would not fit in a
// Starknet invoke.
func NewBudgetFilter(checker BudgetChecker) IngressFilter {
	return IngressFilterFunc(func(_ context.Context, txn *Transaction) error {
		return checker.CheckBudget(txn.Tx, txn.Sender)
	})
}

type accountFilter struct {
	state StateReader
}

// NewAccountFilter checks the transaction nonce and the sender's ability to pay for it.
func NewAccountFilter(state StateReader) IngressFilter {
	return &accountFilter{state: state}
}

func (f *accountFilter) FilterTx(ctx context.Context, txn *Transaction) error {
	nonce, err := f.state.Nonce(ctx, txn.Sender)
	if err != nil {
		return fmt.Errorf("read nonce of %s: %w", txn.Sender, err)
	}
	if txn.Tx.Nonce() < nonce {
		return fmt.Errorf("%w: address %s, tx: %d state: %d", ErrNonceTooLow, txn.Sender, txn.Tx.Nonce(), nonce)
	}

	balance, err := f.state.Balance(ctx, txn.Sender)
	if err != nil {
		return fmt.Errorf("read balance of %s: %w", txn.Sender, err)
	}
	cost, overflow := uint256.FromBig(txn.Tx.Cost())
	if overflow || balance.Lt(cost) {
		return fmt.Errorf("%w: address %s have %v want %v", ErrInsufficientFunds, txn.Sender, balance, txn.Tx.Cost())
	}
	return nil
}
