package rpc

import (
	"context"
	"errors"

	"github.com/NethermindEth/kakarot-relayer/core/felt"
	"github.com/NethermindEth/kakarot-relayer/jsonrpc"
	"github.com/NethermindEth/kakarot-relayer/mempool"
	"github.com/NethermindEth/kakarot-relayer/relayer"
	"github.com/NethermindEth/kakarot-relayer/translator"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ChainID returns the EVM chain id transactions must be signed for.
func (h *Handler) ChainID() (*hexutil.Big, *jsonrpc.Error) {
	return (*hexutil.Big)(h.chainID), nil
}

// SendRawTransaction accepts a signed, RLP or typed-envelope encoded transaction into the
// mempool and returns its hash. Relaying happens asynchronously.
func (h *Handler) SendRawTransaction(ctx context.Context, data hexutil.Bytes) (common.Hash, *jsonrpc.Error) {
	hash, err := h.pool.Add(ctx, data)
	if err != nil {
		return common.Hash{}, h.adaptAddError(err)
	}
	h.log.Debugw("Accepted transaction", "hash", hash)
	return hash, nil
}

func (h *Handler) adaptAddError(err error) *jsonrpc.Error {
	switch {
	case isAnyOf(err,
		mempool.ErrDecode,
		mempool.ErrSignature,
		mempool.ErrInvalidChainID,
	):
		return ErrInvalidTransaction.CloneWithData(err.Error())
	case isAnyOf(err,
		mempool.ErrBlobTxUnsupported,
		mempool.ErrOversizedData,
		mempool.ErrTipAboveFeeCap,
		mempool.ErrGasLimit,
		mempool.ErrNonceTooLow,
		mempool.ErrInsufficientFunds,
		mempool.ErrAlreadyKnown,
		mempool.ErrTxPoolFull,
		mempool.ErrReplaceUnderpriced,
		mempool.ErrReplaceRelaying,
		translator.ErrCalldataBudgetExceeded,
		translator.ErrUnsupportedTxType,
	):
		return ErrTransactionRejected.CloneWithData(err.Error())
	default:
		return h.internalError("eth_sendRawTransaction", err)
	}
}

// StarknetTransactionHash returns the Starknet hash of the given relay attempt of a pending
// transaction.
func (h *Handler) StarknetTransactionHash(hash common.Hash, retries uint8) (*felt.Felt, *jsonrpc.Error) {
	starknetHash, err := h.relayers.ForeignTransactionHash(hash, retries)
	switch {
	case err == nil:
		return starknetHash, nil
	case errors.Is(err, relayer.ErrUnknownTransaction):
		return nil, ErrTxnHashNotFound
	case errors.Is(err, relayer.ErrUnknownAttempt):
		return nil, ErrAttemptNotFound.CloneWithData(err.Error())
	default:
		return nil, h.internalError("kakarot_getStarknetTransactionHash", err)
	}
}
