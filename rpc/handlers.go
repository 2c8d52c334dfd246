package rpc

import (
	"context"
	"errors"
	"math/big"

	"github.com/NethermindEth/kakarot-relayer/core/felt"
	"github.com/NethermindEth/kakarot-relayer/jsonrpc"
	"github.com/NethermindEth/kakarot-relayer/utils"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

const ServerError = -32000

var (
	ErrInvalidTransaction  = &jsonrpc.Error{Code: jsonrpc.InvalidParams, Message: "Invalid transaction"}
	ErrTransactionRejected = &jsonrpc.Error{Code: ServerError, Message: "Transaction rejected"}
	ErrTxnHashNotFound     = &jsonrpc.Error{Code: ServerError, Message: "Transaction hash not found"}
	ErrAttemptNotFound     = &jsonrpc.Error{Code: ServerError, Message: "Relay attempt not found"}
	ErrInternal            = &jsonrpc.Error{Code: jsonrpc.InternalError, Message: "Internal error"}
)

//go:generate mockgen -destination=../mocks/mock_mempool.go -package=mocks github.com/NethermindEth/kakarot-relayer/rpc Mempool
type Mempool interface {
	Add(ctx context.Context, raw []byte) (common.Hash, error)
	Content() map[common.Address][]*types.Transaction
	ContentFrom(addr common.Address) []*types.Transaction
	Status() (pending, queued int)
	Inspect() map[common.Address]map[uint64]string
}

type HashRecomputer interface {
	ForeignTransactionHash(ethHash common.Hash, retries uint8) (*felt.Felt, error)
}

type Handler struct {
	pool     Mempool
	relayers HashRecomputer
	chainID  *big.Int
	log      utils.Logger
}

func New(pool Mempool, relayers HashRecomputer, chainID *big.Int, log utils.Logger) *Handler {
	return &Handler{
		pool:     pool,
		relayers: relayers,
		chainID:  chainID,
		log:      log,
	}
}

func (h *Handler) Methods() []jsonrpc.Method {
	return []jsonrpc.Method{
		{
			Name:    "eth_chainId",
			Handler: h.ChainID,
		},
		{
			Name:    "eth_sendRawTransaction",
			Params:  []jsonrpc.Parameter{{Name: "data"}},
			Handler: h.SendRawTransaction,
		},
		{
			Name:    "txpool_content",
			Handler: h.TxPoolContent,
		},
		{
			Name:    "txpool_contentFrom",
			Params:  []jsonrpc.Parameter{{Name: "address"}},
			Handler: h.TxPoolContentFrom,
		},
		{
			Name:    "txpool_status",
			Handler: h.TxPoolStatus,
		},
		{
			Name:    "txpool_inspect",
			Handler: h.TxPoolInspect,
		},
		{
			Name:    "kakarot_getStarknetTransactionHash",
			Params:  []jsonrpc.Parameter{{Name: "hash"}, {Name: "retries"}},
			Handler: h.StarknetTransactionHash,
		},
	}
}

func (h *Handler) internalError(method string, err error) *jsonrpc.Error {
	h.log.Errorw("Request failed", "method", method, "err", err)
	return ErrInternal.CloneWithData(err.Error())
}

func isAnyOf(err error, targets ...error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
