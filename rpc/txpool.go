package rpc

import (
	"strconv"

	"github.com/NethermindEth/kakarot-relayer/jsonrpc"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

const (
	pendingSection = "pending"
	queuedSection  = "queued"
)

// RPCTransaction is a pool transaction as returned by the txpool namespace. Pool transactions
// are not mined, so block fields are always null.
type RPCTransaction struct {
	BlockHash        *common.Hash      `json:"blockHash"`
	BlockNumber      *hexutil.Big      `json:"blockNumber"`
	From             common.Address    `json:"from"`
	Gas              hexutil.Uint64    `json:"gas"`
	GasPrice         *hexutil.Big      `json:"gasPrice"`
	GasFeeCap        *hexutil.Big      `json:"maxFeePerGas,omitempty"`
	GasTipCap        *hexutil.Big      `json:"maxPriorityFeePerGas,omitempty"`
	Hash             common.Hash       `json:"hash"`
	Input            hexutil.Bytes     `json:"input"`
	Nonce            hexutil.Uint64    `json:"nonce"`
	To               *common.Address   `json:"to"`
	TransactionIndex *hexutil.Uint64   `json:"transactionIndex"`
	Value            *hexutil.Big      `json:"value"`
	Type             hexutil.Uint64    `json:"type"`
	Accesses         *types.AccessList `json:"accessList,omitempty"`
	ChainID          *hexutil.Big      `json:"chainId,omitempty"`
	V                *hexutil.Big      `json:"v"`
	R                *hexutil.Big      `json:"r"`
	S                *hexutil.Big      `json:"s"`
	YParity          *hexutil.Uint64   `json:"yParity,omitempty"`
}

func newRPCPendingTransaction(tx *types.Transaction, from common.Address) *RPCTransaction {
	v, r, s := tx.RawSignatureValues()
	result := &RPCTransaction{
		Type:     hexutil.Uint64(tx.Type()),
		From:     from,
		Gas:      hexutil.Uint64(tx.Gas()),
		GasPrice: (*hexutil.Big)(tx.GasPrice()),
		Hash:     tx.Hash(),
		Input:    hexutil.Bytes(tx.Data()),
		Nonce:    hexutil.Uint64(tx.Nonce()),
		To:       tx.To(),
		Value:    (*hexutil.Big)(tx.Value()),
		V:        (*hexutil.Big)(v),
		R:        (*hexutil.Big)(r),
		S:        (*hexutil.Big)(s),
	}

	switch tx.Type() {
	case types.LegacyTxType:
		if tx.Protected() {
			result.ChainID = (*hexutil.Big)(tx.ChainId())
		}
	case types.AccessListTxType:
		al := tx.AccessList()
		yparity := hexutil.Uint64(v.Sign())
		result.Accesses = &al
		result.ChainID = (*hexutil.Big)(tx.ChainId())
		result.YParity = &yparity
	case types.DynamicFeeTxType:
		al := tx.AccessList()
		yparity := hexutil.Uint64(v.Sign())
		result.Accesses = &al
		result.ChainID = (*hexutil.Big)(tx.ChainId())
		result.YParity = &yparity
		result.GasFeeCap = (*hexutil.Big)(tx.GasFeeCap())
		result.GasTipCap = (*hexutil.Big)(tx.GasTipCap())
		// unmined: the effective price is unknown, report the cap
		result.GasPrice = (*hexutil.Big)(tx.GasFeeCap())
	}
	return result
}

func nonceKey(nonce uint64) string {
	return strconv.FormatUint(nonce, 10)
}

// TxPoolContent returns the pool's transactions grouped by section, sender and nonce.
func (h *Handler) TxPoolContent() (map[string]map[string]map[string]*RPCTransaction, *jsonrpc.Error) {
	content := map[string]map[string]map[string]*RPCTransaction{
		pendingSection: make(map[string]map[string]*RPCTransaction),
		queuedSection:  make(map[string]map[string]*RPCTransaction),
	}
	for account, txs := range h.pool.Content() {
		dump := make(map[string]*RPCTransaction, len(txs))
		for _, tx := range txs {
			dump[nonceKey(tx.Nonce())] = newRPCPendingTransaction(tx, account)
		}
		content[pendingSection][account.Hex()] = dump
	}
	return content, nil
}

// TxPoolContentFrom returns the pool's transactions sent by addr.
func (h *Handler) TxPoolContentFrom(addr common.Address) (map[string]map[string]*RPCTransaction, *jsonrpc.Error) {
	txs := h.pool.ContentFrom(addr)
	content := map[string]map[string]*RPCTransaction{
		pendingSection: make(map[string]*RPCTransaction, len(txs)),
		queuedSection:  make(map[string]*RPCTransaction),
	}
	for _, tx := range txs {
		content[pendingSection][nonceKey(tx.Nonce())] = newRPCPendingTransaction(tx, addr)
	}
	return content, nil
}

// TxPoolStatus returns the number of pending and queued transactions.
func (h *Handler) TxPoolStatus() (map[string]hexutil.Uint, *jsonrpc.Error) {
	pending, queued := h.pool.Status()
	return map[string]hexutil.Uint{
		pendingSection: hexutil.Uint(pending),
		queuedSection:  hexutil.Uint(queued),
	}, nil
}

// TxPoolInspect flattens the pool's content into one line per transaction.
func (h *Handler) TxPoolInspect() (map[string]map[string]map[string]string, *jsonrpc.Error) {
	content := map[string]map[string]map[string]string{
		pendingSection: make(map[string]map[string]string),
		queuedSection:  make(map[string]map[string]string),
	}
	for account, byNonce := range h.pool.Inspect() {
		dump := make(map[string]string, len(byNonce))
		for nonce, summary := range byNonce {
			dump[nonceKey(nonce)] = summary
		}
		content[pendingSection][account.Hex()] = dump
	}
	return content, nil
}
