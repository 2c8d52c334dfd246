package mempool

import (
	"fmt"
	"slices"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Every pooled transaction is executable from the relayer's point of view, so the pool
// has no queued section.

// Content returns the pooled transactions grouped by sender and sorted by nonce.
func (p *Pool) Content() map[common.Address][]*types.Transaction {
	p.mu.RLock()
	defer p.mu.RUnlock()

	content := make(map[common.Address][]*types.Transaction)
	for _, r := range p.records {
		content[r.Sender] = append(content[r.Sender], r.Tx)
	}
	for _, txs := range content {
		sortByNonce(txs)
	}
	return content
}

// ContentFrom returns the pooled transactions of addr sorted by nonce.
func (p *Pool) ContentFrom(addr common.Address) []*types.Transaction {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var txs []*types.Transaction
	for _, r := range p.records {
		if r.Sender == addr {
			txs = append(txs, r.Tx)
		}
	}
	sortByNonce(txs)
	return txs
}

// Status returns the number of pending and queued transactions.
func (p *Pool) Status() (pending, queued int) {
	return p.Len(), 0
}

// Inspect flattens the pool content into one summary line per transaction, keyed by
// sender and nonce.
func (p *Pool) Inspect() map[common.Address]map[uint64]string {
	inspect := make(map[common.Address]map[uint64]string)
	for sender, txs := range p.Content() {
		dump := make(map[uint64]string, len(txs))
		for _, tx := range txs {
			dump[tx.Nonce()] = Summary(tx)
		}
		inspect[sender] = dump
	}
	return inspect
}

// Summary formats a transaction the way txpool_inspect reports it.
func Summary(tx *types.Transaction) string {
	if to := tx.To(); to != nil {
		return fmt.Sprintf("%s: %v wei + %v gas × %v wei", to.Hex(), tx.Value(), tx.Gas(), tx.GasPrice())
	}
	return fmt.Sprintf("contract creation: %v wei + %v gas × %v wei", tx.Value(), tx.Gas(), tx.GasPrice())
}

func sortByNonce(txs []*types.Transaction) {
	slices.SortFunc(txs, func(a, b *types.Transaction) int {
		switch {
		case a.Nonce() < b.Nonce():
			return -1
		case a.Nonce() > b.Nonce():
			return 1
		default:
			return 0
		}
	})
}
