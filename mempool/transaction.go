package mempool

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Transaction is a signed Ethereum transaction together with its recovered sender.
type Transaction struct {
	Tx     *types.Transaction
	Sender common.Address
}

func (t *Transaction) Hash() common.Hash {
	return t.Tx.Hash()
}

type Origin uint8

const (
	Local Origin = iota + 1
)

func (o Origin) String() string {
	switch o {
	case Local:
		return "local"
	default:
		return "unknown"
	}
}

// Record is a transaction accepted into the pool and not yet seen as confirmed.
type Record struct {
	Transaction
	Origin Origin
	// Retries counts the relays of the transaction that reached the Starknet node, plus
	// the one in flight while Submitted is set. Relay attempts are indexed from 0 to Retries-1.
	Retries   uint8
	Submitted bool
	AddedAt   time.Time

	seq uint64
}

// Seq is the arrival order of the record in the pool.
func (r *Record) Seq() uint64 {
	return r.seq
}
