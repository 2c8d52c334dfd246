package relayer

import (
	"context"
	"math/big"
	"time"

	"github.com/NethermindEth/kakarot-relayer/core/felt"
	"github.com/NethermindEth/kakarot-relayer/mempool"
	"github.com/NethermindEth/kakarot-relayer/service"
	"github.com/NethermindEth/kakarot-relayer/utils"
	"github.com/ethereum/go-ethereum/common"
	"github.com/sourcegraph/conc/pool"
)

type Queue interface {
	Best(baseFee *big.Int, n int) []*mempool.Record
	MarkSubmitted(hash common.Hash) (uint8, error)
	UnmarkSubmitted(hash common.Hash) error
	Wait() <-chan struct{}
}

type Relayer interface {
	Relay(ctx context.Context, txn *mempool.Transaction) (*felt.Felt, error)
	Len() int
}

var _ service.Service = (*Dispatcher)(nil)

// Dispatcher hands the best pending transactions to the relayer fleet.
type Dispatcher struct {
	queue    Queue
	relayers Relayer
	interval time.Duration
	log      utils.SimpleLogger
}

func NewDispatcher(queue Queue, relayers Relayer, interval time.Duration, log utils.SimpleLogger) *Dispatcher {
	return &Dispatcher{
		queue:    queue,
		relayers: relayers,
		interval: interval,
		log:      log,
	}
}

func (d *Dispatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		case <-d.queue.Wait():
		}
		d.Dispatch(ctx)
	}
}

// Dispatch relays up to one transaction per relayer account and waits for the relays to
// finish. Transactions that fail to relay go back to the queue. It returns the number of
// successful relays.
func (d *Dispatcher) Dispatch(ctx context.Context) int {
	records := d.queue.Best(nil, d.relayers.Len())
	if len(records) == 0 {
		return 0
	}

	p := pool.NewWithResults[bool]().WithMaxGoroutines(len(records))
	for _, record := range records {
		hash := record.Hash()
		if _, err := d.queue.MarkSubmitted(hash); err != nil {
			d.log.Debugw("Skipping transaction", "hash", hash, "err", err)
			continue
		}

		p.Go(func() bool {
			snHash, err := d.relayers.Relay(ctx, &record.Transaction)
			if err != nil {
				d.log.Warnw("Relay failed, transaction requeued", "hash", hash, "err", err)
				if err = d.queue.UnmarkSubmitted(hash); err != nil {
					d.log.Debugw("Failed to requeue transaction", "hash", hash, "err", err)
				}
				return false
			}
			d.log.Infow("Transaction relayed", "hash", hash, "starknetHash", snHash)
			return true
		})
	}

	relayed := 0
	for _, ok := range p.Wait() {
		if ok {
			relayed++
		}
	}
	return relayed
}
