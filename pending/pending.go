package pending

import (
	"context"
	"fmt"
	"time"

	"github.com/NethermindEth/kakarot-relayer/mempool"
	"github.com/NethermindEth/kakarot-relayer/service"
	"github.com/NethermindEth/kakarot-relayer/utils"
	"github.com/ethereum/go-ethereum/common"
)

//go:generate mockgen -destination=../mocks/mock_confirmed_index.go -package=mocks github.com/NethermindEth/kakarot-relayer/pending ConfirmedIndex
type ConfirmedIndex interface {
	IsConfirmed(ctx context.Context, hash common.Hash) (bool, error)
}

type Pool interface {
	Records() []*mempool.Record
	Remove(hashes ...common.Hash) error
}

// Releaser forgets the relay state of transactions that left the pool.
type Releaser interface {
	Release(hash common.Hash)
}

// DatabaseError is returned when the confirmed index could not be queried.
type DatabaseError struct {
	Hash common.Hash
	Err  error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("look up transaction %s: %v", e.Hash, e.Err)
}

func (e *DatabaseError) Unwrap() error {
	return e.Err
}

// SweepResult summarises one pass over the pending transactions.
type SweepResult struct {
	Confirmed  int
	Unresolved int
	Failed     int
}

var _ service.Service = (*Handler)(nil)

// Handler prunes pending transactions once they appear in the confirmed index.
type Handler struct {
	pool     Pool
	index    ConfirmedIndex
	releaser Releaser
	interval time.Duration
	listener EventListener
	log      utils.SimpleLogger
}

func New(pool Pool, index ConfirmedIndex, releaser Releaser, interval time.Duration, log utils.SimpleLogger) *Handler {
	return &Handler{
		pool:     pool,
		index:    index,
		releaser: releaser,
		interval: interval,
		listener: &SelectiveListener{},
		log:      log,
	}
}

func (h *Handler) WithListener(listener EventListener) *Handler {
	h.listener = listener
	return h
}

func (h *Handler) Run(ctx context.Context) error {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			h.Sweep(ctx)
		}
	}
}

// Sweep checks every pending transaction once. Confirmed transactions are removed from
// the pool, the others are left untouched, so repeating a sweep without new
// confirmations changes nothing.
func (h *Handler) Sweep(ctx context.Context) SweepResult {
	start := time.Now()

	var (
		result    SweepResult
		confirmed []common.Hash
	)
	for _, record := range h.pool.Records() {
		hash := record.Hash()
		ok, err := h.index.IsConfirmed(ctx, hash)
		if err != nil {
			result.Failed++
			h.log.Warnw("Failed to check pending transaction", "err", &DatabaseError{Hash: hash, Err: err})
			continue
		}
		if !ok {
			result.Unresolved++
			continue
		}
		confirmed = append(confirmed, hash)
	}

	if len(confirmed) > 0 {
		if err := h.pool.Remove(confirmed...); err != nil {
			h.log.Errorw("Failed to remove confirmed transactions", "count", len(confirmed), "err", err)
			result.Failed += len(confirmed)
		} else {
			for _, hash := range confirmed {
				h.releaser.Release(hash)
			}
			result.Confirmed = len(confirmed)
			h.log.Debugw("Pruned confirmed transactions", "count", len(confirmed))
		}
	}

	h.listener.OnSweep(result.Unresolved, time.Since(start))
	return result
}
