package relayer

import (
	"context"
	"time"

	"github.com/NethermindEth/kakarot-relayer/clients/starknet"
	"github.com/NethermindEth/kakarot-relayer/service"
)

var _ service.Service = (*Relayers)(nil)

// Run refreshes the relayer balances every sweep interval until ctx is cancelled.
func (r *Relayers) Run(ctx context.Context) error {
	if r.sweepInterval == time.Duration(0) {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(r.sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.Sweep(ctx)
		}
	}
}

// Sweep refreshes every account balance and resynchronises stale nonces. When an account
// is at or below the balance floor, one submitted transaction is dropped from the pool.
func (r *Relayers) Sweep(ctx context.Context) {
	low := false
	for _, a := range r.accounts {
		balance, err := starknet.BalanceOf(ctx, r.provider, r.feeToken, a.Address)
		if err != nil {
			r.log.Warnw("Failed to refresh relayer balance", "relayer", a.Address, "err", err)
			continue
		}
		a.balance.Store(balance)
		r.listener.OnBalance(a.Address, balance)
		if balance.Cmp(r.balanceFloor) <= 0 {
			low = true
		}

		if a.Stale() && a.mu.TryLock() {
			r.resyncNonce(ctx, a)
			a.mu.Unlock()
		}
	}

	if !low {
		return
	}
	hash, dropped, err := r.pool.DropOneSubmitted()
	if err != nil {
		r.log.Errorw("Failed to drop a submitted transaction", "err", err)
		return
	}
	if dropped {
		r.Release(hash)
		r.log.Warnw("Relayer balance below floor, dropped a submitted transaction", "hash", hash)
	}
}

// resyncNonce runs with the account lock held.
func (r *Relayers) resyncNonce(ctx context.Context, a *Account) {
	nonce, err := r.provider.Nonce(ctx, a.Address)
	if err != nil {
		r.log.Warnw("Failed to resync relayer nonce", "relayer", a.Address, "err", err)
		return
	}
	r.log.Infow("Resynced relayer nonce", "relayer", a.Address, "from", a.nonce, "to", nonce)
	a.nonce = nonce
	a.stale.Store(false)
}
