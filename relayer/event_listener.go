package relayer

import (
	"time"

	"github.com/NethermindEth/kakarot-relayer/core/felt"
	"github.com/holiman/uint256"
)

// Relay outcomes reported to the EventListener.
const (
	OutcomeSuccess        = "success"
	OutcomeNonceConflict  = "nonce_conflict"
	OutcomeBroadcastError = "broadcast_error"
	OutcomeRejected       = "rejected"
)

type EventListener interface {
	OnRelay(outcome string, took time.Duration)
	OnInFlight(delta int)
	OnBalance(relayer *felt.Felt, balance *uint256.Int)
}

type SelectiveListener struct {
	OnRelayCb    func(outcome string, took time.Duration)
	OnInFlightCb func(delta int)
	OnBalanceCb  func(relayer *felt.Felt, balance *uint256.Int)
}

func (l *SelectiveListener) OnRelay(outcome string, took time.Duration) {
	if l.OnRelayCb != nil {
		l.OnRelayCb(outcome, took)
	}
}

func (l *SelectiveListener) OnInFlight(delta int) {
	if l.OnInFlightCb != nil {
		l.OnInFlightCb(delta)
	}
}

func (l *SelectiveListener) OnBalance(relayer *felt.Felt, balance *uint256.Int) {
	if l.OnBalanceCb != nil {
		l.OnBalanceCb(relayer, balance)
	}
}
