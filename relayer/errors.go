package relayer

import (
	"errors"
	"fmt"

	"github.com/NethermindEth/kakarot-relayer/core/felt"
)

var (
	ErrNoRelayers         = errors.New("no relayer accounts configured")
	ErrNonceConflict      = errors.New("relayer nonce out of sync")
	ErrUnfunded           = errors.New("relayer account has no balance")
	ErrUnknownTransaction = errors.New("transaction is not pending")
	ErrUnknownAttempt     = errors.New("no relay attempt with this index")
)

// BroadcastError is returned when a relayer account failed to submit a transaction.
// The account nonce is left unchanged.
type BroadcastError struct {
	Relayer *felt.Felt
	Nonce   *felt.Felt
	Err     error
}

func (e *BroadcastError) Error() string {
	return fmt.Sprintf("broadcast from relayer %s with nonce %s: %v", e.Relayer, e.Nonce, e.Err)
}

func (e *BroadcastError) Unwrap() error {
	return e.Err
}
