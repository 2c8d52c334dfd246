package translator

import (
	"errors"
	"fmt"

	"github.com/NethermindEth/kakarot-relayer/adapters/eth2sn"
)

var (
	ErrCalldataBudgetExceeded = errors.New("calldata exceeds the maximum number of felts")
	ErrSignature              = errors.New("invalid transaction signature")
	ErrUnsupportedTxType      = eth2sn.ErrUnsupportedTxType
)

// CalldataBudgetError carries the size of the rejected calldata.
type CalldataBudgetError struct {
	Len uint64
	Max uint64
}

func (e *CalldataBudgetError) Error() string {
	return fmt.Sprintf("%v: %d > %d", ErrCalldataBudgetExceeded, e.Len, e.Max)
}

func (e *CalldataBudgetError) Is(target error) bool {
	return target == ErrCalldataBudgetExceeded
}
