package starknet

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/rpc"
	pkgerrors "github.com/pkg/errors"
)

type ErrorCode int

// Starknet JSON-RPC error codes the relayer reacts to.
const (
	ContractNotFound           ErrorCode = 20
	TransactionHashNotFound    ErrorCode = 29
	InvalidTransactionNonce    ErrorCode = 52
	InsufficientMaxFee         ErrorCode = 53
	InsufficientAccountBalance ErrorCode = 54
	ValidationFailure          ErrorCode = 55
	DuplicateTransaction       ErrorCode = 59
)

type Error struct {
	Code    ErrorCode
	Message string
	Data    any
}

func (e *Error) Error() string {
	if e.Data != nil {
		return fmt.Sprintf("%d: %s (%v)", e.Code, e.Message, e.Data)
	}
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

// IsErrorCode reports whether err carries the given Starknet error code.
func IsErrorCode(err error, code ErrorCode) bool {
	var snErr *Error
	return errors.As(err, &snErr) && snErr.Code == code
}

// adaptError turns JSON-RPC level failures into *Error and wraps transport failures.
func adaptError(err error, method string) error {
	if err == nil {
		return nil
	}

	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		snErr := &Error{
			Code:    ErrorCode(rpcErr.ErrorCode()),
			Message: rpcErr.Error(),
		}
		var dataErr rpc.DataError
		if errors.As(err, &dataErr) {
			snErr.Data = dataErr.ErrorData()
		}
		return snErr
	}
	return pkgerrors.Wrap(err, method)
}
