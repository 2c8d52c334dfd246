package mempool

import "errors"

var (
	ErrDecode            = errors.New("failed to decode transaction")
	ErrSignature         = errors.New("invalid transaction signature")
	ErrInvalidChainID    = errors.New("invalid chain id")
	ErrBlobTxUnsupported = errors.New("blob transactions are not supported")
	ErrOversizedData     = errors.New("oversized data")
	ErrTipAboveFeeCap    = errors.New("max priority fee per gas higher than max fee per gas")
	ErrGasLimit          = errors.New("exceeds block gas limit")
	ErrNonceTooLow       = errors.New("nonce too low")
	ErrInsufficientFunds = errors.New("insufficient funds for gas * price + value")
	ErrAlreadyKnown      = errors.New("already known")
	ErrTxPoolFull        = errors.New("transaction pool is full")
	ErrTxNotFound        = errors.New("transaction not found")

	ErrReplaceUnderpriced = errors.New("replacement transaction underpriced")
	ErrReplaceRelaying    = errors.New("transaction with the same nonce is being relayed")
)
