package swap

import (
	"github.com/iov-one/pswap/errors"
)

// Swap reserves 1100~1119 error codes
var (
	ErrAlreadySetUp        = errors.Register(1100, "swap already set up")
	ErrAlreadyEscrowed     = errors.Register(1101, "already escrowed")
	ErrWrongCaller         = errors.Register(1102, "wrong caller")
	ErrInsufficientPayment = errors.Register(1103, "insufficient payment")
	ErrInvalidSecret       = errors.Register(1104, "invalid secret")
	ErrDeadlineNotReached  = errors.Register(1105, "deadline not reached")
	ErrDeadlineExceeded    = errors.Register(1106, "deadline exceeded")
	ErrTimeoutNotReached   = errors.Register(1107, "timeout not reached")
	ErrTimeoutExceeded     = errors.Register(1108, "timeout exceeded")
	ErrTransferMismatch    = errors.Register(1109, "transferred amount mismatch")
	ErrGateway             = errors.Register(1110, "ledger gateway failure")
	ErrPremiumNotEscrowed  = errors.Register(1111, "premium not escrowed")
	ErrAssetNotEscrowed    = errors.Register(1112, "asset not escrowed")
)
