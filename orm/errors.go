package orm

import (
	"github.com/iov-one/pswap/errors"
)

// Orm reserves 100~109 error codes

// ErrInvalidIndex is returned when an index specified is invalid
var ErrInvalidIndex = errors.Register(100, "invalid index")

// ErrUniqueConstraint is returned when a unique index would hold two
// references for the same value.
var ErrUniqueConstraint = errors.Register(101, "unique constraint violation")
