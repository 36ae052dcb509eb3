package token

import (
	"github.com/iov-one/curio/errors"
)

var (
	// ErrAssetMismatch is returned when an operation references an
	// account tracking a different asset than expected.
	ErrAssetMismatch = errors.Register(1020, "asset mismatch")

	// ErrNonEmptyAccount is returned when closing an account that
	// still holds a balance.
	ErrNonEmptyAccount = errors.Register(1021, "account not empty")
)
