package utils

import (
	"github.com/iov-one/curio"
	"github.com/iov-one/curio/errors"
)

// Recovery is a decorator to recover from panics in transactions,
// so we can log them as errors
type Recovery struct{}

var _ curio.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

// Check turns panics into normal errors
func (r Recovery) Check(ctx curio.Context, store curio.KVStore, tx curio.Tx, next curio.Checker) (_ *curio.CheckResult, err error) {
	defer errors.Recover(&err)
	return next.Check(ctx, store, tx)
}

// Deliver turns panics into normal errors
func (r Recovery) Deliver(ctx curio.Context, store curio.KVStore, tx curio.Tx, next curio.Deliverer) (_ *curio.DeliverResult, err error) {
	defer errors.Recover(&err)
	return next.Deliver(ctx, store, tx)
}
