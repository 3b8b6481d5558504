package utils

import (
	"github.com/iov-one/revsplit"
	"github.com/iov-one/revsplit/errors"
)

// Recovery is a decorator to recover from panics in transactions,
// so we can log them as errors
type Recovery struct{}

var _ revsplit.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

// Check turns panics into normal errors
func (r Recovery) Check(ctx revsplit.Context, store revsplit.KVStore, tx revsplit.Tx, next revsplit.Checker) (_ *revsplit.CheckResult, err error) {
	defer errors.Recover(&err)
	return next.Check(ctx, store, tx)
}

// Deliver turns panics into normal errors
func (r Recovery) Deliver(ctx revsplit.Context, store revsplit.KVStore, tx revsplit.Tx, next revsplit.Deliverer) (_ *revsplit.DeliverResult, err error) {
	defer errors.Recover(&err)
	return next.Deliver(ctx, store, tx)
}
