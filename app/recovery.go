package app

import (
	"github.com/helios-one/ledger"
	"github.com/helios-one/ledger/errors"
)

// Recovery is a decorator to recover from panics in transactions, so we can
// return them as normal errors.
type Recovery struct{}

var _ ledger.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator.
func NewRecovery() Recovery {
	return Recovery{}
}

// Check turns panics into normal errors.
func (r Recovery) Check(ctx ledger.Context, store ledger.KVStore, tx ledger.Tx, next ledger.Checker) (_ *ledger.CheckResult, err error) {
	defer errors.Recover(&err)
	return next.Check(ctx, store, tx)
}

// Deliver turns panics into normal errors.
func (r Recovery) Deliver(ctx ledger.Context, store ledger.KVStore, tx ledger.Tx, next ledger.Deliverer) (_ *ledger.DeliverResult, err error) {
	defer errors.Recover(&err)
	return next.Deliver(ctx, store, tx)
}
