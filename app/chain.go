package app

import (
	"reflect"

	"github.com/helios-one/ledger"
)

// Decorators holds a chain of decorators, not yet resolved by a handler.
type Decorators struct {
	chain []ledger.Decorator
}

// ChainDecorators takes a chain of decorators and, upon adding a final
// handler (often a router), returns a handler that will execute the whole
// stack:
//
//	app.ChainDecorators(
//	    app.NewLogging(logger),
//	    app.NewRecovery(),
//	    app.NewSavepoint().OnDeliver(),
//	).WithHandler(router)
func ChainDecorators(chain ...ledger.Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain allows us to keep adding more decorators to the chain.
func (d Decorators) Chain(chain ...ledger.Decorator) Decorators {
	newChain := append(d.chain, cutoffNil(chain)...)
	return Decorators{chain: newChain}
}

// cutoffNil in-place removes all nil values from the given slice.
func cutoffNil(ds []ledger.Decorator) []ledger.Decorator {
	var cutoff int
	for i := 0; i < len(ds); i++ {
		ds[i-cutoff] = ds[i]
		if ds[i] == nil || (reflect.ValueOf(ds[i]).Kind() == reflect.Ptr && reflect.ValueOf(ds[i]).IsNil()) {
			cutoff++
		}
	}
	return ds[:len(ds)-cutoff]
}

// WithHandler resolves the stack and returns a concrete handler that will
// pass through the chain of decorators before calling the final handler.
func (d Decorators) WithHandler(h ledger.Handler) ledger.Handler {
	// Wrap the handler from the last decorator to the first one, as the
	// top of the chain is understood to be executed first.
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = step{d: d.chain[i], next: h}
	}
	return h
}

// step captures one step executing a decorator around a specific handler.
// Simplified version of a closure.
type step struct {
	d    ledger.Decorator
	next ledger.Handler
}

var _ ledger.Handler = step{}

func (s step) Check(ctx ledger.Context, store ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	return s.d.Check(ctx, store, tx, s.next)
}

func (s step) Deliver(ctx ledger.Context, store ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	return s.d.Deliver(ctx, store, tx, s.next)
}
