package app

import (
	"fmt"
	"regexp"

	"github.com/helios-one/ledger"
	"github.com/helios-one/ledger/errors"
)

var isPath = regexp.MustCompile(`^[a-z0-9_]+(/[a-z0-9_]+)*$`).MatchString

// Router is a ledger.Registry that dispatches messages to the handler
// registered for their path.
type Router struct {
	routes map[string]ledger.Handler
}

var _ ledger.Registry = (*Router)(nil)
var _ ledger.Handler = (*Router)(nil)

// NewRouter initializes a router with no routes.
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]ledger.Handler),
	}
}

// Handle implements ledger.Registry. It panics on an invalid path or a
// duplicate registration, as both are programmer errors found at startup.
func (r *Router) Handle(path string, h ledger.Handler) {
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path: %q", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %q", path))
	}
	r.routes[path] = h
}

// handler returns the registered handler or a notFoundHandler.
func (r *Router) handler(tx ledger.Tx) ledger.Handler {
	path := ledger.GetPath(tx)
	if h, ok := r.routes[path]; ok {
		return h
	}
	return notFoundHandler(path)
}

// Check dispatches to the proper handler based on the message path.
func (r *Router) Check(ctx ledger.Context, store ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	return r.handler(tx).Check(ctx, store, tx)
}

// Deliver dispatches to the proper handler based on the message path.
func (r *Router) Deliver(ctx ledger.Context, store ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	return r.handler(tx).Deliver(ctx, store, tx)
}

// notFoundHandler always returns ErrNotFound.
type notFoundHandler string

var _ ledger.Handler = notFoundHandler("")

func (path notFoundHandler) Check(ledger.Context, ledger.KVStore, ledger.Tx) (*ledger.CheckResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for %q", string(path))
}

func (path notFoundHandler) Deliver(ledger.Context, ledger.KVStore, ledger.Tx) (*ledger.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for %q", string(path))
}
