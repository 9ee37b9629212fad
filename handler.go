package ledger

// Handler is a core engine that can process a few specific messages, such as
// "initiate a swap" or "move tokens".
type Handler interface {
	Checker
	Deliverer
}

// Checker is a subset of Handler to verify the validity of a transaction.
// It is its own interface to allow better type control in decorators.
type Checker interface {
	Check(ctx Context, store KVStore, tx Tx) (*CheckResult, error)
}

// Deliverer is a subset of Handler to execute a transaction.
type Deliverer interface {
	Deliver(ctx Context, store KVStore, tx Tx) (*DeliverResult, error)
}

// Decorator wraps a Handler to provide common functionality, like logging or
// panic recovery, to many handlers.
type Decorator interface {
	Check(ctx Context, store KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, store KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Registry is an interface to register your handler, the setup side of a
// router.
type Registry interface {
	Handle(path string, h Handler)
}

// CheckResult captures any immediate information generated by validation,
// before the transaction is executed.
type CheckResult struct {
	// Log contains a short human readable summary.
	Log string
	// GasAllocated is the maximum units of work we allow this tx to
	// perform.
	GasAllocated int64
}

// DeliverResult captures any info needed to report back after executing a
// transaction. It is the result of a state transition.
type DeliverResult struct {
	// Data is a machine-parseable return value, like the key of a record
	// that was created.
	Data []byte
	// Log contains a short human readable summary.
	Log string
}
