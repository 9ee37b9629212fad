package app

import (
	"time"

	"go.uber.org/zap"

	"github.com/helios-one/ledger"
)

// Logging is a decorator to log messages as they pass through the stack.
type Logging struct {
	logger *zap.Logger
}

var _ ledger.Decorator = Logging{}

// NewLogging creates a Logging decorator writing to the given logger. A nil
// logger silently drops everything.
func NewLogging(logger *zap.Logger) Logging {
	if logger == nil {
		logger = zap.NewNop()
	}
	return Logging{logger: logger}
}

// Check logs error -> warn, success -> debug.
func (l Logging) Check(ctx ledger.Context, store ledger.KVStore, tx ledger.Tx, next ledger.Checker) (*ledger.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	fields := []zap.Field{
		zap.String("path", ledger.GetPath(tx)),
		zap.Duration("duration", time.Since(start)),
	}
	if err != nil {
		l.logger.Warn("check rejected", append(fields, zap.Error(err))...)
	} else {
		l.logger.Debug("check passed", fields...)
	}
	return res, err
}

// Deliver logs error -> error, success -> info.
func (l Logging) Deliver(ctx ledger.Context, store ledger.KVStore, tx ledger.Tx, next ledger.Deliverer) (*ledger.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	fields := []zap.Field{
		zap.String("path", ledger.GetPath(tx)),
		zap.Duration("duration", time.Since(start)),
	}
	if err != nil {
		l.logger.Error("deliver failed", append(fields, zap.Error(err))...)
	} else {
		l.logger.Info("delivered", fields...)
	}
	return res, err
}
