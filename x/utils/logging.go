package utils

import (
	"strings"
	"time"

	"github.com/iov-one/revsplit"
	"github.com/tendermint/tendermint/libs/log"
)

// Logging is a decorator that writes one log entry for every processed
// transaction. Failures are logged as errors. Successful checks are logged at
// debug level and successful deliveries at info level, together with the
// kinds of all events they emitted.
type Logging struct{}

var _ revsplit.Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

func (Logging) Check(ctx revsplit.Context, store revsplit.KVStore, tx revsplit.Tx, next revsplit.Checker) (*revsplit.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	logger := txLogger(ctx, tx, start, err)
	switch {
	case err != nil:
		logger.Error("Check failed")
	default:
		logger.Debug("Check passed", "log", res.Log)
	}
	return res, err
}

func (Logging) Deliver(ctx revsplit.Context, store revsplit.KVStore, tx revsplit.Tx, next revsplit.Deliverer) (*revsplit.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	logger := txLogger(ctx, tx, start, err)
	switch {
	case err != nil:
		logger.Error("Deliver failed")
	default:
		logger.Info("Delivered", "log", res.Log, "events", eventKinds(res.Events))
	}
	return res, err
}

// txLogger returns the context logger with the transaction details attached.
func txLogger(ctx revsplit.Context, tx revsplit.Tx, start time.Time, err error) log.Logger {
	logger := revsplit.GetLogger(ctx).With(
		"path", revsplit.GetPath(tx),
		"duration", time.Since(start)/time.Microsecond,
	)
	if err != nil {
		logger = logger.With("err", err)
	}
	return logger
}

func eventKinds(events []revsplit.Event) string {
	kinds := make([]string, len(events))
	for i, e := range events {
		kinds[i] = e.EventKind()
	}
	return strings.Join(kinds, ",")
}
