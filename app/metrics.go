package app

import (
	"strconv"
	"time"

	"github.com/iov-one/revsplit"
	"github.com/iov-one/revsplit/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is a decorator that counts processed transactions and observes
// how long processing took. Transactions are labeled by the call type,
// message path and the ABCI code of the result.
type Metrics struct {
	handled  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ revsplit.Decorator = Metrics{}

// NewMetrics returns a decorator that registers its collectors with given
// registerer. Collectors already registered are reused, so it is safe to
// create more than one instance for the same registerer.
func NewMetrics(reg prometheus.Registerer) Metrics {
	handled := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "revsplit",
			Subsystem: "tx",
			Name:      "handled_total",
			Help:      "Total number of processed transactions.",
		},
		[]string{"call", "path", "code"},
	)
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "revsplit",
			Subsystem: "tx",
			Name:      "duration_seconds",
			Help:      "Transaction processing duration in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12), // 0.1ms to ~0.2s
		},
		[]string{"call", "path"},
	)
	return Metrics{
		handled:  mustRegister(reg, handled).(*prometheus.CounterVec),
		duration: mustRegister(reg, duration).(*prometheus.HistogramVec),
	}
}

func mustRegister(reg prometheus.Registerer, c prometheus.Collector) prometheus.Collector {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector
		}
		panic(err)
	}
	return c
}

// Check records the check call outcome.
func (m Metrics) Check(ctx revsplit.Context, store revsplit.KVStore, tx revsplit.Tx, next revsplit.Checker) (*revsplit.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	m.observe("check", revsplit.GetPath(tx), start, err)
	return res, err
}

// Deliver records the deliver call outcome.
func (m Metrics) Deliver(ctx revsplit.Context, store revsplit.KVStore, tx revsplit.Tx, next revsplit.Deliverer) (*revsplit.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	m.observe("deliver", revsplit.GetPath(tx), start, err)
	return res, err
}

func (m Metrics) observe(call, path string, start time.Time, err error) {
	code, _ := errors.ABCIInfo(err, false)
	m.handled.WithLabelValues(call, path, strconv.FormatUint(uint64(code), 10)).Inc()
	m.duration.WithLabelValues(call, path).Observe(time.Since(start).Seconds())
}
