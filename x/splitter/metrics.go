package splitter

import (
	"github.com/iov-one/revsplit/coin"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes the router activity. A nil Metrics is valid and records
// nothing.
type Metrics struct {
	distributed   *prometheus.CounterVec
	distributions *prometheus.CounterVec
	phase         prometheus.Gauge
}

// NewMetrics returns router metrics registered with given registerer.
// Collectors already registered are reused.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	distributed := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "revsplit",
			Subsystem: "splitter",
			Name:      "distributed_total",
			Help:      "Amount of coins sent to each destination wallet.",
		},
		[]string{"ticker", "destination"},
	)
	distributions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "revsplit",
			Subsystem: "splitter",
			Name:      "distributions_total",
			Help:      "Number of executed distributions.",
		},
		[]string{"ticker"},
	)
	phase := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "revsplit",
			Subsystem: "splitter",
			Name:      "phase",
			Help:      "Current router phase: 1 survival, 2 transition, 3 permanent.",
		},
	)
	return &Metrics{
		distributed:   mustRegister(reg, distributed).(*prometheus.CounterVec),
		distributions: mustRegister(reg, distributions).(*prometheus.CounterVec),
		phase:         mustRegister(reg, phase).(prometheus.Gauge),
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

func (m *Metrics) observePhase(p Phase) {
	if m == nil {
		return
	}
	m.phase.Set(float64(p))
}

func (m *Metrics) observeDistribution(ticker string, s Shares) {
	if m == nil {
		return
	}
	m.distributions.WithLabelValues(ticker).Inc()
	m.distributed.WithLabelValues(ticker, "founder").Add(amount(s.Founder))
	m.distributed.WithLabelValues(ticker, "dao").Add(amount(s.Dao))
	m.distributed.WithLabelValues(ticker, "charity").Add(amount(s.Charity))
}

// amount returns the coin value as a float. Precision loss is acceptable
// for reporting.
func amount(c coin.Coin) float64 {
	return float64(c.Whole) + float64(c.Fractional)/float64(coin.FracUnit)
}
