package analysis

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	RequestsTotal  *prometheus.CounterVec
	Duration       *prometheus.HistogramVec
	FetchFailures  prometheus.Counter
	TradesRecorded *prometheus.CounterVec
}

var durationBuckets = []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60}

// NewMetrics registers the service metrics with reg, or the default
// registerer when reg is nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)

	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "stock_analysis",
				Subsystem: "service",
				Name:      "requests_total",
				Help:      "Total number of service operations by outcome",
			},
			[]string{"operation", "status"},
		),
		Duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "stock_analysis",
				Subsystem: "service",
				Name:      "duration_seconds",
				Help:      "Duration of service operations in seconds",
				Buckets:   durationBuckets,
			},
			[]string{"operation"},
		),
		FetchFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "stock_analysis",
				Subsystem: "feed",
				Name:      "fetch_failures_total",
				Help:      "Symbols that failed to fetch or analyze in batch operations",
			},
		),
		TradesRecorded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "stock_analysis",
				Subsystem: "portfolio",
				Name:      "trades_recorded_total",
				Help:      "Trades appended to stored portfolios",
			},
			[]string{"action"},
		),
	}
}

func (m *Metrics) observe(op string, start time.Time, err *error) {
	status := "ok"
	if *err != nil {
		status = "error"
	}

	m.RequestsTotal.WithLabelValues(op, status).Inc()
	m.Duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
