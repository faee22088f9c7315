package provider

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the prometheus collectors updated by a Provider.
type Metrics struct {
	queries    *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	reconnects prometheus.Counter
}

// NewMetrics creates the provider collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		queries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sqlrepo_provider_queries_total",
				Help: "Total number of statements executed by the provider.",
			},
			[]string{"op", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sqlrepo_provider_query_duration_seconds",
				Help:    "Statement latency by provider operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		),
		reconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sqlrepo_provider_reconnects_total",
			Help: "Number of times the provider replaced its connection.",
		}),
	}

	for _, c := range []prometheus.Collector{m.queries, m.duration, m.reconnects} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(op string, start time.Time, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.queries.WithLabelValues(op, status).Inc()
	m.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (m *Metrics) reconnected() {
	if m == nil {
		return
	}
	m.reconnects.Inc()
}
