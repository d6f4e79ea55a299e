package camelsnake

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposes rewrite counters to Prometheus
type Metrics struct {
	rewrites  *prometheus.CounterVec
	bypassed  prometheus.Counter
	bodyBytes *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered. Registering twice with the same registry panics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		rewrites: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "camelsnake",
			Name:      "rewrites_total",
			Help:      "Body key rewrites by direction and outcome.",
		}, []string{"direction", "outcome"}),
		bypassed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "camelsnake",
			Name:      "bypassed_total",
			Help:      "Exchanges forwarded without key rewriting.",
		}),
		bodyBytes: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "camelsnake",
			Name:      "body_bytes",
			Help:      "Size of rewritten bodies in bytes.",
			Buckets:   prometheus.ExponentialBuckets(64, 4, 8),
		}, []string{"direction"}),
	}
}

func (m *Metrics) observe(dir Direction, outcome string, size int) {
	m.rewrites.WithLabelValues(dir.String(), outcome).Inc()
	if outcome == outcomeRewritten {
		m.bodyBytes.WithLabelValues(dir.String()).Observe(float64(size))
	}
}
