package ratelimit

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records limiter decisions.
type Metrics interface {
	Observe(limiter string, allowed bool)
}

// NoopMetrics discards everything.
type NoopMetrics struct{}

func (NoopMetrics) Observe(string, bool) {}

// PrometheusMetrics counts decisions per limiter and outcome.
type PrometheusMetrics struct {
	decisions *prometheus.CounterVec
}

func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	decisions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_rate_limit_decisions_total",
			Help: "Rate limit decisions by limiter and outcome",
		},
		[]string{"limiter", "outcome"},
	)
	reg.MustRegister(decisions)
	return &PrometheusMetrics{decisions: decisions}
}

func (m *PrometheusMetrics) Observe(limiter string, allowed bool) {
	outcome := "allowed"
	if !allowed {
		outcome = "denied"
	}
	m.decisions.WithLabelValues(limiter, outcome).Inc()
}
