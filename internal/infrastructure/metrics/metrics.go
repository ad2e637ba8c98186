// Package metrics exposes admission outcomes as prometheus series.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"karnex/internal/domain/admission"
)

const namespace = "karnex"

// Gate names used as the "gate" label.
const (
	GateRateLimit = "ratelimit"
	GateQuota     = "quota"
)

// PrometheusMetrics owns its registry so tests and multiple servers in one
// process do not collide on the default registerer.
type PrometheusMetrics struct {
	registry   *prometheus.Registry
	decisions  *prometheus.CounterVec
	degraded   *prometheus.CounterVec
	increments *prometheus.CounterVec
}

func NewPrometheusMetrics() *PrometheusMetrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &PrometheusMetrics{
		registry: registry,
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "admission_decisions_total",
			Help:      "Admission decisions by operation, outcome and denial reason.",
		}, []string{"operation", "outcome", "reason"}),
		degraded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "admission_degraded_total",
			Help:      "Requests admitted because a gate could not read its state.",
		}, []string{"gate"}),
		increments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "usage_increments_total",
			Help:      "Usage counter increments by resource and result.",
		}, []string{"resource", "result"}),
	}
	registry.MustRegister(m.decisions, m.degraded, m.increments)

	return m
}

func (m *PrometheusMetrics) RecordDecision(d admission.Decision) {
	outcome := "allowed"
	if !d.Allowed {
		outcome = "denied"
	}
	m.decisions.WithLabelValues(d.Operation.String(), outcome, d.Reason.String()).Inc()
}

func (m *PrometheusMetrics) RecordDegraded(gate string) {
	m.degraded.WithLabelValues(gate).Inc()
}

func (m *PrometheusMetrics) RecordIncrement(resource string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.increments.WithLabelValues(resource, result).Inc()
}

// Handler serves the registry in the prometheus exposition format.
func (m *PrometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry is exposed for tests.
func (m *PrometheusMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// NoopRecorder discards everything.
type NoopRecorder struct{}

func (NoopRecorder) RecordDecision(admission.Decision) {}
func (NoopRecorder) RecordDegraded(string)             {}
func (NoopRecorder) RecordIncrement(string, error)     {}
