package core

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"templeadmin/internal/types"
)

// PrometheusMetrics owns a private registry so tests and multiple servers in
// one process never collide on registration.
type PrometheusMetrics struct {
	registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	requestsTotal   *prometheus.CounterVec
	decisionsTotal  *prometheus.CounterVec
	refreshTotal    *prometheus.CounterVec
	catalogTenants  *prometheus.GaugeVec
}

// NewPrometheusMetrics registers the console's collectors under namespace,
// plus the Go runtime and process collectors.
func NewPrometheusMetrics(namespace string) *PrometheusMetrics {
	m := &PrometheusMetrics{
		registry: prometheus.NewRegistry(),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      types.MetricHTTPRequestDuration,
			Help:      "HTTP request latency by route pattern.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{types.LabelMethod, types.LabelEndpoint, types.LabelStatus}),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      types.MetricHTTPRequestsTotal,
			Help:      "HTTP requests handled by route pattern.",
		}, []string{types.LabelMethod, types.LabelEndpoint, types.LabelStatus}),
		decisionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      types.MetricDecisionsTotal,
			Help:      "Enforcement decisions by module and outcome.",
		}, []string{types.LabelModule, types.LabelOutcome}),
		refreshTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      types.MetricCatalogRefreshTotal,
			Help:      "Catalog snapshot loads by source and result.",
		}, []string{types.LabelSource, types.LabelResult}),
		catalogTenants: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      types.MetricCatalogTenants,
			Help:      "Tenants in the active catalog snapshot.",
		}, []string{types.LabelSource}),
	}

	m.registry.MustRegister(
		m.requestDuration,
		m.requestsTotal,
		m.decisionsTotal,
		m.refreshTotal,
		m.catalogTenants,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// RecordRequest implements MetricsCollector.
func (m *PrometheusMetrics) RecordRequest(method, endpoint, status string, duration time.Duration) {
	m.requestDuration.WithLabelValues(method, endpoint, status).Observe(duration.Seconds())
	m.requestsTotal.WithLabelValues(method, endpoint, status).Inc()
}

// RecordDecision counts one enforcement outcome.
func (m *PrometheusMetrics) RecordDecision(module types.Module, allowed bool) {
	outcome := types.OutcomeDenied
	if allowed {
		outcome = types.OutcomeAllowed
	}
	m.decisionsTotal.WithLabelValues(string(module), outcome).Inc()
}

// RecordCatalogRefresh counts a snapshot load. The tenant gauge only moves on
// success since a failed load leaves the previous snapshot active.
func (m *PrometheusMetrics) RecordCatalogRefresh(source string, err error, tenants int) {
	if err != nil {
		m.refreshTotal.WithLabelValues(source, "error").Inc()
		return
	}
	m.refreshTotal.WithLabelValues(source, "success").Inc()
	m.catalogTenants.WithLabelValues(source).Set(float64(tenants))
}

// Registry exposes the underlying registry.
func (m *PrometheusMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *PrometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
