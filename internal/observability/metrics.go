// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	registry *prometheus.Registry

	// Registry metrics
	RegistryTokens *prometheus.GaugeVec

	// Audit metrics
	AuditRunsTotal *prometheus.CounterVec
	AuditChecks    *prometheus.CounterVec
	AuditDuration  prometheus.Histogram

	// RPC metrics
	RPCCallLatency *prometheus.HistogramVec
	RPCCallErrors  *prometheus.CounterVec

	// Health metrics
	LastSuccessfulAudit prometheus.Gauge
}

// NewMetrics creates a new Metrics instance registered on its own registry.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "token_registry"
	}

	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		RegistryTokens: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "tokens",
			Help:      "Number of tokens listed in the active table by network",
		}, []string{"network"}),

		AuditRunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "audit",
			Name:      "runs_total",
			Help:      "Total number of audit runs by status",
		}, []string{"network", "status"}),
		AuditChecks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "audit",
			Name:      "checks_total",
			Help:      "Total number of per-token audit checks by outcome",
		}, []string{"token", "check", "outcome"}),
		AuditDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "audit",
			Name:      "duration_seconds",
			Help:      "Audit run duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		RPCCallLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "solana",
			Name:      "rpc_call_latency_seconds",
			Help:      "Solana RPC call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		RPCCallErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "solana",
			Name:      "rpc_call_errors_total",
			Help:      "Total number of failed Solana RPC calls",
		}, []string{"method"}),

		LastSuccessfulAudit: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_audit_timestamp",
			Help:      "Unix timestamp of last audit without findings",
		}),
	}
}

// Registry exposes the underlying registry for gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// SetRegistryTokens records the size of a network's table.
func (m *Metrics) SetRegistryTokens(network string, n int) {
	m.RegistryTokens.WithLabelValues(network).Set(float64(n))
}

// RecordRPCCall records RPC call latency and failures.
// Its signature matches solana.WithObserver.
func (m *Metrics) RecordRPCCall(method string, d time.Duration, err error) {
	m.RPCCallLatency.WithLabelValues(method).Observe(d.Seconds())
	if err != nil {
		m.RPCCallErrors.WithLabelValues(method).Inc()
	}
}

// RecordAuditCheck records one per-token check outcome.
func (m *Metrics) RecordAuditCheck(token, check, outcome string) {
	m.AuditChecks.WithLabelValues(token, check, outcome).Inc()
}

// RecordAuditRun records a completed audit run.
func (m *Metrics) RecordAuditRun(network, status string, d time.Duration) {
	m.AuditRunsTotal.WithLabelValues(network, status).Inc()
	m.AuditDuration.Observe(d.Seconds())
	if status == "ok" {
		m.LastSuccessfulAudit.SetToCurrentTime()
	}
}
