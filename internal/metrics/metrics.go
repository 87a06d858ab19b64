// Package metrics exposes Prometheus instrumentation for the service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the collectors the service records into.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	ExpensesCreated     prometheus.Counter
	SettlementsCreated  prometheus.Counter
	SettlementsRejected *prometheus.CounterVec

	BalanceComputeDuration prometheus.Histogram
	UnbalancedLedgers      prometheus.Counter
}

// New creates the service's collectors on a dedicated registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "splitledger_http_requests_total",
			Help: "HTTP requests by method, route pattern, and status code.",
		}, []string{"method", "route", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "splitledger_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		ExpensesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "splitledger_expenses_created_total",
			Help: "Expenses accepted into the ledger.",
		}),
		SettlementsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "splitledger_settlements_created_total",
			Help: "Settlements accepted into the ledger.",
		}),
		SettlementsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "splitledger_settlements_rejected_total",
			Help: "Settlements rejected by validation, by reason class.",
		}, []string{"reason"}),
		BalanceComputeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "splitledger_balance_compute_duration_seconds",
			Help:    "Time spent aggregating and simplifying a group's ledger.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		UnbalancedLedgers: factory.NewCounter(prometheus.CounterOpts{
			Name: "splitledger_unbalanced_ledgers_total",
			Help: "Balance computations whose totals did not net to zero.",
		}),
	}
}

// Handler returns the /metrics HTTP handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveBalanceCompute records one full aggregate+simplify pass.
func (m *Metrics) ObserveBalanceCompute(d time.Duration) {
	m.BalanceComputeDuration.Observe(d.Seconds())
}
