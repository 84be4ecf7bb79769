// Package metrics exposes Prometheus instruments for catalog activity.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors the API updates.
type Metrics struct {
	registry  *prometheus.Registry
	mutations *prometheus.CounterVec
	toggles   prometheus.Counter
	exports   *prometheus.CounterVec
	records   prometheus.Gauge
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "drugdex",
			Name:      "catalog_mutations_total",
			Help:      "Catalog writes by operation.",
		}, []string{"op"}),
		toggles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "drugdex",
			Name:      "favorite_toggles_total",
			Help:      "Favorite toggles.",
		}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "drugdex",
			Name:      "exports_total",
			Help:      "Catalog exports by format.",
		}, []string{"format"}),
		records: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "drugdex",
			Name:      "catalog_records",
			Help:      "Records currently held in memory.",
		}),
	}
	m.registry.MustRegister(m.mutations, m.toggles, m.exports, m.records)
	return m
}

// Mutation counts a catalog write and records the new size.
func (m *Metrics) Mutation(op string, size int) {
	m.mutations.WithLabelValues(op).Inc()
	m.records.Set(float64(size))
}

// Records sets the catalog size gauge.
func (m *Metrics) Records(size int) { m.records.Set(float64(size)) }

// FavoriteToggled counts a favorite toggle.
func (m *Metrics) FavoriteToggled() { m.toggles.Inc() }

// Exported counts an export in the given format.
func (m *Metrics) Exported(format string) { m.exports.WithLabelValues(format).Inc() }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
