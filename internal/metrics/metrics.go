// Package metrics provides Prometheus instrumentation for the navigation
// engine. A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Load results
const (
	ResultOK     = "ok"
	ResultError  = "error"
	ResultStale  = "stale"
	ResultDenied = "denied"
	ResultAbsent = "not_found"
)

// Metrics holds the engine collectors.
type Metrics struct {
	loadsTotal     *prometheus.CounterVec
	loadDuration   prometheus.Histogram
	opsTotal       *prometheus.CounterVec
	currentEntries prometheus.Gauge
	routesTotal    prometheus.Gauge
}

// New registers the collectors on reg. Pass prometheus.NewRegistry() in tests
// and prometheus.DefaultRegisterer in the binary.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		loadsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "picroute_directory_loads_total",
				Help: "Directory loads by result (ok, stale, not_found, denied, error)",
			},
			[]string{"result"},
		),
		loadDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "picroute_directory_load_duration_seconds",
				Help:    "Time spent in the provider listing a directory",
				Buckets: prometheus.DefBuckets,
			},
		),
		opsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "picroute_file_operations_total",
				Help: "File operations by kind and result",
			},
			[]string{"op", "result"},
		),
		currentEntries: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "picroute_current_route_entries",
				Help: "Number of entries shown for the current route",
			},
		),
		routesTotal: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "picroute_registered_routes",
				Help: "Number of routes in the registry",
			},
		),
	}
}

// ObserveLoad records one finished directory load.
func (m *Metrics) ObserveLoad(result string, d time.Duration) {
	if m == nil {
		return
	}
	m.loadsTotal.WithLabelValues(result).Inc()
	m.loadDuration.Observe(d.Seconds())
}

// Operation records a trash/copy/mkdir outcome.
func (m *Metrics) Operation(op, result string) {
	if m == nil {
		return
	}
	m.opsTotal.WithLabelValues(op, result).Inc()
}

// SetCurrentEntries sets the entry gauge for the current route.
func (m *Metrics) SetCurrentEntries(n int) {
	if m == nil {
		return
	}
	m.currentEntries.Set(float64(n))
}

// SetRoutes sets the registry size gauge.
func (m *Metrics) SetRoutes(n int) {
	if m == nil {
		return
	}
	m.routesTotal.Set(float64(n))
}
