package worker

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects per-run counters for the worker.
type Metrics struct {
	reg *prometheus.Registry

	runs       *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	outOfRange *prometheus.CounterVec
	negCarbon  *prometheus.CounterVec
	exported   *prometheus.CounterVec
	inflight   prometheus.Gauge
	duplicates prometheus.Counter
}

// NewMetrics registers the worker collectors on a private registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		reg: reg,
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ecohydro",
			Name:      "runs_total",
			Help:      "Pipeline runs handled, by site and outcome.",
		}, []string{"site", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ecohydro",
			Name:      "run_duration_seconds",
			Help:      "Wall time of one pipeline run.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"site"}),
		outOfRange: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ecohydro",
			Name:      "moisture_out_of_range_days_total",
			Help:      "Days whose relative soil moisture left [0,1].",
		}, []string{"site"}),
		negCarbon: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ecohydro",
			Name:      "negative_carbon_values_total",
			Help:      "Carbon pool values that went below zero.",
		}, []string{"site"}),
		exported: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ecohydro",
			Name:      "exported_points_total",
			Help:      "Series points written to the reporting sink.",
		}, []string{"site"}),
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ecohydro",
			Name:      "runs_in_flight",
			Help:      "Pipeline runs currently executing.",
		}),
		duplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ecohydro",
			Name:      "duplicate_requests_total",
			Help:      "Run requests dropped as redeliveries.",
		}),
	}
	reg.MustRegister(m.runs, m.duration, m.outOfRange, m.negCarbon, m.exported, m.inflight, m.duplicates,
		collectors.NewGoCollector())
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }
