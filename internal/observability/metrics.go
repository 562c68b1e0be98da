// Package observability exposes Prometheus metrics for the CV session.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	registry       *prometheus.Registry
	exports        *prometheus.CounterVec
	exportDuration prometheus.Histogram
	mutations      *prometheus.CounterVec
	renders        *prometheus.CounterVec
	uploads        *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cvcraft",
			Name:      "exports_total",
			Help:      "PDF exports by outcome code.",
		}, []string{"outcome"}),
		exportDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "cvcraft",
			Name:      "export_duration_seconds",
			Help:      "Time spent capturing and composing a PDF.",
			Buckets:   []float64{.25, .5, 1, 2, 4, 8, 16, 32},
		}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cvcraft",
			Name:      "mutations_total",
			Help:      "Document edits by section and operation.",
		}, []string{"section", "op"}),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cvcraft",
			Name:      "renders_total",
			Help:      "Rendered previews by template.",
		}, []string{"template"}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cvcraft",
			Name:      "image_uploads_total",
			Help:      "Profile image uploads by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(
		m.exports, m.exportDuration, m.mutations, m.renders, m.uploads,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveExport(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.exports.WithLabelValues(outcome).Inc()
	m.exportDuration.Observe(d.Seconds())
}

func (m *Metrics) ObserveMutation(section, op string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(section, op).Inc()
}

func (m *Metrics) ObserveRender(template string) {
	if m == nil {
		return
	}
	m.renders.WithLabelValues(template).Inc()
}

func (m *Metrics) ObserveUpload(outcome string) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(outcome).Inc()
}
