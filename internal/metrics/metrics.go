// Package metrics records operation counts, latencies and calibration
// results in a private Prometheus registry, and samples Go runtime memory
// statistics.
package metrics

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"

	"github.com/agbru/nfloat/internal/nfloat"
)

const namespace = "nfcalc"

// Metrics owns a registry and the collectors registered in it. Each value
// has its own registry so that tests and concurrent callers never collide
// on the global one.
type Metrics struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	durations  *prometheus.HistogramVec
	crossover  *prometheus.GaugeVec
}

// New returns a Metrics with the Go runtime collector registered.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Arithmetic operations performed, by operation and status.",
		}, []string{"op", "status"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Wall time of arithmetic operations.",
			Buckets:   prometheus.ExponentialBuckets(1e-7, 4, 12),
		}, []string{"op"}),
		crossover: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "calibration_crossover_limbs",
			Help:      "Limb count at which the faster algorithm changes, as measured by calibration.",
		}, []string{"kind"}),
	}
	m.registry.MustRegister(
		m.operations,
		m.durations,
		m.crossover,
		collectors.NewGoCollector(),
	)
	return m
}

// ObserveOperation records one operation of kind op that took d and
// finished with st.
func (m *Metrics) ObserveOperation(op string, d time.Duration, st nfloat.Status) {
	m.operations.WithLabelValues(op, st.String()).Inc()
	m.durations.WithLabelValues(op).Observe(d.Seconds())
}

// SetCrossover records a calibrated crossover point, e.g. kind "complex_mul".
func (m *Metrics) SetCrossover(kind string, limbs int) {
	m.crossover.WithLabelValues(kind).Set(float64(limbs))
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// WriteText writes every gathered family to w in the plain text format.
func (m *Metrics) WriteText(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encoding %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
