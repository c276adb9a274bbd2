package api

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "wmfkit"
	subsystem = "api"
)

// Metrics holds the collectors of one server. Each server owns its registry
// so tests can run servers side by side.
type Metrics struct {
	Registry *prometheus.Registry

	records     *prometheus.CounterVec
	conversions *prometheus.CounterVec
	failures    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		records: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "records_decoded_total",
				Help:      "Records decoded by inspect requests. Broken down by record type.",
			},
			[]string{"type"},
		),
		conversions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "conversions_total",
				Help:      "Files converted. Broken down by output byte order.",
			},
			[]string{"order"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "failures_total",
				Help:      "Rejected requests. Broken down by endpoint and error type.",
			},
			[]string{"endpoint", "type"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "request_duration_seconds",
				Help:      "Time spent handling codec requests.",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
			[]string{"endpoint"},
		),
	}
	m.Registry.MustRegister(m.records, m.conversions, m.failures, m.duration)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

func (m *Metrics) RecordDecoded(typ string, n int) {
	m.records.WithLabelValues(typ).Add(float64(n))
}

func (m *Metrics) Conversion(order string) {
	m.conversions.WithLabelValues(order).Inc()
}

func (m *Metrics) Failure(endpoint, errType string) {
	m.failures.WithLabelValues(endpoint, errType).Inc()
}

func (m *Metrics) Observe(endpoint string, start time.Time) {
	m.duration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}
