package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	registry  *prometheus.Registry
	responses *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		responses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "respond_responses_total",
				Help: "Responses formatted by adapter, operation and outcome.",
			},
			[]string{"adapter", "op", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "respond_render_duration_seconds",
				Help:    "Time spent formatting and writing a response.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"adapter"},
		),
	}
	m.registry.MustRegister(m.responses, m.duration)
	return m
}

func (m *metrics) observe(adapter, op string, start time.Time, failed bool) {
	outcome := "ok"
	if failed {
		outcome = "failed"
	}
	m.responses.WithLabelValues(adapter, op, outcome).Inc()
	m.duration.WithLabelValues(adapter).Observe(time.Since(start).Seconds())
}
