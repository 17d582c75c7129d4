package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics are the portal's Prometheus collectors
type metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	lookups  *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		requests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "qazzerep_portal",
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "qazzerep_portal",
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		lookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "qazzerep_portal",
				Name:      "report_lookups_total",
				Help:      "Report lookups against the backend by result",
			},
			[]string{"result"},
		),
	}
}

// recordLookup counts one backend report fetch. result is found,
// not_found or error.
func (m *metrics) recordLookup(result string) {
	m.lookups.WithLabelValues(result).Inc()
}
