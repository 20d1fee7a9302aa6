package apiclient

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RequestsTotal counts calls by client instance, method, path and status
// code ("error" when no response arrived).
var RequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "dashboard",
		Subsystem: "client",
		Name:      "requests_total",
		Help:      "Total number of API requests issued by the dashboard.",
	},
	[]string{"client", "method", "path", "code"},
)

// RequestDuration measures round-trip time including body read.
var RequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "dashboard",
		Subsystem: "client",
		Name:      "request_duration_seconds",
		Help:      "Duration of API requests issued by the dashboard.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"client", "method", "path"},
)

func observeRequest(client, method, path, code string, d time.Duration) {
	RequestsTotal.WithLabelValues(client, method, path, code).Inc()
	RequestDuration.WithLabelValues(client, method, path).Observe(d.Seconds())
}
