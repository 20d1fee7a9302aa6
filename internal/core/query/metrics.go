package query

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// FetchTotal counts completed fetches by key and result (success, error).
var FetchTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "dashboard",
		Subsystem: "query",
		Name:      "fetch_total",
		Help:      "Total number of query fetches and mutations by outcome.",
	},
	[]string{"key", "result"},
)

// CacheTotal counts store lookups by key and result (hit, miss, stale).
var CacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "dashboard",
		Subsystem: "query",
		Name:      "cache_total",
		Help:      "Total number of query cache lookups by outcome.",
	},
	[]string{"key", "result"},
)
