// Package metrics defines Prometheus metrics for the API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	// HTTPRequestsTotal tracks total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration tracks HTTP request duration
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)
)

// Authorization metrics
var (
	// AuthorizationDecisions tracks authorize() outcomes by decision
	AuthorizationDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authorization_decisions_total",
			Help: "Total number of authorization decisions by outcome",
		},
		[]string{"decision"},
	)

	// TenantSwitchesTotal tracks tenant switch attempts by outcome
	TenantSwitchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tenant_switches_total",
			Help: "Total number of tenant switch attempts by outcome",
		},
		[]string{"outcome"},
	)
)

// Permission snapshot cache metrics
var (
	// SnapshotCacheHits tracks permission snapshot cache hits
	SnapshotCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "permission_snapshot_cache_hits_total",
			Help: "Total number of permission snapshot cache hits",
		},
	)

	// SnapshotCacheMisses tracks permission snapshot cache misses
	SnapshotCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "permission_snapshot_cache_misses_total",
			Help: "Total number of permission snapshot cache misses",
		},
	)
)
