// Package metrics holds the Prometheus collectors for the recommendation pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OracleRequestsTotal counts oracle calls by provider and outcome
	// (ok, transport_error, empty, breaker_open, disabled).
	OracleRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oracle_requests_total",
			Help: "Total number of language model calls by outcome",
		},
		[]string{"provider", "outcome"},
	)

	OracleRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "oracle_request_duration_seconds",
			Help:    "Language model call duration in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60},
		},
		[]string{"provider"},
	)

	// OracleRejectionsTotal counts answers discarded after the call succeeded
	// (null_answer, malformed_json, schema_rejected, invalid_content).
	OracleRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oracle_rejections_total",
			Help: "Total number of oracle answers rejected before use",
		},
		[]string{"kind", "reason"},
	)

	ResultsBySource = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_results_total",
			Help: "Total number of results returned, by endpoint and provenance",
		},
		[]string{"endpoint", "source"},
	)

	BuildCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "build_cache_requests_total",
			Help: "Build cache lookups by result (hit, miss)",
		},
		[]string{"result"},
	)

	CatalogRefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_refresh_total",
			Help: "Catalog refresh runs by result",
		},
		[]string{"result"},
	)
)
