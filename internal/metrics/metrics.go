// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Recommendation Metrics
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "murmur_recommend_requests_total",
			Help: "Total number of recommendation requests",
		},
		[]string{"operation", "outcome"}, // outcome: "cache_hit", "computed", "fallback", "error"
	)

	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "murmur_recommend_duration_seconds",
			Help:    "Duration of recommendation requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	RecommendResultSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "murmur_recommend_result_size",
			Help:    "Number of items returned per recommendation request",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
		},
		[]string{"operation"},
	)

	ProfileSignalFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "murmur_profile_signal_failures_total",
			Help: "Profile signal fetches that failed or timed out and were defaulted to empty",
		},
		[]string{"signal"}, // "interests", "following", "viewed", "interactions"
	)

	CandidatePoolSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "murmur_candidate_pool_size",
			Help:    "Number of candidates retrieved for scoring",
			Buckets: []float64{0, 10, 25, 50, 100, 150, 200},
		},
	)

	FallbackItems = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "murmur_fallback_items_total",
			Help: "Items contributed by each fallback tier",
		},
		[]string{"tier"},
	)

	FallbackTierErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "murmur_fallback_tier_errors_total",
			Help: "Fallback tier queries that failed",
		},
		[]string{"tier"},
	)

	PeopleTierResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "murmur_people_tier_results_total",
			Help: "People recommendation candidates contributed by each tier",
		},
		[]string{"tier"},
	)

	PipelinePanics = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "murmur_pipeline_panics_total",
			Help: "Recovered panics in the scoring and diversity stages",
		},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "murmur_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"family"}, // "recommendations", "interests", "following", "fallback_posts"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "murmur_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"family"},
	)

	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "murmur_cache_errors_total",
			Help: "Cache operations that failed and were treated as a miss or no-op",
		},
		[]string{"backend", "operation"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "murmur_cache_entries",
			Help: "Current number of entries in the in-process cache",
		},
		[]string{"backend"},
	)

	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	// Graph Metrics
	GraphQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "neo4j_query_duration_seconds",
			Help:    "Duration of graph queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"query"},
	)

	GraphQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neo4j_query_errors_total",
			Help: "Total number of failed graph queries",
		},
		[]string{"query"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// View Event Metrics
	ViewEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "murmur_view_events_total",
			Help: "View events by outcome",
		},
		[]string{"outcome"}, // "published", "dropped", "stored", "failed"
	)

	ViewProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "murmur_view_processing_duration_seconds",
			Help:    "Time to persist a view event",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	// Ops HTTP Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "murmur_http_requests_total",
			Help: "Ops HTTP requests by route pattern and status",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "murmur_http_request_duration_seconds",
			Help:    "Ops HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "murmur_http_active_requests",
			Help: "Ops HTTP requests in flight",
		},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordRecommendRequest records a completed recommendation request.
func RecordRecommendRequest(operation, outcome string, duration time.Duration, size int) {
	RecommendRequests.WithLabelValues(operation, outcome).Inc()
	RecommendDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if outcome != "error" {
		RecommendResultSize.WithLabelValues(operation).Observe(float64(size))
	}
}

// RecordCacheLookup records a cache hit or miss for a key family.
func RecordCacheLookup(family string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(family).Inc()
	} else {
		CacheMisses.WithLabelValues(family).Inc()
	}
}

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordGraphQuery records a graph query metric
func RecordGraphQuery(query string, duration time.Duration, err error) {
	GraphQueryDuration.WithLabelValues(query).Observe(duration.Seconds())
	if err != nil {
		GraphQueryErrors.WithLabelValues(query).Inc()
	}
}

// RecordAPIRequest records a completed ops HTTP request. route must be the
// route pattern, not the raw path, to keep label cardinality bounded.
func RecordAPIRequest(method, route, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, status).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight gauge.
func TrackActiveRequest(start bool) {
	if start {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
