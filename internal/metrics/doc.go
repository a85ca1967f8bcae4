// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and are
exposed by the ops server at /metrics.

# Available Metrics

Recommendation Metrics:
  - murmur_recommend_requests_total: Requests by operation and outcome (counter)
    Labels: operation (content, users, view), outcome (cache_hit, computed, fallback, error)
  - murmur_recommend_duration_seconds: Request latency (histogram)
  - murmur_recommend_result_size: Items returned per request (histogram)
  - murmur_profile_signal_failures_total: Signals defaulted to empty (counter)
    Labels: signal (interests, following, viewed, interactions)
  - murmur_candidate_pool_size: Candidates per request (histogram)
  - murmur_fallback_items_total / murmur_fallback_tier_errors_total (counter)
    Labels: tier (trending, recent, any)
  - murmur_people_tier_results_total (counter)
    Labels: tier (friends_of_friends, shared_interests, random)
  - murmur_pipeline_panics_total: Recovered scoring/diversity panics (counter)

Cache Metrics:
  - murmur_cache_hits_total / murmur_cache_misses_total (counter)
    Labels: family (recommendations, interests, following, fallback_posts)
  - murmur_cache_errors_total (counter)
    Labels: backend, operation
  - murmur_cache_entries: In-process cache size (gauge)

Store Metrics:
  - duckdb_query_duration_seconds / duckdb_query_errors_total
  - neo4j_query_duration_seconds / neo4j_query_errors_total

Circuit Breaker Metrics:
  - circuit_breaker_state: Current state (gauge), 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total: Labels name, result (success, failure, rejected)
  - circuit_breaker_consecutive_failures (gauge)
  - circuit_breaker_state_transitions_total

View Metrics:
  - murmur_view_events_total: Labels outcome (published, dropped, stored, failed)
  - murmur_view_processing_duration_seconds (histogram)

Example PromQL queries:

	# Fallback share of content requests
	sum(rate(murmur_recommend_requests_total{operation="content",outcome="fallback"}[5m]))
	  / sum(rate(murmur_recommend_requests_total{operation="content"}[5m]))

	# Result cache hit rate
	rate(murmur_cache_hits_total{family="recommendations"}[5m])
	  / (rate(murmur_cache_hits_total{family="recommendations"}[5m]) + rate(murmur_cache_misses_total{family="recommendations"}[5m]))

# Thread Safety

All metric recording functions are safe for concurrent use. The Prometheus
client library handles synchronization internally.
*/
package metrics
