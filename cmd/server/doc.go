// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

// Package main is the entry point for the Murmur server.
//
// Murmur decides, for a given user, which posts and which other users to
// surface. The binary wires the recommendation engine to its stores and
// runs an operational HTTP listener under a suture supervisor tree.
//
// # Startup Order
//
//  1. Configuration: koanf layers defaults, config.yaml and environment
//  2. Logging: zerolog, json or console
//  3. Database: DuckDB content and view store, migrations applied
//  4. Graph: neo4j driver behind a circuit breaker
//  5. Demo data (SEED_DEMO_DATA=true): written to both stores
//  6. Cache: memory, badger or redis
//  7. Views: watermill pipeline (VIEWS_ASYNC=true) or direct writes
//  8. Engine and ops server, both supervised
//
// # Endpoints
//
//	GET  /healthz/live                      liveness
//	GET  /healthz                           dependency health
//	GET  /metrics                           Prometheus metrics
//	GET  /debug/users/{id}/content?limit=N  ranked posts with scores
//	GET  /debug/users/{id}/people?limit=N   people suggestions
//	POST /debug/users/{id}/views/{post}     record a view
//
// # Example
//
//	export DUCKDB_PATH=/tmp/murmur.duckdb
//	export NEO4J_URI=neo4j://localhost:7687 NEO4J_PASSWORD=secret
//	export SEED_DEMO_DATA=true LOG_FORMAT=console
//	./murmur
//	curl localhost:9464/healthz
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the supervisor context. The ops server drains
// for HTTP_SHUTDOWN_TIMEOUT, then the view pipeline, cache, graph driver and
// database are closed in reverse order of creation.
package main
