// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

/*
Package config loads and validates Murmur's configuration.

# Configuration Sources

Values are layered with koanf, later sources overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. A YAML file: CONFIG_PATH, else the first of DefaultConfigPaths that exists
 3. Environment variables listed in the mapping table in koanf.go

Unmapped environment variables are ignored, so the process environment
cannot inject arbitrary keys.

# Example File

	database:
	  path: /var/lib/murmur/feed.duckdb
	  max_memory: 2GB
	graph:
	  uri: neo4j://neo4j:7687
	  username: neo4j
	  password: secret
	  breaker:
	    failure_threshold: 5
	    timeout: 30s
	cache:
	  backend: redis
	  redis_addr: redis:6379
	recommend:
	  limits:
	    default_limit: 20
	  cache:
	    result_ttl: 5m
	    fallback_ttl: 1m

# Environment Variables

  - DUCKDB_PATH, DUCKDB_MAX_MEMORY, DUCKDB_THREADS, SEED_DEMO_DATA
  - NEO4J_URI, NEO4J_USERNAME, NEO4J_PASSWORD, NEO4J_DATABASE
  - CACHE_BACKEND (memory, badger, redis), BADGER_PATH, REDIS_ADDR, REDIS_PASSWORD, REDIS_DB
  - VIEWS_ASYNC, VIEWS_RATE_LIMIT, VIEWS_BURST
  - HTTP_HOST, HTTP_PORT
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER
  - RECOMMEND_* for the most common engine settings

# Validation

Load fails when a struct tag constraint is violated (go-playground/validator,
field names reported by koanf key), when recommend.Config.Validate rejects
the engine settings, or when a cross-field rule fails, such as the redis
backend without an address.
*/
package config
