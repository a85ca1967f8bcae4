// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/murmur/internal/cache"
	"github.com/tomtom215/murmur/internal/recommend"
)

// DefaultConfigPaths lists the config file locations searched in order.
// The first file found is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/murmur/config.yaml",
	"/etc/murmur/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns the built-in defaults. The file and the
// environment override these.
func defaultConfig() *Config {
	return &Config{
		Recommend: *recommend.DefaultConfig(),
		Database: DatabaseConfig{
			Path:         "/data/murmur.duckdb",
			MaxMemory:    "1GB",
			Threads:      0,
			QueryTimeout: 5 * time.Second,
		},
		Graph: GraphConfig{
			URI:                   "neo4j://127.0.0.1:7687",
			Username:              "neo4j",
			MaxConnectionPoolSize: 50,
			ConnectTimeout:        5 * time.Second,
			Breaker: BreakerConfig{
				MaxRequests:      1,
				Interval:         time.Minute,
				Timeout:          30 * time.Second,
				FailureThreshold: 5,
			},
		},
		Cache: cache.Config{
			Backend:         cache.BackendMemory,
			CleanupInterval: 5 * time.Minute,
			KeyPrefix:       "murmur:",
		},
		Views: ViewsConfig{
			Async:         true,
			BufferSize:    1024,
			RateLimit:     0,
			Burst:         100,
			RetryCount:    3,
			RetryInterval: 100 * time.Millisecond,
			CloseTimeout:  10 * time.Second,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            9464,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file and
// the environment, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns CONFIG_PATH if it exists, else the first existing
// default path, else "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envMappings maps environment variable names (lowercased) to koanf paths.
// Unlisted variables are ignored.
var envMappings = map[string]string{
	// Database
	"duckdb_path":          "database.path",
	"duckdb_max_memory":    "database.max_memory",
	"duckdb_threads":       "database.threads",
	"duckdb_query_timeout": "database.query_timeout",
	"seed_demo_data":       "database.seed_demo_data",

	// Graph
	"neo4j_uri":                   "graph.uri",
	"neo4j_username":              "graph.username",
	"neo4j_password":              "graph.password",
	"neo4j_database":              "graph.database",
	"neo4j_max_pool_size":         "graph.max_connection_pool_size",
	"neo4j_connect_timeout":       "graph.connect_timeout",
	"graph_breaker_timeout":       "graph.breaker.timeout",
	"graph_breaker_failures":      "graph.breaker.failure_threshold",
	"graph_breaker_interval":      "graph.breaker.interval",
	"graph_breaker_half_open_max": "graph.breaker.max_requests",

	// Cache
	"cache_backend":    "cache.backend",
	"cache_key_prefix": "cache.key_prefix",
	"badger_path":      "cache.badger_path",
	"redis_addr":       "cache.redis_addr",
	"redis_password":   "cache.redis_password",
	"redis_db":         "cache.redis_db",

	// Views
	"views_async":       "views.async",
	"views_buffer_size": "views.buffer_size",
	"views_rate_limit":  "views.rate_limit",
	"views_burst":       "views.burst",
	"views_retry_count": "views.retry_count",

	// Server
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_shutdown_timeout": "server.shutdown_timeout",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Recommendation engine
	"recommend_default_limit":     "recommend.limits.default_limit",
	"recommend_max_limit":         "recommend.limits.max_limit",
	"recommend_max_candidates":    "recommend.limits.max_candidates",
	"recommend_signal_timeout":    "recommend.profile.signal_timeout",
	"recommend_decay_factor":      "recommend.profile.decay_factor",
	"recommend_cache_enabled":     "recommend.cache.enabled",
	"recommend_result_ttl":        "recommend.cache.result_ttl",
	"recommend_fallback_ttl":      "recommend.cache.fallback_ttl",
	"recommend_fallback_pool_ttl": "recommend.cache.fallback_pool_ttl",
	"recommend_interests_ttl":     "recommend.cache.interests_ttl",
	"recommend_following_ttl":     "recommend.cache.following_ttl",
	"recommend_coalesce":          "recommend.coalesce",
	"recommend_coalesce_timeout":  "recommend.coalesce_timeout",
	"recommend_seed":              "recommend.seed",
}

// envTransformFunc maps an environment variable name to a koanf path, or
// "" to skip it.
//
// Examples:
//   - DUCKDB_PATH -> database.path
//   - NEO4J_URI -> graph.uri
//   - RECOMMEND_RESULT_TTL -> recommend.cache.result_ttl
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
