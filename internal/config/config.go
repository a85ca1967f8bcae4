// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

package config

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/tomtom215/murmur/internal/cache"
	"github.com/tomtom215/murmur/internal/recommend"
	"github.com/tomtom215/murmur/internal/validation"
)

// Config holds all application configuration.
//
// Loading order (see Load):
//  1. Defaults from defaultConfig
//  2. Optional YAML file (CONFIG_PATH or DefaultConfigPaths)
//  3. Environment variables from the mapping table in koanf.go
//
// Sections:
//   - Recommend: engine tuning (weights, windows, TTLs), see recommend.Config
//   - Database: DuckDB content store
//   - Graph: neo4j relationship graph and its circuit breaker
//   - Cache: cache backend selection
//   - Views: view recording pipeline
//   - Server: ops HTTP listener (/metrics, /healthz)
//   - Logging: level and format
type Config struct {
	Recommend recommend.Config `koanf:"recommend"`
	Database  DatabaseConfig   `koanf:"database"`
	Graph     GraphConfig      `koanf:"graph"`
	Cache     cache.Config     `koanf:"cache"`
	Views     ViewsConfig      `koanf:"views"`
	Server    ServerConfig     `koanf:"server"`
	Logging   LoggingConfig    `koanf:"logging"`
}

// DatabaseConfig configures the DuckDB content store.
type DatabaseConfig struct {
	// Path is the database file. ":memory:" or "" runs in memory.
	Path string `koanf:"path"`

	// MaxMemory is passed to DuckDB's max_memory setting, e.g. "1GB".
	MaxMemory string `koanf:"max_memory" validate:"required"`

	// Threads is DuckDB's worker count. 0 uses runtime.NumCPU().
	Threads int `koanf:"threads" validate:"gte=0"`

	// QueryTimeout bounds every store call that has no deadline of its own.
	QueryTimeout time.Duration `koanf:"query_timeout" validate:"gt=0"`

	// SeedDemoData inserts a small demo graph of users and posts on startup.
	SeedDemoData bool `koanf:"seed_demo_data"`
}

// GraphConfig configures the neo4j graph store.
type GraphConfig struct {
	URI      string `koanf:"uri" validate:"required,url"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`

	// Database selects a neo4j database; empty uses the server default.
	Database string `koanf:"database"`

	MaxConnectionPoolSize int           `koanf:"max_connection_pool_size" validate:"gte=1"`
	ConnectTimeout        time.Duration `koanf:"connect_timeout" validate:"gt=0"`

	Breaker BreakerConfig `koanf:"breaker"`
}

// BreakerConfig configures the circuit breaker around graph queries.
type BreakerConfig struct {
	// MaxRequests is the number of trial requests allowed in half-open state.
	MaxRequests uint32 `koanf:"max_requests" validate:"gte=1"`

	// Interval clears failure counts while closed. 0 never clears.
	Interval time.Duration `koanf:"interval" validate:"gte=0"`

	// Timeout is how long the breaker stays open before probing.
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`

	// FailureThreshold consecutive failures open the breaker.
	FailureThreshold uint32 `koanf:"failure_threshold" validate:"gte=1"`
}

// ViewsConfig configures view recording.
type ViewsConfig struct {
	// Async routes views through the in-process message bus. When false,
	// views are written to the database synchronously.
	Async bool `koanf:"async"`

	// BufferSize is the gochannel output buffer.
	BufferSize int64 `koanf:"buffer_size" validate:"gte=0"`

	// RateLimit caps accepted views per second; excess views are dropped
	// and counted. 0 disables the limiter.
	RateLimit float64 `koanf:"rate_limit" validate:"gte=0"`
	Burst     int     `koanf:"burst" validate:"gte=0"`

	RetryCount    int           `koanf:"retry_count" validate:"gte=0"`
	RetryInterval time.Duration `koanf:"retry_interval" validate:"gte=0"`
	CloseTimeout  time.Duration `koanf:"close_timeout" validate:"gt=0"`
}

// ServerConfig configures the ops HTTP listener.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"gte=1,lte=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

// Addr returns host:port for net.Listen.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn warning error disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// Validate checks field constraints and cross-field rules.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}

	if err := c.Recommend.Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}

	switch c.Cache.Backend {
	case cache.BackendRedis:
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("cache.redis_addr is required for the redis backend")
		}
		if _, _, err := net.SplitHostPort(c.Cache.RedisAddr); err != nil {
			return fmt.Errorf("cache.redis_addr: %w", err)
		}
	case cache.BackendBadger, cache.BackendMemory, "":
	}

	if c.Views.Async && c.Views.RateLimit > 0 && c.Views.Burst < 1 {
		return fmt.Errorf("views.burst must be at least 1 when views.rate_limit is set")
	}

	return nil
}
