// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("cache: store closed")

// Store is a byte-oriented key-value cache with per-entry TTL.
// All backends satisfy recommend.CacheStore.
//
// Usage:
//
//	store, err := cache.New(cache.Config{Backend: cache.BackendMemory})
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	_ = store.Set(ctx, "key", data, 5*time.Minute)
//	if val, ok, err := store.Get(ctx, "key"); err == nil && ok {
//	    // Use cached bytes
//	}
type Store interface {
	// Get returns the value at key. A missing or expired key is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value at key. A non-positive ttl means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the store.
	Close() error
}

// Backend selects the store implementation.
type Backend string

const (
	// BackendMemory is a process-local map with lazy and periodic expiry (default).
	BackendMemory Backend = "memory"

	// BackendBadger is an embedded badger database; entries survive restarts
	// when a path is configured.
	BackendBadger Backend = "badger"

	// BackendRedis is a shared redis server, for deployments running more
	// than one engine instance.
	BackendRedis Backend = "redis"
)

// Config holds configuration for creating a store.
type Config struct {
	Backend Backend `koanf:"backend" validate:"omitempty,oneof=memory badger redis"`

	// CleanupInterval controls how often the memory backend sweeps expired entries.
	CleanupInterval time.Duration `koanf:"cleanup_interval"`

	// BadgerPath is the badger data directory. Empty runs badger in memory.
	BadgerPath string `koanf:"badger_path"`

	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db" validate:"gte=0"`

	// KeyPrefix namespaces keys in shared backends.
	KeyPrefix string `koanf:"key_prefix"`
}

// New creates a store based on the configuration.
func New(cfg Config) (Store, error) {
	switch cfg.Backend {
	case BackendBadger:
		return OpenBadger(cfg.BadgerPath, cfg.KeyPrefix)
	case BackendRedis:
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("cache: redis backend requires an address")
		}
		return NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.KeyPrefix), nil
	case BackendMemory, "":
		return NewMemory(cfg.CleanupInterval), nil
	default:
		return nil, fmt.Errorf("cache: unknown backend %q", cfg.Backend)
	}
}

// Verify interface implementations at compile time
var (
	_ Store = (*Memory)(nil)
	_ Store = (*Badger)(nil)
	_ Store = (*Redis)(nil)
)
