// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is shared by the process; it caches struct
// metadata on first use and is safe for concurrent calls. Field names in
// errors come from koanf tags, so a failure reads the way the key is
// written in the YAML file:
//
//	type CacheConfig struct {
//	    Backend   string `koanf:"backend" validate:"oneof=memory badger redis"`
//	    RedisAddr string `koanf:"redis_addr" validate:"required_if=Backend redis"`
//	}
//
//	if err := validation.ValidateStruct(&cfg); err != nil {
//	    return fmt.Errorf("invalid configuration: %w", err)
//	}
//	// invalid configuration: cache.redis_addr is required when Backend redis
//
// Use errors.As with *StructValidationError to inspect individual fields.
package validation
