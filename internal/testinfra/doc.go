// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

// Package testinfra provides container-backed infrastructure for integration tests.
//
// All files build only with the integration tag. Each helper starts a
// container through testcontainers-go, registers its termination with
// t.Cleanup and skips the test when Docker is unavailable.
//
//	//go:build integration
//
//	func TestRedisStore(t *testing.T) {
//	    addr := testinfra.StartRedis(t)
//	    store := cache.NewRedis(addr, "", 0, "test:")
//	    defer store.Close()
//	    // ...
//	}
//
// Available services:
//   - StartRedis: shared cache backend
//   - StartNeo4j: relationship graph store (bolt, basic auth)
//
// Run with:
//
//	go test -tags integration ./...
package testinfra
