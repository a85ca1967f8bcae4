// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

/*
Package cache provides byte-oriented key-value stores with per-entry TTL.

The recommendation engine caches serialized results, profile signals and
the shared fallback pool through the Store interface. Three backends are
available and chosen by configuration:

  - memory: process-local map, lazy expiry on Get plus a periodic sweep
  - badger: embedded badger database using native entry TTL, durable when
    a data directory is configured
  - redis: shared redis server for multi-instance deployments

# Semantics

A missing or expired key is reported as (nil, false, nil). Errors are
reserved for backend failures; callers in the engine treat them as misses
and never fail a request because of the cache. Values are copied on the
way in and out, so callers may reuse their buffers.

# Usage Example

	store, err := cache.New(cache.Config{
	    Backend:    cache.BackendBadger,
	    BadgerPath: "/var/lib/murmur/cache",
	})
	if err != nil {
	    return err
	}
	defer store.Close()

	engine, err := recommend.NewEngine(cfg, content, graph, logger,
	    recommend.WithCache(store))

# Metrics

Backend failures increment murmur_cache_errors_total{backend,operation}.
The memory backend reports its size in murmur_cache_entries{backend}.
Hit and miss counters are recorded by the engine per key family.
*/
package cache
