// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

package cache

import (
	"context"
	"sync"
	"time"

	"github.com/tomtom215/murmur/internal/metrics"
)

const defaultCleanupInterval = 5 * time.Minute

// entry is a cached value with its expiry. A zero expiresAt never expires.
type entry struct {
	data      []byte
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Stats tracks cache performance counters
type Stats struct {
	Hits        int64
	Misses      int64
	Evictions   int64
	TotalKeys   int64
	LastCleanup time.Time
}

// Memory is a thread-safe in-process store with TTL support.
//
// Expired entries are removed lazily on Get and by a background sweep
// that runs until Close.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	closed  bool

	statsMu sync.Mutex
	stats   Stats

	now  func() time.Time
	stop chan struct{}
	done chan struct{}
}

// NewMemory creates a memory store and starts its cleanup loop.
// A non-positive interval uses the five minute default.
func NewMemory(cleanupInterval time.Duration) *Memory {
	if cleanupInterval <= 0 {
		cleanupInterval = defaultCleanupInterval
	}

	m := &Memory{
		entries: make(map[string]entry),
		now:     time.Now,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	m.stats.LastCleanup = m.now()

	go m.cleanupLoop(cleanupInterval)

	return m
}

// Get returns a copy of the value at key.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	if m.closed {
		m.mu.RUnlock()
		return nil, false, ErrClosed
	}
	e, exists := m.entries[key]
	m.mu.RUnlock()

	if !exists {
		m.record(func(s *Stats) { s.Misses++ })
		return nil, false, nil
	}

	if e.expired(m.now()) {
		m.mu.Lock()
		// Re-check: a concurrent Set may have refreshed the entry.
		if cur, ok := m.entries[key]; ok && cur.expired(m.now()) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		m.record(func(s *Stats) { s.Misses++; s.Evictions++ })
		return nil, false, nil
	}

	m.record(func(s *Stats) { s.Hits++ })
	return append([]byte(nil), e.data...), true, nil
}

// Set stores a copy of value at key.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := entry{data: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	m.entries[key] = e
	size := len(m.entries)
	m.mu.Unlock()

	m.record(func(s *Stats) { s.TotalKeys = int64(size) })
	return nil
}

// Delete removes key.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	_, existed := m.entries[key]
	delete(m.entries, key)
	size := len(m.entries)
	m.mu.Unlock()

	m.record(func(s *Stats) {
		if existed {
			s.Evictions++
		}
		s.TotalKeys = int64(size)
	})
	return nil
}

// Close stops the cleanup loop and drops all entries. It is safe to call
// more than once.
func (m *Memory) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.entries = nil
	m.mu.Unlock()

	close(m.stop)
	<-m.done
	metrics.CacheSize.WithLabelValues(string(BackendMemory)).Set(0)
	return nil
}

// GetStats returns a snapshot of the counters.
func (m *Memory) GetStats() Stats {
	m.statsMu.Lock()
	defer m.statsMu.Unlock()
	return m.stats
}

// HitRate returns the hit rate as a percentage
func (m *Memory) HitRate() float64 {
	stats := m.GetStats()
	total := stats.Hits + stats.Misses
	if total == 0 {
		return 0.0
	}
	return float64(stats.Hits) / float64(total) * 100.0
}

func (m *Memory) record(update func(*Stats)) {
	m.statsMu.Lock()
	update(&m.stats)
	m.statsMu.Unlock()
}

// cleanupLoop periodically removes expired entries
func (m *Memory) cleanupLoop(interval time.Duration) {
	defer close(m.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.cleanup()
		}
	}
}

// cleanup removes all expired entries
func (m *Memory) cleanup() {
	now := m.now()

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	var evictions int64
	for key, e := range m.entries {
		if e.expired(now) {
			delete(m.entries, key)
			evictions++
		}
	}
	size := len(m.entries)
	m.mu.Unlock()

	m.record(func(s *Stats) {
		s.Evictions += evictions
		s.TotalKeys = int64(size)
		s.LastCleanup = now
	})
	metrics.CacheSize.WithLabelValues(string(BackendMemory)).Set(float64(size))
}
