// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeClock is a settable time source for the memory store.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestMemory(t *testing.T) (*Memory, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	m := NewMemory(time.Hour)
	m.now = clock.Now
	t.Cleanup(func() { _ = m.Close() })
	return m, clock
}

// testStoreContract exercises the behavior every backend must share.
func testStoreContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		val, ok, err := s.Get(ctx, "contract:missing")
		if err != nil || ok || val != nil {
			t.Errorf("Get(missing) = %q, %v, %v; want nil, false, nil", val, ok, err)
		}
	})

	t.Run("set then get", func(t *testing.T) {
		if err := s.Set(ctx, "contract:k1", []byte(`{"items":[]}`), time.Minute); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		val, ok, err := s.Get(ctx, "contract:k1")
		if err != nil || !ok {
			t.Fatalf("Get() = %v, %v", ok, err)
		}
		if string(val) != `{"items":[]}` {
			t.Errorf("Get() = %q", val)
		}
	})

	t.Run("overwrite", func(t *testing.T) {
		_ = s.Set(ctx, "contract:k2", []byte("a"), time.Minute)
		_ = s.Set(ctx, "contract:k2", []byte("b"), time.Minute)
		val, _, _ := s.Get(ctx, "contract:k2")
		if string(val) != "b" {
			t.Errorf("Get() = %q, want b", val)
		}
	})

	t.Run("delete", func(t *testing.T) {
		_ = s.Set(ctx, "contract:k3", []byte("x"), time.Minute)
		if err := s.Delete(ctx, "contract:k3"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if _, ok, _ := s.Get(ctx, "contract:k3"); ok {
			t.Error("key present after Delete")
		}
		if err := s.Delete(ctx, "contract:never-set"); err != nil {
			t.Errorf("Delete(missing) error = %v", err)
		}
	})

	t.Run("returned bytes are not aliased", func(t *testing.T) {
		in := []byte("orig")
		_ = s.Set(ctx, "contract:k4", in, time.Minute)
		in[0] = 'X'
		val, _, _ := s.Get(ctx, "contract:k4")
		if string(val) != "orig" {
			t.Errorf("stored value changed through caller slice: %q", val)
		}
	})
}

func TestMemoryContract(t *testing.T) {
	m, _ := newTestMemory(t)
	testStoreContract(t, m)
}

func TestMemoryExpiration(t *testing.T) {
	m, clock := newTestMemory(t)
	ctx := context.Background()

	_ = m.Set(ctx, "k", []byte("v"), time.Minute)

	clock.Advance(59 * time.Second)
	if _, ok, _ := m.Get(ctx, "k"); !ok {
		t.Error("expected key before ttl")
	}

	clock.Advance(2 * time.Second)
	if _, ok, _ := m.Get(ctx, "k"); ok {
		t.Error("expected key expired after ttl")
	}

	if stats := m.GetStats(); stats.Evictions != 1 {
		t.Errorf("evictions = %d, want 1", stats.Evictions)
	}
}

func TestMemoryNoTTLNeverExpires(t *testing.T) {
	m, clock := newTestMemory(t)
	ctx := context.Background()

	_ = m.Set(ctx, "k", []byte("v"), 0)
	clock.Advance(365 * 24 * time.Hour)

	if _, ok, _ := m.Get(ctx, "k"); !ok {
		t.Error("entry without ttl expired")
	}
}

func TestMemoryCleanup(t *testing.T) {
	m, clock := newTestMemory(t)
	ctx := context.Background()

	_ = m.Set(ctx, "short", []byte("1"), time.Second)
	_ = m.Set(ctx, "long", []byte("2"), time.Hour)
	_ = m.Set(ctx, "short2", []byte("3"), time.Second)

	clock.Advance(time.Minute)
	m.cleanup()

	stats := m.GetStats()
	if stats.TotalKeys != 1 {
		t.Errorf("TotalKeys = %d, want 1", stats.TotalKeys)
	}
	if stats.Evictions != 2 {
		t.Errorf("Evictions = %d, want 2", stats.Evictions)
	}
	if !stats.LastCleanup.Equal(clock.Now()) {
		t.Errorf("LastCleanup = %v, want %v", stats.LastCleanup, clock.Now())
	}
	if _, ok, _ := m.Get(ctx, "long"); !ok {
		t.Error("long-lived key removed by cleanup")
	}
}

func TestMemoryStats(t *testing.T) {
	m, _ := newTestMemory(t)
	ctx := context.Background()

	if m.HitRate() != 0 {
		t.Errorf("HitRate() with no lookups = %v, want 0", m.HitRate())
	}

	_ = m.Set(ctx, "k", []byte("v"), time.Minute)
	_, _, _ = m.Get(ctx, "k")
	_, _, _ = m.Get(ctx, "nope")
	_, _, _ = m.Get(ctx, "k")

	stats := m.GetStats()
	if stats.Hits != 2 || stats.Misses != 1 {
		t.Errorf("hits/misses = %d/%d, want 2/1", stats.Hits, stats.Misses)
	}

	want := 2.0 / 3.0 * 100
	if got := m.HitRate(); got < want-0.01 || got > want+0.01 {
		t.Errorf("HitRate() = %.2f, want %.2f", got, want)
	}
}

func TestMemoryClosed(t *testing.T) {
	m := NewMemory(time.Hour)
	if err := m.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := m.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	ctx := context.Background()
	if _, _, err := m.Get(ctx, "k"); !errors.Is(err, ErrClosed) {
		t.Errorf("Get() error = %v, want ErrClosed", err)
	}
	if err := m.Set(ctx, "k", nil, 0); !errors.Is(err, ErrClosed) {
		t.Errorf("Set() error = %v, want ErrClosed", err)
	}
	if err := m.Delete(ctx, "k"); !errors.Is(err, ErrClosed) {
		t.Errorf("Delete() error = %v, want ErrClosed", err)
	}
}

func TestMemoryConcurrency(t *testing.T) {
	m, _ := newTestMemory(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("key%d", j%5)
				_ = m.Set(ctx, key, []byte{byte(id)}, time.Minute)
				_, _, _ = m.Get(ctx, key)
				if j%10 == 0 {
					_ = m.Delete(ctx, key)
				}
			}
		}(i)
	}
	wg.Wait()

	stats := m.GetStats()
	if stats.Hits == 0 && stats.Misses == 0 {
		t.Error("expected some cache activity from concurrent operations")
	}
}

func TestNewBackends(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "default is memory", cfg: Config{}},
		{name: "memory", cfg: Config{Backend: BackendMemory}},
		{name: "badger in memory", cfg: Config{Backend: BackendBadger}},
		{name: "redis without address", cfg: Config{Backend: BackendRedis}, wantErr: true},
		{name: "unknown", cfg: Config{Backend: "memcached"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if s != nil {
				_ = s.Close()
			}
		})
	}
}

func BenchmarkMemorySet(b *testing.B) {
	m := NewMemory(time.Hour)
	defer m.Close()
	ctx := context.Background()
	val := []byte("value")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m.Set(ctx, "key", val, time.Minute)
	}
}

func BenchmarkMemoryGet(b *testing.B) {
	m := NewMemory(time.Hour)
	defer m.Close()
	ctx := context.Background()
	_ = m.Set(ctx, "key", []byte("value"), time.Minute)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = m.Get(ctx, "key")
	}
}
