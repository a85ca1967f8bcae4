// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/murmur/internal/metrics"
)

// Badger is a Store backed by an embedded badger database. Expiry uses
// badger's native entry TTL.
type Badger struct {
	db     *badger.DB
	prefix string
	owned  bool
	closed atomic.Bool
}

// OpenBadger opens a badger database at path and wraps it. An empty path
// runs badger in memory. The returned store owns the database.
func OpenBadger(path, prefix string) (*Badger, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger cache: %w", err)
	}

	b := NewBadger(db, prefix)
	b.owned = true
	return b, nil
}

// NewBadger wraps an existing database. Close does not close db.
func NewBadger(db *badger.DB, prefix string) *Badger {
	return &Badger{db: db, prefix: prefix}
}

func (b *Badger) key(k string) []byte {
	return []byte(b.prefix + k)
}

// Get returns the value at key.
func (b *Badger) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if b.closed.Load() {
		return nil, false, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	var val []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(b.key(key))
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		metrics.CacheErrors.WithLabelValues(string(BackendBadger), "get").Inc()
		return nil, false, fmt.Errorf("badger get %q: %w", key, err)
	}
	return val, true, nil
}

// Set stores value at key with ttl.
func (b *Badger) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if b.closed.Load() {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	err := b.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry(b.key(key), value)
		if ttl > 0 {
			e = e.WithTTL(ttl)
		}
		return txn.SetEntry(e)
	})
	if err != nil {
		metrics.CacheErrors.WithLabelValues(string(BackendBadger), "set").Inc()
		return fmt.Errorf("badger set %q: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (b *Badger) Delete(ctx context.Context, key string) error {
	if b.closed.Load() {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(b.key(key))
	})
	if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
		metrics.CacheErrors.WithLabelValues(string(BackendBadger), "delete").Inc()
		return fmt.Errorf("badger delete %q: %w", key, err)
	}
	return nil
}

// Close closes the database if the store opened it.
func (b *Badger) Close() error {
	if b.closed.Swap(true) {
		return nil
	}
	if b.owned {
		return b.db.Close()
	}
	return nil
}
