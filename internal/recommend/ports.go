// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

package recommend

import (
	"context"
	"time"

	"github.com/tomtom215/murmur/internal/filter"
)

// ContentStore provides filtered, sorted reads over posts and users.
// This is typically implemented by the database layer.
type ContentStore interface {
	// FindPosts returns at most limit posts matching where, ordered by order.
	FindPosts(ctx context.Context, where filter.Expr, order []filter.Order, limit int) ([]Post, error)

	// FindUsers returns at most limit users matching where, ordered by order.
	FindUsers(ctx context.Context, where filter.Expr, order []filter.Order, limit int) ([]User, error)

	// FollowingIDs returns the IDs of the users userID follows.
	FollowingIDs(ctx context.Context, userID string) ([]string, error)

	// ViewedSince returns the IDs of posts userID viewed at or after since.
	ViewedSince(ctx context.Context, userID string, since time.Time) ([]string, error)
}

// GraphStore runs parameterized traversal queries against the relationship graph.
type GraphStore interface {
	Run(ctx context.Context, query GraphQuery, params map[string]any) ([]Row, error)
}

// CacheStore is a best-effort key-value cache with per-entry TTL.
// A missing key is reported as (nil, false, nil).
type CacheStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// ViewRecorder persists "user viewed post" records.
// Implementations must be idempotent per (userID, contentID).
type ViewRecorder interface {
	RecordView(ctx context.Context, userID, contentID string, at time.Time) error
}
