// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/murmur/internal/metrics"
	"github.com/tomtom215/murmur/internal/recommend"
)

// ErrEmptyID is returned when a write is attempted with an empty identifier.
var ErrEmptyID = errors.New("database: empty id")

// maxViewRetries bounds attempts when a view upsert hits a write conflict.
const maxViewRetries = 5

// RecordView stores that userID viewed contentID at the given time.
// Repeated views of the same post keep the latest timestamp, so the call is
// idempotent per (userID, contentID).
func (db *DB) RecordView(ctx context.Context, userID, contentID string, at time.Time) (err error) {
	if userID == "" || contentID == "" {
		return ErrEmptyID
	}
	if at.IsZero() {
		at = db.now()
	}

	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("record_view", "post_views", time.Since(start), err)
		metrics.ViewProcessingDuration.Observe(time.Since(start).Seconds())
	}()

	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	for attempt := 0; ; attempt++ {
		_, err = db.conn.ExecContext(ctx, `
			INSERT INTO post_views (user_id, post_id, viewed_at) VALUES (?, ?, ?)
			ON CONFLICT (user_id, post_id) DO UPDATE
			SET viewed_at = greatest(post_views.viewed_at, excluded.viewed_at)`,
			userID, contentID, at.UTC())
		if err == nil {
			return nil
		}
		// Concurrent upserts of one (user, post) row conflict under MVCC;
		// the losing writer retries against the committed row.
		if !isUpsertRace(err) || attempt >= maxViewRetries-1 {
			return fmt.Errorf("failed to record view: %w", err)
		}
		select {
		case <-time.After(time.Millisecond << attempt):
		case <-ctx.Done():
			return fmt.Errorf("failed to record view: %w", ctx.Err())
		}
	}
}

// CountViews returns the number of distinct posts userID has viewed.
func (db *DB) CountViews(ctx context.Context, userID string) (int, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	var n int
	if err := db.conn.QueryRowContext(ctx,
		`SELECT count(*) FROM post_views WHERE user_id = ?`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count views: %w", err)
	}
	return n, nil
}

var _ recommend.ViewRecorder = (*DB)(nil)
