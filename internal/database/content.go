// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/murmur/internal/database/query"
	"github.com/tomtom215/murmur/internal/filter"
	"github.com/tomtom215/murmur/internal/metrics"
	"github.com/tomtom215/murmur/internal/recommend"
)

// FindPosts returns at most limit posts matching where, ordered by order.
func (db *DB) FindPosts(ctx context.Context, where filter.Expr, order []filter.Order, limit int) (posts []recommend.Post, err error) {
	if limit <= 0 {
		return []recommend.Post{}, nil
	}

	start := time.Now()
	defer func() { metrics.RecordDBQuery("find", "posts", time.Since(start), err) }()

	stmt, args, err := query.Select(postsTable, postColumns, where, order, limit)
	if err != nil {
		return nil, err
	}

	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	posts = make([]recommend.Post, 0, limit)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate posts: %w", err)
	}
	return posts, nil
}

func scanPost(rows *sql.Rows) (recommend.Post, error) {
	var (
		p         recommend.Post
		community sql.NullString
		keywords  any
	)
	if err := rows.Scan(&p.ID, &p.AuthorID, &community, &p.Title, &p.Description,
		&p.HasImage, &keywords, &p.Likes, &p.Comments, &p.Archived, &p.CreatedAt); err != nil {
		return recommend.Post{}, fmt.Errorf("failed to scan post: %w", err)
	}
	p.CommunityID = community.String
	p.Keywords = toStrings(keywords)
	p.CreatedAt = p.CreatedAt.UTC()
	return p, nil
}

// toStrings converts a scanned DuckDB LIST into a string slice.
func toStrings(v any) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return []string{}
}

// FindUsers returns at most limit users matching where, ordered by order.
func (db *DB) FindUsers(ctx context.Context, where filter.Expr, order []filter.Order, limit int) (users []recommend.User, err error) {
	if limit <= 0 {
		return []recommend.User{}, nil
	}

	start := time.Now()
	defer func() { metrics.RecordDBQuery("find", "users", time.Since(start), err) }()

	stmt, args, err := query.Select(usersTable, userColumns, where, order, limit)
	if err != nil {
		return nil, err
	}

	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users = make([]recommend.User, 0, limit)
	for rows.Next() {
		var (
			u      recommend.User
			avatar sql.NullString
		)
		if err := rows.Scan(&u.ID, &u.Username, &u.DisplayName, &avatar); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		u.AvatarURL = avatar.String
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

// FollowingIDs returns the IDs of the users userID follows.
func (db *DB) FollowingIDs(ctx context.Context, userID string) (ids []string, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("following", "follows", time.Since(start), err) }()

	return db.queryIDs(ctx,
		`SELECT followee_id FROM follows WHERE follower_id = ? ORDER BY followee_id`, userID)
}

// ViewedSince returns the IDs of posts userID viewed at or after since.
func (db *DB) ViewedSince(ctx context.Context, userID string, since time.Time) (ids []string, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("viewed_since", "post_views", time.Since(start), err) }()

	return db.queryIDs(ctx,
		`SELECT post_id FROM post_views WHERE user_id = ? AND viewed_at >= ? ORDER BY post_id`,
		userID, since.UTC())
}

func (db *DB) queryIDs(ctx context.Context, stmt string, args ...any) ([]string, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ids: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

var _ recommend.ContentStore = (*DB)(nil)
