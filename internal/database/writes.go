// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/murmur/internal/metrics"
	"github.com/tomtom215/murmur/internal/recommend"
)

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// UpsertUser inserts or replaces a user.
func (db *DB) UpsertUser(ctx context.Context, u recommend.User) (err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("upsert", "users", time.Since(start), err) }()

	ctx, cancel := db.withTimeout(ctx)
	defer cancel()
	return upsertUser(ctx, db.conn, u)
}

func upsertUser(ctx context.Context, ex execer, u recommend.User) error {
	if u.ID == "" {
		return ErrEmptyID
	}
	_, err := ex.ExecContext(ctx, `
		INSERT INTO users (id, username, display_name, avatar_url) VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			username = excluded.username,
			display_name = excluded.display_name,
			avatar_url = excluded.avatar_url`,
		u.ID, u.Username, u.DisplayName, nullString(u.AvatarURL))
	if err != nil {
		return fmt.Errorf("failed to upsert user %s: %w", u.ID, err)
	}
	return nil
}

// UpsertPost inserts or replaces a post. Keywords are stored lowercased.
func (db *DB) UpsertPost(ctx context.Context, p recommend.Post) (err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("upsert", "posts", time.Since(start), err) }()

	ctx, cancel := db.withTimeout(ctx)
	defer cancel()
	return upsertPost(ctx, db.conn, p)
}

func upsertPost(ctx context.Context, ex execer, p recommend.Post) error {
	if p.ID == "" || p.AuthorID == "" {
		return ErrEmptyID
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	keywordsSQL, keywordArgs := listLiteral(p.Keywords)

	args := []any{p.ID, p.AuthorID, nullString(p.CommunityID), p.Title, p.Description, p.HasImage}
	args = append(args, keywordArgs...)
	args = append(args, p.Likes, p.Comments, p.Archived, p.CreatedAt.UTC())

	_, err := ex.ExecContext(ctx, `
		INSERT INTO posts (id, author_id, community_id, title, description, has_image, keywords, likes, comments, archived, created_at)
		VALUES (?, ?, ?, ?, ?, ?, `+keywordsSQL+`, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			author_id = excluded.author_id,
			community_id = excluded.community_id,
			title = excluded.title,
			description = excluded.description,
			has_image = excluded.has_image,
			keywords = excluded.keywords,
			likes = excluded.likes,
			comments = excluded.comments,
			archived = excluded.archived,
			created_at = excluded.created_at`, args...)
	if err != nil {
		return fmt.Errorf("failed to upsert post %s: %w", p.ID, err)
	}
	return nil
}

// listLiteral renders a VARCHAR[] value with one placeholder per element.
func listLiteral(values []string) (string, []any) {
	if len(values) == 0 {
		return "[]::VARCHAR[]", nil
	}
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = strings.ToLower(v)
	}
	return "CAST([" + strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ") + "] AS VARCHAR[])", args
}

// Follow records that followerID follows followeeID. Following twice is a no-op.
func (db *DB) Follow(ctx context.Context, followerID, followeeID string) (err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("follow", "follows", time.Since(start), err) }()

	ctx, cancel := db.withTimeout(ctx)
	defer cancel()
	return follow(ctx, db.conn, followerID, followeeID)
}

func follow(ctx context.Context, ex execer, followerID, followeeID string) error {
	if followerID == "" || followeeID == "" {
		return ErrEmptyID
	}
	if followerID == followeeID {
		return fmt.Errorf("user %s cannot follow themselves", followerID)
	}
	_, err := ex.ExecContext(ctx, `
		INSERT INTO follows (follower_id, followee_id) VALUES (?, ?)
		ON CONFLICT DO NOTHING`, followerID, followeeID)
	if err != nil {
		return fmt.Errorf("failed to follow: %w", err)
	}
	return nil
}

// Unfollow removes a follow edge. Removing a missing edge is a no-op.
func (db *DB) Unfollow(ctx context.Context, followerID, followeeID string) (err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("unfollow", "follows", time.Since(start), err) }()

	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	_, err = db.conn.ExecContext(ctx,
		`DELETE FROM follows WHERE follower_id = ? AND followee_id = ?`, followerID, followeeID)
	if err != nil {
		return fmt.Errorf("failed to unfollow: %w", err)
	}
	return nil
}

// ArchivePost marks a post archived so it is no longer recommended.
func (db *DB) ArchivePost(ctx context.Context, postID string) (err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("archive", "posts", time.Since(start), err) }()

	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	res, err := db.conn.ExecContext(ctx, `UPDATE posts SET archived = true WHERE id = ?`, postID)
	if err != nil {
		return fmt.Errorf("failed to archive post: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("post %s: %w", postID, sql.ErrNoRows)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
