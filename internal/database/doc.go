// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

// Package database is Murmur's DuckDB content store.
//
// DB implements recommend.ContentStore (filtered post and user reads,
// follow lists, recent views) and recommend.ViewRecorder. Filter predicates
// are compiled to parameterized SQL by the query subpackage against a
// per-table column allowlist.
//
// # Architecture
//
//   - database.go: connection lifecycle and pool configuration
//   - migrations.go: versioned schema migrations tracked in schema_migrations
//   - database_schema.go: table DDL and predicate allowlists
//   - content.go: ContentStore reads
//   - views.go: idempotent view recording
//   - writes.go: user, post and follow writes
//   - seed.go: deterministic demo dataset
//
// # Schema
//
//	users(id, username, display_name, avatar_url, created_at)
//	posts(id, author_id, community_id, title, description, has_image,
//	      keywords VARCHAR[], likes, comments, archived, created_at)
//	follows(follower_id, followee_id, created_at)           PK (follower_id, followee_id)
//	post_views(user_id, post_id, viewed_at)                 PK (user_id, post_id)
//
// # Timeouts and Metrics
//
// Calls without a context deadline get DatabaseConfig.QueryTimeout. Every
// read and write records duckdb_query_duration_seconds and, on failure,
// duckdb_query_errors_total.
//
// # Thread Safety
//
// DB is safe for concurrent use; database/sql manages the connection pool.
package database
