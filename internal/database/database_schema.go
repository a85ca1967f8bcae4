// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

package database

import (
	"github.com/tomtom215/murmur/internal/database/query"
	"github.com/tomtom215/murmur/internal/recommend"
)

// Timestamps are stored as TIMESTAMP in UTC; TIMESTAMPTZ would require the
// ICU extension. Posts carry no secondary index: upserts rewrite every
// column and DuckDB rejects ON CONFLICT updates of indexed columns. Range
// scans on created_at rely on zonemaps.

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
	id VARCHAR PRIMARY KEY,
	username VARCHAR NOT NULL,
	display_name VARCHAR NOT NULL DEFAULT '',
	avatar_url VARCHAR,
	created_at TIMESTAMP NOT NULL DEFAULT current_timestamp
);`

const createPostsTable = `
CREATE TABLE IF NOT EXISTS posts (
	id VARCHAR PRIMARY KEY,
	author_id VARCHAR NOT NULL,
	community_id VARCHAR,
	title VARCHAR NOT NULL DEFAULT '',
	description VARCHAR NOT NULL DEFAULT '',
	has_image BOOLEAN NOT NULL DEFAULT false,
	keywords VARCHAR[] NOT NULL DEFAULT []::VARCHAR[],
	likes INTEGER NOT NULL DEFAULT 0,
	comments INTEGER NOT NULL DEFAULT 0,
	archived BOOLEAN NOT NULL DEFAULT false,
	created_at TIMESTAMP NOT NULL
);`

const createFollowsTable = `
CREATE TABLE IF NOT EXISTS follows (
	follower_id VARCHAR NOT NULL,
	followee_id VARCHAR NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT current_timestamp,
	PRIMARY KEY (follower_id, followee_id)
);`

const createPostViewsTable = `
CREATE TABLE IF NOT EXISTS post_views (
	user_id VARCHAR NOT NULL,
	post_id VARCHAR NOT NULL,
	viewed_at TIMESTAMP NOT NULL,
	PRIMARY KEY (user_id, post_id)
);`

const postColumns = `id, author_id, community_id, title, description, has_image, keywords, likes, comments, archived, created_at`

const userColumns = `id, username, display_name, avatar_url`

// postsTable is the predicate allowlist for posts.
var postsTable = query.Table{
	Name: "posts",
	Columns: map[string]query.Column{
		recommend.FieldID:          {Name: "id"},
		recommend.FieldAuthorID:    {Name: "author_id"},
		recommend.FieldCommunityID: {Name: "community_id", Nullable: true},
		recommend.FieldArchived:    {Name: "archived"},
		recommend.FieldKeywords:    {Name: "keywords", List: true},
		recommend.FieldLikes:       {Name: "likes"},
		recommend.FieldComments:    {Name: "comments"},
		recommend.FieldCreatedAt:   {Name: "created_at"},
	},
}

// usersTable is the predicate allowlist for users.
var usersTable = query.Table{
	Name: "users",
	Columns: map[string]query.Column{
		recommend.FieldID:       {Name: "id"},
		recommend.FieldUsername: {Name: "username"},
	},
}
