// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

package graph

import (
	"context"
	"strings"
	"time"

	"github.com/tomtom215/murmur/internal/database"
	"github.com/tomtom215/murmur/internal/logging"
)

var constraints = []string{
	`CREATE CONSTRAINT user_id IF NOT EXISTS FOR (u:User) REQUIRE u.id IS UNIQUE`,
	`CREATE CONSTRAINT post_id IF NOT EXISTS FOR (p:Post) REQUIRE p.id IS UNIQUE`,
	`CREATE CONSTRAINT tag_name IF NOT EXISTS FOR (t:Tag) REQUIRE t.name IS UNIQUE`,
}

// EnsureConstraints creates the uniqueness constraints the engine's MERGE
// statements rely on.
func (c *Client) EnsureConstraints(ctx context.Context) error {
	for i, stmt := range constraints {
		if err := c.write(ctx, "constraint", stmt, nil); err != nil {
			return err
		}
		logging.Debug().Int("index", i).Msg("Graph constraint ensured")
	}
	return nil
}

// Follow adds a FOLLOWS edge. Repeating it is a no-op.
func (c *Client) Follow(ctx context.Context, followerID, followeeID string) error {
	return c.write(ctx, "follow", `
MERGE (a:User {id: $followerId})
MERGE (b:User {id: $followeeId})
MERGE (a)-[:FOLLOWS]->(b)`, map[string]any{
		"followerId": followerID,
		"followeeId": followeeID,
	})
}

// SetInterest sets the weight of a user's interest in a tag. Tags are
// lowercased.
func (c *Client) SetInterest(ctx context.Context, userID, tag string, weight float64, at time.Time) error {
	return c.write(ctx, "set_interest", `
MERGE (u:User {id: $userId})
MERGE (t:Tag {name: $tag})
MERGE (u)-[r:INTERESTED_IN]->(t)
SET r.weight = $weight, r.updatedAt = $at`, map[string]any{
		"userId": userID,
		"tag":    strings.ToLower(tag),
		"weight": weight,
		"at":     at.UTC(),
	})
}

// RecordInteraction adds a weighted INTERACTED_WITH edge from a user to a post.
func (c *Client) RecordInteraction(ctx context.Context, userID, postID string, weight float64, at time.Time) error {
	return c.write(ctx, "record_interaction", `
MERGE (u:User {id: $userId})
MERGE (p:Post {id: $postId})
CREATE (u)-[:INTERACTED_WITH {weight: $weight, createdAt: $at}]->(p)`, map[string]any{
		"userId": userID,
		"postId": postID,
		"weight": weight,
		"at":     at.UTC(),
	})
}

// Seed loads the demo dataset into the graph in batched UNWIND statements.
// Interaction edges are merged on (user, post, createdAt) so reseeding does
// not duplicate them.
func (c *Client) Seed(ctx context.Context, data database.DemoData) error {
	if err := c.EnsureConstraints(ctx); err != nil {
		return err
	}

	users := make([]any, 0, len(data.Users))
	for _, u := range data.Users {
		users = append(users, map[string]any{"id": u.ID, "username": u.Username})
	}
	if err := c.write(ctx, "seed_users", `
UNWIND $rows AS row
MERGE (u:User {id: row.id})
SET u.username = row.username`, map[string]any{"rows": users}); err != nil {
		return err
	}

	follows := make([]any, 0, len(data.Follows))
	for _, f := range data.Follows {
		follows = append(follows, map[string]any{"from": f.FollowerID, "to": f.FolloweeID})
	}
	if err := c.write(ctx, "seed_follows", `
UNWIND $rows AS row
MATCH (a:User {id: row.from}), (b:User {id: row.to})
MERGE (a)-[:FOLLOWS]->(b)`, map[string]any{"rows": follows}); err != nil {
		return err
	}

	interests := make([]any, 0, len(data.Interests))
	for _, in := range data.Interests {
		interests = append(interests, map[string]any{
			"userId": in.UserID, "tag": strings.ToLower(in.Tag), "weight": in.Weight, "at": in.UpdatedAt.UTC(),
		})
	}
	if err := c.write(ctx, "seed_interests", `
UNWIND $rows AS row
MATCH (u:User {id: row.userId})
MERGE (t:Tag {name: row.tag})
MERGE (u)-[r:INTERESTED_IN]->(t)
SET r.weight = row.weight, r.updatedAt = row.at`, map[string]any{"rows": interests}); err != nil {
		return err
	}

	interactions := make([]any, 0, len(data.Interactions))
	for _, in := range data.Interactions {
		interactions = append(interactions, map[string]any{
			"userId": in.UserID, "postId": in.PostID, "weight": in.Weight, "at": in.CreatedAt.UTC(),
		})
	}
	if err := c.write(ctx, "seed_interactions", `
UNWIND $rows AS row
MATCH (u:User {id: row.userId})
MERGE (p:Post {id: row.postId})
MERGE (u)-[i:INTERACTED_WITH {createdAt: row.at}]->(p)
SET i.weight = row.weight`, map[string]any{"rows": interactions}); err != nil {
		return err
	}

	logging.Info().
		Int("users", len(users)).
		Int("follows", len(follows)).
		Int("interests", len(interests)).
		Int("interactions", len(interactions)).
		Msg("Graph demo data seeded")
	return nil
}
