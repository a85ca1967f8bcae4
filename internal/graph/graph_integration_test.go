// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

//go:build integration

package graph

import (
	"context"
	"testing"
	"time"

	"github.com/tomtom215/murmur/internal/config"
	"github.com/tomtom215/murmur/internal/recommend"
	"github.com/tomtom215/murmur/internal/testinfra"
)

func newIntegrationClient(t *testing.T) *Client {
	t.Helper()
	inst := testinfra.StartNeo4j(t)

	c, err := New(config.GraphConfig{
		URI:                   inst.URI,
		Username:              inst.Username,
		Password:              inst.Password,
		MaxConnectionPoolSize: 5,
		ConnectTimeout:        10 * time.Second,
		Breaker: config.BreakerConfig{
			MaxRequests:      1,
			Timeout:          time.Second,
			FailureThreshold: 5,
		},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = c.Close(context.Background()) })

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := c.Ping(ctx); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
	if err := c.EnsureConstraints(ctx); err != nil {
		t.Fatalf("EnsureConstraints() error = %v", err)
	}
	return c
}

func TestIntegration_EngineQueries(t *testing.T) {
	c := newIntegrationClient(t)
	ctx := context.Background()
	now := time.Now().UTC()

	// me -> f1 -> {s1, s2}; me -> f2 -> s1
	for _, edge := range [][2]string{{"me", "f1"}, {"me", "f2"}, {"f1", "s1"}, {"f1", "s2"}, {"f2", "s1"}} {
		if err := c.Follow(ctx, edge[0], edge[1]); err != nil {
			t.Fatal(err)
		}
	}
	if err := c.SetInterest(ctx, "me", "Go", 2.5, now.Add(-48*time.Hour)); err != nil {
		t.Fatal(err)
	}
	if err := c.RecordInteraction(ctx, "me", "p1", 2, now.Add(-time.Hour)); err != nil {
		t.Fatal(err)
	}
	if err := c.RecordInteraction(ctx, "me", "p1", 1, now.Add(-2*time.Hour)); err != nil {
		t.Fatal(err)
	}
	if err := c.RecordInteraction(ctx, "me", "p2", 5, now.Add(-30*24*time.Hour)); err != nil {
		t.Fatal(err)
	}

	t.Run("interests", func(t *testing.T) {
		rows, err := c.Run(ctx, recommend.QueryInterests, map[string]any{"userId": "me"})
		if err != nil {
			t.Fatal(err)
		}
		if len(rows) != 1 || rows[0].String("tag") != "go" || rows[0].Float("weight") != 2.5 {
			t.Fatalf("rows = %v", rows)
		}
		if rows[0].Time("lastUpdated").IsZero() {
			t.Error("lastUpdated should decode to a time")
		}
	})

	t.Run("interactions window", func(t *testing.T) {
		rows, err := c.Run(ctx, recommend.QueryInteractions, map[string]any{
			"userId": "me",
			"since":  now.Add(-7 * 24 * time.Hour),
		})
		if err != nil {
			t.Fatal(err)
		}
		if len(rows) != 1 || rows[0].String("postId") != "p1" || rows[0].Float("weight") != 3 {
			t.Fatalf("rows = %v", rows)
		}
	})

	t.Run("friends of friends", func(t *testing.T) {
		rows, err := c.Run(ctx, recommend.QueryFriendsOfFriends, map[string]any{"userId": "me", "limit": 10})
		if err != nil {
			t.Fatal(err)
		}
		if len(rows) != 2 {
			t.Fatalf("rows = %v", rows)
		}
		if rows[0].String("userId") != "s1" || rows[0].Int("commonCount") != 2 {
			t.Errorf("top suggestion = %v, want s1 with 2 common", rows[0])
		}
	})
}
