// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

package database

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/murmur/internal/logging"
	"github.com/tomtom215/murmur/internal/recommend"
)

// demoNamespace keeps demo IDs stable across runs.
var demoNamespace = uuid.MustParse("6f1c1c52-3e59-4a55-9d0e-5b8c7c1f2a10")

// DemoInterest is a weighted user-to-tag edge.
type DemoInterest struct {
	UserID    string
	Tag       string
	Weight    float64
	UpdatedAt time.Time
}

// DemoFollow is a directed follow edge.
type DemoFollow struct {
	FollowerID string
	FolloweeID string
}

// DemoInteraction is a weighted user-to-post engagement edge.
type DemoInteraction struct {
	UserID    string
	PostID    string
	Weight    float64
	CreatedAt time.Time
}

// DemoData is a small synthetic social graph for local runs and demos.
// The graph store is seeded from the same value so both stores agree.
type DemoData struct {
	Users     []recommend.User
	Posts     []recommend.Post
	Follows   []DemoFollow
	Interests []DemoInterest

	// Interactions live only in the graph store.
	Interactions []DemoInteraction
}

var demoNames = []string{
	"alice", "bob", "charlie", "dana", "emma",
	"frank", "grace", "henry", "isabel", "jack",
	"kate", "liam", "mia", "noah", "olivia",
}

var demoTags = []string{
	"golang", "databases", "graphs", "cooking", "hiking",
	"photography", "music", "distributed-systems", "gardening", "chess",
}

var demoCommunities = []string{"", "", "tech", "outdoors", "arts"}

// GenerateDemoData builds a deterministic dataset for seed relative to now.
func GenerateDemoData(seed uint64, now time.Time) DemoData {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	now = now.UTC().Truncate(time.Second)

	const (
		postsPerUser   = 8
		followsPerUser = 4
		interestsMax   = 3
		interactions   = 5
		daysOfHistory  = 45
	)

	var data DemoData

	for _, name := range demoNames {
		data.Users = append(data.Users, recommend.User{
			ID:          demoID("user", name),
			Username:    name,
			DisplayName: strings.ToUpper(name[:1]) + name[1:],
		})
	}

	for ui, u := range data.Users {
		for i := 0; i < postsPerUser; i++ {
			nTags := 1 + rng.IntN(3)
			tags := make([]string, 0, nTags)
			for _, idx := range rng.Perm(len(demoTags))[:nTags] {
				tags = append(tags, demoTags[idx])
			}
			age := time.Duration(rng.IntN(daysOfHistory*24)) * time.Hour

			desc := fmt.Sprintf("Notes from %s on %s.", u.Username, tags[0])
			if rng.IntN(3) == 0 {
				for len(desc) < 120 {
					desc += " More detail follows."
				}
			}

			data.Posts = append(data.Posts, recommend.Post{
				ID:          demoID("post", fmt.Sprintf("%d-%d", ui, i)),
				AuthorID:    u.ID,
				CommunityID: demoCommunities[rng.IntN(len(demoCommunities))],
				Title:       fmt.Sprintf("%s #%d: %s", u.Username, i+1, tags[0]),
				Description: desc,
				HasImage:    rng.IntN(2) == 0,
				Keywords:    tags,
				Likes:       rng.IntN(40),
				Comments:    rng.IntN(12),
				Archived:    rng.IntN(20) == 0,
				CreatedAt:   now.Add(-age),
			})
		}
	}

	for ui, u := range data.Users {
		for _, idx := range rng.Perm(len(data.Users))[:followsPerUser+1] {
			if idx == ui || len(followsOf(data.Follows, u.ID)) >= followsPerUser {
				continue
			}
			data.Follows = append(data.Follows, DemoFollow{FollowerID: u.ID, FolloweeID: data.Users[idx].ID})
		}

		for _, idx := range rng.Perm(len(demoTags))[:1+rng.IntN(interestsMax)] {
			data.Interests = append(data.Interests, DemoInterest{
				UserID:    u.ID,
				Tag:       demoTags[idx],
				Weight:    0.5 + rng.Float64()*2,
				UpdatedAt: now.Add(-time.Duration(rng.IntN(10*24)) * time.Hour),
			})
		}

		for _, idx := range rng.Perm(len(data.Posts))[:interactions] {
			if data.Posts[idx].AuthorID == u.ID {
				continue
			}
			data.Interactions = append(data.Interactions, DemoInteraction{
				UserID:    u.ID,
				PostID:    data.Posts[idx].ID,
				Weight:    float64(1 + rng.IntN(3)),
				CreatedAt: now.Add(-time.Duration(rng.IntN(14*24)) * time.Hour),
			})
		}
	}

	return data
}

func followsOf(follows []DemoFollow, userID string) []DemoFollow {
	var out []DemoFollow
	for _, f := range follows {
		if f.FollowerID == userID {
			out = append(out, f)
		}
	}
	return out
}

func demoID(kind, name string) string {
	return uuid.NewSHA1(demoNamespace, []byte(kind+":"+name)).String()
}

// SeedDemoData writes users, posts and follows from data in one transaction.
// Existing rows are replaced, so seeding twice is harmless.
func (db *DB) SeedDemoData(ctx context.Context, data DemoData) error {
	logging.Info().
		Int("users", len(data.Users)).
		Int("posts", len(data.Posts)).
		Int("follows", len(data.Follows)).
		Msg("Seeding demo data")

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}

	for _, u := range data.Users {
		if err := upsertUser(ctx, tx, u); err != nil {
			rollbackQuietly(tx)
			return err
		}
	}
	for _, p := range data.Posts {
		if err := upsertPost(ctx, tx, p); err != nil {
			rollbackQuietly(tx)
			return err
		}
	}
	for _, f := range data.Follows {
		if err := follow(ctx, tx, f.FollowerID, f.FolloweeID); err != nil {
			rollbackQuietly(tx)
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}
	return nil
}
