// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/murmur/internal/filter"
	"github.com/tomtom215/murmur/internal/metrics"
)

// Fallback tier names, used for logging and metrics labels.
const (
	TierTrending = "trending"
	TierRecent   = "recent"
	TierAny      = "any"
)

// fallback produces up to deficit items for userID from three progressively
// looser tiers. IDs in exclude (viewed and already selected posts) never
// appear, nor do archived posts or the user's own posts.
//
// An error is returned only when every tier that was queried failed.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) fallback(ctx context.Context, userID string, exclude map[string]struct{}, deficit, limit int, now time.Time, logger zerolog.Logger) ([]ContentSummary, error) {
	if deficit <= 0 {
		return []ContentSummary{}, nil
	}

	taken := make(map[string]struct{}, len(exclude)+deficit)
	for id := range exclude {
		taken[id] = struct{}{}
	}

	items := make([]ContentSummary, 0, deficit)
	var (
		attempted int
		errs      []error
	)

	tierFailed := func(tier string, err error) {
		errs = append(errs, fmt.Errorf("%s tier: %w", tier, err))
		metrics.FallbackTierErrors.WithLabelValues(tier).Inc()
		logger.Warn().Err(err).Str("tier", tier).Msg("fallback tier failed")
	}

	appendPosts := func(tier string, source Source, posts []Post, score func(Post) float64) {
		added := 0
		for _, p := range posts {
			if len(items) >= deficit {
				break
			}
			if !isEligible(p, userID, taken) {
				continue
			}
			taken[p.ID] = struct{}{}
			items = append(items, newContentSummary(p, score(p), source, nil))
			added++
		}
		metrics.FallbackItems.WithLabelValues(tier).Add(float64(added))
	}

	// Tier 1: last week's posts ranked by engagement.
	attempted++
	pool, err := e.trendingPool(ctx, limit, now, logger)
	if err != nil {
		tierFailed(TierTrending, err)
	} else {
		appendPosts(TierTrending, SourceFallbackTrending, pool, func(p Post) float64 {
			return float64(engagement(p))
		})
	}

	// Tier 2: posts aged between the trending and recent windows, newest first.
	if len(items) < deficit {
		attempted++
		where := filter.And(
			e.fallbackBase(userID, taken),
			filter.Between(FieldCreatedAt, now.Add(-e.config.Fallback.RecentWindow), now.Add(-e.config.Fallback.TrendingWindow)),
		)
		posts, err := e.content.FindPosts(ctx, where, []filter.Order{filter.Desc(FieldCreatedAt)}, deficit-len(items))
		if err != nil {
			tierFailed(TierRecent, err)
		} else {
			appendPosts(TierRecent, SourceFallbackRecent, posts, zeroScore)
		}
	}

	// Tier 3: anything not archived, newest first.
	if len(items) < deficit {
		attempted++
		posts, err := e.content.FindPosts(ctx, e.fallbackBase(userID, taken), []filter.Order{filter.Desc(FieldCreatedAt)}, deficit-len(items))
		if err != nil {
			tierFailed(TierAny, err)
		} else {
			appendPosts(TierAny, SourceFallbackAny, posts, zeroScore)
		}
	}

	if len(errs) == attempted {
		return nil, errors.Join(append([]error{ErrStoreUnavailable}, errs...)...)
	}

	items = capAuthors(items, e.config.Fallback.AuthorCap)

	logger.Debug().
		Int("deficit", deficit).
		Int("filled", len(items)).
		Int("failed_tiers", len(errs)).
		Msg("fallback cascade complete")

	return items, nil
}

// fallbackBase is the predicate shared by tiers 2 and 3.
func (e *Engine) fallbackBase(userID string, taken map[string]struct{}) filter.Expr {
	return filter.And(
		filter.Eq(FieldArchived, false),
		filter.Ne(FieldAuthorID, userID),
		filter.NotIn(FieldID, sortedKeys(taken)...),
	)
}

// trendingPool returns last week's posts ordered by engagement. The pool is
// shared by all users and cached before any per-user exclusion.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) trendingPool(ctx context.Context, limit int, now time.Time, logger zerolog.Logger) ([]Post, error) {
	key := FallbackPoolKey(limit)

	var cached []Post
	if e.cacheGet(ctx, familyFallbackPosts, key, &cached, logger) {
		return cached, nil
	}

	where := filter.And(
		filter.Eq(FieldArchived, false),
		filter.Gte(FieldCreatedAt, now.Add(-e.config.Fallback.TrendingWindow)),
	)
	size := max(e.config.Fallback.PoolSize, 2*limit)

	posts, err := e.content.FindPosts(ctx, where, []filter.Order{filter.Desc(FieldCreatedAt)}, size)
	if err != nil {
		return nil, err
	}
	RankByEngagement(posts)

	e.cacheSet(ctx, key, posts, e.config.Cache.FallbackPoolTTL, logger)
	return posts, nil
}

// RankByEngagement sorts posts in place by likes + 2*comments descending,
// newest first among equals.
func RankByEngagement(posts []Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		ei, ej := engagement(posts[i]), engagement(posts[j])
		if ei != ej {
			return ei > ej
		}
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID < posts[j].ID
	})
}

func engagement(p Post) int {
	return p.Likes + 2*p.Comments
}

func zeroScore(Post) float64 { return 0 }

// capAuthors keeps the first cap items of each author in place and moves
// the rest, in order, behind everything else. Length is preserved.
func capAuthors(items []ContentSummary, limit int) []ContentSummary {
	if limit <= 0 {
		return items
	}

	counts := make(map[string]int)
	kept := make([]ContentSummary, 0, len(items))
	var demoted []ContentSummary

	for _, item := range items {
		counts[item.AuthorID]++
		if counts[item.AuthorID] > limit {
			demoted = append(demoted, item)
			continue
		}
		kept = append(kept, item)
	}
	return append(kept, demoted...)
}
