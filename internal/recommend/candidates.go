// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/murmur/internal/filter"
	"github.com/tomtom215/murmur/internal/metrics"
)

// CandidateFilter builds the eligibility predicate for the primary pool:
// not archived, not authored by userID, not viewed, and at least one of
// followed author, keyword matching an interest, or trending.
func CandidateFilter(userID string, profile *UserProfile, now time.Time, cfg CandidateConfig) filter.Expr {
	return filter.And(
		filter.Eq(FieldArchived, false),
		filter.Ne(FieldAuthorID, userID),
		filter.NotIn(FieldID, profile.ViewedIDs()...),
		filter.Or(
			filter.In(FieldAuthorID, profile.FollowingIDs()...),
			filter.Overlaps(FieldKeywords, profile.InterestTags()...),
			filter.And(
				filter.Gte(FieldCreatedAt, now.Add(-cfg.TrendingWindow)),
				filter.Gte(FieldLikes, cfg.TrendingMinLikes),
			),
		),
	)
}

// retrieveCandidates returns the bounded, recency-ordered candidate pool.
// Posts that slip past the store predicate are dropped in memory so the
// exclusion rules hold regardless of the store implementation.
func (e *Engine) retrieveCandidates(ctx context.Context, userID string, profile *UserProfile, now time.Time) ([]Post, error) {
	where := CandidateFilter(userID, profile, now, e.config.Candidates)
	order := []filter.Order{filter.Desc(FieldCreatedAt)}

	posts, err := e.content.FindPosts(ctx, where, order, e.config.Limits.MaxCandidates)
	if err != nil {
		return nil, fmt.Errorf("find candidates: %w", err)
	}

	eligible := make([]Post, 0, len(posts))
	seen := make(map[string]struct{}, len(posts))
	for _, p := range posts {
		if !isEligible(p, userID, profile.ViewedPosts) {
			continue
		}
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		eligible = append(eligible, p)
		if len(eligible) == e.config.Limits.MaxCandidates {
			break
		}
	}

	metrics.CandidatePoolSize.Observe(float64(len(eligible)))
	return eligible, nil
}

// isEligible enforces the result invariant: never archived, never the
// requester's own post, never a post in exclude.
func isEligible(p Post, userID string, exclude map[string]struct{}) bool {
	if p.ID == "" || p.Archived || p.AuthorID == userID {
		return false
	}
	_, excluded := exclude[p.ID]
	return !excluded
}
