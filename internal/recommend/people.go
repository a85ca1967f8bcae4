// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/murmur/internal/filter"
	"github.com/tomtom215/murmur/internal/metrics"
)

var errFollowingUnknown = errors.New("following set unavailable")

// GetRecommendedUsers returns up to limit users for userID to follow.
//
// Candidates come from three tiers: friends of friends (capped at
// ceil(FriendsOfFriendsFactor * limit)), users followed by people sharing an
// interest, and a random fill from the content store. Each tier that fails
// contributes nothing and the next tier proceeds. The requester and users
// they already follow are never returned, so the random fill is skipped
// when the following set cannot be loaded.
//
// The final order is a weighted random shuffle with weight
// CommonSignalCount+1, so repeated calls vary while stronger candidates
// still tend to rank first.
func (e *Engine) GetRecommendedUsers(ctx context.Context, userID string, limit int) ([]UserSummary, error) {
	start := time.Now()
	if userID == "" {
		metrics.RecordRecommendRequest(opUsers, outcomeError, time.Since(start), 0)
		return nil, fmt.Errorf("%w: empty user id", ErrInvalidRequest)
	}
	limit = e.clampLimit(limit)
	logger := e.requestLogger(ctx, opUsers, userID, limit)

	// A nil set means the lookup failed. The graph tiers exclude followed
	// users in Cypher, but the random fill has nothing to exclude them with.
	following := fetchSignal(ctx, e.config.Profile.SignalTimeout, SignalFollowing, logger, func(ctx context.Context) (map[string]struct{}, error) {
		return e.fetchFollowing(ctx, userID, logger)
	})
	followingKnown := following != nil
	if !followingKnown {
		following = make(map[string]struct{})
	}

	pool := newPeoplePool(userID, following)
	var (
		attempted int
		errs      []error
	)
	tierFailed := func(tier string, err error) {
		errs = append(errs, fmt.Errorf("%s tier: %w", tier, err))
		logger.Warn().Err(err).Str("tier", tier).Msg("people tier failed")
	}

	// Tier 1: friends of friends.
	attempted++
	tier1Cap := int(math.Ceil(e.config.People.FriendsOfFriendsFactor * float64(limit)))
	if err := e.graphPeopleTier(ctx, pool, QueryFriendsOfFriends, PeopleSourceFriendsOfFriends, tier1Cap, map[string]any{
		"userId": userID,
		"limit":  tier1Cap,
	}); err != nil {
		tierFailed(PeopleSourceFriendsOfFriends, err)
	}

	// Tier 2: shared interests.
	if pool.len() < limit {
		attempted++
		deficit := limit - pool.len()
		if err := e.graphPeopleTier(ctx, pool, QuerySharedInterests, PeopleSourceSharedInterests, deficit, map[string]any{
			"userId":     userID,
			"excludeIds": pool.ids(),
			"limit":      deficit,
		}); err != nil {
			tierFailed(PeopleSourceSharedInterests, err)
		}
	}

	// Tier 3: random fill.
	if pool.len() < limit {
		attempted++
		if !followingKnown {
			tierFailed(PeopleSourceRandom, errFollowingUnknown)
		} else if err := e.randomPeopleTier(ctx, pool, limit-pool.len()); err != nil {
			tierFailed(PeopleSourceRandom, err)
		}
	}

	if len(errs) == attempted && pool.len() == 0 {
		err := errors.Join(append([]error{ErrStoreUnavailable}, errs...)...)
		metrics.RecordRecommendRequest(opUsers, outcomeError, time.Since(start), 0)
		logger.Error().Err(err).Msg("people recommendation failed")
		return nil, err
	}

	e.rngMu.Lock()
	result := WeightedShuffle(pool.items, func(u UserSummary) float64 {
		return float64(u.CommonSignalCount + 1)
	}, e.rng)
	e.rngMu.Unlock()

	if len(result) > limit {
		result = result[:limit]
	}
	e.hydrateUsers(ctx, result, logger)

	metrics.RecordRecommendRequest(opUsers, outcomeComputed, time.Since(start), len(result))
	logger.Debug().
		Int("returned", len(result)).
		Int("failed_tiers", len(errs)).
		Dur("latency", time.Since(start)).
		Msg("people recommendation complete")

	return result, nil
}

// peoplePool accumulates candidates, rejecting the requester, followed
// users and duplicates.
type peoplePool struct {
	userID    string
	following map[string]struct{}
	seen      map[string]struct{}
	items     []UserSummary
}

func newPeoplePool(userID string, following map[string]struct{}) *peoplePool {
	return &peoplePool{
		userID:    userID,
		following: following,
		seen:      make(map[string]struct{}),
		items:     make([]UserSummary, 0),
	}
}

func (p *peoplePool) add(u UserSummary) bool {
	if u.ID == "" || u.ID == p.userID {
		return false
	}
	if _, ok := p.following[u.ID]; ok {
		return false
	}
	if _, ok := p.seen[u.ID]; ok {
		return false
	}
	p.seen[u.ID] = struct{}{}
	if u.CommonConnections == nil {
		u.CommonConnections = []string{}
	}
	p.items = append(p.items, u)
	return true
}

func (p *peoplePool) len() int { return len(p.items) }

func (p *peoplePool) ids() []string {
	ids := make([]string, len(p.items))
	for i, u := range p.items {
		ids[i] = u.ID
	}
	return ids
}

// excluded returns every ID a random fill must skip.
func (p *peoplePool) excluded() []string {
	set := make(map[string]struct{}, len(p.seen)+len(p.following)+1)
	set[p.userID] = struct{}{}
	for id := range p.seen {
		set[id] = struct{}{}
	}
	for id := range p.following {
		set[id] = struct{}{}
	}
	return sortedKeys(set)
}

func (e *Engine) graphPeopleTier(ctx context.Context, pool *peoplePool, query GraphQuery, source string, maxAdd int, params map[string]any) error {
	rows, err := e.graph.Run(ctx, query, params)
	if err != nil {
		return err
	}

	added := 0
	for _, row := range rows {
		if added >= maxAdd {
			break
		}
		if pool.add(UserSummary{
			ID:                row.String("userId"),
			CommonSignalCount: row.Int("commonCount"),
			CommonConnections: row.Strings("connections"),
			Source:            source,
		}) {
			added++
		}
	}
	metrics.PeopleTierResults.WithLabelValues(source).Add(float64(added))
	return nil
}

func (e *Engine) randomPeopleTier(ctx context.Context, pool *peoplePool, deficit int) error {
	where := filter.NotIn(FieldID, pool.excluded()...)
	users, err := e.content.FindUsers(ctx, where, []filter.Order{filter.Random()}, deficit)
	if err != nil {
		return err
	}

	added := 0
	for _, u := range users {
		if added >= deficit {
			break
		}
		if pool.add(UserSummary{
			ID:          u.ID,
			Username:    u.Username,
			DisplayName: u.DisplayName,
			AvatarURL:   u.AvatarURL,
			Source:      PeopleSourceRandom,
		}) {
			added++
		}
	}
	metrics.PeopleTierResults.WithLabelValues(PeopleSourceRandom).Add(float64(added))
	return nil
}

// hydrateUsers fills in profile fields for graph-sourced summaries.
// Users the store does not know keep their ID only.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) hydrateUsers(ctx context.Context, users []UserSummary, logger zerolog.Logger) {
	var ids []string
	for _, u := range users {
		if u.Username == "" {
			ids = append(ids, u.ID)
		}
	}
	if len(ids) == 0 {
		return
	}

	found, err := e.content.FindUsers(ctx, filter.In(FieldID, ids...), nil, len(ids))
	if err != nil {
		logger.Warn().Err(err).Int("users", len(ids)).Msg("user hydration failed, returning ids only")
		return
	}

	byID := make(map[string]User, len(found))
	for _, u := range found {
		byID[u.ID] = u
	}
	for i := range users {
		if u, ok := byID[users[i].ID]; ok && users[i].Username == "" {
			users[i].Username = u.Username
			users[i].DisplayName = u.DisplayName
			users[i].AvatarURL = u.AvatarURL
		}
	}
}
