// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

package recommend

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/murmur/internal/metrics"
)

// Profile signal names, used for logging and metrics labels.
const (
	SignalInterests    = "interests"
	SignalFollowing    = "following"
	SignalViewed       = "viewed"
	SignalInteractions = "interactions"
)

// BuildProfile assembles the signal bundle for userID.
//
// The four signals are fetched concurrently. Each fetch runs under its own
// timeout and a failure, timeout or panic in one of them yields that
// signal's empty default without affecting the others.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) BuildProfile(ctx context.Context, userID string, logger zerolog.Logger) *UserProfile {
	now := e.now()
	timeout := e.config.Profile.SignalTimeout

	var (
		wg           sync.WaitGroup
		interests    map[string]float64
		following    map[string]struct{}
		viewed       map[string]struct{}
		interactions map[string]float64
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		interests = fetchSignal(ctx, timeout, SignalInterests, logger, func(ctx context.Context) (map[string]float64, error) {
			return e.fetchInterests(ctx, userID, now, logger)
		})
	}()
	go func() {
		defer wg.Done()
		following = fetchSignal(ctx, timeout, SignalFollowing, logger, func(ctx context.Context) (map[string]struct{}, error) {
			return e.fetchFollowing(ctx, userID, logger)
		})
	}()
	go func() {
		defer wg.Done()
		viewed = fetchSignal(ctx, timeout, SignalViewed, logger, func(ctx context.Context) (map[string]struct{}, error) {
			ids, err := e.content.ViewedSince(ctx, userID, now.Add(-e.config.Profile.ViewWindow))
			if err != nil {
				return nil, err
			}
			return toSet(ids), nil
		})
	}()
	go func() {
		defer wg.Done()
		interactions = fetchSignal(ctx, timeout, SignalInteractions, logger, func(ctx context.Context) (map[string]float64, error) {
			return e.fetchInteractions(ctx, userID, now)
		})
	}()
	wg.Wait()

	profile := NewUserProfile()
	if interests != nil {
		profile.Interests = interests
	}
	if following != nil {
		profile.Following = following
	}
	if viewed != nil {
		profile.ViewedPosts = viewed
	}
	if interactions != nil {
		profile.RecentInteractions = interactions
	}

	logger.Debug().
		Int("interests", len(profile.Interests)).
		Int("following", len(profile.Following)).
		Int("viewed", len(profile.ViewedPosts)).
		Int("interactions", len(profile.RecentInteractions)).
		Msg("profile built")

	return profile
}

// fetchSignal runs fetch under a timeout and returns nil on any failure.
// The timeout holds even if fetch ignores its context.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func fetchSignal[T any](ctx context.Context, timeout time.Duration, name string, logger zerolog.Logger, fetch func(context.Context) (T, error)) T {
	type result struct {
		value T
		err   error
	}

	sctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ch := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- result{err: fmt.Errorf("signal fetch panic: %v", r)}
			}
		}()
		v, err := fetch(sctx)
		ch <- result{value: v, err: err}
	}()

	var (
		zero T
		res  result
	)
	select {
	case res = <-ch:
	case <-sctx.Done():
		res = result{err: sctx.Err()}
	}

	if res.err != nil {
		metrics.ProfileSignalFailures.WithLabelValues(name).Inc()
		logger.Warn().Err(res.err).Str("signal", name).Msg("profile signal unavailable, using empty default")
		return zero
	}
	return res.value
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) fetchInterests(ctx context.Context, userID string, now time.Time, logger zerolog.Logger) (map[string]float64, error) {
	key := InterestsKey(userID)

	var cached map[string]float64
	if e.cacheGet(ctx, familyInterests, key, &cached, logger) {
		return cached, nil
	}

	rows, err := e.graph.Run(ctx, QueryInterests, map[string]any{"userId": userID})
	if err != nil {
		return nil, fmt.Errorf("query interests: %w", err)
	}

	interests := make(map[string]float64, len(rows))
	for _, row := range rows {
		tag := normalizeTag(row.String("tag"))
		if tag == "" {
			continue
		}
		w := Decay(row.Float("weight"), row.Time("lastUpdated"), now, e.config.Profile.DecayFactor)
		if w <= 0 {
			continue
		}
		interests[tag] += w
	}

	e.cacheSet(ctx, key, interests, e.config.Cache.InterestsTTL, logger)
	return interests, nil
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) fetchFollowing(ctx context.Context, userID string, logger zerolog.Logger) (map[string]struct{}, error) {
	key := FollowingKey(userID)

	var cached []string
	if e.cacheGet(ctx, familyFollowing, key, &cached, logger) {
		return toSet(cached), nil
	}

	ids, err := e.content.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("query following: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}

	e.cacheSet(ctx, key, ids, e.config.Cache.FollowingTTL, logger)
	return toSet(ids), nil
}

func (e *Engine) fetchInteractions(ctx context.Context, userID string, now time.Time) (map[string]float64, error) {
	rows, err := e.graph.Run(ctx, QueryInteractions, map[string]any{
		"userId": userID,
		"since":  now.Add(-e.config.Profile.InteractionWindow),
	})
	if err != nil {
		return nil, fmt.Errorf("query interactions: %w", err)
	}

	interactions := make(map[string]float64, len(rows))
	for _, row := range rows {
		id := row.String("postId")
		if id == "" {
			continue
		}
		interactions[id] += row.Float("weight")
	}
	return interactions, nil
}

func normalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id != "" {
			set[id] = struct{}{}
		}
	}
	return set
}
