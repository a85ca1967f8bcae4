// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

package recommend

import (
	"context"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/murmur/internal/metrics"
)

// Cache key families, used as metrics labels.
const (
	familyRecommendations = "recommendations"
	familyInterests       = "interests"
	familyFollowing       = "following"
	familyFallbackPosts   = "fallback_posts"
)

// ResultKey is the cache key for a content recommendation result.
func ResultKey(userID string, limit int) string {
	return "recommendations:" + userID + ":" + strconv.Itoa(limit)
}

// InterestsKey is the cache key for a user's decayed interests.
func InterestsKey(userID string) string {
	return "profile:interests:" + userID
}

// FollowingKey is the cache key for a user's following set.
func FollowingKey(userID string) string {
	return "profile:following:" + userID
}

// FallbackPoolKey is the cache key for the shared tier-1 fallback pool.
func FallbackPoolKey(limit int) string {
	return "fallback_posts:" + strconv.Itoa(limit)
}

// cachedResult is the cached form of a content recommendation result.
type cachedResult struct {
	Items []ContentSummary `json:"items"`
}

// cacheGet decodes the entry at key into dst. Any error is logged and
// reported as a miss.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) cacheGet(ctx context.Context, family, key string, dst any, logger zerolog.Logger) bool {
	if e.cache == nil || !e.config.Cache.Enabled {
		return false
	}

	cctx, cancel := context.WithTimeout(ctx, e.config.Profile.SignalTimeout)
	defer cancel()

	data, ok, err := e.cache.Get(cctx, key)
	if err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("cache get failed, treating as miss")
		metrics.RecordCacheLookup(family, false)
		return false
	}
	if !ok {
		metrics.RecordCacheLookup(family, false)
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("cache entry undecodable, treating as miss")
		metrics.RecordCacheLookup(family, false)
		return false
	}

	metrics.RecordCacheLookup(family, true)
	return true
}

// cacheSet encodes v and writes it with ttl. Failures are logged only.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) cacheSet(ctx context.Context, key string, v any, ttl time.Duration, logger zerolog.Logger) {
	if e.cache == nil || !e.config.Cache.Enabled || ttl <= 0 {
		return
	}

	data, err := json.Marshal(v)
	if err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("cache encode failed")
		return
	}

	cctx, cancel := context.WithTimeout(ctx, e.config.Profile.SignalTimeout)
	defer cancel()

	if err := e.cache.Set(cctx, key, data, ttl); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
}
