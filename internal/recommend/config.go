// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

package recommend

import (
	"fmt"
	"time"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Limits contains request and pool size limits.
	Limits LimitsConfig `json:"limits" koanf:"limits"`

	// Profile contains signal fetching parameters.
	Profile ProfileConfig `json:"profile" koanf:"profile"`

	// Candidates contains eligibility parameters for the primary pool.
	Candidates CandidateConfig `json:"candidates" koanf:"candidates"`

	// Weights contains the additive scoring weights.
	Weights ScoreWeights `json:"weights" koanf:"weights"`

	// Diversity contains the author/community repetition penalties.
	Diversity DiversityConfig `json:"diversity" koanf:"diversity"`

	// Fallback contains the degradation cascade parameters.
	Fallback FallbackConfig `json:"fallback" koanf:"fallback"`

	// People contains people recommendation parameters.
	People PeopleConfig `json:"people" koanf:"people"`

	// Cache contains TTLs for results and per-signal entries.
	Cache CacheConfig `json:"cache" koanf:"cache"`

	// Coalesce merges concurrent cache misses for the same (user, limit)
	// into a single computation.
	Coalesce bool `json:"coalesce" koanf:"coalesce"`

	// CoalesceTimeout bounds a shared computation. It runs detached from
	// the first caller's cancellation so other waiters are unaffected.
	CoalesceTimeout time.Duration `json:"coalesce_timeout" koanf:"coalesce_timeout"`

	// Seed is the random seed for the people shuffle.
	// If zero, a fixed default seed is used.
	Seed int64 `json:"seed" koanf:"seed"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultLimit is used when a request asks for zero or fewer items.
	DefaultLimit int `json:"default_limit" koanf:"default_limit"`

	// MaxLimit caps the number of items per request.
	MaxLimit int `json:"max_limit" koanf:"max_limit"`

	// MaxCandidates caps the primary candidate pool.
	MaxCandidates int `json:"max_candidates" koanf:"max_candidates"`
}

// ProfileConfig contains signal fetching parameters.
type ProfileConfig struct {
	// SignalTimeout bounds each individual signal fetch.
	SignalTimeout time.Duration `json:"signal_timeout" koanf:"signal_timeout"`

	// DecayFactor is the per-day multiplicative attenuation of interest weights.
	DecayFactor float64 `json:"decay_factor" koanf:"decay_factor"`

	// ViewWindow is how far back viewed posts are excluded.
	ViewWindow time.Duration `json:"view_window" koanf:"view_window"`

	// InteractionWindow is how far back interactions are summed.
	InteractionWindow time.Duration `json:"interaction_window" koanf:"interaction_window"`
}

// CandidateConfig contains eligibility parameters.
type CandidateConfig struct {
	// TrendingWindow and TrendingMinLikes define the escape hatch for
	// users with no follows or interests.
	TrendingWindow   time.Duration `json:"trending_window" koanf:"trending_window"`
	TrendingMinLikes int           `json:"trending_min_likes" koanf:"trending_min_likes"`
}

// ScoreWeights contains the additive scoring weights.
type ScoreWeights struct {
	Recency               float64 `json:"recency" koanf:"recency"`
	RecencyScaleHours     float64 `json:"recency_scale_hours" koanf:"recency_scale_hours"`
	Interest              float64 `json:"interest" koanf:"interest"`
	FollowedAuthor        float64 `json:"followed_author" koanf:"followed_author"`
	Likes                 float64 `json:"likes" koanf:"likes"`
	Comments              float64 `json:"comments" koanf:"comments"`
	Quality               float64 `json:"quality" koanf:"quality"`
	QualityMinDescription int     `json:"quality_min_description" koanf:"quality_min_description"`
	Community             float64 `json:"community" koanf:"community"`
	Interaction           float64 `json:"interaction" koanf:"interaction"`

	// ReasonThreshold is the minimum contribution for a signal to be
	// recorded as a reason.
	ReasonThreshold float64 `json:"reason_threshold" koanf:"reason_threshold"`
}

// DiversityConfig contains the author/community repetition penalties.
type DiversityConfig struct {
	// AuthorPenalty multiplies the score of a repeat author once more than
	// AuthorMinDistinct distinct authors have been seen.
	AuthorPenalty     float64 `json:"author_penalty" koanf:"author_penalty"`
	AuthorMinDistinct int     `json:"author_min_distinct" koanf:"author_min_distinct"`

	// CommunityPenalty multiplies the score of a community's items after the
	// first CommunityFreeItems.
	CommunityPenalty   float64 `json:"community_penalty" koanf:"community_penalty"`
	CommunityFreeItems int     `json:"community_free_items" koanf:"community_free_items"`
}

// FallbackConfig contains the degradation cascade parameters.
type FallbackConfig struct {
	// TrendingWindow bounds tier 1; RecentWindow bounds tier 2.
	TrendingWindow time.Duration `json:"trending_window" koanf:"trending_window"`
	RecentWindow   time.Duration `json:"recent_window" koanf:"recent_window"`

	// PoolSize is the minimum number of posts fetched for the shared tier-1 pool.
	PoolSize int `json:"pool_size" koanf:"pool_size"`

	// AuthorCap is the number of items one author may hold before further
	// items are demoted to the end.
	AuthorCap int `json:"author_cap" koanf:"author_cap"`
}

// PeopleConfig contains people recommendation parameters.
type PeopleConfig struct {
	// FriendsOfFriendsFactor caps tier 1 at ceil(factor * limit).
	FriendsOfFriendsFactor float64 `json:"friends_of_friends_factor" koanf:"friends_of_friends_factor"`
}

// CacheConfig contains caching parameters.
type CacheConfig struct {
	// Enabled controls all engine caching.
	Enabled bool `json:"enabled" koanf:"enabled"`

	// ResultTTL applies to results with at least one personalized item.
	ResultTTL time.Duration `json:"result_ttl" koanf:"result_ttl"`

	// FallbackTTL applies to results built entirely from the fallback cascade.
	FallbackTTL time.Duration `json:"fallback_ttl" koanf:"fallback_ttl"`

	// FallbackPoolTTL applies to the shared tier-1 fallback pool.
	FallbackPoolTTL time.Duration `json:"fallback_pool_ttl" koanf:"fallback_pool_ttl"`

	InterestsTTL time.Duration `json:"interests_ttl" koanf:"interests_ttl"`
	FollowingTTL time.Duration `json:"following_ttl" koanf:"following_ttl"`
}

// DefaultConfig returns production defaults.
func DefaultConfig() *Config {
	return &Config{
		Limits: LimitsConfig{
			DefaultLimit:  10,
			MaxLimit:      100,
			MaxCandidates: 200,
		},
		Profile: ProfileConfig{
			SignalTimeout:     2 * time.Second,
			DecayFactor:       0.95,
			ViewWindow:        7 * 24 * time.Hour,
			InteractionWindow: 7 * 24 * time.Hour,
		},
		Candidates: CandidateConfig{
			TrendingWindow:   3 * 24 * time.Hour,
			TrendingMinLikes: 5,
		},
		Weights: ScoreWeights{
			Recency:               10,
			RecencyScaleHours:     24,
			Interest:              15,
			FollowedAuthor:        8,
			Likes:                 2,
			Comments:              3,
			Quality:               2,
			QualityMinDescription: 100,
			Community:             1,
			Interaction:           2,
			ReasonThreshold:       1.0,
		},
		Diversity: DiversityConfig{
			AuthorPenalty:      0.7,
			AuthorMinDistinct:  2,
			CommunityPenalty:   0.8,
			CommunityFreeItems: 2,
		},
		Fallback: FallbackConfig{
			TrendingWindow: 7 * 24 * time.Hour,
			RecentWindow:   30 * 24 * time.Hour,
			PoolSize:       100,
			AuthorCap:      3,
		},
		People: PeopleConfig{
			FriendsOfFriendsFactor: 1.5,
		},
		Cache: CacheConfig{
			Enabled:         true,
			ResultTTL:       5 * time.Minute,
			FallbackTTL:     time.Minute,
			FallbackPoolTTL: 2 * time.Minute,
			InterestsTTL:    10 * time.Minute,
			FollowingTTL:    30 * time.Minute,
		},
		CoalesceTimeout: 10 * time.Second,
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Limits.DefaultLimit < 1 {
		return fmt.Errorf("limits.default_limit must be positive, got %d", c.Limits.DefaultLimit)
	}
	if c.Limits.MaxLimit < c.Limits.DefaultLimit {
		return fmt.Errorf("limits.max_limit (%d) must be >= default_limit (%d)", c.Limits.MaxLimit, c.Limits.DefaultLimit)
	}
	if c.Limits.MaxCandidates < 1 {
		return fmt.Errorf("limits.max_candidates must be positive, got %d", c.Limits.MaxCandidates)
	}

	if c.Coalesce && c.CoalesceTimeout <= 0 {
		return fmt.Errorf("coalesce_timeout must be positive when coalesce is enabled, got %v", c.CoalesceTimeout)
	}

	if c.Profile.SignalTimeout <= 0 {
		return fmt.Errorf("profile.signal_timeout must be positive, got %v", c.Profile.SignalTimeout)
	}
	if c.Profile.DecayFactor <= 0 || c.Profile.DecayFactor > 1 {
		return fmt.Errorf("profile.decay_factor must be in (0, 1], got %f", c.Profile.DecayFactor)
	}
	if c.Profile.ViewWindow <= 0 || c.Profile.InteractionWindow <= 0 {
		return fmt.Errorf("profile windows must be positive")
	}

	if c.Weights.RecencyScaleHours <= 0 {
		return fmt.Errorf("weights.recency_scale_hours must be positive, got %f", c.Weights.RecencyScaleHours)
	}

	if c.Diversity.AuthorPenalty <= 0 || c.Diversity.AuthorPenalty > 1 {
		return fmt.Errorf("diversity.author_penalty must be in (0, 1], got %f", c.Diversity.AuthorPenalty)
	}
	if c.Diversity.CommunityPenalty <= 0 || c.Diversity.CommunityPenalty > 1 {
		return fmt.Errorf("diversity.community_penalty must be in (0, 1], got %f", c.Diversity.CommunityPenalty)
	}

	if c.Fallback.TrendingWindow <= 0 || c.Fallback.RecentWindow <= c.Fallback.TrendingWindow {
		return fmt.Errorf("fallback.recent_window (%v) must exceed trending_window (%v)",
			c.Fallback.RecentWindow, c.Fallback.TrendingWindow)
	}
	if c.Fallback.AuthorCap < 1 {
		return fmt.Errorf("fallback.author_cap must be positive, got %d", c.Fallback.AuthorCap)
	}

	if c.People.FriendsOfFriendsFactor < 1 {
		return fmt.Errorf("people.friends_of_friends_factor must be >= 1, got %f", c.People.FriendsOfFriendsFactor)
	}

	if c.Cache.Enabled {
		if c.Cache.ResultTTL <= 0 || c.Cache.FallbackTTL <= 0 {
			return fmt.Errorf("cache TTLs must be positive when caching is enabled")
		}
		if c.Cache.FallbackTTL >= c.Cache.ResultTTL {
			return fmt.Errorf("cache.fallback_ttl (%v) must be shorter than result_ttl (%v)",
				c.Cache.FallbackTTL, c.Cache.ResultTTL)
		}
	}

	return nil
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// All nested structs contain only value types
	clone := *c
	return &clone
}
