// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

package recommend

import (
	"context"
	"fmt"
	"math/rand"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/murmur/internal/logging"
	"github.com/tomtom215/murmur/internal/metrics"
)

// Operation and outcome labels.
const (
	opContent = "content"
	opUsers   = "users"
	opView    = "view"

	outcomeCacheHit = "cache_hit"
	outcomeComputed = "computed"
	outcomeFallback = "fallback"
	outcomeError    = "error"
)

// CandidateScorer scores a candidate pool against a profile.
type CandidateScorer interface {
	ScoreAll(posts []Post, profile *UserProfile, now time.Time) []ScoredCandidate
}

// Engine is the recommendation orchestrator. It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	content ContentStore
	graph   GraphStore
	cache   CacheStore
	views   ViewRecorder
	scorer  CandidateScorer

	now func() time.Time

	// Random source for the people shuffle (protected by rngMu for concurrent access)
	rng   *rand.Rand
	rngMu sync.Mutex

	flight singleflight.Group
}

// Option configures optional Engine collaborators.
type Option func(*Engine)

// WithCache sets the cache store. Without one, nothing is cached.
func WithCache(c CacheStore) Option {
	return func(e *Engine) { e.cache = c }
}

// WithViewRecorder sets the store RecordView writes to.
func WithViewRecorder(v ViewRecorder) Option {
	return func(e *Engine) { e.views = v }
}

// WithScorer replaces the default additive scorer.
func WithScorer(s CandidateScorer) Option {
	return func(e *Engine) { e.scorer = s }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates a new recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, content ContentStore, graph GraphStore, logger zerolog.Logger, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if content == nil {
		return nil, fmt.Errorf("content store is required")
	}
	if graph == nil {
		return nil, fmt.Errorf("graph store is required")
	}

	// Use provided seed or default for determinism
	seed := cfg.Seed
	if seed == 0 {
		seed = 42
	}

	e := &Engine{
		config:  cfg.Clone(),
		logger:  logger.With().Str("component", "recommend").Logger(),
		content: content,
		graph:   graph,
		scorer:  NewScorer(cfg.Weights),
		now:     time.Now,
		rng:     rand.New(rand.NewSource(seed)), //nolint:gosec // math/rand is fine for recommendation shuffling
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// GetRecommendedContent returns up to limit content items for userID.
//
// Results are read through the cache under ResultKey(userID, limit). On a
// miss the profile is built, candidates are retrieved, scored and
// diversified, and any shortfall is filled by the fallback cascade. A
// result with no personalized items is cached with the shorter FallbackTTL.
//
// An error is returned only for an empty userID or when no store could
// produce any item.
func (e *Engine) GetRecommendedContent(ctx context.Context, userID string, limit int) ([]ContentSummary, error) {
	start := time.Now()
	if userID == "" {
		metrics.RecordRecommendRequest(opContent, outcomeError, time.Since(start), 0)
		return nil, fmt.Errorf("%w: empty user id", ErrInvalidRequest)
	}
	limit = e.clampLimit(limit)
	logger := e.requestLogger(ctx, opContent, userID, limit)
	logger.Debug().Msg("processing content recommendation request")

	key := ResultKey(userID, limit)

	var cached cachedResult
	if e.cacheGet(ctx, familyRecommendations, key, &cached, logger) {
		metrics.RecordRecommendRequest(opContent, outcomeCacheHit, time.Since(start), len(cached.Items))
		logger.Debug().Int("returned", len(cached.Items)).Msg("cache hit")
		return cached.Items, nil
	}

	var (
		res contentResult
		err error
	)
	if e.config.Coalesce {
		var v any
		var shared bool
		v, err, shared = e.flight.Do(key, func() (any, error) {
			// Waiters share this computation, so one caller canceling must
			// not fail the rest.
			fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.config.CoalesceTimeout)
			defer cancel()
			return e.computeContent(fctx, userID, limit, logger)
		})
		if err == nil {
			res = v.(contentResult)
			if shared {
				res.items = slices.Clone(res.items)
			}
		}
	} else {
		res, err = e.computeContent(ctx, userID, limit, logger)
	}

	if err != nil {
		metrics.RecordRecommendRequest(opContent, outcomeError, time.Since(start), 0)
		logger.Error().Err(err).Msg("content recommendation failed")
		return nil, err
	}

	outcome := outcomeComputed
	if !res.personalized {
		outcome = outcomeFallback
	}
	metrics.RecordRecommendRequest(opContent, outcome, time.Since(start), len(res.items))

	logger.Debug().
		Int("returned", len(res.items)).
		Bool("personalized", res.personalized).
		Dur("latency", time.Since(start)).
		Msg("content recommendation complete")

	return res.items, nil
}

// contentResult is a computed result and whether it had real signal.
type contentResult struct {
	items        []ContentSummary
	personalized bool
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) computeContent(ctx context.Context, userID string, limit int, logger zerolog.Logger) (contentResult, error) {
	now := e.now()
	profile := e.BuildProfile(ctx, userID, logger)

	primary, err := e.personalized(ctx, userID, profile, limit, now, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("personalized pipeline failed, using fallback cascade")
		primary = nil
	}

	items := make([]ContentSummary, 0, limit)
	items = append(items, primary...)

	if len(items) < limit {
		exclude := make(map[string]struct{}, len(profile.ViewedPosts)+len(items))
		for id := range profile.ViewedPosts {
			exclude[id] = struct{}{}
		}
		for _, item := range items {
			exclude[item.ID] = struct{}{}
		}

		extra, err := e.fallback(ctx, userID, exclude, limit-len(items), limit, now, logger)
		if err != nil {
			if len(items) == 0 {
				return contentResult{}, fmt.Errorf("content recommendation: %w", err)
			}
			logger.Warn().Err(err).Msg("fallback cascade failed, returning personalized items only")
		}
		items = append(items, extra...)
	}

	res := contentResult{items: items, personalized: len(primary) > 0}

	ttl := e.config.Cache.FallbackTTL
	if res.personalized {
		ttl = e.config.Cache.ResultTTL
	}
	e.cacheSet(ctx, ResultKey(userID, limit), cachedResult{Items: items}, ttl, logger)

	return res, nil
}

// personalized runs candidate retrieval, scoring and diversity filtering.
// A panic in scoring or diversity is recovered and returned as an error.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) personalized(ctx context.Context, userID string, profile *UserProfile, limit int, now time.Time, logger zerolog.Logger) (items []ContentSummary, err error) {
	candidates, err := e.retrieveCandidates(ctx, userID, profile, now)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		logger.Debug().Msg("no candidates available")
		return []ContentSummary{}, nil
	}

	defer func() {
		if r := recover(); r != nil {
			metrics.PipelinePanics.Inc()
			items = nil
			err = fmt.Errorf("ranking panic: %v", r)
		}
	}()

	scored := e.scorer.ScoreAll(candidates, profile, now)
	ranked := Diversify(scored, limit, e.config.Diversity)

	items = make([]ContentSummary, 0, len(ranked))
	for _, c := range ranked {
		// Scorer implementations are not trusted to keep exclusions.
		if !isEligible(c.Post, userID, profile.ViewedPosts) {
			continue
		}
		items = append(items, newContentSummary(c.Post, c.Score, SourcePersonalized, c.Reasons))
	}

	logger.Debug().
		Int("candidates", len(candidates)).
		Int("ranked", len(items)).
		Msg("personalized ranking complete")

	return items, nil
}

// RecordView records that userID viewed contentID. Delivery is best effort:
// store failures are logged and never returned. Only empty identifiers
// produce an error.
func (e *Engine) RecordView(ctx context.Context, userID, contentID string) error {
	start := time.Now()
	if userID == "" || contentID == "" {
		metrics.RecordRecommendRequest(opView, outcomeError, time.Since(start), 0)
		return fmt.Errorf("%w: user id and content id are required", ErrInvalidRequest)
	}
	if e.views == nil {
		return nil
	}

	if err := e.views.RecordView(ctx, userID, contentID, e.now()); err != nil {
		e.logger.Warn().
			Err(err).
			Str("user_id", userID).
			Str("content_id", contentID).
			Msg("failed to record view")
	}
	metrics.RecordRecommendRequest(opView, outcomeComputed, time.Since(start), 1)
	return nil
}

// clampLimit applies the default for non-positive limits and caps at MaxLimit.
func (e *Engine) clampLimit(limit int) int {
	if limit <= 0 {
		return e.config.Limits.DefaultLimit
	}
	if limit > e.config.Limits.MaxLimit {
		return e.config.Limits.MaxLimit
	}
	return limit
}

// requestLogger creates a logger with request context.
func (e *Engine) requestLogger(ctx context.Context, op, userID string, limit int) zerolog.Logger {
	requestID := logging.RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = logging.GenerateRequestID()
	}

	lc := e.logger.With().
		Str("request_id", requestID).
		Str("op", op).
		Str("user_id", userID).
		Int("limit", limit)
	if cid := logging.CorrelationIDFromContext(ctx); cid != "" {
		lc = lc.Str("correlation_id", cid)
	}
	return lc.Logger()
}
