// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

// Package recommend decides which posts and which people to surface to a user.
//
// # Architecture
//
// Content recommendations run as a read-through cached pipeline:
//
//	cache lookup -> profile -> candidates -> scoring -> diversity -> cache write
//
// with a fallback cascade filling any shortfall:
//
//   - Profile: four signals (interests, following, viewed posts, recent
//     interactions) fetched concurrently, each under its own timeout. A
//     failed signal becomes empty rather than failing the request.
//   - Candidates: unarchived posts not authored or viewed by the user, from
//     followed authors, matching an interest, or trending; newest first,
//     capped at Limits.MaxCandidates.
//   - Scoring: an additive sum of recency, normalized interest match, followed
//     author, logarithmic engagement, quality, community and recent interaction.
//   - Diversity: a single greedy pass penalizing repeated authors and communities.
//   - Fallback: trending (last week, by likes + 2*comments), recent (7-30 days)
//     and any post, each excluding own, viewed and already chosen posts.
//
// People recommendations come from friends of friends, shared-interest
// followers and a random fill, then a weighted random shuffle.
//
// # Caching
//
// Keys: recommendations:{userId}:{limit}, profile:interests:{userId},
// profile:following:{userId} and fallback_posts:{limit}. There is no explicit
// invalidation; entries expire by TTL. Cache errors are treated as misses.
//
// # Usage
//
//	engine, err := recommend.NewEngine(cfg, contentStore, graphStore, logger,
//	    recommend.WithCache(cacheStore),
//	    recommend.WithViewRecorder(publisher),
//	)
//	items, err := engine.GetRecommendedContent(ctx, userID, 20)
//
// # Thread Safety
//
// The engine is safe for concurrent use. The only engine-owned mutable state
// is the shuffle random source, guarded by a mutex. Concurrent misses for the
// same key recompute independently unless Config.Coalesce is set.
package recommend
