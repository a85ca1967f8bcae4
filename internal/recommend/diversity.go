// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

package recommend

import (
	"sort"
)

// Diversify penalizes author and community repetition and returns at most
// limit candidates, highest score first, without duplicate IDs.
//
// Candidates are visited once in descending score order. A candidate whose
// author was already seen has its score multiplied by AuthorPenalty once more
// than AuthorMinDistinct distinct authors have been seen. A candidate whose
// community already holds CommunityFreeItems visited items is multiplied by
// CommunityPenalty. The penalized list is re-sorted and truncated.
//
// This is a single greedy pass, not a globally optimal arrangement: a
// penalty applied early can let a later candidate overtake one that would
// have been penalized under a different visiting order.
func Diversify(candidates []ScoredCandidate, limit int, cfg DiversityConfig) []ScoredCandidate {
	if limit <= 0 || len(candidates) == 0 {
		return []ScoredCandidate{}
	}

	ranked := make([]ScoredCandidate, 0, len(candidates))
	ids := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		if _, dup := ids[c.Post.ID]; dup {
			continue
		}
		ids[c.Post.ID] = struct{}{}
		ranked = append(ranked, c)
	}
	sortByScore(ranked)

	seenAuthors := make(map[string]int)
	seenCommunities := make(map[string]int)

	for i := range ranked {
		c := &ranked[i]

		if seenAuthors[c.Post.AuthorID] > 0 && len(seenAuthors) > cfg.AuthorMinDistinct {
			c.Score *= cfg.AuthorPenalty
		}
		if community := c.Post.CommunityID; community != "" {
			if seenCommunities[community] >= cfg.CommunityFreeItems {
				c.Score *= cfg.CommunityPenalty
			}
			seenCommunities[community]++
		}
		seenAuthors[c.Post.AuthorID]++
	}

	sortByScore(ranked)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// sortByScore orders by score descending, then by ID for a stable order
// across identical inputs.
func sortByScore(items []ScoredCandidate) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].Post.ID < items[j].Post.ID
	})
}
