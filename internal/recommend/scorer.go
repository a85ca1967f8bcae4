// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

package recommend

import (
	"math"
	"sort"
	"time"
	"unicode/utf8"
)

// Scorer assigns additive relevance scores to candidates.
// It is a pure function of its inputs and safe for concurrent use.
type Scorer struct {
	weights ScoreWeights
}

// NewScorer creates a scorer with the given weights.
func NewScorer(weights ScoreWeights) Scorer {
	return Scorer{weights: weights}
}

// Score computes the relevance of p for profile at time now.
//
//	recency     max(0, exp(-ageHours/24) * 10)
//	interest    sum over matching keywords of (weight / totalInterestMass) * 15
//	social      +8 if the author is followed
//	engagement  log(1+likes)*2 + log(1+comments)*3
//	quality     +2 if description > 100 chars and an image is present
//	community   +1 if the post belongs to a community
//	interaction +2 * recentInteractions[id]
//
// No term can produce NaN or Inf.
func (s Scorer) Score(p Post, profile *UserProfile, now time.Time) ScoredCandidate {
	w := s.weights
	var (
		score   float64
		reasons []string
	)

	add := func(value float64, reason string) {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return
		}
		score += value
		if value >= w.ReasonThreshold && w.ReasonThreshold > 0 {
			reasons = append(reasons, reason)
		}
	}

	ageHours := now.Sub(p.CreatedAt).Hours()
	if ageHours < 0 {
		ageHours = 0
	}
	add(math.Max(0, math.Exp(-ageHours/w.RecencyScaleHours)*w.Recency), ReasonRecent)

	add(s.interestScore(p, profile.Interests), ReasonMatchesInterests)

	if profile.Follows(p.AuthorID) {
		add(w.FollowedAuthor, ReasonFollowedAuthor)
	}

	likes := math.Max(0, float64(p.Likes))
	comments := math.Max(0, float64(p.Comments))
	add(math.Log1p(likes)*w.Likes+math.Log1p(comments)*w.Comments, ReasonPopular)

	if utf8.RuneCountInString(p.Description) > w.QualityMinDescription && p.HasImage {
		add(w.Quality, ReasonQuality)
	}

	if p.CommunityID != "" {
		add(w.Community, ReasonCommunity)
	}

	if n := profile.RecentInteractions[p.ID]; n != 0 {
		add(w.Interaction*n, ReasonRecentlyInteracted)
	}

	sort.Strings(reasons)
	return ScoredCandidate{Post: p, Score: score, Reasons: reasons}
}

// ScoreAll scores every post.
func (s Scorer) ScoreAll(posts []Post, profile *UserProfile, now time.Time) []ScoredCandidate {
	scored := make([]ScoredCandidate, len(posts))
	for i, p := range posts {
		scored[i] = s.Score(p, profile, now)
	}
	return scored
}

// interestScore normalizes by total interest mass so that one dominant
// interest cannot outweigh overall interest diversity. Zero mass skips the term.
func (s Scorer) interestScore(p Post, interests map[string]float64) float64 {
	if len(interests) == 0 {
		return 0
	}

	var total float64
	for _, w := range interests {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return 0
	}

	var sum float64
	matched := make(map[string]struct{}, len(p.Keywords))
	for _, kw := range p.Keywords {
		tag := normalizeTag(kw)
		if _, dup := matched[tag]; dup {
			continue
		}
		matched[tag] = struct{}{}
		if w, ok := interests[tag]; ok && w > 0 {
			sum += (w / total) * s.weights.Interest
		}
	}
	return sum
}
