// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

package recommend

import (
	"math"
	"slices"
	"strings"
	"testing"
	"time"
)

func TestScorerSignals(t *testing.T) {
	scorer := NewScorer(DefaultConfig().Weights)
	old := testNow.Add(-1000 * time.Hour) // recency contribution is negligible

	tests := []struct {
		name        string
		post        Post
		profile     func(*UserProfile)
		want        float64
		wantReasons []string
	}{
		{
			name:        "fresh post",
			post:        Post{ID: "p", AuthorID: "a", CreatedAt: testNow},
			want:        10,
			wantReasons: []string{ReasonRecent},
		},
		{
			name:        "future post clamps to fresh",
			post:        Post{ID: "p", AuthorID: "a", CreatedAt: testNow.Add(time.Hour)},
			want:        10,
			wantReasons: []string{ReasonRecent},
		},
		{
			name:        "followed author",
			post:        Post{ID: "p", AuthorID: "a", CreatedAt: old},
			profile:     func(p *UserProfile) { p.Following["a"] = struct{}{} },
			want:        8,
			wantReasons: []string{ReasonFollowedAuthor},
		},
		{
			name: "interest normalized by total mass",
			post: Post{ID: "p", AuthorID: "a", CreatedAt: old, Keywords: []string{"Go", "go"}},
			profile: func(p *UserProfile) {
				p.Interests["go"] = 3
				p.Interests["rust"] = 1
			},
			want:        15 * 0.75,
			wantReasons: []string{ReasonMatchesInterests},
		},
		{
			name:        "engagement",
			post:        Post{ID: "p", AuthorID: "a", CreatedAt: old, Likes: 9, Comments: 4},
			want:        math.Log(10)*2 + math.Log(5)*3,
			wantReasons: []string{ReasonPopular},
		},
		{
			name:        "quality needs long description and image",
			post:        Post{ID: "p", AuthorID: "a", CreatedAt: old, HasImage: true, Description: strings.Repeat("x", 101)},
			want:        2,
			wantReasons: []string{ReasonQuality},
		},
		{
			name: "short description gets no quality bonus",
			post: Post{ID: "p", AuthorID: "a", CreatedAt: old, HasImage: true, Description: strings.Repeat("x", 100)},
			want: 0,
		},
		{
			name:        "community",
			post:        Post{ID: "p", AuthorID: "a", CreatedAt: old, CommunityID: "c"},
			want:        1,
			wantReasons: []string{ReasonCommunity},
		},
		{
			name:        "recent interaction",
			post:        Post{ID: "p", AuthorID: "a", CreatedAt: old},
			profile:     func(p *UserProfile) { p.RecentInteractions["p"] = 1.5 },
			want:        3,
			wantReasons: []string{ReasonRecentlyInteracted},
		},
		{
			name: "negative counts clamp",
			post: Post{ID: "p", AuthorID: "a", CreatedAt: old, Likes: -4, Comments: -1},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := NewUserProfile()
			if tt.profile != nil {
				tt.profile(profile)
			}
			got := scorer.Score(tt.post, profile, testNow)
			if math.Abs(got.Score-tt.want) > 1e-6 {
				t.Errorf("Score = %v, want %v", got.Score, tt.want)
			}
			if !slices.Equal(got.Reasons, tt.wantReasons) {
				t.Errorf("Reasons = %v, want %v", got.Reasons, tt.wantReasons)
			}
		})
	}
}

func TestScorerNeverNaN(t *testing.T) {
	scorer := NewScorer(DefaultConfig().Weights)

	profiles := []*UserProfile{
		NewUserProfile(),
		{Interests: map[string]float64{"go": 0}},
		{Interests: map[string]float64{"go": -1, "rust": 1}},
		{Interests: map[string]float64{"go": math.NaN()}},
		{RecentInteractions: map[string]float64{"p": math.Inf(1)}},
	}
	p := Post{ID: "p", AuthorID: "a", Keywords: []string{"go"}, CreatedAt: testNow.Add(-time.Hour)}

	for i, profile := range profiles {
		got := scorer.Score(p, profile, testNow).Score
		if math.IsNaN(got) || math.IsInf(got, 0) {
			t.Errorf("profile %d: Score = %v", i, got)
		}
	}
}

func TestScorerMonotonicInEngagement(t *testing.T) {
	scorer := NewScorer(DefaultConfig().Weights)
	profile := NewUserProfile()
	base := Post{ID: "p", AuthorID: "a", CreatedAt: testNow.Add(-2 * time.Hour)}

	prev := math.Inf(-1)
	for likes := 0; likes <= 500; likes += 7 {
		p := base
		p.Likes = likes
		got := scorer.Score(p, profile, testNow).Score
		if got < prev {
			t.Fatalf("score decreased at likes=%d: %v < %v", likes, got, prev)
		}
		prev = got
	}

	prev = math.Inf(-1)
	for comments := 0; comments <= 500; comments += 7 {
		p := base
		p.Comments = comments
		got := scorer.Score(p, profile, testNow).Score
		if got < prev {
			t.Fatalf("score decreased at comments=%d: %v < %v", comments, got, prev)
		}
		prev = got
	}
}

func TestScorerRecencyNeverNegative(t *testing.T) {
	scorer := NewScorer(DefaultConfig().Weights)
	profile := NewUserProfile()

	for _, age := range []time.Duration{0, time.Hour, 17 * time.Hour, 24 * time.Hour, 365 * 24 * time.Hour} {
		p := Post{ID: "p", AuthorID: "a", CreatedAt: testNow.Add(-age)}
		if got := scorer.Score(p, profile, testNow).Score; got < 0 || got > 10 {
			t.Errorf("age %v: score = %v, want in [0, 10]", age, got)
		}
	}
}
