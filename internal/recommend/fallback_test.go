// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

package recommend

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"
	"time"
)

const day = 24 * time.Hour

// scenarioBStore holds 15 eligible posts: 3 from the last week (none
// trending), 4 aged 7-30 days and 8 older than 30 days.
func scenarioBStore() *mockContentStore {
	posts := []Post{
		post("w1", "a1", 4*day, 1, 0),
		post("w2", "a2", 5*day, 9, 1),
		post("w3", "a3", 6*day, 2, 3),
		post("m1", "a4", 8*day, 50, 0),
		post("m2", "a5", 10*day, 0, 0),
		post("m3", "a6", 12*day, 0, 0),
		post("m4", "a7", 20*day, 0, 0),
	}
	for i := 0; i < 8; i++ {
		posts = append(posts, post(fmt.Sprintf("o%d", i+1), fmt.Sprintf("b%d", i), time.Duration(40+i)*day, 0, 0))
	}
	return &mockContentStore{posts: posts}
}

func TestScenarioB_NewUserFilledFromFallbackTiers(t *testing.T) {
	content := scenarioBStore()
	e := newTestEngine(t, nil, content, newMockGraph())

	got, err := e.GetRecommendedContent(context.Background(), "newbie", 10)
	if err != nil {
		t.Fatalf("GetRecommendedContent() error = %v", err)
	}
	if len(got) != 10 {
		t.Fatalf("len = %d, want 10", len(got))
	}

	wantIDs := []string{
		"w2", "w3", "w1", // tier 1 by likes + 2*comments: 11, 8, 1
		"m1", "m2", "m3", "m4", // tier 2 newest first
		"o1", "o2", "o3", // tier 3 newest first
	}
	if !slices.Equal(ids(got), wantIDs) {
		t.Errorf("ids = %v, want %v", ids(got), wantIDs)
	}

	wantSources := []Source{
		SourceFallbackTrending, SourceFallbackTrending, SourceFallbackTrending,
		SourceFallbackRecent, SourceFallbackRecent, SourceFallbackRecent, SourceFallbackRecent,
		SourceFallbackAny, SourceFallbackAny, SourceFallbackAny,
	}
	for i, item := range got {
		if item.Source != wantSources[i] {
			t.Errorf("item %d (%s) source = %s, want %s", i, item.ID, item.Source, wantSources[i])
		}
	}
}

func TestEmptySignalsStillFillLimit(t *testing.T) {
	content := &mockContentStore{posts: []Post{post("only", "a1", 400*day, 0, 0)}}
	e := newTestEngine(t, nil, content, newMockGraph())

	got, err := e.GetRecommendedContent(context.Background(), "u1", 5)
	if err != nil {
		t.Fatalf("GetRecommendedContent() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != "only" {
		t.Errorf("got %v, want [only]", ids(got))
	}
}

func TestFallbackExclusions(t *testing.T) {
	archived := post("archived", "a2", 2*day, 100, 100)
	archived.Archived = true

	content := &mockContentStore{
		posts: []Post{
			post("own", "u1", 2*day, 100, 100),
			post("viewed", "a1", 2*day, 100, 100),
			archived,
			post("ok-week", "a3", 2*day, 1, 0),
			post("ok-month", "a4", 15*day, 0, 0),
			post("ok-old", "a5", 60*day, 0, 0),
		},
		viewed: map[string][]string{"u1": {"viewed"}},
	}
	e := newTestEngine(t, nil, content, newMockGraph())

	got, err := e.GetRecommendedContent(context.Background(), "u1", 10)
	if err != nil {
		t.Fatalf("GetRecommendedContent() error = %v", err)
	}
	want := []string{"ok-week", "ok-month", "ok-old"}
	if !slices.Equal(ids(got), want) {
		t.Errorf("ids = %v, want %v", ids(got), want)
	}
}

func TestFallbackTierFailureIsolated(t *testing.T) {
	content := scenarioBStore()
	// Call 1 is candidate retrieval, call 2 is the tier-1 pool.
	content.findPostsErrOn = map[int]error{2: errors.New("timeout")}
	e := newTestEngine(t, nil, content, newMockGraph())

	got, err := e.GetRecommendedContent(context.Background(), "newbie", 10)
	if err != nil {
		t.Fatalf("GetRecommendedContent() error = %v", err)
	}
	if len(got) != 10 {
		t.Fatalf("len = %d, want 10", len(got))
	}
	for _, item := range got {
		if item.Source == SourceFallbackTrending {
			t.Errorf("%s came from the failed trending tier", item.ID)
		}
	}
}

func TestFallbackAllStoresDown(t *testing.T) {
	content := scenarioBStore()
	content.findPostsErr = errors.New("connection refused")
	cache := newMockCache()
	e := newTestEngine(t, nil, content, newMockGraph(), WithCache(cache))

	_, err := e.GetRecommendedContent(context.Background(), "newbie", 10)
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("error = %v, want ErrStoreUnavailable", err)
	}
	if _, ok := cache.ttl(ResultKey("newbie", 10)); ok {
		t.Error("a failed request must not be cached")
	}
}

func TestFallbackPoolCached(t *testing.T) {
	content := scenarioBStore()
	cache := newMockCache()
	e := newTestEngine(t, nil, content, newMockGraph(), WithCache(cache))

	if _, err := e.GetRecommendedContent(context.Background(), "u1", 10); err != nil {
		t.Fatalf("GetRecommendedContent() error = %v", err)
	}

	ttl, ok := cache.ttl(FallbackPoolKey(10))
	if !ok || ttl != DefaultConfig().Cache.FallbackPoolTTL {
		t.Errorf("fallback pool ttl = %v (set=%v), want %v", ttl, ok, DefaultConfig().Cache.FallbackPoolTTL)
	}

	// A different user reuses the shared pool: only candidates, tier 2 and tier 3 hit the store.
	before := content.postCalls()
	if _, err := e.GetRecommendedContent(context.Background(), "u2", 10); err != nil {
		t.Fatalf("GetRecommendedContent() error = %v", err)
	}
	if calls := content.postCalls() - before; calls != 3 {
		t.Errorf("FindPosts calls = %d, want 3 with a cached pool", calls)
	}
}

func TestCapAuthors(t *testing.T) {
	var items []ContentSummary
	for i, author := range []string{"a", "a", "b", "a", "a", "c", "a"} {
		items = append(items, ContentSummary{ID: fmt.Sprintf("p%d", i), AuthorID: author})
	}

	got := capAuthors(items, 3)
	want := []string{"p0", "p1", "p2", "p3", "p5", "p4", "p6"}
	if !slices.Equal(ids(got), want) {
		t.Errorf("capAuthors() = %v, want %v", ids(got), want)
	}
}

func TestRankByEngagement(t *testing.T) {
	posts := []Post{
		post("low", "a", time.Hour, 1, 0),
		post("comments", "a", time.Hour, 0, 3),
		post("likes", "a", time.Hour, 5, 0),
		post("tie-newer", "a", time.Minute, 0, 3),
	}
	RankByEngagement(posts)

	got := make([]string, len(posts))
	for i, p := range posts {
		got[i] = p.ID
	}
	want := []string{"tie-newer", "comments", "likes", "low"}
	if !slices.Equal(got, want) {
		t.Errorf("RankByEngagement() = %v, want %v", got, want)
	}
}
