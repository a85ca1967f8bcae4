// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

package recommend

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/murmur/internal/filter"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// mockContentStore implements ContentStore over in-memory slices,
// evaluating predicates with filter.Match.
type mockContentStore struct {
	mu sync.Mutex

	posts     []Post
	users     []User
	following map[string][]string
	viewed    map[string][]string

	findPostsErr error
	findUsersErr error
	followingErr error
	viewedErr    error

	// findPostsErrOn fails only the listed 1-based FindPosts calls.
	findPostsErrOn map[int]error

	findPostsCalls int
	findUsersCalls int
	lastUserWhere  []filter.Expr
}

func (m *mockContentStore) FindPosts(_ context.Context, where filter.Expr, order []filter.Order, limit int) ([]Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.findPostsCalls++
	if err, ok := m.findPostsErrOn[m.findPostsCalls]; ok {
		return nil, err
	}
	if m.findPostsErr != nil {
		return nil, m.findPostsErr
	}

	var out []Post
	for _, p := range m.posts {
		if filter.Match(where, p) {
			out = append(out, p)
		}
	}
	sortPosts(out, order)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockContentStore) FindUsers(_ context.Context, where filter.Expr, _ []filter.Order, limit int) ([]User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.findUsersCalls++
	m.lastUserWhere = append(m.lastUserWhere, where)
	if m.findUsersErr != nil {
		return nil, m.findUsersErr
	}

	var out []User
	for _, u := range m.users {
		if filter.Match(where, u) {
			out = append(out, u)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockContentStore) FollowingIDs(_ context.Context, userID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.followingErr != nil {
		return nil, m.followingErr
	}
	return m.following[userID], nil
}

func (m *mockContentStore) ViewedSince(_ context.Context, userID string, _ time.Time) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.viewedErr != nil {
		return nil, m.viewedErr
	}
	return m.viewed[userID], nil
}

func (m *mockContentStore) postCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.findPostsCalls
}

func sortPosts(posts []Post, order []filter.Order) {
	for i := len(order) - 1; i >= 0; i-- {
		o := order[i]
		if o.Random || o.Field != FieldCreatedAt {
			continue
		}
		sort.SliceStable(posts, func(a, b int) bool {
			if o.Desc {
				return posts[a].CreatedAt.After(posts[b].CreatedAt)
			}
			return posts[a].CreatedAt.Before(posts[b].CreatedAt)
		})
	}
}

// mockGraph implements GraphStore, dispatching on query name.
type mockGraph struct {
	mu sync.Mutex

	rows   map[string][]Row
	errs   map[string]error
	delays map[string]time.Duration
	calls  map[string]int
	params map[string]map[string]any
}

func newMockGraph() *mockGraph {
	return &mockGraph{
		rows:   make(map[string][]Row),
		errs:   make(map[string]error),
		delays: make(map[string]time.Duration),
		calls:  make(map[string]int),
		params: make(map[string]map[string]any),
	}
}

func (g *mockGraph) Run(ctx context.Context, query GraphQuery, params map[string]any) ([]Row, error) {
	g.mu.Lock()
	g.calls[query.Name]++
	g.params[query.Name] = params
	delay := g.delays[query.Name]
	err := g.errs[query.Name]
	rows := g.rows[query.Name]
	g.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (g *mockGraph) callCount(name string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[name]
}

func (g *mockGraph) lastParams(name string) map[string]any {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.params[name]
}

// mockCache implements CacheStore and records TTLs.
type mockCache struct {
	mu     sync.Mutex
	data   map[string][]byte
	ttls   map[string]time.Duration
	getErr error
	setErr error
	gets   int
}

func newMockCache() *mockCache {
	return &mockCache{
		data: make(map[string][]byte),
		ttls: make(map[string]time.Duration),
	}
}

func (c *mockCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *mockCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	c.data[key] = value
	c.ttls[key] = ttl
	return nil
}

func (c *mockCache) ttl(key string) (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ttl, ok := c.ttls[key]
	return ttl, ok
}

// mockViews implements ViewRecorder.
type mockViews struct {
	mu    sync.Mutex
	views [][2]string
	err   error
}

func (v *mockViews) RecordView(_ context.Context, userID, contentID string, _ time.Time) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.err != nil {
		return v.err
	}
	v.views = append(v.views, [2]string{userID, contentID})
	return nil
}

// panicScorer panics on every call.
type panicScorer struct{}

func (panicScorer) ScoreAll([]Post, *UserProfile, time.Time) []ScoredCandidate {
	panic("scorer exploded")
}

func newTestEngine(t *testing.T, cfg *Config, content ContentStore, graph GraphStore, opts ...Option) *Engine {
	t.Helper()
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	e, err := NewEngine(cfg, content, graph, zerolog.Nop(), opts...)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

func post(id, author string, age time.Duration, likes, comments int) Post {
	return Post{
		ID:        id,
		AuthorID:  author,
		Title:     "post " + id,
		Keywords:  []string{},
		Likes:     likes,
		Comments:  comments,
		CreatedAt: testNow.Add(-age),
	}
}

func ids(items []ContentSummary) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}
