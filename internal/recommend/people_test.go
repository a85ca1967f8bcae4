// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

package recommend

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/tomtom215/murmur/internal/filter"
)

func userIDs(users []UserSummary) []string {
	out := make([]string, len(users))
	for i, u := range users {
		out[i] = u.ID
	}
	return out
}

func TestGetRecommendedUsers_NeverSelfOrFollowed(t *testing.T) {
	graph := newMockGraph()
	graph.rows[QueryFriendsOfFriends.Name] = []Row{
		{"userId": "me", "commonCount": int64(9), "connections": []any{"f1"}},
		{"userId": "f1", "commonCount": int64(8), "connections": []any{"f2"}},
		{"userId": "s1", "commonCount": int64(3), "connections": []any{"f1", "f2"}},
		{"userId": "s1", "commonCount": int64(3)},
		{"userId": "s2", "commonCount": int64(1), "connections": []any{"f2"}},
	}
	content := &mockContentStore{
		following: map[string][]string{"me": {"f1", "f2"}},
		users: []User{
			{ID: "me", Username: "me"},
			{ID: "f1", Username: "friend1"},
			{ID: "f2", Username: "friend2"},
			{ID: "s1", Username: "suggested1"},
			{ID: "s2", Username: "suggested2"},
			{ID: "r1", Username: "random1"},
		},
	}
	e := newTestEngine(t, nil, content, graph)

	got, err := e.GetRecommendedUsers(context.Background(), "me", 10)
	if err != nil {
		t.Fatalf("GetRecommendedUsers() error = %v", err)
	}

	sorted := userIDs(got)
	slices.Sort(sorted)
	if want := []string{"r1", "s1", "s2"}; !slices.Equal(sorted, want) {
		t.Errorf("ids = %v, want %v", sorted, want)
	}
	for _, u := range got {
		if u.ID == "s1" {
			if u.CommonSignalCount != 3 || !slices.Equal(u.CommonConnections, []string{"f1", "f2"}) {
				t.Errorf("s1 = %+v", u)
			}
			if u.Username != "suggested1" {
				t.Errorf("s1 not hydrated: %+v", u)
			}
			if u.Source != PeopleSourceFriendsOfFriends {
				t.Errorf("s1 source = %s", u.Source)
			}
		}
		if u.ID == "r1" && u.Source != PeopleSourceRandom {
			t.Errorf("r1 source = %s", u.Source)
		}
	}
}

func TestGetRecommendedUsers_TierProgression(t *testing.T) {
	graph := newMockGraph()
	graph.rows[QueryFriendsOfFriends.Name] = []Row{
		{"userId": "t1", "commonCount": int64(2)},
	}
	graph.rows[QuerySharedInterests.Name] = []Row{
		{"userId": "t2", "commonCount": int64(4)},
	}
	content := &mockContentStore{
		users: []User{{ID: "t1"}, {ID: "t2"}, {ID: "t3"}, {ID: "t4"}, {ID: "me"}},
	}
	e := newTestEngine(t, nil, content, graph)

	got, err := e.GetRecommendedUsers(context.Background(), "me", 3)
	if err != nil {
		t.Fatalf("GetRecommendedUsers() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}

	params := graph.lastParams(QueryFriendsOfFriends.Name)
	if params["limit"] != 5 {
		t.Errorf("tier 1 limit = %v, want ceil(1.5*3) = 5", params["limit"])
	}

	params = graph.lastParams(QuerySharedInterests.Name)
	if exclude, _ := params["excludeIds"].([]string); !slices.Equal(exclude, []string{"t1"}) {
		t.Errorf("tier 2 excludeIds = %v, want [t1]", params["excludeIds"])
	}
	if params["limit"] != 2 {
		t.Errorf("tier 2 limit = %v, want 2", params["limit"])
	}

	sorted := userIDs(got)
	slices.Sort(sorted)
	if want := []string{"t1", "t2", "t3"}; !slices.Equal(sorted, want) {
		t.Errorf("ids = %v, want %v", sorted, want)
	}
}

func TestGetRecommendedUsers_SkipsLaterTiersWhenSatisfied(t *testing.T) {
	graph := newMockGraph()
	graph.rows[QueryFriendsOfFriends.Name] = []Row{
		{"userId": "a", "commonCount": int64(3)},
		{"userId": "b", "commonCount": int64(2)},
		{"userId": "c", "commonCount": int64(1)},
	}
	content := &mockContentStore{}
	e := newTestEngine(t, nil, content, graph)

	got, err := e.GetRecommendedUsers(context.Background(), "me", 2)
	if err != nil {
		t.Fatalf("GetRecommendedUsers() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
	if graph.callCount(QuerySharedInterests.Name) != 0 {
		t.Error("tier 2 queried although tier 1 was sufficient")
	}
}

func TestGetRecommendedUsers_TierFailureIsolated(t *testing.T) {
	graph := newMockGraph()
	graph.errs[QueryFriendsOfFriends.Name] = errors.New("graph down")
	graph.rows[QuerySharedInterests.Name] = []Row{{"userId": "s", "commonCount": int64(1)}}
	content := &mockContentStore{}
	e := newTestEngine(t, nil, content, graph)

	got, err := e.GetRecommendedUsers(context.Background(), "me", 5)
	if err != nil {
		t.Fatalf("GetRecommendedUsers() error = %v", err)
	}
	if !slices.Equal(userIDs(got), []string{"s"}) {
		t.Errorf("ids = %v, want [s]", userIDs(got))
	}
}

func TestGetRecommendedUsers_FollowingUnavailableSkipsRandomFill(t *testing.T) {
	tests := []struct {
		name     string
		fof      []Row
		graphErr error
		wantIDs  []string
		wantErr  error
	}{
		{
			name:    "graph tiers still contribute",
			fof:     []Row{{"userId": "s1", "commonCount": int64(2)}},
			wantIDs: []string{"s1"},
		},
		{
			name:    "nothing found is an empty result",
			wantIDs: []string{},
		},
		{
			name:     "graph down too",
			graphErr: errors.New("graph down"),
			wantErr:  ErrStoreUnavailable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			graph := newMockGraph()
			graph.rows[QueryFriendsOfFriends.Name] = tt.fof
			if tt.graphErr != nil {
				graph.errs[QueryFriendsOfFriends.Name] = tt.graphErr
				graph.errs[QuerySharedInterests.Name] = tt.graphErr
			}
			content := &mockContentStore{
				followingErr: errors.New("follows table unavailable"),
				users: []User{
					{ID: "me", Username: "me"},
					{ID: "f1", Username: "friend1"},
					{ID: "f2", Username: "friend2"},
					{ID: "s1", Username: "suggested1"},
				},
			}
			e := newTestEngine(t, nil, content, graph)

			got, err := e.GetRecommendedUsers(context.Background(), "me", 10)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("GetRecommendedUsers() error = %v", err)
			}
			if ids := userIDs(got); !slices.Equal(ids, tt.wantIDs) {
				t.Errorf("ids = %v, want %v", ids, tt.wantIDs)
			}
			for _, where := range content.lastUserWhere {
				if where.Op == filter.OpNotIn {
					t.Errorf("random fill ran with unknown following set: %s", where)
				}
			}
		})
	}
}

func TestGetRecommendedUsers_AllTiersDown(t *testing.T) {
	graph := newMockGraph()
	graph.errs[QueryFriendsOfFriends.Name] = errors.New("graph down")
	graph.errs[QuerySharedInterests.Name] = errors.New("graph down")
	content := &mockContentStore{findUsersErr: errors.New("store down")}
	e := newTestEngine(t, nil, content, graph)

	_, err := e.GetRecommendedUsers(context.Background(), "me", 5)
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("error = %v, want ErrStoreUnavailable", err)
	}
}

func TestGetRecommendedUsers_DeterministicForSeed(t *testing.T) {
	rows := []Row{
		{"userId": "a", "commonCount": int64(5)},
		{"userId": "b", "commonCount": int64(4)},
		{"userId": "c", "commonCount": int64(3)},
		{"userId": "d", "commonCount": int64(2)},
		{"userId": "e", "commonCount": int64(1)},
	}

	run := func() []string {
		graph := newMockGraph()
		graph.rows[QueryFriendsOfFriends.Name] = rows
		cfg := DefaultConfig()
		cfg.Seed = 99
		e := newTestEngine(t, cfg, &mockContentStore{}, graph)
		got, err := e.GetRecommendedUsers(context.Background(), "me", 5)
		if err != nil {
			t.Fatalf("GetRecommendedUsers() error = %v", err)
		}
		return userIDs(got)
	}

	if a, b := run(), run(); !slices.Equal(a, b) {
		t.Errorf("orders differ for equal seeds: %v vs %v", a, b)
	}
}

func TestGetRecommendedUsers_InvalidRequest(t *testing.T) {
	e := newTestEngine(t, nil, &mockContentStore{}, newMockGraph())
	if _, err := e.GetRecommendedUsers(context.Background(), "", 5); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("error = %v, want ErrInvalidRequest", err)
	}
}
