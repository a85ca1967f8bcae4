// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

package recommend

import (
	"errors"
	"sort"
	"time"
)

var (
	// ErrInvalidRequest is returned for empty identifiers.
	ErrInvalidRequest = errors.New("recommend: invalid request")

	// ErrStoreUnavailable is returned when every store query a request
	// depends on has failed and no result could be assembled.
	ErrStoreUnavailable = errors.New("recommend: stores unavailable")
)

// Field names understood by ContentStore predicates.
const (
	FieldID          = "id"
	FieldAuthorID    = "author_id"
	FieldCommunityID = "community_id"
	FieldArchived    = "archived"
	FieldKeywords    = "keywords"
	FieldLikes       = "likes"
	FieldComments    = "comments"
	FieldCreatedAt   = "created_at"
	FieldUsername    = "username"
)

// Post is a content item as read from the content store.
// It is a read-only snapshot and is never mutated by the engine.
type Post struct {
	ID          string    `json:"id"`
	AuthorID    string    `json:"author_id"`
	CommunityID string    `json:"community_id,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	HasImage    bool      `json:"has_image"`
	Keywords    []string  `json:"keywords"`
	Likes       int       `json:"likes"`
	Comments    int       `json:"comments"`
	Archived    bool      `json:"archived"`
	CreatedAt   time.Time `json:"created_at"`
}

// Field implements filter.Record.
func (p Post) Field(name string) (any, bool) {
	switch name {
	case FieldID:
		return p.ID, true
	case FieldAuthorID:
		return p.AuthorID, true
	case FieldCommunityID:
		return p.CommunityID, p.CommunityID != ""
	case FieldArchived:
		return p.Archived, true
	case FieldKeywords:
		return p.KeywordList(), true
	case FieldLikes:
		return p.Likes, true
	case FieldComments:
		return p.Comments, true
	case FieldCreatedAt:
		return p.CreatedAt, true
	}
	return nil, false
}

// KeywordList returns the keywords, never nil.
func (p Post) KeywordList() []string {
	if p.Keywords == nil {
		return []string{}
	}
	return p.Keywords
}

// User is a user record as read from the content store.
type User struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// Field implements filter.Record.
func (u User) Field(name string) (any, bool) {
	switch name {
	case FieldID:
		return u.ID, true
	case FieldUsername:
		return u.Username, true
	}
	return nil, false
}

// UserProfile is the per-request signal bundle for a user.
// It is rebuilt on every request and never persisted as a unit.
type UserProfile struct {
	// Interests maps a lowercase tag to its decayed weight.
	Interests map[string]float64

	// Following is the set of followed user IDs.
	Following map[string]struct{}

	// ViewedPosts is the set of post IDs viewed within the view window.
	ViewedPosts map[string]struct{}

	// RecentInteractions maps a post ID to its summed interaction weight.
	RecentInteractions map[string]float64
}

// NewUserProfile returns a profile with every signal empty.
func NewUserProfile() *UserProfile {
	return &UserProfile{
		Interests:          make(map[string]float64),
		Following:          make(map[string]struct{}),
		ViewedPosts:        make(map[string]struct{}),
		RecentInteractions: make(map[string]float64),
	}
}

// Follows reports whether the profile follows userID.
func (p *UserProfile) Follows(userID string) bool {
	_, ok := p.Following[userID]
	return ok
}

// HasViewed reports whether postID is in the viewed set.
func (p *UserProfile) HasViewed(postID string) bool {
	_, ok := p.ViewedPosts[postID]
	return ok
}

// FollowingIDs returns the followed IDs in sorted order.
func (p *UserProfile) FollowingIDs() []string {
	return sortedKeys(p.Following)
}

// ViewedIDs returns the viewed post IDs in sorted order.
func (p *UserProfile) ViewedIDs() []string {
	return sortedKeys(p.ViewedPosts)
}

// InterestTags returns the interest tags in sorted order.
func (p *UserProfile) InterestTags() []string {
	tags := make([]string, 0, len(p.Interests))
	for tag := range p.Interests {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// ScoredCandidate is a candidate post with its relevance score.
type ScoredCandidate struct {
	Post  Post
	Score float64
	// Reasons names the signals that contributed meaningfully to Score.
	// Diagnostic only.
	Reasons []string
}

// Source identifies which stage produced a recommended item.
type Source string

const (
	SourcePersonalized     Source = "personalized"
	SourceFallbackTrending Source = "fallback_trending"
	SourceFallbackRecent   Source = "fallback_recent"
	SourceFallbackAny      Source = "fallback_any"
)

// Reasons recorded by the scorer.
const (
	ReasonRecent             = "recent"
	ReasonMatchesInterests   = "matches_interests"
	ReasonFollowedAuthor     = "followed_author"
	ReasonPopular            = "popular"
	ReasonQuality            = "quality"
	ReasonCommunity          = "community"
	ReasonRecentlyInteracted = "recently_interacted"
)

// ContentSummary is a recommended content item.
type ContentSummary struct {
	ID          string    `json:"id"`
	AuthorID    string    `json:"author_id"`
	CommunityID string    `json:"community_id,omitempty"`
	Title       string    `json:"title"`
	Keywords    []string  `json:"keywords"`
	Likes       int       `json:"likes"`
	Comments    int       `json:"comments"`
	CreatedAt   time.Time `json:"created_at"`
	Score       float64   `json:"score"`
	Source      Source    `json:"source"`
	Reasons     []string  `json:"reasons,omitempty"`
}

func newContentSummary(p Post, score float64, source Source, reasons []string) ContentSummary {
	return ContentSummary{
		ID:          p.ID,
		AuthorID:    p.AuthorID,
		CommunityID: p.CommunityID,
		Title:       p.Title,
		Keywords:    p.KeywordList(),
		Likes:       p.Likes,
		Comments:    p.Comments,
		CreatedAt:   p.CreatedAt,
		Score:       score,
		Source:      source,
		Reasons:     reasons,
	}
}

// UserSummary is a recommended user.
type UserSummary struct {
	ID                string   `json:"id"`
	Username          string   `json:"username,omitempty"`
	DisplayName       string   `json:"display_name,omitempty"`
	AvatarURL         string   `json:"avatar_url,omitempty"`
	CommonSignalCount int      `json:"common_signal_count"`
	CommonConnections []string `json:"common_connections"`
	Source            string   `json:"source"`
}

// People recommendation sources.
const (
	PeopleSourceFriendsOfFriends = "friends_of_friends"
	PeopleSourceSharedInterests  = "shared_interests"
	PeopleSourceRandom           = "random"
)

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
