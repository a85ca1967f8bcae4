// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/murmur/internal/recommend"
	"github.com/tomtom215/murmur/internal/validation"
)

// Recommender is the engine surface the diagnostic routes call.
type Recommender interface {
	GetRecommendedContent(ctx context.Context, userID string, limit int) ([]recommend.ContentSummary, error)
	GetRecommendedUsers(ctx context.Context, userID string, limit int) ([]recommend.UserSummary, error)
	RecordView(ctx context.Context, userID, contentID string) error
}

// recommendRequest is validated before the engine is called. Limit 0
// means the engine default.
type recommendRequest struct {
	UserID string `validate:"required,max=128"`
	Limit  int    `validate:"gte=0,lte=1000"`
}

type viewRequest struct {
	UserID    string `validate:"required,max=128"`
	ContentID string `validate:"required,max=128"`
}

const recommendTimeout = 10 * time.Second

func parseRecommendRequest(r *http.Request) (recommendRequest, error) {
	req := recommendRequest{UserID: chi.URLParam(r, "userID")}
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return req, err
		}
		req.Limit = n
	}
	return req, validation.ValidateStruct(&req)
}

// GetContent handles GET /debug/users/{userID}/content. Items carry their
// score, source tier and reasons.
func (h *Handler) GetContent(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	req, err := parseRecommendRequest(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), recommendTimeout)
	defer cancel()

	items, err := h.engine.GetRecommendedContent(ctx, req.UserID, req.Limit)
	if err != nil {
		h.respondEngineError(w, r, err)
		return
	}
	respondOK(w, r, map[string]any{"items": items, "count": len(items)}, started)
}

// GetPeople handles GET /debug/users/{userID}/people.
func (h *Handler) GetPeople(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	req, err := parseRecommendRequest(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), recommendTimeout)
	defer cancel()

	users, err := h.engine.GetRecommendedUsers(ctx, req.UserID, req.Limit)
	if err != nil {
		h.respondEngineError(w, r, err)
		return
	}
	respondOK(w, r, map[string]any{"users": users, "count": len(users)}, started)
}

// PostView handles POST /debug/users/{userID}/views/{contentID}.
func (h *Handler) PostView(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	req := viewRequest{
		UserID:    chi.URLParam(r, "userID"),
		ContentID: chi.URLParam(r, "contentID"),
	}
	if err := validation.ValidateStruct(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	if err := h.engine.RecordView(r.Context(), req.UserID, req.ContentID); err != nil {
		h.respondEngineError(w, r, err)
		return
	}
	w.Header().Set("Location", r.URL.Path)
	respondJSON(w, http.StatusAccepted, &APIResponse{
		Status: "accepted",
		Metadata: Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(started).Milliseconds(),
		},
	})
}

func (h *Handler) respondEngineError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, recommend.ErrInvalidRequest):
		respondError(w, r, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), err)
	case errors.Is(err, recommend.ErrStoreUnavailable):
		respondError(w, r, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Stores unavailable", err)
	case errors.Is(err, context.DeadlineExceeded):
		respondError(w, r, http.StatusGatewayTimeout, "TIMEOUT", "Recommendation timed out", err)
	default:
		respondError(w, r, http.StatusInternalServerError, "RECOMMENDATION_ERROR", "Failed to generate recommendations", err)
	}
}
