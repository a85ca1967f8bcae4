// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler serves the ops endpoints.
type Handler struct {
	engine    Recommender
	checks    []HealthCheck
	version   string
	startTime time.Time
}

// NewHandler creates a handler. engine may be nil, in which case the
// diagnostic routes are not mounted.
func NewHandler(engine Recommender, version string, checks ...HealthCheck) *Handler {
	return &Handler{
		engine:    engine,
		checks:    checks,
		version:   version,
		startTime: time.Now(),
	}
}

// Routes builds the chi router:
//
//	GET  /healthz/live
//	GET  /healthz
//	GET  /metrics
//	GET  /debug/users/{userID}/content?limit=N
//	GET  /debug/users/{userID}/people?limit=N
//	POST /debug/users/{userID}/views/{contentID}
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(PrometheusMetrics)

	r.Route("/healthz", func(r chi.Router) {
		r.Use(rateLimit(RateLimitHealth))
		r.Get("/live", h.HealthLive)
		r.Get("/", h.Health)
	})

	r.Handle("/metrics", promhttp.Handler())

	if h.engine != nil {
		r.Route("/debug/users/{userID}", func(r chi.Router) {
			r.Use(rateLimit(RateLimitDebug))
			r.Get("/content", h.GetContent)
			r.Get("/people", h.GetPeople)
			r.Post("/views/{contentID}", h.PostView)
		})
	}

	return r
}
