// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

package api

import (
	"context"
	"net/http"
	"time"
)

// HealthCheck probes one dependency.
type HealthCheck struct {
	Name string
	Ping func(ctx context.Context) error

	// Required checks make the service unready when they fail. Optional
	// ones only mark it degraded; the engine answers without the graph.
	Required bool
}

// HealthStatus is the body of /healthz.
type HealthStatus struct {
	Status  string            `json:"status"` // healthy, degraded, unhealthy
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
	Uptime  float64           `json:"uptime_seconds"`
}

const healthCheckTimeout = 2 * time.Second

// HealthLive reports that the process is up, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondOK(w, r, map[string]any{
		"alive":          true,
		"uptime_seconds": time.Since(h.startTime).Seconds(),
	}, time.Now())
}

// Health pings every dependency. It answers 503 when a required check
// fails and 200 with status "degraded" when only optional checks fail.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	status := HealthStatus{
		Status:  "healthy",
		Version: h.version,
		Checks:  make(map[string]string, len(h.checks)),
		Uptime:  time.Since(h.startTime).Seconds(),
	}

	for _, c := range h.checks {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		err := c.Ping(ctx)
		cancel()

		if err == nil {
			status.Checks[c.Name] = "ok"
			continue
		}
		status.Checks[c.Name] = sanitizeLogValue(err.Error())
		switch {
		case c.Required:
			status.Status = "unhealthy"
		case status.Status == "healthy":
			status.Status = "degraded"
		}
	}

	code := http.StatusOK
	if status.Status == "unhealthy" {
		code = http.StatusServiceUnavailable
	}
	respondJSON(w, code, &APIResponse{
		Status: status.Status,
		Data:   status,
		Metadata: Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(started).Milliseconds(),
		},
	})
}
