// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

// Package api serves Murmur's operational HTTP surface: liveness and
// readiness probes, Prometheus metrics, and diagnostic routes that run the
// recommendation engine for one user and return items with their scores,
// source tiers and reasons.
//
// The diagnostic routes are for operators; product clients reach the
// engine through their own transport.
package api
