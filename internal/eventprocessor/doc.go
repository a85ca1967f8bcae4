// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

// Package eventprocessor records post views off the request path.
//
// With views.async enabled, the engine's RecordView publishes a ViewEvent
// onto an in-process watermill gochannel and returns immediately. A
// watermill router consumes the topic and writes each view to the
// database:
//
//	Engine.RecordView -> Publisher -> gochannel(views.recorded) -> Router -> DB.RecordView
//
// The publisher applies an optional token-bucket limit (x/time/rate);
// excess views are dropped and counted in murmur_view_events_total. The
// router retries store failures with exponential backoff, recovers
// handler panics, and acks a message that still fails so it is not
// redelivered forever. With views.async disabled NewRecorder returns the
// store itself and views are written synchronously.
//
// Views are idempotent per (user, post), so redelivery is harmless.
package eventprocessor
