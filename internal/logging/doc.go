// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

// Package logging provides zerolog-based structured logging for Murmur.
//
// A global logger is configured once from main and handed to components as
// a zerolog.Logger value. Request-scoped fields travel in the context:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	ctx = logging.ContextWithRequestID(ctx, logging.GenerateRequestID())
//	logging.Ctx(ctx).Info().Str("user_id", userID).Msg("request served")
//
// # Adapters
//
// Two adapters route third-party logging into the same output:
//   - SlogHandler / NewSlogLogger for sutureslog (process supervision)
//   - WatermillLogger for the watermill router and gochannel pub/sub
//
// # Configuration
//
// Level is one of trace, debug, info, warn, error or disabled. Format is
// json (default) or console. The values are loaded by internal/config from
// the logging section or LOG_LEVEL, LOG_FORMAT and LOG_CALLER.
//
// Always terminate event chains with Msg or Send; an unterminated event is
// never written.
package logging
