// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

package eventprocessor

import (
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/rs/zerolog"

	"github.com/tomtom215/murmur/internal/logging"
	"github.com/tomtom215/murmur/internal/metrics"
)

// RouterConfig configures the watermill router that consumes view events.
type RouterConfig struct {
	// CloseTimeout is how long to wait for handlers to finish when closing.
	CloseTimeout time.Duration

	// RetryMaxRetries is the number of redeliveries after the first failure.
	// 0 disables retries.
	RetryMaxRetries      int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
	RetryMultiplier      float64
}

// DefaultRouterConfig returns the router defaults.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		CloseTimeout:         10 * time.Second,
		RetryMaxRetries:      3,
		RetryInitialInterval: 100 * time.Millisecond,
		RetryMaxInterval:     2 * time.Second,
		RetryMultiplier:      2.0,
	}
}

// newRouter builds a router with middleware in order (outer to inner):
//  1. give up: a message that still fails is logged, counted and acked
//  2. Retry: exponential backoff for transient store failures
//  3. Recoverer: panics become errors, so they are retried too
func newRouter(cfg RouterConfig, logger zerolog.Logger) (*message.Router, error) {
	var wmLogger watermill.LoggerAdapter = logging.NewWatermillLogger(logger)

	r, err := message.NewRouter(message.RouterConfig{CloseTimeout: cfg.CloseTimeout}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	r.AddMiddleware(giveUp(logger))

	if cfg.RetryMaxRetries > 0 {
		retry := middleware.Retry{
			MaxRetries:      cfg.RetryMaxRetries,
			InitialInterval: cfg.RetryInitialInterval,
			MaxInterval:     cfg.RetryMaxInterval,
			Multiplier:      cfg.RetryMultiplier,
			Logger:          wmLogger,
		}
		r.AddMiddleware(retry.Middleware)
	}
	r.AddMiddleware(middleware.Recoverer)

	return r, nil
}

// giveUp acks messages that failed every attempt. The in-process bus
// redelivers nacked messages forever.
func giveUp(logger zerolog.Logger) message.HandlerMiddleware {
	return func(h message.HandlerFunc) message.HandlerFunc {
		return func(msg *message.Message) ([]*message.Message, error) {
			produced, err := h(msg)
			if err != nil {
				metrics.ViewEvents.WithLabelValues("failed").Inc()
				logger.Error().
					Err(err).
					Str("message_uuid", msg.UUID).
					Msg("Dropping view event after retries")
				return nil, nil
			}
			return produced, nil
		}
	}
}
