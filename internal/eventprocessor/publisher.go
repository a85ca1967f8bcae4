// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

package eventprocessor

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/murmur/internal/metrics"
	"github.com/tomtom215/murmur/internal/recommend"
)

// Publisher turns RecordView calls into view events. It implements
// recommend.ViewRecorder and never blocks on the view store.
type Publisher struct {
	pub     message.Publisher
	limiter *rate.Limiter
	logger  zerolog.Logger
	closed  atomic.Bool
}

// NewPublisher wraps pub. A nil limiter accepts every view.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewPublisher(pub message.Publisher, limiter *rate.Limiter, logger zerolog.Logger) *Publisher {
	return &Publisher{pub: pub, limiter: limiter, logger: logger}
}

// RecordView publishes a view event. Views over the rate limit are dropped
// and counted without an error. The request context is not attached to the
// message so a finished request does not cancel the store write.
func (p *Publisher) RecordView(_ context.Context, userID, contentID string, at time.Time) error {
	if p.closed.Load() {
		return ErrClosed
	}
	if at.IsZero() {
		at = time.Now()
	}

	event := NewViewEvent(userID, contentID, at)
	payload, err := MarshalView(event)
	if err != nil {
		return err
	}

	if p.limiter != nil && !p.limiter.Allow() {
		metrics.ViewEvents.WithLabelValues("dropped").Inc()
		p.logger.Debug().Str("user_id", userID).Str("content_id", contentID).Msg("View rate limited")
		return nil
	}

	msg := message.NewMessage(event.EventID, payload)
	msg.Metadata.Set("user_id", userID)

	if err := p.pub.Publish(TopicViews, msg); err != nil {
		metrics.ViewEvents.WithLabelValues("dropped").Inc()
		return fmt.Errorf("publish view: %w", err)
	}

	metrics.ViewEvents.WithLabelValues("published").Inc()
	return nil
}

func (p *Publisher) close() {
	p.closed.Store(true)
}

var _ recommend.ViewRecorder = (*Publisher)(nil)
