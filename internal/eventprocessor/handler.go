// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

package eventprocessor

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/tomtom215/murmur/internal/metrics"
	"github.com/tomtom215/murmur/internal/recommend"
)

// viewHandler persists view events to the view store.
type viewHandler struct {
	store  recommend.ViewRecorder
	logger zerolog.Logger
}

func (h *viewHandler) Handle(msg *message.Message) error {
	event, err := UnmarshalView(msg.Payload)
	if err != nil {
		// Retrying a malformed payload never helps.
		metrics.ViewEvents.WithLabelValues("failed").Inc()
		h.logger.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("Discarding malformed view event")
		return nil
	}

	if err := h.store.RecordView(msg.Context(), event.UserID, event.ContentID, event.ViewedAt); err != nil {
		return fmt.Errorf("store view %s: %w", event.EventID, err)
	}

	metrics.ViewEvents.WithLabelValues("stored").Inc()
	return nil
}
