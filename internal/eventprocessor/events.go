// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

package eventprocessor

import (
	"time"

	"github.com/google/uuid"
)

// SchemaVersion is the current ViewEvent format version.
const SchemaVersion = 1

// TopicViews is the in-process topic view events are published on.
const TopicViews = "views.recorded"

// ViewEvent records that a user opened a post.
type ViewEvent struct {
	SchemaVersion int       `json:"schema_version,omitempty"`
	EventID       string    `json:"event_id"`
	UserID        string    `json:"user_id"`
	ContentID     string    `json:"content_id"`
	ViewedAt      time.Time `json:"viewed_at"`
}

// NewViewEvent creates an event with a unique ID.
func NewViewEvent(userID, contentID string, at time.Time) *ViewEvent {
	return &ViewEvent{
		SchemaVersion: SchemaVersion,
		EventID:       uuid.New().String(),
		UserID:        userID,
		ContentID:     contentID,
		ViewedAt:      at.UTC(),
	}
}

// GetSchemaVersion returns the schema version, defaulting to 1 for events
// written without one.
func (e *ViewEvent) GetSchemaVersion() int {
	if e.SchemaVersion == 0 {
		return 1
	}
	return e.SchemaVersion
}

// Validate checks required fields.
func (e *ViewEvent) Validate() error {
	if e.EventID == "" {
		return &ValidationError{Field: "event_id", Message: "required"}
	}
	if e.UserID == "" {
		return &ValidationError{Field: "user_id", Message: "required"}
	}
	if e.ContentID == "" {
		return &ValidationError{Field: "content_id", Message: "required"}
	}
	if e.ViewedAt.IsZero() {
		return &ValidationError{Field: "viewed_at", Message: "required"}
	}
	return nil
}

// ValidationError reports a missing or malformed event field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Field + " " + e.Message
}
