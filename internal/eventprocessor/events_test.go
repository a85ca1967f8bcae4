// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

package eventprocessor

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestViewEvent_Validate(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		mutate    func(e *ViewEvent)
		wantField string
	}{
		{"valid", func(*ViewEvent) {}, ""},
		{"missing event id", func(e *ViewEvent) { e.EventID = "" }, "event_id"},
		{"missing user", func(e *ViewEvent) { e.UserID = "" }, "user_id"},
		{"missing content", func(e *ViewEvent) { e.ContentID = "" }, "content_id"},
		{"missing time", func(e *ViewEvent) { e.ViewedAt = time.Time{} }, "viewed_at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := NewViewEvent("u1", "p1", now)
			tt.mutate(e)

			err := e.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error = %v, want *ValidationError", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestNewViewEvent(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	a := NewViewEvent("u1", "p1", at)
	b := NewViewEvent("u1", "p1", at)

	if a.EventID == b.EventID {
		t.Error("event IDs should be unique")
	}
	if a.ViewedAt.Location() != time.UTC || !a.ViewedAt.Equal(at) {
		t.Errorf("ViewedAt = %v, want %v in UTC", a.ViewedAt, at)
	}
	if a.GetSchemaVersion() != SchemaVersion {
		t.Errorf("GetSchemaVersion() = %d", a.GetSchemaVersion())
	}
	if (&ViewEvent{}).GetSchemaVersion() != 1 {
		t.Error("missing schema version should read as 1")
	}
}

func TestSerializer(t *testing.T) {
	t.Parallel()

	in := NewViewEvent("u1", "p1", time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	data, err := MarshalView(in)
	if err != nil {
		t.Fatalf("MarshalView() error = %v", err)
	}
	if !strings.Contains(string(data), `"content_id":"p1"`) {
		t.Errorf("payload %s missing content_id", data)
	}

	out, err := UnmarshalView(data)
	if err != nil {
		t.Fatalf("UnmarshalView() error = %v", err)
	}
	if *out != *in {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}

	if _, err := MarshalView(&ViewEvent{}); err == nil {
		t.Error("MarshalView() should reject an invalid event")
	}
	if _, err := UnmarshalView([]byte("{not json")); err == nil {
		t.Error("UnmarshalView() should reject malformed JSON")
	}
	if _, err := UnmarshalView([]byte(`{"event_id":"x","user_id":"u1"}`)); err == nil {
		t.Error("UnmarshalView() should reject an incomplete event")
	}
}
