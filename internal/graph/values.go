// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

package graph

import (
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/tomtom215/murmur/internal/recommend"
)

// toRow zips record keys and values into a Row with driver types normalized.
func toRow(keys []string, values []any) recommend.Row {
	row := make(recommend.Row, len(keys))
	for i, k := range keys {
		if i < len(values) {
			row[k] = normalize(values[i])
		}
	}
	return row
}

// normalize converts neo4j temporal and graph types into plain Go values
// understood by recommend.Row accessors.
func normalize(v any) any {
	switch val := v.(type) {
	case neo4j.LocalDateTime:
		return time.Time(val).UTC()
	case neo4j.Date:
		return time.Time(val).UTC()
	case time.Time:
		return val.UTC()
	case neo4j.Node:
		return normalizeMap(val.Props)
	case neo4j.Relationship:
		return normalizeMap(val.Props)
	case map[string]any:
		return normalizeMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalize(item)
		}
		return out
	}
	return v
}

func normalizeMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = normalize(v)
	}
	return out
}
