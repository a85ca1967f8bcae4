// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

// Package query compiles filter predicates into parameterized DuckDB SQL.
//
// Every table exposes an allowlist of columns. Field names are resolved
// against it and never interpolated, values are always bound through ?
// placeholders:
//
//	sql, args, err := query.Select(postsTable, postColumns,
//	    filter.And(
//	        filter.Eq("archived", false),
//	        filter.Overlaps("keywords", "go", "duckdb"),
//	    ),
//	    []filter.Order{filter.Desc("created_at")},
//	    50,
//	)
//	// SELECT ... FROM posts WHERE (archived = ? AND list_has_any(keywords, CAST([?, ?] AS VARCHAR[])))
//	//   ORDER BY created_at DESC NULLS LAST LIMIT ?
//
// # Semantics
//
// The generated SQL agrees with filter.Match. Empty In and Overlaps match
// nothing, empty NotIn excludes nothing, Ne treats NULL as "not equal",
// and nullable columns are wrapped in coalesce so NOT never turns an
// unknown into a match.
//
// WhereBuilder instances are not safe for concurrent use.
package query
