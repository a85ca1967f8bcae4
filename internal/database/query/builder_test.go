// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

package query

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/tomtom215/murmur/internal/filter"
)

var testTable = Table{
	Name: "posts",
	Columns: map[string]Column{
		"id":           {Name: "id"},
		"author_id":    {Name: "author_id"},
		"community_id": {Name: "community_id", Nullable: true},
		"archived":     {Name: "archived"},
		"keywords":     {Name: "keywords", List: true},
		"likes":        {Name: "likes"},
		"created_at":   {Name: "created_at"},
	},
}

func TestWhereBuilder_Empty(t *testing.T) {
	wb := NewWhereBuilder(testTable)

	if !wb.IsEmpty() {
		t.Error("Expected new builder to be empty")
	}

	whereClause, args := wb.Build()
	if whereClause != "1=1" {
		t.Errorf("Expected '1=1' for empty builder, got %q", whereClause)
	}
	if len(args) != 0 {
		t.Errorf("Expected 0 args, got %d", len(args))
	}

	if err := wb.Add(filter.All()); err != nil {
		t.Fatalf("Add(All) error = %v", err)
	}
	if wb.Count() != 0 {
		t.Errorf("Add(All) should add nothing, count = %d", wb.Count())
	}
}

func TestWhereBuilder_AddClauseAndPredicate(t *testing.T) {
	wb := NewWhereBuilder(testTable)
	wb.AddClause("likes >= ?", 5)
	if err := wb.Add(filter.Eq("archived", false)); err != nil {
		t.Fatal(err)
	}

	whereClause, args := wb.Build()
	if whereClause != "likes >= ? AND archived = ?" {
		t.Errorf("got %q", whereClause)
	}
	if !reflect.DeepEqual(args, []any{5, false}) {
		t.Errorf("args = %v", args)
	}
	if wb.Count() != 2 {
		t.Errorf("Count() = %d, want 2", wb.Count())
	}
}

func TestCompile(t *testing.T) {
	since := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		expr     filter.Expr
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "eq",
			expr:     filter.Eq("author_id", "u1"),
			wantSQL:  "author_id = ?",
			wantArgs: []any{"u1"},
		},
		{
			name:     "eq nullable",
			expr:     filter.Eq("community_id", "c1"),
			wantSQL:  "coalesce(community_id = ?, FALSE)",
			wantArgs: []any{"c1"},
		},
		{
			name:     "ne",
			expr:     filter.Ne("author_id", "u1"),
			wantSQL:  "author_id IS DISTINCT FROM ?",
			wantArgs: []any{"u1"},
		},
		{
			name:     "in",
			expr:     filter.In("id", "a", "b"),
			wantSQL:  "id IN (?, ?)",
			wantArgs: []any{"a", "b"},
		},
		{
			name:    "empty in matches nothing",
			expr:    filter.In[string]("id"),
			wantSQL: "1=0",
		},
		{
			name:    "empty not in excludes nothing",
			expr:    filter.NotIn[string]("id"),
			wantSQL: "1=1",
		},
		{
			name:     "not in nullable",
			expr:     filter.NotIn("community_id", "c1"),
			wantSQL:  "coalesce(community_id NOT IN (?), TRUE)",
			wantArgs: []any{"c1"},
		},
		{
			name:     "gte time",
			expr:     filter.Gte("created_at", since),
			wantSQL:  "created_at >= ?",
			wantArgs: []any{since},
		},
		{
			name:     "between",
			expr:     filter.Between("created_at", since, since.Add(time.Hour)),
			wantSQL:  "(created_at >= ? AND created_at < ?)",
			wantArgs: []any{since, since.Add(time.Hour)},
		},
		{
			name:     "overlaps",
			expr:     filter.Overlaps("keywords", "go", "rust"),
			wantSQL:  "list_has_any(keywords, CAST([?, ?] AS VARCHAR[]))",
			wantArgs: []any{"go", "rust"},
		},
		{
			name:    "empty overlaps",
			expr:    filter.Overlaps("keywords"),
			wantSQL: "1=0",
		},
		{
			name:     "size gte",
			expr:     filter.SizeGte("keywords", 2),
			wantSQL:  "len(keywords) >= ?",
			wantArgs: []any{2},
		},
		{
			name:    "empty or",
			expr:    filter.Or(),
			wantSQL: "1=0",
		},
		{
			name:     "not",
			expr:     filter.Not(filter.Eq("archived", true)),
			wantSQL:  "NOT (archived = ?)",
			wantArgs: []any{true},
		},
		{
			name: "nested",
			expr: filter.And(
				filter.Eq("archived", false),
				filter.Or(
					filter.In("author_id", "u2"),
					filter.Overlaps("keywords", "go"),
				),
			),
			wantSQL:  "(archived = ? AND (author_id IN (?) OR list_has_any(keywords, CAST([?] AS VARCHAR[]))))",
			wantArgs: []any{false, "u2", "go"},
		},
		{
			name:     "single child and is unwrapped",
			expr:     filter.And(filter.Eq("likes", 3)),
			wantSQL:  "likes = ?",
			wantArgs: []any{3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotSQL, gotArgs, err := compile(testTable, tt.expr)
			if err != nil {
				t.Fatalf("compile() error = %v", err)
			}
			if gotSQL != tt.wantSQL {
				t.Errorf("sql = %q, want %q", gotSQL, tt.wantSQL)
			}
			if len(gotArgs) != len(tt.wantArgs) || (len(gotArgs) > 0 && !reflect.DeepEqual(gotArgs, tt.wantArgs)) {
				t.Errorf("args = %v, want %v", gotArgs, tt.wantArgs)
			}
		})
	}
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name string
		expr filter.Expr
		want error
	}{
		{"unknown field", filter.Eq("password", "x"), ErrUnknownField},
		{"injection attempt", filter.Eq("id; DROP TABLE posts", "x"), ErrUnknownField},
		{"overlaps on scalar", filter.Overlaps("author_id", "x"), ErrUnsupported},
		{"eq on list", filter.Eq("keywords", "x"), ErrUnsupported},
		{"size on scalar", filter.SizeGte("likes", 1), ErrUnsupported},
		{"nested unknown", filter.Or(filter.Eq("id", "a"), filter.Eq("nope", 1)), ErrUnknownField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := compile(testTable, tt.expr)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestOrderBy(t *testing.T) {
	got, err := OrderBy(testTable, []filter.Order{filter.Desc("created_at"), filter.Asc("id")})
	if err != nil {
		t.Fatal(err)
	}
	if got != "created_at DESC NULLS LAST, id ASC NULLS LAST" {
		t.Errorf("OrderBy() = %q", got)
	}

	got, err = OrderBy(testTable, []filter.Order{filter.Random()})
	if err != nil || got != "random()" {
		t.Errorf("OrderBy(random) = %q, %v", got, err)
	}

	if got, _ := OrderBy(testTable, nil); got != "" {
		t.Errorf("OrderBy(nil) = %q, want empty", got)
	}

	if _, err := OrderBy(testTable, []filter.Order{filter.Asc("keywords")}); !errors.Is(err, ErrUnsupported) {
		t.Errorf("order by list column error = %v", err)
	}
	if _, err := OrderBy(testTable, []filter.Order{filter.Asc("score")}); !errors.Is(err, ErrUnknownField) {
		t.Errorf("order by unknown column error = %v", err)
	}
}

func TestSelect(t *testing.T) {
	sql, args, err := Select(testTable, "id, likes",
		filter.Gte("likes", 5), []filter.Order{filter.Desc("likes")}, 10)
	if err != nil {
		t.Fatal(err)
	}
	want := "SELECT id, likes FROM posts WHERE likes >= ? ORDER BY likes DESC NULLS LAST LIMIT ?"
	if sql != want {
		t.Errorf("Select() = %q, want %q", sql, want)
	}
	if !reflect.DeepEqual(args, []any{5, 10}) {
		t.Errorf("args = %v", args)
	}

	sql, args, err = Select(testTable, "id", filter.All(), nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	if sql != "SELECT id FROM posts WHERE 1=1" || len(args) != 0 {
		t.Errorf("Select(all) = %q %v", sql, args)
	}
}
