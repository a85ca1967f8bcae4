// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

package query

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tomtom215/murmur/internal/filter"
)

var (
	// ErrUnknownField is returned when a predicate or order names a field
	// that is not a column of the table.
	ErrUnknownField = errors.New("query: unknown field")

	// ErrUnsupported is returned for predicates the table cannot evaluate,
	// such as Overlaps on a scalar column.
	ErrUnsupported = errors.New("query: unsupported predicate")
)

// Column describes one filterable column.
type Column struct {
	// Name is the SQL column name.
	Name string
	// Nullable columns are wrapped so that NULL behaves like a missing field.
	Nullable bool
	// List marks VARCHAR[] columns.
	List bool
}

// Table is the field allowlist for one table. Predicate fields are looked
// up here and never interpolated directly.
type Table struct {
	Name    string
	Columns map[string]Column
}

func (t Table) column(field string) (Column, error) {
	col, ok := t.Columns[field]
	if !ok {
		return Column{}, fmt.Errorf("%w: %s.%s", ErrUnknownField, t.Name, field)
	}
	return col, nil
}

// WhereBuilder constructs SQL WHERE clauses with parameterized arguments.
//
//	wb := query.NewWhereBuilder(postsTable)
//	if err := wb.Add(filter.Eq("archived", false)); err != nil { ... }
//	wb.AddClause("likes >= ?", 5)
//	whereClause, args := wb.Build()
//	// archived = ? AND likes >= ?
type WhereBuilder struct {
	table   Table
	clauses []string
	args    []any
}

// NewWhereBuilder creates a builder for table.
func NewWhereBuilder(table Table) *WhereBuilder {
	return &WhereBuilder{table: table}
}

// AddClause adds a raw WHERE clause with its arguments.
func (wb *WhereBuilder) AddClause(clause string, args ...any) *WhereBuilder {
	wb.clauses = append(wb.clauses, clause)
	wb.args = append(wb.args, args...)
	return wb
}

// Add compiles a predicate and appends it. An empty And adds nothing.
func (wb *WhereBuilder) Add(e filter.Expr) error {
	if e.Op == filter.OpAnd && len(e.Children) == 0 {
		return nil
	}
	clause, args, err := compile(wb.table, e)
	if err != nil {
		return err
	}
	wb.AddClause(clause, args...)
	return nil
}

// Build joins the clauses with AND. Returns ("1=1", nil) if nothing was added.
func (wb *WhereBuilder) Build() (string, []any) {
	if len(wb.clauses) == 0 {
		return "1=1", nil
	}
	return strings.Join(wb.clauses, " AND "), wb.args
}

// Count returns the number of clauses added to the builder.
func (wb *WhereBuilder) Count() int {
	return len(wb.clauses)
}

// IsEmpty returns true if no clauses have been added.
func (wb *WhereBuilder) IsEmpty() bool {
	return len(wb.clauses) == 0
}

// compile translates a predicate tree into a boolean SQL expression with
// two-valued semantics matching filter.Match.
func compile(t Table, e filter.Expr) (string, []any, error) {
	switch e.Op {
	case filter.OpAnd, filter.OpOr:
		if len(e.Children) == 0 {
			if e.Op == filter.OpAnd {
				return "1=1", nil, nil
			}
			return "1=0", nil, nil
		}
		sep := " AND "
		if e.Op == filter.OpOr {
			sep = " OR "
		}
		parts := make([]string, 0, len(e.Children))
		var args []any
		for _, child := range e.Children {
			clause, childArgs, err := compile(t, child)
			if err != nil {
				return "", nil, err
			}
			parts = append(parts, clause)
			args = append(args, childArgs...)
		}
		if len(parts) == 1 {
			return parts[0], args, nil
		}
		return "(" + strings.Join(parts, sep) + ")", args, nil

	case filter.OpNot:
		if len(e.Children) == 0 {
			return "1=0", nil, nil
		}
		clause, args, err := compile(t, e.Children[0])
		if err != nil {
			return "", nil, err
		}
		return "NOT (" + clause + ")", args, nil
	}

	col, err := t.column(e.Field)
	if err != nil {
		return "", nil, err
	}

	switch e.Op {
	case filter.OpEq:
		if col.List {
			return "", nil, fmt.Errorf("%w: %s on list column %s", ErrUnsupported, e.Op, e.Field)
		}
		return nullAs(col, col.Name+" = ?", false), []any{e.Value}, nil

	case filter.OpNe:
		if col.List {
			return "", nil, fmt.Errorf("%w: %s on list column %s", ErrUnsupported, e.Op, e.Field)
		}
		return col.Name + " IS DISTINCT FROM ?", []any{e.Value}, nil

	case filter.OpIn, filter.OpNotIn:
		if col.List {
			return "", nil, fmt.Errorf("%w: %s on list column %s", ErrUnsupported, e.Op, e.Field)
		}
		if len(e.Values) == 0 {
			if e.Op == filter.OpIn {
				return "1=0", nil, nil
			}
			return "1=1", nil, nil
		}
		if e.Op == filter.OpIn {
			return nullAs(col, col.Name+" IN ("+placeholders(len(e.Values))+")", false), e.Values, nil
		}
		return nullAs(col, col.Name+" NOT IN ("+placeholders(len(e.Values))+")", true), e.Values, nil

	case filter.OpGte, filter.OpLt:
		if col.List {
			return "", nil, fmt.Errorf("%w: %s on list column %s", ErrUnsupported, e.Op, e.Field)
		}
		op := " >= ?"
		if e.Op == filter.OpLt {
			op = " < ?"
		}
		return nullAs(col, col.Name+op, false), []any{e.Value}, nil

	case filter.OpOverlaps:
		if !col.List {
			return "", nil, fmt.Errorf("%w: %s on scalar column %s", ErrUnsupported, e.Op, e.Field)
		}
		if len(e.Values) == 0 {
			return "1=0", nil, nil
		}
		return nullAs(col, "list_has_any("+col.Name+", CAST(["+placeholders(len(e.Values))+"] AS VARCHAR[]))", false), e.Values, nil

	case filter.OpSizeGte:
		if !col.List {
			return "", nil, fmt.Errorf("%w: %s on scalar column %s", ErrUnsupported, e.Op, e.Field)
		}
		return nullAs(col, "len("+col.Name+") >= ?", false), []any{e.Value}, nil
	}

	return "", nil, fmt.Errorf("%w: %s", ErrUnsupported, e.Op)
}

// nullAs wraps a comparison on a nullable column so NULL yields the given value.
func nullAs(col Column, clause string, value bool) string {
	if !col.Nullable {
		return clause
	}
	if value {
		return "coalesce(" + clause + ", TRUE)"
	}
	return "coalesce(" + clause + ", FALSE)"
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}

// OrderBy renders an ORDER BY clause without the keyword. Returns "" for no order.
func OrderBy(t Table, order []filter.Order) (string, error) {
	if len(order) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(order))
	for _, o := range order {
		if o.Random {
			parts = append(parts, "random()")
			continue
		}
		col, err := t.column(o.Field)
		if err != nil {
			return "", err
		}
		if col.List {
			return "", fmt.Errorf("%w: order by list column %s", ErrUnsupported, o.Field)
		}
		dir := " ASC"
		if o.Desc {
			dir = " DESC"
		}
		parts = append(parts, col.Name+dir+" NULLS LAST")
	}
	return strings.Join(parts, ", "), nil
}

// Select builds a complete SELECT over t. A non-positive limit omits LIMIT.
func Select(t Table, columns string, where filter.Expr, order []filter.Order, limit int) (string, []any, error) {
	wb := NewWhereBuilder(t)
	if err := wb.Add(where); err != nil {
		return "", nil, err
	}
	whereClause, args := wb.Build()

	orderClause, err := OrderBy(t, order)
	if err != nil {
		return "", nil, err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s FROM %s WHERE %s", columns, t.Name, whereClause)
	if orderClause != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(orderClause)
	}
	if limit > 0 {
		sb.WriteString(" LIMIT ?")
		args = append(args, limit)
	}
	return sb.String(), args, nil
}
