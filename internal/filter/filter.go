// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

// Package filter provides a small, store-agnostic predicate language for
// content and user lookups.
//
// Predicates are plain values. Stores translate them into their own query
// dialect (see database/query for the DuckDB compiler) and in-memory
// implementations evaluate them with Match.
//
//	where := filter.And(
//	    filter.Eq("archived", false),
//	    filter.Ne("author_id", userID),
//	    filter.Or(
//	        filter.In("author_id", following...),
//	        filter.Overlaps("keywords", tags...),
//	    ),
//	)
package filter

import (
	"fmt"
	"strings"
	"time"
)

// Op identifies the kind of a predicate node.
type Op int

const (
	// OpAnd is true when every child is true. An empty And is true.
	OpAnd Op = iota
	// OpOr is true when any child is true. An empty Or is false.
	OpOr
	// OpNot negates its single child.
	OpNot
	// OpEq compares a field with a scalar value.
	OpEq
	// OpNe is the negation of OpEq.
	OpNe
	// OpIn is set membership. An empty set matches nothing.
	OpIn
	// OpNotIn is set exclusion. An empty set excludes nothing.
	OpNotIn
	// OpGte is an inclusive lower bound on a numeric or time field.
	OpGte
	// OpLt is an exclusive upper bound on a numeric or time field.
	OpLt
	// OpOverlaps is true when a list field shares at least one element with the values.
	OpOverlaps
	// OpSizeGte is a lower bound on the length of a list field.
	OpSizeGte
)

// String returns a human-readable name for the operator.
func (o Op) String() string {
	switch o {
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	case OpNot:
		return "not"
	case OpEq:
		return "eq"
	case OpNe:
		return "ne"
	case OpIn:
		return "in"
	case OpNotIn:
		return "not_in"
	case OpGte:
		return "gte"
	case OpLt:
		return "lt"
	case OpOverlaps:
		return "overlaps"
	case OpSizeGte:
		return "size_gte"
	default:
		return "unknown"
	}
}

// Expr is a node in a predicate tree.
//
// Leaf nodes carry Field and either Value or Values. Combinators carry
// Children. The zero Expr is an empty And and matches everything.
type Expr struct {
	Op       Op
	Field    string
	Value    any
	Values   []any
	Children []Expr
}

// All returns a predicate that matches every record.
func All() Expr {
	return Expr{Op: OpAnd}
}

// And combines predicates with logical conjunction.
func And(children ...Expr) Expr {
	return Expr{Op: OpAnd, Children: children}
}

// Or combines predicates with logical disjunction.
func Or(children ...Expr) Expr {
	return Expr{Op: OpOr, Children: children}
}

// Not negates a predicate.
func Not(child Expr) Expr {
	return Expr{Op: OpNot, Children: []Expr{child}}
}

// Eq matches records whose field equals value.
func Eq(field string, value any) Expr {
	return Expr{Op: OpEq, Field: field, Value: value}
}

// Ne matches records whose field differs from value.
func Ne(field string, value any) Expr {
	return Expr{Op: OpNe, Field: field, Value: value}
}

// In matches records whose field is one of values.
func In[T any](field string, values ...T) Expr {
	return Expr{Op: OpIn, Field: field, Values: toAny(values)}
}

// NotIn matches records whose field is none of values.
func NotIn[T any](field string, values ...T) Expr {
	return Expr{Op: OpNotIn, Field: field, Values: toAny(values)}
}

// Gte matches records whose field is at least value.
func Gte(field string, value any) Expr {
	return Expr{Op: OpGte, Field: field, Value: value}
}

// Lt matches records whose field is strictly below value.
func Lt(field string, value any) Expr {
	return Expr{Op: OpLt, Field: field, Value: value}
}

// Between matches records whose time field lies in [from, to).
func Between(field string, from, to time.Time) Expr {
	return And(Gte(field, from), Lt(field, to))
}

// Overlaps matches records whose list field shares an element with values.
func Overlaps(field string, values ...string) Expr {
	return Expr{Op: OpOverlaps, Field: field, Values: toAny(values)}
}

// SizeGte matches records whose list field has at least n elements.
func SizeGte(field string, n int) Expr {
	return Expr{Op: OpSizeGte, Field: field, Value: n}
}

// String renders the predicate for logs and test failures.
func (e Expr) String() string {
	switch e.Op {
	case OpAnd, OpOr:
		parts := make([]string, len(e.Children))
		for i, c := range e.Children {
			parts[i] = c.String()
		}
		return fmt.Sprintf("%s(%s)", e.Op, strings.Join(parts, ", "))
	case OpNot:
		if len(e.Children) == 0 {
			return "not()"
		}
		return fmt.Sprintf("not(%s)", e.Children[0])
	case OpIn, OpNotIn, OpOverlaps:
		return fmt.Sprintf("%s %s %v", e.Field, e.Op, e.Values)
	default:
		return fmt.Sprintf("%s %s %v", e.Field, e.Op, e.Value)
	}
}

// Order describes one sort key.
type Order struct {
	Field string
	Desc  bool
	// Random requests a random order; Field and Desc are ignored.
	Random bool
}

// Asc sorts ascending by field.
func Asc(field string) Order {
	return Order{Field: field}
}

// Desc sorts descending by field.
func Desc(field string) Order {
	return Order{Field: field, Desc: true}
}

// Random requests records in random order.
func Random() Order {
	return Order{Random: true}
}

func toAny[T any](values []T) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
