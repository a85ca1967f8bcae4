// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

package filter

import (
	"strings"
	"time"
)

// Record exposes named fields to the in-memory evaluator.
type Record interface {
	// Field returns the value of the named field and whether it exists.
	Field(name string) (any, bool)
}

// Fields is a map-backed Record.
type Fields map[string]any

// Field implements Record.
func (f Fields) Field(name string) (any, bool) {
	v, ok := f[name]
	return v, ok
}

// Match evaluates the predicate against a record.
//
// Missing fields never match a leaf, except under NotIn and Ne where a
// missing value is treated as "not equal".
func Match(e Expr, r Record) bool {
	switch e.Op {
	case OpAnd:
		for _, c := range e.Children {
			if !Match(c, r) {
				return false
			}
		}
		return true
	case OpOr:
		for _, c := range e.Children {
			if Match(c, r) {
				return true
			}
		}
		return false
	case OpNot:
		if len(e.Children) == 0 {
			return false
		}
		return !Match(e.Children[0], r)
	}

	v, ok := r.Field(e.Field)

	switch e.Op {
	case OpEq:
		return ok && equal(v, e.Value)
	case OpNe:
		return !ok || !equal(v, e.Value)
	case OpIn:
		return ok && containsAny(e.Values, v)
	case OpNotIn:
		return !ok || !containsAny(e.Values, v)
	case OpGte:
		c, cmpOK := compare(v, e.Value)
		return ok && cmpOK && c >= 0
	case OpLt:
		c, cmpOK := compare(v, e.Value)
		return ok && cmpOK && c < 0
	case OpOverlaps:
		list, isList := v.([]string)
		if !ok || !isList {
			return false
		}
		for _, item := range list {
			if containsAny(e.Values, item) {
				return true
			}
		}
		return false
	case OpSizeGte:
		n, _ := e.Value.(int)
		switch list := v.(type) {
		case []string:
			return ok && len(list) >= n
		case []any:
			return ok && len(list) >= n
		}
		return false
	}
	return false
}

func containsAny(values []any, v any) bool {
	for _, candidate := range values {
		if equal(candidate, v) {
			return true
		}
	}
	return false
}

func equal(a, b any) bool {
	if as, ok := a.(string); ok {
		bs, ok := b.(string)
		return ok && as == bs
	}
	if at, ok := a.(time.Time); ok {
		bt, ok := b.(time.Time)
		return ok && at.Equal(bt)
	}
	if af, ok := toFloat(a); ok {
		bf, ok := toFloat(b)
		return ok && af == bf
	}
	return a == b
}

// compare returns -1, 0 or 1 and whether the values were comparable.
func compare(a, b any) (int, bool) {
	if at, ok := a.(time.Time); ok {
		bt, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		return at.Compare(bt), true
	}
	if as, ok := a.(string); ok {
		bs, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(as, bs), true
	}
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if !aok || !bok {
		return 0, false
	}
	switch {
	case af < bf:
		return -1, true
	case af > bf:
		return 1, true
	default:
		return 0, true
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
