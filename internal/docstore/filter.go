package docstore

import (
	"fmt"
)

// Operator is a comparison operator in a filter document.
type Operator string

const (
	OpEq  Operator = "$eq"
	OpNe  Operator = "$ne"
	OpGt  Operator = "$gt"
	OpGte Operator = "$gte"
	OpLt  Operator = "$lt"
	OpLte Operator = "$lte"
	OpIn  Operator = "$in"
)

// matcher decides whether a document satisfies a parsed filter.
type matcher interface {
	Matches(doc Document) bool
}

// fieldMatcher constrains a single field.
type fieldMatcher struct {
	field string
	op    Operator
	value any
}

// logicalMatcher combines child matchers with $and or $or.
type logicalMatcher struct {
	op       string
	children []matcher
}

// parseFilter converts a Mongo-style filter map into a matcher tree.
//
//	{ "age": { "$gt": 25 }, "status": "active" }
//
// A nil or empty filter matches every document. Unknown operators are
// rejected here, before any document is touched.
func parseFilter(filter map[string]any) (matcher, error) {
	children := make([]matcher, 0, len(filter))

	for key, val := range filter {
		switch key {
		case "$and", "$or":
			list, ok := val.([]any)
			if !ok {
				return nil, fmt.Errorf("value for %s must be a list", key)
			}
			sub := make([]matcher, 0, len(list))
			for _, item := range list {
				m, ok := item.(map[string]any)
				if !ok {
					return nil, fmt.Errorf("element of %s must be an object", key)
				}
				child, err := parseFilter(m)
				if err != nil {
					return nil, err
				}
				sub = append(sub, child)
			}
			children = append(children, &logicalMatcher{op: key, children: sub})
		default:
			if opMap, ok := val.(map[string]any); ok {
				for op, opVal := range opMap {
					switch Operator(op) {
					case OpEq, OpNe, OpGt, OpGte, OpLt, OpLte, OpIn:
						children = append(children, &fieldMatcher{field: key, op: Operator(op), value: opVal})
					default:
						return nil, fmt.Errorf("unknown operator: %s", op)
					}
				}
			} else {
				// Implicit $eq.
				children = append(children, &fieldMatcher{field: key, op: OpEq, value: val})
			}
		}
	}

	return &logicalMatcher{op: "$and", children: children}, nil
}

func (m *fieldMatcher) Matches(doc Document) bool {
	val, exists := doc[m.field]
	if !exists {
		return false
	}
	return compare(val, m.op, m.value)
}

func (m *logicalMatcher) Matches(doc Document) bool {
	switch m.op {
	case "$and":
		for _, child := range m.children {
			if !child.Matches(doc) {
				return false
			}
		}
		return true
	case "$or":
		for _, child := range m.children {
			if child.Matches(doc) {
				return true
			}
		}
		return false
	}
	return false
}

// compare evaluates actual <op> expected. Equality goes through fmt value
// formatting so ints and float64s read back from JSON compare as expected;
// ordering goes through numeric comparison with a string fallback.
func compare(actual any, op Operator, expected any) bool {
	switch op {
	case OpEq:
		return fmt.Sprintf("%v", actual) == fmt.Sprintf("%v", expected)
	case OpNe:
		return fmt.Sprintf("%v", actual) != fmt.Sprintf("%v", expected)
	case OpGt:
		return compareValues(actual, expected) > 0
	case OpGte:
		return compareValues(actual, expected) >= 0
	case OpLt:
		return compareValues(actual, expected) < 0
	case OpLte:
		return compareValues(actual, expected) <= 0
	case OpIn:
		list, ok := expected.([]any)
		if !ok {
			return false
		}
		for _, item := range list {
			if fmt.Sprintf("%v", actual) == fmt.Sprintf("%v", item) {
				return true
			}
		}
		return false
	}
	return false
}

// compareValues returns -1, 0, or 1. Numbers compare numerically across int
// and float forms; anything else falls back to string comparison.
func compareValues(a, b any) int {
	f1, ok1 := toFloat(a)
	f2, ok2 := toFloat(b)
	if ok1 && ok2 {
		switch {
		case f1 > f2:
			return 1
		case f1 < f2:
			return -1
		default:
			return 0
		}
	}
	s1 := fmt.Sprintf("%v", a)
	s2 := fmt.Sprintf("%v", b)
	switch {
	case s1 > s2:
		return 1
	case s1 < s2:
		return -1
	default:
		return 0
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
