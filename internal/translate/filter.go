package translate

import (
	"strconv"
	"strings"
)

// translateWhere converts the WHERE token span into a filter document. Only
// flat conjunctions of =, >, and < survive; every other fragment lands in
// the returned dropped list instead of an error. Later conditions on the
// same field overwrite earlier ones.
func translateWhere(span []Token) (map[string]any, []string) {
	filter := map[string]any{}
	var dropped []string

	flat := joinTexts(span)
	if strings.TrimSpace(flat) == "" {
		return filter, nil
	}

	// A plain substring split on "AND", exactly as tokenized. A lowercase
	// "and" does not split, and a value containing "AND" splits too; both
	// fragments then degrade below.
	for _, cond := range strings.Split(flat, "AND") {
		trimmed := strings.TrimSpace(cond)
		if trimmed == "" {
			continue
		}

		parts := strings.Fields(cond)
		if len(parts) < 3 {
			dropped = append(dropped, trimmed)
			continue
		}
		field, op := parts[0], parts[1]
		value := coerceValue(unquote(strings.Join(parts[2:], " ")))

		switch op {
		case "=":
			filter[field] = value
		case ">":
			filter[field] = map[string]any{"$gt": value}
		case "<":
			filter[field] = map[string]any{"$lt": value}
		default:
			dropped = append(dropped, trimmed)
		}
	}
	return filter, dropped
}

// unquote strips one leading and one trailing quote character of each kind.
// Unmatched quotes are stripped too; this is not pair validation.
func unquote(s string) string {
	for _, q := range []string{"'", `"`} {
		s = strings.TrimPrefix(s, q)
		s = strings.TrimSuffix(s, q)
	}
	return s
}

// coerceValue maps the textual value to int, then float64 when it carries a
// dot, and falls back to the raw string. "1.2.3" stays a string because the
// float parse fails.
func coerceValue(s string) any {
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
		return s
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return s
}
