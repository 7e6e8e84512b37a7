package translate

import "strings"

// buildProjection turns the raw field-list text into a projection document.
// It never fails: empty input and "*" both mean every field, and anything
// unrecognizable degrades to whatever names survive the split. The "_id"
// field is always suppressed so both backends return comparable rows.
func buildProjection(fields string) map[string]int {
	proj := map[string]int{"_id": 0}

	fields = strings.TrimSpace(fields)
	if fields == "" || fields == "*" {
		return proj
	}

	// Parentheses are dropped wholesale so "(a, b)" reads as "a, b".
	fields = strings.ReplaceAll(fields, "(", "")
	fields = strings.ReplaceAll(fields, ")", "")

	for _, part := range strings.Split(fields, ",") {
		name := strings.TrimSpace(part)
		if name == "" || strings.EqualFold(name, "SELECT") {
			continue
		}
		proj[name] = 1
	}
	return proj
}
