// Package translate turns a restricted SQL subset into a document-store
// query. The supported shape is
//
//	SELECT <fields> FROM <collection> [WHERE <cond> [AND <cond>]*] [LIMIT <n>] [OFFSET <n>]
//
// Anything the subset cannot express is absorbed rather than rejected: the
// translation degrades to a broader query and records what it dropped.
package translate

import (
	"strconv"
	"strings"
)

// Translation is the document-store form of a SQL statement. A Translation
// is immutable once built; callers must not modify the maps.
type Translation struct {
	// Collection is the target collection name, taken from the token after
	// FROM.
	Collection string

	// Projection maps field names to 1 for inclusion, with "_id" mapped to 0.
	// An all-fields selection carries only the "_id" suppression.
	Projection map[string]int

	// Filter is a conjunction of per-field constraints. Values are either
	// scalars (equality) or operator documents like {"$gt": 30}.
	Filter map[string]any

	// Limit and Offset are nil when the statement does not bound them or
	// when the bound fails to parse as a base-10 integer.
	Limit  *int
	Offset *int

	// Dropped lists WHERE fragments the translator absorbed without
	// translating: malformed conditions and unsupported operators.
	Dropped []string
}

// Translate converts one SQL statement. Statements after the first ";" are
// ignored. The only errors are ErrEmptyQuery, ErrMissingFrom, and
// ErrNoCollection; everything else degrades silently.
func Translate(sql string) (*Translation, error) {
	toks := stripWhitespace(firstStatement(Lex(sql)))
	if len(toks) == 0 {
		return nil, ErrEmptyQuery
	}

	selectIdx, fromIdx, whereIdx := -1, -1, -1
	limitIdx, offsetIdx := -1, -1
	var limit, offset *int

	// First occurrence wins for every clause keyword. Quoted occurrences
	// never collide because string tokens keep their quotes in Text.
	for i, t := range toks {
		switch {
		case strings.EqualFold(t.Text, "SELECT"):
			if selectIdx < 0 {
				selectIdx = i
			}
		case strings.EqualFold(t.Text, "FROM"):
			if fromIdx < 0 {
				fromIdx = i
			}
		case strings.EqualFold(t.Text, "WHERE"):
			if whereIdx < 0 {
				whereIdx = i
			}
		case strings.EqualFold(t.Text, "LIMIT"):
			if limitIdx < 0 {
				limitIdx = i
				limit = parseBound(toks, i)
			}
		case strings.EqualFold(t.Text, "OFFSET"):
			if offsetIdx < 0 {
				offsetIdx = i
				offset = parseBound(toks, i)
			}
		}
	}

	if fromIdx < 0 {
		return nil, ErrMissingFrom
	}
	if fromIdx+1 >= len(toks) {
		return nil, ErrNoCollection
	}

	tr := &Translation{
		Collection: toks[fromIdx+1].Text,
		Projection: buildProjection(fieldsText(toks, selectIdx, fromIdx)),
		Filter:     map[string]any{},
		Limit:      limit,
		Offset:     offset,
	}
	if whereIdx >= 0 {
		tr.Filter, tr.Dropped = translateWhere(whereSpan(toks, whereIdx, limitIdx, offsetIdx))
	}
	return tr, nil
}

// parseBound reads the token after a LIMIT or OFFSET keyword as a base-10
// integer. A missing or unparsable token leaves the bound unset.
func parseBound(toks []Token, keywordIdx int) *int {
	if keywordIdx+1 >= len(toks) {
		return nil
	}
	n, err := strconv.Atoi(toks[keywordIdx+1].Text)
	if err != nil {
		return nil
	}
	return &n
}

// fieldsText flattens the token span between SELECT and FROM into the raw
// field-list text. An empty result means "no explicit field list".
func fieldsText(toks []Token, selectIdx, fromIdx int) string {
	if selectIdx < 0 {
		return ""
	}
	end := len(toks)
	if fromIdx > selectIdx {
		end = fromIdx
	}
	return joinTexts(toks[selectIdx+1 : end])
}

// whereSpan returns the tokens of the WHERE clause: everything after the
// WHERE keyword up to the first LIMIT or OFFSET keyword, or the statement
// end.
func whereSpan(toks []Token, whereIdx, limitIdx, offsetIdx int) []Token {
	end := len(toks)
	if limitIdx > whereIdx && limitIdx < end {
		end = limitIdx
	}
	if offsetIdx > whereIdx && offsetIdx < end {
		end = offsetIdx
	}
	return toks[whereIdx+1 : end]
}

// firstStatement cuts the token stream at the first ";" separator. Later
// statements are ignored.
func firstStatement(toks []Token) []Token {
	for i, t := range toks {
		if t.Kind == KindSeparator && t.Text == ";" {
			return toks[:i]
		}
	}
	return toks
}

func stripWhitespace(toks []Token) []Token {
	out := make([]Token, 0, len(toks))
	for _, t := range toks {
		if !t.IsWhitespace() {
			out = append(out, t)
		}
	}
	return out
}

func joinTexts(toks []Token) string {
	parts := make([]string, len(toks))
	for i, t := range toks {
		parts[i] = t.Text
	}
	return strings.Join(parts, " ")
}
