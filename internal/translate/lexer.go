package translate

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenKind classifies a lexeme.
type TokenKind int

const (
	// KindKeyword is a reserved word such as SELECT, FROM, or WHERE.
	KindKeyword TokenKind = iota + 1
	// KindIdentifier is a bare word that is not a keyword, like a
	// collection or field name.
	KindIdentifier
	// KindNumber is a numeric lexeme like 1 or 3.14.
	KindNumber
	// KindString is a quoted value. The quotes are kept in Text.
	KindString
	// KindOperator is a run of comparison characters like =, >, or >=.
	KindOperator
	// KindSeparator is punctuation such as "(", ",", ";", or "*".
	KindSeparator
	// KindWhitespace is a run of spaces, tabs, or newlines.
	KindWhitespace
)

// Token is a single lexeme. Text is the literal input text except for
// whitespace, which collapses to a single space.
type Token struct {
	Kind TokenKind
	Text string
}

// IsWhitespace reports whether the token is a whitespace run.
func (t Token) IsWhitespace() bool {
	return t.Kind == KindWhitespace
}

var keywords = []string{
	"SELECT",
	"FROM",
	"WHERE",
	"AND",
	"LIMIT",
	"OFFSET",
}

func isKeyword(w string) bool {
	for _, k := range keywords {
		if strings.EqualFold(w, k) {
			return true
		}
	}
	return false
}

type lexer struct {
	src   string
	start int
	pos   int
}

// Lex splits src into tokens. Every input byte is covered by some token, so
// malformed input still tokenizes; classification never fails.
func Lex(src string) []Token {
	l := &lexer{src: src}
	var out []Token
	for {
		t, ok := l.scan()
		if !ok {
			return out
		}
		out = append(out, t)
	}
}

func (l *lexer) scan() (Token, bool) {
	l.start = l.pos
	r := l.peek()
	switch {
	case r == 0:
		return Token{}, false
	case isSpace(r):
		return l.scanWhitespace(), true
	case unicode.IsLetter(r) || r == '_':
		return l.scanWord(), true
	case unicode.IsDigit(r):
		return l.scanNumber(), true
	case r == '\'' || r == '"':
		return l.scanString(r), true
	case isOperatorRune(r):
		return l.scanOperator(), true
	}
	// Anything else is a single-rune separator. "*" lands here too.
	l.next()
	return Token{Kind: KindSeparator, Text: l.text()}, true
}

func (l *lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.pos:])
	return r
}

func (l *lexer) next() {
	_, w := utf8.DecodeRuneInString(l.src[l.pos:])
	l.pos += w
}

func (l *lexer) text() string {
	return l.src[l.start:l.pos]
}

func (l *lexer) scanWhitespace() Token {
	for isSpace(l.peek()) {
		l.next()
	}
	return Token{Kind: KindWhitespace, Text: " "}
}

func (l *lexer) scanWord() Token {
	for r := l.peek(); unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'; r = l.peek() {
		l.next()
	}
	word := l.text()
	if isKeyword(word) {
		return Token{Kind: KindKeyword, Text: word}
	}
	return Token{Kind: KindIdentifier, Text: word}
}

// scanNumber consumes digits and dots in one run, so "3.14" is a single
// token. Shapes like "1.2.3" stay one token as well and fall through the
// numeric coercion later as plain strings.
func (l *lexer) scanNumber() Token {
	for r := l.peek(); unicode.IsDigit(r) || r == '.'; r = l.peek() {
		l.next()
	}
	return Token{Kind: KindNumber, Text: l.text()}
}

// scanString consumes a quoted run including both quotes. An unterminated
// literal runs to the end of input.
func (l *lexer) scanString(quote rune) Token {
	l.next()
	for r := l.peek(); r != 0 && r != quote; r = l.peek() {
		l.next()
	}
	if l.peek() == quote {
		l.next()
	}
	return Token{Kind: KindString, Text: l.text()}
}

func (l *lexer) scanOperator() Token {
	for isOperatorRune(l.peek()) {
		l.next()
	}
	return Token{Kind: KindOperator, Text: l.text()}
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func isOperatorRune(r rune) bool {
	return r == '=' || r == '<' || r == '>' || r == '!'
}
