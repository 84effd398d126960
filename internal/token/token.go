package token

import (
	"meta/internal/source"
)

// Token is a single lexical token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Line uint32 // 1-based line of the first byte
	Text string
}

// Is reports whether the token is a Symbol spelled exactly text.
func (t Token) Is(text string) bool {
	return t.Kind == Symbol && t.Text == text
}

// IsTrivia reports whether a parser skips the token inside a declaration.
func (t Token) IsTrivia() bool {
	return t.Kind == Comment
}

// NoteName returns the note body without the leading '@'.
func (t Token) NoteName() string {
	if t.Kind != MetaNote || len(t.Text) == 0 {
		return ""
	}
	return t.Text[1:]
}
