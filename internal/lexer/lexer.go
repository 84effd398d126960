package lexer

import (
	"meta/internal/source"
	"meta/internal/token"
)

// Lexer scans one file buffer on demand.
//
// A Lexer is a plain value: copying it yields an independent scanner at the
// same position. Peek and Fork rely on that, so the struct must not grow any
// shared mutable state.
type Lexer struct {
	file   *source.File
	cursor Cursor
	line   uint32
	opts   Options
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		line:   1,
		opts:   opts,
	}
}

// File returns the file being scanned.
func (lx *Lexer) File() *source.File {
	return lx.file
}

// Line returns the current line counter.
func (lx *Lexer) Line() uint32 {
	return lx.line
}

// Next returns the next token. After End it keeps returning End.
func (lx *Lexer) Next() token.Token {
	lx.skipSpace()
	if lx.cursor.EOF() {
		return token.Token{Kind: token.End, Span: lx.emptySpan(), Line: lx.line}
	}

	ch := lx.cursor.Peek()
	switch {
	case isIdentStart(ch):
		return lx.scanSymbol()
	case isDec(ch), ch == '.' && isDec(lx.cursor.PeekAt(1)):
		return lx.scanNumber()
	case ch == '"':
		return lx.scanString()
	case ch == '/' && (lx.cursor.PeekAt(1) == '/' || lx.cursor.PeekAt(1) == '*'):
		return lx.scanComment()
	case ch == '#':
		return lx.scanPreprocessor()
	case ch == '@' && isIdentStart(lx.cursor.PeekAt(1)):
		return lx.scanMetaNote()
	default:
		return lx.scanLiteral()
	}
}

// Peek returns the next token without moving the live cursor. It runs Next
// on a copy; lexical errors are reported only when the live scanner gets there.
func (lx *Lexer) Peek() token.Token {
	cp := *lx
	cp.opts.Reporter = nil
	return cp.Next()
}

// Fork returns an independent copy positioned at the current token boundary.
// Annotation handlers parse their window on a fork so the driver's cursor
// stays right after the note.
func (lx *Lexer) Fork() *Lexer {
	cp := *lx
	cp.opts.Reporter = nil
	return &cp
}

func (lx *Lexer) skipSpace() {
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if !isSpace(b) {
			return
		}
		if b == '\n' {
			lx.line++
		}
		lx.cursor.Bump()
	}
}

func (lx *Lexer) emptySpan() source.Span {
	return source.At(lx.file.ID, lx.cursor.Off)
}

func (lx *Lexer) emit(k token.Kind, start Mark, line uint32) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{
		Kind: k,
		Span: sp,
		Line: line,
		Text: string(lx.file.Content[sp.Start:sp.End]),
	}
}
