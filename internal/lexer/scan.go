package lexer

import (
	"meta/internal/diag"
	"meta/internal/token"
)

func (lx *Lexer) scanSymbol() token.Token {
	start, line := lx.cursor.Mark(), lx.line
	lx.cursor.Bump()
	for isIdentContinue(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	return lx.emit(token.Symbol, start, line)
}

// Числа не интерпретируются: тело: буквы, цифры и точки.
func (lx *Lexer) scanNumber() token.Token {
	start, line := lx.cursor.Mark(), lx.line
	lx.cursor.Bump()
	for {
		b := lx.cursor.Peek()
		if !isAlnum(b) && b != '.' {
			break
		}
		lx.cursor.Bump()
	}
	return lx.emit(token.Number, start, line)
}

func (lx *Lexer) scanString() token.Token {
	start, line := lx.cursor.Mark(), lx.line
	lx.cursor.Bump() // opening '"'
	for !lx.cursor.EOF() {
		b := lx.cursor.Bump()
		switch b {
		case '"':
			return lx.emit(token.String, start, line)
		case '\\':
			// экранированный байт, в том числе \"
			if lx.cursor.Peek() == '\n' {
				lx.line++
			}
			lx.cursor.Bump()
		case '\n':
			lx.line++
		}
	}
	tok := lx.emit(token.String, start, line)
	lx.errLex(diag.LexUnterminatedString, tok.Span, line, "Unterminated string literal")
	return tok
}

func (lx *Lexer) scanComment() token.Token {
	start, line := lx.cursor.Mark(), lx.line
	lx.cursor.Bump() // '/'
	if lx.cursor.Bump() == '/' {
		for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
			lx.cursor.Bump()
		}
		return lx.emit(token.Comment, start, line)
	}
	for !lx.cursor.EOF() {
		if lx.cursor.HasPrefix("*/") {
			lx.cursor.Bump()
			lx.cursor.Bump()
			return lx.emit(token.Comment, start, line)
		}
		if lx.cursor.Bump() == '\n' {
			lx.line++
		}
	}
	tok := lx.emit(token.Comment, start, line)
	lx.errLex(diag.LexUnterminatedBlockComment, tok.Span, line, "Unterminated block comment")
	return tok
}

// scanPreprocessor reads up to the end of the logical line: a '\' right
// before the newline continues the directive on the next physical line.
func (lx *Lexer) scanPreprocessor() token.Token {
	start, line := lx.cursor.Mark(), lx.line
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '\n' {
			break
		}
		if b == '\\' && (lx.cursor.PeekAt(1) == '\n' || (lx.cursor.PeekAt(1) == '\r' && lx.cursor.PeekAt(2) == '\n')) {
			lx.cursor.Bump()
			if lx.cursor.Peek() == '\r' {
				lx.cursor.Bump()
			}
			lx.cursor.Bump()
			lx.line++
			continue
		}
		lx.cursor.Bump()
	}
	return lx.emit(token.Preprocessor, start, line)
}

func (lx *Lexer) scanMetaNote() token.Token {
	start, line := lx.cursor.Mark(), lx.line
	lx.cursor.Bump() // '@'
	for isIdentContinue(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	return lx.emit(token.MetaNote, start, line)
}

// Жадность: token.Literals отсортирован от длинных к коротким.
func (lx *Lexer) scanLiteral() token.Token {
	start, line := lx.cursor.Mark(), lx.line
	for _, lit := range token.Literals {
		if lx.cursor.HasPrefix(lit.Text) {
			for range len(lit.Text) {
				lx.cursor.Bump()
			}
			return lx.emit(lit.Kind, start, line)
		}
	}
	lx.cursor.Bump()
	return lx.emit(token.Unknown, start, line)
}
