package parser

import (
	"meta/internal/diag"
	"meta/internal/lexer"
	"meta/internal/token"
	"meta/internal/types"
)

// window is the bounded token range a handler consumes. It reads from a
// fork of the file scanner, so nothing it consumes is lost to the driver.
type window struct {
	p    *Parser
	lx   *lexer.Lexer
	last token.Token
}

// significant reports whether a handler sees tok. Comments, preprocessor
// lines and stacked notes between the note and its declaration are skipped.
func significant(tok token.Token) bool {
	switch tok.Kind {
	case token.Comment, token.Preprocessor, token.MetaNote:
		return false
	}
	return true
}

// advance: съедает следующий значимый токен
func (w *window) advance() token.Token {
	for {
		tok := w.lx.Next()
		if significant(tok) {
			w.last = tok
			return tok
		}
	}
}

func (w *window) peek() token.Token {
	fork := w.lx.Fork()
	for {
		tok := fork.Next()
		if significant(tok) {
			return tok
		}
	}
}

// peek2 returns the two significant tokens ahead.
func (w *window) peek2() (token.Token, token.Token) {
	fork := &window{p: w.p, lx: w.lx.Fork()}
	return fork.advance(), fork.advance()
}

func (w *window) at(k token.Kind) bool {
	return w.peek().Kind == k
}

// expect consumes a token of kind k or reports "Expected k but got X".
func (w *window) expect(k token.Kind) (token.Token, bool) {
	tok := w.advance()
	if tok.Kind != k {
		w.p.errorAt(diag.SynUnexpectedToken, tok, "Expected %s but got %s", k, tok.Kind)
		return tok, false
	}
	return tok, true
}

// eat consumes the next token when it has kind k.
func (w *window) eat(k token.Kind) bool {
	if w.at(k) {
		w.advance()
		return true
	}
	return false
}

// typeRef is a parsed type reference: a base name plus indirection.
type typeRef struct {
	base  token.Token
	tag   string // "struct" in "struct point*"
	stars int
	id    types.TypeID
}

// parseTypeRef reads [const] [struct] Symbol *... ; the struct keyword is
// kept on the descriptor so C casts can spell it. When declare is set the
// base is looked up or inserted as UNKNOWN, and pointer levels are derived.
func (w *window) parseTypeRef(declare bool) (typeRef, bool) {
	var tag string
	for {
		next, after := w.peek2()
		if next.Is("const") || next.Is("volatile") {
			w.advance()
			continue
		}
		if (next.Is("struct") || next.Is("union") || next.Is("enum")) && after.Kind == token.Symbol {
			tag = w.advance().Text
			continue
		}
		break
	}
	base, ok := w.expect(token.Symbol)
	if !ok {
		return typeRef{}, false
	}
	ref := typeRef{base: base, tag: tag}
	ref.stars = w.parseStars()
	if declare {
		return ref, w.declare(&ref)
	}
	return ref, true
}

// parseStars consumes '*' and trailing const qualifiers, returning the depth.
func (w *window) parseStars() int {
	n := 0
	for {
		switch next := w.peek(); {
		case next.Kind == token.Star:
			n++
		case next.Is("const"):
		default:
			return n
		}
		w.advance()
	}
}

func (w *window) declare(ref *typeRef) bool {
	table := w.p.ctx.Types
	ref.id = table.InsertUnknown(ref.base.Text)
	table.SetTag(ref.id, ref.tag)
	if ref.stars == 0 {
		return true
	}
	id, err := table.AddPointer(ref.base.Text, ref.stars)
	if err != nil {
		w.p.errorAt(diag.SemaMissingPointerBase, ref.base, "%v", err)
		return false
	}
	ref.id = id
	return true
}
