package parser

import (
	"meta/internal/diag"
	"meta/internal/token"
	"meta/internal/types"
)

// parseIntrospect handles @Introspect on a typedef or a function declaration.
func parseIntrospect(w *window) bool {
	if w.peek().Is("typedef") {
		w.advance()
		return w.parseTypedef()
	}
	return w.parseFunction()
}

// parseTypedef: typedef после ключевого слова
func (w *window) parseTypedef() bool {
	if kw, ok := w.taggedBody(); ok {
		switch kw.Text {
		case "struct":
			return w.parseStructTypedef()
		default:
			w.p.errorAt(diag.SynNotImplemented, kw, "typedef %s is not implemented", kw.Text)
			return false
		}
	}

	ref, ok := w.parseTypeRef(true)
	if !ok {
		return false
	}
	alias, ok := w.expect(token.Symbol)
	if !ok {
		return false
	}
	if _, ok := w.expect(token.Semicolon); !ok {
		return false
	}
	if ref.stars == 0 && alias.Text == ref.base.Text {
		return true
	}
	return w.define(alias, types.Typedef(ref.id))
}

// taggedBody reports whether the window continues with
// (struct|union|enum) [tag] '{'.
func (w *window) taggedBody() (token.Token, bool) {
	fork := &window{p: w.p, lx: w.lx.Fork()}
	kw := fork.advance()
	if !kw.Is("struct") && !kw.Is("union") && !kw.Is("enum") {
		return kw, false
	}
	next := fork.advance()
	if next.Kind == token.Symbol {
		next = fork.advance()
	}
	return kw, next.Kind == token.LBrace
}

// parseStructTypedef parses struct [tag] { members } alias ;
// With a tag the struct is named by the tag and alias becomes a typedef of
// it; without one the struct takes the alias name directly.
func (w *window) parseStructTypedef() bool {
	w.advance() // struct
	var tag token.Token
	hasTag := w.at(token.Symbol)
	if hasTag {
		tag = w.advance()
	}
	if _, ok := w.expect(token.LBrace); !ok {
		return false
	}
	members, ok := w.parseMembers()
	if !ok {
		return false
	}
	alias, ok := w.expect(token.Symbol)
	if !ok {
		return false
	}
	if _, ok := w.expect(token.Semicolon); !ok {
		return false
	}

	table := w.p.ctx.Types
	name := alias
	if hasTag {
		name = tag
	}
	info := types.Struct(table.AddMembers(members))
	if hasTag && tag.Text != alias.Text {
		info.Tag = "struct"
	}
	if !w.define(name, info) {
		return false
	}
	if !hasTag || tag.Text == alias.Text {
		return true
	}
	structID, _ := table.Lookup(tag.Text)
	return w.define(alias, types.Typedef(structID))
}

// parseMembers reads member declarations up to and including the closing '}'.
func (w *window) parseMembers() ([]types.StructMember, bool) {
	var members []types.StructMember
	for !w.eat(token.RBrace) {
		ref, ok := w.parseTypeRef(false)
		if !ok {
			return nil, false
		}
		for first := true; ; first = false {
			member := ref
			if !first {
				member.stars = w.parseStars()
			}
			if !w.declare(&member) {
				return nil, false
			}
			name, ok := w.expect(token.Symbol)
			if !ok {
				return nil, false
			}
			if br := w.peek(); br.Kind == token.LBracket {
				w.p.errorAt(diag.SynNotImplemented, br, "array member %s is not implemented", name.Text)
				return nil, false
			}
			members = append(members, types.StructMember{Type: member.id, Name: name.Text})
			if !w.eat(token.Comma) {
				break
			}
		}
		if _, ok := w.expect(token.Semicolon); !ok {
			return nil, false
		}
	}
	return members, true
}

// signature is a parsed function declaration.
type signature struct {
	ret  typeRef
	name token.Token
	args []types.FunctionArg
}

// parseSignature reads ret name ( args ) followed by ';' or '{'.
// Argument names are optional and (void) declares no arguments.
func (w *window) parseSignature(declare bool) (signature, bool) {
	var sig signature
	var ok bool
	if sig.ret, ok = w.parseTypeRef(declare); !ok {
		return sig, false
	}
	if sig.name, ok = w.expect(token.Symbol); !ok {
		return sig, false
	}
	if _, ok = w.expect(token.LParen); !ok {
		return sig, false
	}
	if next, after := w.peek2(); next.Is("void") && after.Kind == token.RParen {
		w.advance()
	}
	for !w.eat(token.RParen) {
		if len(sig.args) > 0 {
			if _, ok = w.expect(token.Comma); !ok {
				return sig, false
			}
		}
		ref, ok := w.parseTypeRef(declare)
		if !ok {
			return sig, false
		}
		arg := types.FunctionArg{Type: ref.id}
		if w.at(token.Symbol) {
			arg.Name = w.advance().Text
		}
		sig.args = append(sig.args, arg)
	}
	switch end := w.advance(); end.Kind {
	case token.Semicolon, token.LBrace:
		return sig, true
	default:
		w.p.errorAt(diag.SynUnexpectedToken, end, "Expected %s but got %s", token.Semicolon, end.Kind)
		return sig, false
	}
}

// parseFunction records a Function descriptor for the declaration.
func (w *window) parseFunction() bool {
	sig, ok := w.parseSignature(true)
	if !ok {
		return false
	}
	table := w.p.ctx.Types
	args := table.AddArgs(sig.args)
	return w.define(sig.name, types.Function(sig.ret.id, args, w.p.file.Path))
}

// define promotes or inserts name and records its declaration site.
func (w *window) define(name token.Token, info types.TypeInfo) bool {
	table := w.p.ctx.Types
	id, err := table.Define(name.Text, info)
	if err != nil {
		w.p.errorAt(diag.SemaRedefinition, name, "%v", err)
		return false
	}
	table.SetDecl(id, w.p.file.Path, name.Line)
	return true
}
