package parser

import (
	"bytes"

	"meta/internal/diag"
	"meta/internal/lexer"
	"meta/internal/registry"
	"meta/internal/source"
	"meta/internal/token"
	"meta/internal/types"
)

// Context is the process-wide state one meta run mutates: the type table
// (with its arenas) and the command registry.
type Context struct {
	Types    *types.Table
	Commands *registry.Registry
}

// NewContext returns a fresh context with a seeded type table.
func NewContext() *Context {
	return &Context{
		Types:    types.NewTable(source.NewInterner()),
		Commands: registry.New(),
	}
}

type Options struct {
	Reporter diag.Reporter
}

// Result is the outcome of scanning one file.
type Result struct {
	// Output is the file content with every handled note blanked by spaces.
	Output []byte
	// Notes counts handled annotations.
	Notes int
	// Failed is set once an error has been reported.
	Failed bool
}

// Parser: состояние парсера на один файл
type Parser struct {
	ctx     *Context
	file    *source.File
	lx      *lexer.Lexer
	out     []byte
	opts    Options
	errors  int
	handled int
}

// ParseFile drives the scanner over file to completion. Tokens are ignored
// unless they are meta notes; each note is dispatched to its handler, which
// parses the declaration that follows on a fork of the scanner. Parsing stops
// at the first error.
func ParseFile(ctx *Context, file *source.File, opts Options) Result {
	p := &Parser{
		ctx:  ctx,
		file: file,
		out:  bytes.Clone(file.Content),
		opts: opts,
	}
	p.lx = lexer.New(file, lexer.Options{Reporter: reporterFunc(p.report)})
	p.run()
	return Result{Output: p.out, Notes: p.handled, Failed: p.errors > 0}
}

func (p *Parser) run() {
	for p.errors == 0 {
		tok := p.lx.Next()
		switch tok.Kind {
		case token.End:
			return
		case token.MetaNote:
			p.dispatch(tok)
		}
	}
}

func (p *Parser) dispatch(note token.Token) {
	handler, ok := lookupHandler(note.NoteName())
	if !ok {
		p.errorAt(diag.SynUnknownNote, note, "Unknown meta note %s", note.Text)
		return
	}
	w := &window{p: p, lx: p.lx.Fork(), last: note}
	if !handler(w) || p.errors > 0 {
		return
	}
	p.erase(note.Span)
	p.handled++
}

// erase overwrites sp with spaces; byte length and line structure stay intact.
func (p *Parser) erase(sp source.Span) {
	for i := sp.Start; i < sp.End; i++ {
		p.out[i] = ' '
	}
}

func (p *Parser) report(d diag.Diagnostic) {
	if d.Severity >= diag.SevError {
		p.errors++
	}
	if p.opts.Reporter != nil {
		p.opts.Reporter.Report(d)
	}
}

func (p *Parser) errorAt(code diag.Code, tok token.Token, format string, args ...any) {
	p.report(diag.Errorf(code, p.file.Path, tok.Line, tok.Span, format, args...))
}

type reporterFunc func(diag.Diagnostic)

func (f reporterFunc) Report(d diag.Diagnostic) { f(d) }
