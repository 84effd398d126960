package lexer

import (
	"meta/internal/diag"
	"meta/internal/source"
)

// Options configures a Lexer.
type Options struct {
	// Reporter receives lexical errors. It may be nil: the scanner then keeps
	// going silently, which is what speculative copies do.
	Reporter diag.Reporter
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, line uint32, msg string) {
	if lx.opts.Reporter == nil {
		return
	}
	lx.opts.Reporter.Report(diag.Errorf(code, lx.file.Path, line, sp, "%s", msg))
}
