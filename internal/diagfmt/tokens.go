package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mattn/go-runewidth"

	"meta/internal/source"
	"meta/internal/token"
)

type TokenOutput struct {
	Kind string      `json:"kind"`
	Text string      `json:"text,omitempty"`
	Line uint32      `json:"line"`
	Span source.Span `json:"span"`
}

const tokenTextWidth = 32

// FormatTokensPretty выводит токены в человекочитаемом формате
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, tok := range tokens {
		start, end := fs.Resolve(tok.Span)
		text := ""
		if tok.Text != "" {
			text = runewidth.Truncate(fmt.Sprintf("%q", tok.Text), tokenTextWidth, "...\"")
		}
		text = runewidth.FillRight(text, tokenTextWidth)
		if _, err := fmt.Fprintf(w, "%4d: %-12s %s at %d:%d-%d:%d\n",
			i+1, tok.Kind, text, start.Line, start.Col, end.Line, end.Col); err != nil {
			return err
		}
		if tok.Kind == token.End {
			break
		}
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		output = append(output, TokenOutput{
			Kind: tok.Kind.String(),
			Text: tok.Text,
			Line: tok.Line,
			Span: tok.Span,
		})
		if tok.Kind == token.End {
			break
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}
