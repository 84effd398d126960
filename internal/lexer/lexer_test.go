package lexer_test

import (
	"testing"

	"meta/internal/diag"
	"meta/internal/lexer"
	"meta/internal/source"
	"meta/internal/token"
)

// testReporter собирает все диагностики, полученные от лексера
type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(d diag.Diagnostic) {
	r.diagnostics = append(r.diagnostics, d)
}

func makeTestLexer(input string) (*lexer.Lexer, *testReporter) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.h", []byte(input)))
	reporter := &testReporter{}
	return lexer.New(file, lexer.Options{Reporter: reporter}), reporter
}

func collectAllTokens(lx *lexer.Lexer) []token.Token {
	var tokens []token.Token
	for {
		tok := lx.Next()
		if tok.Kind == token.End {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

func expectTokens(t *testing.T, input string, expected ...token.Kind) []token.Token {
	t.Helper()
	lx, reporter := makeTestLexer(input)
	tokens := collectAllTokens(lx)
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d: %v (diags %v)", len(expected), len(tokens), tokens, reporter.diagnostics)
	}
	for i, tok := range tokens {
		if tok.Kind != expected[i] {
			t.Errorf("token %d: expected %v, got %v (text %q)", i, expected[i], tok.Kind, tok.Text)
		}
	}
	return tokens
}

func TestTypedefWithNote(t *testing.T) {
	toks := expectTokens(t, "@Introspect typedef char*** Trip;",
		token.MetaNote, token.Symbol, token.Symbol, token.Star, token.Star, token.Star, token.Symbol, token.Semicolon)
	if toks[0].NoteName() != "Introspect" {
		t.Errorf("note name %q", toks[0].NoteName())
	}
	if toks[0].Span.Start != 0 || toks[0].Span.End != uint32(len("@Introspect")) {
		t.Errorf("note span %v", toks[0].Span)
	}
}

func TestPunctuationLongestMatch(t *testing.T) {
	expectTokens(t, "a->b - c = {[()]},.",
		token.Symbol, token.Arrow, token.Symbol, token.Unknown, token.Symbol, token.Assign,
		token.LBrace, token.LBracket, token.LParen, token.RParen, token.RBracket, token.RBrace,
		token.Comma, token.Dot)
}

func TestNumbers(t *testing.T) {
	cases := []struct {
		in   string
		text string
	}{
		{"42", "42"},
		{"0x1Fu", "0x1Fu"},
		{".5f", ".5f"},
		{"1.25", "1.25"},
	}
	for _, tc := range cases {
		toks := expectTokens(t, tc.in, token.Number)
		if toks[0].Text != tc.text {
			t.Errorf("%q: text %q", tc.in, toks[0].Text)
		}
	}
	// одиночная точка без цифры: это Dot
	expectTokens(t, ". x", token.Dot, token.Symbol)
}

func TestStringsAndEscapes(t *testing.T) {
	toks := expectTokens(t, `"a \"quoted\" word" x`, token.String, token.Symbol)
	if toks[0].Text != `"a \"quoted\" word"` {
		t.Errorf("string text %q", toks[0].Text)
	}
}

func TestCommentsCountLines(t *testing.T) {
	toks := expectTokens(t, "// one\n/* two\nthree */ x\ny",
		token.Comment, token.Comment, token.Symbol, token.Symbol)
	if toks[1].Line != 2 {
		t.Errorf("block comment line %d", toks[1].Line)
	}
	if toks[2].Line != 3 || toks[3].Line != 4 {
		t.Errorf("symbol lines %d %d", toks[2].Line, toks[3].Line)
	}
}

func TestPreprocessorContinuation(t *testing.T) {
	toks := expectTokens(t, "#define X(a) \\\n  (a)\nint",
		token.Preprocessor, token.Symbol)
	if toks[0].Text != "#define X(a) \\\n  (a)" {
		t.Errorf("directive text %q", toks[0].Text)
	}
	if toks[1].Line != 3 {
		t.Errorf("line after continuation %d", toks[1].Line)
	}
}

func TestUnknownBytesAdvance(t *testing.T) {
	toks := expectTokens(t, "$ @ 1", token.Unknown, token.Unknown, token.Number)
	if toks[0].Span.Len() != 1 || toks[1].Text != "@" {
		t.Errorf("unexpected unknown tokens %v", toks)
	}
}

func TestUnterminatedReported(t *testing.T) {
	for _, in := range []string{`"open`, "/* open"} {
		lx, reporter := makeTestLexer(in)
		collectAllTokens(lx)
		if len(reporter.diagnostics) != 1 {
			t.Fatalf("%q: expected one diagnostic, got %v", in, reporter.diagnostics)
		}
		d := reporter.diagnostics[0]
		if d.Path != "test.h" || d.Line != 1 {
			t.Errorf("%q: bad location %s", in, d.Location())
		}
	}
}

func TestPeekDoesNotAdvance(t *testing.T) {
	lx, reporter := makeTestLexer(`int "open`)
	p1 := lx.Peek()
	p2 := lx.Peek()
	if p1 != p2 || p1.Text != "int" {
		t.Fatalf("peek not pure: %v %v", p1, p2)
	}
	if got := lx.Next(); got.Text != "int" {
		t.Fatalf("Next after Peek returned %q", got.Text)
	}

	fork := lx.Fork()
	fork.Next()
	if len(reporter.diagnostics) != 0 {
		t.Fatalf("fork reported through the live reporter")
	}
	if lx.Next().Kind != token.String || len(reporter.diagnostics) != 1 {
		t.Fatalf("live scanner lost its position or its reporter")
	}
	if lx.Next().Kind != token.End || lx.Next().Kind != token.End {
		t.Fatalf("End is not sticky")
	}
}
