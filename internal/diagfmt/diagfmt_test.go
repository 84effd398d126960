package diagfmt_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"meta/internal/diag"
	"meta/internal/diagfmt"
	"meta/internal/lexer"
	"meta/internal/source"
	"meta/internal/token"
)

func sample() (*source.FileSet, []diag.Diagnostic) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("src/a.h", []byte("int x;\n@Introspect typedef int ;\n"))
	d := diag.Errorf(diag.SynUnexpectedToken, "src/a.h", 2,
		source.Span{File: id, Start: 31, End: 32}, "Expected %s but got %s", token.Symbol, token.Semicolon)
	return fs, []diag.Diagnostic{d}
}

func TestPrettyOneLine(t *testing.T) {
	fs, items := sample()
	var buf bytes.Buffer
	diagfmt.Pretty(&buf, items, fs, diagfmt.Options{})
	if got := buf.String(); got != "src/a.h:2 Expected Symbol but got Semicolon\n" {
		t.Fatalf("got %q", got)
	}
}

func TestPrettyContext(t *testing.T) {
	fs, items := sample()
	var buf bytes.Buffer
	diagfmt.Pretty(&buf, items, fs, diagfmt.Options{Context: true, Codes: true})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %q", lines)
	}
	if !strings.HasPrefix(lines[0], "src/a.h:2 SYN2001: ") {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "    @Introspect typedef int ;" {
		t.Errorf("source = %q", lines[1])
	}
	if lines[2] != "    "+strings.Repeat(" ", 24)+"^" {
		t.Errorf("caret = %q", lines[2])
	}
}

func TestJSON(t *testing.T) {
	fs, items := sample()
	var buf bytes.Buffer
	if err := diagfmt.JSON(&buf, items, fs, diagfmt.Options{Columns: true}); err != nil {
		t.Fatal(err)
	}
	var out diagfmt.DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Count != 1 || out.Diagnostics[0].Code != "SYN2001" || out.Diagnostics[0].Location.StartCol != 25 {
		t.Fatalf("out = %+v", out)
	}
}

func TestTokens(t *testing.T) {
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("a.h", []byte("@Introspect int f(void);")))
	lx := lexer.New(f, lexer.Options{})
	var toks []token.Token
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		if tok.Kind == token.End {
			break
		}
	}
	var buf bytes.Buffer
	if err := diagfmt.FormatTokensPretty(&buf, toks, fs); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "   1: MetaNote") || strings.Count(buf.String(), "\n") != len(toks) {
		t.Errorf("pretty:\n%s", buf.String())
	}
	buf.Reset()
	if err := diagfmt.FormatTokensJSON(&buf, toks); err != nil {
		t.Fatal(err)
	}
	var out []diagfmt.TokenOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil || out[0].Kind != "MetaNote" {
		t.Fatalf("json = %v %v", out, err)
	}
}
