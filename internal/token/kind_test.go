package token

import (
	"strings"
	"testing"
)

func TestKindStringCoversAllKinds(t *testing.T) {
	for k := Unknown; k <= Star; k++ {
		if strings.HasPrefix(k.String(), "Kind(") {
			t.Errorf("kind %d has no name", k)
		}
	}
	if got := Kind(200).String(); got != "Kind(200)" {
		t.Errorf("fallback name %q", got)
	}
}

func TestLiteralsLongestFirst(t *testing.T) {
	for i := 1; i < len(Literals); i++ {
		if len(Literals[i].Text) > len(Literals[i-1].Text) {
			t.Fatalf("literal %q listed after shorter %q", Literals[i].Text, Literals[i-1].Text)
		}
	}
}

func TestNoteName(t *testing.T) {
	tok := Token{Kind: MetaNote, Text: "@Introspect"}
	if tok.NoteName() != "Introspect" {
		t.Fatalf("got %q", tok.NoteName())
	}
	if (Token{Kind: Symbol, Text: "x"}).NoteName() != "" {
		t.Fatalf("non-note returned a name")
	}
}
