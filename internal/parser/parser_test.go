package parser_test

import (
	"strings"
	"testing"

	"meta/internal/diag"
	"meta/internal/parser"
	"meta/internal/source"
	"meta/internal/types"
)

type harness struct {
	ctx   *parser.Context
	files *source.FileSet
	bag   *diag.Bag
}

func newHarness() *harness {
	return &harness{
		ctx:   parser.NewContext(),
		files: source.NewFileSet(),
		bag:   diag.NewBag(16),
	}
}

func (h *harness) parse(t *testing.T, name, src string) parser.Result {
	t.Helper()
	f := h.files.Get(h.files.AddVirtual(name, []byte(src)))
	return parser.ParseFile(h.ctx, f, parser.Options{Reporter: diag.BagReporter{Bag: h.bag}})
}

func (h *harness) mustParse(t *testing.T, name, src string) parser.Result {
	t.Helper()
	res := h.parse(t, name, src)
	if res.Failed || h.bag.HasErrors() {
		t.Fatalf("parse %s: %v", name, h.bag.Items())
	}
	return res
}

func (h *harness) firstError(t *testing.T) diag.Diagnostic {
	t.Helper()
	d, ok := h.bag.FirstError()
	if !ok {
		t.Fatalf("expected an error")
	}
	return d
}

func (h *harness) get(t *testing.T, name string) *types.TypeInfo {
	t.Helper()
	id, ok := h.ctx.Types.Lookup(name)
	if !ok {
		t.Fatalf("type %q missing", name)
	}
	return h.ctx.Types.Get(id)
}

func TestStructTypedef(t *testing.T) {
	h := newHarness()
	h.mustParse(t, "point.h", "@Introspect typedef struct point { int x; float y; } Point;")

	point := h.get(t, "Point")
	if point.Kind != types.KindTypedef {
		t.Fatalf("Point kind = %s", point.Kind)
	}
	st := h.ctx.Types.Get(point.Aliased)
	if st.Kind != types.KindStruct || st.Name != "point" {
		t.Fatalf("aliased = %s %s", st.Kind, st.Name)
	}
	members := h.ctx.Types.Members(st.Members)
	if len(members) != 2 || members[0].Name != "x" || members[1].Name != "y" {
		t.Fatalf("members = %+v", members)
	}
	if h.ctx.Types.Get(members[0].Type).Name != "int" || h.ctx.Types.Get(members[1].Type).Name != "float" {
		t.Fatalf("member types wrong")
	}
	if st.DeclPath != "point.h" || st.DeclLine != 1 {
		t.Errorf("decl = %s:%d", st.DeclPath, st.DeclLine)
	}
}

func TestTaglessStruct(t *testing.T) {
	h := newHarness()
	h.mustParse(t, "a.h", "@Introspect\ntypedef struct {\n  int *a, b;\n  const char *name;\n} Foo;\n")

	foo := h.get(t, "Foo")
	if foo.Kind != types.KindStruct {
		t.Fatalf("Foo kind = %s", foo.Kind)
	}
	members := h.ctx.Types.Members(foo.Members)
	want := []string{"int*", "int", "char*"}
	if len(members) != len(want) {
		t.Fatalf("members = %+v", members)
	}
	for i, m := range members {
		if got := h.ctx.Types.Get(m.Type).Name; got != want[i] {
			t.Errorf("member %d type = %s, want %s", i, got, want[i])
		}
	}
}

func TestNestedPointerTypedef(t *testing.T) {
	h := newHarness()
	h.mustParse(t, "trip.h", "@Introspect typedef char*** Trip;")

	for _, name := range []string{"char", "char*", "char**", "char***"} {
		h.get(t, name)
	}
	trip := h.get(t, "Trip")
	top := h.ctx.Types.Get(trip.Aliased)
	if top.Name != "char***" || top.Key != "char_ptr_ptr_ptr" {
		t.Fatalf("aliased = %s/%s", top.Name, top.Key)
	}
	if top.Size != 8 || top.Align != 8 {
		t.Errorf("pointer size/align = %d/%d", top.Size, top.Align)
	}
	if h.ctx.Types.Get(top.Pointee).Name != "char**" {
		t.Errorf("pointee = %s", h.ctx.Types.Get(top.Pointee).Name)
	}
}

func TestSelfAliasSkipped(t *testing.T) {
	h := newHarness()
	h.mustParse(t, "a.h", "@Introspect typedef int int;\n@Introspect typedef struct Vec { float x; } Vec;")
	if h.get(t, "int").Kind != types.KindInteger {
		t.Errorf("int was rewritten")
	}
	if h.get(t, "Vec").Kind != types.KindStruct {
		t.Errorf("Vec should be the struct itself")
	}
}

func TestRegisterCommandStacked(t *testing.T) {
	h := newHarness()
	res := h.mustParse(t, "cmd.h", "@Introspect @RegisterCommand int add(int a, int b);\n")
	if res.Notes != 2 {
		t.Fatalf("notes = %d", res.Notes)
	}
	add := h.get(t, "add")
	if add.Kind != types.KindFunction || add.File != "cmd.h" {
		t.Fatalf("add = %+v", add)
	}
	args := h.ctx.Types.Args(add.Args)
	if len(args) != 2 || args[0].Name != "a" || args[1].Name != "b" {
		t.Fatalf("args = %+v", args)
	}
	if err := h.ctx.Commands.Resolve(h.ctx.Types); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got := h.ctx.Commands.Headers(); len(got) != 1 || got[0] != "cmd.h" {
		t.Errorf("headers = %v", got)
	}
}

func TestRegisterBeforeIntrospectAcrossFiles(t *testing.T) {
	h := newHarness()
	h.mustParse(t, "a.c", "@RegisterCommand void quit(void);\n")
	h.mustParse(t, "b.c", "@Introspect void quit(void) { }\n")
	if err := h.ctx.Commands.Resolve(h.ctx.Types); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(h.ctx.Commands.Commands()) != 1 {
		t.Fatalf("commands = %v", h.ctx.Commands.Commands())
	}
	if len(h.ctx.Commands.Headers()) != 0 {
		t.Errorf(".c files must not be included")
	}
}

func TestRegisterCommandMissingFunction(t *testing.T) {
	h := newHarness()
	h.mustParse(t, "a.h", "@RegisterCommand int nope(int);\n")
	err := h.ctx.Commands.Resolve(h.ctx.Types)
	if err == nil || !strings.HasPrefix(err.Error(), "a.h:1 ") {
		t.Fatalf("err = %v", err)
	}
}

func TestForwardReference(t *testing.T) {
	h := newHarness()
	h.mustParse(t, "a.h", "@Introspect typedef struct A { B* p; } A;\n")
	if h.get(t, "B").Kind != types.KindUnknown {
		t.Fatalf("B should be a placeholder")
	}
	h.mustParse(t, "b.h", "@Introspect typedef struct B { int v; } B;\n")

	a := h.get(t, "A")
	bp, _ := h.ctx.Types.Lookup("B*")
	if got := h.ctx.Types.Members(a.Members)[0].Type; got != bp {
		t.Fatalf("A.p type = %d, want %d", got, bp)
	}
	b, _ := h.ctx.Types.Lookup("B")
	if h.ctx.Types.Get(bp).Pointee != b {
		t.Errorf("B* pointee mismatch")
	}
	if h.ctx.Types.Get(b).Kind != types.KindStruct {
		t.Errorf("B not promoted")
	}
}

func TestAnnotationErased(t *testing.T) {
	h := newHarness()
	src := "// header\n@Introspect int add(int,int);\nint x;\n"
	res := h.mustParse(t, "add.h", src)
	want := "// header\n            int add(int,int);\nint x;\n"
	if string(res.Output) != want {
		t.Fatalf("output = %q", res.Output)
	}
	add := h.ctx.Types.Args(h.get(t, "add").Args)
	if len(add) != 2 || add[0].Name != "" {
		t.Errorf("unnamed args = %+v", add)
	}
}

func TestCommentsBetweenNoteAndDecl(t *testing.T) {
	h := newHarness()
	h.mustParse(t, "a.h", "@Introspect // the alias\n/* block */ typedef float Real;")
	if h.get(t, "Real").Kind != types.KindTypedef {
		t.Fatalf("Real not defined")
	}
}

func TestErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		code diag.Code
		msg  string
	}{
		{"unknown note", "int a;\n@Frobnicate int f(void);", diag.SynUnknownNote, "Unknown meta note @Frobnicate"},
		{"unexpected", "@Introspect typedef int ;", diag.SynUnexpectedToken, "Expected Symbol but got Semicolon"},
		{"union", "@Introspect typedef union u { int a; } U;", diag.SynNotImplemented, "typedef union is not implemented"},
		{"enum", "@Introspect typedef enum color { RED, GREEN } Color;\n@Introspect typedef int Later;", diag.SynNotImplemented, "typedef enum is not implemented"},
		{"array member", "@Introspect typedef struct buf { char data[16]; int n; } Buf;", diag.SynNotImplemented, "array member data is not implemented"},
		{"redefinition", "@Introspect typedef struct P { int a; } P;\n@Introspect typedef struct P { int b; } P;", diag.SemaRedefinition, "Redefinition of P"},
		{"builtin redefinition", "@Introspect typedef struct int { int a; } I;", diag.SemaRedefinition, "Redefinition of int"},
		{"unterminated string", "@Introspect int f(void);\nchar *s = \"abc", diag.LexUnterminatedString, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness()
			res := h.parse(t, "e.h", tc.src)
			if !res.Failed {
				t.Fatalf("expected failure")
			}
			d := h.firstError(t)
			if d.Code != tc.code {
				t.Errorf("code = %s, want %s", d.Code, tc.code)
			}
			if !strings.Contains(d.Message, tc.msg) {
				t.Errorf("message = %q, want %q", d.Message, tc.msg)
			}
			if tc.code == diag.SynNotImplemented && h.bag.Len() != 1 {
				t.Errorf("want one diagnostic, got %v", h.bag.Items())
			}
		})
	}
}

func TestErrorLine(t *testing.T) {
	h := newHarness()
	h.parse(t, "e.h", "\n\n@Introspect typedef int 5;")
	d := h.firstError(t)
	if got := d.String(); !strings.HasPrefix(got, "e.h:3 Expected Symbol but got Number") {
		t.Fatalf("diag = %q", got)
	}
}

func TestStructKeywordIsKeptForC(t *testing.T) {
	h := newHarness()
	h.mustParse(t, "a.h", "@Introspect typedef struct point { int x; } Point;\n"+
		"@Introspect void move(struct point* p, const struct vec v);")
	tab := h.ctx.Types
	fn := h.get(t, "move")
	args := tab.Args(fn.Args)
	if got := tab.CName(args[0].Type); got != "struct point*" {
		t.Errorf("arg 0 spelled %q", got)
	}
	if got := tab.CName(args[1].Type); got != "struct vec" {
		t.Errorf("arg 1 spelled %q", got)
	}
	id, _ := tab.Lookup("Point")
	if got := tab.CName(id); got != "Point" {
		t.Errorf("typedef spelled %q", got)
	}
}
