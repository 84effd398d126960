package types

import (
	"errors"
	"testing"
)

func TestTableSeedsBuiltins(t *testing.T) {
	tab := NewTable(nil)
	for _, name := range []string{"void", "bool", "char", "int", "float", "double", "uint8_t", "size_t"} {
		id, ok := tab.Lookup(name)
		if !ok {
			t.Fatalf("builtin %s missing", name)
		}
		if ti := tab.Get(id); ti.Name != name || !ti.Defined() {
			t.Fatalf("builtin %s: %+v", name, ti)
		}
	}
	id, _ := tab.Lookup("int")
	if ti := tab.Get(id); ti.Size != 4 || ti.Align != 4 || !ti.Signed || ti.Bits != 32 {
		t.Fatalf("int descriptor %+v", ti)
	}
	if _, ok := tab.Lookup("Point"); ok {
		t.Fatalf("Point seeded as a builtin")
	}
}

func TestInsertUnknownIsIdempotentAndDefinePromotesInPlace(t *testing.T) {
	tab := NewTable(nil)
	b1 := tab.InsertUnknown("B")
	b2 := tab.InsertUnknown("B")
	if b1 != b2 {
		t.Fatalf("InsertUnknown not idempotent")
	}
	ptr, err := tab.AddPointer("B", 1)
	if err != nil {
		t.Fatalf("AddPointer on placeholder: %v", err)
	}

	members := tab.AddMembers([]StructMember{{Type: ptr, Name: "self"}})
	got, err := tab.Define("B", Struct(members))
	if err != nil {
		t.Fatalf("Define: %v", err)
	}
	if got != b1 {
		t.Fatalf("promotion moved the descriptor: %d != %d", got, b1)
	}
	if ti := tab.Get(b1); ti.Kind != KindStruct || ti.Name != "B" {
		t.Fatalf("promoted descriptor %+v", ti)
	}
	if tab.Get(ptr).Pointee != b1 {
		t.Fatalf("pointer lost its pointee")
	}

	_, err = tab.Define("B", Struct(Slice{}))
	var redef *RedefinitionError
	if !errors.As(err, &redef) || !errors.Is(err, ErrRedefinition) {
		t.Fatalf("expected redefinition error, got %v", err)
	}
}

func TestInsertRejectsAnyExistingName(t *testing.T) {
	tab := NewTable(nil)
	if _, err := tab.Insert("int", Integer(32, true)); !errors.Is(err, ErrRedefinition) {
		t.Fatalf("expected redefinition, got %v", err)
	}
	tab.InsertUnknown("Later")
	if _, err := tab.Insert("Later", Integer(8, false)); !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
}

func TestAddPointerChain(t *testing.T) {
	tab := NewTable(nil)
	top, err := tab.AddPointer("char", 3)
	if err != nil {
		t.Fatal(err)
	}
	want := []struct{ name, key, pointee string }{
		{"char*", "char_ptr", "char"},
		{"char**", "char_ptr_ptr", "char*"},
		{"char***", "char_ptr_ptr_ptr", "char**"},
	}
	for _, w := range want {
		id, ok := tab.Lookup(w.name)
		if !ok {
			t.Fatalf("%s missing", w.name)
		}
		ti := tab.Get(id)
		if ti.Key != w.key || ti.Kind != KindPointer {
			t.Errorf("%s: %+v", w.name, ti)
		}
		if ti.Size != PointerWidth || ti.Align != PointerWidth {
			t.Errorf("%s: size/align %d/%d", w.name, ti.Size, ti.Align)
		}
		if tab.Get(ti.Pointee).Name != w.pointee {
			t.Errorf("%s points at %s", w.name, tab.Get(ti.Pointee).Name)
		}
	}
	if tab.Get(top).Name != "char***" {
		t.Fatalf("top pointer %s", tab.Get(top).Name)
	}

	before := tab.Len()
	again, _ := tab.AddPointer("char", 2)
	if tab.Len() != before || tab.Get(again).Name != "char**" {
		t.Fatalf("duplicate pointer levels were not reused")
	}
	if _, err := tab.AddPointer("Nope", 1); !errors.Is(err, ErrNoBase) {
		t.Fatalf("expected ErrNoBase, got %v", err)
	}
}

func TestCanonicalOrderIgnoresInsertionOrder(t *testing.T) {
	a := NewTable(nil)
	a.InsertUnknown("Zeta")
	a.InsertUnknown("Alpha")
	b := NewTable(nil)
	b.InsertUnknown("Alpha")
	b.InsertUnknown("Zeta")

	keys := func(tab *Table) []string {
		var out []string
		for _, id := range tab.Canonical() {
			out = append(out, tab.Get(id).Key)
		}
		return out
	}
	ka, kb := keys(a), keys(b)
	if len(ka) != len(kb) {
		t.Fatalf("length mismatch")
	}
	for i := range ka {
		if ka[i] != kb[i] {
			t.Fatalf("order differs at %d: %s vs %s", i, ka[i], kb[i])
		}
	}
}

func TestUnderlyingAndEnumSafe(t *testing.T) {
	tab := NewTable(nil)
	intID, _ := tab.Lookup("int")
	s32, _ := tab.Define("s32", Typedef(intID))
	score, _ := tab.Define("Score", Typedef(s32))
	if tab.Underlying(score) != intID {
		t.Fatalf("Underlying did not reach int")
	}
	if EnumSafe("char **") != "char_ptr_ptr" || EnumSafe("Point") != "Point" {
		t.Fatalf("EnumSafe mismatch")
	}
}

func TestArenasAreContiguous(t *testing.T) {
	tab := NewTable(nil)
	intID, _ := tab.Lookup("int")
	s1 := tab.AddArgs([]FunctionArg{{Type: intID, Name: "a"}, {Type: intID, Name: "b"}})
	s2 := tab.AddArgs([]FunctionArg{{Type: intID, Name: "c"}})
	if s1.Base != 0 || s1.Count != 2 || s2.Base != 2 || s2.Count != 1 {
		t.Fatalf("slices %+v %+v", s1, s2)
	}
	if tab.Args(s2)[0].Name != "c" || len(tab.Args(Slice{Count: 3})) != 3 {
		t.Fatalf("arena content mismatch")
	}
}
