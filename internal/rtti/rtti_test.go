package rtti_test

import (
	"errors"
	"testing"

	"meta/internal/rtti"
	"meta/internal/testkit"
	"meta/internal/types"
)

const playerSrc = `
@Introspect
typedef struct player { int hp; float speed; struct player *next; } Player;
@RegisterCommand @Introspect
int heal(Player *p, int amount);
@Introspect
char *greet(char *name);
`

func runtime(t *testing.T, srcs ...string) *rtti.Table {
	t.Helper()
	tab, err := testkit.Runtime(srcs...)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return tab
}

func mustLookup(t *testing.T, tab *rtti.Table, name string) *rtti.Type {
	t.Helper()
	ty, ok := tab.Lookup(name)
	if !ok {
		t.Fatalf("%s missing", name)
	}
	return ty
}

func TestLinkedDescriptors(t *testing.T) {
	tab := runtime(t, playerSrc)

	alias := mustLookup(t, tab, "Player")
	if alias.Kind != types.KindTypedef {
		t.Fatalf("Player kind = %s", alias.Kind)
	}
	st := alias.Underlying()
	if st.Name != "player" || st.Kind != types.KindStruct {
		t.Fatalf("underlying = %s (%s)", st.Name, st.Kind)
	}
	if len(st.Members) != 3 || st.Members[1].Name != "speed" || st.Members[1].Offset != 4 {
		t.Fatalf("members = %+v", st.Members)
	}
	if next := st.Members[2].Type; next.Kind != types.KindPointer || next.Pointee != st {
		t.Fatalf("next should point back at player, got %s", next)
	}

	heal := mustLookup(t, tab, "heal")
	if heal.Return.Name != "int" || len(heal.Args) != 2 || heal.Args[0].Type.Pointee != alias {
		t.Fatalf("heal = %+v", heal)
	}
	if cmds := tab.Commands(); len(cmds) != 1 || cmds[0] != heal {
		t.Fatalf("commands = %v", cmds)
	}
	for i, ty := range tab.Types() {
		if int(ty.Index) != i {
			t.Fatalf("%s index %d at %d", ty.Name, ty.Index, i)
		}
	}
}

func TestStringPointer(t *testing.T) {
	tab := runtime(t, playerSrc)
	if !mustLookup(t, tab, "char*").IsString() {
		t.Fatalf("char* should be a string")
	}
	if mustLookup(t, tab, "Player*").IsString() {
		t.Fatalf("Player* is not a string")
	}
}

func TestIntegerNarrowing(t *testing.T) {
	tab := runtime(t, "@Introspect typedef uint8_t u8;")
	u8 := mustLookup(t, tab, "u8")
	ch := mustLookup(t, tab, "char")

	a, err := rtti.MakeInt(u8, 255)
	if err != nil {
		t.Fatalf("255 into u8: %v", err)
	}
	if v, _ := a.Int(); v != 255 {
		t.Fatalf("u8 value = %d", v)
	}
	if _, err := rtti.MakeInt(u8, 256); !errors.Is(err, rtti.ErrRange) {
		t.Fatalf("256 into u8: %v", err)
	}
	if _, err := rtti.MakeInt(u8, -1); !errors.Is(err, rtti.ErrRange) {
		t.Fatalf("-1 into u8: %v", err)
	}
	b, err := rtti.MakeInt(ch, -128)
	if err != nil {
		t.Fatalf("-128 into char: %v", err)
	}
	if v, _ := b.Int(); v != -128 {
		t.Fatalf("char value = %d", v)
	}
	if _, err := rtti.MakeInt(mustLookup(t, tab, "float"), 1); !errors.Is(err, rtti.ErrKind) {
		t.Fatalf("int into float: %v", err)
	}
}

func TestIntegerWidths(t *testing.T) {
	tab := runtime(t, "")
	cases := []struct {
		name string
		v    int64
	}{
		{"short", -32768},
		{"int", -7},
		{"long", -1 << 62},
		{"uint16_t", 65535},
		{"uint32_t", 1 << 31},
		{"uint64_t", 1 << 40},
	}
	for _, tc := range cases {
		a, err := rtti.MakeInt(mustLookup(t, tab, tc.name), tc.v)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if got, _ := a.Int(); got != tc.v {
			t.Fatalf("%s: got %d want %d", tc.name, got, tc.v)
		}
	}
}

func TestFloats(t *testing.T) {
	tab := runtime(t, "")
	f32 := mustLookup(t, tab, "float")
	a, err := rtti.MakeFloat(f32, 1.2)
	if err != nil {
		t.Fatal(err)
	}
	v, _ := a.Float()
	if got := rtti.FormatFloat(v, 32); got != "1.2" {
		t.Fatalf("float32 round trip = %s", got)
	}
	if a.String() != "1.2" {
		t.Fatalf("String() = %s", a.String())
	}
	if _, err := rtti.MakeFloat(f32, 1e300); !errors.Is(err, rtti.ErrRange) {
		t.Fatalf("1e300 into float: %v", err)
	}
	d, _ := rtti.MakeFloat(mustLookup(t, tab, "double"), 0.1)
	if v, _ := d.Float(); v != 0.1 {
		t.Fatalf("double = %v", v)
	}
}

func TestLayoutInvariantsHold(t *testing.T) {
	ctx, err := testkit.Compile(playerSrc, "@Introspect typedef struct { char c; double d; short s; } Mixed;")
	if err != nil {
		t.Fatal(err)
	}
	if err := testkit.CheckLayoutInvariants(ctx.Types); err != nil {
		t.Fatal(err)
	}
}
