package registry

import (
	"errors"
	"testing"

	"meta/internal/types"
)

func defineFn(t *testing.T, tab *types.Table, name, file string) types.TypeID {
	t.Helper()
	intID, _ := tab.Lookup("int")
	id, err := tab.Define(name, types.Function(intID, tab.AddArgs(nil), file))
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func TestResolveRegistersInRequestOrder(t *testing.T) {
	tab := types.NewTable(nil)
	r := New()
	r.Request("quit", "src/console.c", 3)
	r.Request("add", "src/game.h", 7)
	// определения появляются после запросов
	add := defineFn(t, tab, "add", "src/game.h")
	quit := defineFn(t, tab, "quit", "src/console.c")

	if err := r.Resolve(tab); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	cmds := r.Commands()
	if len(cmds) != 2 || cmds[0] != quit || cmds[1] != add {
		t.Fatalf("commands %v", cmds)
	}
	if h := r.Headers(); len(h) != 1 || h[0] != "src/game.h" {
		t.Fatalf("headers %v", h)
	}
	if !r.Has(add) || len(r.Pending()) != 0 {
		t.Fatalf("registry state after resolve")
	}
}

func TestResolveFailures(t *testing.T) {
	cases := []struct {
		name  string
		setup func(tab *types.Table, r *Registry)
		want  error
	}{
		{
			name:  "missing",
			setup: func(_ *types.Table, r *Registry) { r.Request("ghost", "a.h", 1) },
			want:  ErrMissingFunction,
		},
		{
			name: "placeholder",
			setup: func(tab *types.Table, r *Registry) {
				tab.InsertUnknown("later")
				r.Request("later", "a.h", 1)
			},
			want: ErrMissingFunction,
		},
		{
			name:  "not a function",
			setup: func(_ *types.Table, r *Registry) { r.Request("int", "a.h", 2) },
			want:  ErrNotAFunction,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tab := types.NewTable(nil)
			r := New()
			tc.setup(tab, r)
			err := r.Resolve(tab)
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
			var re *ResolveError
			if !errors.As(err, &re) || re.Req.Path != "a.h" {
				t.Fatalf("missing position: %v", err)
			}
		})
	}
}

func TestDuplicateRegistration(t *testing.T) {
	tab := types.NewTable(nil)
	defineFn(t, tab, "add", "src/game.h")
	r := New()
	r.Request("add", "src/game.h", 1)
	r.Request("add", "src/game.h", 2)
	err := r.Resolve(tab)
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}
