package typedb_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"meta/internal/diag"
	"meta/internal/layout"
	"meta/internal/parser"
	"meta/internal/source"
	"meta/internal/typedb"
	"meta/internal/types"
)

func build(t *testing.T, src string) *typedb.Database {
	t.Helper()
	ctx := parser.NewContext()
	fs := source.NewFileSet()
	bag := diag.NewBag(4)
	f := fs.Get(fs.AddVirtual("src/game.h", []byte(src)))
	if res := parser.ParseFile(ctx, f, parser.Options{Reporter: diag.BagReporter{Bag: bag}}); res.Failed {
		t.Fatalf("parse: %v", bag.Items())
	}
	if err := ctx.Commands.Resolve(ctx.Types); err != nil {
		t.Fatal(err)
	}
	if err := layout.New(layout.LP64(), ctx.Types).Resolve(); err != nil {
		t.Fatal(err)
	}
	db, err := typedb.FromTable(ctx.Types, ctx.Commands)
	if err != nil {
		t.Fatal(err)
	}
	return db
}

const gameSrc = `
@Introspect typedef struct Console { int speed; float open_percent; } Console;
@Introspect @RegisterCommand int add(int a, int b);
`

func TestFromTable(t *testing.T) {
	db := build(t, gameSrc)

	ci, ok := db.Lookup("Console")
	if !ok {
		t.Fatal("Console missing")
	}
	console := &db.Types[ci]
	if types.Kind(console.Kind) != types.KindStruct || console.Size != 8 {
		t.Fatalf("Console = %+v", console)
	}
	members := db.MembersOf(console)
	if len(members) != 2 || members[1].Name != "open_percent" || members[1].Offset != 4 {
		t.Fatalf("members = %+v", members)
	}
	if db.Types[members[1].Type].Name != "float" {
		t.Errorf("member type = %s", db.Types[members[1].Type].Name)
	}

	if len(db.Commands) != 1 || db.Types[db.Commands[0]].Name != "add" {
		t.Fatalf("commands = %v", db.Commands)
	}
	add := &db.Types[db.Commands[0]]
	if db.Types[add.Return].Name != "int" || len(db.ArgsOf(add)) != 2 || add.File != "src/game.h" {
		t.Errorf("add = %+v", add)
	}

	for i := 1; i < len(db.Types); i++ {
		if db.Types[i-1].Key >= db.Types[i].Key {
			t.Fatalf("types not in canonical order at %d", i)
		}
	}
}

func TestWriteRead(t *testing.T) {
	db := build(t, gameSrc)
	path := filepath.Join(t.TempDir(), "src", typedb.FileName)
	if err := typedb.Write(path, db); err != nil {
		t.Fatal(err)
	}
	got, err := typedb.Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Types) != len(db.Types) || len(got.Members) != len(db.Members) || len(got.Args) != len(db.Args) {
		t.Fatalf("sizes differ")
	}
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("leftover temp files: %v", entries)
	}
}

func TestSchemaMismatch(t *testing.T) {
	var buf bytes.Buffer
	if err := msgpack.NewEncoder(&buf).Encode(&typedb.Database{Schema: typedb.SchemaVersion + 1}); err != nil {
		t.Fatal(err)
	}
	if _, err := typedb.Decode(&buf); !errors.Is(err, typedb.ErrSchema) {
		t.Fatalf("err = %v", err)
	}
}
