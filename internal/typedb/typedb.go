// Package typedb persists a resolved type table so runtime consumers can
// rebuild it without parsing the generated header.
package typedb

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"meta/internal/registry"
	"meta/internal/types"
)

// SchemaVersion - increment when Database format changes
const SchemaVersion uint16 = 1

// FileName is the database file name under <out>/src.
const FileName = "meta_types.mp"

// NoRef marks an absent type reference.
const NoRef int32 = -1

var ErrSchema = errors.New("typedb: unsupported schema version")

// Type mirrors types.TypeInfo with references replaced by indices into
// Database.Types.
type Type struct {
	Name  string
	Key   string
	Size  int
	Align int
	Kind  uint8 // types.Kind

	Bits   int
	Signed bool

	Pointee int32
	Aliased int32

	MemberBase  uint32
	MemberCount uint32

	Return   int32
	ArgBase  uint32
	ArgCount uint32
	File     string
}

type Member struct {
	Type   int32
	Name   string
	Offset int
}

type Arg struct {
	Type int32
	Name string
}

// Database is the on-disk form of one meta run. Types are stored in
// canonical order, so indices match the generated META_TYPE enum.
type Database struct {
	Schema   uint16
	Types    []Type
	Members  []Member
	Args     []Arg
	Commands []int32 // registered functions, sorted by key
}

// FromTable snapshots a resolved table and registry.
func FromTable(table *types.Table, commands *registry.Registry) (*Database, error) {
	order := table.Canonical()
	index := make(map[types.TypeID]int32, len(order))
	for i, id := range order {
		n, err := safecast.Conv[int32](i)
		if err != nil {
			return nil, fmt.Errorf("typedb: too many types: %w", err)
		}
		index[id] = n
	}
	ref := func(id types.TypeID) int32 {
		if n, ok := index[id]; ok {
			return n
		}
		return NoRef
	}

	db := &Database{Schema: SchemaVersion, Types: make([]Type, 0, len(order))}
	for _, id := range order {
		ti := table.Get(id)
		rec := Type{
			Name:    ti.Name,
			Key:     ti.Key,
			Size:    ti.Size,
			Align:   ti.Align,
			Kind:    uint8(ti.Kind),
			Bits:    ti.Bits,
			Signed:  ti.Signed,
			Pointee: NoRef,
			Aliased: NoRef,
			Return:  NoRef,
		}
		switch ti.Kind {
		case types.KindPointer:
			rec.Pointee = ref(ti.Pointee)
		case types.KindTypedef:
			rec.Aliased = ref(ti.Aliased)
		case types.KindStruct:
			base, err := safecast.Conv[uint32](len(db.Members))
			if err != nil {
				return nil, err
			}
			rec.MemberBase, rec.MemberCount = base, ti.Members.Count
			for _, m := range table.Members(ti.Members) {
				db.Members = append(db.Members, Member{Type: ref(m.Type), Name: m.Name, Offset: m.Offset})
			}
		case types.KindFunction:
			base, err := safecast.Conv[uint32](len(db.Args))
			if err != nil {
				return nil, err
			}
			rec.Return, rec.File = ref(ti.Return), ti.File
			rec.ArgBase, rec.ArgCount = base, ti.Args.Count
			for _, a := range table.Args(ti.Args) {
				db.Args = append(db.Args, Arg{Type: ref(a.Type), Name: a.Name})
			}
		}
		db.Types = append(db.Types, rec)
	}
	for _, id := range order {
		if commands != nil && commands.Has(id) {
			db.Commands = append(db.Commands, index[id])
		}
	}
	return db, nil
}

// Encode writes db to w.
func Encode(w io.Writer, db *Database) error {
	return msgpack.NewEncoder(w).Encode(db)
}

// Decode reads a database from r and checks its schema.
func Decode(r io.Reader) (*Database, error) {
	var db Database
	if err := msgpack.NewDecoder(r).Decode(&db); err != nil {
		return nil, fmt.Errorf("typedb: decode: %w", err)
	}
	if db.Schema != SchemaVersion {
		return nil, fmt.Errorf("%w: %d", ErrSchema, db.Schema)
	}
	return &db, nil
}

// Write stores db at path, replacing any previous file atomically.
func Write(path string, db *Database) (err error) {
	dir := filepath.Dir(path)
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()
	if err = Encode(f, db); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// атомарная замена
	return os.Rename(f.Name(), path)
}

// Read loads the database at path.
func Read(path string) (*Database, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Lookup returns the index of the type with the given key or source name.
func (db *Database) Lookup(name string) (int32, bool) {
	key := types.EnumSafe(name)
	for i := range db.Types {
		if db.Types[i].Key == key {
			return int32(i), true //nolint:gosec // len(Types) fits int32 by construction
		}
	}
	return NoRef, false
}

// MembersOf returns the members of struct t.
func (db *Database) MembersOf(t *Type) []Member {
	return db.Members[t.MemberBase : t.MemberBase+t.MemberCount]
}

// ArgsOf returns the arguments of function t.
func (db *Database) ArgsOf(t *Type) []Arg {
	return db.Args[t.ArgBase : t.ArgBase+t.ArgCount]
}
