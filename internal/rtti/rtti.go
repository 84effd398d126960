// Package rtti is the runtime view of the type table: descriptors linked by
// pointer, loaded from a type database.
package rtti

import (
	"fmt"

	"meta/internal/typedb"
	"meta/internal/types"
)

// Type is one runtime descriptor. Index matches the META_TYPE enum.
type Type struct {
	Index int32
	Name  string
	Key   string
	Size  int
	Align int
	Kind  types.Kind

	Bits   int
	Signed bool

	Pointee *Type
	Aliased *Type

	Members []Member

	Return *Type
	Args   []Arg
	File   string
}

type Member struct {
	Type   *Type
	Name   string
	Offset int
}

type Arg struct {
	Type *Type
	Name string
}

// Underlying follows typedefs to the first non-typedef descriptor.
func (t *Type) Underlying() *Type {
	for t != nil && t.Kind == types.KindTypedef && t.Aliased != nil && t.Aliased != t {
		t = t.Aliased
	}
	return t
}

// IsString reports whether t is char* (after typedefs).
func (t *Type) IsString() bool {
	u := t.Underlying()
	if u == nil || u.Kind != types.KindPointer || u.Pointee == nil {
		return false
	}
	p := u.Pointee.Underlying()
	return p != nil && p.Kind == types.KindInteger && p.Bits == 8
}

func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	return t.Name
}

// Table indexes the runtime descriptors by key.
type Table struct {
	types    []*Type
	byKey    map[string]*Type
	commands []*Type
}

// FromDB links a decoded database into a Table.
func FromDB(db *typedb.Database) (*Table, error) {
	t := &Table{
		types: make([]*Type, len(db.Types)),
		byKey: make(map[string]*Type, len(db.Types)),
	}
	for i := range db.Types {
		rec := &db.Types[i]
		t.types[i] = &Type{
			Index:  int32(i), //nolint:gosec // database indices are int32
			Name:   rec.Name,
			Key:    rec.Key,
			Size:   rec.Size,
			Align:  rec.Align,
			Kind:   types.Kind(rec.Kind),
			Bits:   rec.Bits,
			Signed: rec.Signed,
			File:   rec.File,
		}
		t.byKey[rec.Key] = t.types[i]
	}
	ref := func(i int32) (*Type, error) {
		if i == typedb.NoRef {
			return nil, nil
		}
		if i < 0 || int(i) >= len(t.types) {
			return nil, fmt.Errorf("rtti: type reference %d out of range", i)
		}
		return t.types[i], nil
	}
	for i := range db.Types {
		rec, ty := &db.Types[i], t.types[i]
		var err error
		if ty.Pointee, err = ref(rec.Pointee); err != nil {
			return nil, err
		}
		if ty.Aliased, err = ref(rec.Aliased); err != nil {
			return nil, err
		}
		if ty.Return, err = ref(rec.Return); err != nil {
			return nil, err
		}
		if rec.MemberCount > 0 {
			if int(rec.MemberBase+rec.MemberCount) > len(db.Members) {
				return nil, fmt.Errorf("rtti: %s: member window out of range", rec.Name)
			}
			for _, m := range db.MembersOf(rec) {
				mt, err := ref(m.Type)
				if err != nil {
					return nil, err
				}
				ty.Members = append(ty.Members, Member{Type: mt, Name: m.Name, Offset: m.Offset})
			}
		}
		if rec.ArgCount > 0 {
			if int(rec.ArgBase+rec.ArgCount) > len(db.Args) {
				return nil, fmt.Errorf("rtti: %s: argument window out of range", rec.Name)
			}
			for _, a := range db.ArgsOf(rec) {
				at, err := ref(a.Type)
				if err != nil {
					return nil, err
				}
				ty.Args = append(ty.Args, Arg{Type: at, Name: a.Name})
			}
		}
	}
	for _, c := range db.Commands {
		ct, err := ref(c)
		if err != nil {
			return nil, err
		}
		t.commands = append(t.commands, ct)
	}
	return t, nil
}

// Load reads the database at path and links it.
func Load(path string) (*Table, error) {
	db, err := typedb.Read(path)
	if err != nil {
		return nil, err
	}
	return FromDB(db)
}

// Lookup finds a type by source spelling or key.
func (t *Table) Lookup(name string) (*Type, bool) {
	ty, ok := t.byKey[types.EnumSafe(name)]
	return ty, ok
}

// Types returns every descriptor in index order.
func (t *Table) Types() []*Type {
	return t.types
}

// Commands returns the functions registered at generation time.
func (t *Table) Commands() []*Type {
	return t.commands
}
