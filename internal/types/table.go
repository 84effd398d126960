package types

import (
	"fmt"
	"sort"

	"fortio.org/safecast"

	"meta/internal/source"
)

// Table is the keyed collection of type descriptors built by one meta run,
// together with the member and argument arenas the descriptors point into.
type Table struct {
	strings *source.Interner
	types   []TypeInfo // arena; slot 0 is NoTypeID
	index   map[string]TypeID
	members []StructMember
	args    []FunctionArg
}

// NewTable creates a table seeded with the builtin primitives. strings may
// be nil, in which case the table owns a private arena.
func NewTable(strings *source.Interner) *Table {
	if strings == nil {
		strings = source.NewInterner()
	}
	t := &Table{
		strings: strings,
		types:   make([]TypeInfo, 1, 64),
		index:   make(map[string]TypeID, 64),
	}
	for _, b := range builtins {
		if _, err := t.Insert(b.name, b.info); err != nil {
			panic(fmt.Errorf("seeding %s: %w", b.name, err))
		}
	}
	return t
}

// Strings returns the string arena names are interned into.
func (t *Table) Strings() *source.Interner {
	return t.strings
}

// Len returns the number of descriptors, excluding NoTypeID.
func (t *Table) Len() int {
	return len(t.types) - 1
}

// Get returns the descriptor for id. The pointer is valid until the next
// insertion; hold the TypeID, not the pointer, across inserts.
func (t *Table) Get(id TypeID) *TypeInfo {
	if id == NoTypeID || int(id) >= len(t.types) {
		return nil
	}
	return &t.types[id]
}

// Lookup finds a descriptor by source spelling or enum-safe key.
func (t *Table) Lookup(name string) (TypeID, bool) {
	id, ok := t.index[EnumSafe(name)]
	return id, ok
}

// Insert adds a fresh descriptor. It fails when the name exists at all,
// placeholders included.
func (t *Table) Insert(name string, info TypeInfo) (TypeID, error) {
	key := EnumSafe(name)
	if id, ok := t.index[key]; ok {
		prev := &t.types[id]
		if prev.Defined() {
			return id, &RedefinitionError{Name: prev.Name, PrevPath: prev.DeclPath, PrevLine: prev.DeclLine}
		}
		return id, fmt.Errorf("%s: %w", name, ErrExists)
	}
	return t.insertRaw(name, key, info), nil
}

// InsertUnknown returns the descriptor for name, inserting an UNKNOWN
// placeholder when the name has not been seen. It never fails.
func (t *Table) InsertUnknown(name string) TypeID {
	key := EnumSafe(name)
	if id, ok := t.index[key]; ok {
		return id
	}
	return t.insertRaw(name, key, TypeInfo{Kind: KindUnknown})
}

// Define promotes an UNKNOWN placeholder to info in place, or inserts a new
// descriptor. Redefining a defined name is an error.
func (t *Table) Define(name string, info TypeInfo) (TypeID, error) {
	key := EnumSafe(name)
	id, ok := t.index[key]
	if !ok {
		return t.insertRaw(name, key, info), nil
	}
	prev := &t.types[id]
	if prev.Defined() {
		return id, &RedefinitionError{Name: prev.Name, PrevPath: prev.DeclPath, PrevLine: prev.DeclLine}
	}
	info.Name, info.Key = prev.Name, prev.Key
	if info.Tag == "" {
		info.Tag = prev.Tag
	}
	*prev = info
	return id, nil
}

// SetTag records that id is spelled "tag Name" in C, e.g. "struct point".
func (t *Table) SetTag(id TypeID, tag string) {
	if ti := t.Get(id); ti != nil && tag != "" {
		ti.Tag = tag
	}
}

// CName is the C spelling of id usable in a cast or declaration:
// "struct point*" for a pointer to a struct known only by its tag.
func (t *Table) CName(id TypeID) string {
	ti := t.Get(id)
	switch {
	case ti == nil:
		return "void"
	case ti.Kind == KindPointer:
		return t.CName(ti.Pointee) + "*"
	case ti.Tag != "":
		return ti.Tag + " " + ti.Name
	}
	return ti.Name
}

// AddPointer creates the descriptors for base*, base**, ... up to depth
// levels, each pointing at its immediate pointee. Existing levels are reused.
// It returns the top pointer; the base itself may still be a placeholder.
func (t *Table) AddPointer(base string, depth int) (TypeID, error) {
	cur, ok := t.Lookup(base)
	if !ok {
		return NoTypeID, fmt.Errorf("%s: %w", base, ErrNoBase)
	}
	for range depth {
		pointee := t.types[cur]
		name, key := PointerNames(pointee.Name, pointee.Key, 1)
		if id, ok := t.index[key]; ok {
			cur = id
			continue
		}
		cur = t.insertRaw(name, key, TypeInfo{
			Kind:    KindPointer,
			Pointee: cur,
			Size:    PointerWidth,
			Align:   PointerWidth,
		})
	}
	return cur, nil
}

// SetDecl records where id was defined.
func (t *Table) SetDecl(id TypeID, path string, line uint32) {
	if ti := t.Get(id); ti != nil {
		ti.DeclPath = t.strings.Canon(path)
		ti.DeclLine = line
	}
}

func (t *Table) insertRaw(name, key string, info TypeInfo) TypeID {
	n, err := safecast.Conv[uint32](len(t.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(n)
	info.Name = t.strings.Canon(name)
	info.Key = t.strings.Canon(key)
	t.types = append(t.types, info)
	t.index[info.Key] = id
	return id
}

// Arenas ---------------------------------------------------------------------

// AddMembers appends members contiguously and returns their window.
func (t *Table) AddMembers(members []StructMember) Slice {
	base := mustU32(len(t.members))
	for _, m := range members {
		m.Name = t.strings.Canon(m.Name)
		t.members = append(t.members, m)
	}
	return Slice{Base: base, Count: mustU32(len(members))}
}

// AddArgs appends arguments contiguously and returns their window.
func (t *Table) AddArgs(args []FunctionArg) Slice {
	base := mustU32(len(t.args))
	for _, a := range args {
		a.Name = t.strings.Canon(a.Name)
		t.args = append(t.args, a)
	}
	return Slice{Base: base, Count: mustU32(len(args))}
}

// Members returns the arena window s. The slice aliases the arena so the
// layout resolver can fill in offsets.
func (t *Table) Members(s Slice) []StructMember {
	return t.members[s.Base : s.Base+s.Count]
}

// Args returns the arena window s.
func (t *Table) Args(s Slice) []FunctionArg {
	return t.args[s.Base : s.Base+s.Count]
}


// Iteration ------------------------------------------------------------------

// All returns every TypeID in storage order.
func (t *Table) All() []TypeID {
	out := make([]TypeID, 0, t.Len())
	for i := 1; i < len(t.types); i++ {
		out = append(out, TypeID(mustU32(i)))
	}
	return out
}

// Canonical returns every TypeID ordered by enum-safe key. The order depends
// only on the set of names, never on the order they were inserted in.
func (t *Table) Canonical() []TypeID {
	out := t.All()
	sort.Slice(out, func(i, j int) bool {
		return t.types[out[i]].Key < t.types[out[j]].Key
	})
	return out
}

// Underlying follows typedef links to the first non-typedef descriptor.
func (t *Table) Underlying(id TypeID) TypeID {
	for range len(t.types) {
		ti := t.Get(id)
		if ti == nil || ti.Kind != KindTypedef {
			return id
		}
		id = ti.Aliased
	}
	return id
}

func mustU32(n int) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("arena overflow: %w", err))
	}
	return v
}
