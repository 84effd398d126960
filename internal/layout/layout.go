// Package layout computes size, alignment and member offsets for every
// descriptor of a type table.
package layout

import (
	"meta/internal/types"
)

type state uint8

const (
	unvisited state = iota
	visiting
	done
)

// Resolver fills in Size, Align and member offsets in place.
type Resolver struct {
	Target Target
	Types  *types.Table

	state map[types.TypeID]state
	stack []types.TypeID
}

// New creates a resolver for table.
func New(target Target, table *types.Table) *Resolver {
	return &Resolver{
		Target: target,
		Types:  table,
		state:  make(map[types.TypeID]state, table.Len()),
	}
}

// Resolve runs the pass over every descriptor. Top-level placeholders are
// left alone; a placeholder reached through a typedef or a struct member is
// an error. Pointers are never followed, which is what makes
// self-referential structs through pointers legal.
func (r *Resolver) Resolve() error {
	for _, id := range r.Types.Canonical() {
		ti := r.Types.Get(id)
		if ti.Kind == types.KindUnknown {
			continue
		}
		if err := r.resolve(id); err != nil {
			return err
		}
	}
	return nil
}


func (r *Resolver) resolve(id types.TypeID) error {
	switch r.state[id] {
	case done:
		return nil
	case visiting:
		return r.fail(ErrRecursive, id)
	}
	ti := r.Types.Get(id)
	if ti == nil || ti.Kind == types.KindUnknown {
		return r.fail(ErrUnknownType, id)
	}

	r.state[id] = visiting
	r.stack = append(r.stack, id)
	err := r.compute(id)
	r.stack = r.stack[:len(r.stack)-1]
	if err != nil {
		return err
	}
	r.state[id] = done
	return nil
}

func (r *Resolver) compute(id types.TypeID) error {
	ti := r.Types.Get(id)
	switch ti.Kind {
	case types.KindPointer:
		ti.Size, ti.Align = r.Target.PtrSize, r.Target.PtrAlign
	case types.KindTypedef:
		if err := r.resolve(ti.Aliased); err != nil {
			return err
		}
		aliased := r.Types.Get(ti.Aliased)
		ti = r.Types.Get(id)
		ti.Size, ti.Align = aliased.Size, aliased.Align
	case types.KindStruct:
		return r.computeStruct(id)
	}
	// primitives are preset; functions and void stay zero-sized
	return nil
}

func (r *Resolver) computeStruct(id types.TypeID) error {
	members := r.Types.Get(id).Members
	offset, maxAlign := 0, 0
	for i := range r.Types.Members(members) {
		mt := r.Types.Members(members)[i].Type
		if err := r.resolve(mt); err != nil {
			return err
		}
		m := &r.Types.Members(members)[i]
		info := r.Types.Get(mt)
		if info.Align == 0 {
			continue
		}
		offset = alignUp(offset, info.Align)
		m.Offset = offset
		offset += info.Size
		maxAlign = max(maxAlign, info.Align)
	}
	if r.Target.PadStructTail && maxAlign > 0 {
		offset = alignUp(offset, maxAlign)
	}
	ti := r.Types.Get(id)
	ti.Size, ti.Align = offset, maxAlign
	return nil
}

func (r *Resolver) fail(kind ErrorKind, id types.TypeID) *Error {
	err := &Error{Kind: kind, Type: "?"}
	if ti := r.Types.Get(id); ti != nil {
		err.Type = ti.Name
	}
	for _, sid := range r.stack {
		err.Chain = append(err.Chain, r.Types.Get(sid).Name)
	}
	if len(r.stack) > 0 {
		outer := r.Types.Get(r.stack[0])
		err.Path, err.Line = outer.DeclPath, outer.DeclLine
	}
	return err
}

func alignUp(n, align int) int {
	if align <= 1 {
		return n
	}
	return (n + align - 1) / align * align
}
