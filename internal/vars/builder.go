package vars

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"fortio.org/safecast"

	"meta/internal/rtti"
	"meta/internal/types"
)

var (
	ErrNotBegun   = errors.New("vars: Begin was not called")
	ErrNotStruct  = errors.New("vars: type is not a struct")
	ErrShortData  = errors.New("vars: buffer smaller than type")
	ErrBadName    = errors.New("vars: invalid variable name")
	ErrDuplicate  = errors.New("vars: duplicate variable")
	ErrNoLayout   = errors.New("vars: type has no layout")
	ErrBlockLimit = errors.New("vars: tree exceeds block limits")
)

type pending struct {
	name     string
	typ      *rtti.Type
	data     []byte
	children []*pending
}

// Builder collects root variables between Begin and End.
type Builder struct {
	table *rtti.Table
	roots []*pending
	open  bool
}

func NewBuilder(table *rtti.Table) *Builder {
	return &Builder{table: table}
}

// Begin starts a new tree, discarding anything collected before.
func (b *Builder) Begin() {
	b.roots = nil
	b.open = true
}

// AddStruct registers data, laid out as struct type t, under name. Nested
// structs become subtrees; every other laid-out member becomes a leaf.
func (b *Builder) AddStruct(t *rtti.Type, data []byte, name string) error {
	if !b.open {
		return ErrNotBegun
	}
	u := t.Underlying()
	if u == nil || u.Kind != types.KindStruct {
		return fmt.Errorf("%s: %w", t, ErrNotStruct)
	}
	node, err := b.node(t, data, name)
	if err != nil {
		return err
	}
	return b.addRoot(node)
}

// AddValue registers a single non-struct variable.
func (b *Builder) AddValue(t *rtti.Type, data []byte, name string) error {
	if !b.open {
		return ErrNotBegun
	}
	u := t.Underlying()
	if u != nil && u.Kind == types.KindStruct {
		return b.AddStruct(t, data, name)
	}
	node, err := b.node(t, data, name)
	if err != nil {
		return err
	}
	return b.addRoot(node)
}

func (b *Builder) addRoot(node *pending) error {
	for _, r := range b.roots {
		if r.name == node.name {
			return fmt.Errorf("%s: %w", node.name, ErrDuplicate)
		}
	}
	b.roots = append(b.roots, node)
	return nil
}

func (b *Builder) node(t *rtti.Type, data []byte, name string) (*pending, error) {
	if name == "" || strings.ContainsAny(name, ". \t") {
		return nil, fmt.Errorf("%q: %w", name, ErrBadName)
	}
	u := t.Underlying()
	if u == nil || u.Align == 0 {
		return nil, fmt.Errorf("%s: %w", t, ErrNoLayout)
	}
	if len(data) < u.Size {
		return nil, fmt.Errorf("%s needs %d bytes, got %d: %w", t, u.Size, len(data), ErrShortData)
	}
	p := &pending{name: name, typ: t}
	if u.Kind != types.KindStruct {
		p.data = data[:u.Size:u.Size]
		return p, nil
	}
	for _, m := range u.Members {
		mu := m.Type.Underlying()
		if mu == nil || mu.Align == 0 {
			continue
		}
		child, err := b.node(m.Type, data[m.Offset:], m.Name)
		if err != nil {
			return nil, fmt.Errorf("%s.%w", name, err)
		}
		p.children = append(p.children, child)
	}
	return p, nil
}

// End lays the collected variables out into a block.
func (b *Builder) End() (*Tree, error) {
	if !b.open {
		return nil, ErrNotBegun
	}
	b.open = false

	// Breadth-first order keeps every node's children contiguous.
	order := []*pending{{children: b.roots}}
	first := make([]int, 0, 1)
	for i := 0; i < len(order); i++ {
		first = append(first, len(order))
		order = append(order, order[i].children...)
	}

	namesAt := len(order) * NodeSize
	size := namesAt
	for _, p := range order {
		size += len(p.name)
	}
	if _, err := safecast.Conv[int32](size); err != nil {
		return nil, ErrBlockLimit
	}

	tree := &Tree{
		block: make([]byte, size),
		nodes: len(order),
		table: b.table,
	}
	nameOff := namesAt
	for i, p := range order {
		off := i * NodeSize
		rec := tree.block[off : off+NodeSize]

		nameLen, err := safecast.Conv[uint32](len(p.name))
		if err != nil {
			return nil, ErrBlockLimit
		}
		if err := putRel(rec[offName:], off, nameOff); err != nil {
			return nil, err
		}
		binary.LittleEndian.PutUint32(rec[offNameLen:], nameLen)
		copy(tree.block[nameOff:], p.name)
		nameOff += len(p.name)

		typeIdx := NoIndex
		if p.typ != nil {
			if typeIdx, err = safecast.Conv[uint32](p.typ.Index); err != nil {
				return nil, ErrBlockLimit
			}
		}
		binary.LittleEndian.PutUint32(rec[offType:], typeIdx)

		slot := NoIndex
		if p.data != nil {
			if slot, err = safecast.Conv[uint32](len(tree.slots)); err != nil {
				return nil, ErrBlockLimit
			}
			tree.slots = append(tree.slots, p.data)
		}
		binary.LittleEndian.PutUint32(rec[offSlot:], slot)

		count, err := safecast.Conv[uint32](len(p.children))
		if err != nil {
			return nil, ErrBlockLimit
		}
		if count > 0 {
			if err := putRel(rec[offChildren:], off, first[i]*NodeSize); err != nil {
				return nil, err
			}
		}
		binary.LittleEndian.PutUint32(rec[offChildCount:], count)
	}
	b.roots = nil
	return tree, nil
}

func putRel(dst []byte, from, to int) error {
	rel, err := safecast.Conv[int32](to - from)
	if err != nil {
		return ErrBlockLimit
	}
	binary.LittleEndian.PutUint32(dst, uint32(rel)) //nolint:gosec // two's complement store
	return nil
}
