// Package vars builds a tree of named runtime variables over caller-owned
// struct buffers.
//
// The tree is a single relocatable block: fixed-size node records in
// breadth-first order followed by the name bytes. Records refer to names and
// children by offsets relative to the record itself, so the block can be
// copied or moved as a whole. Leaf data lives outside the block and is
// reached through a slot index.
//
// Record layout (little-endian, 24 bytes):
//
//	+0  int32   name offset, relative to the record
//	+4  uint32  name length
//	+8  uint32  type index, NoIndex for the root
//	+12 uint32  data slot, NoIndex when the node has no data
//	+16 int32   first child offset, relative to the record
//	+20 uint32  child count
package vars

import (
	"encoding/binary"
	"strings"

	"meta/internal/rtti"
)

const (
	NodeSize = 24
	// NoIndex marks an absent type or data slot.
	NoIndex uint32 = 0xFFFFFFFF
)

const (
	offName       = 0
	offNameLen    = 4
	offType       = 8
	offSlot       = 12
	offChildren   = 16
	offChildCount = 20
)

// Tree is an immutable view over a built block.
type Tree struct {
	block []byte
	nodes int
	slots [][]byte
	table *rtti.Table
}

// Root returns the unnamed root node whose children are the registered
// variables.
func (t *Tree) Root() Node {
	return Node{t: t, off: 0}
}

// Len returns the number of nodes including the root.
func (t *Tree) Len() int { return t.nodes }

// Block returns the raw block; callers must not modify it.
func (t *Tree) Block() []byte { return t.block }

// Clone copies the block into fresh memory. Leaf data is shared.
func (t *Tree) Clone() *Tree {
	c := *t
	c.block = append([]byte(nil), t.block...)
	return &c
}

// Lookup resolves a dotted path from the root. The empty path is the root.
func (t *Tree) Lookup(path string) (Node, bool) {
	return t.Root().Lookup(path)
}

// Walk visits every node below the root depth-first, in declaration order.
func (t *Tree) Walk(fn func(path string, n Node) error) error {
	var walk func(prefix string, n Node) error
	walk = func(prefix string, n Node) error {
		for _, c := range n.Children() {
			p := c.Name()
			if prefix != "" {
				p = prefix + "." + p
			}
			if err := fn(p, c); err != nil {
				return err
			}
			if err := walk(p, c); err != nil {
				return err
			}
		}
		return nil
	}
	return walk("", t.Root())
}

// Node is a cursor over one record.
type Node struct {
	t   *Tree
	off int
}

func (n Node) u32(field int) uint32 {
	return binary.LittleEndian.Uint32(n.t.block[n.off+field:])
}

func (n Node) rel(field int) int {
	return n.off + int(int32(n.u32(field))) //nolint:gosec // stored as two's complement
}

// IsRoot reports whether n is the tree root.
func (n Node) IsRoot() bool { return n.off == 0 }

func (n Node) Name() string {
	size := int(n.u32(offNameLen))
	if size == 0 {
		return ""
	}
	start := n.rel(offName)
	return string(n.t.block[start : start+size])
}

// Type returns the declared type, nil for the root.
func (n Node) Type() *rtti.Type {
	idx := n.u32(offType)
	if idx == NoIndex {
		return nil
	}
	return n.t.table.Types()[idx]
}

// Data returns the window into the caller's buffer backing this node.
func (n Node) Data() []byte {
	slot := n.u32(offSlot)
	if slot == NoIndex {
		return nil
	}
	return n.t.slots[slot]
}

func (n Node) NumChildren() int { return int(n.u32(offChildCount)) }

// IsLeaf reports whether n carries a value rather than children.
func (n Node) IsLeaf() bool {
	return !n.IsRoot() && n.NumChildren() == 0
}

func (n Node) Children() []Node {
	count := n.NumChildren()
	if count == 0 {
		return nil
	}
	first := n.rel(offChildren)
	out := make([]Node, count)
	for i := range out {
		out[i] = Node{t: n.t, off: first + i*NodeSize}
	}
	return out
}

func (n Node) Child(name string) (Node, bool) {
	for _, c := range n.Children() {
		if c.Name() == name {
			return c, true
		}
	}
	return Node{}, false
}

// Lookup resolves a dotted path relative to n.
func (n Node) Lookup(path string) (Node, bool) {
	if path == "" {
		return n, true
	}
	cur := n
	for part := range strings.SplitSeq(path, ".") {
		next, ok := cur.Child(part)
		if !ok {
			return Node{}, false
		}
		cur = next
	}
	return cur, true
}
