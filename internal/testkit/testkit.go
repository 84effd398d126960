// Package testkit compiles small annotated sources for runtime tests.
package testkit

import (
	"fmt"
	"strings"

	"meta/internal/diag"
	"meta/internal/layout"
	"meta/internal/parser"
	"meta/internal/rtti"
	"meta/internal/source"
	"meta/internal/typedb"
	"meta/internal/types"
)

// Compile parses srcs as a.h, b.h, ... then resolves commands and layouts.
func Compile(srcs ...string) (*parser.Context, error) {
	ctx := parser.NewContext()
	fs := source.NewFileSet()
	bag := diag.NewBag(8)
	for i, src := range srcs {
		name := string(rune('a'+i)) + ".h"
		f := fs.Get(fs.AddVirtual(name, []byte(src)))
		if res := parser.ParseFile(ctx, f, parser.Options{Reporter: diag.BagReporter{Bag: bag}}); res.Failed {
			return nil, fmt.Errorf("parse %s: %s", name, messages(bag))
		}
	}
	if err := ctx.Commands.Resolve(ctx.Types); err != nil {
		return nil, err
	}
	if err := layout.New(layout.LP64(), ctx.Types).Resolve(); err != nil {
		return nil, err
	}
	return ctx, nil
}

// Runtime compiles srcs and round-trips the result through a type database.
func Runtime(srcs ...string) (*rtti.Table, error) {
	ctx, err := Compile(srcs...)
	if err != nil {
		return nil, err
	}
	db, err := typedb.FromTable(ctx.Types, ctx.Commands)
	if err != nil {
		return nil, err
	}
	return rtti.FromDB(db)
}

// CheckLayoutInvariants verifies every laid-out struct:
// 1) members sit at offsets aligned to their own alignment
// 2) members do not overlap and fit inside the struct
// 3) the struct alignment is the max member alignment
func CheckLayoutInvariants(table *types.Table) error {
	for _, id := range table.Canonical() {
		ti := table.Get(id)
		if ti.Kind != types.KindStruct || ti.Align == 0 {
			continue
		}
		end, maxAlign := 0, 1
		for _, m := range table.Members(ti.Members) {
			mt := table.Get(m.Type)
			if mt.Align == 0 {
				continue
			}
			if m.Offset%mt.Align != 0 {
				return fmt.Errorf("%s.%s: offset %d not aligned to %d", ti.Name, m.Name, m.Offset, mt.Align)
			}
			if m.Offset < end {
				return fmt.Errorf("%s.%s: overlaps previous member", ti.Name, m.Name)
			}
			end = m.Offset + mt.Size
			maxAlign = max(maxAlign, mt.Align)
		}
		if end > ti.Size {
			return fmt.Errorf("%s: members end at %d past size %d", ti.Name, end, ti.Size)
		}
		if ti.Align != maxAlign {
			return fmt.Errorf("%s: align %d, want %d", ti.Name, ti.Align, maxAlign)
		}
	}
	return nil
}

func messages(bag *diag.Bag) string {
	items := bag.Items()
	out := make([]string, 0, len(items))
	for _, d := range items {
		out = append(out, d.Message)
	}
	return strings.Join(out, "; ")
}
