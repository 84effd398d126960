// Package emit writes the generated C header from a resolved type table and
// command registry.
package emit

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"meta/internal/registry"
	"meta/internal/types"
)

// HeaderName is the file name of the generated header under <out>/src.
const HeaderName = "meta_generated.h"

// IncludeDir is the logical directory the header is written to; registered
// headers are included relative to it.
const IncludeDir = "src"

type Options struct {
	// IncludeDir overrides the directory include paths are relative to.
	IncludeDir string
}

// Emitter renders one header.
type Emitter struct {
	types    *types.Table
	commands *registry.Registry
	opts     Options
	buf      strings.Builder

	order      []types.TypeID
	memberBase map[types.TypeID]int
	argBase    map[types.TypeID]int
	members    []types.StructMember
	args       []types.FunctionArg
}

// Header renders the generated header. The output depends only on the set of
// types and commands, not on the order annotations were met in a file.
func Header(table *types.Table, commands *registry.Registry, opts Options) (string, error) {
	if opts.IncludeDir == "" {
		opts.IncludeDir = IncludeDir
	}
	e := &Emitter{
		types:      table,
		commands:   commands,
		opts:       opts,
		memberBase: make(map[types.TypeID]int),
		argBase:    make(map[types.TypeID]int),
	}
	e.collect()
	if err := e.emitPreamble(); err != nil {
		return "", err
	}
	e.emitEnum()
	e.emitArgs()
	e.emitMembers()
	e.emitTable()
	e.emitTrampolines()
	e.emitRegister()
	e.buf.WriteString("#endif // META_GENERATED_H\n")
	return e.buf.String(), nil
}

// collect fixes the canonical type order and lays the member and argument
// arrays out in that order.
func (e *Emitter) collect() {
	e.order = e.types.Canonical()
	for _, id := range e.order {
		ti := e.types.Get(id)
		switch ti.Kind {
		case types.KindStruct:
			e.memberBase[id] = len(e.members)
			e.members = append(e.members, e.types.Members(ti.Members)...)
		case types.KindFunction:
			e.argBase[id] = len(e.args)
			e.args = append(e.args, e.types.Args(ti.Args)...)
		}
	}
}

func (e *Emitter) emitPreamble() error {
	e.buf.WriteString(banner)
	e.buf.WriteString("#ifndef META_GENERATED_H\n#define META_GENERATED_H\n\n")
	e.buf.WriteString("#include \"typeinfo.h\"\n#include \"command.h\"\n")
	headers := e.commands.Headers()
	includes := make([]string, 0, len(headers))
	for _, h := range headers {
		rel, err := filepath.Rel(filepath.FromSlash(e.opts.IncludeDir), filepath.FromSlash(h))
		if err != nil {
			return fmt.Errorf("include %s: %w", h, err)
		}
		includes = append(includes, filepath.ToSlash(rel))
	}
	slices.Sort(includes)
	if len(includes) > 0 {
		e.buf.WriteString("\n")
	}
	for _, inc := range slices.Compact(includes) {
		fmt.Fprintf(&e.buf, "#include %s\n", cstring(inc))
	}
	fmt.Fprintf(&e.buf, "\n#define META_POINTER_WIDTH %d\n", types.PointerWidth)
	e.buf.WriteString("#define META_TYPE(x) META_TYPE_##x\n")
	e.buf.WriteString("#define TYPE_OF(x) (&META_TYPE_TABLE[META_TYPE(x)])\n\n")
	e.buf.WriteString("#ifndef COMMAND_PREFIX\n#define COMMAND_PREFIX(x) command_##x\n#endif\n\n")
	return nil
}

func (e *Emitter) emitEnum() {
	e.buf.WriteString("typedef enum Meta_Type {\n")
	for _, id := range e.order {
		fmt.Fprintf(&e.buf, "    META_TYPE(%s),\n", e.types.Get(id).Key)
	}
	e.buf.WriteString("    META_TYPE_COUNT\n} Meta_Type;\n\n")
	e.buf.WriteString("extern Type_Info META_TYPE_TABLE[META_TYPE_COUNT];\n\n")
}

func (e *Emitter) emitArgs() {
	e.buf.WriteString("Function_Arg META_TYPE_FUNCTION_ARGS[] = {\n")
	if len(e.args) == 0 {
		e.buf.WriteString("    {0},\n")
	}
	for _, a := range e.args {
		fmt.Fprintf(&e.buf, "    {%s, %s},\n", e.typeOf(a.Type), cstring(a.Name))
	}
	e.buf.WriteString("};\n\n")
}

func (e *Emitter) emitMembers() {
	e.buf.WriteString("Struct_Member META_TYPE_STRUCT_MEMBERS[] = {\n")
	if len(e.members) == 0 {
		e.buf.WriteString("    {0},\n")
	}
	for _, m := range e.members {
		fmt.Fprintf(&e.buf, "    {%s, %s, %d},\n", e.typeOf(m.Type), cstring(m.Name), m.Offset)
	}
	e.buf.WriteString("};\n\n")
}

func (e *Emitter) emitTable() {
	e.buf.WriteString("Type_Info META_TYPE_TABLE[META_TYPE_COUNT] = {\n")
	for _, id := range e.order {
		ti := e.types.Get(id)
		fmt.Fprintf(&e.buf, "    [META_TYPE(%s)] = {\n", ti.Key)
		fmt.Fprintf(&e.buf, "        .name = %s, .size = %d, .align = %d, .kind = %s,\n",
			cstring(ti.Name), ti.Size, ti.Align, kindTag(ti.Kind))
		if payload := e.payload(id, ti); payload != "" {
			fmt.Fprintf(&e.buf, "        %s,\n", payload)
		}
		e.buf.WriteString("    },\n")
	}
	e.buf.WriteString("};\n\n")
}

func (e *Emitter) payload(id types.TypeID, ti *types.TypeInfo) string {
	switch ti.Kind {
	case types.KindInteger:
		return fmt.Sprintf(".integer = {.bits = %d, .is_signed = %d}", ti.Bits, boolInt(ti.Signed))
	case types.KindFloat:
		return fmt.Sprintf(".floating = {.bits = %d}", ti.Bits)
	case types.KindPointer:
		return fmt.Sprintf(".pointer = {.pointee = %s}", e.typeOf(ti.Pointee))
	case types.KindTypedef:
		return fmt.Sprintf(".type_def = {.aliased = %s}", e.typeOf(ti.Aliased))
	case types.KindStruct:
		return fmt.Sprintf(".structure = {.members = %s, .member_count = %d}",
			arrayRef("META_TYPE_STRUCT_MEMBERS", e.memberBase[id], ti.Members.Count), ti.Members.Count)
	case types.KindFunction:
		return fmt.Sprintf(".function = {.return_type = %s, .args = %s, .arg_count = %d, .defined_in_file = %s}",
			e.typeOf(ti.Return), arrayRef("META_TYPE_FUNCTION_ARGS", e.argBase[id], ti.Args.Count),
			ti.Args.Count, cstring(ti.File))
	}
	return ""
}

// commandOrder returns registered functions sorted by name.
func (e *Emitter) commandOrder() []types.TypeID {
	out := slices.Clone(e.commands.Commands())
	slices.SortFunc(out, func(a, b types.TypeID) int {
		return strings.Compare(e.types.Get(a).Key, e.types.Get(b).Key)
	})
	return out
}

func (e *Emitter) emitTrampolines() {
	for _, id := range e.commandOrder() {
		fn := e.types.Get(id)
		args := e.types.Args(fn.Args)
		fmt.Fprintf(&e.buf, "void COMMAND_PREFIX(%s)(Any* args, unsigned count) {\n", fn.Key)
		e.buf.WriteString("    (void)count;\n")

		call := make([]string, len(args))
		for i, a := range args {
			call[i] = fmt.Sprintf("*(%s*)args[%d].data", e.types.CName(a.Type), i)
		}
		invoke := fmt.Sprintf("%s(%s)", fn.Name, strings.Join(call, ", "))

		// typedef void Nothing; возвращает void
		if e.returnsVoid(fn) {
			fmt.Fprintf(&e.buf, "    %s;\n", invoke)
		} else {
			fmt.Fprintf(&e.buf, "    static %s result;\n", e.types.CName(fn.Return))
			fmt.Fprintf(&e.buf, "    result = %s;\n", invoke)
			fmt.Fprintf(&e.buf, "    args[0].type = TYPE_OF(%s);\n", e.types.Get(fn.Return).Key)
			e.buf.WriteString("    args[0].data = &result;\n")
		}
		e.buf.WriteString("}\n\n")
	}
}

func (e *Emitter) emitRegister() {
	e.buf.WriteString("void register_all_commands(void) {\n")
	for _, id := range e.commandOrder() {
		key := e.types.Get(id).Key
		fmt.Fprintf(&e.buf, "    command_register(TYPE_OF(%s), COMMAND_PREFIX(%s));\n", key, key)
	}
	e.buf.WriteString("}\n\n")
}

func (e *Emitter) returnsVoid(fn *types.TypeInfo) bool {
	ret := e.types.Get(e.types.Underlying(fn.Return))
	return ret == nil || ret.Kind == types.KindVoid
}

func (e *Emitter) typeOf(id types.TypeID) string {
	ti := e.types.Get(id)
	if ti == nil {
		return "0"
	}
	return "TYPE_OF(" + ti.Key + ")"
}
