package types

import "fmt"

// TypeID indexes a descriptor in the type arena. IDs stay valid for the whole
// run, including across promotion of an UNKNOWN placeholder.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// PointerWidth is the size and alignment of every pointer. It is fixed, not
// detected from the host.
const PointerWidth = 8

// Kind enumerates descriptor variants.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindInteger
	KindFloat
	KindBool
	KindVoid
	KindPointer
	KindTypedef
	KindStruct
	KindFunction
	KindArray // reserved
	KindEnum  // reserved
)

func (k Kind) String() string {
	switch k {
	case KindUnknown:
		return "unknown"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindVoid:
		return "void"
	case KindPointer:
		return "pointer"
	case KindTypedef:
		return "typedef"
	case KindStruct:
		return "struct"
	case KindFunction:
		return "function"
	case KindArray:
		return "array"
	case KindEnum:
		return "enum"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Slice is a (base, count) window into the member or argument arena.
type Slice struct {
	Base  uint32
	Count uint32
}

// StructMember is one field of a struct descriptor.
type StructMember struct {
	Type   TypeID
	Name   string
	Offset int
}

// FunctionArg is one parameter of a function descriptor.
type FunctionArg struct {
	Type TypeID
	Name string
}

// TypeInfo is the descriptor of one distinct type name.
// Only the payload fields of Kind are meaningful.
type TypeInfo struct {
	Name  string // source spelling, "char**" for pointers
	Key   string // enum-safe spelling, "char_ptr_ptr"
	Size  int
	Align int
	Kind  Kind

	// Tag is the keyword C needs in front of Name ("struct" for a struct
	// known only by its tag), "" otherwise.
	Tag string

	// KindInteger, KindFloat
	Bits   int
	Signed bool

	// KindPointer
	Pointee TypeID

	// KindTypedef
	Aliased TypeID

	// KindStruct
	Members Slice

	// KindFunction
	Return TypeID
	Args   Slice
	File   string // logical path of the declaring file

	// KindArray
	Elem   TypeID
	Length int

	// where the descriptor was defined, for diagnostics
	DeclPath string
	DeclLine uint32
}

// Defined reports whether the descriptor is anything but a placeholder.
func (t *TypeInfo) Defined() bool {
	return t.Kind != KindUnknown
}

// Descriptor helpers ---------------------------------------------------------

// Integer describes a bits-wide integer.
func Integer(bits int, signed bool) TypeInfo {
	return TypeInfo{Kind: KindInteger, Bits: bits, Signed: signed, Size: bits / 8, Align: bits / 8}
}

// Float describes a bits-wide IEEE float.
func Float(bits int) TypeInfo {
	return TypeInfo{Kind: KindFloat, Bits: bits, Size: bits / 8, Align: bits / 8}
}

// Typedef describes an alias of aliased.
func Typedef(aliased TypeID) TypeInfo {
	return TypeInfo{Kind: KindTypedef, Aliased: aliased}
}

// Struct describes a struct whose members live at members.
func Struct(members Slice) TypeInfo {
	return TypeInfo{Kind: KindStruct, Members: members}
}

// Function describes a function signature declared in file.
func Function(ret TypeID, args Slice, file string) TypeInfo {
	return TypeInfo{Kind: KindFunction, Return: ret, Args: args, File: file}
}
