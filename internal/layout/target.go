package layout

import "meta/internal/types"

// Target describes the data model layouts are computed for.
type Target struct {
	Name     string // e.g. "lp64"
	PtrSize  int    // bytes
	PtrAlign int    // bytes

	// PadStructTail rounds a struct's size up to its alignment, as C
	// compilers do. Without it the size ends at the last member.
	PadStructTail bool
}

// LP64 is the only supported target: 8-byte pointers, padded structs.
func LP64() Target {
	return Target{
		Name:          "lp64",
		PtrSize:       types.PointerWidth,
		PtrAlign:      types.PointerWidth,
		PadStructTail: true,
	}
}
