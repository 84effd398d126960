package layout

import (
	"fmt"
	"strings"
)

// ErrorKind enumerates layout failures.
type ErrorKind uint8

const (
	// ErrUnknownType: a size depends on a type that was never defined.
	ErrUnknownType ErrorKind = iota + 1
	// ErrRecursive: a struct contains itself by value.
	ErrRecursive
)

// Error is a layout failure. Chain lists the types being resolved, outermost
// first; Type is the offending one.
type Error struct {
	Kind  ErrorKind
	Type  string
	Chain []string

	// declaration of the outermost type, when known
	Path string
	Line uint32
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	outer := e.Type
	if len(e.Chain) > 0 {
		outer = e.Chain[0]
	}
	switch e.Kind {
	case ErrUnknownType:
		return fmt.Sprintf("Couldn't calculate size of %s: type %s is UNKNOWN", outer, e.Type)
	case ErrRecursive:
		return fmt.Sprintf("Couldn't calculate size of %s: %s contains itself (%s)",
			outer, e.Type, strings.Join(append(e.Chain, e.Type), " -> "))
	default:
		return fmt.Sprintf("layout error kind=%d type %s", e.Kind, e.Type)
	}
}
