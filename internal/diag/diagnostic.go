package diag

import (
	"fmt"

	"meta/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Path     string // logical path of the file, or "" for usage errors
	Line     uint32 // 1-based; 0 when the diagnostic has no line
	Primary  source.Span
	Notes    []Note
}

// Location renders the "<file>:<line>" prefix, omitting missing parts.
func (d Diagnostic) Location() string {
	switch {
	case d.Path == "":
		return ""
	case d.Line == 0:
		return d.Path
	default:
		return fmt.Sprintf("%s:%d", d.Path, d.Line)
	}
}

// String renders the diagnostic as one line.
func (d Diagnostic) String() string {
	if loc := d.Location(); loc != "" {
		return loc + " " + d.Message
	}
	return d.Message
}
