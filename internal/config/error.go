package config

import (
	"fmt"

	"fortio.org/safecast"

	"meta/internal/diag"
)

// Kind classifies config failures.
type Kind uint8

const (
	MissingNode Kind = iota + 1
	TypeMismatch
	Malformed
	Unsupported
	Syntax
)

func (k Kind) String() string {
	switch k {
	case MissingNode:
		return "missing node"
	case TypeMismatch:
		return "type mismatch"
	case Malformed:
		return "malformed literal"
	case Unsupported:
		return "unsupported"
	case Syntax:
		return "syntax"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Code maps the kind onto its diagnostic code.
func (k Kind) Code() diag.Code {
	switch k {
	case MissingNode:
		return diag.ConfigMissingNode
	case TypeMismatch:
		return diag.ConfigTypeMismatch
	case Malformed:
		return diag.ConfigMalformed
	case Unsupported:
		return diag.ConfigUnsupported
	case Syntax:
		return diag.ConfigSyntax
	default:
		return diag.ConfigInfo
	}
}

// Error is a config failure with its file position. Path and Line are empty
// when the error comes from Assign outside a file.
type Error struct {
	Path string
	Line int
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	if e.Path == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s:%d %s", e.Path, e.Line, e.Msg)
}

// Diagnostic converts e for rendering through diagfmt.
func (e *Error) Diagnostic() diag.Diagnostic {
	line, err := safecast.Conv[uint32](e.Line)
	if err != nil {
		line = 0
	}
	return diag.Diagnostic{
		Severity: diag.SevError,
		Code:     e.Kind.Code(),
		Message:  e.Msg,
		Path:     e.Path,
		Line:     line,
	}
}

func errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
