package driver

import (
	"errors"
	"fmt"
	"io/fs"

	"meta/internal/diag"
	"meta/internal/layout"
	"meta/internal/registry"
)

func usage(code diag.Code, format string, args ...any) error {
	return diag.NewFatal(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
	})
}

// resolveDiagnostic maps a registry failure onto its diagnostic.
func resolveDiagnostic(err error) diag.Diagnostic {
	d := diag.Diagnostic{Severity: diag.SevError, Code: diag.SemaMissingFunction, Message: err.Error()}
	var re *registry.ResolveError
	if errors.As(err, &re) {
		d.Path, d.Line, d.Message = re.Req.Path, re.Req.Line, re.Err.Error()
	}
	switch {
	case errors.Is(err, registry.ErrNotAFunction):
		d.Code = diag.SemaNotAFunction
	case errors.Is(err, registry.ErrDuplicate):
		d.Code = diag.SemaDuplicateCommand
	}
	return d
}

func layoutDiagnostic(err error) diag.Diagnostic {
	d := diag.Diagnostic{Severity: diag.SevError, Code: diag.LayoutUnknownType, Message: err.Error()}
	var le *layout.Error
	if errors.As(err, &le) {
		d.Path, d.Line = le.Path, le.Line
		if le.Kind == layout.ErrRecursive {
			d.Code = diag.LayoutRecursive
		}
	}
	return d
}

// unwrapPath drops the path prefix of an *fs.PathError; callers print the
// path themselves.
func unwrapPath(err error) error {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return pe.Err
	}
	return err
}
