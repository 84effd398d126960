package diag

import "meta/internal/source"

// Reporter receives diagnostics from the scanner and the parser.
type Reporter interface {
	Report(d Diagnostic)
}

// BagReporter пишет в *Bag; нулевое значение всё отбрасывает.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag != nil {
		r.Bag.Add(d)
	}
}

// Errorf builds an error diagnostic at path:line.
func Errorf(code Code, path string, line uint32, sp source.Span, format string, args ...any) Diagnostic {
	d := Diagnostic{Severity: SevError, Code: code, Path: path, Line: line, Primary: sp}
	d.Message = sprintf(format, args...)
	return d
}
