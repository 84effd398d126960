package diag

import (
	"errors"
	"fmt"
)

// Fatal is the error returned by a phase that stopped on a diagnostic.
type Fatal struct {
	Diag Diagnostic
}

// NewFatal wraps d.
func NewFatal(d Diagnostic) *Fatal {
	return &Fatal{Diag: d}
}

func (f *Fatal) Error() string {
	if f == nil {
		return "<nil>"
	}
	return f.Diag.String()
}

// AsFatal extracts the diagnostic carried by err, if any.
func AsFatal(err error) (Diagnostic, bool) {
	var f *Fatal
	if errors.As(err, &f) && f != nil {
		return f.Diag, true
	}
	return Diagnostic{}, false
}

// FromBag returns a *Fatal for the first error in bag, or nil.
func FromBag(bag *Bag) error {
	if bag == nil {
		return nil
	}
	if d, ok := bag.FirstError(); ok {
		return NewFatal(d)
	}
	return nil
}

func sprintf(format string, args ...any) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
