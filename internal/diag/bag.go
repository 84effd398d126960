package diag

import (
	"cmp"
	"slices"
)

// Bag collects diagnostics up to a cap; the rest are dropped.
type Bag struct {
	items []Diagnostic
	limit int
}

// NewBag keeps at most limit diagnostics, and at least one.
func NewBag(limit int) *Bag {
	return &Bag{limit: max(limit, 1)}
}

// Add reports whether d fit under the cap.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) == b.limit {
		return false
	}
	b.items = append(b.items, d)
	return true
}

// Report makes *Bag a Reporter.
func (b *Bag) Report(d Diagnostic) { b.Add(d) }

// FirstError returns the earliest diagnostic that stops a run.
func (b *Bag) FirstError() (Diagnostic, bool) {
	i := slices.IndexFunc(b.items, func(d Diagnostic) bool { return d.Severity.IsError() })
	if i < 0 {
		return Diagnostic{}, false
	}
	return b.items[i], true
}

// HasErrors возвращает true, если есть хотя бы одна ошибка
func (b *Bag) HasErrors() bool {
	_, ok := b.FirstError()
	return ok
}

func (b *Bag) Len() int { return len(b.items) }

// Items is the backing slice, not a copy.
func (b *Bag) Items() []Diagnostic { return b.items }

// Sort orders by path, then line, errors before the rest at one line.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Path, y.Path),
			cmp.Compare(x.Line, y.Line),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code, y.Code),
		)
	})
}
