// Package registry holds the functions marked with @RegisterCommand.
package registry

import (
	"errors"
	"fmt"
	"slices"

	"meta/internal/source"
	"meta/internal/types"
)

var (
	ErrMissingFunction = errors.New("missing function definition")
	ErrNotAFunction    = errors.New("not a function")
	ErrDuplicate       = errors.New("command registered twice")
)

// Pending is a registration request waiting for the function to be known.
type Pending struct {
	Name string
	Path string
	Line uint32
}

// Registry is the ordered list of registered functions and the set of
// headers that declare them.
type Registry struct {
	pending  []Pending
	commands []types.TypeID
	seen     map[types.TypeID]struct{}
	headers  []string
}

func New() *Registry {
	return &Registry{seen: make(map[types.TypeID]struct{})}
}

// Request records that name should become a command once every file has
// been parsed.
func (r *Registry) Request(name, path string, line uint32) {
	r.pending = append(r.pending, Pending{Name: name, Path: path, Line: line})
}

// Pending returns the unresolved requests in arrival order.
func (r *Registry) Pending() []Pending {
	return r.pending
}

// Add registers fn directly. The function's declaring file is added to the
// include set when it is a header.
func (r *Registry) Add(table *types.Table, fn types.TypeID) error {
	ti := table.Get(fn)
	if ti == nil {
		return ErrMissingFunction
	}
	switch ti.Kind {
	case types.KindFunction:
	case types.KindUnknown:
		return fmt.Errorf("%s: %w", ti.Name, ErrMissingFunction)
	default:
		return fmt.Errorf("%s is a %s: %w", ti.Name, ti.Kind, ErrNotAFunction)
	}
	if _, dup := r.seen[fn]; dup {
		return fmt.Errorf("%s: %w", ti.Name, ErrDuplicate)
	}
	r.seen[fn] = struct{}{}
	r.commands = append(r.commands, fn)
	if source.IsHeader(ti.File) && !slices.Contains(r.headers, ti.File) {
		r.headers = append(r.headers, ti.File)
	}
	return nil
}

// ResolveError ties a failed request to its source position.
type ResolveError struct {
	Req Pending
	Err error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("%s:%d %v", e.Req.Path, e.Req.Line, e.Err)
}

func (e *ResolveError) Unwrap() error { return e.Err }

// Resolve turns every pending request into a registration. It stops at the
// first request that cannot be satisfied.
func (r *Registry) Resolve(table *types.Table) error {
	pending := r.pending
	r.pending = nil
	for _, req := range pending {
		id, ok := table.Lookup(req.Name)
		if !ok {
			return &ResolveError{Req: req, Err: fmt.Errorf("%s: %w", req.Name, ErrMissingFunction)}
		}
		if err := r.Add(table, id); err != nil {
			return &ResolveError{Req: req, Err: err}
		}
	}
	return nil
}

// Commands returns registered functions in registration order.
func (r *Registry) Commands() []types.TypeID {
	return r.commands
}

// Has reports whether fn is registered.
func (r *Registry) Has(fn types.TypeID) bool {
	_, ok := r.seen[fn]
	return ok
}

// Headers returns the unique declaring headers, sorted.
func (r *Registry) Headers() []string {
	out := slices.Clone(r.headers)
	slices.Sort(out)
	return out
}
