// Package command binds Go functions to introspected function types and runs
// them from typed command lines.
package command

import (
	"errors"
	"fmt"
	"slices"
	"strconv"

	"meta/internal/rtti"
	"meta/internal/types"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrNotAFunction   = errors.New("not a function")
	ErrDuplicate      = errors.New("command already registered")
	ErrSignature      = errors.New("signature mismatch")
	ErrArity          = errors.New("wrong number of arguments")
	ErrLiteral        = errors.New("bad argument")
)

// Trampoline has the uniform command shape: it unpacks args, calls the
// target and, for non-void functions, stores the result in args[0].
type Trampoline func(args []rtti.Any)

type Command struct {
	Name string
	Type *rtti.Type
	Call Trampoline
}

// Registry maps command names to trampolines.
type Registry struct {
	table *rtti.Table
	cmds  map[string]*Command
}

func NewRegistry(table *rtti.Table) *Registry {
	return &Registry{table: table, cmds: make(map[string]*Command)}
}

// Register installs call under fn's name.
func (r *Registry) Register(fn *rtti.Type, call Trampoline) error {
	if fn == nil || fn.Kind != types.KindFunction {
		return fmt.Errorf("%s: %w", fn, ErrNotAFunction)
	}
	if _, dup := r.cmds[fn.Name]; dup {
		return fmt.Errorf("%s: %w", fn.Name, ErrDuplicate)
	}
	r.cmds[fn.Name] = &Command{Name: fn.Name, Type: fn, Call: call}
	return nil
}

func (r *Registry) Lookup(name string) (*Command, bool) {
	c, ok := r.cmds[name]
	return c, ok
}

// Names returns the bound commands in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.cmds))
	for n := range r.cmds {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Unbound lists functions registered at generation time that have no Go
// binding yet.
func (r *Registry) Unbound() []string {
	var out []string
	for _, fn := range r.table.Commands() {
		if _, ok := r.cmds[fn.Name]; !ok {
			out = append(out, fn.Name)
		}
	}
	return out
}

// Invoke parses line as `name arg...` and runs the command. The result is
// valid only when ok is true, that is when the function returns a value.
func (r *Registry) Invoke(line string) (result rtti.Any, ok bool, err error) {
	words, err := Split(line)
	if err != nil {
		return rtti.Any{}, false, err
	}
	if len(words) == 0 {
		return rtti.Any{}, false, nil
	}
	return r.Call(words[0], words[1:])
}

// Call converts literal arguments to the command's argument types and runs it.
func (r *Registry) Call(name string, literals []string) (rtti.Any, bool, error) {
	c, found := r.cmds[name]
	if !found {
		return rtti.Any{}, false, fmt.Errorf("%s: %w", name, ErrUnknownCommand)
	}
	fn := c.Type
	if len(literals) != len(fn.Args) {
		return rtti.Any{}, false, fmt.Errorf("%s takes %d argument(s), got %d: %w", name, len(fn.Args), len(literals), ErrArity)
	}
	args := make([]rtti.Any, max(len(literals), 1))
	for i, lit := range literals {
		a, err := parseLiteral(fn.Args[i].Type, lit)
		if err != nil {
			return rtti.Any{}, false, fmt.Errorf("%s: argument %d (%s): %w", name, i+1, argLabel(fn.Args[i]), err)
		}
		args[i] = a
	}
	c.Call(args)
	if isVoid(fn.Return) {
		return rtti.Any{}, false, nil
	}
	return args[0], true, nil
}

func parseLiteral(t *rtti.Type, lit string) (rtti.Any, error) {
	switch {
	case t.IsString():
		return rtti.MakeString(t, lit), nil
	case t.Underlying().Kind == types.KindInteger:
		v, err := strconv.ParseInt(lit, 10, 64)
		if err != nil {
			return rtti.Any{}, fmt.Errorf("%q is not an integer: %w", lit, ErrLiteral)
		}
		a, err := rtti.MakeInt(t, v)
		if err != nil {
			return rtti.Any{}, fmt.Errorf("%w: %w", ErrLiteral, err)
		}
		return a, nil
	case t.Underlying().Kind == types.KindFloat:
		v, err := strconv.ParseFloat(lit, t.Underlying().Bits)
		if err != nil {
			return rtti.Any{}, fmt.Errorf("%q is not a number: %w", lit, ErrLiteral)
		}
		a, err := rtti.MakeFloat(t, v)
		if err != nil {
			return rtti.Any{}, fmt.Errorf("%w: %w", ErrLiteral, err)
		}
		return a, nil
	}
	return rtti.Any{}, fmt.Errorf("%s arguments cannot be typed: %w", t.Name, ErrLiteral)
}

func argLabel(a rtti.Arg) string {
	if a.Name == "" {
		return a.Type.Name
	}
	return a.Type.Name + " " + a.Name
}

func isVoid(t *rtti.Type) bool {
	u := t.Underlying()
	return u == nil || u.Kind == types.KindVoid
}
