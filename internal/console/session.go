// Package console executes developer console lines against a vars tree and
// a command registry.
package console

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"meta/internal/command"
	"meta/internal/config"
	"meta/internal/vars"
)

var (
	ErrNoNode = errors.New("no such variable")
	ErrUsage  = errors.New("usage")
)

type builtin struct {
	usage string
	help  string
}

var builtins = map[string]builtin{
	"get":      {"get <path>", "print a variable or every value under a section"},
	"set":      {"set <path> <value>", "assign a literal to a variable"},
	"list":     {"list [path]", "list the children of a section"},
	"help":     {"help", "show this text"},
	"commands": {"commands", "list registered commands"},
}

// Session is one console over a tree. Commands may be nil.
type Session struct {
	tree    *vars.Tree
	cmds    *command.Registry
	history []string
}

func New(tree *vars.Tree, cmds *command.Registry) *Session {
	return &Session{tree: tree, cmds: cmds}
}

// Exec runs one line and returns its output.
func (s *Session) Exec(line string) (string, error) {
	words, err := command.Split(line)
	if err != nil {
		return "", err
	}
	if len(words) == 0 {
		return "", nil
	}
	s.history = append(s.history, strings.TrimSpace(line))
	args := words[1:]
	switch words[0] {
	case "get":
		return s.get(args)
	case "set":
		return s.set(args)
	case "list":
		return s.list(args)
	case "help":
		return s.help()
	case "commands":
		return s.commands()
	}
	if s.cmds == nil {
		return "", fmt.Errorf("%s: %w", words[0], command.ErrUnknownCommand)
	}
	res, ok, err := s.cmds.Call(words[0], args)
	if err != nil || !ok {
		return "", err
	}
	return res.String(), nil
}

func (s *Session) History() []string { return s.history }

// Complete returns builtin names, command names and variable paths starting
// with prefix, sorted.
func (s *Session) Complete(prefix string) []string {
	var out []string
	for name := range builtins {
		if strings.HasPrefix(name, prefix) {
			out = append(out, name)
		}
	}
	if s.cmds != nil {
		for _, name := range s.cmds.Names() {
			if strings.HasPrefix(name, prefix) {
				out = append(out, name)
			}
		}
	}
	_ = s.tree.Walk(func(path string, _ vars.Node) error {
		if strings.HasPrefix(path, prefix) {
			out = append(out, path)
		}
		return nil
	})
	slices.Sort(out)
	return slices.Compact(out)
}

func (s *Session) lookup(path string) (vars.Node, error) {
	n, ok := s.tree.Lookup(path)
	if !ok {
		return vars.Node{}, fmt.Errorf("%s: %w", path, ErrNoNode)
	}
	return n, nil
}

func (s *Session) get(args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%w: %s", ErrUsage, builtins["get"].usage)
	}
	n, err := s.lookup(args[0])
	if err != nil {
		return "", err
	}
	if n.IsLeaf() {
		return valueLine(args[0], n), nil
	}
	var lines []string
	var walk func(prefix string, n vars.Node)
	walk = func(prefix string, n vars.Node) {
		for _, c := range n.Children() {
			p := prefix + "." + c.Name()
			if c.IsLeaf() {
				lines = append(lines, valueLine(p, c))
				continue
			}
			walk(p, c)
		}
	}
	walk(args[0], n)
	return strings.Join(lines, "\n"), nil
}

func (s *Session) set(args []string) (string, error) {
	if len(args) != 2 {
		return "", fmt.Errorf("%w: %s", ErrUsage, builtins["set"].usage)
	}
	n, err := s.lookup(args[0])
	if err != nil {
		return "", err
	}
	if cerr := config.Assign(n, args[0], args[1]); cerr != nil {
		return "", cerr
	}
	return valueLine(args[0], n), nil
}

func (s *Session) list(args []string) (string, error) {
	if len(args) > 1 {
		return "", fmt.Errorf("%w: %s", ErrUsage, builtins["list"].usage)
	}
	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	n, err := s.lookup(path)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for i, c := range n.Children() {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(c.Name())
		if !c.IsLeaf() {
			b.WriteByte('/')
		}
		b.WriteString(" " + c.Type().Name)
	}
	return b.String(), nil
}

func (s *Session) help() (string, error) {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	slices.Sort(names)
	lines := make([]string, 0, len(names)+1)
	for _, name := range names {
		b := builtins[name]
		lines = append(lines, fmt.Sprintf("%-20s %s", b.usage, b.help))
	}
	lines = append(lines, "any other line runs a registered command: <name> <args...>")
	return strings.Join(lines, "\n"), nil
}

func (s *Session) commands() (string, error) {
	if s.cmds == nil {
		return "", nil
	}
	out := strings.Join(s.cmds.Names(), "\n")
	if un := s.cmds.Unbound(); len(un) > 0 {
		if out != "" {
			out += "\n"
		}
		out += "unbound: " + strings.Join(un, ", ")
	}
	return out, nil
}

func valueLine(path string, n vars.Node) string {
	v, ok := config.Format(n)
	if !ok {
		v = "<" + n.Type().Name + ">"
	}
	return path + " = " + v
}
