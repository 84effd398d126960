// Package config loads and writes the line-oriented text format that sets
// leaves of a vars tree:
//
//	# comment
//	[console]
//	speed 7
//	open_percent 0.5
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"meta/internal/vars"
)

// Load reads the file at path and applies it to tree. The first failure
// stops loading; leaves assigned before it keep their new values.
func Load(path string, tree *vars.Tree) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f, path, tree)
}

// Parse applies config text from r to tree. name labels errors.
func Parse(r io.Reader, name string, tree *vars.Tree) error {
	sc := bufio.NewScanner(r)
	section, sectionPath := tree.Root(), ""
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		var cerr *Error
		if strings.HasPrefix(text, "[") {
			section, sectionPath, cerr = enter(tree, text)
		} else {
			cerr = assign(section, sectionPath, text)
		}
		if cerr != nil {
			cerr.Path, cerr.Line = name, line
			return cerr
		}
	}
	if err := sc.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return &Error{Path: name, Line: line + 1, Kind: Syntax, Msg: "line too long"}
		}
		return fmt.Errorf("cannot read %s: %w", name, err)
	}
	return nil
}

func enter(tree *vars.Tree, text string) (vars.Node, string, *Error) {
	if !strings.HasSuffix(text, "]") {
		return vars.Node{}, "", errorf(Syntax, "unterminated section %s", text)
	}
	parts := strings.Split(text[1:len(text)-1], ".")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
		if parts[i] == "" {
			return vars.Node{}, "", errorf(Syntax, "empty name in section %s", text)
		}
	}
	path := strings.Join(parts, ".")
	n, ok := tree.Lookup(path)
	if !ok {
		return vars.Node{}, "", errorf(MissingNode, "section [%s] names no node", path)
	}
	if n.IsLeaf() {
		return vars.Node{}, "", errorf(TypeMismatch, "%s is a value, not a section", path)
	}
	return n, path, nil
}

func assign(section vars.Node, sectionPath, text string) *Error {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return errorf(Syntax, "expected `key value`, got %q", text)
	}
	key, literal := fields[0], fields[1]
	path := key
	if sectionPath != "" {
		path = sectionPath + "." + key
	}
	n, ok := section.Lookup(key)
	if !ok {
		return errorf(MissingNode, "no node %s", path)
	}
	return Assign(n, path, literal)
}
