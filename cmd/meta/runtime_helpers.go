package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"meta/internal/rtti"
	"meta/internal/vars"
)

var errNoVars = errors.New("no --var given")

func addRuntimeFlags(cmd *cobra.Command) {
	cmd.Flags().String("typedb", "", "type database written by meta --typedb (required)")
	cmd.Flags().StringArray("var", nil, "root variable as name=Type, repeatable")
	_ = cmd.MarkFlagRequired("typedb")
}

// loadRuntime reads the type database and builds a tree over zeroed buffers
// for every --var.
func loadRuntime(cmd *cobra.Command) (*rtti.Table, *vars.Tree, error) {
	dbPath, _ := cmd.Flags().GetString("typedb")
	specs, _ := cmd.Flags().GetStringArray("var")
	if len(specs) == 0 {
		return nil, nil, errNoVars
	}
	table, err := rtti.Load(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot read %s: %w", dbPath, err)
	}
	tree, err := buildTree(table, specs)
	if err != nil {
		return nil, nil, err
	}
	return table, tree, nil
}

func buildTree(table *rtti.Table, specs []string) (*vars.Tree, error) {
	b := vars.NewBuilder(table)
	b.Begin()
	for _, spec := range specs {
		name, typeName, ok := strings.Cut(spec, "=")
		if !ok {
			return nil, fmt.Errorf("--var %q: expected name=Type", spec)
		}
		t, ok := table.Lookup(strings.TrimSpace(typeName))
		if !ok {
			return nil, fmt.Errorf("--var %q: unknown type %s", spec, typeName)
		}
		if err := b.AddValue(t, make([]byte, t.Underlying().Size), strings.TrimSpace(name)); err != nil {
			return nil, fmt.Errorf("--var %q: %w", spec, err)
		}
	}
	return b.End()
}

func isTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isTerminal(f)
}
