package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"meta/internal/config"
	"meta/internal/diag"
	"meta/internal/diagfmt"
	"meta/internal/version"
)

// newRootCmd builds the command tree. The root command itself is the
// generator: meta --in a.h --in b.c --out build.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "meta --in <file>... --out <dir>",
		Short: "Introspection and command registration for C sources",
		Long: `meta reads C sources annotated with @Introspect and @RegisterCommand,
writes copies with the annotations blanked out and generates
src/meta_generated.h with the type table and command trampolines.`,
		Args:          cobra.NoArgs,
		RunE:          runGenerate,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.Version = version.Version

	// Глобальные флаги
	root.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	root.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	root.PersistentFlags().Int("max-diagnostics", 64, "maximum number of diagnostics to collect")
	root.PersistentFlags().String("ui", "auto", "progress UI (auto|on|off)")
	root.PersistentFlags().String("trace", "", "trace output file (- for stderr)")
	root.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	root.PersistentFlags().String("trace-format", "text", "trace format (text|ndjson)")
	root.PersistentFlags().Int("trace-ring-size", 4096, "events kept in ring mode")
	root.PersistentFlags().String("cpu-profile", "", "write a CPU profile to this file")
	root.PersistentFlags().String("mem-profile", "", "write a heap profile to this file on exit")
	root.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace to this file")

	addGenerateFlags(root)

	root.AddCommand(newTokenizeCmd())
	root.AddCommand(newConfigCmd())
	root.AddCommand(newConsoleCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// main normalizes the single-dash -in/-out spelling, executes the command
// tree and exits with status 1 after printing one line per failure.
func main() {
	root := newRootCmd()
	root.SetArgs(normalizeArgs(os.Args[1:]))
	if err := root.Execute(); err != nil {
		printError(os.Stderr, err, useColor(root, os.Stderr))
		os.Exit(1)
	}
}

// normalizeArgs rewrites `-in a b c -out d` into `--in a --in b --in c
// --out d`. Everything after "--" is left alone.
func normalizeArgs(args []string) []string {
	out := make([]string, 0, len(args)+4)
	inList := false
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--":
			return append(out, args[i:]...)
		case a == "-in":
			inList = true
			continue
		case a == "-out":
			inList = false
			out = append(out, "--out")
			continue
		case inList && !strings.HasPrefix(a, "-"):
			out = append(out, "--in", a)
			continue
		}
		inList = false
		out = append(out, a)
	}
	return out
}

func printError(w io.Writer, err error, color bool) {
	opts := diagfmt.Options{Color: color}
	if d, ok := diag.AsFatal(err); ok {
		diagfmt.Pretty(w, []diag.Diagnostic{d}, nil, opts)
		return
	}
	var cerr *config.Error
	if errors.As(err, &cerr) {
		diagfmt.Pretty(w, []diag.Diagnostic{cerr.Diagnostic()}, nil, opts)
		return
	}
	fmt.Fprintln(w, err)
}

func useColor(cmd *cobra.Command, w io.Writer) bool {
	colorFlag, _ := cmd.Root().PersistentFlags().GetString("color")
	return colorFlag == "on" || (colorFlag == "auto" && isTerminalWriter(w))
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits int
}
