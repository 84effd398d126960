package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"meta/internal/command"
	"meta/internal/config"
	"meta/internal/console"
)

func newConsoleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "console --typedb db --var name=Type...",
		Short: "Inspect and set runtime variables interactively",
		Long: `console opens a developer console over the variables described by --var.
Without a terminal it reads one command per line from stdin.`,
		Args: cobra.NoArgs,
		RunE: runConsole,
	}
	addRuntimeFlags(cmd)
	cmd.Flags().String("config", "", "config file applied before the console starts")
	return cmd
}

func runConsole(cmd *cobra.Command, _ []string) error {
	table, tree, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		if err := config.Load(path, tree); err != nil {
			return err
		}
	}
	session := console.New(tree, command.NewRegistry(table))

	tui, err := wantTUI(cmd)
	if err != nil {
		return err
	}
	if tui {
		_, err := runProgram(newConsoleProgram("meta console", session))
		return err
	}
	return consoleLoop(cmd, session)
}

// consoleLoop is the non-interactive console: outputs go to stdout, errors
// to stderr, one line each.
func consoleLoop(cmd *cobra.Command, session *console.Session) error {
	sc := bufio.NewScanner(cmd.InOrStdin())
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "exit" || line == "quit" {
			break
		}
		res, err := session.Exec(line)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			continue
		}
		if res != "" {
			fmt.Fprintln(out, res)
		}
	}
	return sc.Err()
}
