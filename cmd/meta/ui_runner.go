package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"meta/internal/pipeline"
	"meta/internal/ui"
)

// wantTUI resolves --ui: "on" and "off" are forced, "auto" asks for a
// terminal on both stdin and stdout.
func wantTUI(cmd *cobra.Command) (bool, error) {
	value, _ := cmd.Root().PersistentFlags().GetString("ui")
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "", "auto":
		return isTerminal(os.Stdout) && isTerminal(os.Stdin), nil
	}
	return false, fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}

func newProgressProgram(title string, files []string, events <-chan pipeline.Event) *tea.Program {
	return tea.NewProgram(ui.NewProgressModel(title, files, events), tea.WithOutput(os.Stdout))
}

func newConsoleProgram(title string, exec ui.Executor) *tea.Program {
	return tea.NewProgram(ui.NewConsoleModel(title, exec), tea.WithAltScreen())
}

func runProgram(p *tea.Program) (tea.Model, error) {
	return p.Run()
}
