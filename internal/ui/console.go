package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Executor runs one console line.
type Executor interface {
	Exec(line string) (string, error)
	Complete(prefix string) []string
}

type consoleEntry struct {
	input  string
	output string
	err    bool
}

type consoleModel struct {
	title   string
	exec    Executor
	input   textinput.Model
	log     []consoleEntry
	history []string
	cursor  int
	height  int
}

const consoleScrollback = 200

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// NewConsoleModel returns a line-oriented console over exec. "exit" and
// "quit" leave it; Tab completes the last word.
func NewConsoleModel(title string, exec Executor) tea.Model {
	in := textinput.New()
	in.Prompt = "> "
	in.PromptStyle = promptStyle
	in.Placeholder = "help"
	in.Focus()
	return &consoleModel{title: title, exec: exec, input: in, height: 24}
}

func (m *consoleModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *consoleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.input.Width = max(msg.Width-4, 10)
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m, m.submit()
		case tea.KeyUp:
			m.recall(-1)
			return m, nil
		case tea.KeyDown:
			m.recall(1)
			return m, nil
		case tea.KeyTab:
			m.complete()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *consoleModel) submit() tea.Cmd {
	line := strings.TrimSpace(m.input.Value())
	m.input.Reset()
	if line == "" {
		return nil
	}
	if line == "exit" || line == "quit" {
		return tea.Quit
	}
	m.history = append(m.history, line)
	m.cursor = len(m.history)

	out, err := m.exec.Exec(line)
	entry := consoleEntry{input: line, output: out}
	if err != nil {
		entry.output, entry.err = err.Error(), true
	}
	m.log = append(m.log, entry)
	if len(m.log) > consoleScrollback {
		m.log = m.log[len(m.log)-consoleScrollback:]
	}
	return nil
}

func (m *consoleModel) recall(delta int) {
	if len(m.history) == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.history))
	if m.cursor == len(m.history) {
		m.input.SetValue("")
		return
	}
	m.input.SetValue(m.history[m.cursor])
	m.input.CursorEnd()
}

func (m *consoleModel) complete() {
	value := m.input.Value()
	start := strings.LastIndexAny(value, " \t") + 1
	matches := m.exec.Complete(value[start:])
	if len(matches) == 0 {
		return
	}
	word := matches[0]
	for _, other := range matches[1:] {
		word = commonPrefix(word, other)
	}
	m.input.SetValue(value[:start] + word)
	m.input.CursorEnd()
}

func (m *consoleModel) View() string {
	var lines []string
	for _, e := range m.log {
		lines = append(lines, promptStyle.Render("> ")+e.input)
		if e.output == "" {
			continue
		}
		style := lipgloss.NewStyle()
		if e.err {
			style = errorStyle
		}
		for l := range strings.SplitSeq(e.output, "\n") {
			lines = append(lines, style.Render(l))
		}
	}
	// title, blank, input, hint
	if room := m.height - 4; room > 0 && len(lines) > room {
		lines = lines[len(lines)-room:]
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(m.title))
	b.WriteString("\n")
	for _, l := range lines {
		b.WriteString(l)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("tab completes, up/down history, esc quits"))
	return b.String()
}

func commonPrefix(a, b string) string {
	n := min(len(a), len(b))
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return a[:i]
}
