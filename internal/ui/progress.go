package ui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"meta/internal/pipeline"
)

// labels[stage] = {working, done}
var labels = map[pipeline.Stage][2]string{
	pipeline.StageLoad:    {"loading", "loaded"},
	pipeline.StageParse:   {"parsing", "parsed"},
	pipeline.StageResolve: {"resolving", "resolved"},
	pipeline.StageLayout:  {"laying out", "laid out"},
	pipeline.StageEmit:    {"emitting", "emitted"},
	pipeline.StageWrite:   {"writing", "written"},
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	busyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	idleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
)

const statusWidth = 12

type fileItem struct {
	path   string
	status string
	stage  pipeline.Stage
}

// progressModel draws one line per input file under a header naming the
// whole-run stage, and a bar below.
type progressModel struct {
	title      string
	events     <-chan pipeline.Event
	spinner    spinner.Model
	bar        progress.Model
	items      []fileItem
	stage      pipeline.Stage
	stageLabel string
	width      int
	failed     bool
	done       bool
	stopped    bool
}

type (
	eventMsg pipeline.Event
	doneMsg  struct{}
)

// NewProgressModel renders a meta run fed by events until the channel
// closes. files are the display names the driver uses in events.
func NewProgressModel(title string, files []string, events <-chan pipeline.Event) tea.Model {
	m := &progressModel{
		title:   title,
		events:  events,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(busyStyle)),
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(76)),
		width:   80,
	}
	for _, f := range files {
		m.items = append(m.items, fileItem{path: f, status: string(pipeline.StatusQueued)})
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next)
}

// next blocks on the event channel.
func (m *progressModel) next() tea.Msg {
	if ev, ok := <-m.events; ok {
		return eventMsg(ev)
	}
	return doneMsg{}
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case eventMsg:
		m.apply(pipeline.Event(msg))
		return m, tea.Batch(m.bar.SetPercent(m.percent()), m.next)
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.done, m.failed, m.stopped = true, true, true
			return m, tea.Quit
		}
	case spinner.TickMsg:
		if !m.done {
			m.spinner, cmd = m.spinner.Update(msg)
		}
	case progress.FrameMsg:
		var bar tea.Model
		bar, cmd = m.bar.Update(msg)
		m.bar = bar.(progress.Model)
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width, m.bar.Width = msg.Width, msg.Width-4
		}
	}
	return m, cmd
}

func (m *progressModel) apply(ev pipeline.Event) {
	m.failed = m.failed || ev.Status == pipeline.StatusError
	label := statusLabel(ev.Stage, ev.Status)
	if label == "" {
		return
	}
	if ev.File == "" {
		m.stage, m.stageLabel = ev.Stage, label
		return
	}
	// события о файлах вне списка игнорируются
	if i := slices.IndexFunc(m.items, func(it fileItem) bool { return it.path == ev.File }); i >= 0 {
		m.items[i].status, m.items[i].stage = label, ev.Stage
	}
}

func (m *progressModel) View() string {
	header := m.title
	if m.stageLabel != "" {
		header += " (" + m.stageLabel + ")"
	}
	switch {
	case !m.done:
		header = m.spinner.View() + " " + header
	case m.failed:
		header = "failed: " + header
	default:
		header = "done: " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header) + "\n\n")
	nameWidth := max(m.width-statusWidth-4, 20)
	for _, it := range m.items {
		status := statusStyle(it.status).Render(fmt.Sprintf("%*s", statusWidth, it.status))
		fmt.Fprintf(&b, "  %s %s\n", status, truncate(it.path, nameWidth))
	}
	b.WriteString("\n")
	if m.done && !m.failed {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	return b.String() + "\n"
}

// percent: per-file load and parse fill the first half of the bar, the
// whole-table stages the second.
func (m *progressModel) percent() float64 {
	var files float64
	for _, it := range m.items {
		switch {
		case it.status == "parsed" || it.status == string(pipeline.StatusError):
			files++
		case it.stage == pipeline.StageParse:
			files += 0.5
		case it.stage == pipeline.StageLoad && it.status == "loading":
			files += 0.2
		}
	}
	if len(m.items) > 0 {
		files /= float64(len(m.items))
	}

	var stage float64
	if m.stage == pipeline.StageWrite && m.stageLabel == labels[pipeline.StageWrite][1] {
		stage = 1
	} else if i := slices.Index(pipeline.Stages, m.stage); i > 1 {
		// resolve .2, layout .4, emit .6, write .8
		stage = float64(i-1) / 5
	}
	return 0.5*files + 0.5*stage
}

func statusLabel(stage pipeline.Stage, status pipeline.Status) string {
	switch status {
	case pipeline.StatusQueued, pipeline.StatusError:
		return string(status)
	case pipeline.StatusWorking:
		return labels[stage][0]
	case pipeline.StatusDone:
		if l, ok := labels[stage]; ok {
			return l[1]
		}
		return "done"
	}
	return ""
}

func statusStyle(status string) lipgloss.Style {
	switch status {
	case "parsed", "written":
		return okStyle
	case string(pipeline.StatusError):
		return errStyle
	case "loading", "parsing":
		return busyStyle
	}
	return idleStyle
}

func truncate(value string, width int) string {
	switch {
	case width <= 0 || runewidth.StringWidth(value) <= width:
		return value
	case width <= 3:
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}

// Interrupted reports whether the user closed a progress model with Ctrl+C
// before the run finished.
func Interrupted(m tea.Model) bool {
	pm, ok := m.(*progressModel)
	return ok && pm.stopped
}
