// Package tui implements the local live viewer: a three-pane terminal UI
// fed by the same FollowTraces/FollowLogs/FollowMetrics streams the CLI's
// follow subcommands use, kept in a small ring buffer per signal so the
// view never grows unbounded.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const maxLines = 200

// Pane identifies one of the three signal feeds.
type Pane int

const (
	PaneTraces Pane = iota
	PaneLogs
	PaneMetrics
)

func (p Pane) String() string {
	switch p {
	case PaneTraces:
		return "Traces"
	case PaneLogs:
		return "Logs"
	case PaneMetrics:
		return "Metrics"
	default:
		return "?"
	}
}

// Line is one rendered row destined for a pane, produced by the caller
// (typically from a packed query row) and fed into the model over Updates.
type Line struct {
	Pane Pane
	Text string
}

// Updates is the channel the caller pushes Lines onto; the model drains it
// via a tea.Cmd so bubbletea's event loop stays the only place rendering
// happens.
type Updates <-chan Line

// Model is the bubbletea model for the viewer: a ring buffer per pane plus
// which pane currently has focus.
type Model struct {
	updates Updates
	active  Pane
	buffers map[Pane][]string
	width   int
	height  int
	quitting bool
}

func New(updates Updates) Model {
	return Model{
		updates: updates,
		active:  PaneTraces,
		buffers: map[Pane][]string{
			PaneTraces:  nil,
			PaneLogs:    nil,
			PaneMetrics: nil,
		},
	}
}

func (m Model) Init() tea.Cmd {
	return waitForLine(m.updates)
}

type lineMsg Line

func waitForLine(updates Updates) tea.Cmd {
	return func() tea.Msg {
		line, ok := <-updates
		if !ok {
			return nil
		}
		return lineMsg(line)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "tab", "right", "l":
			m.active = (m.active + 1) % 3
			return m, nil
		case "shift+tab", "left", "h":
			m.active = (m.active + 2) % 3
			return m, nil
		}
		return m, nil

	case lineMsg:
		buf := append(m.buffers[msg.Pane], msg.Text)
		if len(buf) > maxLines {
			buf = buf[len(buf)-maxLines:]
		}
		m.buffers[msg.Pane] = buf
		return m, waitForLine(m.updates)

	default:
		return m, nil
	}
}

var (
	tabStyle       = lipgloss.NewStyle().Padding(0, 2)
	activeTabStyle = tabStyle.Bold(true).Underline(true)
	footerStyle    = lipgloss.NewStyle().Faint(true)
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var tabs strings.Builder
	for _, p := range []Pane{PaneTraces, PaneLogs, PaneMetrics} {
		style := tabStyle
		if p == m.active {
			style = activeTabStyle
		}
		tabs.WriteString(style.Render(p.String()))
	}

	lines := m.buffers[m.active]
	body := strings.Join(lines, "\n")

	footer := footerStyle.Render("tab/←→ switch pane · q to quit")

	return fmt.Sprintf("%s\n\n%s\n\n%s", tabs.String(), body, footer)
}
