package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestUpdateAppendsLineToActivePane(t *testing.T) {
	ch := make(chan Line, 1)
	m := New(ch)

	next, _ := m.Update(lineMsg(Line{Pane: PaneTraces, Text: "span created"}))
	nm := next.(Model)
	if got := nm.buffers[PaneTraces]; len(got) != 1 || got[0] != "span created" {
		t.Fatalf("expected one trace line, got %v", got)
	}
}

func TestUpdateTruncatesToMaxLines(t *testing.T) {
	ch := make(chan Line, 1)
	m := New(ch)
	for i := 0; i < maxLines+10; i++ {
		next, _ := m.Update(lineMsg(Line{Pane: PaneLogs, Text: "log"}))
		m = next.(Model)
	}
	if got := len(m.buffers[PaneLogs]); got != maxLines {
		t.Fatalf("expected buffer capped at %d, got %d", maxLines, got)
	}
}

func TestTabKeyCyclesActivePane(t *testing.T) {
	ch := make(chan Line, 1)
	m := New(ch)
	if m.active != PaneTraces {
		t.Fatalf("expected initial pane to be traces")
	}
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(Model)
	if m.active != PaneLogs {
		t.Fatalf("expected pane to advance to logs, got %v", m.active)
	}
}

func TestQuitKeySetsQuitting(t *testing.T) {
	ch := make(chan Line, 1)
	m := New(ch)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m = next.(Model)
	if !m.quitting {
		t.Fatalf("expected quitting to be true")
	}
	if cmd == nil {
		t.Fatalf("expected a quit command")
	}
}
