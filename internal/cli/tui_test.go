package cli

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/gitlanes/pkg/feed"
	"github.com/matzehuels/gitlanes/pkg/graph"
	"github.com/matzehuels/gitlanes/pkg/lanes"
)

// linearHistory builds a first-parent chain of n commits, newest first.
func linearHistory(n int) graph.Layout {
	commits := make([]feed.Commit, n)
	for i := range commits {
		commits[i] = feed.Commit{
			SHA:     fmt.Sprintf("%040d", i),
			Subject: fmt.Sprintf("subject-%02d", i),
			Author:  "Ada",
		}
		if i+1 < n {
			commits[i].Parents = []string{fmt.Sprintf("%040d", i+1)}
		}
	}
	return graph.FromLanes(commits, lanes.Build(feed.Refs(commits)), 0)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "pgdown":
		return tea.KeyMsg{Type: tea.KeyPgDown}
	case "end":
		return tea.KeyMsg{Type: tea.KeyEnd}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m HistoryModel, keys ...string) HistoryModel {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(HistoryModel)
	}
	return m
}

func TestHistoryModel_Move(t *testing.T) {
	m := newHistoryModel(linearHistory(30))
	rows := m.visibleRows()

	tests := []struct {
		name   string
		keys   []string
		cursor int
		top    int
	}{
		{"start", nil, 0, 0},
		{"down", []string{"j", "down"}, 2, 0},
		{"up clamps", []string{"k", "up"}, 0, 0},
		{"scrolls", []string{"pgdown"}, rows, 1},
		{"end", []string{"G"}, 29, 30 - rows},
		{"end key", []string{"end"}, 29, 30 - rows},
		{"home", []string{"G", "g"}, 0, 0},
		{"past end", []string{"G", "j", "j"}, 29, 30 - rows},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := press(m, tt.keys...)
			if got.Cursor != tt.cursor || got.Top != tt.top {
				t.Errorf("cursor, top = %d, %d, want %d, %d", got.Cursor, got.Top, tt.cursor, tt.top)
			}
		})
	}
}

func TestHistoryModel_Quit(t *testing.T) {
	m := newHistoryModel(linearHistory(3))
	for _, k := range []string{"q", "esc"} {
		var msg tea.KeyMsg
		if k == "esc" {
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		} else {
			msg = key(k)
		}
		_, cmd := m.Update(msg)
		if cmd == nil {
			t.Fatalf("%s: no command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s did not quit", k)
		}
	}
}

func TestHistoryModel_Resize(t *testing.T) {
	m := press(newHistoryModel(linearHistory(30)), "G")

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 2*5 + chromeLines})
	m = next.(HistoryModel)
	if m.visibleRows() != 5 {
		t.Fatalf("visibleRows = %d, want 5", m.visibleRows())
	}
	if m.Cursor != 29 || m.Top != 25 {
		t.Errorf("after resize cursor, top = %d, %d, want 29, 25", m.Cursor, m.Top)
	}

	next, _ = m.Update(tea.WindowSizeMsg{Width: 10, Height: 1})
	if got := next.(HistoryModel).visibleRows(); got != 1 {
		t.Errorf("tiny window visibleRows = %d, want 1", got)
	}
}

func TestHistoryModel_View(t *testing.T) {
	m := newHistoryModel(linearHistory(30))
	m.Height = 2*4 + chromeLines
	m = press(m, "j", "j")

	view := m.View()
	for _, want := range []string{"subject-00", "subject-03", "▸ ", "3/30", "Ada"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "subject-04") {
		t.Error("row outside the window rendered")
	}

	lines := strings.Split(view, "\n")
	if !strings.Contains(lines[4], "▸") || !strings.Contains(lines[4], "subject-02") {
		t.Errorf("cursor line = %q, want subject-02 with the marker", lines[4])
	}
}

func TestHistoryModel_StatusBarEmpty(t *testing.T) {
	m := newHistoryModel(graph.Layout{})
	if got := m.statusBar(); !strings.Contains(got, "no commit") {
		t.Errorf("statusBar = %q", got)
	}
}

func TestShortHash(t *testing.T) {
	if got := shortHash("0123456789abcdef"); got != "0123456" {
		t.Errorf("shortHash = %q", got)
	}
	if got := shortHash("abc"); got != "abc" {
		t.Errorf("shortHash(short) = %q", got)
	}
}
