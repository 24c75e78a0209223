package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/chain-reaction/internal/storage"
)

func leaderboardUpdate(t *testing.T, m LeaderboardModel, msg tea.Msg) (LeaderboardModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(LeaderboardModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func TestLeaderboardViews(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "matches.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	records := []storage.MatchRecord{
		{MatchID: "m1", Red: "a", Blue: "b", Winner: "Red", Reason: "win", Rows: 5, Cols: 5, Plies: 20},
		{MatchID: "m2", Red: "b", Blue: "c", Winner: "", Reason: "stalled", Rows: 5, Cols: 5, Plies: 8},
	}
	for _, r := range records {
		if _, err := store.SaveMatch(r); err != nil {
			t.Fatalf("SaveMatch failed: %v", err)
		}
	}

	m := NewLeaderboardModel(store, 100, 30)
	if m.RowCount() != 3 {
		t.Errorf("standings rows = %d, want 3 agents", m.RowCount())
	}
	view := stripANSI(m.View())
	if !strings.Contains(view, "Standings") || !strings.Contains(view, "Agent") {
		t.Errorf("standings view missing headings:\n%s", view)
	}

	m, _ = leaderboardUpdate(t, m, keyMsg("tab"))
	if m.view != viewRecent || m.RowCount() != 2 {
		t.Errorf("recent view %d rows %d, want 2 matches", m.view, m.RowCount())
	}
	if !strings.Contains(stripANSI(m.View()), "draw") {
		t.Error("recent view should mark draws")
	}

	m, _ = leaderboardUpdate(t, m, keyMsg("shift+tab"))
	if m.view != viewStandings {
		t.Errorf("view = %d after going back", m.view)
	}

	if _, err := store.SaveMatch(storage.MatchRecord{MatchID: "m3", Red: "d", Blue: "a", Winner: "Blue", Reason: "win", Rows: 5, Cols: 5}); err != nil {
		t.Fatalf("SaveMatch failed: %v", err)
	}
	m, _ = leaderboardUpdate(t, m, keyMsg("r"))
	if m.RowCount() != 4 {
		t.Errorf("after reload rows = %d, want 4", m.RowCount())
	}

	m, _ = leaderboardUpdate(t, m, tea.WindowSizeMsg{Width: 60, Height: 20})
	if m.RowCount() != 4 {
		t.Errorf("resize dropped rows: %d", m.RowCount())
	}

	back, cmd := leaderboardUpdate(t, m, keyMsg("esc"))
	if !back.IsGoingBack() || cmd == nil {
		t.Error("esc should go back")
	}
	quit, _ := leaderboardUpdate(t, m, keyMsg("q"))
	if !quit.IsQuitting() {
		t.Error("q should quit")
	}
}

func TestLeaderboardWithoutStore(t *testing.T) {
	m := NewLeaderboardModel(nil, 80, 24)
	if m.RowCount() != 0 {
		t.Errorf("rows = %d, want 0", m.RowCount())
	}
	if !strings.Contains(stripANSI(m.View()), "No matches recorded yet") {
		t.Error("empty leaderboard should say so")
	}
}
