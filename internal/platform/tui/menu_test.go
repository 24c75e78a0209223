package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/chain-reaction/internal/config"
)

func menuUpdate(t *testing.T, m MenuModel, key string) (MenuModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(keyMsg(key))
	nm, ok := next.(MenuModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func TestMenuDefaults(t *testing.T) {
	cfg := config.Default()
	cfg.AI.Heuristic = "4"
	m := NewMenuModel(cfg, 80, 24)

	got := m.Selection()
	want := Selection{
		Mode:       config.ModeHumanAI,
		Difficulty: config.DifficultyFixed,
		Heuristic:  "critical-mass",
		Heuristic2: "edge-priority",
	}
	if got != want {
		t.Errorf("Selection() = %+v, want %+v", got, want)
	}
}

func TestMenuCycleAndStart(t *testing.T) {
	m := NewMenuModel(config.Default(), 80, 24)

	m, _ = menuUpdate(t, m, "right") // mode: ai-ai
	m, _ = menuUpdate(t, m, "down")
	m, _ = menuUpdate(t, m, "right") // difficulty: fixed wraps to easy
	m, _ = menuUpdate(t, m, "down")
	m, _ = menuUpdate(t, m, "left") // heuristic: simple wraps to aggressive
	m, _ = menuUpdate(t, m, "down")
	m, _ = menuUpdate(t, m, "enter") // heuristic2: edge-priority -> critical-mass

	sel := m.Selection()
	if sel.Mode != config.ModeAIAI || sel.Difficulty != config.DifficultyEasy ||
		sel.Heuristic != "aggressive" || sel.Heuristic2 != "critical-mass" {
		t.Errorf("Selection() = %+v", sel)
	}
	if m.Selected() {
		t.Fatal("enter on an option should not start the game")
	}

	m, _ = menuUpdate(t, m, "down")
	m, _ = menuUpdate(t, m, "down") // stays on Start
	m, cmd := menuUpdate(t, m, "enter")
	if !m.Selected() || cmd == nil {
		t.Error("enter on Start should select and quit")
	}

	cfg := config.Default()
	cfg.AI.Depth = 4
	sel.Apply(&cfg)
	if cfg.Game.Mode != config.ModeAIAI || cfg.AI.Depth != 1 || cfg.AI.Heuristic != "aggressive" || cfg.AI.Heuristic2 != "critical-mass" {
		t.Errorf("Apply produced %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("applied selection is invalid: %v", err)
	}
}

func TestMenuLeaderboardAndQuit(t *testing.T) {
	m := NewMenuModel(config.Default(), 80, 24)
	lb, cmd := menuUpdate(t, m, "tab")
	if !lb.WantsLeaderboard() || cmd == nil {
		t.Error("tab should open the leaderboard")
	}

	q, cmd := menuUpdate(t, m, "q")
	if !q.IsQuitting() || cmd == nil || q.View() != "" {
		t.Error("q should quit")
	}

	up, _ := menuUpdate(t, m, "up")
	if up.cursor != 0 {
		t.Errorf("cursor = %d, want 0", up.cursor)
	}
	if m.View() == "" {
		t.Error("menu view should not be empty")
	}
}
