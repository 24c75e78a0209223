package tui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/chain-reaction/internal/agent"
	"github.com/vovakirdan/chain-reaction/internal/board"
	"github.com/vovakirdan/chain-reaction/internal/heuristic"
	"github.com/vovakirdan/chain-reaction/internal/match"
	"github.com/vovakirdan/chain-reaction/internal/snapshot"
)

// scripted plays a fixed list of moves, then passes.
type scripted struct {
	name  string
	moves []board.Move
	err   error
}

func (s *scripted) Name() string { return s.name }

func (s *scripted) ChooseMove(_ context.Context, _ *board.Board, _ board.Player, _ int) (board.Move, bool, error) {
	if s.err != nil {
		return board.Move{}, false, s.err
	}
	if len(s.moves) == 0 {
		return board.Move{}, false, nil
	}
	m := s.moves[0]
	s.moves = s.moves[1:]
	return m, true, nil
}

// memorySaver collects saved results.
type memorySaver struct {
	results []match.Result
	err     error
}

func (s *memorySaver) SaveMatchResult(res match.Result) error {
	if s.err != nil {
		return s.err
	}
	s.results = append(s.results, res)
	return nil
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

// computerTurn delivers a tick and the resulting computer answer.
func computerTurn(t *testing.T, m Model) (Model, tea.Cmd) {
	t.Helper()
	m, cmd := update(t, m, TickMsg{})
	if cmd == nil {
		t.Fatal("tick on a computer turn should start a search")
	}
	if !m.thinking {
		t.Error("model should be thinking after the tick")
	}
	return update(t, m, cmd())
}

func newTestModel(t *testing.T, opts Options) Model {
	t.Helper()
	m, err := NewModel(opts)
	if err != nil {
		t.Fatalf("NewModel failed: %v", err)
	}
	return m
}

func TestHumanAgainstComputer(t *testing.T) {
	blue := &scripted{name: "blue", moves: []board.Move{{Row: 1, Col: 1}, {Row: 1, Col: 1}}}
	saver := &memorySaver{}
	snap := filepath.Join(t.TempDir(), "gamestate.txt")

	m := newTestModel(t, Options{
		Rows:         2,
		Cols:         2,
		Blue:         Side{Agent: blue},
		SnapshotPath: snap,
		Saver:        saver,
	})
	if m.Init() != nil {
		t.Error("Init should wait for the human player")
	}
	if m.Cursor() != (board.Move{Row: 1, Col: 1}) {
		t.Errorf("cursor starts at %v, want (1,1)", m.Cursor())
	}

	m, _ = update(t, m, keyMsg("up"))
	m, _ = update(t, m, keyMsg("left"))
	m, _ = update(t, m, keyMsg("left")) // clamped
	if m.Cursor() != (board.Move{Row: 0, Col: 0}) {
		t.Fatalf("cursor = %v, want (0,0)", m.Cursor())
	}

	m, cmd := update(t, m, keyMsg("enter"))
	if m.Plies() != 1 || m.Turn() != board.Blue {
		t.Fatalf("after Red move: plies %d turn %v", m.Plies(), m.Turn())
	}
	if cmd == nil {
		t.Fatal("computer turn should be scheduled")
	}

	// The human cannot move for the computer.
	m, _ = update(t, m, keyMsg("enter"))
	if m.Plies() != 1 {
		t.Errorf("place on computer turn changed plies to %d", m.Plies())
	}

	m, cmd = computerTurn(t, m)
	if m.Plies() != 2 || m.Turn() != board.Red || cmd != nil {
		t.Fatalf("after Blue move: plies %d turn %v cmd %v", m.Plies(), m.Turn(), cmd != nil)
	}

	label, b, err := snapshot.ReadFile(snap)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if label != snapshot.LabelAI || !b.Equal(m.Board()) {
		t.Errorf("snapshot label %q board equal %v", label, b.Equal(m.Board()))
	}

	m, _ = update(t, m, keyMsg("enter"))
	m, _ = computerTurn(t, m)

	over, winner, reason := m.Outcome()
	if !over || winner != board.Blue || reason != match.ReasonWin {
		t.Fatalf("outcome %v %v %q, want Blue win", over, winner, reason)
	}
	if m.Plies() != 4 {
		t.Errorf("plies = %d, want 4", m.Plies())
	}
	if len(saver.results) != 1 {
		t.Fatalf("saved %d results, want 1", len(saver.results))
	}
	res := saver.results[0]
	if res.Red != HumanName || res.Blue != "blue" || res.Winner != board.Blue || res.Plies != 4 || res.ID == "" {
		t.Errorf("saved result %+v", res)
	}
	if !strings.Contains(stripANSI(m.View()), "Blue (blue) wins after 4 plies") {
		t.Errorf("view does not announce the winner:\n%s", m.View())
	}

	m, _ = update(t, m, keyMsg("r"))
	over, _, _ = m.Outcome()
	if over || m.Plies() != 0 || m.Turn() != board.Red || m.Board().TotalOrbs() != 0 {
		t.Errorf("restart left over=%v plies=%d turn=%v orbs=%d", over, m.Plies(), m.Turn(), m.Board().TotalOrbs())
	}
}

func TestPlaceOnOpponentCell(t *testing.T) {
	blue := &scripted{name: "blue", moves: []board.Move{{Row: 1, Col: 1}}}
	m := newTestModel(t, Options{Rows: 3, Cols: 3, Blue: Side{Agent: blue}})

	m, _ = update(t, m, keyMsg("enter")) // Red at (1,1)
	if m.Plies() != 1 {
		t.Fatalf("plies = %d, want 1", m.Plies())
	}
	m, _ = update(t, m, keyMsg("r")) // ignored while playing
	if m.Plies() != 1 {
		t.Error("restart should only work after game over")
	}

	// Blue answers on a cell Red already owns: the move is illegal and the
	// game is aborted.
	m, _ = computerTurn(t, m)
	over, _, reason := m.Outcome()
	if !over || reason != reasonError {
		t.Errorf("illegal computer move: over %v reason %q", over, reason)
	}

	blue = &scripted{name: "blue", moves: []board.Move{{Row: 0, Col: 0}}}
	m = newTestModel(t, Options{Rows: 3, Cols: 3, Blue: Side{Agent: blue}})
	m, _ = update(t, m, keyMsg("enter"))
	m, _ = computerTurn(t, m)
	m, _ = update(t, m, keyMsg("up"))
	m, _ = update(t, m, keyMsg("left"))
	m, _ = update(t, m, keyMsg("enter")) // (0,0) belongs to Blue
	if m.Plies() != 2 || m.Turn() != board.Red {
		t.Errorf("rejected move changed state: plies %d turn %v", m.Plies(), m.Turn())
	}
	if m.status == "" {
		t.Error("rejected move should set a status message")
	}
}

func TestComputerGames(t *testing.T) {
	red, err := agent.NewMinimax(1, heuristic.Aggressive)
	if err != nil {
		t.Fatalf("NewMinimax failed: %v", err)
	}
	saver := &memorySaver{}
	m := newTestModel(t, Options{
		Rows:     3,
		Cols:     3,
		Red:      Side{Agent: red},
		Blue:     Side{Agent: agent.NewRandom(7)},
		MaxPlies: 60,
		Saver:    saver,
	})
	if m.Init() == nil {
		t.Fatal("Init should schedule the first computer move")
	}

	for i := 0; i < 100; i++ {
		if over, _, _ := m.Outcome(); over {
			break
		}
		m, _ = computerTurn(t, m)
	}

	over, winner, reason := m.Outcome()
	if !over {
		t.Fatal("game did not finish")
	}
	if reason != match.ReasonWin && reason != match.ReasonPlyLimit {
		t.Errorf("reason = %q", reason)
	}
	if reason == match.ReasonWin && winner == board.NoPlayer {
		t.Error("a won game needs a winner")
	}
	if m.Plies() > 60 {
		t.Errorf("plies = %d, want at most 60", m.Plies())
	}
	if len(saver.results) != 1 || saver.results[0].Red != red.Name() || saver.results[0].Blue != "random" {
		t.Errorf("saved results %+v", saver.results)
	}
}

func TestPlyLimitAndStall(t *testing.T) {
	red := &scripted{name: "red", moves: []board.Move{{Row: 0, Col: 0}}}
	blue := &scripted{name: "blue", moves: []board.Move{{Row: 4, Col: 4}}}
	m := newTestModel(t, Options{Red: Side{Agent: red}, Blue: Side{Agent: blue}, MaxPlies: 2})
	if m.Board().Rows() != match.DefaultRows || m.Board().Cols() != match.DefaultCols {
		t.Errorf("default board %dx%d", m.Board().Rows(), m.Board().Cols())
	}
	m, _ = computerTurn(t, m)
	m, _ = computerTurn(t, m)
	over, winner, reason := m.Outcome()
	if !over || winner != board.NoPlayer || reason != match.ReasonPlyLimit {
		t.Errorf("outcome %v %v %q, want ply-limit draw", over, winner, reason)
	}

	m = newTestModel(t, Options{Red: Side{Agent: &scripted{name: "a"}}, Blue: Side{Agent: &scripted{name: "b"}}})
	m, _ = computerTurn(t, m)
	if over, _, _ := m.Outcome(); over {
		t.Fatal("one pass should not end the game")
	}
	m, _ = computerTurn(t, m)
	over, _, reason = m.Outcome()
	if !over || reason != match.ReasonStalled || m.Plies() != 2 {
		t.Errorf("outcome %v %q plies %d, want stalled after 2", over, reason, m.Plies())
	}
}

func TestComputerError(t *testing.T) {
	saver := &memorySaver{}
	m := newTestModel(t, Options{
		Red:   Side{Agent: &scripted{name: "broken", err: errors.New("boom")}},
		Blue:  Side{Agent: &scripted{name: "b"}},
		Saver: saver,
	})
	m, _ = computerTurn(t, m)
	over, _, reason := m.Outcome()
	if !over || reason != reasonError {
		t.Errorf("outcome %v %q, want aborted", over, reason)
	}
	if len(saver.results) != 0 {
		t.Error("aborted games must not be saved")
	}
	if !strings.Contains(m.View(), "boom") {
		t.Error("view should show the failure")
	}
}

func TestStaleAnswerIgnored(t *testing.T) {
	m := newTestModel(t, Options{Blue: Side{Agent: &scripted{name: "b"}}})
	m, _ = update(t, m, aiMoveMsg{gen: m.gen + 1, move: board.Move{Row: 0, Col: 0}, ok: true})
	if m.Plies() != 0 {
		t.Errorf("stale answer applied, plies = %d", m.Plies())
	}
	m, _ = update(t, m, TickMsg{})
	if m.thinking {
		t.Error("tick on a human turn should not start a search")
	}
}

func TestSaverError(t *testing.T) {
	saver := &memorySaver{err: errors.New("disk full")}
	m := newTestModel(t, Options{
		Red:      Side{Agent: &scripted{name: "a", moves: []board.Move{{Row: 0, Col: 0}}}},
		Blue:     Side{Agent: &scripted{name: "b", moves: []board.Move{{Row: 1, Col: 1}}}},
		MaxPlies: 2,
		Saver:    saver,
	})
	m, _ = computerTurn(t, m)
	m, _ = computerTurn(t, m)
	if over, _, _ := m.Outcome(); !over {
		t.Fatal("game should be over")
	}
	if !strings.Contains(m.status, "disk full") {
		t.Errorf("status = %q", m.status)
	}
}

func TestQuitAndBack(t *testing.T) {
	m := newTestModel(t, Options{Blue: Side{Agent: &scripted{name: "b"}}})
	q, cmd := update(t, m, keyMsg("q"))
	if !q.IsQuitting() || cmd == nil {
		t.Error("q should quit")
	}
	if q.View() != "" {
		t.Error("quitting view should be empty")
	}
	if q.ctx.Err() == nil {
		t.Error("quitting should cancel pending searches")
	}

	m = newTestModel(t, Options{Blue: Side{Agent: &scripted{name: "b"}}})
	b, cmd := update(t, m, keyMsg("esc"))
	if !b.IsGoingBack() || b.IsQuitting() || cmd == nil {
		t.Error("esc should go back to the menu")
	}
}

func TestNewModelValidation(t *testing.T) {
	if _, err := NewModel(Options{Rows: 1, Cols: 5}); err == nil {
		t.Error("1-row board should be rejected")
	}
	if _, err := NewModel(Options{MaxPlies: -1}); err == nil {
		t.Error("negative ply limit should be rejected")
	}
}

func TestSideName(t *testing.T) {
	if got := (Side{}).Name(); got != HumanName {
		t.Errorf("human side name = %q", got)
	}
	if got := (Side{Agent: agent.NewRandom(1)}).Name(); got != "random" {
		t.Errorf("random side name = %q", got)
	}
}
