package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/chain-reaction/internal/agent"
	"github.com/vovakirdan/chain-reaction/internal/board"
	"github.com/vovakirdan/chain-reaction/internal/match"
	"github.com/vovakirdan/chain-reaction/internal/snapshot"
)

// HumanName is the agent name recorded for a keyboard player.
const HumanName = "human"

// reasonError ends a game whose computer player failed.
const reasonError = "error"

// Side describes who plays one colour. A nil Agent is a keyboard player.
type Side struct {
	Agent agent.Agent
}

// Name returns the name stored with match results.
func (s Side) Name() string {
	if s.Agent == nil {
		return HumanName
	}
	return s.Agent.Name()
}

// IsHuman reports whether the side is played from the keyboard.
func (s Side) IsHuman() bool {
	return s.Agent == nil
}

// ResultSaver persists finished games.
type ResultSaver interface {
	SaveMatchResult(res match.Result) error
}

// Options configures the board screen.
type Options struct {
	Rows         int
	Cols         int
	Red          Side
	Blue         Side
	MaxPlies     int           // 0 means no limit
	SnapshotPath string        // empty disables snapshot files
	Delay        time.Duration // pause before a computer move
	Saver        ResultSaver   // may be nil
	Logger       *log.Logger
}

// aiMoveMsg carries a computer player's answer back to Update.
type aiMoveMsg struct {
	gen  int
	move board.Move
	ok   bool
	err  error
}

// passMsg passes the turn of a keyboard player with no legal move.
type passMsg struct {
	gen int
}

// Model is the Bubble Tea model for one board and its sequence of games.
type Model struct {
	opts   Options
	logger *log.Logger
	keys   *KeyMapper

	ctx    context.Context
	cancel context.CancelFunc
	gen    int // bumped on restart so stale AI answers are dropped

	board    *board.Board
	turn     board.Player
	plies    int
	passes   int
	cursor   board.Move
	last     board.Move
	hasLast  bool
	thinking bool
	started  time.Time

	over     bool
	winner   board.Player
	reason   string
	resultID string
	status   string

	width    int
	height   int
	quitting bool
	goBack   bool
}

// NewModel creates a board screen ready to start its first game.
func NewModel(opts Options) (Model, error) {
	if opts.Rows == 0 {
		opts.Rows = match.DefaultRows
	}
	if opts.Cols == 0 {
		opts.Cols = match.DefaultCols
	}
	if opts.MaxPlies < 0 {
		return Model{}, fmt.Errorf("tui: max plies %d: must not be negative", opts.MaxPlies)
	}
	if _, err := board.New(opts.Rows, opts.Cols); err != nil {
		return Model{}, fmt.Errorf("tui: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	m := Model{
		opts:   opts,
		logger: logger,
		keys:   NewKeyMapper(),
	}
	m.reset()
	return m, nil
}

// reset starts a fresh game on an empty board.
func (m *Model) reset() {
	if m.cancel != nil {
		m.cancel()
	}
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.gen++

	// Dimensions were validated by NewModel.
	m.board, _ = board.New(m.opts.Rows, m.opts.Cols)
	m.turn = board.Red
	m.plies = 0
	m.passes = 0
	m.cursor = board.Move{Row: m.opts.Rows / 2, Col: m.opts.Cols / 2}
	m.hasLast = false
	m.thinking = false
	m.started = time.Now()
	m.over = false
	m.winner = board.NoPlayer
	m.reason = ""
	m.resultID = ""
	m.status = ""

	m.logger.Info("game started", "red", m.opts.Red.Name(), "blue", m.opts.Blue.Name(),
		"rows", m.opts.Rows, "cols", m.opts.Cols)
}

// side returns who plays p.
func (m Model) side(p board.Player) Side {
	if p == board.Blue {
		return m.opts.Blue
	}
	return m.opts.Red
}

// Init starts the first turn.
func (m Model) Init() tea.Cmd {
	return m.nextTurn()
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case TickMsg:
		return m.handleTick()

	case aiMoveMsg:
		return m.handleAIMove(msg)

	case passMsg:
		if msg.gen != m.gen || m.over {
			return m, nil
		}
		return m.play(board.Move{}, true)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, isQuit := m.keys.MapKey(msg)
	if isQuit {
		m.cancel()
		m.quitting = true
		return m, tea.Quit
	}

	switch action {
	case ActionUp:
		m.moveCursor(-1, 0)
	case ActionDown:
		m.moveCursor(1, 0)
	case ActionLeft:
		m.moveCursor(0, -1)
	case ActionRight:
		m.moveCursor(0, 1)

	case ActionPlace:
		if m.over || m.thinking || !m.side(m.turn).IsHuman() {
			return m, nil
		}
		if !m.board.IsValidMove(m.cursor.Row, m.cursor.Col, m.turn) {
			m.status = fmt.Sprintf("%v belongs to %v", m.cursor, m.turn.Opponent())
			return m, nil
		}
		return m.play(m.cursor, false)

	case ActionRestart:
		if m.over {
			m.reset()
			return m, m.nextTurn()
		}

	case ActionBack:
		m.cancel()
		m.goBack = true
		return m, tea.Quit
	}

	return m, nil
}

// moveCursor shifts the cursor, clamped to the board.
func (m *Model) moveCursor(dr, dc int) {
	row := m.cursor.Row + dr
	col := m.cursor.Col + dc
	if m.board.InBounds(row, col) {
		m.cursor = board.Move{Row: row, Col: col}
	}
}

// handleTick asks the computer player to move.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.over || m.thinking || m.side(m.turn).IsHuman() {
		return m, nil
	}
	m.thinking = true
	return m, m.think()
}

// think runs the current computer player's search off the UI loop.
func (m Model) think() tea.Cmd {
	a := m.side(m.turn).Agent
	b := m.board.Clone()
	ctx, me, played, gen := m.ctx, m.turn, m.plies, m.gen

	return func() tea.Msg {
		move, ok, err := a.ChooseMove(ctx, b, me, played)
		return aiMoveMsg{gen: gen, move: move, ok: ok, err: err}
	}
}

// handleAIMove applies a computer player's answer.
func (m Model) handleAIMove(msg aiMoveMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.gen || m.over {
		return m, nil
	}
	m.thinking = false

	if msg.err != nil {
		m.logger.Error("computer move failed", "player", m.turn, "err", msg.err)
		m.over = true
		m.reason = reasonError
		m.status = fmt.Sprintf("%s failed: %v", m.side(m.turn).Name(), msg.err)
		return m, nil
	}
	return m.play(msg.move, !msg.ok)
}

// play applies one ply for the player to move and schedules the next turn.
func (m Model) play(move board.Move, passed bool) (tea.Model, tea.Cmd) {
	if passed {
		m.passes++
		m.status = fmt.Sprintf("%v passes", m.turn)
	} else {
		if err := m.board.ApplyMove(move.Row, move.Col, m.turn); err != nil {
			m.logger.Error("move rejected", "player", m.turn, "move", move, "err", err)
			m.over = true
			m.reason = reasonError
			m.status = err.Error()
			return m, nil
		}
		m.passes = 0
		m.last = move
		m.hasLast = true
		m.status = ""
	}
	m.plies++
	m.logger.Debug("ply", "n", m.plies, "player", m.turn, "move", move, "passed", passed)

	m.writeSnapshot()

	switch {
	case m.plies > 1 && m.board.IsGameOver():
		winner, _ := m.board.Winner()
		m.finish(winner, match.ReasonWin)
		return m, nil
	case m.opts.MaxPlies > 0 && m.plies >= m.opts.MaxPlies:
		m.finish(board.NoPlayer, match.ReasonPlyLimit)
		return m, nil
	case m.passes >= 2:
		m.finish(board.NoPlayer, match.ReasonStalled)
		return m, nil
	}

	m.turn = m.turn.Opponent()
	return m, m.nextTurn()
}

// nextTurn returns the command that drives the player to move, if any.
func (m Model) nextTurn() tea.Cmd {
	if m.over {
		return nil
	}
	if !m.side(m.turn).IsHuman() {
		return tickCmd(m.opts.Delay)
	}
	if len(m.board.ValidMoves(m.turn)) == 0 {
		gen := m.gen
		return func() tea.Msg { return passMsg{gen: gen} }
	}
	return nil
}

// writeSnapshot saves the board after a ply. Failures only show in the
// status line.
func (m *Model) writeSnapshot() {
	if m.opts.SnapshotPath == "" {
		return
	}
	label := snapshot.LabelHuman
	if a := m.side(m.turn).Agent; a != nil {
		label = match.LabelFor(a)
	}
	if err := snapshot.WriteFile(m.opts.SnapshotPath, label, m.board); err != nil {
		m.logger.Warn("snapshot not written", "path", m.opts.SnapshotPath, "err", err)
		m.status = fmt.Sprintf("snapshot: %v", err)
	}
}

// finish ends the game and stores its result.
func (m *Model) finish(winner board.Player, reason string) {
	m.over = true
	m.winner = winner
	m.reason = reason

	res := match.Result{
		ID:       uuid.NewString(),
		Red:      m.opts.Red.Name(),
		Blue:     m.opts.Blue.Name(),
		Winner:   winner,
		Reason:   reason,
		Plies:    m.plies,
		Duration: time.Since(m.started),
		Final:    m.board.Clone(),
	}
	m.resultID = res.ID
	m.logger.Info("game finished", "match", res.ID, "winner", winner, "reason", reason, "plies", m.plies)

	if m.opts.Saver != nil {
		if err := m.opts.Saver.SaveMatchResult(res); err != nil {
			m.logger.Warn("result not saved", "match", res.ID, "err", err)
			m.status = fmt.Sprintf("result not saved: %v", err)
		}
	}
}

// Board returns the current board.
func (m Model) Board() *board.Board {
	return m.board
}

// Turn returns the player to move.
func (m Model) Turn() board.Player {
	return m.turn
}

// Plies returns the number of plies played in the current game.
func (m Model) Plies() int {
	return m.plies
}

// Cursor returns the cursor position.
func (m Model) Cursor() board.Move {
	return m.cursor
}

// Outcome reports whether the game is over, and its winner and end reason.
func (m Model) Outcome() (over bool, winner board.Player, reason string) {
	return m.over, m.winner, m.reason
}

// IsGoingBack returns true if user wants to go back to the menu.
func (m Model) IsGoingBack() bool {
	return m.goBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
)

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting || m.goBack {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("C H A I N   R E A C T I O N"), m.width))
	b.WriteString("\n\n")

	players := fmt.Sprintf("%s %s (%d)   vs   %s %s (%d)",
		playerStyles[board.Red].Render("Red"), m.opts.Red.Name(), m.board.CountOrbs(board.Red),
		playerStyles[board.Blue].Render("Blue"), m.opts.Blue.Name(), m.board.CountOrbs(board.Blue))
	b.WriteString(centerText(players, m.width))
	b.WriteString("\n\n")

	opts := RenderOptions{
		Cursor:     m.cursor,
		ShowCursor: !m.over && m.side(m.turn).IsHuman(),
		Last:       m.last,
		ShowLast:   m.hasLast,
	}
	b.WriteString(centerBlock(RenderBoard(m.board, opts), m.width))
	b.WriteString("\n\n")

	b.WriteString(centerText(m.turnLine(), m.width))
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(centerText(statusStyle.Render(m.status), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Arrows/hjkl: Move  |  Enter: Place  |  B: Menu  |  Q: Quit"
	if m.over {
		controls = "R: Play again  |  B: Menu  |  Q: Quit"
	}
	b.WriteString(centerText(helpStyle.Render(controls), m.width))
	b.WriteString("\n")

	return b.String()
}

// turnLine describes whose turn it is or how the game ended.
func (m Model) turnLine() string {
	if m.over {
		switch {
		case m.reason == reasonError:
			return "Game aborted"
		case m.winner != board.NoPlayer:
			return titleStyle.Render(fmt.Sprintf("%v (%s) wins after %d plies!",
				m.winner, m.side(m.winner).Name(), m.plies))
		default:
			return fmt.Sprintf("Draw (%s) after %d plies", m.reason, m.plies)
		}
	}

	who := playerStyles[m.turn].Render(m.turn.String())
	if m.thinking {
		return fmt.Sprintf("Ply %d: %s (%s) is thinking...", m.plies+1, who, m.side(m.turn).Name())
	}
	if m.side(m.turn).IsHuman() {
		return fmt.Sprintf("Ply %d: %s to move", m.plies+1, who)
	}
	return fmt.Sprintf("Ply %d: %s (%s)", m.plies+1, who, m.side(m.turn).Name())
}

// PlayResult holds the result of running the board screen.
type PlayResult struct {
	GoBack bool
	Quit   bool
}

// RunPlay starts the Bubble Tea program for the board screen.
func RunPlay(opts Options) (PlayResult, error) {
	model, err := NewModel(opts)
	if err != nil {
		return PlayResult{}, err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	finalModel, err := p.Run()
	if err != nil {
		return PlayResult{}, err
	}

	m, ok := finalModel.(Model)
	if !ok {
		return PlayResult{Quit: true}, nil
	}
	if m.cancel != nil {
		m.cancel()
	}
	return PlayResult{GoBack: m.IsGoingBack(), Quit: m.IsQuitting()}, nil
}
