// Package match drives a single game between two agents: it alternates
// turns, applies moves, notifies observers after every ply and reports the
// outcome.
package match

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/chain-reaction/internal/agent"
	"github.com/vovakirdan/chain-reaction/internal/board"
	"github.com/vovakirdan/chain-reaction/internal/snapshot"
)

// End reasons reported in Result.Reason.
const (
	ReasonWin      = "win"
	ReasonPlyLimit = "ply-limit"
	ReasonStalled  = "stalled"
)

// Default board dimensions.
const (
	DefaultRows = 9
	DefaultCols = 6
)

// ErrAlreadyRun is returned when Run is called twice on the same Match.
var ErrAlreadyRun = errors.New("match already run")

// Record describes one ply.
type Record struct {
	Ply    int // 1-based
	Player board.Player
	Agent  string
	Label  string // snapshot label for this ply
	Move   board.Move
	Passed bool // the agent had no move and the turn passed
	Before *board.Board
	After  *board.Board
}

// Result is the outcome of a finished match.
type Result struct {
	ID       string
	Red      string
	Blue     string
	Winner   board.Player // NoPlayer for a draw
	Reason   string
	Plies    int
	Duration time.Duration
	Records  []Record
	Final    *board.Board
}

// WinnerName returns the winning agent's name, or "" for a draw.
func (r Result) WinnerName() string {
	switch r.Winner {
	case board.Red:
		return r.Red
	case board.Blue:
		return r.Blue
	default:
		return ""
	}
}

// Observer is notified after every ply.
type Observer interface {
	OnPly(rec Record) error
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(rec Record) error

// OnPly calls f.
func (f ObserverFunc) OnPly(rec Record) error {
	return f(rec)
}

// Config controls a match.
type Config struct {
	Rows     int
	Cols     int
	MaxPlies int // 0 means no limit
	Logger   *log.Logger
}

// Match is a single game. Red moves first.
type Match struct {
	cfg       Config
	board     *board.Board
	agents    [2]agent.Agent
	observers []Observer
	logger    *log.Logger
	done      bool
}

// New creates a match on an empty board.
func New(red, blue agent.Agent, cfg Config) (*Match, error) {
	if red == nil || blue == nil {
		return nil, fmt.Errorf("match: both agents are required")
	}
	if cfg.Rows == 0 {
		cfg.Rows = DefaultRows
	}
	if cfg.Cols == 0 {
		cfg.Cols = DefaultCols
	}
	if cfg.MaxPlies < 0 {
		return nil, fmt.Errorf("match: max plies %d: must not be negative", cfg.MaxPlies)
	}

	b, err := board.New(cfg.Rows, cfg.Cols)
	if err != nil {
		return nil, fmt.Errorf("match: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Match{
		cfg:    cfg,
		board:  b,
		agents: [2]agent.Agent{red, blue},
		logger: logger,
	}, nil
}

// Observe registers an observer. It must be called before Run.
func (m *Match) Observe(o Observer) {
	m.observers = append(m.observers, o)
}

// Board returns a copy of the current position.
func (m *Match) Board() *board.Board {
	return m.board.Clone()
}

// Run plays the match to completion, to the ply limit, or until ctx is
// cancelled. ctx is checked between plies.
func (m *Match) Run(ctx context.Context) (Result, error) {
	if m.done {
		return Result{}, ErrAlreadyRun
	}
	m.done = true

	res := Result{
		ID:   uuid.NewString(),
		Red:  m.agents[0].Name(),
		Blue: m.agents[1].Name(),
	}
	logger := m.logger.With("match", res.ID)
	logger.Info("match started", "red", res.Red, "blue", res.Blue,
		"rows", m.cfg.Rows, "cols", m.cfg.Cols)

	start := time.Now()
	finish := func(winner board.Player, reason string) (Result, error) {
		res.Winner = winner
		res.Reason = reason
		res.Duration = time.Since(start)
		res.Final = m.board.Clone()
		logger.Info("match finished", "winner", winner, "reason", reason,
			"plies", res.Plies, "duration", res.Duration)
		return res, nil
	}

	current := board.Red
	passes := 0
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if m.cfg.MaxPlies > 0 && res.Plies >= m.cfg.MaxPlies {
			return finish(board.NoPlayer, ReasonPlyLimit)
		}

		a := m.agents[current.Index()]
		rec := Record{
			Ply:    res.Plies + 1,
			Player: current,
			Agent:  a.Name(),
			Label:  LabelFor(a),
			Before: m.board.Clone(),
		}

		move, ok, err := a.ChooseMove(ctx, m.board.Clone(), current, res.Plies)
		if err != nil {
			return res, fmt.Errorf("match: ply %d: %s: %w", rec.Ply, a.Name(), err)
		}

		if !ok {
			rec.Passed = true
			passes++
			logger.Debug("turn passed", "ply", rec.Ply, "player", current)
		} else {
			passes = 0
			if err := m.board.ApplyMove(move.Row, move.Col, current); err != nil {
				return res, fmt.Errorf("match: ply %d: %s played %v: %w", rec.Ply, a.Name(), move, err)
			}
			rec.Move = move
			logger.Debug("move", "ply", rec.Ply, "player", current, "move", move)
		}

		res.Plies++
		rec.After = m.board.Clone()
		res.Records = append(res.Records, rec)

		for _, o := range m.observers {
			if err := o.OnPly(rec); err != nil {
				return res, fmt.Errorf("match: ply %d: observer: %w", rec.Ply, err)
			}
		}

		if res.Plies > 1 && m.board.IsGameOver() {
			winner, _ := m.board.Winner()
			return finish(winner, ReasonWin)
		}
		if passes >= 2 {
			return finish(board.NoPlayer, ReasonStalled)
		}

		current = current.Opponent()
	}
}

// LabelFor returns the snapshot label written after a ply by a.
func LabelFor(a agent.Agent) string {
	switch a.(type) {
	case *agent.Human:
		return snapshot.LabelHuman
	case *agent.Random:
		return snapshot.LabelRandom
	default:
		return snapshot.LabelAI
	}
}

// SnapshotWriter is an Observer that rewrites the snapshot file after
// every ply.
type SnapshotWriter struct {
	Path string
}

// OnPly writes the position after rec.
func (w SnapshotWriter) OnPly(rec Record) error {
	return snapshot.WriteFile(w.Path, rec.Label, rec.After)
}
