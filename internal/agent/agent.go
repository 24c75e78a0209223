// Package agent defines move-choosing players and a registry of agent
// factories. Front ends create agents by ID (or from a spec string such as
// "minimax:3:edge-priority") without knowing their concrete types.
package agent

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/vovakirdan/chain-reaction/internal/board"
	"github.com/vovakirdan/chain-reaction/internal/heuristic"
	"github.com/vovakirdan/chain-reaction/internal/search"
)

// Agent chooses moves for one side of a game.
type Agent interface {
	// Name identifies the agent in logs, standings and stored results.
	Name() string

	// ChooseMove returns the move to play as me. movesPlayed is the number
	// of plies already applied in the game. The bool result is false when
	// the agent has no move to offer, in which case the turn passes.
	// The board must not be modified.
	ChooseMove(ctx context.Context, b *board.Board, me board.Player, movesPlayed int) (board.Move, bool, error)
}

// Settings configures agents created through the registry.
type Settings struct {
	Depth     int            // search depth in plies
	Heuristic heuristic.Kind // evaluator for searching agents
	Seed      uint64         // RNG seed for randomized agents
}

// DefaultSettings matches the "normal" difficulty.
func DefaultSettings() Settings {
	return Settings{
		Depth:     3,
		Heuristic: heuristic.Simple,
		Seed:      1,
	}
}

// ErrNoInput is returned by Human when its move source is closed.
var ErrNoInput = errors.New("no more input")

// Minimax searches a fixed number of plies with alpha-beta pruning.
// A Minimax accumulates search statistics and must not be shared between
// concurrently running games.
type Minimax struct {
	depth     int
	heuristic heuristic.Kind
	eval      heuristic.Func
	searcher  search.Searcher
}

// NewMinimax creates a searching agent.
func NewMinimax(depth int, h heuristic.Kind) (*Minimax, error) {
	if depth < 1 {
		return nil, fmt.Errorf("agent: minimax depth %d: must be at least 1", depth)
	}
	eval := h.Func()
	if eval == nil {
		return nil, fmt.Errorf("agent: minimax: %v: %w", h, heuristic.ErrUnknown)
	}
	return &Minimax{depth: depth, heuristic: h, eval: eval}, nil
}

// Name returns the agent's spec string, e.g. "minimax:3:simple".
func (m *Minimax) Name() string {
	return fmt.Sprintf("%s:%d:%s", IDMinimax, m.depth, m.heuristic)
}

// Depth returns the search depth.
func (m *Minimax) Depth() int {
	return m.depth
}

// Stats returns the search work done so far.
func (m *Minimax) Stats() search.Stats {
	return m.searcher.Stats
}

// ChooseMove runs the search and returns its best move.
func (m *Minimax) ChooseMove(ctx context.Context, b *board.Board, me board.Player, movesPlayed int) (board.Move, bool, error) {
	if err := ctx.Err(); err != nil {
		return board.Move{}, false, err
	}
	res, err := m.searcher.BestMove(b, m.depth, me, movesPlayed, m.eval)
	if err != nil {
		return board.Move{}, false, fmt.Errorf("agent: %s: %w", m.Name(), err)
	}
	return res.Move, res.HasMove, nil
}

// Random plays a uniformly random legal move.
type Random struct {
	rng *rand.Rand
}

// NewRandom creates a random agent with a deterministic seed.
func NewRandom(seed uint64) *Random {
	return &Random{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Name returns "random".
func (r *Random) Name() string {
	return IDRandom
}

// ChooseMove picks one of the legal moves for me.
func (r *Random) ChooseMove(ctx context.Context, b *board.Board, me board.Player, _ int) (board.Move, bool, error) {
	if err := ctx.Err(); err != nil {
		return board.Move{}, false, err
	}
	moves := b.ValidMoves(me)
	if len(moves) == 0 {
		return board.Move{}, false, nil
	}
	return moves[r.rng.IntN(len(moves))], true, nil
}

// Human waits for moves from an external source such as a terminal reader.
// Moves that are illegal for the current position are reported through
// Reject (when set) and skipped.
type Human struct {
	name   string
	moves  <-chan board.Move
	Reject func(m board.Move, reason error)
}

// NewHuman creates a human agent fed by moves.
func NewHuman(name string, moves <-chan board.Move) *Human {
	if name == "" {
		name = "human"
	}
	return &Human{name: name, moves: moves}
}

// Name returns the player's display name.
func (h *Human) Name() string {
	return h.name
}

// ChooseMove blocks until a legal move arrives, the source closes or ctx
// is cancelled.
func (h *Human) ChooseMove(ctx context.Context, b *board.Board, me board.Player, _ int) (board.Move, bool, error) {
	if len(b.ValidMoves(me)) == 0 {
		return board.Move{}, false, nil
	}
	for {
		select {
		case <-ctx.Done():
			return board.Move{}, false, ctx.Err()
		case m, ok := <-h.moves:
			if !ok {
				return board.Move{}, false, fmt.Errorf("agent: %s: %w", h.name, ErrNoInput)
			}
			if !b.InBounds(m.Row, m.Col) {
				h.reject(m, board.ErrOutOfBounds)
				continue
			}
			if !b.IsValidMove(m.Row, m.Col, me) {
				h.reject(m, board.ErrInvalidMove)
				continue
			}
			return m, true, nil
		}
	}
}

func (h *Human) reject(m board.Move, reason error) {
	if h.Reject != nil {
		h.Reject(m, reason)
	}
}
