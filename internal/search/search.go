// Package search picks moves with depth-limited minimax and alpha-beta
// pruning over the board rules. Each explored position is a fresh clone, so
// the caller's board is never modified.
package search

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/vovakirdan/chain-reaction/internal/board"
	"github.com/vovakirdan/chain-reaction/internal/heuristic"
)

// Result is the outcome of a search: the backed-up score and, when any
// candidate existed, the move that produced it.
type Result struct {
	Score   float64
	Move    board.Move
	HasMove bool
}

// Stats counts the work done by a Searcher.
type Stats struct {
	Nodes   int // positions visited, including leaves
	Leaves  int // positions scored by the heuristic
	Prunes  int // alpha-beta cutoffs
	Elapsed time.Duration
}

// Searcher runs searches and accumulates Stats across calls.
// The zero value is ready to use. A Searcher must not be shared between
// goroutines; the package-level functions need no Searcher at all.
type Searcher struct {
	Stats Stats
}

// Search runs minimax with alpha-beta pruning from b.
//
// When maximizing, candidate moves belong to player and are tried in
// descending order of their cell's orb count; otherwise they belong to
// opponent and are tried in ascending order. Ties keep the first move that
// reached the best score. The search stops at depth 0, or when movesPlayed > 1
// and the game is over, and scores the position with h from player's view.
func Search(b *board.Board, depth int, alpha, beta float64, maximizing bool,
	player, opponent board.Player, movesPlayed int, h heuristic.Func) (Result, error) {
	var s Searcher
	return s.Search(b, depth, alpha, beta, maximizing, player, opponent, movesPlayed, h)
}

// BestMove searches depth plies ahead for player with a full window.
func BestMove(b *board.Board, depth int, player board.Player, movesPlayed int, h heuristic.Func) (Result, error) {
	var s Searcher
	return s.BestMove(b, depth, player, movesPlayed, h)
}

// BestMove is the counting variant of the package-level BestMove.
func (s *Searcher) BestMove(b *board.Board, depth int, player board.Player, movesPlayed int, h heuristic.Func) (Result, error) {
	return s.Search(b, depth, math.Inf(-1), math.Inf(1), true, player, player.Opponent(), movesPlayed, h)
}

// Search is the counting variant of the package-level Search.
func (s *Searcher) Search(b *board.Board, depth int, alpha, beta float64, maximizing bool,
	player, opponent board.Player, movesPlayed int, h heuristic.Func) (Result, error) {
	if h == nil {
		return Result{}, fmt.Errorf("search: nil heuristic")
	}
	start := time.Now()
	res, err := s.search(b, depth, alpha, beta, maximizing, player, opponent, movesPlayed, h)
	s.Stats.Elapsed += time.Since(start)
	return res, err
}

func (s *Searcher) search(b *board.Board, depth int, alpha, beta float64, maximizing bool,
	player, opponent board.Player, movesPlayed int, h heuristic.Func) (Result, error) {
	s.Stats.Nodes++

	if depth <= 0 || (movesPlayed > 1 && b.IsGameOver()) {
		s.Stats.Leaves++
		return Result{Score: h(b, player, opponent)}, nil
	}

	mover := opponent
	if maximizing {
		mover = player
	}
	moves := orderMoves(b, b.ValidMoves(mover), maximizing)
	if len(moves) == 0 {
		s.Stats.Leaves++
		return Result{Score: h(b, player, opponent)}, nil
	}

	best := Result{Score: math.Inf(1)}
	if maximizing {
		best.Score = math.Inf(-1)
	}

	for _, m := range moves {
		next := b.Clone()
		if err := next.ApplyMove(m.Row, m.Col, mover); err != nil {
			return Result{}, fmt.Errorf("search: depth %d move %v: %w", depth, m, err)
		}
		child, err := s.search(next, depth-1, alpha, beta, !maximizing, player, opponent, movesPlayed, h)
		if err != nil {
			return Result{}, err
		}

		// Strict comparisons keep the first move reaching the best score.
		if maximizing {
			if child.Score > best.Score {
				best = Result{Score: child.Score, Move: m, HasMove: true}
			}
			alpha = math.Max(alpha, child.Score)
		} else {
			if child.Score < best.Score {
				best = Result{Score: child.Score, Move: m, HasMove: true}
			}
			beta = math.Min(beta, child.Score)
		}

		if beta <= alpha {
			s.Stats.Prunes++
			break
		}
	}

	return best, nil
}

// orderMoves sorts candidates by their cell's current orb count, descending
// for the maximizing side and ascending for the minimizing side. The sort is
// stable so equal counts keep row-major order.
func orderMoves(b *board.Board, moves []board.Move, maximizing bool) []board.Move {
	sort.SliceStable(moves, func(i, j int) bool {
		ci := b.At(moves[i].Row, moves[i].Col).Count
		cj := b.At(moves[j].Row, moves[j].Col).Count
		if maximizing {
			return ci > cj
		}
		return ci < cj
	})
	return moves
}
