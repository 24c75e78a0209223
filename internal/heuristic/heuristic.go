// Package heuristic provides static board evaluators for the search.
// Every evaluator scores a position from player's point of view: higher is
// better for player, lower is better for opponent.
package heuristic

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vovakirdan/chain-reaction/internal/board"
)

// Func evaluates a board for player against opponent.
type Func func(b *board.Board, player, opponent board.Player) float64

// Kind names one of the built-in evaluators.
// Values match the numbering shown in menus (1-based).
type Kind int

const (
	Simple Kind = iota + 1
	CellControl
	EdgePriority
	CriticalMass
	Aggressive
)

// ErrUnknown is returned when a heuristic name or number is not recognised.
var ErrUnknown = errors.New("unknown heuristic")

var names = map[Kind]string{
	Simple:       "simple",
	CellControl:  "cell-control",
	EdgePriority: "edge-priority",
	CriticalMass: "critical-mass",
	Aggressive:   "aggressive",
}

var funcs = map[Kind]Func{
	Simple:       SimpleScore,
	CellControl:  CellControlScore,
	EdgePriority: EdgePriorityScore,
	CriticalMass: CriticalMassScore,
	Aggressive:   AggressiveScore,
}

// Kinds returns all built-in heuristics in menu order.
func Kinds() []Kind {
	return []Kind{Simple, CellControl, EdgePriority, CriticalMass, Aggressive}
}

// String returns the heuristic's name.
func (k Kind) String() string {
	if name, ok := names[k]; ok {
		return name
	}
	return fmt.Sprintf("heuristic(%d)", int(k))
}

// Func returns the evaluator for k, or nil for an unknown kind.
func (k Kind) Func() Func {
	return funcs[k]
}

// Parse accepts a heuristic name ("edge-priority", "edge_priority") or
// its menu number ("3").
func Parse(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		k := Kind(n)
		if _, ok := names[k]; ok {
			return k, nil
		}
		return 0, fmt.Errorf("heuristic: %q: %w", s, ErrUnknown)
	}
	s = strings.ReplaceAll(s, "_", "-")
	for k, name := range names {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("heuristic: %q: %w", s, ErrUnknown)
}

// SimpleScore is the orb differential plus half the cell differential.
func SimpleScore(b *board.Board, player, opponent board.Player) float64 {
	orbs := b.CountOrbs(player) - b.CountOrbs(opponent)
	cells := b.CountCells(player) - b.CountCells(opponent)
	return float64(orbs) + 0.5*float64(cells)
}

// CellControlScore is the claimed-cell differential.
func CellControlScore(b *board.Board, player, opponent board.Player) float64 {
	return float64(b.CountCells(player) - b.CountCells(opponent))
}

// EdgePriorityScore weights owned cells by position: corners 3, edges 2,
// interior 1; opponent cells count negatively.
func EdgePriorityScore(b *board.Board, player, opponent board.Player) float64 {
	score := 0
	for r := 0; r < b.Rows(); r++ {
		for c := 0; c < b.Cols(); c++ {
			owner := b.At(r, c).Owner
			if owner == board.NoPlayer {
				continue
			}
			w := positionWeight(b, r, c)
			switch owner {
			case player:
				score += w
			case opponent:
				score -= w
			}
		}
	}
	return float64(score)
}

// positionWeight is 3 for corners, 2 for edges and 1 elsewhere.
func positionWeight(b *board.Board, row, col int) int {
	rowEdge := row == 0 || row == b.Rows()-1
	colEdge := col == 0 || col == b.Cols()-1
	switch {
	case rowEdge && colEdge:
		return 3
	case rowEdge || colEdge:
		return 2
	default:
		return 1
	}
}

// CriticalMassScore measures how close each side's cells are to exploding:
// the sum of count/(critical mass+1) over owned cells, as a differential.
func CriticalMassScore(b *board.Board, player, opponent board.Player) float64 {
	var own, opp float64
	for r := 0; r < b.Rows(); r++ {
		for c := 0; c < b.Cols(); c++ {
			cell := b.At(r, c)
			if cell.Owner == board.NoPlayer {
				continue
			}
			fill := float64(cell.Count) / float64(b.CriticalMass(r, c)+1)
			switch cell.Owner {
			case player:
				own += fill
			case opponent:
				opp += fill
			}
		}
	}
	return own - opp
}

// AggressiveScore rewards own orbs and punishes opponent orbs harder.
func AggressiveScore(b *board.Board, player, opponent board.Player) float64 {
	return float64(2*b.CountOrbs(player) - 3*b.CountOrbs(opponent))
}
