package board

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Errors returned by board operations. Callers match them with errors.Is.
var (
	ErrInvalidMove = errors.New("invalid move")
	ErrOutOfBounds = errors.New("out of bounds")
	ErrInvalidSize = errors.New("invalid board size")
	ErrInvalidCell = errors.New("invalid cell")
	ErrChainLimit  = errors.New("chain reaction did not settle")
)

// MinSize is the smallest supported number of rows or columns.
// Every cell on such a board has at least two neighbours, so explosions
// always hand out exactly the orbs they remove.
const MinSize = 2

// Board is a rectangular grid of cells stored in row-major order:
// index = row*cols + col. Dimensions never change after New.
type Board struct {
	rows  int
	cols  int
	cells []Cell

	// entered records which players have made a move or been placed.
	// Terminal detection only applies once both have.
	entered [2]bool
}

// New creates an empty board with the given dimensions.
func New(rows, cols int) (*Board, error) {
	if rows < MinSize || cols < MinSize {
		return nil, fmt.Errorf("board: %dx%d: %w", rows, cols, ErrInvalidSize)
	}
	return &Board{
		rows:  rows,
		cols:  cols,
		cells: make([]Cell, rows*cols),
	}, nil
}

// Rows returns the number of rows.
func (b *Board) Rows() int {
	return b.rows
}

// Cols returns the number of columns.
func (b *Board) Cols() int {
	return b.cols
}

// index converts a coordinate to a flat slice index.
func (b *Board) index(row, col int) int {
	return row*b.cols + col
}

// InBounds returns true if the coordinate lies on the grid.
func (b *Board) InBounds(row, col int) bool {
	return row >= 0 && row < b.rows && col >= 0 && col < b.cols
}

// At returns the cell at the given coordinate.
// Returns an empty cell for out-of-bounds coordinates.
func (b *Board) At(row, col int) Cell {
	if !b.InBounds(row, col) {
		return Cell{}
	}
	return b.cells[b.index(row, col)]
}

// Place overwrites a cell without running the rules. It exists for
// restoring saved positions; games in progress go through ApplyMove.
func (b *Board) Place(row, col int, c Cell) error {
	if !b.InBounds(row, col) {
		return fmt.Errorf("board: place (%d,%d): %w", row, col, ErrOutOfBounds)
	}
	if c.Count < 0 || (c.Count == 0) != (c.Owner == NoPlayer) || (c.Owner != NoPlayer && !c.Owner.Valid()) {
		return fmt.Errorf("board: place (%d,%d) owner=%v count=%d: %w", row, col, c.Owner, c.Count, ErrInvalidCell)
	}
	b.cells[b.index(row, col)] = c
	if c.Owner.Valid() {
		b.entered[c.Owner.Index()] = true
	}
	return nil
}

// Entered reports whether the player has made a move (or been placed) on this board.
func (b *Board) Entered(p Player) bool {
	if !p.Valid() {
		return false
	}
	return b.entered[p.Index()]
}

// Clone returns an independent deep copy of the board.
func (b *Board) Clone() *Board {
	cells := make([]Cell, len(b.cells))
	copy(cells, b.cells)
	return &Board{
		rows:    b.rows,
		cols:    b.cols,
		cells:   cells,
		entered: b.entered,
	}
}

// Equal reports whether two boards have the same dimensions and cells.
func (b *Board) Equal(other *Board) bool {
	if other == nil || b.rows != other.rows || b.cols != other.cols {
		return false
	}
	for i := range b.cells {
		if b.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// CountOrbs returns the total orb count over cells owned by p.
func (b *Board) CountOrbs(p Player) int {
	total := 0
	for _, c := range b.cells {
		if c.Owner == p && p != NoPlayer {
			total += c.Count
		}
	}
	return total
}

// CountCells returns the number of cells owned by p.
func (b *Board) CountCells(p Player) int {
	n := 0
	for _, c := range b.cells {
		if c.Owner == p && p != NoPlayer {
			n++
		}
	}
	return n
}

// TotalOrbs returns the number of orbs on the whole board.
func (b *Board) TotalOrbs() int {
	total := 0
	for _, c := range b.cells {
		total += c.Count
	}
	return total
}

// String renders the grid one row per line, "." for empty cells and
// "<count><tag>" otherwise. Intended for logs and test failures.
func (b *Board) String() string {
	var sb strings.Builder
	for r := 0; r < b.rows; r++ {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c := 0; c < b.cols; c++ {
			if c > 0 {
				sb.WriteByte(' ')
			}
			cell := b.cells[b.index(r, c)]
			if cell.Empty() {
				sb.WriteString(" .")
				continue
			}
			sb.WriteString(strconv.Itoa(cell.Count))
			sb.WriteByte(cell.Owner.Tag())
		}
	}
	return sb.String()
}
