package board

import "fmt"

// neighbours are the orthogonal offsets an explosion spreads to.
var neighbours = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// CriticalMass returns how many orbs a cell holds before it explodes.
// Base 3, minus one for each grid edge the cell touches: corners 1, edges 2,
// interior 3. A cell explodes when its count exceeds this value.
func (b *Board) CriticalMass(row, col int) int {
	edges := 0
	if row == 0 || row == b.rows-1 {
		edges++
	}
	if col == 0 || col == b.cols-1 {
		edges++
	}
	return 3 - edges
}

// IsValidMove returns true if p may place an orb at (row, col): the cell
// is on the board and either unclaimed or already owned by p.
func (b *Board) IsValidMove(row, col int, p Player) bool {
	if !p.Valid() || !b.InBounds(row, col) {
		return false
	}
	owner := b.cells[b.index(row, col)].Owner
	return owner == NoPlayer || owner == p
}

// ValidMoves returns every legal move for p in row-major order.
func (b *Board) ValidMoves(p Player) []Move {
	if !p.Valid() {
		return nil
	}
	moves := make([]Move, 0, len(b.cells))
	for r := 0; r < b.rows; r++ {
		for c := 0; c < b.cols; c++ {
			owner := b.cells[b.index(r, c)].Owner
			if owner == NoPlayer || owner == p {
				moves = append(moves, Move{Row: r, Col: c})
			}
		}
	}
	return moves
}

// ApplyMove places one orb for p at (row, col) and resolves the resulting
// chain reaction. Illegal moves are rejected before any state changes.
func (b *Board) ApplyMove(row, col int, p Player) error {
	if !b.InBounds(row, col) {
		return fmt.Errorf("board: move (%d,%d) on %dx%d: %w", row, col, b.rows, b.cols, ErrOutOfBounds)
	}
	if !b.IsValidMove(row, col, p) {
		return fmt.Errorf("board: move (%d,%d) for %v: %w", row, col, p, ErrInvalidMove)
	}

	cell := &b.cells[b.index(row, col)]
	cell.Count++
	cell.Owner = p
	b.entered[p.Index()] = true

	if _, err := b.resolve(); err != nil {
		return err
	}
	return nil
}

// explosion is a cell collected during one resolution pass.
type explosion struct {
	row, col int
	owner    Player
}

// resolve runs explosion passes until the board is stable or the game is
// decided. Every overloaded cell of a pass is collected first and then
// exploded, so explosions within a pass never see each other's orbs.
// Returns the number of passes that exploded at least one cell.
func (b *Board) resolve() (int, error) {
	limit := b.passLimit()
	var batch []explosion

	for passes := 0; ; passes++ {
		batch = batch[:0]
		for r := 0; r < b.rows; r++ {
			for c := 0; c < b.cols; c++ {
				cell := b.cells[b.index(r, c)]
				if cell.Count > b.CriticalMass(r, c) {
					batch = append(batch, explosion{row: r, col: c, owner: cell.Owner})
				}
			}
		}
		if len(batch) == 0 {
			return passes, nil
		}
		if passes >= limit {
			return passes, fmt.Errorf("board: after %d passes: %w", passes, ErrChainLimit)
		}

		for _, e := range batch {
			cell := &b.cells[b.index(e.row, e.col)]
			cell.Count -= b.CriticalMass(e.row, e.col) + 1
			if cell.Count <= 0 {
				cell.Count = 0
				cell.Owner = NoPlayer
			}
			for _, d := range neighbours {
				nr, nc := e.row+d[0], e.col+d[1]
				if !b.InBounds(nr, nc) {
					continue
				}
				n := &b.cells[b.index(nr, nc)]
				n.Count++
				n.Owner = e.owner
			}
		}

		if b.IsGameOver() {
			return passes + 1, nil
		}
	}
}

// passLimit bounds the number of explosion passes for one move.
func (b *Board) passLimit() int {
	total := b.TotalOrbs()
	if total < 1 {
		total = 1
	}
	return b.rows * b.cols * total
}

// IsGameOver returns true once both players have entered the game and at
// most one of them still owns cells.
func (b *Board) IsGameOver() bool {
	if !b.entered[0] || !b.entered[1] {
		return false
	}
	owner := NoPlayer
	for _, c := range b.cells {
		if c.Owner == NoPlayer {
			continue
		}
		if owner == NoPlayer {
			owner = c.Owner
			continue
		}
		if c.Owner != owner {
			return false
		}
	}
	return true
}

// Winner returns the surviving player once the game is over.
func (b *Board) Winner() (Player, bool) {
	if !b.IsGameOver() {
		return NoPlayer, false
	}
	for _, c := range b.cells {
		if c.Owner != NoPlayer {
			return c.Owner, true
		}
	}
	return NoPlayer, false
}
