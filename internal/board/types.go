// Package board implements the chain reaction grid: cell ownership, move
// legality, explosion propagation and terminal-state detection.
package board

import "fmt"

// Player identifies who owns a cell. The zero value means unclaimed.
type Player uint8

const (
	NoPlayer Player = iota
	Red             // moves first
	Blue
)

// Players lists the two playing identities in turn order.
var Players = [2]Player{Red, Blue}

// Opponent returns the other playing identity.
// NoPlayer has no opponent and returns NoPlayer.
func (p Player) Opponent() Player {
	switch p {
	case Red:
		return Blue
	case Blue:
		return Red
	default:
		return NoPlayer
	}
}

// Valid reports whether p is one of the two playing identities.
func (p Player) Valid() bool {
	return p == Red || p == Blue
}

// Index returns 0 for Red and 1 for Blue, -1 otherwise.
func (p Player) Index() int {
	switch p {
	case Red:
		return 0
	case Blue:
		return 1
	default:
		return -1
	}
}

// PlayerFromIndex is the inverse of Index.
func PlayerFromIndex(i int) Player {
	switch i {
	case 0:
		return Red
	case 1:
		return Blue
	default:
		return NoPlayer
	}
}

// Tag returns the single-letter tag used in snapshots.
func (p Player) Tag() byte {
	switch p {
	case Red:
		return 'R'
	case Blue:
		return 'B'
	default:
		return '.'
	}
}

// PlayerFromTag parses a snapshot tag.
func PlayerFromTag(tag byte) Player {
	switch tag {
	case 'R':
		return Red
	case 'B':
		return Blue
	default:
		return NoPlayer
	}
}

// String returns a human-readable name for the player.
func (p Player) String() string {
	switch p {
	case NoPlayer:
		return "None"
	case Red:
		return "Red"
	case Blue:
		return "Blue"
	default:
		return "Unknown"
	}
}

// Cell is a single grid square.
// Count == 0 if and only if Owner == NoPlayer.
type Cell struct {
	Owner Player
	Count int // orbs in the cell
}

// Empty reports whether nobody has claimed the cell.
func (c Cell) Empty() bool {
	return c.Count == 0
}

// Move is a target coordinate for placing one orb.
type Move struct {
	Row, Col int
}

// String formats the move as (row,col).
func (m Move) String() string {
	return fmt.Sprintf("(%d,%d)", m.Row, m.Col)
}
