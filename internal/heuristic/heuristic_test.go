package heuristic

import (
	"errors"
	"math"
	"testing"

	"github.com/vovakirdan/chain-reaction/internal/board"
)

// fixture builds a 3x3 board:
//
//	2R .  1B
//	.  3R .
//	.  .  1B
func fixture(t *testing.T) *board.Board {
	t.Helper()
	b, err := board.New(3, 3)
	if err != nil {
		t.Fatalf("board.New failed: %v", err)
	}
	cells := []struct {
		row, col int
		cell     board.Cell
	}{
		{0, 0, board.Cell{Owner: board.Red, Count: 2}},
		{0, 2, board.Cell{Owner: board.Blue, Count: 1}},
		{1, 1, board.Cell{Owner: board.Red, Count: 3}},
		{2, 2, board.Cell{Owner: board.Blue, Count: 1}},
	}
	for _, c := range cells {
		if err := b.Place(c.row, c.col, c.cell); err != nil {
			t.Fatalf("Place failed: %v", err)
		}
	}
	return b
}

func TestScores(t *testing.T) {
	b := fixture(t)

	tests := []struct {
		kind Kind
		want float64
	}{
		// orbs 5 vs 2, cells 2 vs 2
		{Simple, 3},
		{CellControl, 0},
		// Red: corner 3 + interior 1; Blue: two corners
		{EdgePriority, 4 - 6},
		// Red: 2/2 + 3/4; Blue: 1/2 + 1/2
		{CriticalMass, 1.75 - 1.0},
		{Aggressive, 10 - 6},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			got := tt.kind.Func()(b, board.Red, board.Blue)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("%v(Red) = %v, want %v", tt.kind, got, tt.want)
			}
		})
	}
}

func TestSymmetricScoresFlipSign(t *testing.T) {
	b := fixture(t)
	for _, k := range []Kind{Simple, CellControl, EdgePriority, CriticalMass} {
		red := k.Func()(b, board.Red, board.Blue)
		blue := k.Func()(b, board.Blue, board.Red)
		if math.Abs(red+blue) > 1e-9 {
			t.Errorf("%v: Red %v and Blue %v should be opposite", k, red, blue)
		}
	}
}

func TestEmptyBoardScoresZero(t *testing.T) {
	b, err := board.New(9, 6)
	if err != nil {
		t.Fatalf("board.New failed: %v", err)
	}
	for _, k := range Kinds() {
		if got := k.Func()(b, board.Red, board.Blue); got != 0 {
			t.Errorf("%v on empty board = %v, want 0", k, got)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"simple", Simple},
		{"1", Simple},
		{"cell-control", CellControl},
		{"Edge_Priority", EdgePriority},
		{" 4 ", CriticalMass},
		{"aggressive", Aggressive},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if err != nil {
			t.Errorf("Parse(%q) failed: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"", "0", "6", "greedy"} {
		if _, err := Parse(bad); !errors.Is(err, ErrUnknown) {
			t.Errorf("Parse(%q) error = %v, want ErrUnknown", bad, err)
		}
	}
}

func TestKindsHaveFuncs(t *testing.T) {
	kinds := Kinds()
	if len(kinds) != 5 {
		t.Fatalf("len(Kinds()) = %d, want 5", len(kinds))
	}
	for i, k := range kinds {
		if int(k) != i+1 {
			t.Errorf("Kinds()[%d] = %d, want %d", i, k, i+1)
		}
		if k.Func() == nil {
			t.Errorf("%v has no evaluator", k)
		}
	}
	if Kind(42).Func() != nil {
		t.Error("unknown kind should have no evaluator")
	}
}
