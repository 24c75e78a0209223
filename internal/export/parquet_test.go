package export

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/vovakirdan/chain-reaction/internal/agent"
	"github.com/vovakirdan/chain-reaction/internal/board"
	"github.com/vovakirdan/chain-reaction/internal/match"
)

func playGame(t *testing.T, rows, cols, maxPlies int) match.Result {
	t.Helper()
	m, err := match.New(agent.NewRandom(11), agent.NewRandom(12), match.Config{Rows: rows, Cols: cols, MaxPlies: maxPlies})
	if err != nil {
		t.Fatalf("match.New failed: %v", err)
	}
	res, err := m.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	return res
}

func TestFromResult(t *testing.T) {
	res := playGame(t, 3, 3, 8)

	rows, err := FromResult(res)
	if err != nil {
		t.Fatalf("FromResult failed: %v", err)
	}
	if len(rows) != res.Plies {
		t.Fatalf("got %d rows for %d plies", len(rows), res.Plies)
	}

	first := rows[0]
	if first.Ply != 1 || first.Player != "R" || first.Rows != 3 || first.Cols != 3 {
		t.Errorf("unexpected first row %+v", first)
	}
	if len(first.Board) != 9 {
		t.Fatalf("board has %d tokens, want 9", len(first.Board))
	}
	for i, tok := range first.Board {
		if tok != "0" {
			t.Errorf("first position token %d = %q, want empty", i, tok)
		}
	}

	for i, row := range rows {
		rec := res.Records[i]
		if row.MoveRow != int32(rec.Move.Row) || row.MoveCol != int32(rec.Move.Col) {
			t.Errorf("row %d move (%d,%d), want %v", i, row.MoveRow, row.MoveCol, rec.Move)
		}
		want := float32(0)
		if res.Winner != board.NoPlayer {
			want = -1
			if rec.Player == res.Winner {
				want = 1
			}
		}
		if row.Value != want {
			t.Errorf("row %d value %v, want %v", i, row.Value, want)
		}
	}
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		winner, mover board.Player
		want          float32
	}{
		{board.Red, board.Red, 1},
		{board.Red, board.Blue, -1},
		{board.Blue, board.Blue, 1},
		{board.NoPlayer, board.Red, 0},
	}
	for _, tt := range tests {
		if got := outcome(tt.winner, tt.mover); got != tt.want {
			t.Errorf("outcome(%v, %v) = %v, want %v", tt.winner, tt.mover, got, tt.want)
		}
	}
}

func TestPassedPlyHasNoMove(t *testing.T) {
	b, err := board.New(2, 2)
	if err != nil {
		t.Fatalf("board.New failed: %v", err)
	}
	res := match.Result{
		ID:     "g",
		Winner: board.NoPlayer,
		Records: []match.Record{
			{Ply: 1, Player: board.Red, Passed: true, Before: b, After: b},
		},
	}
	rows, err := FromResult(res)
	if err != nil {
		t.Fatalf("FromResult failed: %v", err)
	}
	if !rows[0].Passed || rows[0].MoveRow != -1 || rows[0].MoveCol != -1 {
		t.Errorf("passed ply row = %+v", rows[0])
	}
}

func TestFromResultWithoutRecords(t *testing.T) {
	if _, err := FromResult(match.Result{ID: "x"}); !errors.Is(err, ErrNoRecords) {
		t.Errorf("error = %v, want ErrNoRecords", err)
	}
	if _, err := FromResults([]match.Result{{ID: "x"}}); !errors.Is(err, ErrNoRecords) {
		t.Errorf("error = %v, want ErrNoRecords", err)
	}
}

func TestWriteReadFile(t *testing.T) {
	results := []match.Result{playGame(t, 3, 3, 6), playGame(t, 2, 4, 5)}
	rows, err := FromResults(results)
	if err != nil {
		t.Fatalf("FromResults failed: %v", err)
	}
	if len(rows) != results[0].Plies+results[1].Plies {
		t.Fatalf("got %d rows", len(rows))
	}

	path := filepath.Join(t.TempDir(), "out", "games.parquet")
	if err := WriteFile(path, rows); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !reflect.DeepEqual(got, rows) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, rows)
	}

	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.parquet")); err == nil {
		t.Error("ReadFile on a missing file should fail")
	}
}
