// Package export turns finished matches into Parquet training data: one row
// per ply with the position before the move, the move played and the final
// outcome from the mover's perspective.
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"

	"github.com/vovakirdan/chain-reaction/internal/board"
	"github.com/vovakirdan/chain-reaction/internal/match"
	"github.com/vovakirdan/chain-reaction/internal/snapshot"
)

// SchemaVersion is stored in the file's key/value metadata.
const SchemaVersion = "chainreaction_ply_v1"

// TrainingRow is a single supervised training sample.
//
// Board holds the position before the move as snapshot cell tokens in
// row-major order ("0", "2R", ...). Value is the final outcome from the
// mover's perspective: 1 win, -1 loss, 0 draw.
type TrainingRow struct {
	GameID  string   `parquet:"game_id,dict"`
	Ply     int32    `parquet:"ply"`
	Rows    int32    `parquet:"rows"`
	Cols    int32    `parquet:"cols"`
	Player  string   `parquet:"player,dict"`
	Agent   string   `parquet:"agent,dict"`
	Passed  bool     `parquet:"passed"`
	MoveRow int32    `parquet:"move_row"`
	MoveCol int32    `parquet:"move_col"`
	Board   []string `parquet:"board"`
	Value   float32  `parquet:"value"`
}

// ErrNoRecords is returned for results that carry no per-ply records.
var ErrNoRecords = errors.New("result has no ply records")

// FromResult converts one finished match into training rows.
func FromResult(res match.Result) ([]TrainingRow, error) {
	if len(res.Records) == 0 {
		return nil, fmt.Errorf("export: match %s: %w", res.ID, ErrNoRecords)
	}

	rows := make([]TrainingRow, 0, len(res.Records))
	for _, rec := range res.Records {
		b := rec.Before
		row := TrainingRow{
			GameID:  res.ID,
			Ply:     int32(rec.Ply),
			Rows:    int32(b.Rows()),
			Cols:    int32(b.Cols()),
			Player:  string(rec.Player.Tag()),
			Agent:   rec.Agent,
			Passed:  rec.Passed,
			MoveRow: -1,
			MoveCol: -1,
			Board:   tokens(b),
			Value:   outcome(res.Winner, rec.Player),
		}
		if !rec.Passed {
			row.MoveRow = int32(rec.Move.Row)
			row.MoveCol = int32(rec.Move.Col)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// FromResults converts several matches in order.
func FromResults(results []match.Result) ([]TrainingRow, error) {
	var rows []TrainingRow
	for _, res := range results {
		r, err := FromResult(res)
		if err != nil {
			return nil, err
		}
		rows = append(rows, r...)
	}
	return rows, nil
}

func tokens(b *board.Board) []string {
	out := make([]string, 0, b.Rows()*b.Cols())
	for r := 0; r < b.Rows(); r++ {
		for c := 0; c < b.Cols(); c++ {
			out = append(out, snapshot.CellToken(b.At(r, c)))
		}
	}
	return out
}

func outcome(winner, mover board.Player) float32 {
	switch winner {
	case board.NoPlayer:
		return 0
	case mover:
		return 1
	default:
		return -1
	}
}

// WriteFile writes rows to outPath as zstd-compressed Parquet.
// The data goes to a temporary file first and is renamed into place.
func WriteFile(outPath string, rows []TrainingRow) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("export: create output dir: %w", err)
	}

	tmpPath := outPath + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", SchemaVersion),
	); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("export: write parquet: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("export: rename parquet: %w", err)
	}
	return nil
}

// ReadFile loads every row from a file written by WriteFile.
func ReadFile(path string) ([]TrainingRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("export: open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[TrainingRow](pf)
	defer reader.Close()

	rows := make([]TrainingRow, reader.NumRows())
	read := 0
	for read < len(rows) {
		n, err := reader.Read(rows[read:])
		read += n
		if err == io.EOF || (err == nil && n == 0) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("export: read parquet: %w", err)
		}
	}
	return rows[:read], nil
}
