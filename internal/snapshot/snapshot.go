// Package snapshot reads and writes the plain-text board snapshot shared
// with external viewers.
//
// The format is a label line ending in a colon, followed by one line per
// board row. Cells are separated by single spaces; an empty cell is "0" and
// an owned cell is its orb count followed by the owner tag, e.g. "2R".
//
//	AI Move:
//	0 0 1B
//	0 2R 0
package snapshot

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vovakirdan/chain-reaction/internal/board"
)

// Labels written after each ply.
const (
	LabelAI     = "AI Move"
	LabelHuman  = "Human Move"
	LabelRandom = "Random Move"
)

// ErrMalformed is returned for input that does not follow the format.
var ErrMalformed = errors.New("malformed snapshot")

// Encode writes label and the board to w.
func Encode(w io.Writer, label string, b *board.Board) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s:\n", label)
	for r := 0; r < b.Rows(); r++ {
		for c := 0; c < b.Cols(); c++ {
			if c > 0 {
				bw.WriteByte(' ')
			}
			bw.WriteString(CellToken(b.At(r, c)))
		}
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("snapshot: write: %w", err)
	}
	return nil
}

// CellToken returns the text form of a single cell.
func CellToken(c board.Cell) string {
	if c.Empty() {
		return "0"
	}
	return strconv.Itoa(c.Count) + string(c.Owner.Tag())
}

// ParseCell parses a single cell token.
func ParseCell(tok string) (board.Cell, error) {
	if tok == "0" {
		return board.Cell{}, nil
	}
	if len(tok) < 2 {
		return board.Cell{}, fmt.Errorf("snapshot: cell %q: %w", tok, ErrMalformed)
	}
	owner := board.PlayerFromTag(tok[len(tok)-1])
	if owner == board.NoPlayer {
		return board.Cell{}, fmt.Errorf("snapshot: cell %q: unknown owner: %w", tok, ErrMalformed)
	}
	n, err := strconv.Atoi(tok[:len(tok)-1])
	if err != nil || n < 1 {
		return board.Cell{}, fmt.Errorf("snapshot: cell %q: bad count: %w", tok, ErrMalformed)
	}
	return board.Cell{Owner: owner, Count: n}, nil
}

// Decode reads a snapshot and returns its label (without the colon) and the
// board. Dimensions are taken from the rows; blank lines are ignored.
func Decode(r io.Reader) (string, *board.Board, error) {
	sc := bufio.NewScanner(r)

	label := ""
	haveLabel := false
	var grid [][]board.Cell

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if !haveLabel {
			if !strings.HasSuffix(line, ":") {
				return "", nil, fmt.Errorf("snapshot: label line %q: %w", line, ErrMalformed)
			}
			label = strings.TrimSpace(strings.TrimSuffix(line, ":"))
			haveLabel = true
			continue
		}

		fields := strings.Fields(line)
		row := make([]board.Cell, 0, len(fields))
		for _, tok := range fields {
			cell, err := ParseCell(tok)
			if err != nil {
				return "", nil, fmt.Errorf("snapshot: row %d: %w", len(grid), err)
			}
			row = append(row, cell)
		}
		if len(grid) > 0 && len(row) != len(grid[0]) {
			return "", nil, fmt.Errorf("snapshot: row %d has %d cells, want %d: %w",
				len(grid), len(row), len(grid[0]), ErrMalformed)
		}
		grid = append(grid, row)
	}
	if err := sc.Err(); err != nil {
		return "", nil, fmt.Errorf("snapshot: read: %w", err)
	}
	if !haveLabel {
		return "", nil, fmt.Errorf("snapshot: empty input: %w", ErrMalformed)
	}
	if len(grid) == 0 {
		return "", nil, fmt.Errorf("snapshot: no rows: %w", ErrMalformed)
	}

	b, err := board.New(len(grid), len(grid[0]))
	if err != nil {
		return "", nil, fmt.Errorf("snapshot: %w", err)
	}
	for r, row := range grid {
		for c, cell := range row {
			if cell.Empty() {
				continue
			}
			if err := b.Place(r, c, cell); err != nil {
				return "", nil, fmt.Errorf("snapshot: %w", err)
			}
		}
	}
	return label, b, nil
}

// NextPlayer returns who moves after a snapshot with the given label.
// An "AI" label means the AI (Blue) just moved, so Red is next; any other
// label hands the turn to Blue.
func NextPlayer(label string) board.Player {
	if strings.HasPrefix(strings.TrimSpace(label), "AI") {
		return board.Red
	}
	return board.Blue
}

// WriteFile writes the snapshot to path atomically: the data goes to a
// temporary file in the same directory which is then renamed over path.
func WriteFile(path, label string, b *board.Board) error {
	var buf bytes.Buffer
	if err := Encode(&buf, label, b); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("snapshot: cannot create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return fmt.Errorf("snapshot: create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("snapshot: write %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("snapshot: close %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("snapshot: rename to %s: %w", path, err)
	}
	return nil
}

// ReadFile decodes the snapshot stored at path.
func ReadFile(path string) (string, *board.Board, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", nil, fmt.Errorf("snapshot: open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}
