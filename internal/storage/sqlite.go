// Package storage provides SQLite-based persistence for finished matches.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/chain-reaction/internal/board"
	"github.com/vovakirdan/chain-reaction/internal/match"
	"github.com/vovakirdan/chain-reaction/internal/tournament"
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// MatchRecord is a stored match.
type MatchRecord struct {
	ID         int64
	MatchID    string
	Red        string
	Blue       string
	Winner     string // "Red", "Blue" or empty for a draw
	Reason     string
	Rows       int
	Cols       int
	Plies      int
	DurationMs int64
	CreatedAt  time.Time
}

// WinnerName returns the winning agent's name, or "" for a draw.
func (r MatchRecord) WinnerName() string {
	switch r.Winner {
	case board.Red.String():
		return r.Red
	case board.Blue.String():
		return r.Blue
	default:
		return ""
	}
}

// Standing is one agent's aggregated record across stored matches.
type Standing struct {
	Agent  string
	Games  int
	Wins   int
	Losses int
	Draws  int
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS matches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			match_id TEXT NOT NULL UNIQUE,
			red TEXT NOT NULL,
			blue TEXT NOT NULL,
			winner TEXT,
			reason TEXT NOT NULL,
			board_rows INTEGER NOT NULL,
			board_cols INTEGER NOT NULL,
			plies INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_matches_red ON matches(red);
		CREATE INDEX IF NOT EXISTS idx_matches_blue ON matches(blue);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveMatch records a finished match.
// Returns the ID of the inserted record.
func (s *Store) SaveMatch(rec MatchRecord) (int64, error) {
	var winner sql.NullString
	if rec.Winner != "" {
		winner = sql.NullString{String: rec.Winner, Valid: true}
	}

	result, err := s.db.Exec(
		`INSERT INTO matches
		 (match_id, red, blue, winner, reason, board_rows, board_cols, plies, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.MatchID, rec.Red, rec.Blue, winner, rec.Reason,
		rec.Rows, rec.Cols, rec.Plies, rec.DurationMs,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save match: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// SaveMatchResult implements tournament.ResultSaver.
func (s *Store) SaveMatchResult(res match.Result) error {
	rec := MatchRecord{
		MatchID:    res.ID,
		Red:        res.Red,
		Blue:       res.Blue,
		Reason:     res.Reason,
		Plies:      res.Plies,
		DurationMs: res.Duration.Milliseconds(),
	}
	if res.Winner != board.NoPlayer {
		rec.Winner = res.Winner.String()
	}
	if res.Final != nil {
		rec.Rows = res.Final.Rows()
		rec.Cols = res.Final.Cols()
	}
	_, err := s.SaveMatch(rec)
	return err
}

// Ensure Store implements ResultSaver
var _ tournament.ResultSaver = (*Store)(nil)

const matchColumns = `id, match_id, red, blue, winner, reason, board_rows, board_cols, plies, duration_ms, created_at`

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanMatch(sc scanner) (MatchRecord, error) {
	var rec MatchRecord
	var winner sql.NullString
	var createdAt any

	err := sc.Scan(
		&rec.ID,
		&rec.MatchID,
		&rec.Red,
		&rec.Blue,
		&winner,
		&rec.Reason,
		&rec.Rows,
		&rec.Cols,
		&rec.Plies,
		&rec.DurationMs,
		&createdAt,
	)
	if err != nil {
		return rec, err
	}
	if winner.Valid {
		rec.Winner = winner.String
	}
	rec.CreatedAt = parseTime(createdAt)
	return rec, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// MatchByID retrieves a match by its match ID.
// Returns nil without an error when no such match exists.
func (s *Store) MatchByID(matchID string) (*MatchRecord, error) {
	row := s.db.QueryRow(
		`SELECT `+matchColumns+` FROM matches WHERE match_id = ?`,
		matchID,
	)
	rec, err := scanMatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query match: %w", err)
	}
	return &rec, nil
}

// RecentMatches retrieves the most recent matches, newest first.
func (s *Store) RecentMatches(limit int) ([]MatchRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+matchColumns+`
		 FROM matches
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query matches: %w", err)
	}
	defer rows.Close()

	var results []MatchRecord
	for rows.Next() {
		rec, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		results = append(results, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// Leaderboard aggregates wins, losses and draws per agent over all stored
// matches, ordered by wins (draws count half) and then name. An agent
// playing itself is counted once per side.
func (s *Store) Leaderboard() ([]Standing, error) {
	rows, err := s.db.Query(
		`SELECT agent,
		        COUNT(*),
		        SUM(CASE WHEN winner = side THEN 1 ELSE 0 END),
		        SUM(CASE WHEN winner IS NOT NULL AND winner != side THEN 1 ELSE 0 END),
		        SUM(CASE WHEN winner IS NULL THEN 1 ELSE 0 END)
		 FROM (
			SELECT red AS agent, 'Red' AS side, winner FROM matches
			UNION ALL
			SELECT blue AS agent, 'Blue' AS side, winner FROM matches
		 )
		 GROUP BY agent
		 ORDER BY 2.0 * SUM(CASE WHEN winner = side THEN 1 ELSE 0 END)
		          + SUM(CASE WHEN winner IS NULL THEN 1 ELSE 0 END) DESC,
		          agent ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query leaderboard: %w", err)
	}
	defer rows.Close()

	var table []Standing
	for rows.Next() {
		var st Standing
		if err := rows.Scan(&st.Agent, &st.Games, &st.Wins, &st.Losses, &st.Draws); err != nil {
			return nil, fmt.Errorf("storage: cannot scan leaderboard row: %w", err)
		}
		table = append(table, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return table, nil
}

// CountMatches returns the number of stored matches.
func (s *Store) CountMatches() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM matches").Scan(&n); err != nil {
		return 0, fmt.Errorf("storage: cannot count matches: %w", err)
	}
	return n, nil
}

// ClearMatches deletes every stored match.
func (s *Store) ClearMatches() error {
	_, err := s.db.Exec("DELETE FROM matches")
	if err != nil {
		return fmt.Errorf("storage: cannot clear matches: %w", err)
	}
	return nil
}
