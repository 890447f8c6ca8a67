package store

import (
	"database/sql"
	"fmt"

	"github.com/fastmatch/fastmatch/pkg/types"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite (pure-Go driver, no CGO).
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS matches (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	source       TEXT    NOT NULL,
	kind         TEXT    NOT NULL,
	pattern_id   INTEGER NOT NULL,
	pattern      TEXT    NOT NULL,
	start_offset INTEGER NOT NULL,
	end_offset   INTEGER NOT NULL,
	matched      BLOB
);
CREATE INDEX IF NOT EXISTS idx_matches_source ON matches(source);
`

// NewSQLite creates a SQLite-based store. Use ":memory:" for an in-memory
// database (useful for testing).
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// AddMatch stores one match record under a source tag.
func (s *SQLiteStore) AddMatch(source string, m *types.Match) error {
	_, err := s.db.Exec(`
		INSERT INTO matches (source, kind, pattern_id, pattern, start_offset, end_offset, matched)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, source, string(m.Kind), m.PatternID, m.Pattern, m.Start, m.End, m.Matched)
	if err != nil {
		return fmt.Errorf("inserting match: %w", err)
	}
	return nil
}

// GetMatches retrieves the records stored under a source tag.
func (s *SQLiteStore) GetMatches(source string) ([]*types.Match, error) {
	rows, err := s.db.Query(`
		SELECT kind, pattern_id, pattern, start_offset, end_offset, matched
		FROM matches WHERE source = ? ORDER BY start_offset, end_offset, id
	`, source)
	if err != nil {
		return nil, fmt.Errorf("querying matches: %w", err)
	}
	defer rows.Close()

	var result []*types.Match
	for rows.Next() {
		var m types.Match
		var kind string
		if err := rows.Scan(&kind, &m.PatternID, &m.Pattern, &m.Start, &m.End, &m.Matched); err != nil {
			return nil, fmt.Errorf("scanning match row: %w", err)
		}
		m.Kind = types.Kind(kind)
		result = append(result, &m)
	}
	return result, rows.Err()
}

// Sources lists the distinct source tags with stored records.
func (s *SQLiteStore) Sources() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT source FROM matches ORDER BY source`)
	if err != nil {
		return nil, fmt.Errorf("querying sources: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var source string
		if err := rows.Scan(&source); err != nil {
			return nil, fmt.Errorf("scanning source row: %w", err)
		}
		out = append(out, source)
	}
	return out, rows.Err()
}

// Count returns the total number of stored records.
func (s *SQLiteStore) Count() (int64, error) {
	var n int64
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM matches`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting matches: %w", err)
	}
	return n, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
