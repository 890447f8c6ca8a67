// Package store persists match records keyed by a caller-chosen source
// tag (file path, stream name). Backends: in-memory and SQLite.
package store

import "github.com/fastmatch/fastmatch/pkg/types"

// Store provides persistence for scan results.
type Store interface {
	// AddMatch stores one match record under a source tag.
	AddMatch(source string, m *types.Match) error

	// GetMatches retrieves the records stored under a source tag.
	GetMatches(source string) ([]*types.Match, error)

	// Sources lists the distinct source tags with stored records.
	Sources() ([]string, error)

	// Count returns the total number of stored records.
	Count() (int64, error)

	// Close closes the backing resources.
	Close() error
}

// Config for store initialization.
type Config struct {
	// Path is the database file path. Use ":memory:" for an in-memory
	// SQLite database, or leave empty for the pure in-memory store.
	Path string
}

// New creates a Store: the in-memory store when no path is given, the
// SQLite store otherwise.
func New(cfg Config) (Store, error) {
	if cfg.Path == "" {
		return NewMemory(), nil
	}
	return NewSQLite(cfg.Path)
}
