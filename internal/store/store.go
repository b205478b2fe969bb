package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/sableaudio/mixtape/internal/shared"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS save_history (
	id TEXT PRIMARY KEY,
	playlist_id TEXT NOT NULL,
	name TEXT NOT NULL,
	track_count INTEGER NOT NULL,
	saved_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_save_history_saved_at ON save_history(saved_at);
`

// Store wraps a SQLite connection with the mixtape schema applied.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
// The database file is restricted to owner read/write.
func Open(path string) (*Store, error) {
	db, err := shared.NewDatabase(path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	if path != ":memory:" {
		if err := os.Chmod(path, 0600); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to restrict database permissions: %w", err)
		}
	}

	return &Store{db: db}, nil
}

// OpenMemory opens an in-memory database, used by tests.
func OpenMemory() (*Store, error) {
	return Open(":memory:")
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying connection for repositories sharing the store.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Put upserts a key/value pair.
func (s *Store) Put(key, value string) error {
	query := `
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`
	if _, err := s.db.Exec(query, key, value); err != nil {
		return fmt.Errorf("failed to put %q: %w", key, err)
	}
	return nil
}

// Get returns the value for key. A missing key returns an empty string and no error.
func (s *Store) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get %q: %w", key, err)
	}
	return value, nil
}

// Delete removes the given keys. Missing keys are not an error.
func (s *Store) Delete(keys ...string) error {
	for _, key := range keys {
		if _, err := s.db.Exec("DELETE FROM kv WHERE key = ?", key); err != nil {
			return fmt.Errorf("failed to delete %q: %w", key, err)
		}
	}
	return nil
}
