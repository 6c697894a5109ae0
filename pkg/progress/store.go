// Package progress persists the presentation position across runs.
//
// The durable contract is one string key, "presentationProgress", holding
// the slide index. Reads happen once at startup; writes happen on every
// committed transition, on suspend, and on teardown. Every storage failure
// is swallowed at the call site: navigation must never fail because
// persistence did.
package progress

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

// ProgressKey is the fixed storage key for the presentation position.
const ProgressKey = "presentationProgress"

// Store is a minimal durable key-value string store.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Close() error
}

// SQLiteStore persists keys in a single-table SQLite database, one per user,
// in the XDG state directory.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the progress database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening progress store: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing progress store: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Get returns the stored value for key. A missing key is an error.
func (s *SQLiteStore) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("reading %q: %w", key, err)
	}
	return value, nil
}

// Set writes the value for key, replacing any previous value.
func (s *SQLiteStore) Set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("writing %q: %w", key, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// MemStore is an in-memory Store for tests. The zero value is unusable; use
// NewMemStore. FailWrites and FailReads simulate storage-access failures.
type MemStore struct {
	mu         sync.Mutex
	m          map[string]string
	FailWrites bool
	FailReads  bool
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{m: make(map[string]string)}
}

// Get returns the stored value for key; a missing key is an error.
func (s *MemStore) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailReads {
		return "", fmt.Errorf("reading %q: storage unavailable", key)
	}
	v, ok := s.m[key]
	if !ok {
		return "", fmt.Errorf("reading %q: no such key", key)
	}
	return v, nil
}

// Set writes the value for key.
func (s *MemStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites {
		return fmt.Errorf("writing %q: storage unavailable", key)
	}
	s.m[key] = value
	return nil
}

// Close is a no-op.
func (s *MemStore) Close() error { return nil }
