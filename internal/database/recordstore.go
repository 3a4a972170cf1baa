// Package database implements the shared SQLite record store and the four
// repositories that operate through it.
package database

import (
	"database/sql"
	"fmt"
	"sync"

	"petmed-go/internal/petmed"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// RecordStore owns the single database handle shared by all repositories.
// Lifecycle: construct → Open → in use → Close. Open is idempotent within a
// process lifetime; Handle fails until the first successful Open.
type RecordStore struct {
	mu   sync.Mutex
	db   *sql.DB
	path string
}

// NewRecordStore creates an unopened store for the given path.
// path can be a file path or ":memory:" for an in-memory database.
func NewRecordStore(path string) *RecordStore {
	return &RecordStore{path: path}
}

// Open opens the underlying connection. Repeated calls are serviced by the
// handle from the first successful call.
func (s *RecordStore) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return nil
	}

	db, err := OpenConnection(s.path)
	if err != nil {
		return err
	}
	s.db = db
	return nil
}

// Handle returns the shared database handle, or an error wrapping
// petmed.ErrNotInitialized when Open has not succeeded yet.
func (s *RecordStore) Handle() (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil, fmt.Errorf("record store %q: %w", s.path, petmed.ErrNotInitialized)
	}
	return s.db, nil
}

// Path returns the database file path (or ":memory:").
func (s *RecordStore) Path() string { return s.path }

// Close closes the database connection. The store cannot be reopened.
func (s *RecordStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// persistErr wraps a storage failure with the attempted operation and entity.
func persistErr(op, entity string, err error) error {
	return &petmed.PersistenceError{Op: op, Entity: entity, Err: err}
}

// nullString maps the empty string to SQL NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// OpenConnection opens and configures a SQLite connection with appropriate
// PRAGMAs. Exported for tools and tests that need a raw configured handle.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection serializes writes and keeps ":memory:" databases
	// from silently splitting per pool connection.
	db.SetMaxOpenConns(1)

	// Enable foreign key constraints (SQLite default is OFF for backward compatibility)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Wait for locks instead of failing immediately when another process
	// holds the file.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return db, nil
}
