// Package sqlite provides a SQLite-backed implementation of the
// storage.Store interface.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/osgirl/groupbuyer/internal/apperr"
	"github.com/osgirl/groupbuyer/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// asDuplicate inspects a driver error for a UNIQUE constraint violation
// and converts it to the typed DuplicateError naming the offending
// column. The driver reports these as plain strings of the form
// "UNIQUE constraint failed: table.column".
func asDuplicate(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	marker := "UNIQUE constraint failed: "
	idx := strings.Index(msg, marker)
	if idx < 0 {
		return err
	}
	qualified := msg[idx+len(marker):]
	if end := strings.IndexAny(qualified, " ,("); end > 0 {
		qualified = qualified[:end]
	}
	field := qualified
	if dot := strings.LastIndex(qualified, "."); dot >= 0 {
		field = qualified[dot+1:]
	}
	return &apperr.DuplicateError{Field: field}
}
