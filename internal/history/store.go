// Package history persists an append-only log of every successful
// refactoring so edits can be rolled back later. Records are immutable
// once written; rollback restores the file, it never rewrites the log.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// FixRecord is one applied refactoring: the full before/after content of
// the target file plus enough metadata to describe and undo it.
type FixRecord struct {
	ID              string
	FilePath        string
	Kind            string // e.g. "extract_function", "move_method"
	OriginalContent string
	NewContent      string
	Timestamp       time.Time
	Description     string
	CanRollback     bool
}

// Store is a SQLite-backed FixRecord log.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

const createFixesTable = `
CREATE TABLE IF NOT EXISTS fixes (
    id TEXT PRIMARY KEY,
    file_path TEXT NOT NULL,
    kind TEXT NOT NULL,
    original_content TEXT NOT NULL,
    new_content TEXT NOT NULL,
    timestamp TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    can_rollback INTEGER NOT NULL DEFAULT 1
)`

const createFixesTimestampIndex = `
CREATE INDEX IF NOT EXISTS idx_fixes_timestamp ON fixes(timestamp DESC)`

func createSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	for _, ddl := range []string{createFixesTable, createFixesTimestampIndex} {
		if _, err := tx.Exec(ddl); err != nil {
			return fmt.Errorf("failed to create history schema: %w", err)
		}
	}
	return tx.Commit()
}

// Record appends a FixRecord. A missing ID or timestamp is filled in.
func (s *Store) Record(r *FixRecord) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now().UTC()
	}

	_, err := sq.Insert("fixes").
		Columns("id", "file_path", "kind", "original_content", "new_content",
			"timestamp", "description", "can_rollback").
		Values(r.ID, r.FilePath, r.Kind, r.OriginalContent, r.NewContent,
			r.Timestamp.Format(time.RFC3339), r.Description, r.CanRollback).
		RunWith(s.db).
		Exec()
	if err != nil {
		return fmt.Errorf("failed to record fix for %s: %w", r.FilePath, err)
	}
	return nil
}

// Get retrieves a record by id. Returns nil when absent.
func (s *Store) Get(id string) (*FixRecord, error) {
	row := sq.Select("id", "file_path", "kind", "original_content", "new_content",
		"timestamp", "description", "can_rollback").
		From("fixes").
		Where(sq.Eq{"id": id}).
		RunWith(s.db).
		QueryRow()

	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load fix %s: %w", id, err)
	}
	return r, nil
}

// List returns the most recent records, newest first.
func (s *Store) List(limit int) ([]*FixRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := sq.Select("id", "file_path", "kind", "original_content", "new_content",
		"timestamp", "description", "can_rollback").
		From("fixes").
		OrderBy("timestamp DESC").
		Limit(uint64(limit)).
		RunWith(s.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to list fixes: %w", err)
	}
	defer rows.Close()

	var records []*FixRecord
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fix: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Rollback restores the file content recorded before the fix. It returns
// false without touching anything when the record is missing or not
// rollback-eligible.
func (s *Store) Rollback(id string) (bool, error) {
	r, err := s.Get(id)
	if err != nil {
		return false, err
	}
	if r == nil || !r.CanRollback {
		return false, nil
	}

	if err := os.WriteFile(r.FilePath, []byte(r.OriginalContent), 0o644); err != nil {
		return false, fmt.Errorf("failed to restore %s: %w", r.FilePath, err)
	}
	return true, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*FixRecord, error) {
	var r FixRecord
	var ts string
	if err := row.Scan(&r.ID, &r.FilePath, &r.Kind, &r.OriginalContent,
		&r.NewContent, &ts, &r.Description, &r.CanRollback); err != nil {
		return nil, err
	}
	parsed, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return nil, fmt.Errorf("bad timestamp %q: %w", ts, err)
	}
	r.Timestamp = parsed
	return &r, nil
}
