// Package sqlite stores interview logs in a single-file SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/interviewer/pkg/domain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS interview_logs (
  id TEXT PRIMARY KEY,
  participant_name TEXT NOT NULL DEFAULT '',
  turn_count INTEGER NOT NULL,
  document TEXT NOT NULL,
  created_at INTEGER NOT NULL
)`

// Store implements ports.LogStore on SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the database at path and applies the schema.
// Use ":memory:" for a throwaway database.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection: SQLite serializes writers and each :memory: connection is a separate database.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Persist inserts doc in a single transaction.
func (s *Store) Persist(ctx context.Context, doc *domain.LogDocument) (string, error) {
	if err := doc.Validate(); err != nil {
		return "", err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal log: %w", err)
	}

	now := s.now()
	id := domain.NewLogID(now)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `INSERT INTO interview_logs (id, participant_name, turn_count, document, created_at)
VALUES (?, ?, ?, ?, ?) ON CONFLICT (id) DO NOTHING`,
		id, doc.ParticipantName, len(doc.Turns), string(data), now.UnixNano())
	if err != nil {
		return "", fmt.Errorf("insert log: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return "", fmt.Errorf("%w: %s", domain.ErrLogExists, id)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit log: %w", err)
	}
	return id, nil
}

// Load reads a log by id.
func (s *Store) Load(ctx context.Context, id string) (*domain.LogDocument, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT document FROM interview_logs WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrLogNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select log: %w", err)
	}

	var doc domain.LogDocument
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal log: %w", err)
	}
	return &doc, nil
}

// List returns all ids ordered by creation.
func (s *Store) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM interview_logs ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
