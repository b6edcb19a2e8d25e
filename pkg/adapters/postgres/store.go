// Package postgres stores interview logs in a PostgreSQL table through the pgx driver.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/interviewer/pkg/domain"
	"github.com/aretw0/interviewer/pkg/persistence"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const defaultTable = "interview_logs"

// Store implements ports.LogStore on database/sql with the pgx driver.
type Store struct {
	db    *sql.DB
	table string
	now   func() time.Time

	schema persistence.Initializer
}

// Open connects to dsn and verifies the connection.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return New(db), nil
}

// New wraps an existing handle.
func New(db *sql.DB) *Store {
	return &Store{db: db, table: defaultTable, now: time.Now}
}

// WithTable returns the store writing to a different table.
func (s *Store) WithTable(name string) *Store {
	s.table = name
	return s
}

func (s *Store) ensureSchema(ctx context.Context) error {
	return s.schema.Do(ctx, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
  id TEXT PRIMARY KEY,
  participant_name TEXT NOT NULL DEFAULT '',
  turn_count INTEGER NOT NULL,
  document JSONB NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`, s.table))
		return err
	})
}

// Persist inserts doc in a single transaction. The primary key rejects a second write of the same id.
func (s *Store) Persist(ctx context.Context, doc *domain.LogDocument) (string, error) {
	if err := doc.Validate(); err != nil {
		return "", err
	}
	if err := s.ensureSchema(ctx); err != nil {
		return "", fmt.Errorf("ensure schema: %w", err)
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

	res, err := tx.ExecContext(ctx, fmt.Sprintf(`INSERT INTO %s (id, participant_name, turn_count, document, created_at)
VALUES ($1, $2, $3, $4, $5) ON CONFLICT (id) DO NOTHING`, s.table),
		id, doc.ParticipantName, len(doc.Turns), string(data), now.UTC())
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
	if err := s.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	var data []byte
	err := s.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT document FROM %s WHERE id = $1`, s.table), id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrLogNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select log: %w", err)
	}

	var doc domain.LogDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal log: %w", err)
	}
	return &doc, nil
}

// List returns all ids ordered by creation.
func (s *Store) List(ctx context.Context) ([]string, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`SELECT id FROM %s ORDER BY created_at, id`, s.table))
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

// Close closes the underlying handle.
func (s *Store) Close() error {
	return s.db.Close()
}
