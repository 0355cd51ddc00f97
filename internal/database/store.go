package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/khrees2412/jobscout/pkg/models"
)

// DocumentKey is the row holding the pipeline snapshot.
const DocumentKey = "pipeline"

// Repository is the document store the rest of the program depends on.
type Repository interface {
	Read(ctx context.Context) (*models.Snapshot, error)
	Update(ctx context.Context, mutate func(*models.Snapshot) error) error
}

// Store keeps the whole pipeline as one JSON document in SQLite.
type Store struct {
	db  *sql.DB
	key string
}

var _ Repository = (*Store)(nil)

// NewStore wraps an already migrated database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, key: DocumentKey}
}

// DB returns the underlying handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) load(ctx context.Context, q queryer) (*models.Snapshot, error) {
	var body string
	err := q.QueryRowContext(ctx, `SELECT body FROM documents WHERE key=?`, s.key).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return &models.Snapshot{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	snap := &models.Snapshot{}
	if err := json.Unmarshal([]byte(body), snap); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return snap, nil
}

// Read returns the current snapshot. A store that was never written returns
// an empty snapshot.
func (s *Store) Read(ctx context.Context) (*models.Snapshot, error) {
	return s.load(ctx, s.db)
}

// Update reads the snapshot, applies mutate and writes it back in one
// transaction. Nothing is written when mutate returns an error.
func (s *Store) Update(ctx context.Context, mutate func(*models.Snapshot) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	snap, err := s.load(ctx, tx)
	if err != nil {
		return err
	}
	if err := mutate(snap); err != nil {
		return err
	}

	body, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (key, body) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET
			body = excluded.body,
			version = documents.version + 1,
			updated_at = CURRENT_TIMESTAMP`, s.key, string(body))
	if err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}

	return tx.Commit()
}

// Version returns how many times the document has been written.
func (s *Store) Version(ctx context.Context) (int, error) {
	var v int
	err := s.db.QueryRowContext(ctx, `SELECT version FROM documents WHERE key=?`, s.key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return v, err
}
