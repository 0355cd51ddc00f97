package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/khrees2412/jobscout/pkg/models"
)

// SaveSearchQuery saves a search query under q.Name, replacing any query with
// the same name.
func (s *Store) SaveSearchQuery(ctx context.Context, q *models.SavedQuery) error {
	filters, err := json.Marshal(q.Filters)
	if err != nil {
		return fmt.Errorf("failed to encode filters: %w", err)
	}

	insertQuery := `INSERT OR REPLACE INTO saved_queries (name, query, location, filters) VALUES (?, ?, ?, ?)`
	result, err := s.db.ExecContext(ctx, insertQuery, q.Name, q.Query, q.Location, string(filters))
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	q.ID = id
	return nil
}

// GetSavedQueries retrieves all saved search queries, newest first
func (s *Store) GetSavedQueries(ctx context.Context) ([]models.SavedQuery, error) {
	query := `SELECT id, name, query, location, filters, created_at FROM saved_queries ORDER BY created_at DESC, id DESC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []models.SavedQuery{}
	for rows.Next() {
		q, err := scanSavedQuery(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *q)
	}
	return results, rows.Err()
}

// GetSavedQuery returns the named query, or nil when there is none.
func (s *Store) GetSavedQuery(ctx context.Context, name string) (*models.SavedQuery, error) {
	query := `SELECT id, name, query, location, filters, created_at FROM saved_queries WHERE name=?`
	q, err := scanSavedQuery(s.db.QueryRowContext(ctx, query, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return q, err
}

// DeleteSavedQuery removes the named query and reports whether it existed.
func (s *Store) DeleteSavedQuery(ctx context.Context, name string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM saved_queries WHERE name=?`, name)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	return n > 0, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSavedQuery(row scanner) (*models.SavedQuery, error) {
	q := &models.SavedQuery{}
	var location sql.NullString
	var filters string
	var createdAt time.Time
	if err := row.Scan(&q.ID, &q.Name, &q.Query, &location, &filters, &createdAt); err != nil {
		return nil, err
	}
	q.Location = location.String
	q.CreatedAt = createdAt.UTC().Format(time.RFC3339)
	if err := json.Unmarshal([]byte(filters), &q.Filters); err != nil {
		return nil, fmt.Errorf("failed to decode filters for %q: %w", q.Name, err)
	}
	return q, nil
}
