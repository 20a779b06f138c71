package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/webodise/siteapi/internal/model"
)

// MomentFilter narrows ListMoments results. Zero values match everything.
type MomentFilter struct {
	Category    string
	Subcategory string
	Year        int
}

// CreateMoment inserts a new gallery moment.
func (s *Store) CreateMoment(ctx context.Context, m *model.Moment) error {
	m.ID = uuid.Must(uuid.NewV7()).String()
	m.CreatedAt = time.Now().UTC()

	const q = `INSERT INTO moments
		(id, title, description, image_path, category, subcategory, event_date, is_top, created_at)
		VALUES
		(:id, :title, :description, :image_path, :category, :subcategory, :event_date, :is_top, :created_at)`

	if _, err := s.db.NamedExecContext(ctx, q, m); err != nil {
		return fmt.Errorf("insert moment: %w", err)
	}
	return nil
}

// GetMoment returns a moment by ID.
func (s *Store) GetMoment(ctx context.Context, id string) (*model.Moment, error) {
	var m model.Moment
	if err := s.db.GetContext(ctx, &m, "SELECT * FROM moments WHERE id = ?", id); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get moment: %w", err)
	}
	return &m, nil
}

// ListMoments returns moments matching the filter, ordered by event date then
// creation time, both descending.
func (s *Store) ListMoments(ctx context.Context, filter MomentFilter) ([]model.Moment, error) {
	q := "SELECT * FROM moments WHERE 1=1"
	var args []interface{}

	if filter.Category != "" {
		q += " AND category = ?"
		args = append(args, filter.Category)
	}
	if filter.Subcategory != "" {
		q += " AND subcategory = ?"
		args = append(args, filter.Subcategory)
	}
	if filter.Year != 0 {
		start := time.Date(filter.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		q += " AND event_date >= ? AND event_date < ?"
		args = append(args, start, start.AddDate(1, 0, 0))
	}
	q += " ORDER BY event_date DESC, created_at DESC"

	var moments []model.Moment
	if err := s.db.SelectContext(ctx, &moments, q, args...); err != nil {
		return nil, fmt.Errorf("list moments: %w", err)
	}
	return moments, nil
}

// UpdateMoment persists changes to an existing moment.
func (s *Store) UpdateMoment(ctx context.Context, m *model.Moment) error {
	const q = `UPDATE moments SET
		title = :title, description = :description, image_path = :image_path,
		category = :category, subcategory = :subcategory, event_date = :event_date, is_top = :is_top
		WHERE id = :id`

	result, err := s.db.NamedExecContext(ctx, q, m)
	if err != nil {
		return fmt.Errorf("update moment: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update moment rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteMoment removes a moment by ID.
func (s *Store) DeleteMoment(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM moments WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete moment: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete moment rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetTopMoment marks the given moment as the single top photo, clearing the
// flag on every other moment within one transaction.
func (s *Store) SetTopMoment(ctx context.Context, id string) (*model.Moment, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "UPDATE moments SET is_top = 0"); err != nil {
		return nil, fmt.Errorf("clear top moments: %w", err)
	}

	result, err := tx.ExecContext(ctx, "UPDATE moments SET is_top = 1 WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("set top moment: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("set top moment rows affected: %w", err)
	}
	if n == 0 {
		return nil, ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetMoment(ctx, id)
}
