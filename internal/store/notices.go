package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/webodise/siteapi/internal/model"
)

// CreateNotice inserts a new notice.
func (s *Store) CreateNotice(ctx context.Context, n *model.Notice) error {
	n.ID = uuid.Must(uuid.NewV7()).String()
	n.CreatedAt = time.Now().UTC()
	if n.NoticeDate.IsZero() {
		n.NoticeDate = n.CreatedAt
	}

	const q = `INSERT INTO notices (id, text, notice_date, created_by, created_at)
		VALUES (:id, :text, :notice_date, :created_by, :created_at)`

	if _, err := s.db.NamedExecContext(ctx, q, n); err != nil {
		return fmt.Errorf("insert notice: %w", err)
	}
	return nil
}

// ListNotices returns all notices ordered by notice date then creation time,
// both descending.
func (s *Store) ListNotices(ctx context.Context) ([]model.Notice, error) {
	var notices []model.Notice
	const q = `SELECT * FROM notices ORDER BY notice_date DESC, created_at DESC`
	if err := s.db.SelectContext(ctx, &notices, q); err != nil {
		return nil, fmt.Errorf("list notices: %w", err)
	}
	return notices, nil
}

// DeleteNotice removes a notice by ID.
func (s *Store) DeleteNotice(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM notices WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete notice: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete notice rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
