package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/webodise/siteapi/internal/model"
)

// CreateMessage inserts a new message submission with status "new".
func (s *Store) CreateMessage(ctx context.Context, m *model.Message) error {
	m.ID = uuid.Must(uuid.NewV7()).String()
	m.Status = model.MessageStatusNew
	m.CreatedAt = time.Now().UTC()

	const q = `INSERT INTO messages (id, name, email, phone, subject, message, status, created_at)
		VALUES (:id, :name, :email, :phone, :subject, :message, :status, :created_at)`

	if _, err := s.db.NamedExecContext(ctx, q, m); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// ListMessages returns all messages, newest first.
func (s *Store) ListMessages(ctx context.Context) ([]model.Message, error) {
	var messages []model.Message
	if err := s.db.SelectContext(ctx, &messages, "SELECT * FROM messages ORDER BY created_at DESC"); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return messages, nil
}

// MarkMessageRead flips a message's status to "read" and returns the updated
// record.
func (s *Store) MarkMessageRead(ctx context.Context, id string) (*model.Message, error) {
	result, err := s.db.ExecContext(ctx,
		"UPDATE messages SET status = ? WHERE id = ?", model.MessageStatusRead, id)
	if err != nil {
		return nil, fmt.Errorf("mark message read: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("mark message read rows affected: %w", err)
	}
	if n == 0 {
		return nil, ErrNotFound
	}

	var m model.Message
	if err := s.db.GetContext(ctx, &m, "SELECT * FROM messages WHERE id = ?", id); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get message: %w", err)
	}
	return &m, nil
}

// DeleteMessage removes a message by ID.
func (s *Store) DeleteMessage(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM messages WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete message rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
