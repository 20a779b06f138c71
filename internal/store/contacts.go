package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/webodise/siteapi/internal/model"
)

// CreateContact inserts a new contact submission. The ID and CreatedAt fields
// are populated after a successful insert.
func (s *Store) CreateContact(ctx context.Context, c *model.Contact) error {
	c.ID = uuid.Must(uuid.NewV7()).String()
	c.CreatedAt = time.Now().UTC()

	const q = `INSERT INTO contacts (id, name, email, message, created_at)
		VALUES (:id, :name, :email, :message, :created_at)`

	if _, err := s.db.NamedExecContext(ctx, q, c); err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

// ListContacts returns all contact submissions, newest first.
func (s *Store) ListContacts(ctx context.Context) ([]model.Contact, error) {
	var contacts []model.Contact
	if err := s.db.SelectContext(ctx, &contacts, "SELECT * FROM contacts ORDER BY created_at DESC"); err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return contacts, nil
}
