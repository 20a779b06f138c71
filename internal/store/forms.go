package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/webodise/siteapi/internal/model"
)

// CreateAdmissionForm records an uploaded admission form document.
func (s *Store) CreateAdmissionForm(ctx context.Context, f *model.AdmissionForm) error {
	f.ID = uuid.Must(uuid.NewV7()).String()
	f.CreatedAt = time.Now().UTC()

	const q = `INSERT INTO admission_forms (id, file_name, file_path, mime_type, size, uploaded_by, created_at)
		VALUES (:id, :file_name, :file_path, :mime_type, :size, :uploaded_by, :created_at)`

	if _, err := s.db.NamedExecContext(ctx, q, f); err != nil {
		return fmt.Errorf("insert admission form: %w", err)
	}
	return nil
}

// LatestAdmissionForm returns the most recently uploaded form, or ErrNotFound
// when none exists.
func (s *Store) LatestAdmissionForm(ctx context.Context) (*model.AdmissionForm, error) {
	var f model.AdmissionForm
	const q = `SELECT * FROM admission_forms ORDER BY created_at DESC LIMIT 1`
	if err := s.db.GetContext(ctx, &f, q); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("latest admission form: %w", err)
	}
	return &f, nil
}

// GetAdmissionForm returns an admission form by ID.
func (s *Store) GetAdmissionForm(ctx context.Context, id string) (*model.AdmissionForm, error) {
	var f model.AdmissionForm
	if err := s.db.GetContext(ctx, &f, "SELECT * FROM admission_forms WHERE id = ?", id); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get admission form: %w", err)
	}
	return &f, nil
}

// DeleteAdmissionForm removes an admission form record by ID.
func (s *Store) DeleteAdmissionForm(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM admission_forms WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete admission form: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete admission form rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
