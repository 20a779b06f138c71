package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/webodise/siteapi/internal/model"
)

// CreateAdmin inserts a new admin user. The ID, CreatedAt, and UpdatedAt
// fields on user are populated after a successful insert. Returns
// ErrDuplicateEmail if the email is already taken (case-insensitive).
func (s *Store) CreateAdmin(ctx context.Context, user *model.AdminUser) error {
	now := time.Now().UTC()
	user.ID = uuid.Must(uuid.NewV7()).String()
	user.CreatedAt = now
	user.UpdatedAt = now

	const q = `INSERT INTO admin_users
		(id, email, password_salt, password_hash, role, created_by, created_at, updated_at)
		VALUES
		(:id, :email, :password_salt, :password_hash, :role, :created_by, :created_at, :updated_at)`

	if _, err := s.db.NamedExecContext(ctx, q, user); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique constraint") {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("insert admin user: %w", err)
	}
	return nil
}

// GetAdminByID returns an admin user by its opaque ID.
func (s *Store) GetAdminByID(ctx context.Context, id string) (*model.AdminUser, error) {
	var user model.AdminUser
	if err := s.db.GetContext(ctx, &user, "SELECT * FROM admin_users WHERE id = ?", id); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get admin user: %w", err)
	}
	return &user, nil
}

// GetAdminByEmail returns an admin user by email. The lookup is
// case-insensitive; callers should still pass normalized emails.
func (s *Store) GetAdminByEmail(ctx context.Context, email string) (*model.AdminUser, error) {
	var user model.AdminUser
	if err := s.db.GetContext(ctx, &user, "SELECT * FROM admin_users WHERE email = ?", email); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get admin user by email: %w", err)
	}
	return &user, nil
}

// ListAdminsExcept returns all admin users except the one with the given
// email, newest first. Used to keep the root superadmin out of the manageable
// user list.
func (s *Store) ListAdminsExcept(ctx context.Context, excludeEmail string) ([]model.AdminUser, error) {
	var users []model.AdminUser
	const q = `SELECT * FROM admin_users WHERE email != ? ORDER BY created_at DESC`
	if err := s.db.SelectContext(ctx, &users, q, excludeEmail); err != nil {
		return nil, fmt.Errorf("list admin users: %w", err)
	}
	return users, nil
}

// UpdateAdmin persists changes to role and credential fields. The UpdatedAt
// field on user is refreshed automatically.
func (s *Store) UpdateAdmin(ctx context.Context, user *model.AdminUser) error {
	user.UpdatedAt = time.Now().UTC()

	const q = `UPDATE admin_users SET
		email = :email, password_salt = :password_salt, password_hash = :password_hash,
		role = :role, updated_at = :updated_at
		WHERE id = :id`

	result, err := s.db.NamedExecContext(ctx, q, user)
	if err != nil {
		return fmt.Errorf("update admin user: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update admin user rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAdmin removes an admin user by ID.
func (s *Store) DeleteAdmin(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM admin_users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete admin user: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete admin user rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
