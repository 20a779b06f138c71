package model

import "time"

// AdminUser is an administrative account that can manage site content through
// the admin API. The plaintext password is never stored; only the PBKDF2 salt
// and derived hash are persisted, both hex-encoded.
type AdminUser struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordSalt string    `json:"-" db:"password_salt"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         Role      `json:"role" db:"role"`
	CreatedBy    *string   `json:"created_by,omitempty" db:"created_by"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// SanitizedAdmin is the identity shape exposed to clients and attached to the
// request context after authentication. It carries no credential material.
type SanitizedAdmin struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Sanitized strips the credential fields from an AdminUser.
func (u *AdminUser) Sanitized() SanitizedAdmin {
	return SanitizedAdmin{
		ID:    u.ID,
		Email: u.Email,
		Role:  u.Role,
	}
}
