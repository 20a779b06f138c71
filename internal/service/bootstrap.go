package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/webodise/siteapi/internal/model"
	"github.com/webodise/siteapi/internal/store"
)

// EnsureRootSuperadmin guarantees a working superadmin credential exists for
// the configured root email. It creates the account if absent, corrects the
// role if it drifted, and re-hashes the password when the configured value no
// longer verifies. Repeated runs with unchanged configuration perform no
// writes. Persistence errors are logged and never fatal.
func EnsureRootSuperadmin(ctx context.Context, st *store.Store, email, password string, logger *slog.Logger) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return
	}

	existing, err := st.GetAdminByEmail(ctx, email)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		logger.Warn("superadmin bootstrap lookup failed", "email", email, "error", err)
		return
	}

	if existing != nil {
		changed := false

		if existing.Role != model.RoleSuperAdmin {
			existing.Role = model.RoleSuperAdmin
			changed = true
		}

		if !VerifyPassword(password, existing.PasswordSalt, existing.PasswordHash) {
			salt, hash, err := HashPassword(password)
			if err != nil {
				logger.Warn("superadmin bootstrap hash failed", "error", err)
				return
			}
			existing.PasswordSalt = salt
			existing.PasswordHash = hash
			changed = true
		}

		if changed {
			if err := st.UpdateAdmin(ctx, existing); err != nil {
				logger.Warn("superadmin bootstrap update failed", "email", email, "error", err)
				return
			}
			logger.Info("updated default superadmin account", "email", email)
		}
		return
	}

	salt, hash, err := HashPassword(password)
	if err != nil {
		logger.Warn("superadmin bootstrap hash failed", "error", err)
		return
	}

	user := &model.AdminUser{
		Email:        email,
		PasswordSalt: salt,
		PasswordHash: hash,
		Role:         model.RoleSuperAdmin,
	}
	if err := st.CreateAdmin(ctx, user); err != nil {
		logger.Warn("superadmin bootstrap create failed", "email", email, "error", err)
		return
	}
	logger.Info("created default superadmin", "email", email)
}
