package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/webodise/siteapi/internal/model"
)

// GetSetting returns a site setting by key, or ErrNotFound.
func (s *Store) GetSetting(ctx context.Context, key string) (*model.SiteSetting, error) {
	var setting model.SiteSetting
	if err := s.db.GetContext(ctx, &setting, "SELECT * FROM site_settings WHERE key = ?", key); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get setting: %w", err)
	}
	return &setting, nil
}

// UpsertSetting creates or replaces a site setting, refreshing UpdatedAt.
func (s *Store) UpsertSetting(ctx context.Context, setting *model.SiteSetting) error {
	setting.UpdatedAt = time.Now().UTC()

	const q = `INSERT INTO site_settings (key, value, updated_by, updated_at)
		VALUES (:key, :value, :updated_by, :updated_at)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_by = excluded.updated_by,
			updated_at = excluded.updated_at`

	if _, err := s.db.NamedExecContext(ctx, q, setting); err != nil {
		return fmt.Errorf("upsert setting: %w", err)
	}
	return nil
}
