package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/webodise/siteapi/internal/model"
	"github.com/webodise/siteapi/internal/server/middleware"
	"github.com/webodise/siteapi/internal/store"
)

const (
	admissionsBadgeKey     = "home.admissionsBadgeText"
	admissionsBadgeDefault = "Admissions Open 2026-27"
	maxBadgeLength         = 120
)

// SettingsHandler manages editable site settings. Currently the only setting
// exposed over HTTP is the admissions badge text on the home page.
type SettingsHandler struct {
	store *store.Store
}

// NewSettingsHandler creates a SettingsHandler.
func NewSettingsHandler(st *store.Store) *SettingsHandler {
	return &SettingsHandler{store: st}
}

// GetAdmissionsBadge returns the badge text, falling back to the default when
// no admin has set one.
// GET /api/site-settings/admissions-badge
func (h *SettingsHandler) GetAdmissionsBadge(w http.ResponseWriter, r *http.Request) {
	setting, err := h.store.GetSetting(r.Context(), admissionsBadgeKey)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusOK, map[string]string{"text": admissionsBadgeDefault})
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to fetch badge text")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"text": setting.Value})
}

type badgeRequest struct {
	Text string `json:"text"`
}

// UpdateAdmissionsBadge replaces the badge text.
// PUT /api/site-settings/admissions-badge (admin)
func (h *SettingsHandler) UpdateAdmissionsBadge(w http.ResponseWriter, r *http.Request) {
	var req badgeRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Badge text is required")
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		writeError(w, http.StatusBadRequest, "Badge text is required")
		return
	}
	if len(text) > maxBadgeLength {
		writeError(w, http.StatusBadRequest, "Badge text must be 120 characters or fewer")
		return
	}

	setting := &model.SiteSetting{Key: admissionsBadgeKey, Value: text}
	if user := middleware.GetAdminUser(r.Context()); user != nil {
		setting.UpdatedBy = &user.ID
	}
	if err := h.store.UpsertSetting(r.Context(), setting); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update badge text")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}
