package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/webodise/siteapi/internal/model"
	"github.com/webodise/siteapi/internal/server/middleware"
	"github.com/webodise/siteapi/internal/store"
)

// maxNoticeLength caps notice text.
const maxNoticeLength = 500

// NoticeHandler manages the public notice board.
type NoticeHandler struct {
	store *store.Store
}

// NewNoticeHandler creates a NoticeHandler.
func NewNoticeHandler(st *store.Store) *NoticeHandler {
	return &NoticeHandler{store: st}
}

type noticeRequest struct {
	Text       string `json:"text"`
	NoticeDate string `json:"noticeDate"`
}

// Create adds a notice.
// POST /api/notices (admin)
func (h *NoticeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req noticeRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Notice text is required")
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		writeError(w, http.StatusBadRequest, "Notice text is required")
		return
	}
	if len(text) > maxNoticeLength {
		writeError(w, http.StatusBadRequest, "Notice text must be 500 characters or fewer")
		return
	}

	notice := &model.Notice{Text: text}
	if raw := strings.TrimSpace(req.NoticeDate); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			t, err = time.Parse("2006-01-02", raw)
		}
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid notice date")
			return
		}
		notice.NoticeDate = t
	}
	if user := middleware.GetAdminUser(r.Context()); user != nil {
		notice.CreatedBy = &user.ID
	}

	if err := h.store.CreateNotice(r.Context(), notice); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create notice")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"notice": notice})
}

// List returns all notices, most recent notice date first.
// GET /api/notices
func (h *NoticeHandler) List(w http.ResponseWriter, r *http.Request) {
	notices, err := h.store.ListNotices(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch notices")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"notices": notices})
}

// Delete removes a notice.
// DELETE /api/notices/{id} (admin)
func (h *NoticeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.DeleteNotice(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Notice not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete notice")
		return
	}
	writeJSON(w, http.StatusOK, model.SuccessResponse{Success: true, ID: id})
}
