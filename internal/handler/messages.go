package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/webodise/siteapi/internal/mailer"
	"github.com/webodise/siteapi/internal/model"
	"github.com/webodise/siteapi/internal/store"
)

// MessageHandler serves the public enquiry form and the admin inbox.
type MessageHandler struct {
	store  *store.Store
	mailer *mailer.Mailer
}

// NewMessageHandler creates a MessageHandler. mailer may be disabled; the
// handler checks before notifying.
func NewMessageHandler(st *store.Store, m *mailer.Mailer) *MessageHandler {
	return &MessageHandler{store: st, mailer: m}
}

type messageRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Create stores a new enquiry and, if SMTP is configured, fires off the
// notification emails in the background.
// POST /api/messages
func (h *MessageHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Subject = strings.TrimSpace(req.Subject)
	req.Message = strings.TrimSpace(req.Message)

	if req.Name == "" || req.Email == "" || req.Subject == "" || req.Message == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	if !isValidEmail(req.Email) {
		writeError(w, http.StatusBadRequest, "Invalid email format")
		return
	}

	msg := &model.Message{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
	}
	if err := h.store.CreateMessage(r.Context(), msg); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save message")
		return
	}

	if h.mailer != nil && h.mailer.Enabled() {
		h.mailer.NotifySubmission(mailer.Submission{
			Name:     msg.Name,
			Email:    msg.Email,
			Phone:    msg.Phone,
			Subject:  msg.Subject,
			Message:  msg.Message,
			Received: msg.CreatedAt,
		})
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Message saved successfully!",
	})
}

// List returns every stored message, newest first.
// GET /api/messages (admin)
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	messages, err := h.store.ListMessages(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch messages")
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

// MarkRead flips a message status to read.
// POST /api/messages/{id}/read (admin)
func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	msg, err := h.store.MarkMessageRead(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Message not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update message")
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

// Delete removes a message.
// DELETE /api/messages/{id} (admin)
func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.DeleteMessage(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Message not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete message")
		return
	}
	writeJSON(w, http.StatusOK, model.SuccessResponse{Success: true, ID: id})
}
