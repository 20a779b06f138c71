package handler

import (
	"net/http"
	"strings"

	"github.com/webodise/siteapi/internal/model"
	"github.com/webodise/siteapi/internal/store"
)

// ContactHandler serves the simple public contact form. Unlike the rest of
// the API it keeps the {success, message, data} envelope the site's front end
// expects.
type ContactHandler struct {
	store *store.Store
}

// NewContactHandler creates a ContactHandler.
func NewContactHandler(st *store.Store) *ContactHandler {
	return &ContactHandler{store: st}
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (req *contactRequest) validate() string {
	var problems []string
	name := strings.TrimSpace(req.Name)
	if len(name) < 2 || len(name) > 100 {
		problems = append(problems, "Please provide a name")
	}
	if !isValidEmail(req.Email) || len(req.Email) > 255 {
		problems = append(problems, "Please provide a valid email")
	}
	msg := strings.TrimSpace(req.Message)
	if len(msg) < 10 || len(msg) > 1000 {
		problems = append(problems, "Please provide a message")
	}
	return strings.Join(problems, ", ")
}

// Create saves a new contact submission.
// POST /api/contacts
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := readJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": "Please provide all required fields",
		})
		return
	}

	if req.Name == "" || req.Email == "" || req.Message == "" {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": "Please provide all required fields",
		})
		return
	}

	if problems := req.validate(); problems != "" {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": problems,
		})
		return
	}

	contact := &model.Contact{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Message: strings.TrimSpace(req.Message),
	}
	if err := h.store.CreateContact(r.Context(), contact); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"message": "Failed to send message. Please try again later.",
		})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Thank you for contacting our team. We will be in touch with you soon!",
		"data":    contact,
	})
}

// List returns all contact submissions, newest first.
// GET /api/contacts
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.store.ListContacts(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"message": "Failed to fetch contacts",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    contacts,
	})
}
