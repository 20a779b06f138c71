package handler

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/webodise/siteapi/internal/model"
	"github.com/webodise/siteapi/internal/server/middleware"
	"github.com/webodise/siteapi/internal/store"
	"github.com/webodise/siteapi/internal/upload"
)

// maxFormUploadBytes caps admission form uploads at 15 MB.
const maxFormUploadBytes = 15 << 20

// allowedFormMimeTypes are the document types accepted for admission forms.
var allowedFormMimeTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// AdmissionHandler manages the downloadable admission form. Only one form is
// current at a time; the public endpoint returns the latest upload.
type AdmissionHandler struct {
	store   *store.Store
	uploads *upload.Store
}

// NewAdmissionHandler creates an AdmissionHandler.
func NewAdmissionHandler(st *store.Store, uploads *upload.Store) *AdmissionHandler {
	return &AdmissionHandler{store: st, uploads: uploads}
}

// formMimeType resolves the upload's MIME type, falling back to the file
// extension when the client sends a generic Content-Type.
func formMimeType(contentType, filename string) string {
	contentType = strings.TrimSpace(strings.Split(contentType, ";")[0])
	if allowedFormMimeTypes[contentType] {
		return contentType
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".doc":
		return "application/msword"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
	return contentType
}

// Upload stores a new admission form document.
// POST /api/admission-form (admin)
func (h *AdmissionHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormUploadBytes+1<<20)
	if err := r.ParseMultipartForm(maxFormUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Form file is required (field `formFile`)")
		return
	}

	file, header, err := r.FormFile("formFile")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Form file is required (field `formFile`)")
		return
	}
	defer file.Close()

	mimeType := formMimeType(header.Header.Get("Content-Type"), header.Filename)
	if !allowedFormMimeTypes[mimeType] {
		writeError(w, http.StatusBadRequest, "Only PDF, DOC, and DOCX files are allowed")
		return
	}
	if header.Size > maxFormUploadBytes {
		writeError(w, http.StatusBadRequest, "File size must be 15 MB or smaller")
		return
	}

	filePath, err := h.uploads.SaveForm(file, header.Filename)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save form file")
		return
	}

	form := &model.AdmissionForm{
		FileName: header.Filename,
		FilePath: filePath,
		MimeType: mimeType,
		Size:     header.Size,
	}
	if user := middleware.GetAdminUser(r.Context()); user != nil {
		form.UploadedBy = &user.ID
	}

	if err := h.store.CreateAdmissionForm(r.Context(), form); err != nil {
		_ = h.uploads.Delete(filePath)
		writeError(w, http.StatusInternalServerError, "Failed to save admission form")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"form": form})
}

// Latest returns the most recently uploaded form, or {"form": null} when none
// exists.
// GET /api/admission-form
func (h *AdmissionHandler) Latest(w http.ResponseWriter, r *http.Request) {
	form, err := h.store.LatestAdmissionForm(r.Context())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusOK, map[string]interface{}{"form": nil})
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to fetch admission form")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"form": form})
}

// Delete removes an uploaded form and its file.
// DELETE /api/admission-form/{id} (admin)
func (h *AdmissionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	form, err := h.store.GetAdmissionForm(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Admission form not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to fetch admission form")
		return
	}

	if err := h.store.DeleteAdmissionForm(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Admission form not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete admission form")
		return
	}
	_ = h.uploads.Delete(form.FilePath)

	writeJSON(w, http.StatusOK, model.SuccessResponse{Success: true, ID: id})
}
