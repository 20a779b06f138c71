package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/webodise/siteapi/internal/model"
	"github.com/webodise/siteapi/internal/store"
	"github.com/webodise/siteapi/internal/upload"
)

// maxImageUploadBytes caps moment image uploads at 10 MB.
const maxImageUploadBytes = 10 << 20

// MomentHandler manages the photo gallery. Images arrive as multipart
// uploads and are served back from the upload store.
type MomentHandler struct {
	store   *store.Store
	uploads *upload.Store
}

// NewMomentHandler creates a MomentHandler.
func NewMomentHandler(st *store.Store, uploads *upload.Store) *MomentHandler {
	return &MomentHandler{store: st, uploads: uploads}
}

// parseEventDate accepts RFC 3339 or plain YYYY-MM-DD dates.
func parseEventDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create stores a new moment from a multipart form.
// POST /api/moments (admin)
func (h *MomentHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Image file is required (field `image`)")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Image file is required (field `image`)")
		return
	}
	defer file.Close()

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		writeError(w, http.StatusBadRequest, "Title is required")
		return
	}

	category := strings.TrimSpace(r.FormValue("category"))
	if category == "" {
		category = model.CategoryEvents
	}
	if !model.ValidCategory(category) {
		writeError(w, http.StatusBadRequest, "Category must be Events, Activities, or Campus")
		return
	}

	eventDate, err := parseEventDate(r.FormValue("eventDate"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid event date")
		return
	}

	imagePath, err := h.uploads.SaveImage(file, header.Filename)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save image")
		return
	}

	moment := &model.Moment{
		Title:       title,
		Description: strings.TrimSpace(r.FormValue("description")),
		ImagePath:   imagePath,
		Category:    category,
		Subcategory: strings.TrimSpace(r.FormValue("subcategory")),
		EventDate:   eventDate,
		IsTop:       r.FormValue("isTop") == "true",
	}
	if err := h.store.CreateMoment(r.Context(), moment); err != nil {
		_ = h.uploads.Delete(imagePath)
		writeError(w, http.StatusInternalServerError, "Failed to create moment")
		return
	}

	if moment.IsTop {
		if updated, err := h.store.SetTopMoment(r.Context(), moment.ID); err == nil {
			moment = updated
		}
	}

	writeJSON(w, http.StatusCreated, moment)
}

// List returns moments, optionally filtered by category, subcategory, and
// year.
// GET /api/moments
func (h *MomentHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := store.MomentFilter{
		Category:    queryString(r, "category"),
		Subcategory: queryString(r, "subcategory"),
	}
	filter.Year = queryInt(r, "year", 0)

	moments, err := h.store.ListMoments(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch moments")
		return
	}
	writeJSON(w, http.StatusOK, moments)
}

// Update modifies an existing moment. The image is only replaced when a new
// file is part of the form.
// PUT /api/moments/{id} (admin)
func (h *MomentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	moment, err := h.store.GetMoment(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Moment not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to fetch moment")
		return
	}

	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	if title := strings.TrimSpace(r.FormValue("title")); title != "" {
		moment.Title = title
	}
	if _, ok := r.MultipartForm.Value["description"]; ok {
		moment.Description = strings.TrimSpace(r.FormValue("description"))
	}
	if category := strings.TrimSpace(r.FormValue("category")); category != "" {
		if !model.ValidCategory(category) {
			writeError(w, http.StatusBadRequest, "Category must be Events, Activities, or Campus")
			return
		}
		moment.Category = category
	}
	if _, ok := r.MultipartForm.Value["subcategory"]; ok {
		moment.Subcategory = strings.TrimSpace(r.FormValue("subcategory"))
	}
	if raw := r.FormValue("eventDate"); raw != "" {
		eventDate, err := parseEventDate(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid event date")
			return
		}
		moment.EventDate = eventDate
	}

	oldImage := ""
	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		imagePath, err := h.uploads.SaveImage(file, header.Filename)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save image")
			return
		}
		oldImage = moment.ImagePath
		moment.ImagePath = imagePath
	}

	if err := h.store.UpdateMoment(r.Context(), moment); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Moment not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update moment")
		return
	}
	if oldImage != "" {
		_ = h.uploads.Delete(oldImage)
	}

	if isTop := r.FormValue("isTop"); isTop == "true" && !moment.IsTop {
		if updated, err := h.store.SetTopMoment(r.Context(), moment.ID); err == nil {
			moment = updated
		}
	}

	writeJSON(w, http.StatusOK, moment)
}

// Delete removes a moment and its stored image.
// DELETE /api/moments/{id} (admin)
func (h *MomentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	moment, err := h.store.GetMoment(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Moment not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to fetch moment")
		return
	}

	if err := h.store.DeleteMoment(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Moment not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete moment")
		return
	}
	_ = h.uploads.Delete(moment.ImagePath)

	writeJSON(w, http.StatusOK, model.SuccessResponse{Success: true, ID: id})
}

// SetTop marks a single moment as the featured one, clearing the flag
// everywhere else.
// POST /api/moments/{id}/top (admin)
func (h *MomentHandler) SetTop(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	moment, err := h.store.SetTopMoment(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Moment not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update moment")
		return
	}
	writeJSON(w, http.StatusOK, moment)
}
