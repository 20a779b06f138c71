package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/webodise/siteapi/internal/model"
	"github.com/webodise/siteapi/internal/server/middleware"
	"github.com/webodise/siteapi/internal/service"
	"github.com/webodise/siteapi/internal/store"
)

// AuthHandler serves admin login, identity, and user management. The root
// superadmin (identified by rootEmail) is never listed and can neither be
// deleted nor have its role changed.
type AuthHandler struct {
	store     *store.Store
	authSvc   *service.AuthService
	rootEmail string
}

// NewAuthHandler creates an AuthHandler. rootEmail is normalized once here.
func NewAuthHandler(st *store.Store, authSvc *service.AuthService, rootEmail string) *AuthHandler {
	return &AuthHandler{
		store:     st,
		authSvc:   authSvc,
		rootEmail: service.NormalizeEmail(rootEmail),
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string               `json:"token"`
	User  model.SanitizedAdmin `json:"user"`
}

// Login authenticates an admin and returns a bearer token.
// POST /api/admin/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	email := service.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	token, user, err := h.authSvc.Login(r.Context(), email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}

// Me returns the authenticated identity attached by the middleware.
// GET /api/admin/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user": middleware.GetAdminUser(r.Context()),
	})
}

// userSummary is the list shape for manageable users.
type userSummary struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Role      model.Role `json:"role"`
	CreatedAt time.Time  `json:"createdAt"`
	CreatedBy *string    `json:"createdBy"`
}

// ListUsers returns all admin users except the root superadmin.
// GET /api/admin/users
func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListAdminsExcept(r.Context(), h.rootEmail)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := make([]userSummary, 0, len(users))
	for i := range users {
		out = append(out, userSummary{
			ID:        users[i].ID,
			Email:     users[i].Email,
			Role:      users[i].Role,
			CreatedAt: users[i].CreatedAt,
			CreatedBy: users[i].CreatedBy,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type createUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// CreateUser provisions a new admin account.
// POST /api/admin/users
func (h *AuthHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Email, password and role are required")
		return
	}

	email := service.NormalizeEmail(req.Email)
	if req.Role == "" {
		req.Role = string(model.RoleAdmin)
	}
	if email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email, password and role are required")
		return
	}
	if !isValidEmail(email) {
		writeError(w, http.StatusBadRequest, "Invalid email format")
		return
	}
	if len(req.Password) < 8 {
		writeError(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}
	role, err := model.ParseRole(req.Role)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Role must be admin or superadmin")
		return
	}

	salt, hash, err := service.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	user := &model.AdminUser{
		Email:        email,
		PasswordSalt: salt,
		PasswordHash: hash,
		Role:         role,
	}
	if caller := middleware.GetAdminUser(r.Context()); caller != nil {
		user.CreatedBy = &caller.ID
	}

	if err := h.store.CreateAdmin(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			writeError(w, http.StatusConflict, "User already exists with this email")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"user": user.Sanitized()})
}

type updateRoleRequest struct {
	Role string `json:"role"`
}

// UpdateUserRole changes an admin user's role.
// PUT /api/admin/users/{id}/role
func (h *AuthHandler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	var req updateRoleRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Role must be admin or superadmin")
		return
	}
	role, err := model.ParseRole(req.Role)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Role must be admin or superadmin")
		return
	}

	user, err := h.store.GetAdminByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if service.NormalizeEmail(user.Email) == h.rootEmail {
		writeError(w, http.StatusForbidden, "Main superadmin role cannot be changed")
		return
	}

	user.Role = role
	if err := h.store.UpdateAdmin(r.Context(), user); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"user": user.Sanitized()})
}

// DeleteUser removes an admin account.
// DELETE /api/admin/users/{id}
func (h *AuthHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.store.GetAdminByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if service.NormalizeEmail(user.Email) == h.rootEmail {
		writeError(w, http.StatusForbidden, "Main superadmin cannot be deleted")
		return
	}

	if err := h.store.DeleteAdmin(r.Context(), user.ID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, model.SuccessResponse{Success: true, ID: user.ID})
}
