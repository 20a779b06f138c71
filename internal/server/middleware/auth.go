package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/webodise/siteapi/internal/model"
	"github.com/webodise/siteapi/internal/service"
)

type contextKeyAuth string

// AdminUserKey is the context key for the authenticated admin identity.
const AdminUserKey contextKeyAuth = "admin_user"

// Authenticate returns an HTTP middleware that validates the request's
// bearer token (Authorization: Bearer <token>), confirms the referenced
// admin still exists, and attaches the sanitized identity to the request
// context. Token failures produce a 401 JSON error; store failures a 500.
func Authenticate(authSvc *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeAuthError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			user, err := authSvc.Authenticate(r.Context(), token)
			if err != nil {
				// Token problems are the caller's fault; anything else is a
				// datastore failure and must not masquerade as a 401.
				if errors.Is(err, service.ErrInvalidToken) || errors.Is(err, service.ErrTokenExpired) {
					writeAuthError(w, http.StatusUnauthorized, "Unauthorized")
					return
				}
				writeAuthError(w, http.StatusInternalServerError, "Internal server error")
				return
			}

			ctx := context.WithValue(r.Context(), AdminUserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole returns an HTTP middleware that enforces role-based access.
// It must be used after Authenticate in the middleware chain.
func RequireRole(allowed ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetAdminUser(r.Context())
			if user == nil {
				writeAuthError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			for _, role := range allowed {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeAuthError(w, http.StatusForbidden, "Forbidden")
		})
	}
}

// GetAdminUser extracts the authenticated admin from the context. Returns nil
// for unauthenticated requests.
func GetAdminUser(ctx context.Context) *model.SanitizedAdmin {
	if u, ok := ctx.Value(AdminUserKey).(*model.SanitizedAdmin); ok {
		return u
	}
	return nil
}

func bearerToken(r *http.Request) string {
	authorization := r.Header.Get("Authorization")
	if !strings.HasPrefix(authorization, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authorization, "Bearer "))
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Manually construct JSON to avoid import cycle with handler package
	w.Write([]byte(`{"error":"` + message + `"}`))
}
