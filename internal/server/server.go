package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/webodise/siteapi/internal/handler"
	"github.com/webodise/siteapi/internal/mailer"
	"github.com/webodise/siteapi/internal/model"
	"github.com/webodise/siteapi/internal/server/middleware"
	"github.com/webodise/siteapi/internal/service"
	"github.com/webodise/siteapi/internal/store"
	"github.com/webodise/siteapi/internal/upload"
)

// Config holds the HTTP server configuration.
type Config struct {
	Host             string
	Port             int
	ShutdownTimeout  time.Duration
	CORSOrigins      []string
	RootEmail        string
	PublicRatePerMin int
}

// DefaultConfig returns a Config with sensible production defaults.
func DefaultConfig() Config {
	return Config{
		Host:             "0.0.0.0",
		Port:             8080,
		ShutdownTimeout:  30 * time.Second,
		CORSOrigins:      []string{"*"},
		PublicRatePerMin: 20,
	}
}

// Server is the top-level HTTP server. It owns the Chi router, the data
// store, the upload store, and the authentication service.
type Server struct {
	cfg        Config
	router     chi.Router
	store      *store.Store
	uploads    *upload.Store
	authSvc    *service.AuthService
	mailer     *mailer.Mailer
	httpServer *http.Server
	logger     *slog.Logger
}

// New creates a new Server, wires up all routes and middleware, and returns
// it ready to listen. Call ListenAndServe to start accepting connections.
func New(cfg Config, st *store.Store, uploads *upload.Store, authSvc *service.AuthService, m *mailer.Mailer, logger *slog.Logger) *Server {
	s := &Server{
		cfg:     cfg,
		store:   st,
		uploads: uploads,
		authSvc: authSvc,
		mailer:  m,
		logger:  logger,
	}
	s.setupRouter()
	return s
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	// --- Global middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(chimw.Compress(5))

	// --- Health check (no auth required) ---
	r.Get("/health", s.handleHealth)

	authHandler := handler.NewAuthHandler(s.store, s.authSvc, s.cfg.RootEmail)
	contactHandler := handler.NewContactHandler(s.store)
	messageHandler := handler.NewMessageHandler(s.store, s.mailer)
	momentHandler := handler.NewMomentHandler(s.store, s.uploads)
	noticeHandler := handler.NewNoticeHandler(s.store)
	admissionHandler := handler.NewAdmissionHandler(s.store, s.uploads)
	settingsHandler := handler.NewSettingsHandler(s.store)

	anyAdmin := middleware.RequireRole(model.RoleAdmin, model.RoleSuperAdmin)
	superOnly := middleware.RequireRole(model.RoleSuperAdmin)

	r.Route("/api", func(r chi.Router) {

		// Public endpoints. Submissions are rate limited per client IP.
		r.Group(func(r chi.Router) {
			r.Use(middleware.PublicSubmitLimit(s.cfg.PublicRatePerMin))
			r.Post("/contacts", contactHandler.Create)
			r.Post("/messages", messageHandler.Create)
		})
		r.Get("/moments", momentHandler.List)
		r.Get("/notices", noticeHandler.List)
		r.Get("/admission-form", admissionHandler.Latest)
		r.Get("/site-settings/admissions-badge", settingsHandler.GetAdmissionsBadge)

		// Admin session
		r.Post("/admin/login", authHandler.Login)

		// Superadmin-only user management
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Authenticate(s.authSvc))
			r.Get("/me", authHandler.Me)

			r.Group(func(r chi.Router) {
				r.Use(superOnly)
				r.Get("/users", authHandler.ListUsers)
				r.Post("/users", authHandler.CreateUser)
				r.Put("/users/{id}/role", authHandler.UpdateUserRole)
				r.Delete("/users/{id}", authHandler.DeleteUser)
			})
		})

		// Any-admin content management
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(s.authSvc))
			r.Use(anyAdmin)

			r.Get("/contacts", contactHandler.List)

			r.Get("/messages", messageHandler.List)
			r.Post("/messages/{id}/read", messageHandler.MarkRead)
			r.Delete("/messages/{id}", messageHandler.Delete)

			r.Post("/moments", momentHandler.Create)
			r.Put("/moments/{id}", momentHandler.Update)
			r.Delete("/moments/{id}", momentHandler.Delete)
			r.Post("/moments/{id}/top", momentHandler.SetTop)

			r.Post("/notices", noticeHandler.Create)
			r.Delete("/notices/{id}", noticeHandler.Delete)

			r.Post("/admission-form", admissionHandler.Upload)
			r.Delete("/admission-form/{id}", admissionHandler.Delete)

			r.Put("/site-settings/admissions-badge", settingsHandler.UpdateAdmissionsBadge)
		})
	})

	// --- Static uploads ---
	if s.uploads != nil {
		fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.uploads.Root())))
		r.Get("/uploads/*", func(w http.ResponseWriter, req *http.Request) {
			fileServer.ServeHTTP(w, req)
		})
	}

	s.router = r
}

// handleHealth is a liveness probe. Returns 200 if the process is running.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"ok","timestamp":%q}`, time.Now().UTC().Format(time.RFC3339))
}

// ListenAndServe starts the HTTP server and blocks until a SIGINT or SIGTERM
// is received. It then performs a graceful shutdown, draining in-flight
// requests before returning.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Listen for shutdown signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server listen: %w", err)
	case <-ctx.Done():
		s.logger.Info("shutdown signal received, draining connections...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// Router returns the underlying Chi router, useful for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ServeHTTP implements http.Handler, delegating to the router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
