package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/webodise/siteapi/internal/config"
	"github.com/webodise/siteapi/internal/mailer"
	"github.com/webodise/siteapi/internal/server"
	"github.com/webodise/siteapi/internal/service"
	"github.com/webodise/siteapi/internal/store"
	"github.com/webodise/siteapi/internal/upload"
)

func newServeCmd() *cobra.Command {
	var (
		port int
		host string
		dev  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the siteapi HTTP server",
		Long:  "Start the HTTP server that exposes the public website API and the admin panel API.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(host, port, dev)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "HTTP listen port")
	cmd.Flags().StringVar(&host, "host", "0.0.0.0", "HTTP listen host")
	cmd.Flags().BoolVar(&dev, "dev", false, "Enable development mode (verbose logging, CORS *)")

	viper.BindPFlag("server.port", cmd.Flags().Lookup("port"))
	viper.BindPFlag("server.host", cmd.Flags().Lookup("host"))

	return cmd
}

func runServe(host string, port int, dev bool) error {
	cfg := config.DefaultYAMLConfig()
	if path := viper.ConfigFileUsed(); path != "" {
		loaded, err := config.LoadYAMLConfig(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	// Environment variables override file settings for secrets.
	if v := os.Getenv("SITEAPI_TOKEN_SECRET"); v != "" {
		cfg.Auth.TokenSecret = v
	}
	if v := os.Getenv("SITEAPI_SUPERADMIN_EMAIL"); v != "" {
		cfg.Auth.SuperadminEmail = v
	}
	if v := os.Getenv("SITEAPI_SUPERADMIN_PASSWORD"); v != "" {
		cfg.Auth.SuperadminPassword = v
	}

	// Set up logger
	logLevel := slog.LevelInfo
	switch cfg.Logging.Level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	if dev {
		logLevel = slog.LevelDebug
	}
	var handler slog.Handler
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	}
	logger := slog.New(handler)

	// 1. Open the data store (SQLite). resolveDataDir already honors the
	// config file, so admin/status/stop end up in the same directory.
	dir := resolveDataDir()
	st, err := store.New(dir)
	if err != nil {
		return fmt.Errorf("init data store: %w", err)
	}
	defer st.Close()
	logger.Info("data store initialized", "path", dir)

	// 2. Upload store for images and admission forms
	uploads := upload.NewStore(resolveUploadDir(cfg.Storage.UploadDir))

	// 3. Auth service
	secret := cfg.Auth.TokenSecret
	if secret == "" {
		secret = "siteapi-dev-secret-change-me"
		logger.Warn("auth.token_secret is not set - using an insecure development secret")
	}
	ttl := 24 * time.Hour
	if cfg.Auth.TokenTTLHours > 0 {
		ttl = time.Duration(cfg.Auth.TokenTTLHours) * time.Hour
	}
	authSvc := service.NewAuthService(st, secret, ttl)

	// 4. Make sure the root superadmin account exists
	service.EnsureRootSuperadmin(context.Background(), st, cfg.Auth.SuperadminEmail, cfg.Auth.SuperadminPassword, logger)

	// 5. Mailer (best-effort, disabled unless SMTP is configured)
	m := mailer.New(mailer.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	}, logger)
	if m.Enabled() {
		logger.Info("email notifications enabled", "host", cfg.SMTP.Host)
	}

	// 6. Build and start HTTP server
	if host == "" || host == "0.0.0.0" {
		if cfg.Server.Host != "" {
			host = cfg.Server.Host
		}
	}
	if port == 0 || port == 8080 {
		if cfg.Server.Port != 0 {
			port = cfg.Server.Port
		}
	}

	shutdownTimeout := 30 * time.Second
	if d, err := time.ParseDuration(cfg.Server.ShutdownTimeout); err == nil && d > 0 {
		shutdownTimeout = d
	}

	origins := cfg.Server.CORS.Origins
	if dev || len(origins) == 0 {
		origins = []string{"*"}
	}

	srvCfg := server.Config{
		Host:             host,
		Port:             port,
		ShutdownTimeout:  shutdownTimeout,
		CORSOrigins:      origins,
		RootEmail:        cfg.Auth.SuperadminEmail,
		PublicRatePerMin: cfg.RateLimit.PublicPerMinute,
	}

	srv := server.New(srvCfg, st, uploads, authSvc, m, logger)

	if err := writePID(os.Getpid()); err != nil {
		logger.Warn("failed to write PID file", "error", err)
	}
	defer removePID()

	fmt.Printf("→ siteapi %s\n", versionString())
	fmt.Printf("→ Listening on http://%s:%d\n", host, port)
	fmt.Printf("→ Health:  http://%s:%d/health\n", host, port)
	fmt.Printf("→ Uploads: %s\n", uploads.Root())
	fmt.Println()

	return srv.ListenAndServe()
}
