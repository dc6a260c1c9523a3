// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Command parish serves the parish website REST API.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/olegiv/parish-go/internal/auth"
	"github.com/olegiv/parish-go/internal/cache"
	"github.com/olegiv/parish-go/internal/config"
	"github.com/olegiv/parish-go/internal/handler/api"
	"github.com/olegiv/parish-go/internal/logging"
	"github.com/olegiv/parish-go/internal/middleware"
	"github.com/olegiv/parish-go/internal/scheduler"
	"github.com/olegiv/parish-go/internal/service"
	"github.com/olegiv/parish-go/internal/store"
	"github.com/olegiv/parish-go/internal/version"
)

// Public API rate limit per client IP.
const (
	apiRateLimit = 20
	apiBurst     = 40
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "parish - parish website API server\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PARISH_JWT_SECRET       Token signing key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PARISH_DB_PATH          SQLite database path (default: ./data/parish.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PARISH_SERVER_PORT      Server port (default: 5000)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PARISH_ENV              Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PARISH_UPLOADS_DIR      Uploaded images directory (default: ./uploads)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PARISH_CORS_ORIGINS     Comma separated allowed origins (default: http://localhost:3000)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PARISH_REDIS_URL        Redis URL for shared caching (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PARISH_ADMIN_EMAIL      Initial admin email (with PARISH_ADMIN_PASSWORD)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Printf("parish %s\n", version.Get())
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := cfg.SlogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// WARN and ERROR records are also written to the event log table.
	logger = slog.New(logging.NewEventLogHandler(
		slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}), db))
	slog.SetDefault(logger)

	ctx := context.Background()
	if cfg.SeedAdminConfigured() {
		if err := store.SeedAdmin(ctx, db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			return fmt.Errorf("seeding admin: %w", err)
		}
	}

	cacher, backend := cache.New(cache.Config{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: time.Duration(cfg.CacheTTL) * time.Second,
	}, logger)
	defer func() { _ = cacher.Close() }()
	slog.Info("cache initialized", "backend", backend)

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	defer loginProtection.Stop()

	sched := scheduler.New(db, cacher, scheduler.Config{
		ReadingsRetentionDays: cfg.ReadingsRetentionDays,
	}, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	apiHandler := api.NewHandler(api.Deps{
		DB:                db,
		Issuer:            auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL),
		Cache:             cacher,
		CacheTTL:          time.Duration(cfg.CacheTTL) * time.Second,
		Media:             service.NewMediaService(cfg.UploadsDir, logger),
		Login:             loginProtection,
		AllowRegistration: cfg.AllowRegistration,
		Logger:            logger,
	})

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.StripSlashes)
	r.Use(chimw.Compress(5))
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(middleware.CORS(cfg.CORSOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Use(chimw.Timeout(30 * time.Second))
		r.Use(middleware.NewRateLimiter(apiRateLimit, apiBurst).Middleware())
		r.Mount("/", apiHandler.Routes())
	})
	r.Handle(service.UploadURLPrefix+"*", http.StripPrefix(strings.TrimSuffix(service.UploadURLPrefix, "/"),
		noDirectoryListing(http.FileServer(http.Dir(cfg.UploadsDir)))))

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", version.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// noDirectoryListing answers 404 for directory paths under /uploads.
func noDirectoryListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
