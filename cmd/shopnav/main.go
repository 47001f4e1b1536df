// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/olegiv/shopnav/internal/auth"
	"github.com/olegiv/shopnav/internal/cache"
	"github.com/olegiv/shopnav/internal/catalog"
	"github.com/olegiv/shopnav/internal/config"
	"github.com/olegiv/shopnav/internal/handler"
	"github.com/olegiv/shopnav/internal/logging"
	"github.com/olegiv/shopnav/internal/metrics"
	"github.com/olegiv/shopnav/internal/middleware"
	"github.com/olegiv/shopnav/internal/scheduler"
	"github.com/olegiv/shopnav/internal/service"
	"github.com/olegiv/shopnav/internal/store"
	"github.com/olegiv/shopnav/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Parse CLI flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")
	issueRole := flag.String("issue-token", "", "Print an admin API token for `role` (admin|editor) and exit")
	subject := flag.String("subject", "cli", "Subject of the issued token")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "shopnav - storefront navigation service\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SHOPNAV_JWT_SECRET       Admin token signing key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SHOPNAV_DB_PATH          SQLite database path (default: ./data/shopnav.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SHOPNAV_SERVER_PORT      Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SHOPNAV_ENV              Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SHOPNAV_REDIS_URL        Redis URL for the navigation cache (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SHOPNAV_CATALOG_URL      Product catalog API base URL (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SHOPNAV_CORS_ORIGINS     Comma-separated admin UI origins (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SHOPNAV_DO_SEED          Seed the default navigation when empty (default: false)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	info := version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}
	if *showVersion {
		_, _ = fmt.Printf("shopnav %s\n", info)
		os.Exit(0)
	}

	if *issueRole != "" {
		if err := issueToken(*issueRole, *subject); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if err := run(info); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func issueToken(role, subject string) error {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return err
	}
	token, err := tokens.Issue(subject, role)
	if err != nil {
		return err
	}
	_, _ = fmt.Println(token)
	return nil
}

func run(info version.Info) error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := cfg.SlogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	// Ensure data directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}()

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	// Upgrade logger to also write WARN and ERROR logs to the event log
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return fmt.Errorf("creating token manager: %w", err)
	}

	// Navigation cache
	cacheTTL := time.Duration(cfg.CacheTTL) * time.Second
	backend, backendName := cache.NewCache(cache.Config{
		RedisURL:        cfg.RedisURL,
		Prefix:          cfg.CachePrefix,
		DefaultTTL:      cacheTTL,
		MaxSize:         cfg.CacheMaxSize,
		CleanupInterval: time.Minute,
	}, logger)
	defer func() { _ = backend.Close() }()
	navCache := cache.NewNavigationCache(backend, cacheTTL, logger)
	slog.Info(handler.LogCacheInit, "backend", backendName, "ttl", cacheTTL)

	m := metrics.New()
	m.RegisterCache(func() (int64, int64) {
		st := navCache.Stats()
		return st.Hits, st.Misses
	})

	nav := service.NewNavigationService(db, logger)
	nav.SetCache(navCache)
	nav.SetMetrics(m)
	if cfg.CatalogEnabled() {
		nav.SetCatalog(catalog.New(cfg.CatalogURL, cfg.CatalogTimeout))
		slog.Info("product catalog enabled", "url", cfg.CatalogURL)
	}
	events := service.NewEventService(db, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.DoSeed {
		seeded, err := nav.SeedIfEmpty(ctx)
		if err != nil {
			return fmt.Errorf("seeding navigation: %w", err)
		}
		if seeded {
			slog.Info("default navigation seeded")
		}
	}

	// Maintenance jobs
	sched := scheduler.New(logger)
	if err := sched.RegisterEventPruning(events, cfg.EventRetention(), cfg.PruneSchedule); err != nil {
		return fmt.Errorf("registering event pruning: %w", err)
	}
	if err := sched.RegisterCacheWarming(nav, cfg.WarmSchedule); err != nil {
		return fmt.Errorf("registering cache warming: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	if err := nav.WarmCache(ctx); err != nil {
		slog.Warn("initial navigation cache warm failed", "error", err)
	}

	router := handler.NewRouter(handler.Deps{
		Logger:         logger,
		Navigation:     handler.NewNavigationHandler(nav, logger),
		Events:         handler.NewEventsHandler(events, logger),
		Health:         handler.NewHealthHandler(db, backend, backendName, info),
		Jobs:           handler.NewSchedulerHandler(sched, events, logger),
		Verifier:       tokens,
		RateLimiter:    middleware.NewIPRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		Metrics:        m.Handler(),
		CORSOrigins:    cfg.CORSOrigins,
		RequestTimeout: cfg.RequestTimeout,
		IsDevelopment:  cfg.IsDevelopment(),
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("starting server", "addr", srv.Addr, "version", info.Version, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("server stopped")
	return nil
}
