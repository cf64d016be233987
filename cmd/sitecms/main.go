// Package main is the entry point for the sitecms content server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"sitecms/internal/cache"
	"sitecms/internal/config"
	"sitecms/internal/database"
	"sitecms/internal/handlers"
	"sitecms/internal/middleware"
	"sitecms/internal/resolve"
	"sitecms/internal/router"
	"sitecms/internal/session"
	"sitecms/internal/store"
	"sitecms/internal/versioning"
)

func main() {
	// Load configuration from environment variables and .env.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: text in development, JSON everywhere else.
	var handler slog.Handler
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"storage", cfg.StorageDriver,
	)

	ctx := context.Background()

	var (
		repo     versioning.Repository
		users    handlers.UserLookup
		cacheLog handlers.CacheLog
	)

	var svc *versioning.Service
	if cfg.UsesPostgres() {
		db, err := database.Connect(cfg.DSN())
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := database.Migrate(db); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}

		repo = store.NewContentStore(db)
		users = store.NewUserStore(db)
		cacheLog = store.NewCacheLogStore(db)
		svc = versioning.NewService(repo)

		seedOpts := database.SeedOptions{
			SiteID:        cfg.SiteID,
			AdminEmail:    cfg.AdminEmail,
			AdminPassword: cfg.AdminPassword,
		}
		if cfg.IsDev() {
			err = database.Seed(ctx, db, svc, seedOpts)
		} else {
			err = database.EnsureAdmin(ctx, db, seedOpts)
		}
		if err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	} else {
		repo = store.NewMemoryContentStore()
		staticUsers, err := store.NewStaticUserStore(cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			slog.Error("failed to create admin account", "error", err)
			os.Exit(1)
		}
		users = staticUsers
		svc = versioning.NewService(repo)

		if err := database.SeedContent(ctx, svc, cfg.SiteID); err != nil {
			slog.Error("failed to seed content", "error", err)
			os.Exit(1)
		}
		slog.Warn("using in-memory storage, content is lost on restart")
	}

	// Connect to Valkey for sessions and the public response cache. The
	// server still runs without it, with in-process sessions and no cache.
	var (
		valkeyClient *redis.Client
		sessionStore *session.Store
	)
	if cfg.ValkeyHost != "" {
		valkeyClient, err = cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword, cfg.ValkeyDB)
		if err != nil {
			slog.Warn("valkey unavailable, public cache disabled", "error", err)
			valkeyClient = nil
		}
	}
	if valkeyClient != nil {
		defer valkeyClient.Close()
		sessionStore = session.NewStore(valkeyClient, cfg.SecureCookies)
	} else {
		sessionStore = session.NewMemoryStore(cfg.SecureCookies)
	}

	var publicCache *cache.PublicCache
	if valkeyClient != nil {
		publicCache = cache.NewPublicCache(valkeyClient, cfg.PublicCacheTTL)
	}
	// Seeded content may differ from what a previous run cached.
	publicCache.InvalidateSite(ctx, cfg.SiteID)

	policy := resolve.NewPolicy(svc)

	// Create handler groups with their dependencies.
	adminHandlers := handlers.NewAdmin(svc, policy, publicCache, cacheLog)
	authHandlers := handlers.NewAuth(sessionStore, users)
	publicHandlers := handlers.NewPublic(policy, publicCache)

	loginLimiter := middleware.NewRateLimiter(cfg.LoginRateLimit, time.Minute)
	defer loginLimiter.Stop()

	// Set up the Chi router with all middleware and routes.
	r := router.New(router.Options{
		Sessions:      sessionStore,
		LoginLimiter:  loginLimiter,
		SecureCookies: cfg.SecureCookies,
		TrustProxy:    cfg.TrustProxy,
	}, adminHandlers, authHandlers, publicHandlers)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
