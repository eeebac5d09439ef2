// Copyright (c) 2026 Sleepwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Sleepwell HTTP API server.
//
// # Startup Sequence
//
//  1. Load configuration from environment variables (and .env).
//  2. Initialize structured logger.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis when REDIS_URL is set.
//  5. Run database migrations (idempotent).
//  6. Wire token issuer, Google client and HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/sleepwell/internal/api"
	"github.com/taibuivan/sleepwell/internal/platform/config"
	"github.com/taibuivan/sleepwell/internal/platform/constants"
	"github.com/taibuivan/sleepwell/internal/platform/google"
	"github.com/taibuivan/sleepwell/internal/platform/migration"
	pgstore "github.com/taibuivan/sleepwell/internal/platform/postgres"
	redisstore "github.com/taibuivan/sleepwell/internal/platform/redis"
	"github.com/taibuivan/sleepwell/internal/platform/sec"
	"github.com/taibuivan/sleepwell/internal/users/account"
	"github.com/taibuivan/sleepwell/internal/users/auth"
)

func main() {
	// ── 1. Configuration ──────────────────────────────────────────────────
	// Bootstrap logger until the configured level is known.
	log := newLogger(slog.LevelInfo)

	cfg, err := config.Load()
	must(log, err, "load configuration")

	// ── 2. Logger ─────────────────────────────────────────────────────────
	log = newLogger(cfg.SlogLevel())
	slog.SetDefault(log)

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("addr", cfg.Addr()),
		slog.Bool("cache_enabled", cfg.RedisURL != ""),
	)

	// Root context is cancelled on SIGINT/SIGTERM.
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// Bounded so misconfiguration is caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(rootCtx, constants.StartupTimeout)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	// ── 4. Redis (optional) ───────────────────────────────────────────────
	var (
		rdb          *goredis.Client
		profileCache account.ProfileCache
		checkCache   api.HealthCheck
	)
	if cfg.RedisURL != "" {
		rdb, err = redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing_redis_client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis_close_failed", slog.Any("error", cerr))
			}
		}()

		profileCache = account.NewProfileCache(rdb)
		checkCache = func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) }
	}

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Security & Identity Provider ───────────────────────────────────
	issuer, err := sec.NewTokenIssuer(cfg.JWTSecretKey, cfg.JWTAlgorithm, constants.AuthIssuer, time.Now)
	must(log, err, "initialize token issuer")

	googleClient, err := google.NewClient(google.Settings{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURI:  cfg.GoogleCallbackURI,
		AuthURL:      cfg.GoogleAuthURL,
		TokenURL:     cfg.GoogleTokenURL,
		APIBaseURI:   cfg.GoogleAPIBaseURI,
		Scopes:       cfg.GoogleScopes,
		Timeout:      cfg.OutboundTimeout,
	}, google.NewHTTPClient(cfg.OutboundTimeout))
	must(log, err, "initialize google client")

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) },
		CheckCache:    checkCache,
	})

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	userRepository := account.NewUserRepository(pool)
	accountService := account.NewService(userRepository, profileCache)
	authService := auth.NewService(googleClient, userRepository, issuer, auth.Lifetimes{
		Access:  cfg.AccessTokenTTL(),
		Refresh: cfg.RefreshTokenTTL(),
	})

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(authService),
		Account:   account.NewHandler(accountService),
	}

	server := api.NewServer(rootCtx, cfg, log, authService, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case <-rootCtx.Done():
		log.Info("shutdown_signal_received")
	case err := <-serverErr:
		log.Error("server_listen_failed", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	log.Info("server_shutting_down", slog.Duration("timeout", constants.ShutdownTimeout))

	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("server_shutdown_failed", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped")
}

// newLogger builds the JSON logger every entry is written through.
func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(
		slog.String("app", constants.AppName),
		slog.String("version", constants.AppVersion),
	)
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failed",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
