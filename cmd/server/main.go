// Command server runs the comments HTTP API.
//
// It loads configuration from the environment (optionally via .env), opens
// the SQLite store, wires the captcha verifier and rate limiters, registers
// the HTTP routes and serves until SIGINT/SIGTERM, then shuts down
// gracefully.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-comments-backend/internal/captcha"
	"github.com/tbourn/go-comments-backend/internal/config"
	httpapi "github.com/tbourn/go-comments-backend/internal/http"
	"github.com/tbourn/go-comments-backend/internal/observability"
	"github.com/tbourn/go-comments-backend/internal/ratelimit"
	"github.com/tbourn/go-comments-backend/internal/repo"
	"github.com/tbourn/go-comments-backend/internal/sysutil"

	_ "github.com/tbourn/go-comments-backend/docs"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	// Missing .env is fine in production; config falls back to real env vars.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database failed")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate database failed")
	}

	deps := httpapi.Deps{
		Captcha: captcha.New(cfg.Captcha.Secret,
			captcha.WithEndpoint(cfg.Captcha.URL),
			captcha.WithTimeout(cfg.Captcha.Timeout),
			captcha.WithAllowUnverified(cfg.Captcha.AllowUnverified),
		),
	}

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("redis ping failed")
		}
		deps.CommentLimiter = ratelimit.NewRedis(rdb, cfg.CommentRateLimit, cfg.CommentRateWindow, "rl:comment")
		deps.ReactionLimiter = ratelimit.NewRedis(rdb, cfg.ReactionRateLimit, cfg.ReactionRateWindow, "rl:reaction")
		log.Info().Str("addr", cfg.RedisAddr).Msg("using redis rate limiter")
	} else {
		deps.CommentLimiter = ratelimit.NewMemory(cfg.CommentRateLimit, cfg.CommentRateWindow)
		deps.ReactionLimiter = ratelimit.NewMemory(cfg.ReactionRateLimit, cfg.ReactionRateWindow)
	}

	gin.SetMode(cfg.GinMode)
	engine := gin.New()
	httpapi.RegisterRoutes(engine, db, deps, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("version", version).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		log.Error().Err(err).Msg("server error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
	if shutdownOTel != nil {
		if err := shutdownOTel(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("otel shutdown failed")
		}
	}

	log.Info().Msg("server stopped")
}
