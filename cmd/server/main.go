// RecoService - Recommendation Serving API
// Copyright 2026 notness3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/notness3/RecoService

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/notness3/RecoService/internal/api"
	"github.com/notness3/RecoService/internal/auth"
	"github.com/notness3/RecoService/internal/config"
	"github.com/notness3/RecoService/internal/logging"
	"github.com/notness3/RecoService/internal/supervisor"
	"github.com/notness3/RecoService/internal/supervisor/services"
)

const (
	limiterPruneInterval = time.Minute
	engineStatsInterval  = 5 * time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("auth_mode", cfg.Security.AuthMode).
		Strs("available_models", cfg.Reco.AvailableModels).
		Int("k_recs", cfg.Reco.KRecs).
		Int("sources", len(cfg.Reco.Sources)).
		Msg("Configuration loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engine, err := initReco(ctx, cfg, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize recommendation engine")
	}

	jwtManager, credentials := initAuth(cfg)
	loginLimiter := auth.NewLoginLimiter(cfg.Security.LoginRateLimit, cfg.Security.LoginRateBurst)

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS allows any origin while authentication is enabled. Set CORS_ORIGINS in production.")
	}

	handler := api.NewHandler(api.HandlerDeps{
		Engine:       engine,
		JWTManager:   jwtManager,
		Credentials:  credentials,
		LoginLimiter: loginLimiter,
	}, logging.Logger())

	authMiddleware := auth.NewMiddleware(jwtManager, cfg.Security.AuthMode, logging.Logger())
	chiMiddleware := api.NewChiMiddleware(api.NewChiMiddlewareConfig(&cfg.Security))
	router := api.NewRouter(handler, authMiddleware, chiMiddleware)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}

	// sutureslog needs slog; the adapter forwards to zerolog.
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddMaintenanceService(services.NewLimiterPruneService(
		loginLimiter, limiterPruneInterval, auth.DefaultLimiterIdleTTL, logging.Logger()))
	tree.AddMaintenanceService(services.NewEngineStatsService(
		engine, engineStatsInterval, logging.Logger()))
	tree.AddAPIService(services.NewHTTPServerService(
		server, addr, cfg.Server.ShutdownTimeout, logging.Logger()))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
	}

	logging.Info().Msg("Application stopped gracefully")
}

// initAuth builds the token manager and login credentials. Both are nil
// when AUTH_MODE is none, which also disables POST /login.
func initAuth(cfg *config.Config) (*auth.JWTManager, *auth.Credentials) {
	if cfg.Security.AuthMode == auth.ModeNone {
		logging.Warn().Msg("============================================================")
		logging.Warn().Msg("  SECURITY WARNING: Authentication is DISABLED (AUTH_MODE=none)")
		logging.Warn().Msg("  Every endpoint is reachable without a token.")
		logging.Warn().Msg("  Use this only for local development and tests.")
		logging.Warn().Msg("============================================================")
		return nil, nil
	}

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
	}

	credentials, err := auth.NewCredentials(
		cfg.Security.AdminUsername,
		cfg.Security.AdminPassword,
		cfg.Security.AdminPasswordHash,
	)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize admin credentials")
	}

	logging.Info().
		Str("username", logging.SanitizeUsername(credentials.Username())).
		Dur("session_timeout", jwtManager.Timeout()).
		Msg("JWT authentication enabled")
	return jwtManager, credentials
}
