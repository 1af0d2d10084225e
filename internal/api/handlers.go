// RecoService - Recommendation Serving API
// Copyright 2026 notness3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/notness3/RecoService

package api

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/notness3/RecoService/internal/auth"
	"github.com/notness3/RecoService/internal/logging"
	"github.com/notness3/RecoService/internal/recommend"
)

// Handler serves the recommendation API.
//
// Handler methods are organized across multiple files:
//   - handlers_health.go: liveness endpoint
//   - handlers_auth.go: token issue
//   - handlers_recommend.go: recommendation and model listing endpoints
type Handler struct {
	engine       *recommend.Engine
	jwtManager   *auth.JWTManager
	credentials  *auth.Credentials
	loginLimiter *auth.LoginLimiter
	audit        *logging.AuthLogger
	logger       zerolog.Logger
	startTime    time.Time
}

// HandlerDeps collects the collaborators of Handler. JWTManager and
// Credentials may be nil when authentication is disabled, which also
// disables POST /login.
type HandlerDeps struct {
	Engine       *recommend.Engine
	JWTManager   *auth.JWTManager
	Credentials  *auth.Credentials
	LoginLimiter *auth.LoginLimiter
}

// NewHandler creates the API handler.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHandler(deps HandlerDeps, logger zerolog.Logger) *Handler {
	limiter := deps.LoginLimiter
	if limiter == nil {
		limiter = auth.NewLoginLimiter(0, 0)
	}
	return &Handler{
		engine:       deps.Engine,
		jwtManager:   deps.JWTManager,
		credentials:  deps.Credentials,
		loginLimiter: limiter,
		audit:        logging.NewAuthLogger(logger),
		logger:       logger.With().Str("component", "api").Logger(),
		startTime:    time.Now(),
	}
}

// loginEnabled reports whether tokens can be issued.
func (h *Handler) loginEnabled() bool {
	return h.jwtManager != nil && h.credentials != nil
}
