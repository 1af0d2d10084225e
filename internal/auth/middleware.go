// RecoService - Recommendation Serving API
// Copyright 2026 notness3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/notness3/RecoService

package auth

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/notness3/RecoService/internal/logging"
	"github.com/notness3/RecoService/internal/metrics"
)

type contextKey string

// ClaimsContextKey stores the authenticated *Claims in the request context.
const ClaimsContextKey contextKey = "claims"

// Authentication modes accepted by NewMiddleware.
const (
	ModeJWT  = "jwt"
	ModeNone = "none"
)

// UnauthorizedCode is the error code in 401 response bodies.
const UnauthorizedCode = "UNAUTHORIZED"

// Middleware enforces bearer token authentication.
type Middleware struct {
	jwtManager *JWTManager
	authMode   string
	audit      *logging.AuthLogger
}

// NewMiddleware creates the authentication middleware. jwtManager may be nil
// only when authMode is ModeNone.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewMiddleware(jwtManager *JWTManager, authMode string, logger zerolog.Logger) *Middleware {
	return &Middleware{
		jwtManager: jwtManager,
		authMode:   authMode,
		audit:      logging.NewAuthLogger(logger),
	}
}

// Authenticate rejects requests without a valid bearer token with 401 and a
// WWW-Authenticate challenge. Valid claims are stored under ClaimsContextKey.
func (m *Middleware) Authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.authMode == ModeNone {
			next(w, r)
			return
		}

		token, ok := extractBearerToken(r.Header.Get("Authorization"))
		if !ok {
			m.reject(w, r, "", "missing", "Not authenticated")
			return
		}

		claims, err := m.jwtManager.ValidateToken(token)
		if err != nil {
			m.reject(w, r, token, rejectionReason(err), "Could not validate credentials")
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
		next(w, r.WithContext(ctx))
	}
}

// Handler adapts Authenticate for chi's Use and With.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return m.Authenticate(next.ServeHTTP)
}

func (m *Middleware) reject(w http.ResponseWriter, r *http.Request, token, reason, message string) {
	metrics.RecordTokenRejection(reason)
	m.audit.TokenRejected(ClientIP(r), r.URL.Path, token, reason)

	w.Header().Set("WWW-Authenticate", "Bearer")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)

	body := unauthorizedBody{Success: false}
	body.Error.Code = UnauthorizedCode
	body.Error.Message = message
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to encode unauthorized response")
	}
}

// unauthorizedBody mirrors the API error envelope without importing the api package.
type unauthorizedBody struct {
	Success bool `json:"success"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// extractBearerToken parses an "Authorization: Bearer <token>" header.
// The scheme is case-insensitive.
func extractBearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}

// GetClaims returns the claims stored by Authenticate, if any.
func GetClaims(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*Claims)
	return claims, ok && claims != nil
}

// ClientIP returns the host part of RemoteAddr. Proxy headers are resolved
// earlier by chi's RealIP middleware.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
