// RecoService - Recommendation Serving API
// Copyright 2026 notness3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/notness3/RecoService

package logging

import (
	"github.com/rs/zerolog"
)

// AuthLogger records authentication outcomes. Usernames and tokens are
// masked before they reach the log.
type AuthLogger struct {
	logger zerolog.Logger
}

// NewAuthLogger creates an auth audit logger on top of logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewAuthLogger(logger zerolog.Logger) *AuthLogger {
	return &AuthLogger{logger: logger.With().Str("component", "auth").Logger()}
}

// LoginSuccess records an issued token.
func (l *AuthLogger) LoginSuccess(username, ip string) {
	l.logger.Info().
		Str("event", "login_success").
		Str("username", SanitizeUsername(username)).
		Str("ip", ip).
		Msg("login succeeded")
}

// LoginFailure records rejected credentials.
func (l *AuthLogger) LoginFailure(username, ip, reason string) {
	l.logger.Warn().
		Str("event", "login_failure").
		Str("username", SanitizeUsername(username)).
		Str("ip", ip).
		Str("reason", reason).
		Msg("login failed")
}

// LoginThrottled records a login attempt refused by the rate limiter.
func (l *AuthLogger) LoginThrottled(ip string) {
	l.logger.Warn().
		Str("event", "login_throttled").
		Str("ip", ip).
		Msg("login rate limit exceeded")
}

// TokenRejected records a request with a missing or invalid bearer token.
func (l *AuthLogger) TokenRejected(ip, path, token, reason string) {
	l.logger.Info().
		Str("event", "token_rejected").
		Str("ip", ip).
		Str("path", path).
		Str("token", SanitizeToken(token)).
		Str("reason", reason).
		Msg("bearer token rejected")
}

// SanitizeToken masks a token, showing only the first and last 4 characters.
func SanitizeToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 12 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// SanitizeUsername keeps the first 2 characters of a username.
func SanitizeUsername(username string) string {
	if username == "" {
		return ""
	}
	if len(username) <= 2 {
		return "***"
	}
	return username[:2] + "***"
}
