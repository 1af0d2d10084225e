// RecoService - Recommendation Serving API
// Copyright 2026 notness3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/notness3/RecoService

/*
Package auth provides bearer token authentication for the recommendation API.

Key Components:

  - JWTManager: HS256 token issue and validation (golang-jwt/jwt/v5)
  - Credentials: bcrypt check of the single configured account
  - LoginLimiter: per-IP token bucket for POST /login (golang.org/x/time/rate)
  - Middleware: 401 with a WWW-Authenticate: Bearer challenge for missing or
    invalid tokens

Authentication Modes (AUTH_MODE):

  - jwt (default): every protected route requires "Authorization: Bearer <token>"
  - none: authentication disabled; refused by config validation in production

Usage Example:

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
	    return err
	}
	mw := auth.NewMiddleware(jwtManager, cfg.Security.AuthMode, logging.Logger())
	r.With(mw.Handler).Get("/health", handler.Health)

Rejections are counted in auth_token_rejections_total and written to the auth
audit log with the token masked.
*/
package auth
