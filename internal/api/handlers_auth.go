// RecoService - Recommendation Serving API
// Copyright 2026 notness3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/notness3/RecoService

package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/notness3/RecoService/internal/auth"
	"github.com/notness3/RecoService/internal/metrics"
	"github.com/notness3/RecoService/internal/validation"
)

// maxLoginBodyBytes caps the login form size.
const maxLoginBodyBytes = 64 << 10

// Login exchanges the configured credentials for a bearer token.
//
// @Summary Issue a bearer token
// @Description Accepts an OAuth2 password form and returns a signed JWT
// @Tags Auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Account name"
// @Param password formData string true "Account password"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} APIResponse "Missing field or incorrect credentials"
// @Failure 429 {object} APIResponse "Too many login attempts"
// @Router /login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if !h.loginEnabled() {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Login is disabled", nil)
		return
	}

	ip := auth.ClientIP(r)
	if !h.loginLimiter.Allow(ip) {
		h.audit.LoginThrottled(ip)
		metrics.RecordLoginAttempt("throttled")
		metrics.RecordRateLimitHit("/login")
		w.Header().Set("Retry-After", "1")
		respondError(w, r, http.StatusTooManyRequests, ErrCodeTooManyRequests, "Too many login attempts", nil)
		return
	}

	req, err := parseLoginForm(w, r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, "Invalid form body", err)
		return
	}

	if verr := validation.ValidateStruct(req); verr != nil {
		apiErr := verr.ToAPIError()
		metrics.RecordLoginAttempt("invalid")
		respondErrorWithDetails(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
		return
	}

	if err := h.credentials.Verify(req.Username, req.Password); err != nil {
		reason := "invalid_credentials"
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			reason = "verify_error"
		}
		h.audit.LoginFailure(req.Username, ip, reason)
		metrics.RecordLoginAttempt("failure")
		respondError(w, r, http.StatusBadRequest, ErrCodeInvalidCredentials, "Incorrect username or password", nil)
		return
	}

	token, err := h.jwtManager.GenerateToken(req.Username, auth.RoleAdmin)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to sign token")
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "Internal server error", err)
		return
	}

	h.audit.LoginSuccess(req.Username, ip)
	metrics.RecordLoginAttempt("success")
	respondJSON(w, http.StatusOK, &LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(h.jwtManager.Timeout().Seconds()),
	})
}

// parseLoginForm reads username and password from a urlencoded or
// multipart form.
func parseLoginForm(w http.ResponseWriter, r *http.Request) (*LoginRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxLoginBodyBytes)

	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err = r.ParseMultipartForm(maxLoginBodyBytes)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		return nil, err
	}

	return &LoginRequest{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}, nil
}
