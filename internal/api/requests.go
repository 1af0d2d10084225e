// RecoService - Recommendation Serving API
// Copyright 2026 notness3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/notness3/RecoService

package api

import "github.com/notness3/RecoService/internal/recommend"

// LoginRequest is the form body of POST /login.
type LoginRequest struct {
	Username string `form:"username" validate:"required,max=128"`
	Password string `form:"password" validate:"required,max=256"`
}

// LoginResponse is returned by POST /login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// RecoResponse is returned by GET /reco/{model_name}/{user_id}.
type RecoResponse struct {
	UserID recommend.UserID   `json:"user_id"`
	Items  []recommend.ItemID `json:"items"`
}

// ModelsResponse is the data payload of GET /models.
type ModelsResponse struct {
	Models  []recommend.ModelInfo `json:"models"`
	KRecs   int                   `json:"k_recs"`
	Metrics recommend.Metrics     `json:"metrics"`
}
