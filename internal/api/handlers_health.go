// RecoService - Recommendation Serving API
// Copyright 2026 notness3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/notness3/RecoService

package api

import "net/http"

// healthMessage is the fixed liveness body.
const healthMessage = "I am alive"

// Health handles liveness checks.
//
// @Summary Liveness probe
// @Description Returns a fixed JSON string while the service is running
// @Tags Core
// @Produce json
// @Security BearerAuth
// @Success 200 {string} string "I am alive"
// @Failure 401 {object} APIResponse "Missing or invalid bearer token"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, healthMessage)
}
