// RecoService - Recommendation Serving API
// Copyright 2026 notness3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/notness3/RecoService

//go:generate swag init -g doc.go -o docs --parseDependency --parseInternal

// Package api provides the HTTP surface of the recommendation service.
//
// Routes:
//
//	POST /login                          issue a bearer token (form body)
//	GET  /health                         liveness, returns "I am alive"
//	GET  /reco/{model_name}/{user_id}    k_recs items for the user
//	GET  /models                         enabled models, coverage and counters
//	GET  /metrics                        Prometheus exposition
//	GET  /swagger/*                      Swagger UI
//
// All routes except /login, /metrics and /swagger require
// "Authorization: Bearer <token>". Error bodies use the APIResponse
// envelope; successful /reco and /login responses are plain objects.
//
// @title RecoService API
// @version 1.0
// @description Serves top-k item recommendations per (model, user) from precomputed sources with popularity fallback.
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token from POST /login, as "Bearer <token>"
package api
