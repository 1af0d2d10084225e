// RecoService - Recommendation Serving API
// Copyright 2026 notness3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/notness3/RecoService

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/notness3/RecoService/internal/metrics"
	"github.com/notness3/RecoService/internal/recommend"
)

// GetRecommendations handles GET /reco/{model_name}/{user_id}.
//
// @Summary Get recommendations for a user
// @Description Resolves exactly k_recs distinct items from the model's source, backfilled from popularity
// @Tags Recommendations
// @Produce json
// @Security BearerAuth
// @Param model_name path string true "Model name"
// @Param user_id path integer true "User ID"
// @Success 200 {object} RecoResponse
// @Failure 401 {object} APIResponse "Missing or invalid bearer token"
// @Failure 404 {object} APIResponse "USER_NOT_FOUND or MODEL_NOT_FOUND"
// @Failure 422 {object} APIResponse "user_id is not an integer"
// @Failure 500 {object} APIResponse "Enabled model has no source"
// @Router /reco/{model_name}/{user_id} [get]
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	modelName := chi.URLParam(r, "model_name")
	rawUserID := chi.URLParam(r, "user_id")

	userID, err := strconv.ParseInt(rawUserID, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			// Syntactically an integer, just beyond int64: past any ceiling.
			metrics.RecordRejection("user_out_of_range")
			respondError(w, r, http.StatusNotFound, ErrCodeUserNotFound,
				fmt.Sprintf("User %s not found", rawUserID), nil)
			return
		}
		respondErrorWithDetails(w, r, http.StatusUnprocessableEntity, ErrCodeValidation,
			"user_id must be an integer", map[string]interface{}{"user_id": rawUserID}, nil)
		return
	}

	resp, err := h.engine.Recommend(r.Context(), modelName, userID)
	if err != nil {
		m := mapRecommendError(err, modelName, userID)
		metrics.RecordRejection(m.Reason)
		var logErr error
		if m.Status >= http.StatusInternalServerError {
			logErr = err
		}
		respondError(w, r, m.Status, m.Code, m.Message, logErr)
		return
	}

	metrics.RecordResolution(resp.Model, resp.Segment.String(), resp.Backfilled, resp.Latency)

	items := resp.Items
	if items == nil {
		items = []recommend.ItemID{}
	}
	respondJSON(w, http.StatusOK, &RecoResponse{
		UserID: resp.UserID,
		Items:  items,
	})
}

// ListModels handles GET /models.
//
// @Summary List enabled models
// @Description Returns every enabled model with its source kind and user coverage, plus engine counters
// @Tags Recommendations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=ModelsResponse}
// @Failure 401 {object} APIResponse "Missing or invalid bearer token"
// @Router /models [get]
func (h *Handler) ListModels(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, &ModelsResponse{
		Models:  h.engine.Models(),
		KRecs:   h.engine.Config().KRecs,
		Metrics: h.engine.GetMetrics(),
	})
}
