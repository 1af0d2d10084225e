// RecoService - Recommendation Serving API
// Copyright 2026 notness3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/notness3/RecoService

package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/notness3/RecoService/internal/recommend"
)

// errorMapping is the HTTP rendering of an engine error.
type errorMapping struct {
	Status  int
	Code    string
	Message string
	// Reason is the bounded label for reco_rejected_total.
	Reason string
}

// mapRecommendError translates engine sentinels into responses.
// Unknown errors become a 500 without exposing internals.
func mapRecommendError(err error, model string, user recommend.UserID) errorMapping {
	switch {
	case errors.Is(err, recommend.ErrUserOutOfRange):
		return errorMapping{
			Status:  http.StatusNotFound,
			Code:    ErrCodeUserNotFound,
			Message: fmt.Sprintf("User %d not found", user),
			Reason:  "user_out_of_range",
		}
	case errors.Is(err, recommend.ErrModelDisabled):
		return errorMapping{
			Status:  http.StatusNotFound,
			Code:    ErrCodeModelNotFound,
			Message: fmt.Sprintf("Model %s not found", model),
			Reason:  "model_disabled",
		}
	case errors.Is(err, recommend.ErrModelMisconfigured):
		return errorMapping{
			Status:  http.StatusInternalServerError,
			Code:    ErrCodeInternalError,
			Message: "Recommendation model is not available",
			Reason:  "misconfigured",
		}
	default:
		return errorMapping{
			Status:  http.StatusInternalServerError,
			Code:    ErrCodeInternalError,
			Message: "Internal server error",
			Reason:  "internal",
		}
	}
}
