// RecoService - Recommendation Serving API
// Copyright 2026 notness3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/notness3/RecoService

package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/notness3/RecoService/internal/recommend"
)

func TestMapRecommendError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
		wantReason  string
	}{
		{
			name:        "user out of range",
			err:         fmt.Errorf("user 7: %w", recommend.ErrUserOutOfRange),
			wantStatus:  http.StatusNotFound,
			wantCode:    ErrCodeUserNotFound,
			wantMessage: "User 7 not found",
			wantReason:  "user_out_of_range",
		},
		{
			name:        "model disabled",
			err:         fmt.Errorf("model %q: %w", "knn", recommend.ErrModelDisabled),
			wantStatus:  http.StatusNotFound,
			wantCode:    ErrCodeModelNotFound,
			wantMessage: "Model knn not found",
			wantReason:  "model_disabled",
		},
		{
			name:       "model misconfigured",
			err:        fmt.Errorf("resolve: %w", recommend.ErrModelMisconfigured),
			wantStatus: http.StatusInternalServerError,
			wantCode:   ErrCodeInternalError,
			wantReason: "misconfigured",
		},
		{
			name:        "unexpected error",
			err:         errors.New("boom"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    ErrCodeInternalError,
			wantMessage: "Internal server error",
			wantReason:  "internal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapRecommendError(tt.err, "knn", 7)
			if got.Status != tt.wantStatus {
				t.Errorf("Status = %d, want %d", got.Status, tt.wantStatus)
			}
			if got.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", got.Code, tt.wantCode)
			}
			if tt.wantMessage != "" && got.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", got.Message, tt.wantMessage)
			}
			if got.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", got.Reason, tt.wantReason)
			}
		})
	}
}
