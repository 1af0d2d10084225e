// RecoService - Recommendation Serving API
// Copyright 2026 notness3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/notness3/RecoService

package validation

import (
	"strings"
	"testing"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 == nil {
		t.Fatal("GetValidator() should not return nil")
	}
	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
}

type sourceRequest struct {
	Name    string `validate:"required,modelname"`
	Format  string `validate:"required,oneof=json msgpack badger redis index"`
	Version int    `validate:"gte=0"`
	Path    string `validate:"max=16"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name      string
		input     sourceRequest
		wantField string
		wantTag   string
	}{
		{"valid", sourceRequest{Name: "user_knn", Format: "index", Version: 2}, "", ""},
		{"valid dotted name", sourceRequest{Name: "ease.v2", Format: "json"}, "", ""},
		{"missing name", sourceRequest{Format: "json"}, "Name", "required"},
		{"bad model name", sourceRequest{Name: "../etc", Format: "json"}, "Name", "modelname"},
		{"unknown format", sourceRequest{Name: "m", Format: "csv"}, "Format", "oneof"},
		{"negative version", sourceRequest{Name: "m", Format: "json", Version: -1}, "Version", "gte"},
		{"long path", sourceRequest{Name: "m", Format: "json", Path: strings.Repeat("a", 17)}, "Path", "max"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := ValidateStruct(&tt.input)
			if tt.wantField == "" {
				if verr != nil {
					t.Fatalf("ValidateStruct() = %v, want nil", verr)
				}
				return
			}
			if verr == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			errs := verr.Errors()
			if len(errs) != 1 {
				t.Fatalf("got %d errors, want 1: %v", len(errs), verr)
			}
			if errs[0].Field() != tt.wantField || errs[0].Tag() != tt.wantTag {
				t.Errorf("error = %s/%s, want %s/%s", errs[0].Field(), errs[0].Tag(), tt.wantField, tt.wantTag)
			}
		})
	}
}

func TestIsModelName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"top_frequent", true},
		{"ALS-64", true},
		{"m", true},
		{"", false},
		{"_hidden", false},
		{"a/b", false},
		{"with space", false},
		{strings.Repeat("a", 64), true},
		{strings.Repeat("a", 65), false},
	}

	for _, tt := range tests {
		if got := IsModelName(tt.name); got != tt.want {
			t.Errorf("IsModelName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestToAPIError(t *testing.T) {
	t.Run("single error", func(t *testing.T) {
		verr := ValidateStruct(&sourceRequest{Format: "json"})
		apiErr := verr.ToAPIError()
		if apiErr.Code != ValidationErrorCode {
			t.Errorf("Code = %q", apiErr.Code)
		}
		if apiErr.Message != "Name is required" {
			t.Errorf("Message = %q", apiErr.Message)
		}
		if apiErr.Details["field"] != "Name" {
			t.Errorf("Details = %v", apiErr.Details)
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		verr := ValidateStruct(&sourceRequest{Format: "csv", Version: -1})
		apiErr := verr.ToAPIError()
		if !strings.Contains(apiErr.Message, "Name: Name is required") {
			t.Errorf("Message = %q", apiErr.Message)
		}
		if !strings.Contains(apiErr.Message, "Format: Format must be one of: json msgpack badger redis index") {
			t.Errorf("Message = %q", apiErr.Message)
		}
		fields, ok := apiErr.Details["fields"].([]map[string]interface{})
		if !ok || len(fields) != 3 {
			t.Errorf("Details[fields] = %v", apiErr.Details["fields"])
		}
	})

	t.Run("empty", func(t *testing.T) {
		apiErr := (&RequestValidationError{}).ToAPIError()
		if apiErr.Message != "Validation failed" {
			t.Errorf("Message = %q", apiErr.Message)
		}
	})
}

func TestErrorMessages(t *testing.T) {
	type limits struct {
		Count int    `validate:"min=1"`
		Label string `validate:"min=3"`
	}

	verr := ValidateStruct(&limits{Count: 0, Label: "ab"})
	if verr == nil {
		t.Fatal("expected validation error")
	}
	want := "Count must be at least 1; Label must be at least 3 characters"
	if verr.Error() != want {
		t.Errorf("Error() = %q, want %q", verr.Error(), want)
	}
}
