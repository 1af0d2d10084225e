// RecoService - Recommendation Serving API
// Copyright 2026 notness3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/notness3/RecoService

package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestAuthLogger(t *testing.T) {
	var buf bytes.Buffer
	audit := NewAuthLogger(zerolog.New(&buf))

	audit.LoginSuccess("administrator", "10.0.0.1")
	audit.LoginFailure("mallory", "10.0.0.2", "invalid credentials")
	audit.LoginThrottled("10.0.0.3")
	audit.TokenRejected("10.0.0.4", "/reco/m/1", "eyJhbGciOiJIUzI1NiJ9.payload.signature", "expired")

	output := buf.String()
	for _, want := range []string{
		`"component":"auth"`,
		`"event":"login_success"`,
		`"username":"ad***"`,
		`"event":"login_failure"`,
		`"reason":"invalid credentials"`,
		`"event":"login_throttled"`,
		`"token":"eyJh...ture"`,
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %s: %s", want, output)
		}
	}
	if strings.Contains(output, "administrator") || strings.Contains(output, "payload") {
		t.Errorf("output leaks raw credentials: %s", output)
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"empty token", SanitizeToken(""), ""},
		{"short token", SanitizeToken("abc"), "***"},
		{"long token", SanitizeToken("abcdefghijklmnop"), "abcd...mnop"},
		{"empty username", SanitizeUsername(""), ""},
		{"short username", SanitizeUsername("ab"), "***"},
		{"username", SanitizeUsername("johndoe"), "jo***"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}
