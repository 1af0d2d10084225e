// RecoService - Recommendation Serving API
// Copyright 2026 notness3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/notness3/RecoService

package auth

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

// newTestCredentials builds credentials from a low-cost hash to keep tests fast.
func newTestCredentials(t *testing.T, username, password string) *Credentials {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("GenerateFromPassword() error = %v", err)
	}
	creds, err := NewCredentials(username, "", string(hash))
	if err != nil {
		t.Fatalf("NewCredentials() error = %v", err)
	}
	return creds
}

func TestNewCredentials(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		hash     string
		wantErr  bool
	}{
		{name: "plaintext password", username: "admin", password: "securepass123"},
		{name: "missing username", username: "", password: "securepass123", wantErr: true},
		{name: "missing password and hash", username: "admin", wantErr: true},
		{name: "invalid hash", username: "admin", hash: "not-a-bcrypt-hash", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creds, err := NewCredentials(tt.username, tt.password, tt.hash)
			if tt.wantErr {
				if err == nil {
					t.Error("NewCredentials() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewCredentials() error = %v", err)
			}
			if creds.Username() != tt.username {
				t.Errorf("Username() = %q, want %q", creds.Username(), tt.username)
			}
			cost, err := bcrypt.Cost(creds.passwordHash)
			if err != nil || cost != bcryptCost {
				t.Errorf("bcrypt cost = %d (err %v), want %d", cost, err, bcryptCost)
			}
			if err := creds.Verify(tt.username, tt.password); err != nil {
				t.Errorf("Verify() error = %v", err)
			}
		})
	}
}

func TestCredentials_Verify(t *testing.T) {
	creds := newTestCredentials(t, "admin", "securepass123")

	tests := []struct {
		name     string
		username string
		password string
		wantErr  bool
	}{
		{name: "valid", username: "admin", password: "securepass123"},
		{name: "wrong password", username: "admin", password: "wrong", wantErr: true},
		{name: "unknown user", username: "other", password: "securepass123", wantErr: true},
		{name: "username case differs", username: "Admin", password: "securepass123", wantErr: true},
		{name: "empty", username: "", password: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := creds.Verify(tt.username, tt.password)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidCredentials) {
					t.Errorf("Verify() error = %v, want ErrInvalidCredentials", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Verify() unexpected error = %v", err)
			}
		})
	}
}
