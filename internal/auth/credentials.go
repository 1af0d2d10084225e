// RecoService - Recommendation Serving API
// Copyright 2026 notness3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/notness3/RecoService

package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is the work factor used when hashing a plaintext password.
const bcryptCost = 12

// ErrInvalidCredentials is returned for an unknown username or a wrong password.
// The two cases are deliberately indistinguishable to callers.
var ErrInvalidCredentials = errors.New("incorrect username or password")

// Credentials verifies a login against the single configured account.
type Credentials struct {
	username     string
	passwordHash []byte
	// dummyHash keeps the bcrypt cost constant for unknown usernames.
	dummyHash []byte
}

// NewCredentials creates a credential checker. When passwordHash is set it is
// used as-is; otherwise password is hashed once with bcrypt.
func NewCredentials(username, password, passwordHash string) (*Credentials, error) {
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}

	var hash []byte
	switch {
	case passwordHash != "":
		if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
			return nil, fmt.Errorf("invalid password hash: %w", err)
		}
		hash = []byte(passwordHash)
	case password != "":
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		hash = h
	default:
		return nil, fmt.Errorf("password or password hash is required")
	}

	cost, err := bcrypt.Cost(hash)
	if err != nil {
		return nil, fmt.Errorf("invalid password hash: %w", err)
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("recoservice-dummy-password"), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash dummy password: %w", err)
	}

	return &Credentials{
		username:     username,
		passwordHash: hash,
		dummyHash:    dummy,
	}, nil
}

// Verify checks username and password. Both comparisons always run.
func (c *Credentials) Verify(username, password string) error {
	usernameMatch := subtle.ConstantTimeCompare([]byte(username), []byte(c.username)) == 1

	hash := c.passwordHash
	if !usernameMatch {
		hash = c.dummyHash
	}
	passwordMatch := bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil

	if !usernameMatch || !passwordMatch {
		return ErrInvalidCredentials
	}
	return nil
}

// Username returns the configured account name.
func (c *Credentials) Username() string {
	return c.username
}
