// RecoService - Recommendation Serving API
// Copyright 2026 notness3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/notness3/RecoService

package recommend

import (
	"fmt"
	"sort"
)

// DefaultUserIDCeiling is the largest user id accepted by Recommend.
const DefaultUserIDCeiling UserID = 1_000_000_000

// DefaultPopularModel is the model name that always resolves to popularity.
const DefaultPopularModel = "top_frequent"

// Config contains the serving parameters of the resolution engine.
type Config struct {
	// AvailableModels is the set of model names callers may request.
	AvailableModels []string `json:"available_models"`

	// KRecs is the target length of every response.
	KRecs int `json:"k_recs"`

	// UserIDCeiling is the largest accepted user id. Larger ids are
	// rejected with ErrUserOutOfRange.
	UserIDCeiling UserID `json:"user_id_ceiling"`

	// PopularModel names the model served from popularity alone.
	// It needs no registered source.
	PopularModel string `json:"popular_model"`
}

// DefaultConfig returns the configuration the service ships with.
func DefaultConfig() *Config {
	return &Config{
		AvailableModels: []string{DefaultPopularModel},
		KRecs:           10,
		UserIDCeiling:   DefaultUserIDCeiling,
		PopularModel:    DefaultPopularModel,
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.KRecs <= 0 {
		return fmt.Errorf("k_recs must be positive, got %d", c.KRecs)
	}
	if c.UserIDCeiling < 0 {
		return fmt.Errorf("user_id_ceiling must be non-negative, got %d", c.UserIDCeiling)
	}
	if c.PopularModel == "" {
		return fmt.Errorf("popular_model must not be empty")
	}

	seen := make(map[string]struct{}, len(c.AvailableModels))
	for _, name := range c.AvailableModels {
		if name == "" {
			return fmt.Errorf("available_models contains an empty name")
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("available_models contains %q twice", name)
		}
		seen[name] = struct{}{}
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	clone.AvailableModels = append([]string(nil), c.AvailableModels...)
	return &clone
}

// enabledSet returns the available models as a lookup set.
func (c *Config) enabledSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.AvailableModels))
	for _, name := range c.AvailableModels {
		set[name] = struct{}{}
	}
	return set
}

// sortedModels returns the available models in lexical order.
func (c *Config) sortedModels() []string {
	names := append([]string(nil), c.AvailableModels...)
	sort.Strings(names)
	return names
}
