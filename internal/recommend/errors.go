// RecoService - Recommendation Serving API
// Copyright 2026 notness3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/notness3/RecoService

package recommend

import "errors"

var (
	// ErrUserOutOfRange is returned when a user id is outside the valid range.
	ErrUserOutOfRange = errors.New("user id out of range")

	// ErrModelDisabled is returned when a model is not in the enabled set.
	ErrModelDisabled = errors.New("model not enabled")

	// ErrModelMisconfigured is returned when an enabled model has no registered source.
	ErrModelMisconfigured = errors.New("model has no registered source")

	// ErrSourceUnavailable is returned when a source artifact cannot be loaded.
	ErrSourceUnavailable = errors.New("source unavailable")
)
