// RecoService - Recommendation Serving API
// Copyright 2026 notness3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/notness3/RecoService

package sources

import (
	"fmt"
	"strconv"

	"github.com/notness3/RecoService/internal/recommend"
)

// ParseUserKey converts an artifact key to a UserID.
//
// Only canonical base-10 forms are accepted, so "7" and "07" can never
// silently collapse onto the same user.
func ParseUserKey(key string) (recommend.UserID, error) {
	id, err := strconv.ParseInt(key, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("user key %q is not an integer", key)
	}
	if strconv.FormatInt(id, 10) != key {
		return 0, fmt.Errorf("user key %q is not in canonical form", key)
	}
	return id, nil
}

// normalizeKeys converts a string-keyed table into a UserID-keyed one.
func normalizeKeys(raw map[string][]recommend.ItemID) (map[recommend.UserID][]recommend.ItemID, error) {
	lists := make(map[recommend.UserID][]recommend.ItemID, len(raw))
	for key, items := range raw {
		id, err := ParseUserKey(key)
		if err != nil {
			return nil, err
		}
		lists[id] = items
	}
	return lists, nil
}

// unavailable wraps err as a source load failure for name.
func unavailable(name string, err error) error {
	return fmt.Errorf("load source %q: %w: %w", name, recommend.ErrSourceUnavailable, err)
}
