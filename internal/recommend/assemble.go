// RecoService - Recommendation Serving API
// Copyright 2026 notness3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/notness3/RecoService

package recommend

// Assemble deduplicates raw by first occurrence and truncates it to k items.
// Earlier-ranked items win. The result is never nil.
func Assemble(raw []ItemID, k int) []ItemID {
	if k <= 0 {
		return []ItemID{}
	}

	capacity := len(raw)
	if capacity > k {
		capacity = k
	}
	result := make([]ItemID, 0, capacity)
	seen := make(map[ItemID]struct{}, capacity)

	for _, item := range raw {
		if len(result) == k {
			break
		}
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		result = append(result, item)
	}

	return result
}

// dedupe removes repeated items without truncating.
func dedupe(raw []ItemID) []ItemID {
	return Assemble(raw, len(raw))
}
