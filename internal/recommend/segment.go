// RecoService - Recommendation Serving API
// Copyright 2026 notness3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/notness3/RecoService

package recommend

// Classify reports whether src holds a specific list for user.
func Classify(src Source, user UserID) Segment {
	if src != nil && src.IsKnown(user) {
		return SegmentKnown
	}
	return SegmentCold
}
