// RecoService - Recommendation Serving API
// Copyright 2026 notness3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/notness3/RecoService

package recommend

// ItemID identifies a recommendable item.
type ItemID = int64

// UserID identifies the user a recommendation list is built for.
type UserID = int64

// Source is a read-only, per-model lookup of precomputed recommendations.
//
// Implementations must be safe for concurrent reads and must not change
// after they are registered.
type Source interface {
	// Name returns the artifact name the source was loaded from.
	Name() string

	// Kind returns the variant label (mapping, similarity, export).
	Kind() string

	// IsKnown reports whether the source has a specific list for the user.
	IsKnown(user UserID) bool

	// Lookup returns up to n items for a known user in rank order.
	// Unknown users yield an empty list.
	Lookup(user UserID, n int) []ItemID

	// Len returns the number of users the source covers.
	Len() int
}

// Segment is the per-model classification of a user.
type Segment int

const (
	// SegmentCold means the source has no list for the user.
	SegmentCold Segment = iota
	// SegmentKnown means the source has a list for the user.
	SegmentKnown
)

// String returns the label used in logs and metrics.
func (s Segment) String() string {
	if s == SegmentKnown {
		return "known"
	}
	return "cold"
}

// ModelInfo describes one enabled model for the model listing endpoint.
type ModelInfo struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Coverage int    `json:"coverage"`
}

// Metrics is a point-in-time snapshot of engine counters.
type Metrics struct {
	Requests      int64 `json:"requests"`
	KnownUsers    int64 `json:"known_users"`
	ColdUsers     int64 `json:"cold_users"`
	Popular       int64 `json:"popular"`
	Backfilled    int64 `json:"backfilled"`
	Rejected      int64 `json:"rejected"`
	Misconfigured int64 `json:"misconfigured"`
}
