// RecoService - Recommendation Serving API
// Copyright 2026 notness3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/notness3/RecoService

package recommend

// Popularity is the global fallback list shared by every model.
// It is ranked once at construction and never changes.
type Popularity struct {
	items []ItemID
}

// NewPopularity creates a popularity provider from a ranked item list.
// Repeated items keep their first (best) rank.
func NewPopularity(ranked []ItemID) *Popularity {
	return &Popularity{items: dedupe(ranked)}
}

// Top returns the n most popular items.
// When n exceeds the pool, the whole pool is returned.
func (p *Popularity) Top(n int) []ItemID {
	if p == nil || n <= 0 {
		return []ItemID{}
	}
	if n > len(p.items) {
		n = len(p.items)
	}
	result := make([]ItemID, n)
	copy(result, p.items[:n])
	return result
}

// Len returns the size of the popularity pool.
func (p *Popularity) Len() int {
	if p == nil {
		return 0
	}
	return len(p.items)
}
