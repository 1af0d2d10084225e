// RecoService - Recommendation Serving API
// Copyright 2026 notness3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/notness3/RecoService

package sources

import (
	"github.com/notness3/RecoService/internal/recommend"
)

// Source kinds.
const (
	KindMapping    = "mapping"
	KindSimilarity = "similarity"
	KindExport     = "export"
)

// MappingSource serves precomputed per-user lists from an in-memory table.
// It is immutable after construction.
type MappingSource struct {
	name  string
	kind  string
	lists map[recommend.UserID][]recommend.ItemID
}

// NewMappingSource builds a source from a user-keyed table.
// Each list is copied and deduplicated. kind defaults to KindMapping.
func NewMappingSource(name, kind string, lists map[recommend.UserID][]recommend.ItemID) *MappingSource {
	if kind == "" {
		kind = KindMapping
	}
	owned := make(map[recommend.UserID][]recommend.ItemID, len(lists))
	for user, items := range lists {
		owned[user] = recommend.Assemble(items, len(items))
	}
	return &MappingSource{name: name, kind: kind, lists: owned}
}

// NewExportSource builds an opaque-export source. It behaves exactly like a
// mapping source and differs only in its reported kind.
func NewExportSource(name string, lists map[recommend.UserID][]recommend.ItemID) *MappingSource {
	return NewMappingSource(name, KindExport, lists)
}

// Name implements recommend.Source.
func (m *MappingSource) Name() string { return m.name }

// Kind implements recommend.Source.
func (m *MappingSource) Kind() string { return m.kind }

// Len implements recommend.Source.
func (m *MappingSource) Len() int { return len(m.lists) }

// IsKnown implements recommend.Source.
func (m *MappingSource) IsKnown(user recommend.UserID) bool {
	_, ok := m.lists[user]
	return ok
}

// Lookup implements recommend.Source.
func (m *MappingSource) Lookup(user recommend.UserID, n int) []recommend.ItemID {
	list := m.lists[user]
	if n <= 0 || len(list) == 0 {
		return []recommend.ItemID{}
	}
	if n > len(list) {
		n = len(list)
	}
	result := make([]recommend.ItemID, n)
	copy(result, list[:n])
	return result
}
