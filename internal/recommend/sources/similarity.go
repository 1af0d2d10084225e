// RecoService - Recommendation Serving API
// Copyright 2026 notness3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/notness3/RecoService

package sources

import (
	"context"
	"fmt"
	"sort"

	"github.com/notness3/RecoService/internal/recommend"
	"github.com/notness3/RecoService/internal/recommend/storage"
)

// Neighbor is a similar user with its similarity score.
type Neighbor struct {
	User       recommend.UserID
	Similarity float64
}

// WeightedItem is one interaction in a user history.
type WeightedItem struct {
	Item   recommend.ItemID
	Weight float64
}

// SimilarityIndex is a user-based nearest-neighbour index.
//
// For a user u and candidate item i not already in u's history:
//
//	score(u, i) = sum_{v in N(u)} sim(u, v) * w(v, i)
//
// Items are ranked by score, then by ascending item id.
type SimilarityIndex struct {
	name      string
	users     map[recommend.UserID]struct{}
	neighbors map[recommend.UserID][]Neighbor
	history   map[recommend.UserID][]WeightedItem
}

// NewSimilarityIndex builds an index from neighbour lists and histories.
// The user registry is the union of users appearing in either map.
func NewSimilarityIndex(name string, neighbors map[recommend.UserID][]Neighbor, history map[recommend.UserID][]WeightedItem) *SimilarityIndex {
	idx := &SimilarityIndex{
		name:      name,
		users:     make(map[recommend.UserID]struct{}, len(history)),
		neighbors: make(map[recommend.UserID][]Neighbor, len(neighbors)),
		history:   make(map[recommend.UserID][]WeightedItem, len(history)),
	}
	for user, list := range neighbors {
		idx.users[user] = struct{}{}
		idx.neighbors[user] = append([]Neighbor(nil), list...)
	}
	for user, items := range history {
		idx.users[user] = struct{}{}
		idx.history[user] = append([]WeightedItem(nil), items...)
	}
	return idx
}

// Name implements recommend.Source.
func (s *SimilarityIndex) Name() string { return s.name }

// Kind implements recommend.Source.
func (s *SimilarityIndex) Kind() string { return KindSimilarity }

// Len implements recommend.Source.
func (s *SimilarityIndex) Len() int { return len(s.users) }

// IsKnown implements recommend.Source.
func (s *SimilarityIndex) IsKnown(user recommend.UserID) bool {
	_, ok := s.users[user]
	return ok
}

// Lookup implements recommend.Source. Scores are dropped from the result.
func (s *SimilarityIndex) Lookup(user recommend.UserID, n int) []recommend.ItemID {
	neighbors := s.neighbors[user]
	if n <= 0 || len(neighbors) == 0 {
		return []recommend.ItemID{}
	}

	seen := make(map[recommend.ItemID]struct{}, len(s.history[user]))
	for _, wi := range s.history[user] {
		seen[wi.Item] = struct{}{}
	}

	scores := make(map[recommend.ItemID]float64)
	for _, nb := range neighbors {
		for _, wi := range s.history[nb.User] {
			if _, ok := seen[wi.Item]; ok {
				continue
			}
			scores[wi.Item] += nb.Similarity * wi.Weight
		}
	}

	ranked := make([]recommend.ItemID, 0, len(scores))
	for item := range scores {
		ranked = append(ranked, item)
	}
	sort.Slice(ranked, func(i, j int) bool {
		si, sj := scores[ranked[i]], scores[ranked[j]]
		if si != sj {
			return si > sj
		}
		return ranked[i] < ranked[j]
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// State converts the index to its persisted form.
func (s *SimilarityIndex) State() storage.SimilarityIndexState {
	state := storage.SimilarityIndexState{
		Users:     make([]int64, 0, len(s.users)),
		Neighbors: make(map[int64][]storage.NeighborState, len(s.neighbors)),
		History:   make(map[int64][]storage.WeightedItemState, len(s.history)),
	}
	for user := range s.users {
		state.Users = append(state.Users, user)
	}
	sort.Slice(state.Users, func(i, j int) bool { return state.Users[i] < state.Users[j] })

	for user, list := range s.neighbors {
		out := make([]storage.NeighborState, len(list))
		for i, nb := range list {
			out[i] = storage.NeighborState{User: nb.User, Similarity: nb.Similarity}
		}
		state.Neighbors[user] = out
	}
	for user, items := range s.history {
		out := make([]storage.WeightedItemState, len(items))
		for i, wi := range items {
			out[i] = storage.WeightedItemState{Item: wi.Item, Weight: wi.Weight}
		}
		state.History[user] = out
	}
	return state
}

// SimilarityIndexFromState rebuilds an index from its persisted form.
//
//nolint:gocritic // state passed by value mirrors storage.Load targets
func SimilarityIndexFromState(name string, state storage.SimilarityIndexState) *SimilarityIndex {
	neighbors := make(map[recommend.UserID][]Neighbor, len(state.Neighbors))
	for user, list := range state.Neighbors {
		out := make([]Neighbor, len(list))
		for i, nb := range list {
			out[i] = Neighbor{User: nb.User, Similarity: nb.Similarity}
		}
		neighbors[user] = out
	}
	history := make(map[recommend.UserID][]WeightedItem, len(state.History))
	for user, items := range state.History {
		out := make([]WeightedItem, len(items))
		for i, wi := range items {
			out[i] = WeightedItem{Item: wi.Item, Weight: wi.Weight}
		}
		history[user] = out
	}

	idx := NewSimilarityIndex(name, neighbors, history)
	for _, user := range state.Users {
		idx.users[user] = struct{}{}
	}
	return idx
}

// LoadSimilarityIndex reads an index artifact from store. Version 0 loads the latest.
func LoadSimilarityIndex(ctx context.Context, store *storage.Store, artifact string, version int) (*SimilarityIndex, *storage.ArtifactMetadata, error) {
	var state storage.SimilarityIndexState
	meta, err := store.Load(ctx, artifact, version, &state)
	if err != nil {
		return nil, nil, unavailable(artifact, err)
	}
	if len(state.Users) == 0 {
		return nil, nil, unavailable(artifact, fmt.Errorf("index has no users"))
	}
	return SimilarityIndexFromState(artifact, state), meta, nil
}
