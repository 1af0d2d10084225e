// RecoService - Recommendation Serving API
// Copyright 2026 notness3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/notness3/RecoService

package sources

import (
	"context"
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/notness3/RecoService/internal/recommend"
	"github.com/notness3/RecoService/internal/recommend/storage"
)

func testInteractions() []Interaction {
	return []Interaction{
		// Users 1 and 2 overlap on items 10 and 20.
		{User: 1, Item: 10, Weight: 1},
		{User: 1, Item: 20, Weight: 1},
		{User: 2, Item: 10, Weight: 1},
		{User: 2, Item: 20, Weight: 1},
		{User: 2, Item: 30, Weight: 1},
		// User 3 overlaps with user 1 on item 10 only.
		{User: 3, Item: 10, Weight: 1},
		{User: 3, Item: 40, Weight: 1},
		{User: 3, Item: 50, Weight: 1},
		// User 4 shares nothing with anyone.
		{User: 4, Item: 99, Weight: 1},
	}
}

func TestSimilarityIndex_Lookup(t *testing.T) {
	idx := NewSimilarityIndex("user_knn",
		map[recommend.UserID][]Neighbor{
			1: {{User: 2, Similarity: 0.9}, {User: 3, Similarity: 0.5}},
		},
		map[recommend.UserID][]WeightedItem{
			1: {{Item: 10, Weight: 1}},
			2: {{Item: 10, Weight: 1}, {Item: 20, Weight: 1}, {Item: 30, Weight: 1}},
			3: {{Item: 30, Weight: 1}, {Item: 5, Weight: 1}, {Item: 4, Weight: 1}},
		},
	)

	// 30: 0.9 + 0.5, 20: 0.9, 4 and 5: 0.5 (tie broken by id). 10 is already seen.
	want := []recommend.ItemID{30, 20, 4, 5}
	if got := idx.Lookup(1, 10); !reflect.DeepEqual(got, want) {
		t.Errorf("Lookup(1, 10) = %v, want %v", got, want)
	}
	if got := idx.Lookup(1, 2); !reflect.DeepEqual(got, want[:2]) {
		t.Errorf("Lookup(1, 2) = %v, want %v", got, want[:2])
	}

	// User 3 is in the registry through its history but has no neighbours.
	if !idx.IsKnown(3) {
		t.Error("IsKnown(3) = false, want true")
	}
	if got := idx.Lookup(3, 5); len(got) != 0 {
		t.Errorf("Lookup(3) = %v, want empty", got)
	}
	if idx.IsKnown(42) {
		t.Error("IsKnown(42) = true, want false")
	}
	if idx.Len() != 3 || idx.Kind() != KindSimilarity {
		t.Errorf("Len() = %d, Kind() = %s", idx.Len(), idx.Kind())
	}
}

func TestBuildSimilarityIndex(t *testing.T) {
	cfg := DefaultIndexConfig()
	cfg.NumWorkers = 2

	idx, err := BuildSimilarityIndex(context.Background(), "user_knn", testInteractions(), cfg)
	if err != nil {
		t.Fatalf("BuildSimilarityIndex() error = %v", err)
	}

	for _, user := range []recommend.UserID{1, 2, 3, 4} {
		if !idx.IsKnown(user) {
			t.Errorf("IsKnown(%d) = false", user)
		}
	}

	nbs := idx.neighbors[1]
	if len(nbs) != 2 || nbs[0].User != 2 || nbs[1].User != 3 {
		t.Fatalf("neighbors[1] = %+v", nbs)
	}
	// cos(u1, u2) = 2 / (sqrt(2) * sqrt(3))
	if want := 2 / (math.Sqrt2 * math.Sqrt(3)); math.Abs(nbs[0].Similarity-want) > 1e-9 {
		t.Errorf("sim(1, 2) = %f, want %f", nbs[0].Similarity, want)
	}

	// User 1 gets 30 (from user 2, higher similarity) ahead of 40 and 50.
	if got := idx.Lookup(1, 3); !reflect.DeepEqual(got, []recommend.ItemID{30, 40, 50}) {
		t.Errorf("Lookup(1, 3) = %v", got)
	}
	if got := idx.Lookup(4, 3); len(got) != 0 {
		t.Errorf("Lookup(4) = %v, want empty", got)
	}
}

func TestBuildSimilarityIndex_Options(t *testing.T) {
	cfg := DefaultIndexConfig()
	cfg.Neighbors = 1
	cfg.MinCommonItems = 2

	idx, err := BuildSimilarityIndex(context.Background(), "user_knn", testInteractions(), cfg)
	if err != nil {
		t.Fatalf("BuildSimilarityIndex() error = %v", err)
	}
	if nbs := idx.neighbors[1]; len(nbs) != 1 || nbs[0].User != 2 {
		t.Errorf("neighbors[1] = %+v, want only user 2", nbs)
	}
	if nbs := idx.neighbors[3]; len(nbs) != 0 {
		t.Errorf("neighbors[3] = %+v, want none with overlap < 2", nbs)
	}

	if _, err := BuildSimilarityIndex(context.Background(), "x", nil, DefaultIndexConfig()); err == nil {
		t.Error("BuildSimilarityIndex(no interactions) expected error")
	}

	bad := DefaultIndexConfig()
	bad.Neighbors = 0
	if _, err := BuildSimilarityIndex(context.Background(), "x", testInteractions(), bad); err == nil {
		t.Error("BuildSimilarityIndex(neighbors=0) expected error")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := BuildSimilarityIndex(ctx, "x", testInteractions(), DefaultIndexConfig()); !errors.Is(err, context.Canceled) {
		t.Errorf("BuildSimilarityIndex(canceled) error = %v", err)
	}
}

func TestSimilarityIndex_StoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := storage.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	idx, err := BuildSimilarityIndex(ctx, "user_knn", testInteractions(), DefaultIndexConfig())
	if err != nil {
		t.Fatalf("BuildSimilarityIndex() error = %v", err)
	}
	if err := store.Save(ctx, "user_knn", 1, idx.State(), storage.ArtifactMetadata{}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, meta, err := LoadSimilarityIndex(ctx, store, "user_knn", 0)
	if err != nil {
		t.Fatalf("LoadSimilarityIndex() error = %v", err)
	}
	if meta.Version != 1 {
		t.Errorf("meta.Version = %d", meta.Version)
	}
	for _, user := range []recommend.UserID{1, 2, 3, 4, 5} {
		if loaded.IsKnown(user) != idx.IsKnown(user) {
			t.Errorf("IsKnown(%d) differs after round trip", user)
		}
		if !reflect.DeepEqual(loaded.Lookup(user, 10), idx.Lookup(user, 10)) {
			t.Errorf("Lookup(%d) = %v, want %v", user, loaded.Lookup(user, 10), idx.Lookup(user, 10))
		}
	}

	if _, _, err := LoadSimilarityIndex(ctx, store, "absent", 0); !errors.Is(err, recommend.ErrSourceUnavailable) {
		t.Errorf("LoadSimilarityIndex(absent) error = %v", err)
	}
}

func TestReadInteractionsCSV(t *testing.T) {
	input := "user_id,item_id,weight\n1,10,2.5\n1,20\n2, 10 ,\n"

	got, err := ReadInteractionsCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadInteractionsCSV() error = %v", err)
	}
	want := []Interaction{
		{User: 1, Item: 10, Weight: 2.5},
		{User: 1, Item: 20, Weight: 1},
		{User: 2, Item: 10, Weight: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ReadInteractionsCSV() = %+v, want %+v", got, want)
	}

	for _, bad := range []string{"1\n", "1,x\n", "1,2,w\n", "1,2\nx,3\n"} {
		if _, err := ReadInteractionsCSV(strings.NewReader(bad)); err == nil {
			t.Errorf("ReadInteractionsCSV(%q) expected error", bad)
		}
	}
}
