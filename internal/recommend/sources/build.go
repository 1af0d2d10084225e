// RecoService - Recommendation Serving API
// Copyright 2026 notness3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/notness3/RecoService

package sources

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/notness3/RecoService/internal/recommend"
)

// Interaction is one user-item event used to build a similarity index.
type Interaction struct {
	User   recommend.UserID
	Item   recommend.ItemID
	Weight float64
}

// IndexConfig contains the parameters of BuildSimilarityIndex.
type IndexConfig struct {
	// Neighbors is the number of neighbours kept per user.
	Neighbors int

	// MinSimilarity drops neighbours below this cosine similarity.
	MinSimilarity float64

	// MinCommonItems is the minimum overlap for a pair to be compared.
	MinCommonItems int

	// Shrinkage penalises pairs with little overlap:
	// sim = raw_sim * n / (n + shrinkage).
	Shrinkage float64

	// NumWorkers bounds neighbour computation parallelism.
	NumWorkers int
}

// DefaultIndexConfig returns the indexer defaults.
func DefaultIndexConfig() IndexConfig {
	return IndexConfig{
		Neighbors:      50,
		MinSimilarity:  0,
		MinCommonItems: 1,
		Shrinkage:      0,
		NumWorkers:     runtime.NumCPU(),
	}
}

// Validate checks the configuration for invalid values.
func (c IndexConfig) Validate() error {
	if c.Neighbors <= 0 {
		return fmt.Errorf("neighbors must be positive, got %d", c.Neighbors)
	}
	if c.MinCommonItems < 1 {
		return fmt.Errorf("min_common_items must be at least 1, got %d", c.MinCommonItems)
	}
	if c.Shrinkage < 0 {
		return fmt.Errorf("shrinkage must be non-negative, got %f", c.Shrinkage)
	}
	return nil
}

// userVector is a sparse interaction vector sorted by item id.
type userVector struct {
	items   []recommend.ItemID
	weights []float64
	norm    float64
}

// BuildSimilarityIndex computes a user-based cosine similarity index.
//
// Repeated (user, item) events keep the largest weight. Every user that
// appears in interactions is part of the index registry, even when no
// neighbour clears MinSimilarity.
func BuildSimilarityIndex(ctx context.Context, name string, interactions []Interaction, cfg IndexConfig) (*SimilarityIndex, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid index config: %w", err)
	}
	if len(interactions) == 0 {
		return nil, errors.New("no interactions")
	}
	if cfg.NumWorkers < 1 {
		cfg.NumWorkers = 1
	}

	vectors, itemUsers := buildVectors(interactions)

	users := make([]recommend.UserID, 0, len(vectors))
	for user := range vectors {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i] < users[j] })

	neighbors := make(map[recommend.UserID][]Neighbor, len(users))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.NumWorkers)
	for _, user := range users {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			list := userNeighbors(user, vectors, itemUsers, cfg)
			mu.Lock()
			neighbors[user] = list
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	history := make(map[recommend.UserID][]WeightedItem, len(vectors))
	for user, vec := range vectors {
		items := make([]WeightedItem, len(vec.items))
		for i := range vec.items {
			items[i] = WeightedItem{Item: vec.items[i], Weight: vec.weights[i]}
		}
		history[user] = items
	}

	return NewSimilarityIndex(name, neighbors, history), nil
}

func buildVectors(interactions []Interaction) (map[recommend.UserID]*userVector, map[recommend.ItemID][]recommend.UserID) {
	raw := make(map[recommend.UserID]map[recommend.ItemID]float64)
	for _, in := range interactions {
		if raw[in.User] == nil {
			raw[in.User] = make(map[recommend.ItemID]float64)
		}
		if w, ok := raw[in.User][in.Item]; !ok || in.Weight > w {
			raw[in.User][in.Item] = in.Weight
		}
	}

	vectors := make(map[recommend.UserID]*userVector, len(raw))
	itemUsers := make(map[recommend.ItemID][]recommend.UserID)
	for user, itemMap := range raw {
		vec := &userVector{
			items:   make([]recommend.ItemID, 0, len(itemMap)),
			weights: make([]float64, 0, len(itemMap)),
		}
		for item := range itemMap {
			vec.items = append(vec.items, item)
		}
		sort.Slice(vec.items, func(i, j int) bool { return vec.items[i] < vec.items[j] })
		for _, item := range vec.items {
			vec.weights = append(vec.weights, itemMap[item])
			itemUsers[item] = append(itemUsers[item], user)
		}
		vec.norm = floats.Norm(vec.weights, 2)
		vectors[user] = vec
	}
	return vectors, itemUsers
}

// userNeighbors ranks the users sharing at least one item with user.
func userNeighbors(user recommend.UserID, vectors map[recommend.UserID]*userVector, itemUsers map[recommend.ItemID][]recommend.UserID, cfg IndexConfig) []Neighbor {
	vec := vectors[user]

	candidates := make(map[recommend.UserID]struct{})
	for _, item := range vec.items {
		for _, other := range itemUsers[item] {
			if other != user {
				candidates[other] = struct{}{}
			}
		}
	}

	list := make([]Neighbor, 0, len(candidates))
	for other := range candidates {
		sim, common := cosine(vec, vectors[other])
		if common < cfg.MinCommonItems {
			continue
		}
		if cfg.Shrinkage > 0 {
			sim = sim * float64(common) / (float64(common) + cfg.Shrinkage)
		}
		if sim <= 0 || sim < cfg.MinSimilarity {
			continue
		}
		list = append(list, Neighbor{User: other, Similarity: sim})
	}

	sort.Slice(list, func(i, j int) bool {
		if list[i].Similarity != list[j].Similarity {
			return list[i].Similarity > list[j].Similarity
		}
		return list[i].User < list[j].User
	})
	if len(list) > cfg.Neighbors {
		list = list[:cfg.Neighbors]
	}
	return list
}

// cosine returns the cosine similarity of a and b and their overlap size.
func cosine(a, b *userVector) (float64, int) {
	if a.norm == 0 || b.norm == 0 {
		return 0, 0
	}

	var wa, wb []float64
	i, j := 0, 0
	for i < len(a.items) && j < len(b.items) {
		switch {
		case a.items[i] == b.items[j]:
			wa = append(wa, a.weights[i])
			wb = append(wb, b.weights[j])
			i++
			j++
		case a.items[i] < b.items[j]:
			i++
		default:
			j++
		}
	}
	if len(wa) == 0 {
		return 0, 0
	}
	return floats.Dot(wa, wb) / (a.norm * b.norm), len(wa)
}

// ReadInteractionsCSV parses "user_id,item_id[,weight]" rows.
// A header row is skipped when its first field is not numeric.
// Missing weights default to 1.
func ReadInteractionsCSV(r io.Reader) ([]Interaction, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var out []Interaction
	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read interactions: %w", err)
		}
		if len(record) < 2 {
			return nil, fmt.Errorf("line %d: expected at least 2 fields, got %d", line, len(record))
		}

		user, err := strconv.ParseInt(strings.TrimSpace(record[0]), 10, 64)
		if err != nil {
			if line == 1 {
				continue
			}
			return nil, fmt.Errorf("line %d: invalid user_id %q", line, record[0])
		}
		item, err := strconv.ParseInt(strings.TrimSpace(record[1]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid item_id %q", line, record[1])
		}

		weight := 1.0
		if len(record) > 2 && strings.TrimSpace(record[2]) != "" {
			weight, err = strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid weight %q", line, record[2])
			}
		}

		out = append(out, Interaction{User: user, Item: item, Weight: weight})
	}
	return out, nil
}
