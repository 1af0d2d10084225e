// RecoService - Recommendation Serving API
// Copyright 2026 notness3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/notness3/RecoService

// Package recommend resolves per-user recommendation lists from precomputed model sources.
//
// # Architecture
//
// A request names a model and a user. The engine resolves it in four steps:
//
//   - Registry: the model name selects one Source, bound once at startup
//   - Segmentation: the user is classified as known or cold against that Source
//   - Lookup: known users get the model's own list, cold users get popularity
//   - Assembly: the list is backfilled from popularity, deduplicated and truncated
//
// Every Source variant (precomputed mapping, similarity index, opaque export)
// satisfies the same two-method contract, so Resolve never branches on how
// a model was trained or stored. See the sources subpackage for the variants
// and their artifact loaders.
//
// The model named by Config.PopularModel ("top_frequent" by default) has no
// per-user Source and always resolves to the popularity list.
//
// # Usage
//
//	reg := recommend.NewRegistry()
//	_ = reg.Register("user_knn", index)
//	reg.Seal()
//
//	engine, err := recommend.NewEngine(cfg, reg, popularity, logger)
//	if err != nil {
//	    return err // ErrModelMisconfigured when an enabled model is not registered
//	}
//
//	items, err := engine.Recommend(ctx, "user_knn", 42)
//
// # Thread Safety
//
// Sources and the popularity list are immutable once the registry is sealed.
// Resolve holds no locks; the only shared writes are atomic counters and
// Prometheus collectors.
package recommend
