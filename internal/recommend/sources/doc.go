// RecoService - Recommendation Serving API
// Copyright 2026 notness3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/notness3/RecoService

// Package sources implements the recommend.Source variants and the loaders
// that build them from offline artifacts.
//
// # Variants
//
//   - MappingSource (kind "mapping" or "export"): a user -> ranked items table.
//     Any model exported to the flat format, whatever produced it, is served
//     by this type.
//   - SimilarityIndex (kind "similarity"): user neighbour lists plus user
//     histories; Lookup ranks the neighbours' items.
//
// # Artifact Formats
//
//   - json: {"<user>": [item, ...]} read with goccy/go-json
//   - msgpack: map of int or string user keys to item arrays
//   - badger: a badger directory with keys "<prefix><user>" and msgpack values
//   - redis: keys "<prefix><user>" holding JSON arrays, read at startup
//   - index: a storage.Store artifact holding a SimilarityIndexState
//
// All user keys are normalised to recommend.UserID when an artifact loads.
// A key that is not a canonical base-10 integer fails the load.
//
// Every load failure wraps recommend.ErrSourceUnavailable.
package sources
