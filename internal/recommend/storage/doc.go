// RecoService - Recommendation Serving API
// Copyright 2026 notness3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/notness3/RecoService

// Package storage persists offline-built recommendation artifacts.
//
// The serving process only reads from the store; artifacts are written by
// the indexer CLI. Each artifact is a gob-encoded state, gzip-compressed and
// guarded by a SHA-256 checksum of the uncompressed bytes.
//
// # Storage Format
//
//	filename: {artifact_name}_v{version}.gob.gz
//
//	structure:
//	  - Metadata (ArtifactMetadata)
//	  - CompressedData (gzip-compressed gob-encoded state)
//
// Files are written to a temporary name and renamed into place, so a reader
// never observes a half-written version.
//
// # Usage Example
//
//	store, err := storage.NewStore("/data/models")
//	if err != nil {
//	    return err
//	}
//
//	version := store.NextVersion("user_knn")
//	err = store.Save(ctx, "user_knn", version, state, storage.ArtifactMetadata{
//	    UserCount: len(state.Users),
//	})
//
//	var loaded storage.SimilarityIndexState
//	meta, err := store.Load(ctx, "user_knn", 0, &loaded) // 0 = latest version
//
// # Thread Safety
//
// Save and Prune take the write lock; Load and List share the read lock.
package storage
