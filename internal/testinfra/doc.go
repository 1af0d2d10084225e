// RecoService - Recommendation Serving API
// Copyright 2026 notness3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/notness3/RecoService

// Package testinfra provides containers for integration tests.
//
// Everything here is behind the integration build tag:
//
//	go test -tags integration ./internal/recommend/sources/...
//
// Tests call SkipIfNoDocker first so machines without Docker skip instead
// of failing. The first run pulls images; later runs use the local cache.
package testinfra
