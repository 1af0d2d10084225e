// RecoService - Recommendation Serving API
// Copyright 2026 notness3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/notness3/RecoService

/*
Package services provides suture.Service wrappers for the recommendation
service's long-running components.

  - HTTPServerService runs *http.Server and shuts it down gracefully when
    its context is canceled.
  - LimiterPruneService evicts idle per-IP login limiters on a ticker.
  - EngineStatsService logs per-interval deltas of the engine counters.

Each wrapper takes its dependency through a small interface so tests can
substitute fakes.
*/
package services
