// RecoService - Recommendation Serving API
// Copyright 2026 notness3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/notness3/RecoService

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/notness3/RecoService/internal/recommend"
)

// StatsSource exposes the engine's running counters.
type StatsSource interface {
	GetMetrics() recommend.Metrics
}

// EngineStatsService logs a periodic summary of resolution counters.
// Intervals with no traffic are skipped.
type EngineStatsService struct {
	source   StatsSource
	interval time.Duration
	logger   zerolog.Logger
	name     string
	last     recommend.Metrics
}

// NewEngineStatsService creates the service. A non-positive interval
// falls back to five minutes.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngineStatsService(source StatsSource, interval time.Duration, logger zerolog.Logger) *EngineStatsService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &EngineStatsService{
		source:   source,
		interval: interval,
		logger:   logger.With().Str("service", "engine-stats").Logger(),
		name:     "engine-stats",
	}
}

// Serve implements suture.Service. The baseline snapshot is taken on every
// start, so a restart never reports counts from before it.
func (s *EngineStatsService) Serve(ctx context.Context) error {
	s.last = s.source.GetMetrics()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.report()
		}
	}
}

func (s *EngineStatsService) report() {
	cur := s.source.GetMetrics()
	prev := s.last
	s.last = cur

	if cur.Requests == prev.Requests {
		return
	}

	s.logger.Info().
		Dur("window", s.interval).
		Int64("requests", cur.Requests-prev.Requests).
		Int64("known_users", cur.KnownUsers-prev.KnownUsers).
		Int64("cold_users", cur.ColdUsers-prev.ColdUsers).
		Int64("popular", cur.Popular-prev.Popular).
		Int64("backfilled", cur.Backfilled-prev.Backfilled).
		Int64("rejected", cur.Rejected-prev.Rejected).
		Int64("misconfigured", cur.Misconfigured-prev.Misconfigured).
		Int64("requests_total", cur.Requests).
		Msg("recommendation stats")
}

func (s *EngineStatsService) String() string {
	return s.name
}
