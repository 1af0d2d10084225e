// RecoService - Recommendation Serving API
// Copyright 2026 notness3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/notness3/RecoService

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Pruner drops per-key state idle for longer than the given duration.
// Satisfied by *auth.LoginLimiter.
type Pruner interface {
	Prune(idle time.Duration) int
	Len() int
}

// LimiterPruneService periodically evicts idle login limiters so the
// per-IP map does not grow without bound.
type LimiterPruneService struct {
	pruner   Pruner
	interval time.Duration
	idle     time.Duration
	logger   zerolog.Logger
	name     string
}

// NewLimiterPruneService creates the service. Non-positive durations fall
// back to a one minute interval and a one hour idle window.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewLimiterPruneService(pruner Pruner, interval, idle time.Duration, logger zerolog.Logger) *LimiterPruneService {
	if interval <= 0 {
		interval = time.Minute
	}
	if idle <= 0 {
		idle = time.Hour
	}
	return &LimiterPruneService{
		pruner:   pruner,
		interval: interval,
		idle:     idle,
		logger:   logger.With().Str("service", "limiter-prune").Logger(),
		name:     "limiter-prune",
	}
}

// Serve implements suture.Service.
func (s *LimiterPruneService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if removed := s.pruner.Prune(s.idle); removed > 0 {
				s.logger.Debug().
					Int("removed", removed).
					Int("remaining", s.pruner.Len()).
					Msg("pruned idle login limiters")
			}
		}
	}
}

func (s *LimiterPruneService) String() string {
	return s.name
}
