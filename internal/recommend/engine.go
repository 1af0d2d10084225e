// RecoService - Recommendation Serving API
// Copyright 2026 notness3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/notness3/RecoService

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Note: This package has no dependencies on other internal packages.
// Prometheus metrics are recorded by the API layer from Response fields.

// Engine resolves recommendation lists for (model, user) pairs.
// It is safe for concurrent use.
type Engine struct {
	config     *Config
	logger     zerolog.Logger
	registry   *Registry
	popularity *Popularity
	enabled    map[string]struct{}

	requestCount       atomic.Int64
	knownCount         atomic.Int64
	coldCount          atomic.Int64
	popularCount       atomic.Int64
	backfillCount      atomic.Int64
	rejectedCount      atomic.Int64
	misconfiguredCount atomic.Int64
}

// Response is the outcome of one resolution.
type Response struct {
	UserID UserID
	Model  string
	Items  []ItemID

	// Segment is the user's classification against the model's source.
	// Popularity-only models always report SegmentCold.
	Segment Segment

	// Backfilled is the number of items taken from popularity after the
	// model's own list.
	Backfilled int

	Latency time.Duration
}

// NewEngine creates a resolution engine over a fully loaded registry.
//
// The registry is sealed. Every enabled model other than the popular model
// must already be registered, otherwise ErrModelMisconfigured is returned.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, registry *Registry, popularity *Popularity, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if registry == nil {
		return nil, fmt.Errorf("nil registry")
	}
	if popularity == nil {
		popularity = NewPopularity(nil)
	}

	registry.Seal()

	e := &Engine{
		config:     cfg.Clone(),
		logger:     logger.With().Str("component", "recommend").Logger(),
		registry:   registry,
		popularity: popularity,
	}
	e.enabled = e.config.enabledSet()

	if err := e.ValidateModels(); err != nil {
		return nil, err
	}

	if popularity.Len() < e.config.KRecs {
		e.logger.Warn().
			Int("popularity_pool", popularity.Len()).
			Int("k_recs", e.config.KRecs).
			Msg("popularity pool is smaller than k_recs, cold responses will be short")
	}

	e.logger.Info().
		Strs("enabled_models", e.config.sortedModels()).
		Int("k_recs", e.config.KRecs).
		Int("popularity_pool", popularity.Len()).
		Msg("recommendation engine ready")

	return e, nil
}

// ValidateModels checks that every enabled model can be resolved.
func (e *Engine) ValidateModels() error {
	for _, name := range e.config.sortedModels() {
		if name == e.config.PopularModel {
			continue
		}
		if _, err := e.registry.Resolve(name); err != nil {
			return err
		}
	}

	for _, name := range e.registry.Names() {
		if _, ok := e.enabled[name]; !ok {
			e.logger.Warn().Str("model", name).Msg("source registered but model not enabled")
		}
	}
	return nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// Recommend resolves the configured k_recs items for user under model.
//
// It returns ErrUserOutOfRange for ids above the ceiling
// and ErrModelDisabled for models outside the enabled set.
func (e *Engine) Recommend(ctx context.Context, model string, user UserID) (*Response, error) {
	start := time.Now()
	e.requestCount.Add(1)

	if user > e.config.UserIDCeiling {
		e.rejectedCount.Add(1)
		return nil, fmt.Errorf("user %d: %w", user, ErrUserOutOfRange)
	}
	if !e.IsEnabled(model) {
		e.rejectedCount.Add(1)
		return nil, fmt.Errorf("model %q: %w", model, ErrModelDisabled)
	}

	resp, err := e.resolve(ctx, model, user, e.config.KRecs)
	if err != nil {
		return nil, err
	}
	resp.Latency = time.Since(start)
	return resp, nil
}

// Resolve returns up to k distinct items for user under model.
//
// Unlike Recommend it does not check the user ceiling or the enabled set;
// callers are expected to have done so.
func (e *Engine) Resolve(ctx context.Context, model string, user UserID, k int) ([]ItemID, error) {
	resp, err := e.resolve(ctx, model, user, k)
	if err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (e *Engine) resolve(ctx context.Context, model string, user UserID, k int) (*Response, error) {
	logger := e.requestLogger(ctx, model, user)

	resp := &Response{UserID: user, Model: model, Segment: SegmentCold}

	if model == e.config.PopularModel {
		e.popularCount.Add(1)
		resp.Items = Assemble(e.popularity.Top(k), k)
		logger.Debug().Int("returned", len(resp.Items)).Msg("served popularity model")
		return resp, nil
	}

	src, err := e.registry.Resolve(model)
	if err != nil {
		e.misconfiguredCount.Add(1)
		logger.Error().Err(err).Msg("enabled model has no source")
		return nil, err
	}

	resp.Segment = Classify(src, user)
	if resp.Segment == SegmentCold {
		e.coldCount.Add(1)
		resp.Items = Assemble(e.popularity.Top(k), k)
		logger.Debug().Int("returned", len(resp.Items)).Msg("cold user served from popularity")
		return resp, nil
	}

	e.knownCount.Add(1)
	own := Assemble(src.Lookup(user, k), k)
	resp.Items = own
	if len(own) < k {
		raw := make([]ItemID, 0, len(own)+k)
		raw = append(raw, own...)
		raw = append(raw, e.popularity.Top(k)...)
		resp.Items = Assemble(raw, k)
		resp.Backfilled = len(resp.Items) - len(own)
		if resp.Backfilled > 0 {
			e.backfillCount.Add(1)
		}
	}

	logger.Debug().
		Str("source", src.Kind()).
		Int("own", len(own)).
		Int("backfilled", resp.Backfilled).
		Msg("known user resolved")

	return resp, nil
}

// requestLogger prefers a logger carried by ctx so request ids propagate.
func (e *Engine) requestLogger(ctx context.Context, model string, user UserID) zerolog.Logger {
	base := e.logger
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		base = l.With().Str("component", "recommend").Logger()
	}
	return base.With().Str("model", model).Int64("user_id", user).Logger()
}

// IsEnabled reports whether model is in the enabled set.
func (e *Engine) IsEnabled(model string) bool {
	_, ok := e.enabled[model]
	return ok
}

// Models describes the enabled models in lexical order.
func (e *Engine) Models() []ModelInfo {
	names := e.config.sortedModels()
	infos := make([]ModelInfo, 0, len(names))
	for _, name := range names {
		if name == e.config.PopularModel {
			infos = append(infos, ModelInfo{Name: name, Kind: "popularity", Coverage: 0})
			continue
		}
		src, err := e.registry.Resolve(name)
		if err != nil {
			continue
		}
		infos = append(infos, ModelInfo{Name: name, Kind: src.Kind(), Coverage: src.Len()})
	}
	return infos
}

// GetMetrics returns a snapshot of the engine counters.
func (e *Engine) GetMetrics() Metrics {
	return Metrics{
		Requests:      e.requestCount.Load(),
		KnownUsers:    e.knownCount.Load(),
		ColdUsers:     e.coldCount.Load(),
		Popular:       e.popularCount.Load(),
		Backfilled:    e.backfillCount.Load(),
		Rejected:      e.rejectedCount.Load(),
		Misconfigured: e.misconfiguredCount.Load(),
	}
}

// IsRequestError reports whether err is a per-request error that callers
// should surface as "not found" rather than a server fault.
func IsRequestError(err error) bool {
	return errors.Is(err, ErrUserOutOfRange) || errors.Is(err, ErrModelDisabled)
}
