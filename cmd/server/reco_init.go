// RecoService - Recommendation Serving API
// Copyright 2026 notness3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/notness3/RecoService

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/notness3/RecoService/internal/config"
	"github.com/notness3/RecoService/internal/metrics"
	"github.com/notness3/RecoService/internal/recommend"
	"github.com/notness3/RecoService/internal/recommend/sources"
)

// initReco loads every configured source, the popularity list, and builds
// the engine. Any error aborts startup.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func initReco(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*recommend.Engine, error) {
	var redisLoader *sources.RedisLoader
	if cfg.Redis.Enabled() {
		client := redis.NewClient(&redis.Options{
			Addr:        cfg.Redis.Addr,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			DialTimeout: cfg.Redis.DialTimeout,
		})
		// Redis is only read during startup.
		defer func() {
			if err := client.Close(); err != nil {
				logger.Warn().Err(err).Msg("closing redis client")
			}
		}()

		redisLoader = sources.NewRedisLoader(client, sources.RedisLoaderConfig{
			BatchSize:              cfg.Redis.BatchSize,
			Retries:                cfg.Redis.Retries,
			RetryBackoff:           cfg.Redis.RetryBackoff,
			MaxConsecutiveFailures: cfg.Redis.MaxConsecutiveFailures,
			OnStateChange: func(name, from, to string) {
				metrics.RecordCircuitBreakerTransition(name, from, to)
				logger.Warn().Str("breaker", name).Str("from", from).Str("to", to).Msg("circuit breaker state change")
			},
		})
	}

	registry, err := loadSources(ctx, cfg.Reco.Sources, sources.NewLoader(redisLoader, logger))
	if err != nil {
		return nil, err
	}

	popularity, err := sources.LoadPopularity(cfg.Reco.PopularityPath)
	if err != nil {
		return nil, fmt.Errorf("load popularity: %w", err)
	}
	metrics.SetPopularityPoolSize(popularity.Len())

	return recommend.NewEngine(buildEngineConfig(cfg), registry, popularity, logger)
}

// loadSources loads all definitions concurrently and registers them in
// declaration order once every load succeeded.
func loadSources(ctx context.Context, defs []config.SourceConfig, loader *sources.Loader) (*recommend.Registry, error) {
	loaded := make([]recommend.Source, len(defs))

	g, gctx := errgroup.WithContext(ctx)
	for i, sc := range defs {
		def := sources.Definition{
			Name:     sc.Name,
			Kind:     sc.Kind,
			Format:   sc.Format,
			Path:     sc.Path,
			Prefix:   sc.Prefix,
			Artifact: sc.Artifact,
			Version:  sc.Version,
		}
		g.Go(func() error {
			start := time.Now()
			src, err := loader.Load(gctx, def)
			users := 0
			if src != nil {
				users = src.Len()
			}
			metrics.RecordSourceLoad(def.Name, def.Kind, def.Format, users, time.Since(start), err)
			if err != nil {
				return err
			}
			loaded[i] = src
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	registry := recommend.NewRegistry()
	for _, src := range loaded {
		if err := registry.Register(src.Name(), src); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func buildEngineConfig(cfg *config.Config) *recommend.Config {
	return &recommend.Config{
		AvailableModels: cfg.Reco.AvailableModels,
		KRecs:           cfg.Reco.KRecs,
		UserIDCeiling:   recommend.UserID(cfg.Reco.UserIDCeiling),
		PopularModel:    cfg.Reco.PopularModel,
	}
}
