// RecoService - Recommendation Serving API
// Copyright 2026 notness3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/notness3/RecoService

package sources

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/notness3/RecoService/internal/recommend"
	"github.com/notness3/RecoService/internal/recommend/storage"
)

// Artifact formats.
const (
	FormatJSON    = "json"
	FormatMsgpack = "msgpack"
	FormatBadger  = "badger"
	FormatRedis   = "redis"
	FormatIndex   = "index"
)

// Definition names one model source and where its artifact lives.
type Definition struct {
	// Name is the model name the source is registered under.
	Name string

	// Kind is the variant label: mapping, export or similarity.
	Kind string

	// Format selects the loader.
	Format string

	// Path is a file (json, msgpack), a directory (badger) or a store
	// directory (index). Unused for redis.
	Path string

	// Prefix is the key prefix for badger and redis artifacts.
	Prefix string

	// Artifact is the store artifact name for index sources.
	// Defaults to Name.
	Artifact string

	// Version pins an index artifact version. Zero loads the latest.
	Version int
}

// Validate checks that kind and format are compatible.
//
//nolint:gocritic // Definition is small and passed by value like the config it comes from
func (d Definition) Validate() error {
	if d.Name == "" {
		return errors.New("source name is required")
	}
	switch d.Kind {
	case KindMapping, KindExport:
		switch d.Format {
		case FormatJSON, FormatMsgpack, FormatBadger, FormatRedis:
		default:
			return fmt.Errorf("source %q: format %q cannot back kind %q", d.Name, d.Format, d.Kind)
		}
	case KindSimilarity:
		if d.Format != FormatIndex {
			return fmt.Errorf("source %q: kind similarity requires format index, got %q", d.Name, d.Format)
		}
	default:
		return fmt.Errorf("source %q: unknown kind %q", d.Name, d.Kind)
	}
	if d.Format != FormatRedis && d.Path == "" {
		return fmt.Errorf("source %q: path is required for format %q", d.Name, d.Format)
	}
	return nil
}

// Loader builds sources from definitions.
// It is safe for concurrent use, so definitions can load in parallel.
type Loader struct {
	redis  *RedisLoader
	logger zerolog.Logger

	mu     sync.Mutex
	stores map[string]*storage.Store
}

// NewLoader creates a loader. redis may be nil when no definition uses it.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewLoader(redis *RedisLoader, logger zerolog.Logger) *Loader {
	return &Loader{
		redis:  redis,
		logger: logger.With().Str("component", "sources").Logger(),
		stores: make(map[string]*storage.Store),
	}
}

// Load builds the source described by def.
// Every failure wraps recommend.ErrSourceUnavailable.
//
//nolint:gocritic // Definition is small and passed by value like the config it comes from
func (l *Loader) Load(ctx context.Context, def Definition) (recommend.Source, error) {
	if err := def.Validate(); err != nil {
		return nil, unavailable(def.Name, err)
	}

	start := time.Now()
	src, err := l.load(ctx, def)
	if err != nil {
		return nil, err
	}

	l.logger.Info().
		Str("model", def.Name).
		Str("kind", src.Kind()).
		Str("format", def.Format).
		Int("users", src.Len()).
		Dur("duration", time.Since(start)).
		Msg("loaded model source")
	return src, nil
}

//nolint:gocritic // Definition is small and passed by value like the config it comes from
func (l *Loader) load(ctx context.Context, def Definition) (recommend.Source, error) {
	switch def.Format {
	case FormatJSON:
		return LoadJSONMapping(def.Path, def.Name, def.Kind)
	case FormatMsgpack:
		return LoadMsgpackMapping(def.Path, def.Name, def.Kind)
	case FormatBadger:
		src, err := LoadBadgerExport(def.Path, def.Prefix, def.Name)
		if err != nil {
			return nil, err
		}
		src.kind = def.Kind
		return src, nil
	case FormatRedis:
		if l.redis == nil {
			return nil, unavailable(def.Name, errors.New("redis is not configured"))
		}
		src, err := l.redis.Load(ctx, def.Name, def.Prefix)
		if err != nil {
			return nil, err
		}
		src.kind = def.Kind
		return src, nil
	case FormatIndex:
		store, err := l.store(def.Path)
		if err != nil {
			return nil, unavailable(def.Name, err)
		}
		artifact := def.Artifact
		if artifact == "" {
			artifact = def.Name
		}
		idx, meta, err := LoadSimilarityIndex(ctx, store, artifact, def.Version)
		if err != nil {
			return nil, err
		}
		idx.name = def.Name
		l.logger.Debug().
			Str("model", def.Name).
			Str("artifact", artifact).
			Int("version", meta.Version).
			Str("checksum", meta.Checksum).
			Msg("similarity index artifact verified")
		return idx, nil
	default:
		return nil, unavailable(def.Name, fmt.Errorf("unknown format %q", def.Format))
	}
}

// store opens each store directory once.
func (l *Loader) store(dir string) (*storage.Store, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if s, ok := l.stores[dir]; ok {
		return s, nil
	}
	s, err := storage.OpenStore(dir)
	if err != nil {
		return nil, err
	}
	l.stores[dir] = s
	return s, nil
}
