// RecoService - Recommendation Serving API
// Copyright 2026 notness3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/notness3/RecoService

// Command indexer builds a user-similarity index artifact from an
// interactions CSV and writes it to a versioned model store.
//
//	indexer -interactions data.csv -store ./models -name user_knn -neighbors 50
//
// The CSV holds user_id,item_id[,weight] rows. Each run saves a new
// version of the artifact and prunes all but the newest -keep versions.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/notness3/RecoService/internal/logging"
	"github.com/notness3/RecoService/internal/recommend"
	"github.com/notness3/RecoService/internal/recommend/sources"
	"github.com/notness3/RecoService/internal/recommend/storage"
	"github.com/notness3/RecoService/internal/validation"
)

type options struct {
	interactions string
	storeDir     string
	name         string
	keep         int
	index        sources.IndexConfig
}

func main() {
	logging.Init(logging.Config{
		Level:  os.Getenv("LOG_LEVEL"),
		Format: "console",
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	meta, err := run(ctx, opts, logging.WithComponent("indexer"))
	if err != nil {
		logging.Fatal().Err(err).Msg("Index build failed")
	}
	logging.Info().
		Str("artifact", meta.Name).
		Int("version", meta.Version).
		Str("checksum", meta.Checksum).
		Int64("size_bytes", meta.SizeBytes).
		Msg("Index saved")
}

func parseFlags(args []string, output io.Writer) (*options, error) {
	defaults := sources.DefaultIndexConfig()
	opts := &options{}

	fs := flag.NewFlagSet("indexer", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&opts.interactions, "interactions", "", "interactions CSV (user_id,item_id[,weight])")
	fs.StringVar(&opts.storeDir, "store", "models", "model store directory")
	fs.StringVar(&opts.name, "name", "user_knn", "artifact name, usually the model name")
	fs.IntVar(&opts.keep, "keep", 3, "versions of the artifact to keep")
	fs.IntVar(&opts.index.Neighbors, "neighbors", defaults.Neighbors, "neighbours kept per user")
	fs.Float64Var(&opts.index.MinSimilarity, "min-similarity", defaults.MinSimilarity, "minimum cosine similarity")
	fs.IntVar(&opts.index.MinCommonItems, "min-common", defaults.MinCommonItems, "minimum shared items per pair")
	fs.Float64Var(&opts.index.Shrinkage, "shrinkage", defaults.Shrinkage, "similarity shrinkage term")
	fs.IntVar(&opts.index.NumWorkers, "workers", defaults.NumWorkers, "parallel workers")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if opts.interactions == "" {
		fmt.Fprintln(output, "-interactions is required")
		fs.Usage()
		return nil, errors.New("missing -interactions")
	}
	if !validation.IsModelName(opts.name) {
		fmt.Fprintf(output, "invalid -name %q\n", opts.name)
		return nil, fmt.Errorf("invalid artifact name %q", opts.name)
	}
	if err := opts.index.Validate(); err != nil {
		fmt.Fprintln(output, err)
		return nil, err
	}
	return opts, nil
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func run(ctx context.Context, opts *options, logger zerolog.Logger) (*storage.ArtifactMetadata, error) {
	f, err := os.Open(opts.interactions)
	if err != nil {
		return nil, err
	}
	interactions, err := sources.ReadInteractionsCSV(f)
	_ = f.Close()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", opts.interactions, err)
	}

	items := make(map[recommend.ItemID]struct{})
	for _, in := range interactions {
		items[in.Item] = struct{}{}
	}

	logger.Info().
		Int("interactions", len(interactions)).
		Int("items", len(items)).
		Int("neighbors", opts.index.Neighbors).
		Int("workers", opts.index.NumWorkers).
		Msg("building similarity index")

	start := time.Now()
	idx, err := sources.BuildSimilarityIndex(ctx, opts.name, interactions, opts.index)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	store, err := storage.NewStore(opts.storeDir)
	if err != nil {
		return nil, err
	}

	version := store.NextVersion(opts.name)
	err = store.Save(ctx, opts.name, version, idx.State(), storage.ArtifactMetadata{
		BuiltAt:          start.UTC(),
		InteractionCount: len(interactions),
		ItemCount:        len(items),
		UserCount:        idx.Len(),
		BuildDurationMS:  elapsed.Milliseconds(),
	})
	if err != nil {
		return nil, fmt.Errorf("save %s v%d: %w", opts.name, version, err)
	}

	if err := store.Prune(ctx, opts.name, opts.keep); err != nil {
		logger.Warn().Err(err).Msg("pruning old versions failed")
	}

	_, meta, err := sources.LoadSimilarityIndex(ctx, store, opts.name, version)
	if err != nil {
		return nil, fmt.Errorf("verify %s v%d: %w", opts.name, version, err)
	}
	logger.Info().Int("users", idx.Len()).Dur("build", elapsed).Msg("similarity index verified")
	return meta, nil
}
