// RecoService - Recommendation Serving API
// Copyright 2026 notness3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/notness3/RecoService

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/notness3/RecoService/internal/recommend/sources"
	"github.com/notness3/RecoService/internal/recommend/storage"
)

const interactionsCSV = `user_id,item_id,weight
1,10,1
1,11,1
1,12,1
2,10,1
2,11,1
2,13,1
3,20,1
3,21,1
`

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"minimal", []string{"-interactions", "x.csv"}, false},
		{"all flags", []string{"-interactions", "x.csv", "-store", "m", "-name", "ease_v2", "-neighbors", "10", "-min-similarity", "0.1", "-min-common", "2", "-shrinkage", "5", "-workers", "2", "-keep", "1"}, false},
		{"missing interactions", []string{}, true},
		{"bad name", []string{"-interactions", "x.csv", "-name", "../etc"}, true},
		{"zero neighbors", []string{"-interactions", "x.csv", "-neighbors", "0"}, true},
		{"unknown flag", []string{"-interactions", "x.csv", "-nope"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			_, err := parseFlags(tt.args, &out)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseFlags(%v) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			}
		})
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "interactions.csv")
	if err := os.WriteFile(csvPath, []byte(interactionsCSV), 0o600); err != nil {
		t.Fatal(err)
	}
	storeDir := filepath.Join(dir, "models")

	var stderr bytes.Buffer
	opts, err := parseFlags([]string{
		"-interactions", csvPath,
		"-store", storeDir,
		"-name", "user_knn",
		"-keep", "1",
		"-workers", "2",
	}, &stderr)
	if err != nil {
		t.Fatalf("parseFlags: %v (%s)", err, stderr.String())
	}

	ctx := context.Background()
	meta, err := run(ctx, opts, zerolog.Nop())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if meta.Version != 1 {
		t.Errorf("Version = %d, want 1", meta.Version)
	}
	if meta.UserCount != 3 || meta.InteractionCount != 8 || meta.ItemCount != 6 {
		t.Errorf("counts = users %d interactions %d items %d, want 3/8/6",
			meta.UserCount, meta.InteractionCount, meta.ItemCount)
	}

	// A second run adds v2 and prunes v1.
	meta, err = run(ctx, opts, zerolog.Nop())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if meta.Version != 2 {
		t.Errorf("Version = %d, want 2", meta.Version)
	}

	entries, err := os.ReadDir(storeDir)
	if err != nil {
		t.Fatal(err)
	}
	var artifacts []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".gob.gz") {
			artifacts = append(artifacts, e.Name())
		}
	}
	if len(artifacts) != 1 || artifacts[0] != "user_knn_v2.gob.gz" {
		t.Errorf("artifacts = %v, want [user_knn_v2.gob.gz]", artifacts)
	}

	store, err := storage.OpenStore(storeDir)
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	idx, _, err := sources.LoadSimilarityIndex(ctx, store, "user_knn", 0)
	if err != nil {
		t.Fatalf("LoadSimilarityIndex: %v", err)
	}
	// User 1 shares items with user 2, whose unseen item 13 comes first.
	got := idx.Lookup(1, 5)
	if len(got) == 0 || got[0] != 13 {
		t.Errorf("Lookup(1) = %v, want 13 first", got)
	}
}

func TestRun_MissingFile(t *testing.T) {
	opts := &options{
		interactions: filepath.Join(t.TempDir(), "missing.csv"),
		storeDir:     t.TempDir(),
		name:         "user_knn",
		keep:         1,
		index:        sources.DefaultIndexConfig(),
	}
	if _, err := run(context.Background(), opts, zerolog.Nop()); err == nil {
		t.Error("expected error for missing interactions file")
	}
}
