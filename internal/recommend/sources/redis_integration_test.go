// RecoService - Recommendation Serving API
// Copyright 2026 notness3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/notness3/RecoService

//go:build integration

package sources

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/notness3/RecoService/internal/recommend"
	"github.com/notness3/RecoService/internal/testinfra"
)

func TestRedisLoader_Integration(t *testing.T) {
	testinfra.SkipIfNoDocker(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	redisC, err := testinfra.NewRedisContainer(ctx)
	if err != nil {
		t.Fatalf("start redis: %v", err)
	}
	testinfra.CleanupContainer(t, redisC)

	client := redis.NewClient(&redis.Options{Addr: redisC.Addr})
	t.Cleanup(func() { _ = client.Close() })

	// More keys than one batch to cover SCAN cursors and MGET batching.
	const users = 25
	for u := 0; u < users; u++ {
		value := fmt.Sprintf("[%d,%d,%d]", u*10, u*10+1, u*10+2)
		if err := client.Set(ctx, fmt.Sprintf("reco:ease:%d", u), value, 0).Err(); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	if err := client.Set(ctx, "other:1", "[9]", 0).Err(); err != nil {
		t.Fatalf("seed: %v", err)
	}

	var transitions []string
	loader := NewRedisLoader(client, RedisLoaderConfig{
		BatchSize: 7,
		OnStateChange: func(name, from, to string) {
			transitions = append(transitions, from+"->"+to)
		},
	})

	src, err := loader.Load(ctx, "ease", "reco:ease:")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := src.Len(); got != users {
		t.Errorf("Len() = %d, want %d", got, users)
	}
	if src.Kind() != KindExport {
		t.Errorf("Kind() = %q, want %q", src.Kind(), KindExport)
	}

	want := []recommend.ItemID{30, 31, 32}
	if got := src.Lookup(recommend.UserID(3), 10); fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("Lookup(3) = %v, want %v", got, want)
	}
	if src.IsKnown(recommend.UserID(1000)) {
		t.Error("unexpected entry for user 1000")
	}
	if len(transitions) != 0 {
		t.Errorf("breaker transitions = %v, want none", transitions)
	}

	t.Run("through the loader", func(t *testing.T) {
		l := NewLoader(loader, zerolog.Nop())
		got, err := l.Load(ctx, Definition{Name: "ease", Kind: KindExport, Format: FormatRedis, Prefix: "reco:ease:"})
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if !got.IsKnown(recommend.UserID(24)) {
			t.Error("user 24 should be known")
		}
	})

	t.Run("prefix with no keys", func(t *testing.T) {
		if _, err := loader.Load(ctx, "missing", "reco:typo:"); !errors.Is(err, recommend.ErrSourceUnavailable) {
			t.Errorf("Load() error = %v, want ErrSourceUnavailable", err)
		}
	})

	t.Run("glob characters in prefix match literally", func(t *testing.T) {
		for key, value := range map[string]string{"exp*v1:1": "[1]", "expXv1:2": "[2]"} {
			if err := client.Set(ctx, key, value, 0).Err(); err != nil {
				t.Fatalf("seed: %v", err)
			}
		}
		got, err := loader.Load(ctx, "glob", "exp*v1:")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if got.Len() != 1 || !got.IsKnown(recommend.UserID(1)) {
			t.Errorf("Len() = %d, IsKnown(1) = %v, want only user 1", got.Len(), got.IsKnown(recommend.UserID(1)))
		}
	})
}
