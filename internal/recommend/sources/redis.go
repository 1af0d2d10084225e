// RecoService - Recommendation Serving API
// Copyright 2026 notness3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/notness3/RecoService

package sources

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/notness3/RecoService/internal/recommend"
)

// RedisLoaderConfig controls how an export is pulled out of Redis.
type RedisLoaderConfig struct {
	// BatchSize is the SCAN COUNT hint and the MGET batch size.
	BatchSize int

	// Retries is the number of attempts per batch.
	Retries int

	// RetryBackoff is the pause between attempts of one batch.
	RetryBackoff time.Duration

	// MaxConsecutiveFailures opens the breaker and aborts the load.
	MaxConsecutiveFailures uint32

	// OnStateChange is called on every breaker transition.
	OnStateChange func(name, from, to string)
}

// DefaultRedisLoaderConfig returns loader defaults.
func DefaultRedisLoaderConfig() RedisLoaderConfig {
	return RedisLoaderConfig{
		BatchSize:              500,
		Retries:                3,
		RetryBackoff:           200 * time.Millisecond,
		MaxConsecutiveFailures: 5,
	}
}

// RedisLoader copies "<prefix><user>" keys holding JSON item arrays into
// memory. Redis is only touched during startup.
type RedisLoader struct {
	client  redis.UniversalClient
	config  RedisLoaderConfig
	breaker *gobreaker.CircuitBreaker[[]interface{}]
}

// NewRedisLoader creates a loader over client.
func NewRedisLoader(client redis.UniversalClient, cfg RedisLoaderConfig) *RedisLoader {
	defaults := DefaultRedisLoaderConfig()
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaults.BatchSize
	}
	if cfg.Retries <= 0 {
		cfg.Retries = defaults.Retries
	}
	if cfg.MaxConsecutiveFailures == 0 {
		cfg.MaxConsecutiveFailures = defaults.MaxConsecutiveFailures
	}

	maxFailures := cfg.MaxConsecutiveFailures
	onChange := cfg.OnStateChange

	breaker := gobreaker.NewCircuitBreaker[[]interface{}](gobreaker.Settings{
		Name:        "redis-export",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if onChange != nil {
				onChange(name, from.String(), to.String())
			}
		},
	})

	return &RedisLoader{client: client, config: cfg, breaker: breaker}
}

// Load scans prefix and returns the entries as an export source.
func (l *RedisLoader) Load(ctx context.Context, name, prefix string) (*MappingSource, error) {
	lists := make(map[recommend.UserID][]recommend.ItemID)

	match := escapeGlob(prefix) + "*"
	var cursor uint64
	for {
		keys, next, err := l.client.Scan(ctx, cursor, match, int64(l.config.BatchSize)).Result()
		if err != nil {
			return nil, unavailable(name, fmt.Errorf("scan %s: %w", match, err))
		}

		for start := 0; start < len(keys); start += l.config.BatchSize {
			end := start + l.config.BatchSize
			if end > len(keys) {
				end = len(keys)
			}
			if err := l.loadBatch(ctx, prefix, keys[start:end], lists); err != nil {
				return nil, unavailable(name, err)
			}
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}
	if len(lists) == 0 {
		return nil, unavailable(name, fmt.Errorf("no keys under prefix %q", prefix))
	}

	return NewExportSource(name, lists), nil
}

// escapeGlob quotes the SCAN MATCH metacharacters in s so it matches literally.
func escapeGlob(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (l *RedisLoader) loadBatch(ctx context.Context, prefix string, keys []string, lists map[recommend.UserID][]recommend.ItemID) error {
	values, err := l.mget(ctx, keys)
	if err != nil {
		return err
	}

	for i, key := range keys {
		if values[i] == nil {
			// Expired or deleted between SCAN and MGET.
			continue
		}
		raw, ok := values[i].(string)
		if !ok {
			return fmt.Errorf("key %s: unexpected value type %T", key, values[i])
		}

		user, err := ParseUserKey(strings.TrimPrefix(key, prefix))
		if err != nil {
			return fmt.Errorf("key %s: %w", key, err)
		}

		var items []recommend.ItemID
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			return fmt.Errorf("key %s: %w", key, err)
		}
		lists[user] = items
	}
	return nil
}

// mget retries a batch read through the breaker.
func (l *RedisLoader) mget(ctx context.Context, keys []string) ([]interface{}, error) {
	var lastErr error
	for attempt := 0; attempt < l.config.Retries; attempt++ {
		if attempt > 0 && l.config.RetryBackoff > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(l.config.RetryBackoff):
			}
		}

		values, err := l.breaker.Execute(func() ([]interface{}, error) {
			return l.client.MGet(ctx, keys...).Result()
		})
		if err == nil {
			return values, nil
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("redis circuit open: %w", err)
		}
		lastErr = err
	}
	return nil, fmt.Errorf("mget after %d attempts: %w", l.config.Retries, lastErr)
}

// BreakerState returns the current breaker state name.
func (l *RedisLoader) BreakerState() string {
	return l.breaker.State().String()
}
