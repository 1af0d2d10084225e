// RecoService - Recommendation Serving API
// Copyright 2026 notness3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/notness3/RecoService

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from config files and
// environment variables.
//
// Configuration Loading Order:
//  1. .env file, if present, is loaded into the process environment
//  2. Defaults: Built-in sensible defaults for all optional settings
//  3. Config File: Optional YAML config file (config.yaml) for persistent settings
//  4. Environment Variables: Override any setting via environment variables
//
// Config is immutable after Load() and safe for concurrent read access.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
	Reco     RecoConfig     `koanf:"reco"`
	Redis    RedisConfig    `koanf:"redis"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // "development", "staging", "production" (default: "development")
}

// SecurityConfig holds authentication and rate limiting settings.
//
// Environment Variables:
//   - AUTH_MODE: jwt or none (default: jwt)
//   - JWT_SECRET: HS256 signing secret, min 32 characters
//   - SESSION_TIMEOUT: token lifetime (default: 24h)
//   - ADMIN_USERNAME, ADMIN_PASSWORD: the login account
//   - ADMIN_PASSWORD_HASH: bcrypt hash used instead of ADMIN_PASSWORD
//   - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT
//   - LOGIN_RATE_LIMIT, LOGIN_RATE_BURST: per-IP login attempts per second
//   - CORS_ORIGINS: comma-separated allowed origins
type SecurityConfig struct {
	AuthMode          string        `koanf:"auth_mode"`
	JWTSecret         string        `koanf:"jwt_secret"`
	SessionTimeout    time.Duration `koanf:"session_timeout"`
	AdminUsername     string        `koanf:"admin_username"`
	AdminPassword     string        `koanf:"admin_password"`
	AdminPasswordHash string        `koanf:"admin_password_hash"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	LoginRateLimit    float64       `koanf:"login_rate_limit"`
	LoginRateBurst    int           `koanf:"login_rate_burst"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings for zerolog.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// RecoConfig configures the recommendation engine and its model sources.
//
// Environment Variables:
//   - AVAILABLE_MODELS: comma-separated enabled model names (default: top_frequent)
//   - K_RECS: list length returned per request (default: 10)
//   - USER_ID_CEILING: largest accepted user id (default: 1000000000)
//   - POPULAR_MODEL: name of the popularity model (default: top_frequent)
//   - POPULARITY_PATH: JSON file with the ranked popular items
//
// Sources can only be declared in the config file.
type RecoConfig struct {
	AvailableModels []string       `koanf:"available_models"`
	KRecs           int            `koanf:"k_recs"`
	UserIDCeiling   int64          `koanf:"user_id_ceiling"`
	PopularModel    string         `koanf:"popular_model"`
	PopularityPath  string         `koanf:"popularity_path"`
	Sources         []SourceConfig `koanf:"sources"`
}

// SourceConfig declares where one model's artifact lives.
type SourceConfig struct {
	Name     string `koanf:"name" validate:"required,modelname"`
	Kind     string `koanf:"kind" validate:"required,oneof=mapping export similarity"`
	Format   string `koanf:"format" validate:"required,oneof=json msgpack badger redis index"`
	Path     string `koanf:"path" validate:"required_unless=Format redis"`
	Prefix   string `koanf:"prefix"`
	Artifact string `koanf:"artifact" validate:"omitempty,modelname"`
	Version  int    `koanf:"version" validate:"gte=0"`
}

// RedisConfig holds the connection used by redis-format sources.
//
// Environment Variables:
//   - REDIS_ADDR: host:port, empty disables Redis (default: "")
//   - REDIS_PASSWORD, REDIS_DB
//   - REDIS_BATCH_SIZE: keys per MGET (default: 500)
type RedisConfig struct {
	Addr                   string        `koanf:"addr"`
	Password               string        `koanf:"password"`
	DB                     int           `koanf:"db"`
	BatchSize              int           `koanf:"batch_size"`
	Retries                int           `koanf:"retries"`
	RetryBackoff           time.Duration `koanf:"retry_backoff"`
	MaxConsecutiveFailures uint32        `koanf:"max_consecutive_failures"`
	DialTimeout            time.Duration `koanf:"dial_timeout"`
}

// Enabled reports whether a Redis address is configured.
func (r *RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// UsesRedis reports whether any source is stored in Redis.
func (c *Config) UsesRedis() bool {
	for _, src := range c.Reco.Sources {
		if src.Format == "redis" {
			return true
		}
	}
	return false
}

// Load reads the configuration. A .env file in the working directory is
// loaded first when present; existing environment variables win over it.
func Load() (*Config, error) {
	if err := loadDotEnv(DotEnvFile); err != nil {
		return nil, err
	}
	return LoadWithKoanf()
}

// DotEnvFile is the file Load reads before the environment.
var DotEnvFile = ".env"

func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}
