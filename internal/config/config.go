// Neighborly - User-User Collaborative Filtering Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/neighborly

// Package config loads service configuration with koanf.
//
// Sources are layered, later layers winning:
//
//  1. Struct defaults (defaultConfig)
//  2. YAML file: $CONFIG_PATH, ./config.yaml, /etc/neighborly/config.yaml
//  3. Environment variables, mapped explicitly in envTransformFunc
//
// The merged result is validated before it is returned.
package config

import (
	"time"

	"github.com/tomtom215/neighborly/internal/logging"
	"github.com/tomtom215/neighborly/internal/recommend"
)

// Config holds all service configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Scoring  ScoringConfig  `koanf:"scoring"`
	Store    StoreConfig    `koanf:"store"`
	Cache    CacheConfig    `koanf:"cache"`
	Breaker  BreakerConfig  `koanf:"breaker"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// ScoringConfig holds neighbor selection and request limits.
type ScoringConfig struct {
	NeighborhoodSize    int           `koanf:"neighborhood_size"`
	Workers             int           `koanf:"workers"` // 0 = NumCPU
	MaxItems            int           `koanf:"max_items"`
	MaxNeighborhoodSize int           `koanf:"max_neighborhood_size"`
	PredictionTimeout   time.Duration `koanf:"prediction_timeout"`
}

// StoreConfig selects and configures the ratings backend.
type StoreConfig struct {
	Backend    string       `koanf:"backend"` // memory, duckdb, badger, mongo
	ImportPath string       `koanf:"import_path"`
	DuckDB     DuckDBConfig `koanf:"duckdb"`
	Badger     BadgerConfig `koanf:"badger"`
	Mongo      MongoConfig  `koanf:"mongo"`
}

// DuckDBConfig holds DuckDB settings.
type DuckDBConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // 0 = NumCPU
}

// BadgerConfig holds BadgerDB settings.
type BadgerConfig struct {
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`
}

// MongoConfig holds MongoDB settings.
type MongoConfig struct {
	URI        string        `koanf:"uri"`
	Database   string        `koanf:"database"`
	Collection string        `koanf:"collection"`
	Timeout    time.Duration `koanf:"timeout"`
}

// CacheConfig holds history cache settings.
type CacheConfig struct {
	Enabled         bool          `koanf:"enabled"`
	Backend         string        `koanf:"backend"` // lru, redis
	TTL             time.Duration `koanf:"ttl"`
	MaxEntries      int           `koanf:"max_entries"`
	CleanupInterval time.Duration `koanf:"cleanup_interval"`
	Redis           RedisConfig   `koanf:"redis"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
	Prefix   string `koanf:"prefix"`
}

// BreakerConfig holds circuit breaker settings for the ratings backend.
type BreakerConfig struct {
	Enabled          bool          `koanf:"enabled"`
	MaxRequests      uint32        `koanf:"max_requests"`
	Interval         time.Duration `koanf:"interval"`
	Timeout          time.Duration `koanf:"timeout"`
	FailureThreshold uint32        `koanf:"failure_threshold"`
}

// SecurityConfig holds HTTP hardening settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// RecommendConfig converts the scoring section to the engine configuration.
func (c *Config) RecommendConfig() *recommend.Config {
	rc := recommend.DefaultConfig()
	rc.Neighborhood.Size = c.Scoring.NeighborhoodSize
	if c.Scoring.Workers > 0 {
		rc.Neighborhood.Workers = c.Scoring.Workers
	}
	rc.Limits.MaxItems = c.Scoring.MaxItems
	rc.Limits.MaxNeighborhoodSize = c.Scoring.MaxNeighborhoodSize
	rc.Limits.PredictionTimeout = c.Scoring.PredictionTimeout
	return rc
}

// LoggingSettings converts the logging section for logging.Init.
func (c *Config) LoggingSettings() logging.Config {
	lc := logging.DefaultConfig()
	lc.Level = c.Logging.Level
	lc.Format = c.Logging.Format
	lc.Caller = c.Logging.Caller
	return lc
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return joinHostPort(c.Server.Host, c.Server.Port)
}
