// Neighborly - User-User Collaborative Filtering Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/neighborly

package recommend

import (
	"fmt"
	"runtime"
	"time"
)

// DefaultNeighborhoodSize is the number of neighbors consulted per item
// when no override is configured.
const DefaultNeighborhoodSize = 30

// Config contains all configuration for the scoring engine.
type Config struct {
	// Neighborhood contains neighbor selection parameters.
	Neighborhood NeighborhoodConfig `json:"neighborhood"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits"`
}

// NeighborhoodConfig contains neighbor selection parameters.
type NeighborhoodConfig struct {
	// Size is the maximum number of neighbors (K) used per item.
	// Zero is valid and makes every prediction the user's mean.
	Size int `json:"size"`

	// Workers is the number of goroutines used to build candidate vectors.
	Workers int `json:"workers"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// MaxItems is the maximum number of distinct items per request.
	MaxItems int `json:"max_items"`

	// MaxNeighborhoodSize caps per-request K overrides.
	MaxNeighborhoodSize int `json:"max_neighborhood_size"`

	// PredictionTimeout is the deadline applied to a single request.
	PredictionTimeout time.Duration `json:"prediction_timeout"`
}

// DefaultConfig returns production-ready default configuration.
func DefaultConfig() *Config {
	return &Config{
		Neighborhood: NeighborhoodConfig{
			Size:    DefaultNeighborhoodSize,
			Workers: runtime.NumCPU(),
		},
		Limits: LimitsConfig{
			MaxItems:            1000,
			MaxNeighborhoodSize: 500,
			PredictionTimeout:   30 * time.Second,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Neighborhood.Size < 0 {
		return fmt.Errorf("neighborhood.size must be non-negative, got %d", c.Neighborhood.Size)
	}
	if c.Neighborhood.Workers <= 0 {
		return fmt.Errorf("neighborhood.workers must be positive, got %d", c.Neighborhood.Workers)
	}
	if c.Limits.MaxItems <= 0 {
		return fmt.Errorf("limits.max_items must be positive, got %d", c.Limits.MaxItems)
	}
	if c.Limits.MaxNeighborhoodSize < c.Neighborhood.Size {
		return fmt.Errorf("limits.max_neighborhood_size must be >= neighborhood.size, got %d < %d",
			c.Limits.MaxNeighborhoodSize, c.Neighborhood.Size)
	}
	if c.Limits.PredictionTimeout <= 0 {
		return fmt.Errorf("limits.prediction_timeout must be positive, got %v", c.Limits.PredictionTimeout)
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// Nested structs contain only value types
	return &Config{
		Neighborhood: c.Neighborhood,
		Limits:       c.Limits,
	}
}
