// Neighborly - User-User Collaborative Filtering Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/neighborly

package recommend

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Neighborhood.Size != 30 {
		t.Errorf("Neighborhood.Size = %d, want 30", cfg.Neighborhood.Size)
	}
	if cfg.Neighborhood.Workers <= 0 {
		t.Errorf("Neighborhood.Workers = %d, want > 0", cfg.Neighborhood.Workers)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v, want nil", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr bool
	}{
		{
			name:   "zero neighborhood is valid",
			modify: func(c *Config) { c.Neighborhood.Size = 0 },
		},
		{
			name:    "negative neighborhood",
			modify:  func(c *Config) { c.Neighborhood.Size = -1 },
			wantErr: true,
		},
		{
			name:    "no workers",
			modify:  func(c *Config) { c.Neighborhood.Workers = 0 },
			wantErr: true,
		},
		{
			name:    "no items allowed",
			modify:  func(c *Config) { c.Limits.MaxItems = 0 },
			wantErr: true,
		},
		{
			name: "max neighborhood below default",
			modify: func(c *Config) {
				c.Neighborhood.Size = 50
				c.Limits.MaxNeighborhoodSize = 40
			},
			wantErr: true,
		},
		{
			name:    "zero timeout",
			modify:  func(c *Config) { c.Limits.PredictionTimeout = 0 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Clone(t *testing.T) {
	cfg := DefaultConfig()
	clone := cfg.Clone()

	clone.Neighborhood.Size = 7
	clone.Limits.PredictionTimeout = time.Second

	if cfg.Neighborhood.Size != 30 {
		t.Errorf("original Neighborhood.Size = %d after clone mutation, want 30", cfg.Neighborhood.Size)
	}
	if cfg.Limits.PredictionTimeout != 30*time.Second {
		t.Errorf("original PredictionTimeout = %v after clone mutation", cfg.Limits.PredictionTimeout)
	}
}
