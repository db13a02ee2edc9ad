// Neighborly - User-User Collaborative Filtering Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/neighborly

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Scoring.NeighborhoodSize != 30 {
		t.Errorf("Scoring.NeighborhoodSize = %d, want 30", cfg.Scoring.NeighborhoodSize)
	}
	if cfg.Store.Backend != BackendMemory {
		t.Errorf("Store.Backend = %q, want memory", cfg.Store.Backend)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaultConfig().Validate() = %v", err)
	}
}

func TestLoadFile_DefaultsOnly(t *testing.T) {
	cfg, err := LoadFile("")
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.Cache.TTL != 5*time.Minute {
		t.Errorf("Cache.TTL = %v, want 5m", cfg.Cache.TTL)
	}
	if len(cfg.Security.CORSOrigins) != 1 || cfg.Security.CORSOrigins[0] != "*" {
		t.Errorf("Security.CORSOrigins = %v, want [*]", cfg.Security.CORSOrigins)
	}
}

func TestLoadFile_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 9090
scoring:
  neighborhood_size: 12
  prediction_timeout: 5s
store:
  backend: duckdb
  duckdb:
    path: /tmp/ratings.duckdb
cache:
  backend: redis
  redis:
    addr: redis:6379
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Scoring.NeighborhoodSize != 12 {
		t.Errorf("Scoring.NeighborhoodSize = %d, want 12", cfg.Scoring.NeighborhoodSize)
	}
	if cfg.Scoring.PredictionTimeout != 5*time.Second {
		t.Errorf("Scoring.PredictionTimeout = %v, want 5s", cfg.Scoring.PredictionTimeout)
	}
	if cfg.Store.Backend != BackendDuckDB || cfg.Store.DuckDB.Path != "/tmp/ratings.duckdb" {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if cfg.Cache.Redis.Addr != "redis:6379" {
		t.Errorf("Cache.Redis.Addr = %q, want redis:6379", cfg.Cache.Redis.Addr)
	}
	// Untouched values keep their defaults.
	if cfg.Scoring.MaxItems != 1000 {
		t.Errorf("Scoring.MaxItems = %d, want 1000", cfg.Scoring.MaxItems)
	}
}

func TestLoadFile_EnvOverrides(t *testing.T) {
	t.Setenv("NEIGHBORHOOD_SIZE", "45")
	t.Setenv("STORE_BACKEND", "badger")
	t.Setenv("BADGER_PATH", "/var/lib/neighborly")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("UNRELATED_VARIABLE", "ignored")

	cfg, err := LoadFile("")
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if cfg.Scoring.NeighborhoodSize != 45 {
		t.Errorf("Scoring.NeighborhoodSize = %d, want 45", cfg.Scoring.NeighborhoodSize)
	}
	if cfg.Store.Backend != BackendBadger || cfg.Store.Badger.Path != "/var/lib/neighborly" {
		t.Errorf("Store = %+v", cfg.Store)
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[0] != want[0] || cfg.Security.CORSOrigins[1] != want[1] {
		t.Errorf("Security.CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, want)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadFile_InvalidEnv(t *testing.T) {
	t.Setenv("STORE_BACKEND", "cassandra")

	if _, err := LoadFile(""); err == nil {
		t.Error("LoadFile() error = nil, want validation failure")
	}
}

func TestLoadFile_MissingFile(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("LoadFile() error = nil, want missing file error")
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"NEIGHBORHOOD_SIZE", "scoring.neighborhood_size"},
		{"HTTP_PORT", "server.port"},
		{"REDIS_ADDR", "cache.redis.addr"},
		{"MONGO_URI", "store.mongo.uri"},
		{"PATH", ""},
	}
	for _, tt := range tests {
		if got := envTransformFunc(tt.in); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestConfig_Conversions(t *testing.T) {
	cfg := defaultConfig()
	cfg.Scoring.Workers = 3
	cfg.Scoring.NeighborhoodSize = 0

	rc := cfg.RecommendConfig()
	if rc.Neighborhood.Workers != 3 || rc.Neighborhood.Size != 0 {
		t.Errorf("RecommendConfig().Neighborhood = %+v", rc.Neighborhood)
	}
	if cfg.Addr() != "0.0.0.0:8080" {
		t.Errorf("Addr() = %q, want 0.0.0.0:8080", cfg.Addr())
	}
	if lc := cfg.LoggingSettings(); lc.Level != "info" || !lc.Timestamp {
		t.Errorf("LoggingSettings() = %+v", lc)
	}
}
