// Neighborly - User-User Collaborative Filtering Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/neighborly

package models

// HealthStatus is the body of GET /api/v1/health.
type HealthStatus struct {
	Status         string       `json:"status"` // "healthy" or "degraded"
	Version        string       `json:"version"`
	Store          string       `json:"store"`
	StoreConnected bool         `json:"store_connected"`
	Cache          string       `json:"cache,omitempty"`
	Breaker        string       `json:"breaker,omitempty"`
	Uptime         float64      `json:"uptime_seconds"`
	Engine         EngineStats  `json:"engine"`
	System         *SystemStats `json:"system,omitempty"`
}

// EngineStats mirrors the scoring engine counters.
type EngineStats struct {
	Requests  int64 `json:"requests"`
	Errors    int64 `json:"errors"`
	Fallbacks int64 `json:"fallbacks"`
}

// SystemStats describes the host and the Go runtime.
type SystemStats struct {
	Goroutines      int     `json:"goroutines"`
	HeapAllocBytes  uint64  `json:"heap_alloc_bytes"`
	HostMemTotal    uint64  `json:"host_mem_total_bytes,omitempty"`
	HostMemUsedPct  float64 `json:"host_mem_used_percent,omitempty"`
	HostCPUPercent  float64 `json:"host_cpu_percent,omitempty"`
	HostUptimeSecs  uint64  `json:"host_uptime_seconds,omitempty"`
	HostPlatform    string  `json:"host_platform,omitempty"`
	LoadAverage1Min float64 `json:"load_average_1m,omitempty"`
}
