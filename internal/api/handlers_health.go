// Neighborly - User-User Collaborative Filtering Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/neighborly

package api

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/tomtom215/neighborly/internal/models"
)

// healthPingTimeout bounds the store ping made by health checks.
const healthPingTimeout = 2 * time.Second

func (h *Handler) storeConnected(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, healthPingTimeout)
	defer cancel()
	return h.store.Ping(ctx) == nil
}

// Health handles GET /api/v1/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	connected := h.storeConnected(r.Context())
	breaker := ""
	if h.breaker != nil {
		breaker = h.breaker.State()
	}

	status := "healthy"
	if !connected || breaker == "open" {
		status = "degraded"
	}

	stats := h.engine.Stats()
	respondSuccess(w, r, models.HealthStatus{
		Status:         status,
		Version:        h.version,
		Store:          h.store.Name(),
		StoreConnected: connected,
		Cache:          h.cacheName,
		Breaker:        breaker,
		Uptime:         time.Since(h.startTime).Seconds(),
		Engine: models.EngineStats{
			Requests:  stats.Requests,
			Errors:    stats.Errors,
			Fallbacks: stats.Fallbacks,
		},
		System: systemStats(r.Context()),
	}, start)
}

// HealthLive handles GET /api/v1/health/live. It reports 200 while the
// process runs, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	}, time.Now())
}

// HealthReady handles GET /api/v1/health/ready. It reports 503 until the
// store answers a ping.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if !h.storeConnected(r.Context()) {
		respondError(w, http.StatusServiceUnavailable, CodeNotReady, "Rating store is not reachable", nil)
		return
	}
	respondSuccess(w, r, map[string]interface{}{
		"ready": true,
		"store": h.store.Name(),
	}, time.Now())
}

// systemStats collects runtime and host figures. Host probes that fail
// leave their fields empty.
func systemStats(ctx context.Context) *models.SystemStats {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	stats := &models.SystemStats{
		Goroutines:     runtime.NumGoroutine(),
		HeapAllocBytes: ms.HeapAlloc,
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		stats.HostMemTotal = vm.Total
		stats.HostMemUsedPct = vm.UsedPercent
	}
	if pct, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(pct) > 0 {
		stats.HostCPUPercent = pct[0]
	}
	if info, err := host.InfoWithContext(ctx); err == nil {
		stats.HostUptimeSecs = info.Uptime
		stats.HostPlatform = info.Platform + " " + info.PlatformVersion
	}
	if avg, err := load.AvgWithContext(ctx); err == nil {
		stats.LoadAverage1Min = avg.Load1
	}
	return stats
}
