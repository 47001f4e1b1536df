// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/olegiv/shopnav/internal/cache"
	"github.com/olegiv/shopnav/internal/version"
)

// healthCheckTimeout bounds each dependency probe.
const healthCheckTimeout = 2 * time.Second

// HealthHandler handles health check requests.
type HealthHandler struct {
	db           *sql.DB
	cache        cache.Cacher
	cacheBackend string
	version      version.Info
	startTime    time.Time
}

// NewHealthHandler creates a new health handler. backend may be nil.
func NewHealthHandler(db *sql.DB, backend cache.Cacher, backendName string, info version.Info) *HealthHandler {
	return &HealthHandler{
		db:           db,
		cache:        backend,
		cacheBackend: backendName,
		version:      info,
		startTime:    time.Now(),
	}
}

// HealthStatusPublic is the minimal health response for unauthenticated callers.
type HealthStatusPublic struct {
	Status string `json:"status"`
}

// HealthStatus represents the overall health status (admin callers only).
type HealthStatus struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   version.Info     `json:"version"`
	Checks    map[string]Check `json:"checks"`
	System    *SystemInfo      `json:"system,omitempty"`
}

// Check represents a single health check result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// SystemInfo contains system-level information.
type SystemInfo struct {
	GoVersion    string `json:"goVersion"`
	NumGoroutine int    `json:"numGoroutines"`
	NumCPU       int    `json:"numCpus"`
	MemAlloc     string `json:"memAlloc"`
	MemSys       string `json:"memSys"`
}

func (h *HealthHandler) checks(ctx context.Context) (string, map[string]Check) {
	checks := map[string]Check{
		"database": h.checkDatabase(ctx),
		"cache":    h.checkCache(ctx),
	}
	status := "healthy"
	if checks["database"].Status != "healthy" {
		status = "unhealthy"
	} else if checks["cache"].Status != "healthy" {
		status = "degraded"
	}
	return status, checks
}

// Health handles GET /health with a minimal public answer. A degraded cache
// still reports 200 because the store answers every request without it.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status, _ := h.checks(r.Context())
	code := http.StatusOK
	if status == "unhealthy" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, HealthStatusPublic{Status: status})
}

// Details handles GET /api/admin/health with per-check results.
// verbose=true adds runtime information.
func (h *HealthHandler) Details(w http.ResponseWriter, r *http.Request) {
	status, checks := h.checks(r.Context())
	resp := HealthStatus{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.version,
		Checks:    checks,
	}
	if queryBool(r, "verbose") {
		resp.System = getSystemInfo()
	}
	writeJSONSuccess(w, http.StatusOK, resp)
}

// Liveness handles GET /health/live - simple liveness check.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// Readiness handles GET /health/ready - checks if the service is ready to accept traffic.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.checkDatabase(r.Context()).Status == "healthy" {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
		return
	}
	writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not_ready"})
}

// checkDatabase verifies database connectivity.
func (h *HealthHandler) checkDatabase(ctx context.Context) Check {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	start := time.Now()
	err := h.db.PingContext(ctx)
	latency := time.Since(start)

	if err != nil {
		return Check{Status: "unhealthy", Message: err.Error(), Latency: latency.String()}
	}
	return Check{Status: "healthy", Message: "Connected", Latency: latency.String()}
}

// checkCache probes the cache backend.
func (h *HealthHandler) checkCache(ctx context.Context) Check {
	if h.cache == nil {
		return Check{Status: "healthy", Message: "Disabled"}
	}
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	start := time.Now()
	_, err := h.cache.Has(ctx, "health:probe")
	latency := time.Since(start)

	if err != nil {
		return Check{Status: "degraded", Message: h.cacheBackend + ": " + err.Error(), Latency: latency.String()}
	}
	return Check{Status: "healthy", Message: h.cacheBackend, Latency: latency.String()}
}

// getSystemInfo returns system-level metrics.
func getSystemInfo() *SystemInfo {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return &SystemInfo{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     formatBytes(m.Alloc),
		MemSys:       formatBytes(m.Sys),
	}
}

// formatBytes converts bytes to a human-readable string.
func formatBytes(bytes uint64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
