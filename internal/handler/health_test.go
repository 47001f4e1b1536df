// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/shopnav/internal/testutil"
	"github.com/olegiv/shopnav/internal/version"
)

func TestHealthPublic(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, map[string]any{"status": "healthy"}, got)
}

func TestHealthLiveAndReady(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alive")

	rec = env.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ready")
}

func TestHealthDetails(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/admin/health?verbose=true", env.editor, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got HealthStatus
	envelope(t, rec, &got)
	assert.Equal(t, "healthy", got.Status)
	assert.Equal(t, "v0.0.1", got.Version.Version)
	assert.Equal(t, "healthy", got.Checks["database"].Status)
	assert.Equal(t, "memory", got.Checks["cache"].Message)
	require.NotNil(t, got.System)
	assert.NotEmpty(t, got.System.GoVersion)

	rec = env.do(t, http.MethodGet, "/api/admin/health", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHealthClosedDatabase(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	cleanup()

	h := NewHealthHandler(db, nil, "", version.Info{})

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "unhealthy")

	rec = httptest.NewRecorder()
	h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_ready")
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{5 * 1024 * 1024, "5.00 MB"},
		{3 * 1024 * 1024 * 1024, "3.00 GB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatBytes(tt.in), "formatBytes(%d)", tt.in)
	}
}
