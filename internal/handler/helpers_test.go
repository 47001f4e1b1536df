// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/olegiv/shopnav/internal/auth"
	"github.com/olegiv/shopnav/internal/cache"
	"github.com/olegiv/shopnav/internal/middleware"
	"github.com/olegiv/shopnav/internal/model"
	"github.com/olegiv/shopnav/internal/scheduler"
	"github.com/olegiv/shopnav/internal/service"
	"github.com/olegiv/shopnav/internal/testutil"
	"github.com/olegiv/shopnav/internal/version"
)

const testSecret = "test-secret-key-that-is-long-enough-123"

type testEnv struct {
	router http.Handler
	nav    *service.NavigationService
	events *service.EventService
	tokens *auth.TokenManager
	admin  string
	editor string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)
	logger := testutil.TestLoggerSilent()

	backend := cache.NewSimpleMemoryCache(time.Hour)
	t.Cleanup(func() { _ = backend.Close() })

	nav := service.NewNavigationService(db, logger)
	nav.SetCache(cache.NewNavigationCache(backend, time.Hour, logger))
	events := service.NewEventService(db, logger)

	sched := scheduler.New(logger)
	require.NoError(t, sched.RegisterEventPruning(events, 24*time.Hour, scheduler.DefaultPruneSchedule))
	require.NoError(t, sched.RegisterCacheWarming(nav, scheduler.DefaultWarmSchedule))

	tokens, err := auth.NewTokenManager(testSecret, 0)
	require.NoError(t, err)
	admin, err := tokens.Issue("alice", model.RoleAdmin)
	require.NoError(t, err)
	editor, err := tokens.Issue("bob", model.RoleEditor)
	require.NoError(t, err)

	router := NewRouter(Deps{
		Logger:      logger,
		Navigation:  NewNavigationHandler(nav, logger),
		Events:      NewEventsHandler(events, logger),
		Health:      NewHealthHandler(db, backend, "memory", version.Info{Version: "v0.0.1"}),
		Jobs:        NewSchedulerHandler(sched, events, logger),
		Verifier:    tokens,
		CORSOrigins: []string{"https://admin.example.com"},
	})

	return &testEnv{router: router, nav: nav, events: events, tokens: tokens, admin: admin, editor: editor}
}

// do sends a request through the router. body may be nil, a string or a
// value to encode as JSON.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		buf, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// envelope decodes a JSON envelope, placing data into out when non-nil.
func envelope(t *testing.T, rec *httptest.ResponseRecorder, out any) Envelope {
	t.Helper()

	var raw struct {
		Success bool              `json:"success"`
		Data    json.RawMessage   `json:"data"`
		Error   string            `json:"error"`
		Fields  map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw), "body: %s", rec.Body.String())
	if out != nil && len(raw.Data) > 0 {
		require.NoError(t, json.Unmarshal(raw.Data, out))
	}
	return Envelope{Success: raw.Success, Error: raw.Error, Fields: raw.Fields}
}

// create makes an entry through the API and returns it.
func (e *testEnv) create(t *testing.T, name string, parent *string) model.Entry {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/admin/navigation", e.editor, service.CreateInput{
		Name:   name,
		Href:   "/" + strings.ToLower(name),
		Type:   model.TypeCategory,
		Parent: parent,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var out model.Entry
	envelope(t, rec, &out)
	return out
}

// newCookieRequest builds a request carrying token in the admin cookie.
func newCookieRequest(method, path, token string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: middleware.TokenCookie, Value: token})
	}
	return req
}

func serve(env *testEnv, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}
