// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveWithTimeout(d time.Duration, h http.HandlerFunc) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	Timeout(d)(h).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/admin/navigation", nil))
	return rr
}

func TestTimeoutPassesResponseThrough(t *testing.T) {
	rr := serveWithTimeout(time.Second, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Entry", "protein")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true}`))
	})

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "protein", rr.Header().Get("X-Entry"))
	assert.JSONEq(t, `{"success":true}`, rr.Body.String())
}

func TestTimeoutImplicitOK(t *testing.T) {
	rr := serveWithTimeout(time.Second, func(w http.ResponseWriter, r *http.Request) {})
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Body.String())
}

func TestTimeoutSlowHandler(t *testing.T) {
	finished := make(chan struct{})
	rr := serveWithTimeout(30*time.Millisecond, func(w http.ResponseWriter, r *http.Request) {
		defer close(finished)
		<-r.Context().Done()
		_, _ = w.Write([]byte("too late"))
	})

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":false,"error":"Request timeout"}`, rr.Body.String())

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("handler never returned")
	}
}

func TestTimeoutRepanicsOnServingGoroutine(t *testing.T) {
	h := Timeout(time.Second)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	require.PanicsWithValue(t, "boom", func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestBufferedWriterKeepsFirstStatus(t *testing.T) {
	bw := newBufferedWriter(http.Header{})
	bw.WriteHeader(http.StatusAccepted)
	bw.WriteHeader(http.StatusNotFound)
	_, _ = bw.Write([]byte("ok"))

	rr := httptest.NewRecorder()
	bw.flushTo(rr)
	assert.Equal(t, http.StatusAccepted, rr.Code)
	assert.Equal(t, "ok", rr.Body.String())
}
