// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatalf("reading metrics: %v", err)
	}
	return string(body)
}

func TestMutationCounter(t *testing.T) {
	m := New()
	m.Mutation(OpCreate)
	m.Mutation(OpCreate)
	m.Mutation(OpMove)

	text := scrape(t, m)
	for _, want := range []string{
		`shopnav_navigation_mutations_total{operation="create"} 2`,
		`shopnav_navigation_mutations_total{operation="move"} 1`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.Mutation(OpDelete)
	m.Rejected(OpDelete, "not_found")
}

func TestHandlerExposesCounters(t *testing.T) {
	m := New()
	m.Mutation(OpToggle)
	m.Rejected(OpReorder, "conflict")
	m.RegisterCache(func() (int64, int64) { return 7, 3 })

	text := scrape(t, m)

	for _, want := range []string{
		`shopnav_navigation_mutations_total{operation="toggle"} 1`,
		`shopnav_navigation_rejected_total{operation="reorder",reason="conflict"} 1`,
		`shopnav_navigation_cache_hits_total 7`,
		`shopnav_navigation_cache_misses_total 3`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
