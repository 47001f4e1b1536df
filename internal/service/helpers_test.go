// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/olegiv/shopnav/internal/model"
	"github.com/olegiv/shopnav/internal/testutil"
)

// newTestService returns a service over a fresh migrated database.
func newTestService(t *testing.T) *NavigationService {
	t.Helper()
	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)
	return NewNavigationService(db, testutil.TestLoggerSilent())
}

// mustCreate creates a link entry named name under parent.
func mustCreate(t *testing.T, s *NavigationService, name string, parent *model.Entry) *model.Entry {
	t.Helper()
	in := CreateInput{Name: name, Href: "/" + name}
	if parent != nil {
		in.Parent = &parent.ID
	}
	e, err := s.Create(context.Background(), in)
	require.NoError(t, err, "creating %s", name)
	return e
}

// siblingNames returns the names under parent in sibling order.
func siblingNames(t *testing.T, s *NavigationService, parent *model.Entry) []string {
	t.Helper()
	var p *string
	if parent != nil {
		p = &parent.ID
	}
	entries, err := s.queries.LoadSiblings(context.Background(), p)
	require.NoError(t, err)
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}

func mustGet(t *testing.T, s *NavigationService, id string) *model.Entry {
	t.Helper()
	e, err := s.Get(context.Background(), id)
	require.NoError(t, err)
	return e
}

func boolPtr(b bool) *bool { return &b }

// fakeCatalog knows a fixed set of products.
type fakeCatalog struct {
	products map[string]model.ProductSummary
	calls    int
}

func (f *fakeCatalog) Products(_ context.Context, ids []string) ([]model.ProductSummary, error) {
	f.calls++
	var out []model.ProductSummary
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeCatalog) Missing(_ context.Context, ids []string) ([]string, error) {
	var missing []string
	for _, id := range ids {
		if _, ok := f.products[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}
