// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/shopnav/internal/transfer"
)

func TestSeed(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	res, err := s.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 28, res.Created)

	tree, err := s.ListTree(ctx, ListOptions{})
	require.NoError(t, err)
	require.Len(t, tree, 9)
	assert.Equal(t, "Protein", tree[0].Name)
	assert.Len(t, tree[0].Children, 5)

	_, err = s.Seed(ctx)
	require.ErrorIs(t, err, ErrConflict)
	var ce *ConflictError
	require.True(t, errors.As(err, &ce))
	assert.Contains(t, ce.Message, "28")

	seeded, err := s.SeedIfEmpty(ctx)
	require.NoError(t, err)
	assert.False(t, seeded)
}

func TestImport_UsesEntryValidation(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	doc := &transfer.ExportData{
		Version: transfer.ExportVersion,
		Entries: []transfer.ExportEntry{
			{Name: "Offers", Href: "/offers", Type: "link", FeaturedProducts: []string{"p-1"}},
		},
	}
	_, err := s.Import(ctx, doc, transfer.ImportOptions{})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "err = %v", err)
	assert.Contains(t, ve.Fields, "entries[0]")

	doc.Entries[0].FeaturedProducts = nil
	doc.Entries[0].Name = "<i>Offers</i>"
	res, err := s.Import(ctx, doc, transfer.ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)

	flat, err := s.ListFlat(ctx, ListOptions{})
	require.NoError(t, err)
	require.Len(t, flat, 1)
	assert.Equal(t, "Offers", flat[0].Name)
}

func TestExportImportRoundTrip(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	protein := mustCreate(t, s, "Protein", nil)
	mustCreate(t, s, "Whey", protein)

	data, err := s.Export(ctx)
	require.NoError(t, err)
	require.Len(t, data.Entries, 1)
	assert.Equal(t, 2, data.Count())

	res, err := s.Import(ctx, data, transfer.ImportOptions{Replace: true})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Replaced)
	assert.Equal(t, 2, res.Created)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
