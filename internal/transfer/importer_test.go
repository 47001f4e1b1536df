// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/shopnav/internal/model"
	"github.com/olegiv/shopnav/internal/navtree"
	"github.com/olegiv/shopnav/internal/testutil"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatJSON, false},
		{"json", FormatJSON, false},
		{"YAML", FormatYAML, false},
		{"yml", FormatYAML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestImport_CreatesTree(t *testing.T) {
	ts := setupTest(t)
	defer ts.Cleanup()

	importer := NewImporter(ts.DB, testutil.TestLoggerSilent())
	result, err := importer.Import(ts.Ctx, sampleDocument(), ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 4, result.Created)
	assert.Empty(t, result.Errors)

	entries, err := ts.Queries.LoadEntries(ts.Ctx)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	tree := navtree.Build(entries)
	require.Len(t, tree, 2)
	assert.Equal(t, "Protein", tree[0].Name)
	assert.Equal(t, 0, tree[0].Order)
	assert.Equal(t, "Offers", tree[1].Name)
	assert.Equal(t, 1, tree[1].Order)
	assert.False(t, tree[1].IsActive)
	assert.True(t, tree[0].IsActive)
	assert.Equal(t, []string{"p-1", "p-2"}, tree[0].FeaturedProducts)

	require.Len(t, tree[0].Children, 1)
	whey := tree[0].Children[0]
	assert.Equal(t, "whey", whey.Slug)
	require.Len(t, whey.Children, 1)
	assert.Equal(t, "Isolate", whey.Children[0].Name)

	// Offers had no type, so it became a link with the default flags.
	assert.Equal(t, model.TypeLink, tree[1].Type)
	assert.True(t, tree[1].ShowInHeader)
	assert.False(t, tree[1].ShowInFooter)
}

func TestImport_SlugCollisions(t *testing.T) {
	ts := setupTest(t)
	defer ts.Cleanup()

	importer := NewImporter(ts.DB, testutil.TestLoggerSilent())
	_, err := importer.Import(ts.Ctx, sampleDocument(), ImportOptions{})
	require.NoError(t, err)
	_, err = importer.Import(ts.Ctx, sampleDocument(), ImportOptions{})
	require.NoError(t, err)

	taken, err := ts.Queries.SlugTaken(ts.Ctx, "protein-2", "")
	require.NoError(t, err)
	assert.True(t, taken)

	count, err := ts.Queries.CountNavigationItems(ts.Ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(8), count)
}

func TestImport_Replace(t *testing.T) {
	ts := setupTest(t)
	defer ts.Cleanup()

	testutil.InsertEntry(t, ts.DB, "old", nil)

	importer := NewImporter(ts.DB, testutil.TestLoggerSilent())
	result, err := importer.Import(ts.Ctx, sampleDocument(), ImportOptions{Replace: true})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Replaced)

	taken, err := ts.Queries.SlugTaken(ts.Ctx, "old", "")
	require.NoError(t, err)
	assert.False(t, taken, "replaced entries should be gone")
}

func TestImport_RequireEmpty(t *testing.T) {
	ts := setupTest(t)
	defer ts.Cleanup()

	testutil.InsertEntry(t, ts.DB, "existing", nil)

	importer := NewImporter(ts.DB, testutil.TestLoggerSilent())
	_, err := importer.Import(ts.Ctx, sampleDocument(), ImportOptions{RequireEmpty: true})

	var notEmpty *NotEmptyError
	require.True(t, errors.As(err, &notEmpty), "err = %v", err)
	assert.Equal(t, 1, notEmpty.Count)

	count, err := ts.Queries.CountNavigationItems(ts.Ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestImport_DryRun(t *testing.T) {
	ts := setupTest(t)
	defer ts.Cleanup()

	importer := NewImporter(ts.DB, testutil.TestLoggerSilent())
	result, err := importer.Import(ts.Ctx, sampleDocument(), ImportOptions{DryRun: true})
	require.NoError(t, err)
	assert.True(t, result.DryRun)
	assert.Equal(t, 4, result.Created)

	count, err := ts.Queries.CountNavigationItems(ts.Ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestImport_ValidationErrors(t *testing.T) {
	ts := setupTest(t)
	defer ts.Cleanup()

	doc := sampleDocument()
	doc.Entries[0].Children[0].Href = ""
	doc.Entries[1].Type = "banner"

	importer := NewImporter(ts.DB, testutil.TestLoggerSilent())
	result, err := importer.Import(ts.Ctx, doc, ImportOptions{})
	require.ErrorIs(t, err, ErrInvalidDocument)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, "entries[0].children[0]", result.Errors[0].Path)
	assert.Equal(t, "entries[1]", result.Errors[1].Path)

	count, err := ts.Queries.CountNavigationItems(ts.Ctx)
	require.NoError(t, err)
	assert.Zero(t, count, "nothing should be stored")
}

func TestImport_EntryCheck(t *testing.T) {
	ts := setupTest(t)
	defer ts.Cleanup()

	importer := NewImporter(ts.DB, testutil.TestLoggerSilent())
	importer.SetEntryCheck(func(e *model.Entry) error {
		if strings.Contains(e.Name, "Whey") {
			return fmt.Errorf("no whey")
		}
		e.Name = strings.ToUpper(e.Name)
		return nil
	})

	result, err := importer.Import(ts.Ctx, sampleDocument(), ImportOptions{})
	require.ErrorIs(t, err, ErrInvalidDocument)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "entries[0].children[0]: no whey", result.Errors[0].Error())

	doc := sampleDocument()
	doc.Entries[0].Children = nil
	_, err = importer.Import(ts.Ctx, doc, ImportOptions{})
	require.NoError(t, err)

	entries, err := ts.Queries.LoadEntries(ts.Ctx)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	assert.ElementsMatch(t, []string{"PROTEIN", "OFFERS"}, names)
}

func TestImport_Version(t *testing.T) {
	importer := NewImporter(nil, testutil.TestLoggerSilent())

	errs := importer.Validate(&ExportData{})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "missing version")

	errs = importer.Validate(&ExportData{Version: "9.9"})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "unsupported version")
}

func TestDefaultNavigation(t *testing.T) {
	data, err := DefaultNavigation()
	require.NoError(t, err)
	assert.Equal(t, ExportVersion, data.Version)
	assert.Equal(t, 28, data.Count())
	assert.Empty(t, NewImporter(nil, testutil.TestLoggerSilent()).Validate(data))

	names := make([]string, 0, len(data.Entries))
	for _, e := range data.Entries {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{
		"Protein", "Pre-Workout", "Mass Gainer", "Amino Acids", "Creatine",
		"Vitamins & Health", "Bestsellers", "New Arrivals", "Offers",
	}, names)
}
