// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"context"
	"database/sql"
	"testing"

	"github.com/olegiv/shopnav/internal/store"
	"github.com/olegiv/shopnav/internal/testutil"
)

// testSetup contains common test dependencies.
type testSetup struct {
	DB      *sql.DB
	Queries *store.Queries
	Ctx     context.Context
	Cleanup func()
}

// setupTest creates a migrated database and its queries.
func setupTest(t *testing.T) *testSetup {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	return &testSetup{
		DB:      db,
		Queries: store.New(db),
		Ctx:     context.Background(),
		Cleanup: cleanup,
	}
}

func boolPtr(b bool) *bool { return &b }

// sampleDocument is Protein > Whey > Isolate plus a second root.
func sampleDocument() *ExportData {
	return &ExportData{
		Version: ExportVersion,
		Entries: []ExportEntry{
			{
				Name: "Protein",
				Href: "/collections/protein",
				Type: "megamenu",
				Children: []ExportEntry{
					{
						Name: "Whey",
						Href: "/collections/whey",
						Type: "subcategory",
						Children: []ExportEntry{
							{Name: "Isolate", Href: "/collections/isolate", Type: "subcategory"},
						},
					},
				},
				FeaturedProducts: []string{"p-1", "p-2"},
			},
			{Name: "Offers", Href: "/collections/offers", IsActive: boolPtr(false)},
		},
	}
}
