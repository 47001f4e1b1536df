// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package navview

import (
	"testing"
	"time"

	"github.com/olegiv/shopnav/internal/model"
)

func entry(id, name, href, parent string, order int, active bool) model.Entry {
	return model.Entry{
		ID:        id,
		Name:      name,
		Href:      href,
		Parent:    model.StringPtr(parent),
		Order:     order,
		IsActive:  active,
		CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func fixture() []model.Entry {
	return []model.Entry{
		entry("protein", "Protein", "/protein", "", 0, true),
		entry("whey", "Whey", "/protein/whey", "protein", 0, true),
		entry("isolate", "Isolate", "/protein/whey/isolate", "whey", 0, false),
		entry("offers", "Offers", "/offers", "", 1, true),
		entry("vitamins", "Vitamins", "/vitamins", "", 2, false),
	}
}

func rowIDs(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Entry.ID
	}
	return out
}

func assertRows(t *testing.T, rows []Row, want ...string) {
	t.Helper()
	got := rowIDs(rows)
	if len(got) != len(want) {
		t.Fatalf("rows = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("rows = %v, want %v", got, want)
		}
	}
}

func TestRenderCollapsedTree(t *testing.T) {
	v := Render(fixture(), *NewState())
	assertRows(t, v.Rows, "protein", "offers", "vitamins")
	if !v.Rows[0].HasChildren || v.Rows[0].Expanded {
		t.Errorf("protein row = %+v, want has children and collapsed", v.Rows[0])
	}
}

func TestRenderExpanded(t *testing.T) {
	st := NewState()
	st.Toggle("protein")
	v := Render(fixture(), *st)
	assertRows(t, v.Rows, "protein", "whey", "offers", "vitamins")
	if v.Rows[1].Depth != 1 {
		t.Errorf("whey depth = %d, want 1", v.Rows[1].Depth)
	}

	st.ExpandAll(fixture())
	v = Render(fixture(), *st)
	assertRows(t, v.Rows, "protein", "whey", "isolate", "offers", "vitamins")
	if v.Rows[2].Depth != 2 {
		t.Errorf("isolate depth = %d, want 2", v.Rows[2].Depth)
	}

	st.CollapseAll()
	v = Render(fixture(), *st)
	assertRows(t, v.Rows, "protein", "offers", "vitamins")
}

func TestToggleTwiceCollapses(t *testing.T) {
	st := NewState()
	st.Toggle("protein")
	st.Toggle("protein")
	if st.Expanded["protein"] {
		t.Error("second toggle should collapse")
	}
}

func TestRenderTreeSearch(t *testing.T) {
	st := State{Mode: ModeTree, Query: "ISOLATE"}
	v := Render(fixture(), st)

	// Parents stay because they have children, and open to reveal the match.
	assertRows(t, v.Rows, "protein", "whey", "isolate")
	if v.Rows[0].Match || !v.Rows[0].Expanded {
		t.Errorf("protein row = %+v", v.Rows[0])
	}
	if !v.Rows[2].Match {
		t.Error("isolate should be marked as a match")
	}
}

func TestRenderTreeSearchByHref(t *testing.T) {
	v := Render(fixture(), State{Mode: ModeTree, Query: "/offers"})
	// Protein has children, so it stays visible but does not open.
	assertRows(t, v.Rows, "protein", "offers")
	if v.Rows[0].Expanded {
		t.Error("protein should stay collapsed without a matching descendant")
	}
}

func TestRenderFlat(t *testing.T) {
	v := Render(fixture(), State{Mode: ModeFlat})
	assertRows(t, v.Rows, "protein", "whey", "isolate", "offers", "vitamins")
	for _, r := range v.Rows {
		if r.Depth != 0 {
			t.Errorf("%s depth = %d, want 0", r.Entry.ID, r.Depth)
		}
	}

	v = Render(fixture(), State{Mode: ModeFlat, Query: "whey"})
	assertRows(t, v.Rows, "whey", "isolate")
}

func TestStatsIgnoreSearch(t *testing.T) {
	v := Render(fixture(), State{Mode: ModeFlat, Query: "nothing matches"})
	if len(v.Rows) != 0 {
		t.Errorf("rows = %v, want none", rowIDs(v.Rows))
	}
	want := Stats{Total: 5, Roots: 3, Inactive: 2}
	if v.Stats != want {
		t.Errorf("Stats = %+v, want %+v", v.Stats, want)
	}
}

func TestParseMode(t *testing.T) {
	if ParseMode("flat") != ModeFlat {
		t.Error("flat should parse")
	}
	if ParseMode("") != ModeTree || ParseMode("bogus") != ModeTree {
		t.Error("unknown modes should default to tree")
	}
}
