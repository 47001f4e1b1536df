// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package navview turns the navigation collection into the rows an admin
// screen shows: tree or flat mode, search, expand/collapse and summary stats.
package navview

import (
	"sort"
	"strings"

	"github.com/olegiv/shopnav/internal/model"
	"github.com/olegiv/shopnav/internal/navtree"
)

// Mode selects how rows are laid out.
type Mode string

// View modes
const (
	ModeTree Mode = "tree"
	ModeFlat Mode = "flat"
)

// ParseMode returns the mode named by s, defaulting to tree.
func ParseMode(s string) Mode {
	if Mode(s) == ModeFlat {
		return ModeFlat
	}
	return ModeTree
}

// State is the admin screen's view state.
type State struct {
	Mode     Mode
	Query    string
	Expanded map[string]bool
}

// NewState returns a tree-mode state with everything collapsed.
func NewState() *State {
	return &State{Mode: ModeTree, Expanded: make(map[string]bool)}
}

// Toggle flips the expansion of one entry.
func (s *State) Toggle(id string) {
	if s.Expanded == nil {
		s.Expanded = make(map[string]bool)
	}
	if s.Expanded[id] {
		delete(s.Expanded, id)
		return
	}
	s.Expanded[id] = true
}

// ExpandAll marks every entry expanded.
func (s *State) ExpandAll(entries []model.Entry) {
	s.Expanded = make(map[string]bool, len(entries))
	for _, e := range entries {
		s.Expanded[e.ID] = true
	}
}

// CollapseAll clears every expansion.
func (s *State) CollapseAll() {
	s.Expanded = make(map[string]bool)
}

// Row is one visible line of the admin list.
type Row struct {
	Entry       model.Entry `json:"entry"`
	Depth       int         `json:"depth"`
	HasChildren bool        `json:"hasChildren"`
	Expanded    bool        `json:"expanded"`
	Match       bool        `json:"match"`
}

// Stats summarises the whole collection, independent of search.
type Stats struct {
	Total    int `json:"total"`
	Roots    int `json:"roots"`
	Inactive int `json:"inactive"`
}

// View is the rendered screen.
type View struct {
	Mode  Mode   `json:"mode"`
	Query string `json:"query,omitempty"`
	Rows  []Row  `json:"rows"`
	Stats Stats  `json:"stats"`
}

// ComputeStats counts all, root and inactive entries.
func ComputeStats(entries []model.Entry) Stats {
	st := Stats{Total: len(entries)}
	for _, e := range entries {
		if e.IsRoot() {
			st.Roots++
		}
		if !e.IsActive {
			st.Inactive++
		}
	}
	return st
}

// Matches reports whether e's name or href contains query, ignoring case.
// An empty query matches everything.
func Matches(e model.Entry, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(e.Name), q) ||
		strings.Contains(strings.ToLower(e.Href), q)
}

// Render lays out entries according to st.
//
// In tree mode a non-matching entry is kept only while it has children, and a
// search match below a collapsed entry opens it. Collapsed entries hide their
// children. Flat mode lists matches only, sorted by order, all at depth 0.
func Render(entries []model.Entry, st State) View {
	v := View{
		Mode:  st.Mode,
		Query: st.Query,
		Rows:  []Row{},
		Stats: ComputeStats(entries),
	}
	if v.Mode == "" {
		v.Mode = ModeTree
	}

	if v.Mode == ModeFlat {
		sorted := make([]model.Entry, len(entries))
		copy(sorted, entries)
		sort.SliceStable(sorted, func(a, b int) bool { return model.Less(&sorted[a], &sorted[b]) })
		for _, e := range sorted {
			if !Matches(e, st.Query) {
				continue
			}
			v.Rows = append(v.Rows, Row{Entry: e, Match: true})
		}
		return v
	}

	searching := strings.TrimSpace(st.Query) != ""
	var walk func(nodes []navtree.Node, depth int)
	walk = func(nodes []navtree.Node, depth int) {
		for _, n := range nodes {
			hasChildren := len(n.Children) > 0
			match := Matches(n.Entry, st.Query)
			if !match && !hasChildren {
				continue
			}
			expanded := hasChildren && (st.Expanded[n.ID] || (searching && subtreeMatches(n.Children, st.Query)))
			v.Rows = append(v.Rows, Row{
				Entry:       n.Entry,
				Depth:       depth,
				HasChildren: hasChildren,
				Expanded:    expanded,
				Match:       match,
			})
			if expanded {
				walk(n.Children, depth+1)
			}
		}
	}
	walk(navtree.Build(entries), 0)
	return v
}

func subtreeMatches(nodes []navtree.Node, query string) bool {
	for _, n := range nodes {
		if Matches(n.Entry, query) || subtreeMatches(n.Children, query) {
			return true
		}
	}
	return false
}
