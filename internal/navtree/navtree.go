// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package navtree assembles flat navigation entries into an ordered tree and
// answers structural questions about it (descendants, ancestors, siblings,
// effective visibility). All functions are pure and never modify their input.
package navtree

import (
	"sort"

	"github.com/olegiv/shopnav/internal/model"
)

// Node is an entry with its ordered children.
type Node struct {
	model.Entry
	Children []Node `json:"children"`
}

// index groups entries by parent id; roots live under "".
type index struct {
	byID     map[string]*model.Entry
	children map[string][]*model.Entry
}

func newIndex(flat []model.Entry) index {
	idx := index{
		byID:     make(map[string]*model.Entry, len(flat)),
		children: make(map[string][]*model.Entry),
	}
	for i := range flat {
		e := &flat[i]
		idx.byID[e.ID] = e
		idx.children[e.ParentID()] = append(idx.children[e.ParentID()], e)
	}
	for _, kids := range idx.children {
		sort.SliceStable(kids, func(a, b int) bool { return model.Less(kids[a], kids[b]) })
	}
	return idx
}

// Build nests flat entries under their parents. Roots and every child list are
// sorted by order, ties broken by insertion. Entries whose parent is not in
// flat are dropped, as are entries caught in a parent cycle.
func Build(flat []model.Entry) []Node {
	idx := newIndex(flat)
	visited := make(map[string]bool, len(flat))
	return idx.build("", visited)
}

func (idx index) build(parent string, visited map[string]bool) []Node {
	kids := idx.children[parent]
	if len(kids) == 0 {
		return []Node{}
	}
	nodes := make([]Node, 0, len(kids))
	for _, e := range kids {
		if visited[e.ID] {
			continue
		}
		visited[e.ID] = true
		nodes = append(nodes, Node{
			Entry:    e.Clone(),
			Children: idx.build(e.ID, visited),
		})
	}
	return nodes
}

// Flatten walks the tree depth-first in pre-order.
func Flatten(tree []Node) []model.Entry {
	var out []model.Entry
	var walk func(nodes []Node)
	walk = func(nodes []Node) {
		for _, n := range nodes {
			out = append(out, n.Entry.Clone())
			walk(n.Children)
		}
	}
	walk(tree)
	if out == nil {
		return []model.Entry{}
	}
	return out
}

// Descendants returns every entry below id, children before their parents,
// so the result can be deleted front to back without orphaning anything.
func Descendants(id string, flat []model.Entry) []model.Entry {
	idx := newIndex(flat)
	visited := map[string]bool{id: true}
	var out []model.Entry
	var walk func(parent string)
	walk = func(parent string) {
		for _, e := range idx.children[parent] {
			if visited[e.ID] {
				continue
			}
			visited[e.ID] = true
			walk(e.ID)
			out = append(out, e.Clone())
		}
	}
	walk(id)
	return out
}

// CountDescendants returns the number of entries below id at any depth.
func CountDescendants(id string, flat []model.Entry) int {
	return len(Descendants(id, flat))
}

// Siblings returns the entries sharing e's parent, e included, in order.
func Siblings(e model.Entry, flat []model.Entry) []model.Entry {
	var out []model.Entry
	for i := range flat {
		if flat[i].SameParent(&e) {
			out = append(out, flat[i].Clone())
		}
	}
	SortSiblings(out)
	return out
}

// SortSiblings orders entries by order, ties broken by insertion.
func SortSiblings(entries []model.Entry) {
	sort.SliceStable(entries, func(a, b int) bool { return model.Less(&entries[a], &entries[b]) })
}

// Ancestors returns the chain above id, nearest parent first. The walk stops
// at a root, at a parent missing from flat, or when a cycle is detected.
func Ancestors(id string, flat []model.Entry) []model.Entry {
	idx := newIndex(flat)
	e, ok := idx.byID[id]
	if !ok {
		return nil
	}
	seen := map[string]bool{id: true}
	var out []model.Entry
	for e.Parent != nil {
		p, ok := idx.byID[*e.Parent]
		if !ok || seen[p.ID] {
			break
		}
		seen[p.ID] = true
		out = append(out, p.Clone())
		e = p
	}
	return out
}

// IsAncestor reports whether candidate sits anywhere above id.
func IsAncestor(candidate, id string, flat []model.Entry) bool {
	for _, a := range Ancestors(id, flat) {
		if a.ID == candidate {
			return true
		}
	}
	return false
}

// EffectivelyVisible reports whether id is active and so is every ancestor.
func EffectivelyVisible(id string, flat []model.Entry) bool {
	idx := newIndex(flat)
	e, ok := idx.byID[id]
	if !ok || !e.IsActive {
		return false
	}
	for _, a := range Ancestors(id, flat) {
		if !a.IsActive {
			return false
		}
	}
	return true
}

// Filter keeps the nodes for which keep returns true. A dropped node takes its
// whole subtree with it.
func Filter(tree []Node, keep func(Node) bool) []Node {
	out := make([]Node, 0, len(tree))
	for _, n := range tree {
		if !keep(n) {
			continue
		}
		n.Children = Filter(n.Children, keep)
		out = append(out, n)
	}
	return out
}

// Find returns the node with id, searching depth-first.
func Find(tree []Node, id string) (Node, bool) {
	for _, n := range tree {
		if n.ID == id {
			return n, true
		}
		if found, ok := Find(n.Children, id); ok {
			return found, true
		}
	}
	return Node{}, false
}
