// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package client

import (
	"context"
	"sync"

	"github.com/olegiv/shopnav/internal/model"
	"github.com/olegiv/shopnav/internal/navtree"
)

// State caches the tree and flat list. It loads on first use and again after
// Invalidate.
type State struct {
	admin *Admin

	mu    sync.Mutex
	valid bool
	tree  []navtree.Node
	flat  []model.Entry
}

func newState(a *Admin) *State {
	return &State{admin: a}
}

// Invalidate marks the cached lists stale.
func (s *State) Invalidate() {
	s.mu.Lock()
	s.valid = false
	s.mu.Unlock()
}

// Refresh refetches both lists. On failure the previous lists are kept and
// the state stays stale.
func (s *State) Refresh(ctx context.Context) error {
	tree, err := s.admin.Tree(ctx)
	if err != nil {
		return err
	}
	flat, err := s.admin.Flat(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.tree, s.flat, s.valid = tree, flat, true
	s.mu.Unlock()
	return nil
}

func (s *State) ensure(ctx context.Context) error {
	s.mu.Lock()
	valid := s.valid
	s.mu.Unlock()
	if valid {
		return nil
	}
	return s.Refresh(ctx)
}

// Tree returns the nested list, loading it if stale.
func (s *State) Tree(ctx context.Context) ([]navtree.Node, error) {
	if err := s.ensure(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree, nil
}

// Flat returns the flat list, loading it if stale.
func (s *State) Flat(ctx context.Context) ([]model.Entry, error) {
	if err := s.ensure(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flat, nil
}

// Valid reports whether the cached lists are current.
func (s *State) Valid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.valid
}
