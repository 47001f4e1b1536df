// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/olegiv/shopnav/internal/metrics"
	"github.com/olegiv/shopnav/internal/model"
	"github.com/olegiv/shopnav/internal/store"
)

// Direction is the way an entry moves among its siblings.
type Direction string

// Move directions
const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// ParseDirection validates a direction value.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirectionUp, DirectionDown:
		return Direction(s), nil
	default:
		return "", invalid("direction", `must be "up" or "down"`)
	}
}

// MoveResult reports a move and the sibling group as it is afterwards.
type MoveResult struct {
	Moved   bool          `json:"moved"`
	Entries []model.Entry `json:"entries"`
}

// OrderUpdate is one half of a reorder request.
type OrderUpdate struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
}

// Move swaps id with its previous (up) or next (down) sibling. Moving the
// first entry up or the last one down changes nothing and is not an error.
// The parent never changes.
func (s *NavigationService) Move(ctx context.Context, id string, dir Direction) (MoveResult, error) {
	if _, err := ParseDirection(string(dir)); err != nil {
		return MoveResult{}, s.rejected(metrics.OpMove, err)
	}

	var result MoveResult
	err := store.ExecTx(ctx, s.db, func(q *store.Queries) error {
		e, err := q.GetNavigationItem(ctx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return notFound(id)
		}
		if err != nil {
			return fmt.Errorf("loading entry: %w", err)
		}
		parent := store.ToEntry(e, nil).Parent

		siblings, err := q.LoadSiblings(ctx, parent)
		if err != nil {
			return fmt.Errorf("loading siblings: %w", err)
		}
		i := indexOf(siblings, id)
		if i < 0 {
			return notFound(id)
		}
		j := i - 1
		if dir == DirectionDown {
			j = i + 1
		}
		if j < 0 || j >= len(siblings) {
			result.Entries = siblings
			return nil
		}

		if err := swapOrders(ctx, q, siblings, i, j); err != nil {
			return err
		}
		result.Moved = true

		result.Entries, err = q.LoadSiblings(ctx, parent)
		if err != nil {
			return fmt.Errorf("reloading siblings: %w", err)
		}
		return nil
	})
	if err != nil {
		return MoveResult{}, s.rejected(metrics.OpMove, err)
	}

	if result.Moved {
		s.mutated(ctx, metrics.OpMove, "navigation item moved", "id", id, "direction", string(dir))
	}
	return result, nil
}

// swapOrders exchanges the order values of siblings i and j. When both carry
// the same value a swap would be invisible, so the group is renumbered
// 0..n-1 in its new sequence instead, writing only the rows that change.
func swapOrders(ctx context.Context, q *store.Queries, siblings []model.Entry, i, j int) error {
	a, b := siblings[i], siblings[j]
	if a.Order != b.Order {
		if err := q.SetPosition(ctx, a.ID, b.Order); err != nil {
			return fmt.Errorf("updating %s: %w", a.ID, err)
		}
		if err := q.SetPosition(ctx, b.ID, a.Order); err != nil {
			return fmt.Errorf("updating %s: %w", b.ID, err)
		}
		return nil
	}

	seq := make([]model.Entry, len(siblings))
	copy(seq, siblings)
	seq[i], seq[j] = seq[j], seq[i]
	for pos, e := range seq {
		if e.Order == pos {
			continue
		}
		if err := q.SetPosition(ctx, e.ID, pos); err != nil {
			return fmt.Errorf("updating %s: %w", e.ID, err)
		}
	}
	return nil
}

func indexOf(entries []model.Entry, id string) int {
	for i := range entries {
		if entries[i].ID == id {
			return i
		}
	}
	return -1
}

// Reorder applies a client-computed swap of two siblings. The requested
// orders must be exactly the two entries' current orders exchanged; anything
// else means the client worked from stale data and is a conflict. Nothing is
// written unless both updates succeed.
func (s *NavigationService) Reorder(ctx context.Context, items []OrderUpdate) ([]model.Entry, error) {
	if len(items) != 2 {
		return nil, s.rejected(metrics.OpReorder, invalid("items", "exactly two items are required"))
	}
	if items[0].ID == "" || items[1].ID == "" {
		return nil, s.rejected(metrics.OpReorder, invalid("items", "item ids are required"))
	}
	if items[0].ID == items[1].ID {
		return nil, s.rejected(metrics.OpReorder, invalid("items", "items must be two different entries"))
	}

	var out []model.Entry
	err := store.ExecTx(ctx, s.db, func(q *store.Queries) error {
		current := make([]model.Entry, 2)
		for k, it := range items {
			row, err := q.GetNavigationItem(ctx, it.ID)
			if errors.Is(err, sql.ErrNoRows) {
				return notFound(it.ID)
			}
			if err != nil {
				return fmt.Errorf("loading entry: %w", err)
			}
			current[k] = store.ToEntry(row, nil)
		}

		if !current[0].SameParent(&current[1]) {
			return conflict("entries %s and %s are not siblings", items[0].ID, items[1].ID)
		}
		if items[0].Order != current[1].Order || items[1].Order != current[0].Order {
			return conflict("order values are out of date; reload and try again")
		}

		for _, it := range items {
			if err := q.SetPosition(ctx, it.ID, it.Order); err != nil {
				return fmt.Errorf("updating %s: %w", it.ID, err)
			}
		}

		var err error
		out, err = q.LoadSiblings(ctx, current[0].Parent)
		if err != nil {
			return fmt.Errorf("reloading siblings: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, s.rejected(metrics.OpReorder, err)
	}

	s.mutated(ctx, metrics.OpReorder, "navigation items reordered", "first", items[0].ID, "second", items[1].ID)
	return out, nil
}
