// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"testing"
	"time"
)

func TestIsValidType(t *testing.T) {
	tests := []struct {
		typ  EntryType
		want bool
	}{
		{TypeCategory, true},
		{TypeSubcategory, true},
		{TypeLink, true},
		{TypeMegamenu, true},
		{"", false},
		{"folder", false},
		{"Link", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			if got := IsValidType(tt.typ); got != tt.want {
				t.Errorf("IsValidType(%q) = %v, want %v", tt.typ, got, tt.want)
			}
		})
	}
}

func TestSupportsMerchandising(t *testing.T) {
	if !TypeCategory.SupportsMerchandising() || !TypeMegamenu.SupportsMerchandising() {
		t.Error("category and megamenu should support merchandising")
	}
	if TypeLink.SupportsMerchandising() || TypeSubcategory.SupportsMerchandising() {
		t.Error("link and subcategory should not support merchandising")
	}
}

func TestEntryClone(t *testing.T) {
	parent := "p1"
	e := Entry{
		ID:     "a",
		Parent: &parent,
		Merchandising: Merchandising{
			Image:            &Image{Src: "/hero.jpg", Alt: "Hero"},
			FeaturedProducts: []string{"x", "y"},
		},
	}

	c := e.Clone()
	*c.Parent = "other"
	c.Image.Src = "/changed.jpg"
	c.FeaturedProducts[0] = "z"

	if *e.Parent != "p1" {
		t.Errorf("parent mutated through clone: %q", *e.Parent)
	}
	if e.Image.Src != "/hero.jpg" {
		t.Errorf("image mutated through clone: %q", e.Image.Src)
	}
	if e.FeaturedProducts[0] != "x" {
		t.Errorf("featured products mutated through clone: %v", e.FeaturedProducts)
	}
}

func TestLess(t *testing.T) {
	now := time.Now()
	a := &Entry{Order: 1, CreatedAt: now}
	b := &Entry{Order: 2, CreatedAt: now.Add(-time.Hour)}
	if !Less(a, b) {
		t.Error("lower order should sort first")
	}

	c := &Entry{Order: 1, CreatedAt: now.Add(time.Second)}
	if !Less(a, c) {
		t.Error("equal order should fall back to creation time")
	}

	d := &Entry{Order: 1, CreatedAt: now, Seq: 2}
	e := &Entry{Order: 1, CreatedAt: now, Seq: 1}
	if !Less(e, d) {
		t.Error("equal order and time should fall back to insertion sequence")
	}
}

func TestSameParent(t *testing.T) {
	p := "root-1"
	q := "root-1"
	a := &Entry{Parent: &p}
	b := &Entry{Parent: &q}
	c := &Entry{}
	d := &Entry{}

	if !a.SameParent(b) {
		t.Error("entries with equal parent ids should be siblings")
	}
	if a.SameParent(c) {
		t.Error("child and root should not be siblings")
	}
	if !c.SameParent(d) {
		t.Error("two roots should be siblings")
	}
}
