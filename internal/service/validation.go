// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"errors"
	"html"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/microcosm-cc/bluemonday"

	"github.com/olegiv/shopnav/internal/model"
	"github.com/olegiv/shopnav/internal/util"
)

// Limits not carried by the model.
const (
	maxHrefLength       = 2048
	maxIconLength       = 64
	maxCSSClassLength   = 200
	maxFeaturedProducts = 12
)

var badgeColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// labelPolicy strips all markup from plain-text labels.
var labelPolicy = bluemonday.StrictPolicy()

// stripTags removes HTML from a label. The strict policy escapes what it
// keeps, so entities are decoded back to plain text.
func stripTags(s string) string {
	return strings.TrimSpace(html.UnescapeString(labelPolicy.Sanitize(s)))
}

// CreateInput is the payload for creating an entry. Nil flags take the
// defaults of a new entry.
type CreateInput struct {
	Name             string          `json:"name"`
	Href             string          `json:"href"`
	Type             model.EntryType `json:"type"`
	Parent           *string         `json:"parent"`
	IsActive         *bool           `json:"isActive"`
	Icon             string          `json:"icon"`
	Badge            string          `json:"badge"`
	BadgeColor       string          `json:"badgeColor"`
	Description      string          `json:"description"`
	CSSClass         string          `json:"cssClass"`
	Image            *model.Image    `json:"image"`
	ShowInHeader     *bool           `json:"showInHeader"`
	ShowInFooter     *bool           `json:"showInFooter"`
	ShowInMobile     *bool           `json:"showInMobile"`
	OpenInNewTab     bool            `json:"openInNewTab"`
	FeaturedProducts []string        `json:"featuredProducts"`
}

func (in CreateInput) entry() model.Entry {
	display := model.DefaultDisplay()
	if in.ShowInHeader != nil {
		display.ShowInHeader = *in.ShowInHeader
	}
	if in.ShowInFooter != nil {
		display.ShowInFooter = *in.ShowInFooter
	}
	if in.ShowInMobile != nil {
		display.ShowInMobile = *in.ShowInMobile
	}
	display.OpenInNewTab = in.OpenInNewTab

	e := model.Entry{
		Name:        in.Name,
		Href:        in.Href,
		Type:        in.Type,
		IsActive:    in.IsActive == nil || *in.IsActive,
		Icon:        in.Icon,
		Badge:       in.Badge,
		BadgeColor:  in.BadgeColor,
		Description: in.Description,
		CSSClass:    in.CSSClass,
		Display:     display,
	}
	if in.Parent != nil {
		e.Parent = model.StringPtr(strings.TrimSpace(*in.Parent))
	}
	if in.Image != nil {
		img := *in.Image
		e.Image = &img
	}
	e.FeaturedProducts = append([]string{}, in.FeaturedProducts...)
	return e
}

// Patch is a partial update. Absent fields are left unchanged; null clears
// optional fields and moves the entry to the root when given for parent.
type Patch struct {
	Name             util.Optional[string]          `json:"name,omitzero"`
	Href             util.Optional[string]          `json:"href,omitzero"`
	Type             util.Optional[model.EntryType] `json:"type,omitzero"`
	Parent           util.Optional[string]          `json:"parent,omitzero"`
	IsActive         util.Optional[bool]            `json:"isActive,omitzero"`
	Icon             util.Optional[string]          `json:"icon,omitzero"`
	Badge            util.Optional[string]          `json:"badge,omitzero"`
	BadgeColor       util.Optional[string]          `json:"badgeColor,omitzero"`
	Description      util.Optional[string]          `json:"description,omitzero"`
	CSSClass         util.Optional[string]          `json:"cssClass,omitzero"`
	Image            util.Optional[model.Image]     `json:"image,omitzero"`
	ShowInHeader     util.Optional[bool]            `json:"showInHeader,omitzero"`
	ShowInFooter     util.Optional[bool]            `json:"showInFooter,omitzero"`
	ShowInMobile     util.Optional[bool]            `json:"showInMobile,omitzero"`
	OpenInNewTab     util.Optional[bool]            `json:"openInNewTab,omitzero"`
	FeaturedProducts util.Optional[[]string]        `json:"featuredProducts,omitzero"`
}

// IsEmpty reports whether the patch carries no field at all.
func (p Patch) IsEmpty() bool {
	return !p.Name.Present && !p.Href.Present && !p.Type.Present && !p.Parent.Present &&
		!p.IsActive.Present && !p.Icon.Present && !p.Badge.Present && !p.BadgeColor.Present &&
		!p.Description.Present && !p.CSSClass.Present && !p.Image.Present &&
		!p.ShowInHeader.Present && !p.ShowInFooter.Present && !p.ShowInMobile.Present &&
		!p.OpenInNewTab.Present && !p.FeaturedProducts.Present
}

// setsMerchandising reports whether the patch explicitly provides an image
// or featured products.
func (p Patch) setsMerchandising() bool {
	return p.Image.Set() || (p.FeaturedProducts.Set() && len(p.FeaturedProducts.Value) > 0)
}

// apply merges the patch into e. Flags cannot be null.
func (p Patch) apply(e *model.Entry) error {
	fields := map[string]string{}
	flag := func(name string, o util.Optional[bool], dst *bool) {
		if !o.Present {
			return
		}
		if o.Null {
			fields[name] = "cannot be null"
			return
		}
		*dst = o.Value
	}
	text := func(o util.Optional[string], dst *string) {
		if o.Present {
			*dst = o.Value
		}
	}

	text(p.Name, &e.Name)
	text(p.Href, &e.Href)
	text(p.Icon, &e.Icon)
	text(p.Badge, &e.Badge)
	text(p.BadgeColor, &e.BadgeColor)
	text(p.Description, &e.Description)
	text(p.CSSClass, &e.CSSClass)

	if p.Type.Present {
		e.Type = p.Type.Value
	}
	if p.Parent.Present {
		e.Parent = model.StringPtr(strings.TrimSpace(p.Parent.Value))
	}

	flag("isActive", p.IsActive, &e.IsActive)
	flag("showInHeader", p.ShowInHeader, &e.ShowInHeader)
	flag("showInFooter", p.ShowInFooter, &e.ShowInFooter)
	flag("showInMobile", p.ShowInMobile, &e.ShowInMobile)
	flag("openInNewTab", p.OpenInNewTab, &e.OpenInNewTab)

	if p.Image.Present {
		if p.Image.Null {
			e.Image = nil
		} else {
			img := p.Image.Value
			e.Image = &img
		}
	}
	if p.FeaturedProducts.Present {
		e.FeaturedProducts = append([]string{}, p.FeaturedProducts.Value...)
	}

	if len(fields) > 0 {
		return &ValidationError{Message: "Validation failed", Fields: fields}
	}
	return nil
}

// normalizeEntry trims and sanitizes e in place and fills in defaults.
func normalizeEntry(e *model.Entry) {
	e.Name = stripTags(e.Name)
	e.Href = strings.TrimSpace(e.Href)
	e.Icon = strings.TrimSpace(e.Icon)
	e.Badge = stripTags(e.Badge)
	e.BadgeColor = strings.TrimSpace(e.BadgeColor)
	e.Description = strings.TrimSpace(e.Description)
	e.CSSClass = strings.TrimSpace(e.CSSClass)

	if e.Type == "" {
		e.Type = model.TypeLink
	}
	if e.Badge == "" {
		e.BadgeColor = ""
	} else if e.BadgeColor == "" {
		e.BadgeColor = model.DefaultBadgeColor
	}

	if e.Image != nil {
		e.Image.Src = strings.TrimSpace(e.Image.Src)
		e.Image.Alt = stripTags(e.Image.Alt)
		if e.Image.Src == "" {
			e.Image = nil
		}
	}

	seen := make(map[string]bool, len(e.FeaturedProducts))
	products := make([]string, 0, len(e.FeaturedProducts))
	for _, id := range e.FeaturedProducts {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		products = append(products, id)
	}
	e.FeaturedProducts = products
}

// entryForm is the flat view of an entry the validation rules run on.
type entryForm struct {
	Name             string   `json:"name"`
	Href             string   `json:"href"`
	Type             string   `json:"type"`
	Icon             string   `json:"icon"`
	Badge            string   `json:"badge"`
	BadgeColor       string   `json:"badgeColor"`
	Description      string   `json:"description"`
	CSSClass         string   `json:"cssClass"`
	Image            string   `json:"image"`
	FeaturedProducts []string `json:"featuredProducts"`

	merchandising bool
}

func (f *entryForm) Validate() error {
	return validation.ValidateStruct(f,
		validation.Field(&f.Name,
			validation.Required.Error("is required"),
			validation.RuneLength(1, model.MaxNameLength),
		),
		validation.Field(&f.Href,
			validation.Required.Error("is required"),
			validation.RuneLength(1, maxHrefLength),
		),
		validation.Field(&f.Type,
			validation.Required,
			validation.In(typeValues()...).Error("must be one of category, subcategory, link, megamenu"),
		),
		validation.Field(&f.Icon, validation.RuneLength(0, maxIconLength)),
		validation.Field(&f.Badge, validation.RuneLength(0, model.MaxBadgeLength)),
		validation.Field(&f.BadgeColor,
			validation.Match(badgeColorRegex).Error("must be a hex colour like #1B198F"),
		),
		validation.Field(&f.Description, validation.RuneLength(0, model.MaxDescriptionLength)),
		validation.Field(&f.CSSClass, validation.RuneLength(0, maxCSSClassLength)),
		validation.Field(&f.Image,
			validation.When(!f.merchandising, validation.Empty.Error("only category and megamenu entries can have an image")),
		),
		validation.Field(&f.FeaturedProducts,
			validation.When(!f.merchandising, validation.Empty.Error("only category and megamenu entries can feature products")),
			validation.Length(0, maxFeaturedProducts),
		),
	)
}

func typeValues() []any {
	out := make([]any, len(model.ValidTypes))
	for i, t := range model.ValidTypes {
		out[i] = string(t)
	}
	return out
}

// validateEntry normalizes e and checks it as a whole.
func validateEntry(e *model.Entry) error {
	normalizeEntry(e)

	form := entryForm{
		Name:             e.Name,
		Href:             e.Href,
		Type:             string(e.Type),
		Icon:             e.Icon,
		Badge:            e.Badge,
		BadgeColor:       e.BadgeColor,
		Description:      e.Description,
		CSSClass:         e.CSSClass,
		FeaturedProducts: e.FeaturedProducts,
		merchandising:    e.Type.SupportsMerchandising(),
	}
	if e.Image != nil {
		form.Image = e.Image.Src
	}
	return toValidationError(form.Validate())
}

// toValidationError converts ozzo errors into a ValidationError keyed by
// JSON field name.
func toValidationError(err error) error {
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return &ValidationError{Message: err.Error()}
	}
	fields := make(map[string]string, len(errs))
	for field, fe := range errs {
		fields[field] = fe.Error()
	}
	return &ValidationError{Message: "Validation failed", Fields: fields}
}
