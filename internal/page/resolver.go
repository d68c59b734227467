// Copyright (c) 2026 Brightpixel Studio
// SPDX-License-Identifier: GPL-3.0-or-later

// Package page resolves a page into its ordered list of visible section
// instances and renders that list through the section registry.
package page

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/brightpixel/agencyweb/internal/model"
	"github.com/brightpixel/agencyweb/internal/section"
	"github.com/brightpixel/agencyweb/internal/store"
)

// ErrNotFound is returned when no page matches or the page is not public.
var ErrNotFound = errors.New("page not found")

// Source is the storage the resolver reads from.
type Source interface {
	PageBySlug(ctx context.Context, slug string) (*model.Page, error)
	FirstPageOfType(ctx context.Context, pageType string) (*model.Page, error)
	SectionsForPage(ctx context.Context, pageID string) ([]model.PageSection, error)
	SiteSettings(ctx context.Context) (*model.SiteSettings, error)
}

// Identifier selects a page by slug or, when Slug is empty, by page type.
type Identifier struct {
	Slug     string
	PageType string
}

// IsHome reports whether the identifier names the home page.
func (id Identifier) IsHome() bool {
	return id.Slug == model.HomeSlug || (id.Slug == "" && id.PageType == model.PageTypeHome)
}

// Resolved is a page with the sections to render, in render order.
type Resolved struct {
	Page     *model.Page
	Sections []model.PageSection
	Settings *model.SiteSettings
	// Synthesized is true when the sections come from site settings
	// instead of stored section instances.
	Synthesized bool
}

// Resolver turns identifiers into resolved pages. Every call reads storage;
// nothing is cached.
type Resolver struct {
	src Source
}

// NewResolver creates a Resolver.
func NewResolver(src Source) *Resolver {
	return &Resolver{src: src}
}

// Resolve fetches the page and its sections. In a public context pages that
// are not published are reported as ErrNotFound.
//
// The home page uses its stored section instances when it has any. When it
// has none, or when no home page document exists, the sections are built from
// the site settings blocks instead.
func (r *Resolver) Resolve(ctx context.Context, id Identifier, public bool) (*Resolved, error) {
	if id.Slug == "" && id.PageType == "" {
		return nil, ErrNotFound
	}

	settings, err := r.src.SiteSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving page: %w", err)
	}

	page, err := r.fetchPage(ctx, id)
	switch {
	case errors.Is(err, store.ErrNotFound) && id.IsHome():
		page = virtualHome(settings)
	case errors.Is(err, store.ErrNotFound):
		return nil, ErrNotFound
	case err != nil:
		return nil, fmt.Errorf("resolving page: %w", err)
	}

	if public && !page.IsPublished {
		return nil, ErrNotFound
	}

	var stored []model.PageSection
	if page.ID != "" {
		stored, err = r.src.SectionsForPage(ctx, page.ID)
		if err != nil {
			return nil, fmt.Errorf("resolving page %s: %w", page.Slug, err)
		}
	}

	res := &Resolved{Page: page, Settings: settings}
	if page.IsHome() && len(stored) == 0 {
		res.Sections = Arrange(Synthesize(page.ID, settings))
		res.Synthesized = true
		return res, nil
	}
	res.Sections = Arrange(stored)
	return res, nil
}

func (r *Resolver) fetchPage(ctx context.Context, id Identifier) (*model.Page, error) {
	if id.Slug != "" {
		p, err := r.src.PageBySlug(ctx, id.Slug)
		if errors.Is(err, store.ErrNotFound) && id.IsHome() {
			return r.src.FirstPageOfType(ctx, model.PageTypeHome)
		}
		return p, err
	}
	return r.src.FirstPageOfType(ctx, id.PageType)
}

// virtualHome stands in for a home page that has not been created.
func virtualHome(settings *model.SiteSettings) *model.Page {
	return &model.Page{
		Title:       settings.SiteName,
		Slug:        model.HomeSlug,
		Description: settings.Tagline,
		PageType:    model.PageTypeHome,
		Status:      model.StatusPublished,
		IsPublished: true,
	}
}

// Synthesize builds section instances from the site settings blocks. Only
// blocks that are set produce a section; each gets its conventional order.
func Synthesize(pageID string, settings *model.SiteSettings) []model.PageSection {
	if settings == nil {
		return nil
	}
	blocks := settings.HomeBlocks()
	out := make([]model.PageSection, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, model.PageSection{
			Meta:          model.Meta{ID: "settings-" + b.ComponentName},
			PageID:        pageID,
			ComponentName: b.ComponentName,
			Order:         b.Order,
			Content:       b.Content,
			Variant:       section.DefaultVariant,
			IsVisible:     true,
		})
	}
	return out
}

// Arrange returns the visible sections sorted by ascending order. Sections
// with equal order keep their relative position.
func Arrange(sections []model.PageSection) []model.PageSection {
	visible := make([]model.PageSection, 0, len(sections))
	for _, s := range sections {
		if s.IsVisible {
			visible = append(visible, s)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].Order < visible[j].Order
	})
	return visible
}

// SectionsForType returns the public sections of the first page of the given
// type, home when pageType is empty.
func (r *Resolver) SectionsForType(ctx context.Context, pageType string) ([]model.PageSection, error) {
	if pageType == "" {
		pageType = model.PageTypeHome
	}
	res, err := r.Resolve(ctx, Identifier{PageType: pageType}, true)
	if err != nil {
		return nil, err
	}
	return res.Sections, nil
}
