// Copyright (c) 2026 Brightpixel Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/brightpixel/agencyweb/internal/model"
)

// Collection names
const (
	CollectionPages        = "pages"
	CollectionSections     = "page_sections"
	CollectionSettings     = "site_settings"
	CollectionPosts        = "posts"
	CollectionServices     = "services"
	CollectionPortfolio    = "portfolio"
	CollectionTestimonials = "testimonials"
	CollectionTeam         = "team"
	CollectionMenus        = "menus"
	CollectionSEO          = "seo"
	CollectionMedia        = "media"
	CollectionSubscribers  = "subscribers"
	CollectionUsers        = "users"
	CollectionEvents       = "events"
)

// Store bundles the typed collections of the site.
type Store struct {
	backend Backend

	Pages        *Collection[model.Page, *model.Page]
	Sections     *Collection[model.PageSection, *model.PageSection]
	Settings     *Collection[model.SiteSettings, *model.SiteSettings]
	Posts        *Collection[model.Post, *model.Post]
	Services     *Collection[model.Service, *model.Service]
	Portfolio    *Collection[model.PortfolioItem, *model.PortfolioItem]
	Testimonials *Collection[model.Testimonial, *model.Testimonial]
	Team         *Collection[model.TeamMember, *model.TeamMember]
	Menus        *Collection[model.Menu, *model.Menu]
	SEO          *Collection[model.SEOEntry, *model.SEOEntry]
	Media        *Collection[model.Media, *model.Media]
	Subscribers  *Collection[model.Subscriber, *model.Subscriber]
	Users        *Collection[model.User, *model.User]
	Events       *Collection[model.Event, *model.Event]
}

// New creates a Store over the given backend.
func New(backend Backend) *Store {
	return &Store{
		backend: backend,
		Pages: NewCollection(backend, CollectionPages,
			WithKey(func(p *model.Page) string { return p.Slug })),
		Sections: NewCollection(backend, CollectionSections,
			WithParent(func(s *model.PageSection) string { return s.PageID })),
		Settings: NewCollection[model.SiteSettings](backend, CollectionSettings),
		Posts: NewCollection(backend, CollectionPosts,
			WithKey(func(p *model.Post) string { return p.Slug })),
		Services: NewCollection(backend, CollectionServices,
			WithKey(func(s *model.Service) string { return s.Slug })),
		Portfolio: NewCollection(backend, CollectionPortfolio,
			WithKey(func(p *model.PortfolioItem) string { return p.Slug })),
		Testimonials: NewCollection[model.Testimonial](backend, CollectionTestimonials),
		Team:         NewCollection[model.TeamMember](backend, CollectionTeam),
		Menus: NewCollection(backend, CollectionMenus,
			WithKey(func(m *model.Menu) string { return m.Location })),
		SEO: NewCollection(backend, CollectionSEO,
			WithKey(func(e *model.SEOEntry) string { return e.Path })),
		Media: NewCollection[model.Media](backend, CollectionMedia),
		Subscribers: NewCollection(backend, CollectionSubscribers,
			WithKey(func(s *model.Subscriber) string { return strings.ToLower(s.Email) })),
		Users: NewCollection(backend, CollectionUsers,
			WithKey(func(u *model.User) string { return strings.ToLower(u.Email) })),
		Events: NewCollection[model.Event](backend, CollectionEvents),
	}
}

// Backend returns the underlying document backend.
func (s *Store) Backend() Backend {
	return s.backend
}

// Ping checks the backend connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.backend.Ping(ctx)
}

// Close closes the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// SiteSettings returns the settings singleton, or an empty value when it has
// not been seeded yet.
func (s *Store) SiteSettings(ctx context.Context) (*model.SiteSettings, error) {
	settings, err := s.Settings.Get(ctx, model.SiteSettingsID)
	if errors.Is(err, ErrNotFound) {
		return &model.SiteSettings{Meta: model.Meta{ID: model.SiteSettingsID}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading site settings: %w", err)
	}
	return settings, nil
}

// SaveSiteSettings writes the settings singleton, creating it on first save.
func (s *Store) SaveSiteSettings(ctx context.Context, settings *model.SiteSettings) error {
	settings.ID = model.SiteSettingsID
	err := s.Settings.Update(ctx, settings)
	if errors.Is(err, ErrNotFound) {
		return s.Settings.Create(ctx, settings)
	}
	return err
}

// SectionsForPage returns a page's section instances in insertion order.
func (s *Store) SectionsForPage(ctx context.Context, pageID string) ([]model.PageSection, error) {
	sections, err := s.Sections.ListByParent(ctx, pageID)
	if err != nil {
		return nil, fmt.Errorf("listing sections of page %s: %w", pageID, err)
	}
	return sections, nil
}

// DeleteSectionsForPage removes every section instance of a page.
func (s *Store) DeleteSectionsForPage(ctx context.Context, pageID string) error {
	sections, err := s.SectionsForPage(ctx, pageID)
	if err != nil {
		return err
	}
	for _, sec := range sections {
		if err := s.Sections.Delete(ctx, sec.ID); err != nil && !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("deleting section %s: %w", sec.ID, err)
		}
	}
	return nil
}

// PageBySlug fetches a page by its slug.
func (s *Store) PageBySlug(ctx context.Context, slug string) (*model.Page, error) {
	return s.Pages.GetByKey(ctx, slug)
}

// FirstPageOfType returns the first page with the given type.
func (s *Store) FirstPageOfType(ctx context.Context, pageType string) (*model.Page, error) {
	pages, err := s.Pages.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range pages {
		if pages[i].PageType == pageType {
			return &pages[i], nil
		}
	}
	return nil, ErrNotFound
}
