// Copyright (c) 2026 Brightpixel Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/brightpixel/agencyweb/internal/model"
	"github.com/brightpixel/agencyweb/internal/store"
	"github.com/brightpixel/agencyweb/internal/util"
)

// PageInput carries page fields from the admin API. Nil fields are left
// unchanged on update.
type PageInput struct {
	Title       *string    `json:"title"`
	Slug        *string    `json:"slug"`
	Description *string    `json:"description"`
	PageType    *string    `json:"pageType"`
	Status      *string    `json:"status"`
	IsPublished *bool      `json:"isPublished"`
	ScheduledAt *time.Time `json:"scheduledAt"`
	SEO         *model.SEO `json:"seo"`
}

// PageService manages pages and their lifecycle.
type PageService struct {
	st  *store.Store
	now func() time.Time
}

// NewPageService creates a PageService.
func NewPageService(st *store.Store) *PageService {
	return &PageService{st: st, now: time.Now}
}

// List returns every page in creation order.
func (s *PageService) List(ctx context.Context) ([]model.Page, error) {
	return s.st.Pages.List(ctx)
}

// Get returns a page by id.
func (s *PageService) Get(ctx context.Context, id string) (*model.Page, error) {
	return s.st.Pages.Get(ctx, id)
}

// Create validates and stores a new page. The slug is derived from the
// title when omitted. Without status or isPublished the page is published.
func (s *PageService) Create(ctx context.Context, in PageInput) (*model.Page, error) {
	p := &model.Page{PageType: model.PageTypeCustom}
	applyPageInput(p, in)
	if in.Slug == nil || strings.TrimSpace(*in.Slug) == "" {
		p.Slug = util.Slugify(p.Title)
	}
	if in.PageType == nil && p.Slug == model.HomeSlug {
		p.PageType = model.PageTypeHome
	}

	status, err := initialStatus(in.Status, in.IsPublished, model.StatusPublished)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, p); err != nil {
		return nil, err
	}
	p.Lifecycle().SetStatus(status, s.now().UTC())

	if err := s.st.Pages.Create(ctx, p); err != nil {
		return nil, duplicateKey(err, "slug")
	}
	return p, nil
}

// Update applies the non-nil fields of in. A status or isPublished change
// follows the lifecycle rules.
func (s *PageService) Update(ctx context.Context, id string, in PageInput) (*model.Page, error) {
	p, err := s.st.Pages.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	applyPageInput(p, in)
	if err := s.validate(ctx, p); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	switch {
	case in.Status != nil:
		_, err = transition(p.Lifecycle(), *in.Status, now)
	case in.IsPublished != nil:
		_, err = setPublished(p.Lifecycle(), *in.IsPublished, now)
	}
	if err != nil {
		return nil, err
	}

	if err := s.st.Pages.Update(ctx, p); err != nil {
		return nil, duplicateKey(err, "slug")
	}
	return p, nil
}

// Delete removes a page together with its section instances.
func (s *PageService) Delete(ctx context.Context, id string) error {
	if _, err := s.st.Pages.Get(ctx, id); err != nil {
		return err
	}
	if err := s.st.DeleteSectionsForPage(ctx, id); err != nil {
		return err
	}
	return s.st.Pages.Delete(ctx, id)
}

// SetPublished toggles the published flag. Unpublishing a published page
// moves it to draft and keeps publishedAt.
func (s *PageService) SetPublished(ctx context.Context, id string, published bool) (*model.Page, error) {
	return s.mutate(ctx, id, func(p *model.Page) (bool, error) {
		return setPublished(p.Lifecycle(), published, s.now().UTC())
	})
}

// Transition moves a page to status.
func (s *PageService) Transition(ctx context.Context, id, status string) (*model.Page, error) {
	return s.mutate(ctx, id, func(p *model.Page) (bool, error) {
		return transition(p.Lifecycle(), status, s.now().UTC())
	})
}

// PublishDue publishes draft pages whose scheduledAt has passed and returns
// how many were published.
func (s *PageService) PublishDue(ctx context.Context) (int, error) {
	pages, err := s.st.Pages.List(ctx)
	if err != nil {
		return 0, err
	}
	now := s.now().UTC()
	n := 0
	for i := range pages {
		p := &pages[i]
		if !isDue(p.Lifecycle(), now) {
			continue
		}
		p.Lifecycle().SetStatus(model.StatusPublished, now)
		if err := s.st.Pages.Update(ctx, p); err != nil {
			return n, fmt.Errorf("publishing page %s: %w", p.Slug, err)
		}
		n++
	}
	return n, nil
}

func (s *PageService) mutate(ctx context.Context, id string, fn func(*model.Page) (bool, error)) (*model.Page, error) {
	p, err := s.st.Pages.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	changed, err := fn(p)
	if err != nil || !changed {
		return p, err
	}
	if err := s.st.Pages.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PageService) validate(ctx context.Context, p *model.Page) error {
	v := validator{}
	v.check(p.Title != "", "title", "is required")
	v.check(util.IsValidSlug(p.Slug), "slug", "must be lowercase letters, digits and single hyphens")
	v.check(model.IsValidPageType(p.PageType), "pageType", "is not a known page type")
	if err := v.err(); err != nil {
		return err
	}

	existing, err := s.st.Pages.GetByKey(ctx, p.Slug)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != p.ID:
		return invalid("slug", "already in use")
	}
	return nil
}

func applyPageInput(p *model.Page, in PageInput) {
	if in.Title != nil {
		p.Title = strings.TrimSpace(*in.Title)
	}
	if in.Slug != nil {
		p.Slug = strings.TrimSpace(*in.Slug)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.PageType != nil {
		p.PageType = strings.ToLower(strings.TrimSpace(*in.PageType))
	}
	if in.ScheduledAt != nil {
		t := in.ScheduledAt.UTC()
		p.ScheduledAt = &t
	}
	if in.SEO != nil {
		p.SEO = *in.SEO
	}
}
