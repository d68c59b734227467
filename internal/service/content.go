// Copyright (c) 2026 Brightpixel Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"

	"github.com/brightpixel/agencyweb/internal/model"
	"github.com/brightpixel/agencyweb/internal/store"
	"github.com/brightpixel/agencyweb/internal/util"
)

// ContentService is CRUD over one collection of simple documents with
// per-type normalisation and validation.
type ContentService[T any, P interface {
	*T
	model.Document
}] struct {
	col      *store.Collection[T, P]
	keyField string
	key      func(P) string
	prepare  func(P)
	validate func(P, validator)
	less     func(a, b *T) bool
}

// List returns every document, ordered when the type has an order field.
func (s *ContentService[T, P]) List(ctx context.Context) ([]T, error) {
	items, err := s.col.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.less != nil {
		sort.SliceStable(items, func(i, j int) bool { return s.less(&items[i], &items[j]) })
	}
	return items, nil
}

// Get returns a document by id.
func (s *ContentService[T, P]) Get(ctx context.Context, id string) (*T, error) {
	return s.col.Get(ctx, id)
}

// GetByKey returns a document by its unique key, such as a menu location or
// an SEO path.
func (s *ContentService[T, P]) GetByKey(ctx context.Context, key string) (*T, error) {
	return s.col.GetByKey(ctx, key)
}

// Create validates and stores doc.
func (s *ContentService[T, P]) Create(ctx context.Context, doc *T) (*T, error) {
	p := P(doc)
	p.Base().ID = ""
	if err := s.check(ctx, p); err != nil {
		return nil, err
	}
	if err := s.col.Create(ctx, doc); err != nil {
		return nil, duplicateKey(err, s.keyField)
	}
	return doc, nil
}

// Update merges the JSON patch into the stored document. Fields missing
// from the patch keep their values.
func (s *ContentService[T, P]) Update(ctx context.Context, id string, patch []byte) (*T, error) {
	doc, err := s.col.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	p := P(doc)
	meta := *p.Base()
	if err := json.Unmarshal(patch, doc); err != nil {
		return nil, invalid("body", "is not valid JSON")
	}
	*p.Base() = meta

	if err := s.check(ctx, p); err != nil {
		return nil, err
	}
	if err := s.col.Update(ctx, doc); err != nil {
		return nil, duplicateKey(err, s.keyField)
	}
	return doc, nil
}

// Delete removes a document.
func (s *ContentService[T, P]) Delete(ctx context.Context, id string) error {
	return s.col.Delete(ctx, id)
}

func (s *ContentService[T, P]) check(ctx context.Context, p P) error {
	if s.prepare != nil {
		s.prepare(p)
	}
	v := validator{}
	if s.validate != nil {
		s.validate(p, v)
	}
	if err := v.err(); err != nil {
		return err
	}
	if s.key == nil {
		return nil
	}

	existing, err := s.col.GetByKey(ctx, s.key(p))
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil
	case err != nil:
		return err
	case P(existing).Base().ID != p.Base().ID:
		return invalid(s.keyField, "already in use")
	}
	return nil
}

// NewServiceContent manages the agency's service offerings.
func NewServiceContent(st *store.Store) *ContentService[model.Service, *model.Service] {
	return &ContentService[model.Service, *model.Service]{
		col:      st.Services,
		keyField: "slug",
		key:      func(s *model.Service) string { return s.Slug },
		prepare: func(s *model.Service) {
			s.Title = strings.TrimSpace(s.Title)
			s.Slug = slugOr(s.Slug, s.Title)
		},
		validate: func(s *model.Service, v validator) {
			v.check(s.Title != "", "title", "is required")
			v.check(util.IsValidSlug(s.Slug), "slug", "must be lowercase letters, digits and single hyphens")
		},
		less: func(a, b *model.Service) bool { return a.Order < b.Order },
	}
}

// NewPortfolioContent manages portfolio case studies.
func NewPortfolioContent(st *store.Store) *ContentService[model.PortfolioItem, *model.PortfolioItem] {
	return &ContentService[model.PortfolioItem, *model.PortfolioItem]{
		col:      st.Portfolio,
		keyField: "slug",
		key:      func(p *model.PortfolioItem) string { return p.Slug },
		prepare: func(p *model.PortfolioItem) {
			p.Title = strings.TrimSpace(p.Title)
			p.Slug = slugOr(p.Slug, p.Title)
		},
		validate: func(p *model.PortfolioItem, v validator) {
			v.check(p.Title != "", "title", "is required")
			v.check(util.IsValidSlug(p.Slug), "slug", "must be lowercase letters, digits and single hyphens")
		},
		less: func(a, b *model.PortfolioItem) bool { return a.Order < b.Order },
	}
}

// NewTestimonialContent manages client quotes. A missing rating defaults to 5.
func NewTestimonialContent(st *store.Store) *ContentService[model.Testimonial, *model.Testimonial] {
	return &ContentService[model.Testimonial, *model.Testimonial]{
		col: st.Testimonials,
		prepare: func(t *model.Testimonial) {
			t.Author = strings.TrimSpace(t.Author)
			t.Quote = strings.TrimSpace(t.Quote)
			if t.Rating == 0 {
				t.Rating = 5
			}
		},
		validate: func(t *model.Testimonial, v validator) {
			v.check(t.Author != "", "author", "is required")
			v.check(t.Quote != "", "quote", "is required")
			v.check(t.Rating >= 1 && t.Rating <= 5, "rating", "must be between 1 and 5")
		},
		less: func(a, b *model.Testimonial) bool { return a.Order < b.Order },
	}
}

// NewTeamContent manages team members.
func NewTeamContent(st *store.Store) *ContentService[model.TeamMember, *model.TeamMember] {
	return &ContentService[model.TeamMember, *model.TeamMember]{
		col: st.Team,
		prepare: func(m *model.TeamMember) {
			m.Name = strings.TrimSpace(m.Name)
			m.Role = strings.TrimSpace(m.Role)
		},
		validate: func(m *model.TeamMember, v validator) {
			v.check(m.Name != "", "name", "is required")
			v.check(m.Role != "", "role", "is required")
		},
		less: func(a, b *model.TeamMember) bool { return a.Order < b.Order },
	}
}

// NewMenuContent manages navigation menus, one per location. Items are kept
// sorted by their order.
func NewMenuContent(st *store.Store) *ContentService[model.Menu, *model.Menu] {
	return &ContentService[model.Menu, *model.Menu]{
		col:      st.Menus,
		keyField: "location",
		key:      func(m *model.Menu) string { return m.Location },
		prepare: func(m *model.Menu) {
			m.Location = strings.ToLower(strings.TrimSpace(m.Location))
			sort.SliceStable(m.Items, func(i, j int) bool { return m.Items[i].Order < m.Items[j].Order })
		},
		validate: func(m *model.Menu, v validator) {
			v.check(util.IsValidSlug(m.Location), "location", "must be a slug such as header or footer")
			for _, it := range m.Items {
				if strings.TrimSpace(it.Label) == "" || strings.TrimSpace(it.URL) == "" {
					v.add("items", "every item needs a label and a url")
					break
				}
			}
		},
	}
}

// NewSEOContent manages per-path search metadata.
func NewSEOContent(st *store.Store) *ContentService[model.SEOEntry, *model.SEOEntry] {
	return &ContentService[model.SEOEntry, *model.SEOEntry]{
		col:      st.SEO,
		keyField: "path",
		key:      func(e *model.SEOEntry) string { return e.Path },
		prepare: func(e *model.SEOEntry) {
			e.Path = strings.TrimSpace(e.Path)
			if len(e.Path) > 1 {
				e.Path = strings.TrimRight(e.Path, "/")
			}
		},
		validate: func(e *model.SEOEntry, v validator) {
			v.check(util.IsValidSitePath(e.Path), "path", "must be an absolute site path such as /about")
		},
	}
}

// NewSubscriberContent manages newsletter subscribers from the admin side.
func NewSubscriberContent(st *store.Store) *ContentService[model.Subscriber, *model.Subscriber] {
	return &ContentService[model.Subscriber, *model.Subscriber]{
		col:      st.Subscribers,
		keyField: "email",
		key:      func(s *model.Subscriber) string { return s.Email },
		prepare: func(s *model.Subscriber) {
			if email, ok := util.NormalizeEmail(s.Email); ok {
				s.Email = email
			}
			if s.Status == "" {
				s.Status = model.SubscriberSubscribed
			}
		},
		validate: func(s *model.Subscriber, v validator) {
			_, ok := util.NormalizeEmail(s.Email)
			v.check(ok, "email", "is not a valid address")
			v.check(s.Status == model.SubscriberSubscribed || s.Status == model.SubscriberUnsubscribed,
				"status", "must be subscribed or unsubscribed")
		},
	}
}

func slugOr(slug, title string) string {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return util.Slugify(title)
	}
	return slug
}
