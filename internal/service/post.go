// Copyright (c) 2026 Brightpixel Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/brightpixel/agencyweb/internal/model"
	"github.com/brightpixel/agencyweb/internal/render"
	"github.com/brightpixel/agencyweb/internal/store"
	"github.com/brightpixel/agencyweb/internal/util"
)

// PostInput carries blog post fields from the admin API.
type PostInput struct {
	Title       *string    `json:"title"`
	Slug        *string    `json:"slug"`
	Excerpt     *string    `json:"excerpt"`
	Body        *string    `json:"body"`
	CoverImage  *string    `json:"coverImage"`
	Author      *string    `json:"author"`
	Tags        []string   `json:"tags"`
	Status      *string    `json:"status"`
	IsPublished *bool      `json:"isPublished"`
	ScheduledAt *time.Time `json:"scheduledAt"`
	SEO         *model.SEO `json:"seo"`
}

// PostService manages blog posts.
type PostService struct {
	st  *store.Store
	now func() time.Time
}

// NewPostService creates a PostService.
func NewPostService(st *store.Store) *PostService {
	return &PostService{st: st, now: time.Now}
}

// List returns every post in creation order.
func (s *PostService) List(ctx context.Context) ([]model.Post, error) {
	return s.st.Posts.List(ctx)
}

// Get returns a post by id.
func (s *PostService) Get(ctx context.Context, id string) (*model.Post, error) {
	return s.st.Posts.Get(ctx, id)
}

// PublishedBySlug returns a published post, or ErrNotFound.
func (s *PostService) PublishedBySlug(ctx context.Context, slug string) (*model.Post, error) {
	p, err := s.st.Posts.GetByKey(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !p.IsPublished {
		return nil, ErrNotFound
	}
	return p, nil
}

// Create validates and stores a new post. Posts start as drafts unless a
// status or isPublished is given.
func (s *PostService) Create(ctx context.Context, in PostInput) (*model.Post, error) {
	p := &model.Post{}
	applyPostInput(p, in)
	if in.Slug == nil || strings.TrimSpace(*in.Slug) == "" {
		p.Slug = util.Slugify(p.Title)
	}

	status, err := initialStatus(in.Status, in.IsPublished, model.StatusDraft)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, p); err != nil {
		return nil, err
	}
	p.Lifecycle().SetStatus(status, s.now().UTC())

	if err := s.st.Posts.Create(ctx, p); err != nil {
		return nil, duplicateKey(err, "slug")
	}
	return p, nil
}

// Update applies the non-nil fields of in.
func (s *PostService) Update(ctx context.Context, id string, in PostInput) (*model.Post, error) {
	p, err := s.st.Posts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	applyPostInput(p, in)
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

	if err := s.st.Posts.Update(ctx, p); err != nil {
		return nil, duplicateKey(err, "slug")
	}
	return p, nil
}

// Delete removes a post.
func (s *PostService) Delete(ctx context.Context, id string) error {
	return s.st.Posts.Delete(ctx, id)
}

// SetPublished toggles the published flag.
func (s *PostService) SetPublished(ctx context.Context, id string, published bool) (*model.Post, error) {
	return s.mutate(ctx, id, func(p *model.Post) (bool, error) {
		return setPublished(p.Lifecycle(), published, s.now().UTC())
	})
}

// Transition moves a post to status.
func (s *PostService) Transition(ctx context.Context, id, status string) (*model.Post, error) {
	return s.mutate(ctx, id, func(p *model.Post) (bool, error) {
		return transition(p.Lifecycle(), status, s.now().UTC())
	})
}

// PublishDue publishes scheduled drafts whose time has come.
func (s *PostService) PublishDue(ctx context.Context) (int, error) {
	posts, err := s.st.Posts.List(ctx)
	if err != nil {
		return 0, err
	}
	now := s.now().UTC()
	n := 0
	for i := range posts {
		p := &posts[i]
		if !isDue(p.Lifecycle(), now) {
			continue
		}
		p.Lifecycle().SetStatus(model.StatusPublished, now)
		if err := s.st.Posts.Update(ctx, p); err != nil {
			return n, fmt.Errorf("publishing post %s: %w", p.Slug, err)
		}
		n++
	}
	return n, nil
}

// RenderBody converts the markdown body to sanitized HTML.
func RenderBody(p *model.Post) template.HTML {
	return render.Markdown(p.Body)
}

func (s *PostService) mutate(ctx context.Context, id string, fn func(*model.Post) (bool, error)) (*model.Post, error) {
	p, err := s.st.Posts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	changed, err := fn(p)
	if err != nil || !changed {
		return p, err
	}
	if err := s.st.Posts.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PostService) validate(ctx context.Context, p *model.Post) error {
	v := validator{}
	v.check(p.Title != "", "title", "is required")
	v.check(util.IsValidSlug(p.Slug), "slug", "must be lowercase letters, digits and single hyphens")
	if err := v.err(); err != nil {
		return err
	}

	existing, err := s.st.Posts.GetByKey(ctx, p.Slug)
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

func applyPostInput(p *model.Post, in PostInput) {
	if in.Title != nil {
		p.Title = strings.TrimSpace(*in.Title)
	}
	if in.Slug != nil {
		p.Slug = strings.TrimSpace(*in.Slug)
	}
	if in.Excerpt != nil {
		p.Excerpt = *in.Excerpt
	}
	if in.Body != nil {
		p.Body = *in.Body
	}
	if in.CoverImage != nil {
		p.CoverImage = *in.CoverImage
	}
	if in.Author != nil {
		p.Author = *in.Author
	}
	if in.Tags != nil {
		p.Tags = in.Tags
	}
	if in.ScheduledAt != nil {
		t := in.ScheduledAt.UTC()
		p.ScheduledAt = &t
	}
	if in.SEO != nil {
		p.SEO = *in.SEO
	}
}
