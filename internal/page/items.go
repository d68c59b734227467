// Copyright (c) 2026 Brightpixel Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package page

import (
	"context"
	"fmt"
	"sort"

	"github.com/brightpixel/agencyweb/internal/model"
	"github.com/brightpixel/agencyweb/internal/section"
	"github.com/brightpixel/agencyweb/internal/store"
)

// ItemLoader fills the list data of one section source.
type ItemLoader interface {
	LoadItems(ctx context.Context, source string, items *section.Items) error
}

// StoreItems loads list section data from the store, keeping only public
// entries sorted by their order field.
type StoreItems struct {
	st *store.Store
}

// NewStoreItems creates a loader over st.
func NewStoreItems(st *store.Store) *StoreItems {
	return &StoreItems{st: st}
}

// LoadItems implements ItemLoader.
func (s *StoreItems) LoadItems(ctx context.Context, source string, items *section.Items) error {
	switch source {
	case section.SourceServices:
		all, err := s.st.Services.List(ctx)
		if err != nil {
			return fmt.Errorf("loading services: %w", err)
		}
		items.Services = filterSorted(all, func(v model.Service) bool { return v.IsActive }, func(v model.Service) int { return v.Order })
	case section.SourcePortfolio:
		all, err := s.st.Portfolio.List(ctx)
		if err != nil {
			return fmt.Errorf("loading portfolio: %w", err)
		}
		items.Portfolio = filterSorted(all, func(v model.PortfolioItem) bool { return v.IsPublished }, func(v model.PortfolioItem) int { return v.Order })
	case section.SourceTestimonials:
		all, err := s.st.Testimonials.List(ctx)
		if err != nil {
			return fmt.Errorf("loading testimonials: %w", err)
		}
		items.Testimonials = filterSorted(all, func(v model.Testimonial) bool { return v.IsActive }, func(v model.Testimonial) int { return v.Order })
	case section.SourceTeam:
		all, err := s.st.Team.List(ctx)
		if err != nil {
			return fmt.Errorf("loading team: %w", err)
		}
		items.Team = filterSorted(all, func(v model.TeamMember) bool { return v.IsActive }, func(v model.TeamMember) int { return v.Order })
	case section.SourcePosts:
		posts, err := PublishedPosts(ctx, s.st)
		if err != nil {
			return err
		}
		items.Posts = posts
	}
	return nil
}

// PublishedPosts returns published posts, newest first.
func PublishedPosts(ctx context.Context, st *store.Store) ([]model.Post, error) {
	all, err := st.Posts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading posts: %w", err)
	}
	out := make([]model.Post, 0, len(all))
	for _, p := range all {
		if p.IsPublished {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].PublishedAt, out[j].PublishedAt
		if a == nil || b == nil {
			return b == nil && a != nil
		}
		return a.After(*b)
	})
	return out, nil
}

func filterSorted[T any](all []T, keep func(T) bool, order func(T) int) []T {
	out := make([]T, 0, len(all))
	for _, v := range all {
		if keep(v) {
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return order(out[i]) < order(out[j]) })
	return out
}
