// Copyright (c) 2026 Brightpixel Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/brightpixel/agencyweb/internal/cache"
	"github.com/brightpixel/agencyweb/internal/model"
	"github.com/brightpixel/agencyweb/internal/page"
	"github.com/brightpixel/agencyweb/internal/seo"
)

// Sitemap handles GET /sitemap.xml. It lists the home page, every published
// page, the blog index and every published post.
func (h *FrontendHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if entry, hit := h.cache.Get(ctx, r.URL.Path); hit {
		w.Header().Set("Content-Type", entry.ContentType)
		_, _ = w.Write(entry.Body)
		return
	}

	data, err := h.buildSitemap(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to build sitemap", "error", err)
		http.Error(w, "Failed to generate sitemap", http.StatusInternalServerError)
		return
	}

	const contentType = "application/xml; charset=utf-8"
	if err := h.cache.Set(ctx, r.URL.Path, cache.Entry{
		Body:        data,
		ContentType: contentType,
		Tags:        []string{cache.TagSitemap, cache.TagPages, cache.TagBlog},
	}); err != nil {
		h.logger.WarnContext(ctx, "failed to cache sitemap", "category", model.EventCategoryCache, "error", err)
	}
	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write(data)
}

func (h *FrontendHandler) buildSitemap(ctx context.Context) ([]byte, error) {
	pages, err := h.store.Pages.List(ctx)
	if err != nil {
		return nil, err
	}
	posts, err := page.PublishedPosts(ctx, h.store)
	if err != nil {
		return nil, err
	}

	b := seo.NewSitemapBuilder(h.cfg.SiteURL)
	var homeUpdated time.Time
	entries := make([]seo.SitemapEntry, 0, len(pages))
	for _, p := range pages {
		if !p.IsPublished || p.SEO.NoIndex {
			continue
		}
		if p.IsHome() {
			homeUpdated = p.UpdatedAt
			continue
		}
		entries = append(entries, seo.SitemapEntry{Slug: p.Slug, UpdatedAt: p.UpdatedAt})
	}
	b.AddHomepage(homeUpdated)
	b.AddPages(entries)

	postEntries := make([]seo.SitemapEntry, 0, len(posts))
	for _, p := range posts {
		if p.SEO.NoIndex {
			continue
		}
		postEntries = append(postEntries, seo.SitemapEntry{Slug: p.Slug, UpdatedAt: p.UpdatedAt})
	}
	b.AddBlog(postEntries)
	return b.Build()
}

// Robots handles GET /robots.txt.
func (h *FrontendHandler) Robots(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(seo.BuildRobots(seo.RobotsConfig{
		SiteURL:     h.cfg.SiteURL,
		DisallowAll: h.cfg.DisallowRobots,
	})))
}
