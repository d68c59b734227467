// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides the HTML handlers of the public site and the
// health endpoints.
package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/brightpixel/agencyweb/internal/cache"
	"github.com/brightpixel/agencyweb/internal/model"
	"github.com/brightpixel/agencyweb/internal/page"
	"github.com/brightpixel/agencyweb/internal/render"
	"github.com/brightpixel/agencyweb/internal/seo"
	"github.com/brightpixel/agencyweb/internal/service"
	"github.com/brightpixel/agencyweb/internal/store"
)

// Menu locations rendered by the layout.
const (
	MenuHeader = "header"
	MenuFooter = "footer"
)

// CacheRecorder counts render cache lookups.
type CacheRecorder interface {
	CacheLookup(hit bool)
}

// FrontendConfig holds the public site settings that do not live in the store.
type FrontendConfig struct {
	SiteURL        string
	DefaultOGImage string
	DisallowRobots bool
}

// FrontendHandler serves the public site.
type FrontendHandler struct {
	store    *store.Store
	resolver *page.Resolver
	pages    *page.Renderer
	views    *render.Renderer
	cache    *cache.PageCache
	metrics  CacheRecorder
	cfg      FrontendConfig
	logger   *slog.Logger
}

// NewFrontendHandler creates a new frontend handler. pageCache and rec may be nil.
func NewFrontendHandler(
	st *store.Store,
	resolver *page.Resolver,
	pages *page.Renderer,
	views *render.Renderer,
	pageCache *cache.PageCache,
	rec CacheRecorder,
	cfg FrontendConfig,
	logger *slog.Logger,
) *FrontendHandler {
	return &FrontendHandler{
		store:    st,
		resolver: resolver,
		pages:    pages,
		views:    views,
		cache:    pageCache,
		metrics:  rec,
		cfg:      cfg,
		logger:   logger,
	}
}

// BaseTemplateData contains the fields every site template expects.
type BaseTemplateData struct {
	Meta        *seo.Meta
	Schema      template.JS
	Site        *model.SiteSettings
	Navigation  []model.MenuItem
	FooterNav   []model.MenuItem
	CurrentPath string
	Year        int
}

// PageData holds data for a section-built page.
type PageData struct {
	BaseTemplateData
	Page     *model.Page
	Body     template.HTML
	Fallback bool
}

// BlogListData holds data for the blog index.
type BlogListData struct {
	BaseTemplateData
	Posts []model.Post
}

// PostData holds data for a single blog post.
type PostData struct {
	BaseTemplateData
	Post *model.Post
	Body template.HTML
}

// ErrorData holds data for the 404 and error pages.
type ErrorData struct {
	BaseTemplateData
	Status  int
	Message string
}

// renderResult is one rendered response ready to be written and cached.
type renderResult struct {
	body []byte
	tags []string
}

// Home handles GET /.
func (h *FrontendHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.serveCached(w, r, func(ctx context.Context) (*renderResult, error) {
		return h.renderPage(ctx, r, page.Identifier{Slug: model.HomeSlug})
	})
}

// Page handles GET /{slug}. The home page slug redirects to /.
func (h *FrontendHandler) Page(w http.ResponseWriter, r *http.Request) {
	slug := strings.ToLower(chi.URLParam(r, "slug"))
	if slug == model.HomeSlug {
		http.Redirect(w, r, "/", http.StatusMovedPermanently)
		return
	}
	h.serveCached(w, r, func(ctx context.Context) (*renderResult, error) {
		return h.renderPage(ctx, r, page.Identifier{Slug: slug})
	})
}

// BlogList handles GET /blog.
func (h *FrontendHandler) BlogList(w http.ResponseWriter, r *http.Request) {
	h.serveCached(w, r, func(ctx context.Context) (*renderResult, error) {
		posts, err := page.PublishedPosts(ctx, h.store)
		if err != nil {
			return nil, err
		}
		base, err := h.baseData(ctx, r, &seo.PageData{Title: "Blog", Path: "/blog"})
		if err != nil {
			return nil, err
		}
		body, err := h.execute("blog_list", BlogListData{BaseTemplateData: base, Posts: posts})
		if err != nil {
			return nil, err
		}
		return &renderResult{body: body, tags: []string{cache.TagBlog, cache.TagSettings}}, nil
	})
}

// BlogPost handles GET /blog/{slug}.
func (h *FrontendHandler) BlogPost(w http.ResponseWriter, r *http.Request) {
	slug := strings.ToLower(chi.URLParam(r, "slug"))
	h.serveCached(w, r, func(ctx context.Context) (*renderResult, error) {
		post, err := h.store.Posts.GetByKey(ctx, slug)
		if err != nil {
			return nil, err
		}
		if !post.IsPublished {
			return nil, store.ErrNotFound
		}

		pd := &seo.PageData{
			Title:       post.Title,
			Path:        "/blog/" + post.Slug,
			Summary:     post.Excerpt,
			Image:       post.CoverImage,
			SEO:         post.SEO,
			Article:     true,
			PublishedAt: post.PublishedAt,
			Author:      post.Author,
		}
		base, err := h.baseData(ctx, r, pd)
		if err != nil {
			return nil, err
		}
		base.Schema = seo.BuildArticleSchema(pd, h.siteConfig(base.Site), post.UpdatedAt)

		body, err := h.execute("blog_post", PostData{BaseTemplateData: base, Post: post, Body: service.RenderBody(post)})
		if err != nil {
			return nil, err
		}
		return &renderResult{body: body, tags: []string{cache.TagBlog, cache.TagSettings}}, nil
	})
}

// NotFound renders the 404 page.
func (h *FrontendHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderNotFound(w, r)
}

func (h *FrontendHandler) renderPage(ctx context.Context, r *http.Request, id page.Identifier) (*renderResult, error) {
	res, err := h.resolver.Resolve(ctx, id, true)
	if err != nil {
		return nil, err
	}
	out := h.pages.Render(ctx, res)

	p := res.Page
	pagePath := "/" + p.Slug
	if p.IsHome() {
		pagePath = "/"
	}
	pd := &seo.PageData{
		Title:   p.Title,
		Path:    pagePath,
		Summary: firstNonEmpty(p.Description, seo.SummaryFromSections(res.Sections)),
		SEO:     p.SEO,
	}
	base, err := h.baseData(ctx, r, pd)
	if err != nil {
		return nil, err
	}
	if p.IsHome() {
		base.Schema = seo.BuildOrganizationSchema(base.Site, h.siteConfig(base.Site))
	}

	body, err := h.execute("page", PageData{BaseTemplateData: base, Page: p, Body: out.HTML, Fallback: out.Fallback})
	if err != nil {
		return nil, err
	}

	tags := []string{cache.TagPages, cache.TagSettings, cache.PageTag(p.Slug)}
	if p.IsHome() {
		tags = append(tags, cache.TagHome)
	}
	return &renderResult{body: body, tags: tags}, nil
}

// serveCached writes the cached response for the request path or builds,
// writes and caches a fresh one. Only successful renders are cached.
func (h *FrontendHandler) serveCached(w http.ResponseWriter, r *http.Request, build func(context.Context) (*renderResult, error)) {
	ctx := r.Context()
	if h.cache.Enabled() {
		entry, hit := h.cache.Get(ctx, r.URL.Path)
		if h.metrics != nil {
			h.metrics.CacheLookup(hit)
		}
		if hit {
			w.Header().Set("Content-Type", entry.ContentType)
			w.Header().Set("X-Cache", "HIT")
			_, _ = w.Write(entry.Body)
			return
		}
		w.Header().Set("X-Cache", "MISS")
	}

	res, err := build(ctx)
	switch {
	case errors.Is(err, page.ErrNotFound), errors.Is(err, store.ErrNotFound):
		h.renderNotFound(w, r)
		return
	case err != nil:
		h.logger.ErrorContext(ctx, "failed to render page", "path", r.URL.Path, "error", err)
		h.renderError(w, r, http.StatusInternalServerError, "Something went wrong on our side.")
		return
	}

	const contentType = "text/html; charset=utf-8"
	if err := h.cache.Set(ctx, r.URL.Path, cache.Entry{Body: res.body, ContentType: contentType, Tags: res.tags}); err != nil {
		h.logger.WarnContext(ctx, "failed to cache page", "category", model.EventCategoryCache, "path", r.URL.Path, "error", err)
	}
	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write(res.body)
}

// baseData loads the settings, menus and meta tags shared by every page.
// A per-path SEO entry overrides the computed meta.
func (h *FrontendHandler) baseData(ctx context.Context, r *http.Request, pd *seo.PageData) (BaseTemplateData, error) {
	settings, err := h.store.SiteSettings(ctx)
	if err != nil {
		return BaseTemplateData{}, fmt.Errorf("loading site settings: %w", err)
	}

	site := h.siteConfig(settings)
	meta := seo.BuildMeta(pd, site)
	if pd != nil && pd.Path != "" {
		entry, err := h.store.SEO.GetByKey(ctx, pd.Path)
		switch {
		case err == nil:
			seo.ApplyEntry(meta, entry, site.SiteURL)
		case !errors.Is(err, store.ErrNotFound):
			h.logger.WarnContext(ctx, "failed to load seo entry", "path", pd.Path, "error", err)
		}
	}

	return BaseTemplateData{
		Meta:        meta,
		Site:        settings,
		Navigation:  h.menu(ctx, MenuHeader),
		FooterNav:   h.menu(ctx, MenuFooter),
		CurrentPath: r.URL.Path,
		Year:        time.Now().Year(),
	}, nil
}

// menu returns the items of a menu location; a missing menu is empty.
func (h *FrontendHandler) menu(ctx context.Context, location string) []model.MenuItem {
	m, err := h.store.Menus.GetByKey(ctx, location)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			h.logger.WarnContext(ctx, "failed to load menu", "location", location, "error", err)
		}
		return nil
	}
	return m.Items
}

func (h *FrontendHandler) siteConfig(settings *model.SiteSettings) *seo.SiteConfig {
	return &seo.SiteConfig{
		SiteName:        settings.SiteName,
		SiteURL:         strings.TrimSuffix(h.cfg.SiteURL, "/"),
		SiteDescription: settings.Tagline,
		DefaultOGImage:  h.cfg.DefaultOGImage,
	}
}

func (h *FrontendHandler) execute(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := h.views.Render(&buf, name, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// renderNotFound renders the 404 page.
func (h *FrontendHandler) renderNotFound(w http.ResponseWriter, r *http.Request) {
	h.renderStatus(w, r, http.StatusNotFound, "not_found", "Page Not Found", "The page you are looking for does not exist.")
}

// renderError renders an error page.
func (h *FrontendHandler) renderError(w http.ResponseWriter, r *http.Request, statusCode int, message string) {
	h.renderStatus(w, r, statusCode, "error", "Error", message)
}

func (h *FrontendHandler) renderStatus(w http.ResponseWriter, r *http.Request, status int, tmpl, title, message string) {
	ctx := r.Context()
	base, err := h.baseData(ctx, r, &seo.PageData{Title: title, SEO: model.SEO{NoIndex: true}})
	if err == nil {
		err = h.views.RenderHTTP(w, status, tmpl, ErrorData{BaseTemplateData: base, Status: status, Message: message})
	}
	if err == nil {
		return
	}

	h.logger.ErrorContext(ctx, "failed to render error page", "status", status, "error", err)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head><title>%s</title></head>
<body>
<h1>%d - %s</h1>
<p>%s</p>
</body>
</html>`, template.HTMLEscapeString(title), status, template.HTMLEscapeString(title), template.HTMLEscapeString(message))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
