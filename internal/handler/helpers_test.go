// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-chi/chi/v5"

	"github.com/brightpixel/agencyweb/internal/cache"
	"github.com/brightpixel/agencyweb/internal/page"
	"github.com/brightpixel/agencyweb/internal/render"
	"github.com/brightpixel/agencyweb/internal/section"
	"github.com/brightpixel/agencyweb/internal/store"
	"github.com/brightpixel/agencyweb/internal/testutil"
	"github.com/brightpixel/agencyweb/web"
)

const testSiteURL = "https://brightpixel.test"

type cacheCounter struct {
	hits, misses int
}

func (c *cacheCounter) CacheLookup(hit bool) {
	if hit {
		c.hits++
	} else {
		c.misses++
	}
}

type frontendFixture struct {
	handler *FrontendHandler
	store   *store.Store
	cache   *cache.PageCache
	lookups *cacheCounter
	router  http.Handler
}

func newFrontendFixture(t *testing.T) *frontendFixture {
	t.Helper()
	logger := testutil.DiscardLogger()

	st := testutil.TestStore(t)
	if err := store.Seed(context.Background(), st, store.AdminSeed{Email: "admin@example.com", Password: "secret-password"}); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	registry, err := section.NewDefault()
	if err != nil {
		t.Fatalf("NewDefault: %v", err)
	}
	templates, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		t.Fatalf("fs.Sub: %v", err)
	}
	views, err := render.New(templates)
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	pageCache := cache.NewPageCache(cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute}), time.Minute)
	lookups := &cacheCounter{}
	h := NewFrontendHandler(
		st,
		page.NewResolver(st),
		page.NewRenderer(registry, page.NewStoreItems(st), logger),
		views,
		pageCache,
		lookups,
		FrontendConfig{SiteURL: testSiteURL},
		logger,
	)

	r := chi.NewRouter()
	r.Get("/", h.Home)
	r.Get("/blog", h.BlogList)
	r.Get("/blog/{slug}", h.BlogPost)
	r.Get("/sitemap.xml", h.Sitemap)
	r.Get("/robots.txt", h.Robots)
	r.Get("/{slug}", h.Page)
	r.NotFound(h.NotFound)

	return &frontendFixture{handler: h, store: st, cache: pageCache, lookups: lookups, router: r}
}

func (f *frontendFixture) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func parseHTML(t *testing.T, w *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(w.Body)
	if err != nil {
		t.Fatalf("parsing HTML: %v", err)
	}
	return doc
}

func assertStatus(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status = %d; want %d", got, want)
	}
}

func ptr[T any](v T) *T { return &v }
