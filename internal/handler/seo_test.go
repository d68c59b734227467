// Copyright (c) 2026 Brightpixel Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/xml"
	"net/http"
	"strings"
	"testing"

	"github.com/brightpixel/agencyweb/internal/model"
	"github.com/brightpixel/agencyweb/internal/seo"
	"github.com/brightpixel/agencyweb/internal/service"
)

func TestFrontendHandler_Sitemap(t *testing.T) {
	f := newFrontendFixture(t)
	ctx := context.Background()

	pages := service.NewPageService(f.store)
	if _, err := pages.Create(ctx, service.PageInput{Title: ptr("Hidden"), Slug: ptr("hidden"), IsPublished: ptr(false)}); err != nil {
		t.Fatalf("Create page: %v", err)
	}
	posts := service.NewPostService(f.store)
	if _, err := posts.Create(ctx, service.PostInput{Title: ptr("Hello"), Status: ptr(model.StatusPublished)}); err != nil {
		t.Fatalf("Create post: %v", err)
	}

	w := f.get(t, "/sitemap.xml")
	assertStatus(t, w.Code, http.StatusOK)
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/xml") {
		t.Errorf("Content-Type = %q", ct)
	}

	var sm seo.Sitemap
	if err := xml.Unmarshal(w.Body.Bytes(), &sm); err != nil {
		t.Fatalf("unmarshal sitemap: %v", err)
	}
	locs := make(map[string]bool, len(sm.URLs))
	for _, u := range sm.URLs {
		locs[u.Loc] = true
	}
	for _, want := range []string{"/", "/about", "/contact", "/blog", "/blog/hello"} {
		if !locs[testSiteURL+want] {
			t.Errorf("sitemap missing %s", want)
		}
	}
	for _, unwanted := range []string{"/hidden", "/home"} {
		if locs[testSiteURL+unwanted] {
			t.Errorf("sitemap should not list %s", unwanted)
		}
	}
}

func TestFrontendHandler_Robots(t *testing.T) {
	f := newFrontendFixture(t)

	w := f.get(t, "/robots.txt")
	assertStatus(t, w.Code, http.StatusOK)
	body := w.Body.String()
	if !strings.Contains(body, "Disallow: /api/") {
		t.Errorf("robots.txt should keep crawlers off the API:\n%s", body)
	}
	if !strings.Contains(body, "Sitemap: "+testSiteURL+"/sitemap.xml") {
		t.Errorf("robots.txt missing sitemap line:\n%s", body)
	}

	f.handler.cfg.DisallowRobots = true
	body = f.get(t, "/robots.txt").Body.String()
	if !strings.Contains(body, "Disallow: /\n") || strings.Contains(body, "Sitemap:") {
		t.Errorf("staging robots.txt should block everything:\n%s", body)
	}
}
