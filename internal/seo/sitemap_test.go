// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"encoding/xml"
	"strings"
	"testing"
	"time"
)

func TestSitemapBuilder(t *testing.T) {
	updated := time.Date(2026, 5, 2, 12, 0, 0, 0, time.UTC)
	b := NewSitemapBuilder("https://example.com/")
	b.AddHomepage(updated)
	b.AddPages([]SitemapEntry{{Slug: "about", UpdatedAt: updated}, {Slug: "services"}})
	b.AddBlog([]SitemapEntry{{Slug: "hello", UpdatedAt: updated.Add(time.Hour)}})

	out, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !strings.HasPrefix(string(out), xml.Header) {
		t.Error("Build() should start with the XML header")
	}

	var sm Sitemap
	if err := xml.Unmarshal(out, &sm); err != nil {
		t.Fatalf("xml.Unmarshal: %v", err)
	}
	want := []string{
		"https://example.com/",
		"https://example.com/about",
		"https://example.com/services",
		"https://example.com/blog",
		"https://example.com/blog/hello",
	}
	if len(sm.URLs) != len(want) {
		t.Fatalf("got %d urls, want %d", len(sm.URLs), len(want))
	}
	for i, loc := range want {
		if sm.URLs[i].Loc != loc {
			t.Errorf("url[%d] = %q, want %q", i, sm.URLs[i].Loc, loc)
		}
	}
	if sm.URLs[0].Priority != "1.0" || sm.URLs[0].LastMod != "2026-05-02T12:00:00Z" {
		t.Errorf("homepage = %+v", sm.URLs[0])
	}
	if sm.URLs[2].LastMod != "" {
		t.Errorf("zero time should omit lastmod, got %q", sm.URLs[2].LastMod)
	}
	if sm.URLs[3].LastMod != "2026-05-02T13:00:00Z" {
		t.Errorf("blog index lastmod = %q, want latest post", sm.URLs[3].LastMod)
	}
}

func TestSitemapBuilderSkipsDuplicates(t *testing.T) {
	b := NewSitemapBuilder("https://example.com")
	b.AddPages([]SitemapEntry{{Slug: "about"}, {Slug: "about"}})
	if len(b.urls) != 1 {
		t.Errorf("urls = %d, want 1", len(b.urls))
	}
}

func TestSitemapBuilderEmptyBlog(t *testing.T) {
	b := NewSitemapBuilder("https://example.com")
	b.AddBlog(nil)
	if len(b.urls) != 1 || b.urls[0].Loc != "https://example.com/blog" {
		t.Errorf("urls = %+v", b.urls)
	}
}
