// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"strings"
	"testing"
)

func TestBuildRobotsDefault(t *testing.T) {
	content := BuildRobots(RobotsConfig{SiteURL: "https://example.com/"})

	for _, want := range []string{
		"User-agent: *",
		"Disallow: /api/",
		"Disallow: /health",
		"Disallow: /metrics",
		"Allow: /",
		"Sitemap: https://example.com/sitemap.xml",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("robots.txt missing %q:\n%s", want, content)
		}
	}
}

func TestBuildRobotsDisallowAll(t *testing.T) {
	content := BuildRobots(RobotsConfig{SiteURL: "https://example.com", DisallowAll: true})
	if content != "User-agent: *\nDisallow: /\n" {
		t.Errorf("content = %q", content)
	}
}

func TestBuildRobotsExtraPaths(t *testing.T) {
	content := BuildRobots(RobotsConfig{DisallowPaths: []string{"/drafts"}})
	if !strings.Contains(content, "Disallow: /drafts\n") {
		t.Errorf("missing extra path:\n%s", content)
	}
	if strings.Contains(content, "Sitemap:") {
		t.Error("no sitemap line expected without a site URL")
	}
}
