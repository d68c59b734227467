// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple title", "Hello World", "hello-world"},
		{"special characters", "Hello, World!", "hello-world"},
		{"numbers", "Page 123", "page-123"},
		{"accents", "Café résumé", "cafe-resume"},
		{"multiple spaces", "Hello   World", "hello-world"},
		{"hyphens", "Hello - World", "hello-world"},
		{"cyrillic", "Привет мир", "privet-mir"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.expected {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}

	long := Slugify(strings.Repeat("word ", 60))
	if len(long) > MaxSlugLength || strings.HasSuffix(long, "-") {
		t.Errorf("long slug = %q (%d chars)", long, len(long))
	}
}

func TestIsValidSlug(t *testing.T) {
	valid := []string{"pricing", "web-design", "page-2"}
	invalid := []string{"", "Pricing", "-a", "a-", "a--b", "a b", "a/b", strings.Repeat("a", MaxSlugLength+1)}

	for _, s := range valid {
		if !IsValidSlug(s) {
			t.Errorf("IsValidSlug(%q) = false", s)
		}
	}
	for _, s := range invalid {
		if IsValidSlug(s) {
			t.Errorf("IsValidSlug(%q) = true", s)
		}
	}
}

func TestIsValidSitePath(t *testing.T) {
	valid := []string{"/", "/about", "/blog/launch-week"}
	invalid := []string{"", "about", "/About", "/blog/", "//x", "/a/../b", "/a?b=1"}

	for _, p := range valid {
		if !IsValidSitePath(p) {
			t.Errorf("IsValidSitePath(%q) = false", p)
		}
	}
	for _, p := range invalid {
		if IsValidSitePath(p) {
			t.Errorf("IsValidSitePath(%q) = true", p)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	got, ok := NormalizeEmail("  Jane@Example.COM ")
	if !ok || got != "jane@example.com" {
		t.Errorf("NormalizeEmail = %q, %v", got, ok)
	}
	for _, bad := range []string{"", "jane", "Jane <jane@example.com>", "a@"} {
		if _, ok := NormalizeEmail(bad); ok {
			t.Errorf("NormalizeEmail(%q) accepted", bad)
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"photo.jpg":             "photo.jpg",
		"../../etc/passwd":      "passwd",
		`C:\Users\me\photo.png`: "photo.png",
	}
	for in, want := range tests {
		got, err := SanitizeFilename(in)
		if err != nil || got != want {
			t.Errorf("SanitizeFilename(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := SanitizeFilename(".."); err == nil {
		t.Error("SanitizeFilename(..) should fail")
	}
}

func TestSafeJoinPath(t *testing.T) {
	base := t.TempDir()

	got, err := SafeJoinPath(base, "media/2026/01/a.jpg")
	if err != nil {
		t.Fatalf("SafeJoinPath: %v", err)
	}
	if got != filepath.Join(base, "media", "2026", "01", "a.jpg") {
		t.Errorf("got %q", got)
	}

	contained, err := SafeJoinPath(base, "../../etc/passwd")
	if err != nil {
		t.Fatalf("SafeJoinPath: %v", err)
	}
	if !strings.HasPrefix(contained, base) {
		t.Errorf("traversal escaped base: %q", contained)
	}
}
