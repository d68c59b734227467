// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/brightpixel/agencyweb/internal/testutil"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
}

func TestSecurityHeadersProduction(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeaders(DefaultSecurityHeadersConfig(false))(okHandler()).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	h := rec.Header()
	if got := h.Get("Strict-Transport-Security"); got != "max-age=31536000; includeSubDomains" {
		t.Errorf("HSTS = %q", got)
	}
	if h.Get("X-Content-Type-Options") != "nosniff" || h.Get("X-Frame-Options") != "SAMEORIGIN" {
		t.Errorf("headers = %v", h)
	}
	csp := h.Get("Content-Security-Policy")
	if !strings.HasPrefix(csp, "default-src 'self'; script-src 'self'") || !strings.Contains(csp, "img-src 'self' data: blob: https:") {
		t.Errorf("CSP = %q", csp)
	}
	if got := h.Get("Permissions-Policy"); !strings.HasPrefix(got, "browsing-topics=()") {
		t.Errorf("Permissions-Policy = %q, want sorted", got)
	}
}

func TestSecurityHeadersDevelopmentSkipsHSTS(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeaders(DefaultSecurityHeadersConfig(true))(okHandler()).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if got := rec.Header().Get("Strict-Transport-Security"); got != "" {
		t.Errorf("HSTS = %q, want none", got)
	}
}

func TestSecurityHeadersExcludePaths(t *testing.T) {
	cfg := DefaultSecurityHeadersConfig(false)
	cfg.ExcludePaths = []string{"/metrics"}
	rec := httptest.NewRecorder()
	SecurityHeaders(cfg)(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Header().Get("Content-Security-Policy") != "" {
		t.Error("excluded path should not get headers")
	}
}

func TestBuildCSPOrdersUnknownDirectives(t *testing.T) {
	got := buildCSP(map[string]string{"worker-src": "'none'", "default-src": "'self'", "manifest-src": "'self'"})
	want := "default-src 'self'; manifest-src 'self'; worker-src 'none'"
	if got != want {
		t.Errorf("buildCSP() = %q, want %q", got, want)
	}
}

func TestCSRFRejectsCrossSitePost(t *testing.T) {
	cfg := DefaultCSRFConfig([]byte("12345678901234567890123456789012"), false, testutil.DiscardLogger())
	h := CSRF(cfg)(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/pages", nil)
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("cross-site POST = %d, want 403", rec.Code)
	}
	if got := decodeAPIError(t, rec).Error.Code; got != "forbidden" {
		t.Errorf("code = %q", got)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/admin/pages", nil)
	req.Header.Set("Sec-Fetch-Site", "same-origin")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("same-origin POST = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/pages", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("GET = %d, want 200", rec.Code)
	}
}

func TestDefaultCSRFConfigOrigins(t *testing.T) {
	key := []byte("12345678901234567890123456789012")
	if got := DefaultCSRFConfig(key, false, nil).TrustedOrigins; len(got) != 0 {
		t.Errorf("production origins = %v", got)
	}
	for _, origin := range DefaultCSRFConfig(key, true, nil).TrustedOrigins {
		if strings.HasPrefix(origin, "http") {
			t.Errorf("origin %q should be host:port", origin)
		}
	}
}

func TestTimeout(t *testing.T) {
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	rec := httptest.NewRecorder()
	Timeout(20*time.Millisecond)(slow).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/pages/home", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("Status = %d, want 503", rec.Code)
	}
	if got := decodeAPIError(t, rec).Error.Code; got != "timeout" {
		t.Errorf("code = %q", got)
	}

	rec = httptest.NewRecorder()
	Timeout(20*time.Millisecond)(slow).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/about", nil))
	if rec.Code != http.StatusServiceUnavailable || rec.Body.String() != "Request timeout" {
		t.Errorf("HTML timeout = %d %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	Timeout(time.Second)(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("fast handler = %d %q", rec.Code, rec.Body.String())
	}
}

func TestStripTrailingSlash(t *testing.T) {
	tests := []struct {
		path     string
		location string
	}{
		{"/about/", "/about"},
		{"/blog/post/?ref=x", "/blog/post?ref=x"},
		{"/", ""},
		{"/about", ""},
		{"/api/admin/pages/", ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			StripTrailingSlash(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if tt.location == "" {
				if rec.Code != http.StatusOK {
					t.Errorf("Status = %d, want 200", rec.Code)
				}
				return
			}
			if rec.Code != http.StatusMovedPermanently || rec.Header().Get("Location") != tt.location {
				t.Errorf("got %d %q, want 301 %q", rec.Code, rec.Header().Get("Location"), tt.location)
			}
		})
	}
}

func TestStripTrailingSlashProtocolRelative(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.URL.Path = "//evil.example/"
	rec := httptest.NewRecorder()
	StripTrailingSlash(okHandler()).ServeHTTP(rec, req)
	if got := rec.Header().Get("Location"); got != "/evil.example" {
		t.Errorf("Location = %q, want /evil.example", got)
	}
}

func TestCacheHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	StaticCache(3600)(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/site.css", nil))
	if got := rec.Header().Get("Cache-Control"); got != "public, max-age=3600" {
		t.Errorf("StaticCache = %q", got)
	}

	rec = httptest.NewRecorder()
	NoStore(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/pages", nil))
	if got := rec.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("NoStore = %q", got)
	}
}
