// Copyright (c) 2026 Brightpixel Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddlewareLabelsByRoute(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/blog/{slug}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, slug := range []string{"a", "b", "c"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/blog/"+slug, nil))
	}

	got := testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/blog/{slug}", "404"))
	if got != 3 {
		t.Errorf("requests_total = %v, want 3", got)
	}
	if n := testutil.CollectAndCount(m.httpRequests); n != 1 {
		t.Errorf("series = %d, want 1", n)
	}
}

func TestSectionSkipped(t *testing.T) {
	m := New()
	m.SectionSkipped("carousel", "unknown_component")
	m.SectionSkipped("hero", "render_error")
	m.SectionSkipped("faq", "unknown_component")

	if got := testutil.ToFloat64(m.sectionsSkipped.WithLabelValues("unknown_component")); got != 2 {
		t.Errorf("unknown_component = %v, want 2", got)
	}
}

func TestHandlerExposesCounters(t *testing.T) {
	m := New()
	m.CacheLookup(true)
	m.Published("page", 2)
	m.Published("post", 0)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()

	for _, want := range []string{
		`agencyweb_render_cache_lookups_total{result="hit"} 1`,
		`agencyweb_scheduler_published_total{kind="page"} 2`,
		"go_goroutines",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
	if strings.Contains(body, `kind="post"`) {
		t.Error("zero publish count should not create a series")
	}
}
