// Copyright (c) 2026 Brightpixel Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package page

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/brightpixel/agencyweb/internal/model"
	"github.com/brightpixel/agencyweb/internal/section"
)

type skipCounter map[string]int

func (s skipCounter) SectionSkipped(_, reason string) { s[reason]++ }

type stubItems struct {
	calls int
	err   error
}

func (s *stubItems) LoadItems(_ context.Context, source string, items *section.Items) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	if source == section.SourceServices {
		items.Services = []model.Service{{Title: "Design", IsActive: true}, {Title: "Build", IsActive: true}}
	}
	return nil
}

func testRenderer(t *testing.T, items ItemLoader, skips SkipRecorder) *Renderer {
	t.Helper()
	reg, err := section.NewDefault()
	if err != nil {
		t.Fatalf("NewDefault: %v", err)
	}
	broken := section.RendererFunc(func(io.Writer, section.Input) error { return errors.New("template exploded") })
	if err := reg.Register(section.Definition{Key: "broken"}, broken); err != nil {
		t.Fatalf("Register: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRenderer(reg, items, logger, WithSkipRecorder(skips))
}

func withContent(s model.PageSection, content string) model.PageSection {
	s.Content = json.RawMessage(content)
	return s
}

func parse(t *testing.T, out Output) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(out.HTML)))
	if err != nil {
		t.Fatalf("parsing output: %v", err)
	}
	return doc
}

func renderedKeys(doc *goquery.Document) []string {
	return doc.Find("section[data-section]").Map(func(_ int, s *goquery.Selection) string {
		v, _ := s.Attr("data-section")
		return v
	})
}

func TestRenderOrder(t *testing.T) {
	r := testRenderer(t, nil, skipCounter{})
	res := &Resolved{
		Page: published("p", "pricing", model.PageTypeCustom),
		Sections: Arrange([]model.PageSection{
			withContent(sec("3", "cta", 3, true), `{"heading":"Go"}`),
			withContent(sec("1", "HeroSection", 1, true), `{"heading":"Pricing"}`),
			withContent(sec("2", "faq", 2, true), `{}`),
		}),
		Settings: &model.SiteSettings{},
	}
	out := r.Render(context.Background(), res)

	want := []string{"hero", "faq", "cta"}
	if got := renderedKeys(parse(t, out)); !equalStrings(got, want) {
		t.Errorf("rendered = %v, want %v", got, want)
	}
	if !equalStrings(out.Rendered, want) || out.Fallback || len(out.Skipped) != 0 {
		t.Errorf("output = %+v", out)
	}
}

func TestRenderSkipsFailingSections(t *testing.T) {
	skips := skipCounter{}
	r := testRenderer(t, nil, skips)
	res := &Resolved{
		Page: published("p", "about", model.PageTypeAbout),
		Sections: []model.PageSection{
			withContent(sec("1", "hero", 1, true), `{"heading":"Hi"}`),
			withContent(sec("2", "pricing-table", 2, true), `{}`),
			withContent(sec("3", "stats", 3, true), `{"items":"nope"}`),
			withContent(sec("4", "broken", 4, true), `{}`),
			withContent(sec("5", "cta", 5, true), `{"heading":"Bye"}`),
		},
		Settings: &model.SiteSettings{},
	}
	out := r.Render(context.Background(), res)

	if got := renderedKeys(parse(t, out)); !equalStrings(got, []string{"hero", "cta"}) {
		t.Errorf("rendered = %v", got)
	}
	if len(out.Skipped) != 3 {
		t.Fatalf("skipped = %+v", out.Skipped)
	}
	wantReasons := []string{SkipUnknownComponent, SkipInvalidContent, SkipRenderError}
	for i, s := range out.Skipped {
		if s.Reason != wantReasons[i] {
			t.Errorf("skipped[%d].Reason = %s, want %s", i, s.Reason, wantReasons[i])
		}
	}
	for _, reason := range wantReasons {
		if skips[reason] != 1 {
			t.Errorf("recorded %s = %d", reason, skips[reason])
		}
	}
	if strings.Contains(string(out.HTML), "exploded") {
		t.Error("partial output of the failing section leaked")
	}
}

func TestRenderFallback(t *testing.T) {
	r := testRenderer(t, nil, skipCounter{})
	p := published("p", "empty", model.PageTypeCustom)
	p.Title = "Coming soon"
	p.Description = "Check back later"

	for name, sections := range map[string][]model.PageSection{
		"no sections": nil,
		"all unknown": {sec("1", "mystery", 1, true)},
		"only hidden": {sec("1", "hero", 1, false)},
	} {
		t.Run(name, func(t *testing.T) {
			out := r.Render(context.Background(), &Resolved{Page: p, Sections: sections, Settings: &model.SiteSettings{}})
			doc := parse(t, out)
			if !out.Fallback {
				t.Error("Fallback = false")
			}
			if got := doc.Find(`[data-section="fallback"] h1`).Text(); got != "Coming soon" {
				t.Errorf("fallback title = %q", got)
			}
			if got := doc.Find(".section__lead").Text(); got != "Check back later" {
				t.Errorf("fallback description = %q", got)
			}
		})
	}
}

func TestRenderLoadsItemsOncePerSource(t *testing.T) {
	items := &stubItems{}
	r := testRenderer(t, items, skipCounter{})
	res := &Resolved{
		Page: published("p", "services", model.PageTypeService),
		Sections: []model.PageSection{
			withContent(sec("1", "services", 1, true), `{}`),
			withContent(sec("2", "services", 2, true), `{"limit":1}`),
		},
		Settings: &model.SiteSettings{},
	}
	out := r.Render(context.Background(), res)
	if items.calls != 1 {
		t.Errorf("LoadItems calls = %d, want 1", items.calls)
	}
	if n := parse(t, out).Find("article.card--service").Length(); n != 3 {
		t.Errorf("service cards = %d, want 3", n)
	}
}

func TestRenderItemLoadFailureStillRenders(t *testing.T) {
	r := testRenderer(t, &stubItems{err: errors.New("db down")}, skipCounter{})
	res := &Resolved{
		Page:     published("p", "services", model.PageTypeService),
		Sections: []model.PageSection{withContent(sec("1", "services", 1, true), `{"heading":"What we do"}`)},
		Settings: &model.SiteSettings{},
	}
	out := r.Render(context.Background(), res)
	if out.Fallback || !equalStrings(out.Rendered, []string{"services"}) {
		t.Errorf("output = %+v", out)
	}
}
