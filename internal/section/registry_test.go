// Copyright (c) 2026 Brightpixel Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package section

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/brightpixel/agencyweb/internal/model"
)

func defaultRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := NewDefault()
	if err != nil {
		t.Fatalf("NewDefault: %v", err)
	}
	return r
}

func TestLookup(t *testing.T) {
	r := defaultRegistry(t)

	tests := []struct {
		name    string
		wantKey string
		found   bool
	}{
		{"hero", KeyHero, true},
		{"HeroSection", KeyHero, true},
		{"  CTA ", KeyCTA, true},
		{"call-to-action", KeyCTA, true},
		{"latest_posts", KeyBlog, true},
		{"pricing-table", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, ok := r.Lookup(tt.name)
			if ok != tt.found {
				t.Fatalf("Lookup(%q) found = %v, want %v", tt.name, ok, tt.found)
			}
			if ok && def.Key != tt.wantKey {
				t.Errorf("Lookup(%q).Key = %q, want %q", tt.name, def.Key, tt.wantKey)
			}
		})
	}
}

func TestCatalogCoversEveryKey(t *testing.T) {
	r := defaultRegistry(t)
	catalog := r.Catalog()
	if len(catalog) != len(builtin) {
		t.Fatalf("len(Catalog()) = %d, want %d", len(catalog), len(builtin))
	}
	for i, def := range catalog {
		if def.Key != builtin[i].Key {
			t.Errorf("catalog[%d] = %s, want %s", i, def.Key, builtin[i].Key)
		}
		if !def.HasVariant(DefaultVariant) {
			t.Errorf("%s lacks the default variant", def.Key)
		}
	}
}

func TestResolveVariant(t *testing.T) {
	r := defaultRegistry(t)
	hero, _ := r.Lookup(KeyHero)

	tests := map[string]string{
		"":          DefaultVariant,
		"split":     "split",
		"centered":  "centered",
		"fireworks": DefaultVariant,
		"SPLIT":     DefaultVariant,
	}
	for in, want := range tests {
		if got := hero.ResolveVariant(in); got != want {
			t.Errorf("ResolveVariant(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRegister(t *testing.T) {
	r := NewRegistry()
	noop := RendererFunc(func(io.Writer, Input) error { return nil })

	if err := r.Register(Definition{Key: "pricing", Variants: []string{"table"}}, noop); err != nil {
		t.Fatalf("Register: %v", err)
	}
	def, ok := r.Lookup("pricing")
	if !ok {
		t.Fatal("pricing not found after Register")
	}
	if def.Variants[0] != DefaultVariant || !def.HasVariant("table") {
		t.Errorf("Variants = %v", def.Variants)
	}

	if err := r.Register(Definition{Key: "Pricing"}, noop); err == nil {
		t.Error("duplicate key should be rejected")
	}
	if err := r.Register(Definition{Key: ""}, noop); err == nil {
		t.Error("empty key should be rejected")
	}
	if err := r.Register(Definition{Key: "x"}, nil); err == nil {
		t.Error("nil renderer should be rejected")
	}
}

func TestRenderPassesResolvedVariant(t *testing.T) {
	r := NewRegistry()
	var got Input
	_ = r.Register(Definition{Key: "probe", Variants: []string{"dark"}}, RendererFunc(func(_ io.Writer, in Input) error {
		got = in
		return nil
	}))
	def, _ := r.Lookup("probe")

	_ = def.Render(io.Discard, Input{Variant: "unknown"})
	if got.Variant != DefaultVariant || got.Key != "probe" {
		t.Errorf("renderer got key=%q variant=%q", got.Key, got.Variant)
	}
	_ = def.Render(io.Discard, Input{Variant: "dark"})
	if got.Variant != "dark" {
		t.Errorf("renderer got variant %q, want dark", got.Variant)
	}
}

func renderSection(t *testing.T, r *Registry, key, variant, content string, items Items) *goquery.Document {
	t.Helper()
	def, ok := r.Lookup(key)
	if !ok {
		t.Fatalf("no section %s", key)
	}
	c, err := Decode(def.Key, []byte(content))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	var buf bytes.Buffer
	if err := def.Render(&buf, Input{Variant: variant, Content: c, Items: items, Site: &model.SiteSettings{ContactEmail: "site@example.com"}}); err != nil {
		t.Fatalf("Render %s: %v", key, err)
	}
	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		t.Fatalf("parsing output: %v", err)
	}
	return doc
}

func TestBuiltinTemplatesRender(t *testing.T) {
	r := defaultRegistry(t)

	for _, def := range r.Catalog() {
		for _, v := range def.Variants {
			t.Run(def.Key+"/"+v, func(t *testing.T) {
				doc := renderSection(t, r, def.Key, v, `{"heading":"Heading text"}`, Items{})
				sel := doc.Find("section[data-section]")
				if sel.Length() != 1 {
					t.Fatalf("found %d section roots", sel.Length())
				}
				if key, _ := sel.Attr("data-section"); key != def.Key {
					t.Errorf("data-section = %q, want %q", key, def.Key)
				}
				if variant, _ := sel.Attr("data-variant"); variant != v {
					t.Errorf("data-variant = %q, want %q", variant, v)
				}
			})
		}
	}
}

func TestHeroRender(t *testing.T) {
	r := defaultRegistry(t)
	doc := renderSection(t, r, KeyHero, "split",
		`{"heading":"We build <websites>","ctaLabel":"Start","ctaUrl":"/contact"}`, Items{})

	if got := doc.Find("h1").Text(); got != "We build <websites>" {
		t.Errorf("h1 = %q", got)
	}
	if href, _ := doc.Find("a.button").Attr("href"); href != "/contact" {
		t.Errorf("cta href = %q", href)
	}
	if doc.Find(".hero__inner--split").Length() != 1 {
		t.Error("split variant class missing")
	}
}

func TestListSectionsUseItemsAndLimit(t *testing.T) {
	r := defaultRegistry(t)
	items := Items{
		Services: []model.Service{{Title: "Design"}, {Title: "Development"}, {Title: "SEO"}},
		Portfolio: []model.PortfolioItem{
			{Title: "A", Featured: false}, {Title: "B", Featured: true}, {Title: "C", Featured: true},
		},
	}

	doc := renderSection(t, r, KeyServices, "", `{"heading":"Services","limit":2}`, items)
	if n := doc.Find("article.card--service").Length(); n != 2 {
		t.Errorf("services rendered = %d, want 2", n)
	}

	doc = renderSection(t, r, KeyPortfolio, "", `{"featuredOnly":true}`, items)
	titles := doc.Find("article h3").Map(func(_ int, s *goquery.Selection) string { return s.Text() })
	if strings.Join(titles, ",") != "B,C" {
		t.Errorf("portfolio titles = %v, want B,C", titles)
	}
}

func TestContactFallsBackToSiteSettings(t *testing.T) {
	r := defaultRegistry(t)
	doc := renderSection(t, r, KeyContact, "", `{"heading":"Talk"}`, Items{})
	if href, _ := doc.Find("a[href^=mailto]").Attr("href"); href != "mailto:site@example.com" {
		t.Errorf("mailto = %q", href)
	}
}

func TestCustomSectionReadsOpaqueFields(t *testing.T) {
	r := defaultRegistry(t)
	doc := renderSection(t, r, KeyCustom, "", `{"title":"Free form","text":"**bold**","extra":{"a":1}}`, Items{})
	if got := doc.Find("h2").Text(); got != "Free form" {
		t.Errorf("h2 = %q", got)
	}
	if doc.Find(".prose strong").Length() != 1 {
		t.Error("markdown body not rendered")
	}
}

func TestDecode(t *testing.T) {
	c, err := Decode(KeyStats, []byte(`{"heading":"Numbers","items":[{"label":"Clients","value":"180"}]}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	stats, ok := c.(*StatsContent)
	if !ok {
		t.Fatalf("Decode returned %T", c)
	}
	if len(stats.Items) != 1 || stats.Items[0].Value != "180" {
		t.Errorf("stats = %+v", stats)
	}

	c, err = Decode("mystery", []byte(`{"heading":"?"}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if op, ok := c.(OpaqueContent); !ok || op.Kind() != "mystery" || op.Heading() != "?" {
		t.Errorf("opaque = %#v", c)
	}

	if c, err := Decode(KeyHero, nil); err != nil || c.(*HeroContent).Heading != "" {
		t.Errorf("empty content: %v, %v", c, err)
	}

	if _, err := Decode(KeyStats, []byte(`{"items":"not a list"}`)); err == nil {
		t.Error("mistyped field should fail to decode")
	}
}

func TestValidateContent(t *testing.T) {
	valid := []string{``, `null`, `{}`, `{"a":[1,2]}`}
	invalid := []string{`[]`, `"text"`, `42`, `{"a":`, `{'a':1}`}

	for _, s := range valid {
		if err := ValidateContent([]byte(s)); err != nil {
			t.Errorf("ValidateContent(%q) = %v", s, err)
		}
	}
	for _, s := range invalid {
		if err := ValidateContent(json.RawMessage(s)); err == nil {
			t.Errorf("ValidateContent(%q) accepted", s)
		}
	}
}
