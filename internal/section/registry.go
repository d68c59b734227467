// Copyright (c) 2026 Brightpixel Studio
// SPDX-License-Identifier: GPL-3.0-or-later

// Package section holds the catalog of page sections. A Registry maps the
// component name stored on a section instance to its definition and
// renderer. A missing entry is a normal outcome that callers skip.
package section

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/brightpixel/agencyweb/internal/model"
)

// Section keys
const (
	KeyHero         = "hero"
	KeyAbout        = "about"
	KeyServices     = "services"
	KeyPortfolio    = "portfolio"
	KeyTestimonials = "testimonials"
	KeyStats        = "stats"
	KeyClients      = "clients"
	KeyProcess      = "process"
	KeyAchievements = "achievements"
	KeyTeam         = "team"
	KeyBlog         = "blog"
	KeyCTA          = "cta"
	KeyContact      = "contact"
	KeyFAQ          = "faq"
	KeyRichText     = "richtext"
	KeyCustom       = "custom"
)

// DefaultVariant is used when an instance has no variant or an undeclared one.
const DefaultVariant = "default"

// Collection sources for list sections.
const (
	SourceServices     = "services"
	SourcePortfolio    = "portfolio"
	SourceTestimonials = "testimonials"
	SourceTeam         = "team"
	SourcePosts        = "posts"
)

// Items carries the stored entities a list section displays.
type Items struct {
	Services     []model.Service
	Portfolio    []model.PortfolioItem
	Testimonials []model.Testimonial
	Team         []model.TeamMember
	Posts        []model.Post
}

// Input is what a renderer receives for one section instance.
type Input struct {
	Key     string
	Variant string
	Content Content
	Items   Items
	Site    *model.SiteSettings
}

// Renderer writes the markup of a section.
type Renderer interface {
	Render(w io.Writer, in Input) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(w io.Writer, in Input) error

// Render calls f.
func (f RendererFunc) Render(w io.Writer, in Input) error { return f(w, in) }

// Definition is a catalog entry.
type Definition struct {
	Key         string   `json:"key"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Variants    []string `json:"variants"`
	// Source names the collection a list section displays.
	Source  string   `json:"source,omitempty"`
	Aliases []string `json:"aliases,omitempty"`

	renderer Renderer
}

// HasVariant reports whether v is declared by the definition.
func (d Definition) HasVariant(v string) bool {
	return slices.Contains(d.Variants, v)
}

// ResolveVariant returns v when it is declared and DefaultVariant otherwise.
func (d Definition) ResolveVariant(v string) string {
	if v != "" && d.HasVariant(v) {
		return v
	}
	return DefaultVariant
}

// Render renders in with the definition's renderer after resolving the
// variant and trimming list items to what the content asks for.
func (d Definition) Render(w io.Writer, in Input) error {
	if d.renderer == nil {
		return fmt.Errorf("section %s has no renderer", d.Key)
	}
	in.Key = d.Key
	in.Variant = d.ResolveVariant(in.Variant)
	if lc, ok := in.Content.(*ListContent); ok {
		in.Items = in.Items.limited(d.Source, *lc)
	}
	return d.renderer.Render(w, in)
}

func (it Items) limited(source string, lc ListContent) Items {
	switch source {
	case SourceServices:
		it.Services = head(it.Services, lc.Limit)
	case SourcePortfolio:
		if lc.FeaturedOnly {
			featured := make([]model.PortfolioItem, 0, len(it.Portfolio))
			for _, p := range it.Portfolio {
				if p.Featured {
					featured = append(featured, p)
				}
			}
			it.Portfolio = featured
		}
		it.Portfolio = head(it.Portfolio, lc.Limit)
	case SourceTestimonials:
		it.Testimonials = head(it.Testimonials, lc.Limit)
	case SourceTeam:
		it.Team = head(it.Team, lc.Limit)
	case SourcePosts:
		it.Posts = head(it.Posts, lc.Limit)
	}
	return it
}

func head[T any](s []T, n int) []T {
	if n <= 0 || n >= len(s) {
		return s
	}
	return s[:n]
}

// Registry maps component names to definitions. It is filled at startup
// and only read afterwards.
type Registry struct {
	defs  map[string]Definition
	index map[string]string // normalized name or alias -> key
	keys  []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]Definition), index: make(map[string]string)}
}

// Register adds a definition. DefaultVariant is added to the variants when missing.
func (r *Registry) Register(def Definition, renderer Renderer) error {
	if def.Key == "" {
		return fmt.Errorf("section key is required")
	}
	if renderer == nil {
		return fmt.Errorf("section %s: renderer is required", def.Key)
	}
	names := append([]string{def.Key}, def.Aliases...)
	for _, n := range names {
		if existing, ok := r.index[normalize(n)]; ok {
			return fmt.Errorf("section name %q already registered by %s", n, existing)
		}
	}
	if !slices.Contains(def.Variants, DefaultVariant) {
		def.Variants = append([]string{DefaultVariant}, def.Variants...)
	}
	def.renderer = renderer

	r.defs[def.Key] = def
	r.keys = append(r.keys, def.Key)
	for _, n := range names {
		r.index[normalize(n)] = def.Key
	}
	return nil
}

// Lookup returns the definition registered for a component name. Names are
// matched case-insensitively and ignoring separators, so "HeroSection" and
// "hero-section" both find an alias "hero-section". The boolean is false
// when nothing is registered.
func (r *Registry) Lookup(componentName string) (Definition, bool) {
	key, ok := r.index[normalize(componentName)]
	if !ok {
		return Definition{}, false
	}
	return r.defs[key], true
}

// Catalog returns every definition in registration order.
func (r *Registry) Catalog() []Definition {
	out := make([]Definition, 0, len(r.keys))
	for _, k := range r.keys {
		out = append(out, r.defs[k])
	}
	return out
}

func normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer("-", "", "_", "", " ", "").Replace(name)
}
