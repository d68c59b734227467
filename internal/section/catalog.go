// Copyright (c) 2026 Brightpixel Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package section

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/brightpixel/agencyweb/internal/render"
)

//go:embed templates/*.html
var templatesFS embed.FS

// builtin is the compile-time catalog.
var builtin = []Definition{
	{Key: KeyHero, Name: "Hero", Description: "Large heading with a call to action",
		Variants: []string{DefaultVariant, "centered", "split"}, Aliases: []string{"HeroSection"}},
	{Key: KeyAbout, Name: "About", Description: "Studio introduction with an image",
		Variants: []string{DefaultVariant, "image-left"}, Aliases: []string{"AboutSection"}},
	{Key: KeyServices, Name: "Services", Description: "Active services",
		Variants: []string{DefaultVariant, "grid", "list"}, Source: SourceServices, Aliases: []string{"ServicesSection"}},
	{Key: KeyPortfolio, Name: "Portfolio", Description: "Published portfolio items",
		Variants: []string{DefaultVariant, "masonry"}, Source: SourcePortfolio, Aliases: []string{"PortfolioSection"}},
	{Key: KeyTestimonials, Name: "Testimonials", Description: "Client quotes",
		Variants: []string{DefaultVariant, "carousel"}, Source: SourceTestimonials, Aliases: []string{"TestimonialsSection"}},
	{Key: KeyStats, Name: "Stats", Description: "Key figures",
		Variants: []string{DefaultVariant, "dark"}, Aliases: []string{"StatsSection"}},
	{Key: KeyClients, Name: "Clients", Description: "Client logo wall",
		Variants: []string{DefaultVariant}, Aliases: []string{"ClientsSection"}},
	{Key: KeyProcess, Name: "Process", Description: "How the studio works, step by step",
		Variants: []string{DefaultVariant, "timeline"}, Aliases: []string{"ProcessSection"}},
	{Key: KeyAchievements, Name: "Achievements", Description: "Awards and milestones",
		Variants: []string{DefaultVariant}, Aliases: []string{"AchievementsSection"}},
	{Key: KeyTeam, Name: "Team", Description: "Active team members",
		Variants: []string{DefaultVariant, "compact"}, Source: SourceTeam, Aliases: []string{"TeamSection"}},
	{Key: KeyBlog, Name: "Blog", Description: "Latest published posts",
		Variants: []string{DefaultVariant}, Source: SourcePosts, Aliases: []string{"BlogSection", "latest-posts"}},
	{Key: KeyCTA, Name: "Call to action", Description: "Closing prompt with a button",
		Variants: []string{DefaultVariant, "banner"}, Aliases: []string{"CTASection", "call-to-action"}},
	{Key: KeyContact, Name: "Contact", Description: "Contact details",
		Variants: []string{DefaultVariant}, Aliases: []string{"ContactSection"}},
	{Key: KeyFAQ, Name: "FAQ", Description: "Questions and answers",
		Variants: []string{DefaultVariant}, Aliases: []string{"FAQSection"}},
	{Key: KeyRichText, Name: "Rich text", Description: "Free markdown",
		Variants: []string{DefaultVariant, "narrow"}, Aliases: []string{"RichTextSection", "text"}},
	{Key: KeyCustom, Name: "Custom", Description: "Free-form content with heading and body fields",
		Variants: []string{DefaultVariant}, Aliases: []string{"CustomSection"}},
}

// NewDefault returns a registry holding the built-in catalog, each entry
// rendered by the template of the same name.
func NewDefault() (*Registry, error) {
	tmpl, err := template.New("sections").Funcs(render.Funcs()).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing section templates: %w", err)
	}

	r := NewRegistry()
	for _, def := range builtin {
		if tmpl.Lookup(def.Key) == nil {
			return nil, fmt.Errorf("section %s has no template", def.Key)
		}
		if err := r.Register(def, templateRenderer{tmpl: tmpl, name: def.Key}); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// templateRenderer executes one named template of the section set.
type templateRenderer struct {
	tmpl *template.Template
	name string
}

func (t templateRenderer) Render(w io.Writer, in Input) error {
	return t.tmpl.ExecuteTemplate(w, t.name, in)
}
