// Copyright (c) 2026 Brightpixel Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package page

import (
	"bytes"
	"context"
	"html/template"
	"log/slog"

	"github.com/brightpixel/agencyweb/internal/model"
	"github.com/brightpixel/agencyweb/internal/section"
)

// Reasons a section instance is left out of the output.
const (
	SkipUnknownComponent = "unknown_component"
	SkipInvalidContent   = "invalid_content"
	SkipRenderError      = "render_error"
)

// SkipRecorder counts skipped sections.
type SkipRecorder interface {
	SectionSkipped(component, reason string)
}

// Skip describes one section instance that was not rendered.
type Skip struct {
	SectionID     string `json:"sectionId"`
	ComponentName string `json:"componentName"`
	Reason        string `json:"reason"`
}

// Output is the rendered body of a page.
type Output struct {
	HTML     template.HTML
	Rendered []string // section keys in output order
	Skipped  []Skip
	Fallback bool
}

var fallbackTmpl = template.Must(template.New("fallback").Parse(
	`<section class="section section--fallback" data-section="fallback"><h1>{{.Title}}</h1>{{if .Description}}<p class="section__lead">{{.Description}}</p>{{end}}</section>`))

// Renderer renders resolved pages.
type Renderer struct {
	registry *section.Registry
	items    ItemLoader
	logger   *slog.Logger
	skips    SkipRecorder
}

// RendererOption customises a Renderer.
type RendererOption func(*Renderer)

// WithSkipRecorder reports skipped sections to rec.
func WithSkipRecorder(rec SkipRecorder) RendererOption {
	return func(r *Renderer) { r.skips = rec }
}

// NewRenderer creates a Renderer. items may be nil, in which case list
// sections render without entries.
func NewRenderer(registry *section.Registry, items ItemLoader, logger *slog.Logger, opts ...RendererOption) *Renderer {
	r := &Renderer{registry: registry, items: items, logger: logger}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render renders the sections of res in order. Each section is rendered
// into its own buffer; a section whose component is unknown, whose content
// does not decode, or whose renderer fails is logged and left out while the
// remaining sections still render. When nothing renders, the page title and
// description are shown instead.
func (r *Renderer) Render(ctx context.Context, res *Resolved) Output {
	var (
		out    Output
		body   bytes.Buffer
		items  section.Items
		loaded = make(map[string]bool)
	)

	for _, inst := range res.Sections {
		if !inst.IsVisible {
			continue
		}

		def, ok := r.registry.Lookup(inst.ComponentName)
		if !ok {
			r.skip(ctx, &out, inst, SkipUnknownComponent, nil)
			continue
		}

		content, err := section.Decode(def.Key, inst.Content)
		if err != nil {
			r.skip(ctx, &out, inst, SkipInvalidContent, err)
			continue
		}

		if def.Source != "" && !loaded[def.Source] {
			loaded[def.Source] = true
			if r.items != nil {
				if err := r.items.LoadItems(ctx, def.Source, &items); err != nil {
					r.logger.WarnContext(ctx, "section items failed to load",
						"category", model.EventCategorySection, "source", def.Source, "error", err)
				}
			}
		}

		var buf bytes.Buffer
		err = def.Render(&buf, section.Input{
			Variant: inst.Variant,
			Content: content,
			Items:   items,
			Site:    res.Settings,
		})
		if err != nil {
			r.skip(ctx, &out, inst, SkipRenderError, err)
			continue
		}
		_, _ = buf.WriteTo(&body)
		out.Rendered = append(out.Rendered, def.Key)
	}

	if len(out.Rendered) == 0 {
		out.Fallback = true
		body.Reset()
		if err := fallbackTmpl.Execute(&body, res.Page); err != nil {
			r.logger.ErrorContext(ctx, "fallback page view failed", "slug", res.Page.Slug, "error", err)
		}
	}

	out.HTML = template.HTML(body.String()) //nolint:gosec // produced by html/template
	return out
}

func (r *Renderer) skip(ctx context.Context, out *Output, inst model.PageSection, reason string, err error) {
	out.Skipped = append(out.Skipped, Skip{SectionID: inst.ID, ComponentName: inst.ComponentName, Reason: reason})
	if r.skips != nil {
		r.skips.SectionSkipped(inst.ComponentName, reason)
	}

	attrs := []any{
		"category", model.EventCategorySection,
		"section_id", inst.ID,
		"component", inst.ComponentName,
		"reason", reason,
	}
	if err != nil {
		attrs = append(attrs, "error", err)
	}
	r.logger.WarnContext(ctx, "section skipped", attrs...)
}
