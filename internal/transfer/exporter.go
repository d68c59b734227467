// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/brightpixel/agencyweb/internal/model"
	"github.com/brightpixel/agencyweb/internal/store"
)

// Exporter reads every content collection into an ExportData.
type Exporter struct {
	st      *store.Store
	siteURL string
	logger  *slog.Logger
}

// NewExporter creates a new Exporter instance.
func NewExporter(st *store.Store, siteURL string, logger *slog.Logger) *Exporter {
	return &Exporter{st: st, siteURL: siteURL, logger: logger}
}

// Export collects the site content according to opts. Users and events are
// never exported.
func (e *Exporter) Export(ctx context.Context, opts ExportOptions) (*ExportData, error) {
	settings, err := e.st.SiteSettings(ctx)
	if err != nil {
		return nil, err
	}

	data := &ExportData{
		Version:    ExportVersion,
		ExportedAt: time.Now().UTC(),
		Site:       ExportSite{Name: settings.SiteName, URL: e.siteURL},
		Settings:   settings,
	}

	pages, err := e.st.Pages.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("exporting pages: %w", err)
	}
	kept := make(map[string]bool, len(pages))
	for _, p := range pages {
		if opts.PageStatus == "" || opts.PageStatus == "all" || p.Status == opts.PageStatus {
			data.Pages = append(data.Pages, p)
			kept[p.ID] = true
		}
	}

	sections, err := e.st.Sections.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("exporting sections: %w", err)
	}
	for _, s := range sections {
		if kept[s.PageID] {
			data.Sections = append(data.Sections, s)
		}
	}

	if data.Posts, err = e.st.Posts.List(ctx); err != nil {
		return nil, fmt.Errorf("exporting posts: %w", err)
	}
	if data.Services, err = e.st.Services.List(ctx); err != nil {
		return nil, fmt.Errorf("exporting services: %w", err)
	}
	if data.Portfolio, err = e.st.Portfolio.List(ctx); err != nil {
		return nil, fmt.Errorf("exporting portfolio: %w", err)
	}
	if data.Testimonials, err = e.st.Testimonials.List(ctx); err != nil {
		return nil, fmt.Errorf("exporting testimonials: %w", err)
	}
	if data.Team, err = e.st.Team.List(ctx); err != nil {
		return nil, fmt.Errorf("exporting team: %w", err)
	}
	if data.Menus, err = e.st.Menus.List(ctx); err != nil {
		return nil, fmt.Errorf("exporting menus: %w", err)
	}
	if data.SEO, err = e.st.SEO.List(ctx); err != nil {
		return nil, fmt.Errorf("exporting seo: %w", err)
	}
	if opts.IncludeMedia {
		if data.Media, err = e.st.Media.List(ctx); err != nil {
			return nil, fmt.Errorf("exporting media: %w", err)
		}
	}
	if opts.IncludeSubscribers {
		if data.Subscribers, err = e.st.Subscribers.List(ctx); err != nil {
			return nil, fmt.Errorf("exporting subscribers: %w", err)
		}
	}

	e.logger.Info("content exported",
		"pages", len(data.Pages),
		"sections", len(data.Sections),
		"posts", len(data.Posts),
		"media", len(data.Media),
		"category", model.EventCategorySystem)
	return data, nil
}

// ExportToWriter writes the export as indented JSON.
func (e *Exporter) ExportToWriter(ctx context.Context, opts ExportOptions, w io.Writer) error {
	data, err := e.Export(ctx, opts)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
