// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/brightpixel/agencyweb/internal/model"
	"github.com/brightpixel/agencyweb/internal/section"
	"github.com/brightpixel/agencyweb/internal/store"
	"github.com/brightpixel/agencyweb/internal/util"
)

// ErrValidation is returned when the import data is rejected before any
// document is written.
var ErrValidation = errors.New("import validation failed")

// Importer writes ExportData back into a store. Documents keep their ids,
// so an export can be re-imported without duplicating content.
type Importer struct {
	st     *store.Store
	logger *slog.Logger
}

// NewImporter creates a new Importer instance.
func NewImporter(st *store.Store, logger *slog.Logger) *Importer {
	return &Importer{st: st, logger: logger}
}

// Import validates data and writes it. Pages go before their sections.
// Per-document failures are collected in the result and do not stop the
// import.
func (i *Importer) Import(ctx context.Context, data *ExportData, opts ImportOptions) (*ImportResult, error) {
	result := NewImportResult(opts.DryRun)

	if errs := i.Validate(ctx, data); len(errs) > 0 {
		for _, e := range errs {
			result.AddError(e.Entity, e.ID, e.Message)
		}
		return result, ErrValidation
	}
	if opts.ConflictStrategy == "" {
		opts.ConflictStrategy = ConflictSkip
	}

	now := time.Now().UTC()
	for n := range data.Pages {
		data.Pages[n].Lifecycle().SetStatus(data.Pages[n].Status, now)
	}
	for n := range data.Posts {
		data.Posts[n].Lifecycle().SetStatus(data.Posts[n].Status, now)
	}

	if data.Settings != nil {
		i.importSettings(ctx, data.Settings, opts, result)
	}
	importDocs(ctx, i.st.Pages, EntityPages, data.Pages, opts, result)
	importDocs(ctx, i.st.Sections, EntitySections, data.Sections, opts, result)
	importDocs(ctx, i.st.Posts, EntityPosts, data.Posts, opts, result)
	importDocs(ctx, i.st.Services, EntityServices, data.Services, opts, result)
	importDocs(ctx, i.st.Portfolio, EntityPortfolio, data.Portfolio, opts, result)
	importDocs(ctx, i.st.Testimonials, EntityTestimonials, data.Testimonials, opts, result)
	importDocs(ctx, i.st.Team, EntityTeam, data.Team, opts, result)
	importDocs(ctx, i.st.Menus, EntityMenus, data.Menus, opts, result)
	importDocs(ctx, i.st.SEO, EntitySEO, data.SEO, opts, result)
	importDocs(ctx, i.st.Media, EntityMedia, data.Media, opts, result)
	importDocs(ctx, i.st.Subscribers, EntitySubscribers, data.Subscribers, opts, result)

	level := slog.LevelInfo
	if !result.Success {
		level = slog.LevelWarn
	}
	i.logger.Log(ctx, level, "content imported",
		"dry_run", opts.DryRun,
		"created", result.TotalCreated(),
		"updated", result.TotalUpdated(),
		"skipped", result.TotalSkipped(),
		"errors", len(result.Errors),
		"category", model.EventCategorySystem)
	return result, nil
}

// ImportFromReader decodes a JSON export from r and imports it.
func (i *Importer) ImportFromReader(ctx context.Context, r io.Reader, opts ImportOptions) (*ImportResult, error) {
	var data ExportData
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %w", ErrValidation, err)
	}
	return i.Import(ctx, &data, opts)
}

// Validate checks the format version, that every document has an id, that
// pages and posts carry a known status and a URL-safe slug, and that every
// section holds object content and belongs to a page in the export or in
// the store.
func (i *Importer) Validate(ctx context.Context, data *ExportData) []ImportError {
	var errs []ImportError
	if data == nil {
		return []ImportError{{Entity: "export", Message: "is empty"}}
	}
	major, _, _ := strings.Cut(data.Version, ".")
	wantMajor, _, _ := strings.Cut(ExportVersion, ".")
	if major != wantMajor {
		errs = append(errs, ImportError{Entity: "export", Message: fmt.Sprintf("unsupported version %q", data.Version)})
	}

	errs = append(errs, missingIDs(EntityPages, data.Pages)...)
	errs = append(errs, missingIDs(EntitySections, data.Sections)...)
	errs = append(errs, missingIDs(EntityPosts, data.Posts)...)
	errs = append(errs, missingIDs(EntityServices, data.Services)...)
	errs = append(errs, missingIDs(EntityPortfolio, data.Portfolio)...)
	errs = append(errs, missingIDs(EntityTestimonials, data.Testimonials)...)
	errs = append(errs, missingIDs(EntityTeam, data.Team)...)
	errs = append(errs, missingIDs(EntityMenus, data.Menus)...)
	errs = append(errs, missingIDs(EntitySEO, data.SEO)...)
	errs = append(errs, missingIDs(EntityMedia, data.Media)...)
	errs = append(errs, missingIDs(EntitySubscribers, data.Subscribers)...)

	pages := make(map[string]bool, len(data.Pages))
	for _, p := range data.Pages {
		pages[p.ID] = true
		errs = append(errs, checkPublishable(EntityPages, p.ID, p.Status, p.Slug)...)
		if !model.IsValidPageType(p.PageType) {
			errs = append(errs, ImportError{Entity: EntityPages, ID: p.ID, Message: fmt.Sprintf("unknown page type %q", p.PageType)})
		}
	}
	for _, p := range data.Posts {
		errs = append(errs, checkPublishable(EntityPosts, p.ID, p.Status, p.Slug)...)
	}
	for _, s := range data.Sections {
		if err := section.ValidateContent(s.Content); err != nil {
			errs = append(errs, ImportError{Entity: EntitySections, ID: s.ID, Message: "content must be a JSON object"})
		}
		if s.PageID == "" {
			errs = append(errs, ImportError{Entity: EntitySections, ID: s.ID, Message: "has no pageId"})
			continue
		}
		if !pages[s.PageID] {
			if _, err := i.st.Pages.Get(ctx, s.PageID); err != nil {
				errs = append(errs, ImportError{Entity: EntitySections, ID: s.ID, Message: "references unknown page " + s.PageID})
			}
		}
	}
	return errs
}

func (i *Importer) importSettings(ctx context.Context, settings *model.SiteSettings, opts ImportOptions, result *ImportResult) {
	_, err := i.st.Settings.Get(ctx, model.SiteSettingsID)
	exists := err == nil
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		result.AddError(EntitySettings, model.SiteSettingsID, err.Error())
		return
	}
	if exists && opts.ConflictStrategy != ConflictOverwrite {
		result.IncrementSkipped(EntitySettings)
		return
	}
	if !opts.DryRun {
		if err := i.st.SaveSiteSettings(ctx, settings); err != nil {
			result.AddError(EntitySettings, model.SiteSettingsID, err.Error())
			return
		}
	}
	if exists {
		result.IncrementUpdated(EntitySettings)
	} else {
		result.IncrementCreated(EntitySettings)
	}
}

// importDocs creates documents whose id is unknown and skips or overwrites
// the others according to the conflict strategy.
func importDocs[T any, P interface {
	*T
	model.Document
}](ctx context.Context, col *store.Collection[T, P], entity string, docs []T, opts ImportOptions, result *ImportResult) {
	for n := range docs {
		doc := &docs[n]
		id := P(doc).Base().ID

		_, err := col.Get(ctx, id)
		switch {
		case err == nil:
			if opts.ConflictStrategy != ConflictOverwrite {
				result.IncrementSkipped(entity)
				continue
			}
			if !opts.DryRun {
				if err := col.Update(ctx, doc); err != nil {
					result.AddError(entity, id, conflictMessage(err))
					continue
				}
			}
			result.IncrementUpdated(entity)
		case errors.Is(err, store.ErrNotFound):
			if !opts.DryRun {
				if err := col.Create(ctx, doc); err != nil {
					result.AddError(entity, id, conflictMessage(err))
					continue
				}
			}
			result.IncrementCreated(entity)
		default:
			result.AddError(entity, id, err.Error())
		}
	}
}

func checkPublishable(entity, id, status, slug string) []ImportError {
	var errs []ImportError
	if !model.IsValidStatus(status) {
		errs = append(errs, ImportError{Entity: entity, ID: id, Message: fmt.Sprintf("unknown status %q", status)})
	}
	if !util.IsValidSlug(slug) {
		errs = append(errs, ImportError{Entity: entity, ID: id, Message: fmt.Sprintf("slug %q is not URL-safe", slug)})
	}
	return errs
}

func conflictMessage(err error) string {
	if errors.Is(err, store.ErrDuplicateKey) {
		return "unique key already used by another document"
	}
	return err.Error()
}

func missingIDs[T any, P interface {
	*T
	model.Document
}](entity string, docs []T) []ImportError {
	var errs []ImportError
	for n := range docs {
		if P(&docs[n]).Base().ID == "" {
			errs = append(errs, ImportError{Entity: entity, Message: fmt.Sprintf("item %d has no id", n)})
		}
	}
	return errs
}
