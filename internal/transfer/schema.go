// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package transfer exports the site content to a portable JSON document and
// imports it back, into the same or another store backend.
package transfer

import (
	"time"

	"github.com/brightpixel/agencyweb/internal/model"
)

// ExportVersion is the current version of the export format.
const ExportVersion = "1.0"

// Entity names used in import results.
const (
	EntitySettings     = "settings"
	EntityPages        = "pages"
	EntitySections     = "sections"
	EntityPosts        = "posts"
	EntityServices     = "services"
	EntityPortfolio    = "portfolio"
	EntityTestimonials = "testimonials"
	EntityTeam         = "team"
	EntityMenus        = "menus"
	EntitySEO          = "seo"
	EntityMedia        = "media"
	EntitySubscribers  = "subscribers"
)

// ExportData represents the complete export structure.
type ExportData struct {
	Version      string                `json:"version"`
	ExportedAt   time.Time             `json:"exportedAt"`
	Site         ExportSite            `json:"site"`
	Settings     *model.SiteSettings   `json:"settings,omitempty"`
	Pages        []model.Page          `json:"pages,omitempty"`
	Sections     []model.PageSection   `json:"sections,omitempty"`
	Posts        []model.Post          `json:"posts,omitempty"`
	Services     []model.Service       `json:"services,omitempty"`
	Portfolio    []model.PortfolioItem `json:"portfolio,omitempty"`
	Testimonials []model.Testimonial   `json:"testimonials,omitempty"`
	Team         []model.TeamMember    `json:"team,omitempty"`
	Menus        []model.Menu          `json:"menus,omitempty"`
	SEO          []model.SEOEntry      `json:"seo,omitempty"`
	Media        []model.Media         `json:"media,omitempty"`
	Subscribers  []model.Subscriber    `json:"subscribers,omitempty"`
}

// ExportSite contains basic site information.
type ExportSite struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// ExportOptions configures what to include in the export.
type ExportOptions struct {
	IncludeMedia       bool   `json:"includeMedia"`
	IncludeSubscribers bool   `json:"includeSubscribers"`
	PageStatus         string `json:"pageStatus"` // "all", "published", "draft"
}

// DefaultExportOptions returns options that include everything except
// subscriber addresses.
func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		IncludeMedia:       true,
		IncludeSubscribers: false,
		PageStatus:         "all",
	}
}

// ConflictStrategy decides what happens to a document whose id already exists.
type ConflictStrategy string

const (
	ConflictSkip      ConflictStrategy = "skip"
	ConflictOverwrite ConflictStrategy = "overwrite"
)

// ImportOptions configures an import.
type ImportOptions struct {
	DryRun           bool             `json:"dryRun"`
	ConflictStrategy ConflictStrategy `json:"conflictStrategy"`
}

// DefaultImportOptions returns options that keep existing documents.
func DefaultImportOptions() ImportOptions {
	return ImportOptions{ConflictStrategy: ConflictSkip}
}

// ImportError describes one document that could not be imported.
type ImportError struct {
	Entity  string `json:"entity"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message"`
}

// ImportResult counts what an import did per entity.
type ImportResult struct {
	Success bool           `json:"success"`
	DryRun  bool           `json:"dryRun"`
	Created map[string]int `json:"created"`
	Updated map[string]int `json:"updated"`
	Skipped map[string]int `json:"skipped"`
	Errors  []ImportError  `json:"errors,omitempty"`
}

// NewImportResult creates an empty, successful result.
func NewImportResult(dryRun bool) *ImportResult {
	return &ImportResult{
		Success: true,
		DryRun:  dryRun,
		Created: make(map[string]int),
		Updated: make(map[string]int),
		Skipped: make(map[string]int),
	}
}

func (r *ImportResult) IncrementCreated(entity string) { r.Created[entity]++ }
func (r *ImportResult) IncrementUpdated(entity string) { r.Updated[entity]++ }
func (r *ImportResult) IncrementSkipped(entity string) { r.Skipped[entity]++ }

// AddError records a failure and marks the result unsuccessful.
func (r *ImportResult) AddError(entity, id, message string) {
	r.Errors = append(r.Errors, ImportError{Entity: entity, ID: id, Message: message})
	r.Success = false
}

func (r *ImportResult) TotalCreated() int { return sum(r.Created) }
func (r *ImportResult) TotalUpdated() int { return sum(r.Updated) }
func (r *ImportResult) TotalSkipped() int { return sum(r.Skipped) }

func sum(m map[string]int) int {
	n := 0
	for _, v := range m {
		n += v
	}
	return n
}
