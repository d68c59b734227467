// Copyright (c) 2026 Brightpixel Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/brightpixel/agencyweb/internal/model"
	"github.com/brightpixel/agencyweb/internal/page"
	"github.com/brightpixel/agencyweb/internal/service"
)

// PageResponse is a page with the sections a visitor sees, in order.
type PageResponse struct {
	*model.Page
	Sections []model.PageSection `json:"sections"`
	// Synthesized marks a home page built from the site settings blocks.
	Synthesized bool `json:"synthesized,omitempty"`
}

func newPageResponse(res *page.Resolved) PageResponse {
	sections := res.Sections
	if sections == nil {
		sections = []model.PageSection{}
	}
	return PageResponse{Page: res.Page, Sections: sections, Synthesized: res.Synthesized}
}

// GetHomePage handles GET /api/pages/home.
func (h *Handler) GetHomePage(w http.ResponseWriter, r *http.Request) {
	h.writeResolved(w, r, page.Identifier{Slug: model.HomeSlug})
}

// GetPage handles GET /api/pages/{slug}.
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	slug := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "slug")))
	h.writeResolved(w, r, page.Identifier{Slug: slug})
}

func (h *Handler) writeResolved(w http.ResponseWriter, r *http.Request, id page.Identifier) {
	res, err := h.Resolver.Resolve(r.Context(), id, true)
	if err != nil {
		h.writeServiceError(w, r, "Page", err)
		return
	}
	WriteSuccess(w, newPageResponse(res), nil)
}

// HomeSections handles GET /api/public/home-sections?pageType=.
func (h *Handler) HomeSections(w http.ResponseWriter, r *http.Request) {
	pageType := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("pageType")))
	if pageType != "" && !model.IsValidPageType(pageType) {
		WriteBadRequest(w, "Validation failed", map[string]string{"pageType": "is not a known page type"})
		return
	}
	sections, err := h.Resolver.SectionsForType(r.Context(), pageType)
	if err != nil {
		h.writeServiceError(w, r, "Page", err)
		return
	}
	WriteList(w, sections)
}

// PublicSettings handles GET /api/public/settings.
func (h *Handler) PublicSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Settings.Public(r.Context())
	if err != nil {
		h.writeServiceError(w, r, "Settings", err)
		return
	}
	WriteSuccess(w, settings, nil)
}

// Subscribe handles POST /api/newsletter/subscribe. A new address gets 201,
// an address already on the list 200.
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var in service.SubscribeInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeServiceError(w, r, "Subscriber", err)
		return
	}
	sub, created, err := h.Newsletter.Subscribe(r.Context(), in)
	if err != nil {
		h.writeServiceError(w, r, "Subscriber", err)
		return
	}
	if created {
		h.Logger.InfoContext(r.Context(), "newsletter subscription", "source", sub.Source)
		WriteCreated(w, sub)
		return
	}
	WriteSuccess(w, sub, nil)
}
