// Copyright (c) 2026 Brightpixel Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brightpixel/agencyweb/internal/service"
)

// ListSectionContent handles GET /api/admin/section-content. With ?pageId=
// it lists the sections of one page in order.
func (h *Handler) ListSectionContent(w http.ResponseWriter, r *http.Request) {
	if pageID := r.URL.Query().Get("pageId"); pageID != "" {
		h.PageSectionsByID(w, r, pageID)
		return
	}
	sections, err := h.Sections.List(r.Context())
	if err != nil {
		h.writeServiceError(w, r, "Section", err)
		return
	}
	WriteList(w, sections)
}

// PageSectionsByID writes the sections of pageID.
func (h *Handler) PageSectionsByID(w http.ResponseWriter, r *http.Request, pageID string) {
	sections, err := h.Sections.ListForPage(r.Context(), pageID)
	if err != nil {
		h.writeServiceError(w, r, "Page", err)
		return
	}
	WriteList(w, sections)
}

// GetSectionContent handles GET /api/admin/section-content/{id}.
func (h *Handler) GetSectionContent(w http.ResponseWriter, r *http.Request) {
	sec, err := h.Sections.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, "Section", err)
		return
	}
	WriteSuccess(w, sec, nil)
}

// CreateSectionContent handles POST /api/admin/section-content.
func (h *Handler) CreateSectionContent(w http.ResponseWriter, r *http.Request) {
	var in service.SectionInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeServiceError(w, r, "Section", err)
		return
	}
	sec, err := h.Sections.Create(r.Context(), in)
	if err != nil {
		h.writeServiceError(w, r, "Section", err)
		return
	}
	WriteCreated(w, sec)
}

// UpdateSectionContent handles PUT /api/admin/section-content/{id}.
func (h *Handler) UpdateSectionContent(w http.ResponseWriter, r *http.Request) {
	var in service.SectionInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeServiceError(w, r, "Section", err)
		return
	}
	sec, err := h.Sections.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		h.writeServiceError(w, r, "Section", err)
		return
	}
	WriteSuccess(w, sec, nil)
}

// DeleteSectionContent handles DELETE /api/admin/section-content/{id}.
func (h *Handler) DeleteSectionContent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Sections.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, r, "Section", err)
		return
	}
	WriteSuccess(w, map[string]string{"id": id}, nil)
}

// SectionCatalog handles GET /api/admin/sections/catalog.
func (h *Handler) SectionCatalog(w http.ResponseWriter, _ *http.Request) {
	WriteList(w, h.Registry.Catalog())
}
