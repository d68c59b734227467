// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brightpixel/agencyweb/internal/model"
	"github.com/brightpixel/agencyweb/internal/service"
)

// PublishRequest is the body of the publish toggle endpoints.
type PublishRequest struct {
	IsPublished *bool `json:"isPublished"`
}

// StatusRequest is the body of the status transition endpoints.
type StatusRequest struct {
	Status string `json:"status"`
}

// ReorderRequest lists section ids in their new order.
type ReorderRequest struct {
	IDs []string `json:"ids"`
}

// ListPages handles GET /api/admin/pages.
func (h *Handler) ListPages(w http.ResponseWriter, r *http.Request) {
	pages, err := h.Pages.List(r.Context())
	if err != nil {
		h.writeServiceError(w, r, "Page", err)
		return
	}
	WriteList(w, pages)
}

// GetAdminPage handles GET /api/admin/pages/{id}. Hidden sections are
// included so editors can see them.
func (h *Handler) GetAdminPage(w http.ResponseWriter, r *http.Request) {
	p, err := h.Pages.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, "Page", err)
		return
	}
	sections, err := h.Sections.ListForPage(r.Context(), p.ID)
	if err != nil {
		h.writeServiceError(w, r, "Page", err)
		return
	}
	if sections == nil {
		sections = []model.PageSection{}
	}
	WriteSuccess(w, PageResponse{Page: p, Sections: sections}, nil)
}

// CreatePage handles POST /api/admin/pages.
func (h *Handler) CreatePage(w http.ResponseWriter, r *http.Request) {
	var in service.PageInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeServiceError(w, r, "Page", err)
		return
	}
	p, err := h.Pages.Create(r.Context(), in)
	if err != nil {
		h.writeServiceError(w, r, "Page", err)
		return
	}
	WriteCreated(w, p)
}

// UpdatePage handles PUT /api/admin/pages/{id}.
func (h *Handler) UpdatePage(w http.ResponseWriter, r *http.Request) {
	var in service.PageInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeServiceError(w, r, "Page", err)
		return
	}
	p, err := h.Pages.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		h.writeServiceError(w, r, "Page", err)
		return
	}
	WriteSuccess(w, p, nil)
}

// DeletePage handles DELETE /api/admin/pages/{id}; its sections go with it.
func (h *Handler) DeletePage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Pages.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, r, "Page", err)
		return
	}
	WriteSuccess(w, map[string]string{"id": id}, nil)
}

// PublishPage handles POST /api/admin/pages/{id}/publish.
func (h *Handler) PublishPage(w http.ResponseWriter, r *http.Request) {
	published, ok := h.decodePublish(w, r, "Page")
	if !ok {
		return
	}
	p, err := h.Pages.SetPublished(r.Context(), chi.URLParam(r, "id"), published)
	if err != nil {
		h.writeServiceError(w, r, "Page", err)
		return
	}
	WriteSuccess(w, p, nil)
}

// PageStatus handles POST /api/admin/pages/{id}/status.
func (h *Handler) PageStatus(w http.ResponseWriter, r *http.Request) {
	var in StatusRequest
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeServiceError(w, r, "Page", err)
		return
	}
	p, err := h.Pages.Transition(r.Context(), chi.URLParam(r, "id"), in.Status)
	if err != nil {
		h.writeServiceError(w, r, "Page", err)
		return
	}
	WriteSuccess(w, p, nil)
}

// PageSections handles GET /api/admin/pages/{id}/sections.
func (h *Handler) PageSections(w http.ResponseWriter, r *http.Request) {
	sections, err := h.Sections.ListForPage(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, "Page", err)
		return
	}
	WriteList(w, sections)
}

// ReorderSections handles POST /api/admin/pages/{id}/sections/reorder.
func (h *Handler) ReorderSections(w http.ResponseWriter, r *http.Request) {
	var in ReorderRequest
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeServiceError(w, r, "Page", err)
		return
	}
	sections, err := h.Sections.Reorder(r.Context(), chi.URLParam(r, "id"), in.IDs)
	if err != nil {
		h.writeServiceError(w, r, "Page", err)
		return
	}
	WriteList(w, sections)
}

func (h *Handler) decodePublish(w http.ResponseWriter, r *http.Request, entity string) (bool, bool) {
	var in PublishRequest
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeServiceError(w, r, entity, err)
		return false, false
	}
	if in.IsPublished == nil {
		WriteBadRequest(w, "Validation failed", map[string]string{"isPublished": "is required"})
		return false, false
	}
	return *in.IsPublished, true
}
