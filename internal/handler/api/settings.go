// Copyright (c) 2026 Brightpixel Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/brightpixel/agencyweb/internal/service"
)

// GetSettings handles GET /api/admin/settings.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Settings.Get(r.Context())
	if err != nil {
		h.writeServiceError(w, r, "Settings", err)
		return
	}
	WriteSuccess(w, settings, nil)
}

// UpdateSettings handles PUT /api/admin/settings with a partial document.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	patch, err := readPatch(w, r)
	if err != nil {
		h.writeServiceError(w, r, "Settings", err)
		return
	}
	settings, err := h.Settings.Update(r.Context(), patch)
	if err != nil {
		h.writeServiceError(w, r, "Settings", err)
		return
	}
	WriteSuccess(w, settings, nil)
}

// ListEvents handles GET /api/admin/events?level=&category=&limit=.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	events, err := h.Events.List(r.Context(), service.EventFilter{
		Level:    q.Get("level"),
		Category: q.Get("category"),
		Limit:    limit,
	})
	if err != nil {
		h.writeServiceError(w, r, "Event", err)
		return
	}
	WriteList(w, events)
}

// ListJobs handles GET /api/admin/jobs.
func (h *Handler) ListJobs(w http.ResponseWriter, _ *http.Request) {
	WriteList(w, h.Scheduler.Jobs())
}

// RunJob handles POST /api/admin/jobs/{name}/run.
func (h *Handler) RunJob(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := h.Scheduler.Trigger(r.Context(), name); err != nil {
		h.writeServiceError(w, r, "Job", err)
		return
	}
	WriteSuccess(w, map[string]string{"name": name}, nil)
}
