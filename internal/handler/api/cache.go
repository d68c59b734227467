// Copyright (c) 2026 Brightpixel Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"time"

	"github.com/brightpixel/agencyweb/internal/model"
)

// CacheClearRequest selects what to revalidate. An empty request clears
// everything.
type CacheClearRequest struct {
	Paths []string `json:"paths"`
	Tags  []string `json:"tags"`
	All   bool     `json:"all"`
}

// CacheClearResponse reports what was revalidated.
type CacheClearResponse struct {
	Paths         []string  `json:"paths"`
	Tags          []string  `json:"tags"`
	All           bool      `json:"all"`
	RevalidatedAt time.Time `json:"revalidatedAt"`
}

// ClearCache handles POST /api/admin/cache/clear.
func (h *Handler) ClearCache(w http.ResponseWriter, r *http.Request) {
	var in CacheClearRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &in); err != nil {
			h.writeServiceError(w, r, "Cache", err)
			return
		}
	}
	if len(in.Paths) == 0 && len(in.Tags) == 0 {
		in.All = true
	}

	ctx := r.Context()
	resp := CacheClearResponse{Paths: []string{}, Tags: []string{}, All: in.All}
	if in.All {
		if err := h.PageCache.Clear(ctx); err != nil {
			h.writeServiceError(w, r, "Cache", err)
			return
		}
	} else {
		paths, err := h.PageCache.InvalidatePaths(ctx, in.Paths)
		if err != nil {
			h.writeServiceError(w, r, "Cache", err)
			return
		}
		tags, err := h.PageCache.InvalidateTags(ctx, in.Tags)
		if err != nil {
			h.writeServiceError(w, r, "Cache", err)
			return
		}
		resp.Paths, resp.Tags = paths, tags
	}
	resp.RevalidatedAt = time.Now().UTC()

	h.Logger.InfoContext(ctx, "render cache revalidated",
		"category", model.EventCategoryCache,
		"all", resp.All,
		"paths", len(resp.Paths),
		"tags", len(resp.Tags),
	)
	WriteSuccess(w, resp, nil)
}
