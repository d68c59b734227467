// Copyright (c) 2026 Brightpixel Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/brightpixel/agencyweb/internal/middleware"
	"github.com/brightpixel/agencyweb/internal/model"
	"github.com/brightpixel/agencyweb/internal/transfer"
)

// maxImportBody caps the size of an uploaded export document.
const maxImportBody = 32 << 20

// ExportContent handles GET /api/admin/export?status=&media=&subscribers=.
// The export is sent as a JSON attachment, outside the response envelope.
func (h *Handler) ExportContent(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := transfer.DefaultExportOptions()
	if status := q.Get("status"); status != "" {
		if status != "all" && !model.IsValidStatus(status) {
			WriteBadRequest(w, "Validation failed", map[string]string{"status": "must be all, draft, published or archived"})
			return
		}
		opts.PageStatus = status
	}
	if v, err := strconv.ParseBool(q.Get("media")); err == nil {
		opts.IncludeMedia = v
	}
	if v, err := strconv.ParseBool(q.Get("subscribers")); err == nil {
		opts.IncludeSubscribers = v
	}

	data, err := h.Exporter.Export(r.Context(), opts)
	if err != nil {
		h.writeServiceError(w, r, "Export", err)
		return
	}

	filename := fmt.Sprintf("agency-export-%s.json", data.ExportedAt.Format("20060102-150405"))
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	WriteJSON(w, http.StatusOK, data)
}

// ImportContent handles POST /api/admin/import?dryRun=&conflict=skip|overwrite.
// The body is a document produced by ExportContent.
func (h *Handler) ImportContent(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := transfer.DefaultImportOptions()
	opts.DryRun, _ = strconv.ParseBool(q.Get("dryRun"))
	switch c := transfer.ConflictStrategy(q.Get("conflict")); c {
	case "":
	case transfer.ConflictSkip, transfer.ConflictOverwrite:
		opts.ConflictStrategy = c
	default:
		WriteBadRequest(w, "Validation failed", map[string]string{"conflict": "must be skip or overwrite"})
		return
	}

	start := time.Now()
	result, err := h.Importer.ImportFromReader(r.Context(), http.MaxBytesReader(w, r.Body, maxImportBody), opts)
	if errors.Is(err, transfer.ErrValidation) {
		details := make(map[string]string)
		if result != nil {
			for _, e := range result.Errors {
				key := e.Entity
				if e.ID != "" {
					key += ":" + e.ID
				}
				details[key] = e.Message
			}
		} else {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				details["body"] = "is too large"
			} else {
				details["body"] = "is not valid JSON"
			}
		}
		WriteBadRequest(w, "Import rejected", details)
		return
	}
	if err != nil {
		h.writeServiceError(w, r, "Import", err)
		return
	}

	h.Logger.InfoContext(r.Context(), "content import finished",
		"user_id", middleware.GetUserID(r),
		"dry_run", opts.DryRun,
		"duration", time.Since(start).String(),
		"category", model.EventCategorySystem)
	WriteSuccess(w, result, nil)
}
