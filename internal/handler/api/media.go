// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/brightpixel/agencyweb/internal/service"
)

// multipartOverhead leaves room for the form fields around the file.
const multipartOverhead = 1 << 20

// ListMedia handles GET /api/admin/media.
func (h *Handler) ListMedia(w http.ResponseWriter, r *http.Request) {
	items, err := h.Media.List(r.Context())
	if err != nil {
		h.writeServiceError(w, r, "Media", err)
		return
	}
	WriteList(w, items)
}

// GetMedia handles GET /api/admin/media/{id}.
func (h *Handler) GetMedia(w http.ResponseWriter, r *http.Request) {
	m, err := h.Media.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, "Media", err)
		return
	}
	WriteSuccess(w, m, nil)
}

// UploadMedia handles POST /api/admin/media and /api/admin/media/upload, a
// multipart form with a "file" part and optional "alt" and "caption" fields.
func (h *Handler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.Media.MaxSize()+multipartOverhead)
	if err := r.ParseMultipartForm(multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteBadRequest(w, "Validation failed", map[string]string{"file": "exceeds the upload limit"})
			return
		}
		WriteBadRequest(w, "Validation failed", map[string]string{"body": "must be a multipart form"})
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteBadRequest(w, "Validation failed", map[string]string{"file": "is required"})
		return
	}
	defer func() { _ = file.Close() }()

	m, err := h.Media.Upload(r.Context(), service.UploadInput{
		Filename: header.Filename,
		Alt:      r.FormValue("alt"),
		Caption:  r.FormValue("caption"),
		Body:     file,
	})
	if err != nil {
		h.writeServiceError(w, r, "Media", err)
		return
	}
	WriteCreated(w, m)
}

// UpdateMedia handles PUT /api/admin/media/{id}.
func (h *Handler) UpdateMedia(w http.ResponseWriter, r *http.Request) {
	var patch service.MediaPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		h.writeServiceError(w, r, "Media", err)
		return
	}
	m, err := h.Media.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		h.writeServiceError(w, r, "Media", err)
		return
	}
	WriteSuccess(w, m, nil)
}

// DeleteMedia handles DELETE /api/admin/media/{id}.
func (h *Handler) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Media.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, r, "Media", err)
		return
	}
	WriteSuccess(w, map[string]string{"id": id}, nil)
}

// SearchImages handles GET /api/admin/images/search?q=&perPage=.
func (h *Handler) SearchImages(w http.ResponseWriter, r *http.Request) {
	perPage, _ := strconv.Atoi(r.URL.Query().Get("perPage"))
	results, err := h.ImageSearch.Search(r.Context(), r.URL.Query().Get("q"), perPage)
	if err != nil {
		h.writeServiceError(w, r, "Image", err)
		return
	}
	WriteList(w, results)
}
