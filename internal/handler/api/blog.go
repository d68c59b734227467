// Copyright (c) 2026 Brightpixel Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brightpixel/agencyweb/internal/model"
	"github.com/brightpixel/agencyweb/internal/service"
)

// PostResponse is a post with its rendered body.
type PostResponse struct {
	*model.Post
	HTML template.HTML `json:"html"`
}

// ListPosts handles GET /api/admin/blog.
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.Posts.List(r.Context())
	if err != nil {
		h.writeServiceError(w, r, "Post", err)
		return
	}
	WriteList(w, posts)
}

// GetPost handles GET /api/admin/blog/{id} and includes the rendered body
// for previews.
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	p, err := h.Posts.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, "Post", err)
		return
	}
	WriteSuccess(w, PostResponse{Post: p, HTML: service.RenderBody(p)}, nil)
}

// CreatePost handles POST /api/admin/blog.
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var in service.PostInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeServiceError(w, r, "Post", err)
		return
	}
	p, err := h.Posts.Create(r.Context(), in)
	if err != nil {
		h.writeServiceError(w, r, "Post", err)
		return
	}
	WriteCreated(w, p)
}

// UpdatePost handles PUT /api/admin/blog/{id}.
func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	var in service.PostInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeServiceError(w, r, "Post", err)
		return
	}
	p, err := h.Posts.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		h.writeServiceError(w, r, "Post", err)
		return
	}
	WriteSuccess(w, p, nil)
}

// DeletePost handles DELETE /api/admin/blog/{id}.
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Posts.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, r, "Post", err)
		return
	}
	WriteSuccess(w, map[string]string{"id": id}, nil)
}

// PublishPost handles POST /api/admin/blog/{id}/publish.
func (h *Handler) PublishPost(w http.ResponseWriter, r *http.Request) {
	published, ok := h.decodePublish(w, r, "Post")
	if !ok {
		return
	}
	p, err := h.Posts.SetPublished(r.Context(), chi.URLParam(r, "id"), published)
	if err != nil {
		h.writeServiceError(w, r, "Post", err)
		return
	}
	WriteSuccess(w, p, nil)
}

// PostStatus handles POST /api/admin/blog/{id}/status.
func (h *Handler) PostStatus(w http.ResponseWriter, r *http.Request) {
	var in StatusRequest
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeServiceError(w, r, "Post", err)
		return
	}
	p, err := h.Posts.Transition(r.Context(), chi.URLParam(r, "id"), in.Status)
	if err != nil {
		h.writeServiceError(w, r, "Post", err)
		return
	}
	WriteSuccess(w, p, nil)
}
