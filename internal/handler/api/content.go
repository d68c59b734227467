// Copyright (c) 2026 Brightpixel Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brightpixel/agencyweb/internal/model"
	"github.com/brightpixel/agencyweb/internal/service"
)

// contentHandler serves admin CRUD for one simple collection.
type contentHandler[T any, P interface {
	*T
	model.Document
}] struct {
	h      *Handler
	svc    *service.ContentService[T, P]
	entity string
}

// mountContent registers list, get, create, update and delete under r.
func mountContent[T any, P interface {
	*T
	model.Document
}](r chi.Router, h *Handler, entity string, svc *service.ContentService[T, P]) {
	c := &contentHandler[T, P]{h: h, svc: svc, entity: entity}
	r.Get("/", c.list)
	r.Post("/", c.create)
	r.Get("/{id}", c.get)
	r.Put("/{id}", c.update)
	r.Delete("/{id}", c.delete)
}

func (c *contentHandler[T, P]) list(w http.ResponseWriter, r *http.Request) {
	items, err := c.svc.List(r.Context())
	if err != nil {
		c.h.writeServiceError(w, r, c.entity, err)
		return
	}
	WriteList(w, items)
}

func (c *contentHandler[T, P]) get(w http.ResponseWriter, r *http.Request) {
	item, err := c.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		c.h.writeServiceError(w, r, c.entity, err)
		return
	}
	WriteSuccess(w, item, nil)
}

func (c *contentHandler[T, P]) create(w http.ResponseWriter, r *http.Request) {
	item := new(T)
	if err := decodeJSON(w, r, item); err != nil {
		c.h.writeServiceError(w, r, c.entity, err)
		return
	}
	created, err := c.svc.Create(r.Context(), item)
	if err != nil {
		c.h.writeServiceError(w, r, c.entity, err)
		return
	}
	WriteCreated(w, created)
}

func (c *contentHandler[T, P]) update(w http.ResponseWriter, r *http.Request) {
	patch, err := readPatch(w, r)
	if err != nil {
		c.h.writeServiceError(w, r, c.entity, err)
		return
	}
	item, err := c.svc.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		c.h.writeServiceError(w, r, c.entity, err)
		return
	}
	WriteSuccess(w, item, nil)
}

func (c *contentHandler[T, P]) delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := c.svc.Delete(r.Context(), id); err != nil {
		c.h.writeServiceError(w, r, c.entity, err)
		return
	}
	WriteSuccess(w, map[string]string{"id": id}, nil)
}
