// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the public and admin JSON API.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/brightpixel/agencyweb/internal/cache"
	"github.com/brightpixel/agencyweb/internal/middleware"
	"github.com/brightpixel/agencyweb/internal/model"
	"github.com/brightpixel/agencyweb/internal/page"
	"github.com/brightpixel/agencyweb/internal/scheduler"
	"github.com/brightpixel/agencyweb/internal/section"
	"github.com/brightpixel/agencyweb/internal/service"
	"github.com/brightpixel/agencyweb/internal/store"
	"github.com/brightpixel/agencyweb/internal/transfer"
)

// maxJSONBody caps request bodies that are not file uploads.
const maxJSONBody = 1 << 20

// Deps are the services the API handlers call.
type Deps struct {
	Resolver *page.Resolver
	Registry *section.Registry

	Pages        *service.PageService
	Posts        *service.PostService
	Sections     *service.SectionService
	Services     *service.ContentService[model.Service, *model.Service]
	Portfolio    *service.ContentService[model.PortfolioItem, *model.PortfolioItem]
	Testimonials *service.ContentService[model.Testimonial, *model.Testimonial]
	Team         *service.ContentService[model.TeamMember, *model.TeamMember]
	Menus        *service.ContentService[model.Menu, *model.Menu]
	SEO          *service.ContentService[model.SEOEntry, *model.SEOEntry]
	Subscribers  *service.ContentService[model.Subscriber, *model.Subscriber]
	Media        *service.MediaService
	ImageSearch  *service.ImageSearch
	Newsletter   *service.NewsletterService
	Settings     *service.SettingsService
	Events       *service.EventService
	Auth         *service.AuthService
	Exporter     *transfer.Exporter
	Importer     *transfer.Importer

	PageCache       *cache.PageCache
	Scheduler       *scheduler.Scheduler
	Sessions        *scs.SessionManager
	LoginProtection *middleware.LoginProtection
	Logger          *slog.Logger
}

// Handler serves the JSON API.
type Handler struct {
	Deps
}

// NewHandler creates a new API handler.
func NewHandler(deps Deps) *Handler {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Handler{Deps: deps}
}

// Response is the standard API response wrapper.
type Response struct {
	Data any   `json:"data"`
	Meta *Meta `json:"meta,omitempty"`
}

// Meta carries list metadata.
type Meta struct {
	Total int `json:"total"`
}

// ErrorResponse is the standard API error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a 200 response.
func WriteSuccess(w http.ResponseWriter, data any, meta *Meta) {
	WriteJSON(w, http.StatusOK, Response{Data: data, Meta: meta})
}

// WriteList writes a 200 response with the item count in meta.
func WriteList[T any](w http.ResponseWriter, items []T) {
	if items == nil {
		items = []T{}
	}
	WriteSuccess(w, items, &Meta{Total: len(items)})
}

// WriteCreated writes a 201 Created JSON response.
func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Response{Data: data})
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: ErrorDetail{Code: code, Message: message, Details: details}})
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string, details map[string]string) {
	WriteError(w, http.StatusBadRequest, "bad_request", message, details)
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, "not_found", message, nil)
}

// WriteUnauthorized writes a 401 Unauthorized response.
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, "unauthorized", message, nil)
}

// WriteInternalError writes a 500 response with a generic message.
func WriteInternalError(w http.ResponseWriter) {
	WriteError(w, http.StatusInternalServerError, "internal_error", "Internal server error", nil)
}

// writeServiceError maps a service or store error to its HTTP response.
// Unexpected errors are logged and reported without detail.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, entity string, err error) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		WriteBadRequest(w, "Validation failed", ve.Fields)
	case errors.Is(err, store.ErrNotFound), errors.Is(err, page.ErrNotFound):
		WriteNotFound(w, entity+" not found")
	case errors.Is(err, scheduler.ErrUnknownJob):
		WriteNotFound(w, "Job not found")
	case errors.Is(err, service.ErrInvalidTransition):
		WriteBadRequest(w, err.Error(), nil)
	case errors.Is(err, store.ErrDuplicateKey):
		WriteBadRequest(w, entity+" already exists", nil)
	case errors.Is(err, service.ErrInvalidCredentials):
		WriteUnauthorized(w, "Invalid email or password")
	default:
		attrs := []any{"method", r.Method, "path", r.URL.Path, "error", err}
		if errors.Is(err, service.ErrUpstream) {
			attrs = append(attrs, "category", model.EventCategorySystem)
		}
		h.Logger.ErrorContext(r.Context(), "request failed", attrs...)
		WriteInternalError(w)
	}
}

// decodeJSON reads a JSON body into dst. Malformed bodies become a
// validation error on the "body" field.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := dec.Decode(dst); err != nil {
		return invalidBody(err)
	}
	return nil
}

// readPatch reads a raw JSON body for merge-style updates.
func readPatch(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err != nil {
		return nil, invalidBody(err)
	}
	if !json.Valid(body) {
		return nil, invalidBody(nil)
	}
	return body, nil
}

func invalidBody(err error) error {
	msg := "is not valid JSON"
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		msg = "is too large"
	}
	return &service.ValidationError{Fields: map[string]string{"body": msg}}
}
