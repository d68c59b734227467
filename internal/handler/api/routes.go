// Copyright (c) 2026 Brightpixel Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brightpixel/agencyweb/internal/middleware"
)

// Middlewares are the guards RegisterRoutes applies. Nil entries are skipped.
type Middlewares struct {
	RequireAdmin func(http.Handler) http.Handler
	CSRF         func(http.Handler) http.Handler
	Login        func(http.Handler) http.Handler
	Subscribe    func(http.Handler) http.Handler
}

func use(r chi.Router, mws ...func(http.Handler) http.Handler) {
	for _, mw := range mws {
		if mw != nil {
			r.Use(mw)
		}
	}
}

// RegisterRoutes mounts the JSON API under /api.
func (h *Handler) RegisterRoutes(r chi.Router, mw Middlewares) {
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.NoStore)

		r.Get("/pages/home", h.GetHomePage)
		r.Get("/pages/{slug}", h.GetPage)
		r.Get("/public/home-sections", h.HomeSections)
		r.Get("/public/settings", h.PublicSettings)
		r.Group(func(r chi.Router) {
			use(r, mw.Subscribe)
			r.Post("/newsletter/subscribe", h.Subscribe)
		})

		r.Route("/auth", func(r chi.Router) {
			use(r, mw.CSRF)
			r.Group(func(r chi.Router) {
				use(r, mw.Login)
				r.Post("/login", h.Login)
			})
			r.Post("/logout", h.Logout)
			r.Group(func(r chi.Router) {
				use(r, mw.RequireAdmin)
				r.Get("/me", h.Me)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			use(r, mw.RequireAdmin, mw.CSRF)

			r.Route("/pages", func(r chi.Router) {
				r.Get("/", h.ListPages)
				r.Post("/", h.CreatePage)
				r.Get("/{id}", h.GetAdminPage)
				r.Put("/{id}", h.UpdatePage)
				r.Delete("/{id}", h.DeletePage)
				r.Post("/{id}/publish", h.PublishPage)
				r.Post("/{id}/status", h.PageStatus)
				r.Get("/{id}/sections", h.PageSections)
				r.Post("/{id}/sections/reorder", h.ReorderSections)
			})
			r.Route("/blog", func(r chi.Router) {
				r.Get("/", h.ListPosts)
				r.Post("/", h.CreatePost)
				r.Get("/{id}", h.GetPost)
				r.Put("/{id}", h.UpdatePost)
				r.Delete("/{id}", h.DeletePost)
				r.Post("/{id}/publish", h.PublishPost)
				r.Post("/{id}/status", h.PostStatus)
			})
			r.Route("/section-content", func(r chi.Router) {
				r.Get("/", h.ListSectionContent)
				r.Post("/", h.CreateSectionContent)
				r.Get("/{id}", h.GetSectionContent)
				r.Put("/{id}", h.UpdateSectionContent)
				r.Delete("/{id}", h.DeleteSectionContent)
			})
			r.Get("/sections/catalog", h.SectionCatalog)

			r.Route("/services", func(r chi.Router) { mountContent(r, h, "Service", h.Services) })
			r.Route("/portfolio", func(r chi.Router) { mountContent(r, h, "Portfolio item", h.Portfolio) })
			r.Route("/testimonials", func(r chi.Router) { mountContent(r, h, "Testimonial", h.Testimonials) })
			r.Route("/team", func(r chi.Router) { mountContent(r, h, "Team member", h.Team) })
			r.Route("/menu", func(r chi.Router) { mountContent(r, h, "Menu", h.Menus) })
			r.Route("/seo", func(r chi.Router) { mountContent(r, h, "SEO entry", h.SEO) })
			r.Route("/newsletter", func(r chi.Router) { mountContent(r, h, "Subscriber", h.Subscribers) })

			r.Route("/media", func(r chi.Router) {
				r.Get("/", h.ListMedia)
				r.Post("/", h.UploadMedia)
				r.Post("/upload", h.UploadMedia)
				r.Get("/{id}", h.GetMedia)
				r.Put("/{id}", h.UpdateMedia)
				r.Delete("/{id}", h.DeleteMedia)
			})
			r.Get("/images/search", h.SearchImages)

			r.Get("/settings", h.GetSettings)
			r.Put("/settings", h.UpdateSettings)
			r.Get("/events", h.ListEvents)
			r.Get("/jobs", h.ListJobs)
			r.Post("/jobs/{name}/run", h.RunJob)
			r.Post("/cache/clear", h.ClearCache)
			r.Get("/export", h.ExportContent)
			r.Post("/import", h.ImportContent)
		})

		r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
			WriteNotFound(w, "Endpoint not found")
		})
		r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
			WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed", nil)
		})
	})
}
