// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/parish-go/internal/middleware"
)

// Routes returns the router mounted at /api. Reads are public; every
// mutation and the admin listings require a bearer token.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	requireAdmin := middleware.BearerAuth(h.issuer, h.db)

	var loginLimits []func(http.Handler) http.Handler
	if h.login != nil {
		loginLimits = append(loginLimits, h.login.Middleware())
	}

	r.Get("/health", h.Health)

	r.Get("/announcements", h.ListAnnouncements)
	r.Get("/events", h.ListEvents)
	r.Get("/news", h.ListNews)
	r.Get("/massschedule", h.ListMassSchedule)
	r.Get("/priests", h.ListPriests)
	r.Get("/readings", h.ListReadings)
	r.Get("/readings/today", h.TodayReading)
	r.Get("/sacraments", h.listCatalog(sacramentResource))
	r.Get("/services", h.listCatalog(serviceResource))
	r.Get("/slideshow", h.ListSlides)
	r.Get("/page-content", h.ListPageContent)
	r.Get("/page-content/{pageName}", h.GetPageContent)
	r.Get("/history", h.GetHistory)

	r.Route("/admin", func(r chi.Router) {
		r.With(loginLimits...).Post("/login", h.Login)
		r.With(loginLimits...).Post("/register", h.Register)

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Get("/verify-token", h.VerifyToken)
			r.Get("/events", h.ListAdminEvents)
			r.Get("/logs", h.ListEventLog)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(requireAdmin)

		r.Post("/announcements", h.CreateAnnouncement)
		r.Put("/announcements/{id}", h.UpdateAnnouncement)
		r.Delete("/announcements/{id}", h.DeleteAnnouncement)

		r.Post("/events", h.CreateEvent)
		r.Put("/events/{id}", h.UpdateEvent)
		r.Delete("/events/{id}", h.DeleteEvent)

		r.Post("/news", h.CreateNews)
		r.Put("/news/{id}", h.UpdateNews)
		r.Delete("/news/{id}", h.DeleteNews)

		r.Post("/massschedule", h.CreateMassTime)
		r.Put("/massschedule/{id}", h.UpdateMassTime)
		r.Delete("/massschedule/{id}", h.DeleteMassTime)

		r.Post("/priests", h.CreatePriest)
		r.Put("/priests/{id}", h.UpdatePriest)
		r.Delete("/priests/{id}", h.DeletePriest)

		r.Post("/readings", h.CreateReading)
		r.Put("/readings/{id}", h.UpdateReading)
		r.Delete("/readings/{id}", h.DeleteReading)

		for _, res := range []struct {
			path string
			catalogResource
		}{
			{"/sacraments", sacramentResource},
			{"/services", serviceResource},
		} {
			r.Get(res.path+"/admin", h.listCatalogAdmin(res.catalogResource))
			r.Post(res.path, h.createCatalog(res.catalogResource))
			r.Put(res.path+"/{id}", h.updateCatalog(res.catalogResource))
			r.Patch(res.path+"/{id}/toggle", h.toggleCatalog(res.catalogResource))
			r.Delete(res.path+"/{id}", h.deleteCatalog(res.catalogResource))
		}

		r.Get("/slideshow/admin", h.ListSlidesAdmin)
		r.Post("/slideshow", h.CreateSlide)
		r.Post("/slideshow/upload", h.UploadSlideImage)
		r.Put("/slideshow/{id}", h.UpdateSlide)
		r.Patch("/slideshow/{id}/toggle", h.ToggleSlide)
		r.Delete("/slideshow/{id}", h.DeleteSlide)

		r.Post("/page-content/upload", h.UploadPageImage)
		r.Put("/page-content/{pageName}", h.UpdatePageContent)

		r.Put("/history", h.UpdateHistory)
	})

	return r
}
