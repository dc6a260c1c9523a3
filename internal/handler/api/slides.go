// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/olegiv/parish-go/internal/cache"
	"github.com/olegiv/parish-go/internal/model"
	"github.com/olegiv/parish-go/internal/sanitize"
	"github.com/olegiv/parish-go/internal/service"
	"github.com/olegiv/parish-go/internal/store"
)

// Cache keys of the singleton public views.
const (
	activeSlidesKey = cache.PrefixSlides + "active"
	massScheduleKey = cache.PrefixMassSchedule + "days"
	historyKey      = cache.PrefixHistory + "current"
)

// slideInput mirrors catalogInput: nil IsActive keeps the current state.
type slideInput struct {
	model.Slide
	IsActive *bool `json:"isActive"`
}

func slideFromRow(s store.Slide) model.Slide {
	return model.Slide{
		ID:         s.ID,
		Title:      s.Title,
		Subtitle:   s.Subtitle,
		Image:      s.Image,
		Order:      s.SortOrder,
		ButtonText: s.ButtonText,
		ButtonLink: s.ButtonLink,
		IsActive:   s.IsActive != 0,
	}
}

func slidesFromRows(rows []store.Slide) []model.Slide {
	out := make([]model.Slide, 0, len(rows))
	for _, s := range rows {
		out = append(out, slideFromRow(s))
	}
	return out
}

func cleanSlide(s *model.Slide) map[string]string {
	s.Title = sanitize.Text(s.Title)
	s.Subtitle = sanitize.Text(s.Subtitle)
	s.Image = sanitize.URL(s.Image)
	s.ButtonText = sanitize.Text(s.ButtonText)
	s.ButtonLink = sanitize.URL(s.ButtonLink)

	errs := map[string]string{}
	if s.Image == "" {
		errs["image"] = "image is required"
	}
	if s.Order < 0 {
		errs["order"] = "must not be negative"
	}
	return errs
}

func slideParams(s model.Slide, h *Handler) store.SlideParams {
	return store.SlideParams{
		Title:      s.Title,
		Subtitle:   s.Subtitle,
		Image:      s.Image,
		SortOrder:  s.Order,
		ButtonText: s.ButtonText,
		ButtonLink: s.ButtonLink,
		IsActive:   s.IsActive,
		Now:        h.now().UTC(),
	}
}

// ListSlides handles GET /slideshow: active slides by order.
func (h *Handler) ListSlides(w http.ResponseWriter, r *http.Request) {
	slides, err := h.slides.GetOrSet(r.Context(), activeSlidesKey, func() ([]model.Slide, error) {
		rows, err := h.queries.ListSlides(r.Context(), true)
		if err != nil {
			return nil, err
		}
		return slidesFromRows(rows), nil
	})
	if err != nil {
		h.logger.Error("failed to list slides", "error", err)
		WriteInternalError(w, "Failed to list slides")
		return
	}
	WriteList(w, slides)
}

// ListSlidesAdmin handles GET /slideshow/admin.
func (h *Handler) ListSlidesAdmin(w http.ResponseWriter, r *http.Request) {
	rows, err := h.queries.ListSlides(r.Context(), false)
	if err != nil {
		h.logger.Error("failed to list slides", "error", err)
		WriteInternalError(w, "Failed to list slides")
		return
	}
	WriteList(w, slidesFromRows(rows))
}

// CreateSlide handles POST /slideshow.
func (h *Handler) CreateSlide(w http.ResponseWriter, r *http.Request) {
	var in slideInput
	upload, ok := h.decodeEntity(w, r, &in, service.FolderSlides)
	if !ok {
		return
	}

	s := in.Slide
	s.Image = pickImage(upload, s.Image, "")
	s.IsActive = in.IsActive == nil || *in.IsActive
	if errs := cleanSlide(&s); len(errs) > 0 {
		h.discardUpload(upload)
		WriteValidationError(w, errs)
		return
	}

	row, err := h.queries.CreateSlide(r.Context(), slideParams(s, h))
	if err != nil {
		h.discardUpload(upload)
		h.writeStoreError(w, err, "slide", "create")
		return
	}
	h.invalidate(r.Context(), cache.PrefixSlides)
	WriteCreated(w, slideFromRow(row))
}

// UpdateSlide handles PUT /slideshow/{id}.
func (h *Handler) UpdateSlide(w http.ResponseWriter, r *http.Request) {
	existing, ok := requireEntityByID(w, r, "slide", func(id int64) (store.Slide, error) {
		return h.queries.GetSlide(r.Context(), id)
	})
	if !ok {
		return
	}

	var in slideInput
	upload, ok := h.decodeEntity(w, r, &in, service.FolderSlides)
	if !ok {
		return
	}

	s := in.Slide
	s.Image = pickImage(upload, s.Image, existing.Image)
	s.IsActive = existing.IsActive != 0
	if in.IsActive != nil {
		s.IsActive = *in.IsActive
	}
	if errs := cleanSlide(&s); len(errs) > 0 {
		h.discardUpload(upload)
		WriteValidationError(w, errs)
		return
	}

	row, err := h.queries.UpdateSlide(r.Context(), existing.ID, slideParams(s, h))
	if err != nil {
		h.discardUpload(upload)
		h.writeStoreError(w, err, "slide", "update")
		return
	}
	h.media.Replace(existing.Image, row.Image)
	h.invalidate(r.Context(), cache.PrefixSlides)
	WriteSuccess(w, slideFromRow(row), nil)
}

// ToggleSlide handles PATCH /slideshow/{id}/toggle.
func (h *Handler) ToggleSlide(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, "slide")
	if !ok {
		return
	}
	row, err := h.queries.ToggleSlide(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, err, "slide", "toggle")
		return
	}
	h.invalidate(r.Context(), cache.PrefixSlides)
	WriteSuccess(w, slideFromRow(row), nil)
}

// DeleteSlide handles DELETE /slideshow/{id}.
func (h *Handler) DeleteSlide(w http.ResponseWriter, r *http.Request) {
	existing, ok := requireEntityByID(w, r, "slide", func(id int64) (store.Slide, error) {
		return h.queries.GetSlide(r.Context(), id)
	})
	if !ok {
		return
	}
	if err := h.queries.DeleteSlide(r.Context(), existing.ID); err != nil {
		h.writeStoreError(w, err, "slide", "delete")
		return
	}
	h.media.Replace(existing.Image, "")
	h.invalidate(r.Context(), cache.PrefixSlides)
	w.WriteHeader(http.StatusNoContent)
}
