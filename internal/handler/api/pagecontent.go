// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/parish-go/internal/cache"
	"github.com/olegiv/parish-go/internal/middleware"
	"github.com/olegiv/parish-go/internal/model"
	"github.com/olegiv/parish-go/internal/pagecontent"
	"github.com/olegiv/parish-go/internal/sanitize"
	"github.com/olegiv/parish-go/internal/service"
	"github.com/olegiv/parish-go/internal/store"
	"github.com/olegiv/parish-go/internal/util"
)

// loadPage returns the normalized document for name. A page that was never
// saved yields its fallback content.
func (h *Handler) loadPage(ctx context.Context, name pagecontent.PageName) (pagecontent.Content, error) {
	row, err := h.queries.GetPageContent(ctx, string(name))
	if errors.Is(err, sql.ErrNoRows) {
		return pagecontent.Normalize(nil, name), nil
	}
	if err != nil {
		return pagecontent.Content{}, err
	}

	c, err := pagecontent.NormalizeDocument([]byte(row.Document), name)
	if err != nil {
		h.logger.Warn("stored page content is not valid JSON, serving defaults",
			"page", name, "error", err)
		return pagecontent.Normalize(nil, name), nil
	}
	return c, nil
}

// GetPageContent handles GET /page-content/{pageName}. Known pages always
// answer 200, with fallback content when nothing was saved.
func (h *Handler) GetPageContent(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "pageName")
	if !pagecontent.IsValidPageName(name) {
		WriteNotFound(w, "Page not found")
		return
	}
	page := pagecontent.PageName(name)

	c, err := h.pages.GetOrSet(r.Context(), cache.PageContentKey(name), func() (pagecontent.Content, error) {
		return h.loadPage(r.Context(), page)
	})
	if err != nil {
		h.logger.Error("failed to load page content", "page", name, "error", err)
		WriteInternalError(w, "Failed to load page content")
		return
	}
	WriteSuccess(w, c, nil)
}

// ListPageContent handles GET /page-content and returns every page in
// editor order.
func (h *Handler) ListPageContent(w http.ResponseWriter, r *http.Request) {
	pages, err := h.pageList.GetOrSet(r.Context(), cache.PageContentAllKey, func() ([]pagecontent.Content, error) {
		rows, err := h.queries.ListPageContent(r.Context())
		if err != nil {
			return nil, err
		}
		stored := make(map[string]store.PageContent, len(rows))
		for _, row := range rows {
			stored[row.PageName] = row
		}

		pages := make([]pagecontent.Content, 0, len(pagecontent.AllPageNames))
		for _, name := range pagecontent.AllPageNames {
			c := pagecontent.Normalize(nil, name)
			if row, ok := stored[string(name)]; ok {
				if parsed, err := pagecontent.NormalizeDocument([]byte(row.Document), name); err == nil {
					c = parsed
				}
			}
			pages = append(pages, c)
		}
		return pages, nil
	})
	if err != nil {
		h.logger.Error("failed to list page content", "error", err)
		WriteInternalError(w, "Failed to list page content")
		return
	}
	WriteList(w, pages)
}

// UpdatePageContent handles PUT /page-content/{pageName}. The body is the
// editor's save payload; mass-times fields are dropped for other pages.
func (h *Handler) UpdatePageContent(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "pageName")
	if !pagecontent.IsValidPageName(name) {
		WriteNotFound(w, "Page not found")
		return
	}
	page := pagecontent.PageName(name)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err != nil {
		WriteBadRequest(w, "Request body too large", nil)
		return
	}
	raw, err := pagecontent.ParseRaw(body)
	if err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	c := pagecontent.Normalize(raw, page)
	sanitizePage(&c)
	if err := c.Validate(page); err != nil {
		var verrs pagecontent.ValidationErrors
		if errors.As(err, &verrs) {
			WriteValidationError(w, verrs)
			return
		}
		WriteBadRequest(w, err.Error(), nil)
		return
	}

	doc, err := json.Marshal(pagecontent.Denormalize(c, page))
	if err != nil {
		WriteInternalError(w, "Failed to encode page content")
		return
	}
	if _, err := h.queries.UpsertPageContent(r.Context(), store.UpsertPageContentParams{
		PageName:  name,
		Document:  string(doc),
		UpdatedBy: util.NullInt64FromValue(middleware.GetAdminID(r)),
		UpdatedAt: h.now().UTC(),
	}); err != nil {
		h.logger.Error("failed to save page content", "page", name, "error", err)
		WriteInternalError(w, "Failed to save page content")
		return
	}

	h.invalidate(r.Context(), cache.PrefixPageContent)
	h.logger.Info("page content saved", "page", name, "admin_id", middleware.GetAdminID(r))
	WriteSuccess(w, c, nil)
}

// sanitizePage strips markup from single-line fields and unsafe markup
// from the body.
func sanitizePage(c *pagecontent.Content) {
	c.HeroImage = sanitize.URL(c.HeroImage)
	c.HeroTitle = sanitize.Text(c.HeroTitle)
	c.HeroSubtitle = sanitize.Text(c.HeroSubtitle)
	c.Content = sanitize.Text(c.Content)

	m := c.MassTimes
	if m == nil {
		return
	}
	for i := range m.SpecialSchedules {
		s := &m.SpecialSchedules[i]
		s.Title = sanitize.Text(s.Title)
		s.Color = sanitize.Text(s.Color)
		s.Icon = sanitize.Text(s.Icon)
		for j := range s.Items {
			it := &s.Items[j]
			it.Day = sanitize.Text(it.Day)
			it.Time = sanitize.Text(it.Time)
			it.Location = sanitize.Text(it.Location)
		}
	}
	for i := range m.OfficeHours {
		m.OfficeHours[i].Days = sanitize.Text(m.OfficeHours[i].Days)
		m.OfficeHours[i].Hours = sanitize.Text(m.OfficeHours[i].Hours)
	}
	m.OfficeEmergencyNote = sanitize.Text(m.OfficeEmergencyNote)
	m.ContactSection = pagecontent.ContactSection{
		Heading:     sanitize.Text(m.ContactSection.Heading),
		Description: sanitize.Text(m.ContactSection.Description),
		Phone:       sanitize.Text(m.ContactSection.Phone),
		Email:       sanitize.Text(m.ContactSection.Email),
	}
}

// UploadPageImage handles POST /page-content/upload.
func (h *Handler) UploadPageImage(w http.ResponseWriter, r *http.Request) {
	h.uploadImage(w, r, service.FolderPageContent)
}

// UploadSlideImage handles POST /slideshow/upload.
func (h *Handler) UploadSlideImage(w http.ResponseWriter, r *http.Request) {
	h.uploadImage(w, r, service.FolderSlides)
}

func (h *Handler) uploadImage(w http.ResponseWriter, r *http.Request, folder string) {
	if !isMultipart(r) {
		WriteBadRequest(w, "Expected multipart/form-data with an image field", nil)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, service.MaxUploadSize+maxJSONBody)
	if err := r.ParseMultipartForm(service.MaxUploadSize); err != nil {
		WriteBadRequest(w, "Invalid multipart body", nil)
		return
	}

	path, err := h.saveFormImage(r, folder)
	if err != nil {
		h.writeUploadError(w, err)
		return
	}
	if path == "" {
		WriteValidationError(w, map[string]string{imageFormField: "No file uploaded"})
		return
	}
	WriteCreated(w, model.UploadResult{FilePath: path})
}
