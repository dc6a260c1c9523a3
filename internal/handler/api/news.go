// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/olegiv/parish-go/internal/model"
	"github.com/olegiv/parish-go/internal/sanitize"
	"github.com/olegiv/parish-go/internal/store"
)

func newsFromRow(n store.News) model.News {
	return model.News{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

// ListNews handles GET /news.
func (h *Handler) ListNews(w http.ResponseWriter, r *http.Request) {
	rows, err := h.queries.ListNews(r.Context())
	if err != nil {
		h.logger.Error("failed to list news", "error", err)
		WriteInternalError(w, "Failed to list news")
		return
	}
	out := make([]model.News, 0, len(rows))
	for _, n := range rows {
		out = append(out, newsFromRow(n))
	}
	WriteList(w, out)
}

func decodeNews(w http.ResponseWriter, r *http.Request) (store.NewsParams, bool) {
	var in model.News
	if !decodeJSON(w, r, &in) {
		return store.NewsParams{}, false
	}
	p := store.NewsParams{
		Title:   sanitize.Text(in.Title),
		Content: sanitize.Text(in.Content),
	}

	errs := map[string]string{}
	if p.Title == "" {
		errs["title"] = "title is required"
	}
	if p.Content == "" {
		errs["content"] = "content is required"
	}
	if len(errs) > 0 {
		WriteValidationError(w, errs)
		return p, false
	}
	return p, true
}

// CreateNews handles POST /news.
func (h *Handler) CreateNews(w http.ResponseWriter, r *http.Request) {
	p, ok := decodeNews(w, r)
	if !ok {
		return
	}
	p.Now = h.now().UTC()
	row, err := h.queries.CreateNews(r.Context(), p)
	if err != nil {
		h.writeStoreError(w, err, "news item", "create")
		return
	}
	WriteCreated(w, newsFromRow(row))
}

// UpdateNews handles PUT /news/{id}.
func (h *Handler) UpdateNews(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, "news item")
	if !ok {
		return
	}
	p, ok := decodeNews(w, r)
	if !ok {
		return
	}
	p.Now = h.now().UTC()
	row, err := h.queries.UpdateNews(r.Context(), id, p)
	if err != nil {
		h.writeStoreError(w, err, "news item", "update")
		return
	}
	WriteSuccess(w, newsFromRow(row), nil)
}

// DeleteNews handles DELETE /news/{id}.
func (h *Handler) DeleteNews(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, "news item")
	if !ok {
		return
	}
	if err := h.queries.DeleteNews(r.Context(), id); err != nil {
		h.writeStoreError(w, err, "news item", "delete")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
