// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/olegiv/parish-go/internal/cache"
	"github.com/olegiv/parish-go/internal/catalog"
	"github.com/olegiv/parish-go/internal/model"
	"github.com/olegiv/parish-go/internal/service"
	"github.com/olegiv/parish-go/internal/store"
)

// catalogResource binds one catalog table to its routes.
type catalogResource struct {
	table  store.CatalogTable
	kind   catalog.Kind
	folder string
	entity string
}

var (
	sacramentResource = catalogResource{
		table:  store.TableSacraments,
		kind:   catalog.KindSacrament,
		folder: service.FolderSacraments,
		entity: "sacrament",
	}
	serviceResource = catalogResource{
		table:  store.TableServices,
		kind:   catalog.KindService,
		folder: service.FolderServices,
		entity: "service",
	}
)

// catalogInput is the create/update body. A nil IsActive means "unchanged"
// on update and "active" on create.
type catalogInput struct {
	model.CatalogEntry
	IsActive *bool `json:"isActive"`
}

func decodeList[T any](s string) []T {
	var out []T
	if err := json.Unmarshal([]byte(s), &out); err != nil || out == nil {
		return []T{}
	}
	return out
}

func catalogFromRow(row store.CatalogEntry) model.CatalogEntry {
	return model.CatalogEntry{
		ID:            row.ID,
		Name:          row.Name,
		Slug:          row.Slug,
		Title:         row.Title,
		Description:   row.Description,
		Image:         row.Image,
		Requirements:  decodeList[model.Requirement](row.Requirements),
		ProcessSteps:  decodeList[model.ProcessStep](row.ProcessSteps),
		Fees:          decodeList[model.Fee](row.Fees),
		Schedule:      row.Schedule,
		ContactPerson: row.ContactPerson,
		ContactInfo:   row.ContactInfo,
		Order:         row.SortOrder,
		IsActive:      row.IsActive != 0,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}

func catalogParams(e model.CatalogEntry, now time.Time) (store.CatalogEntryParams, error) {
	reqs, err := json.Marshal(e.Requirements)
	if err != nil {
		return store.CatalogEntryParams{}, fmt.Errorf("encoding requirements: %w", err)
	}
	steps, err := json.Marshal(e.ProcessSteps)
	if err != nil {
		return store.CatalogEntryParams{}, fmt.Errorf("encoding process steps: %w", err)
	}
	fees, err := json.Marshal(e.Fees)
	if err != nil {
		return store.CatalogEntryParams{}, fmt.Errorf("encoding fees: %w", err)
	}
	return store.CatalogEntryParams{
		Name:          e.Name,
		Slug:          e.Slug,
		Title:         e.Title,
		Description:   e.Description,
		Image:         e.Image,
		Requirements:  string(reqs),
		ProcessSteps:  string(steps),
		Fees:          string(fees),
		Schedule:      e.Schedule,
		ContactPerson: e.ContactPerson,
		ContactInfo:   e.ContactInfo,
		SortOrder:     e.Order,
		IsActive:      e.IsActive,
		Now:           now,
	}, nil
}

func catalogFromRows(rows []store.CatalogEntry) []model.CatalogEntry {
	out := make([]model.CatalogEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, catalogFromRow(row))
	}
	return out
}

// listCatalog serves the public list: active entries only, cached.
func (h *Handler) listCatalog(res catalogResource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := h.catalogs.GetOrSet(r.Context(), cache.CatalogKey(string(res.table)), func() ([]model.CatalogEntry, error) {
			rows, err := h.queries.ListCatalog(r.Context(), res.table, true)
			if err != nil {
				return nil, err
			}
			return catalog.ActiveOnly(catalogFromRows(rows)), nil
		})
		if err != nil {
			h.logger.Error("failed to list "+string(res.table), "error", err)
			WriteInternalError(w, "Failed to list "+string(res.table))
			return
		}
		WriteList(w, entries)
	}
}

// listCatalogAdmin serves every entry, active or not.
func (h *Handler) listCatalogAdmin(res catalogResource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := h.queries.ListCatalog(r.Context(), res.table, false)
		if err != nil {
			h.logger.Error("failed to list "+string(res.table), "error", err)
			WriteInternalError(w, "Failed to list "+string(res.table))
			return
		}
		WriteList(w, catalogFromRows(rows))
	}
}

func (h *Handler) createCatalog(res catalogResource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in catalogInput
		upload, ok := h.decodeEntity(w, r, &in, res.folder)
		if !ok {
			return
		}

		e := in.CatalogEntry
		e.Image = pickImage(upload, e.Image, "")
		e.IsActive = in.IsActive == nil || *in.IsActive
		e = catalog.Clean(e, res.kind)

		if errs := catalog.Validate(e, res.kind); len(errs) > 0 {
			h.discardUpload(upload)
			WriteValidationError(w, errs)
			return
		}
		if !checkSlugUnique(w, func() (int64, error) {
			return h.queries.CountCatalogSlug(r.Context(), res.table, e.Slug, 0)
		}) {
			h.discardUpload(upload)
			return
		}

		params, err := catalogParams(e, h.now().UTC())
		if err != nil {
			h.discardUpload(upload)
			WriteInternalError(w, "Failed to create "+res.entity)
			return
		}
		row, err := h.queries.CreateCatalogEntry(r.Context(), res.table, params)
		if err != nil {
			h.discardUpload(upload)
			h.writeStoreError(w, err, res.entity, "create")
			return
		}

		h.invalidate(r.Context(), cache.PrefixCatalog)
		h.logger.Info(res.entity+" created", "id", row.ID, "slug", row.Slug)
		WriteCreated(w, catalogFromRow(row))
	}
}

func (h *Handler) updateCatalog(res catalogResource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		existing, ok := requireEntityByID(w, r, res.entity, func(id int64) (store.CatalogEntry, error) {
			return h.queries.GetCatalogEntry(r.Context(), res.table, id)
		})
		if !ok {
			return
		}

		var in catalogInput
		upload, ok := h.decodeEntity(w, r, &in, res.folder)
		if !ok {
			return
		}

		e := in.CatalogEntry
		e.Image = pickImage(upload, e.Image, existing.Image)
		e.IsActive = existing.IsActive != 0
		if in.IsActive != nil {
			e.IsActive = *in.IsActive
		}
		e = catalog.Clean(e, res.kind)

		if errs := catalog.Validate(e, res.kind); len(errs) > 0 {
			h.discardUpload(upload)
			WriteValidationError(w, errs)
			return
		}
		if !checkSlugUnique(w, func() (int64, error) {
			return h.queries.CountCatalogSlug(r.Context(), res.table, e.Slug, existing.ID)
		}) {
			h.discardUpload(upload)
			return
		}

		params, err := catalogParams(e, h.now().UTC())
		if err != nil {
			h.discardUpload(upload)
			WriteInternalError(w, "Failed to update "+res.entity)
			return
		}
		row, err := h.queries.UpdateCatalogEntry(r.Context(), res.table, existing.ID, params)
		if err != nil {
			h.discardUpload(upload)
			h.writeStoreError(w, err, res.entity, "update")
			return
		}

		h.media.Replace(existing.Image, row.Image)
		h.invalidate(r.Context(), cache.PrefixCatalog)
		WriteSuccess(w, catalogFromRow(row), nil)
	}
}

// toggleCatalog flips isActive and nothing else.
func (h *Handler) toggleCatalog(res catalogResource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireID(w, r, res.entity)
		if !ok {
			return
		}
		row, err := h.queries.ToggleCatalogEntry(r.Context(), res.table, id)
		if err != nil {
			h.writeStoreError(w, err, res.entity, "toggle")
			return
		}

		h.invalidate(r.Context(), cache.PrefixCatalog)
		WriteSuccess(w, catalogFromRow(row), nil)
	}
}

func (h *Handler) deleteCatalog(res catalogResource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		existing, ok := requireEntityByID(w, r, res.entity, func(id int64) (store.CatalogEntry, error) {
			return h.queries.GetCatalogEntry(r.Context(), res.table, id)
		})
		if !ok {
			return
		}
		if err := h.queries.DeleteCatalogEntry(r.Context(), res.table, existing.ID); err != nil {
			h.writeStoreError(w, err, res.entity, "delete")
			return
		}

		h.media.Replace(existing.Image, "")
		h.invalidate(r.Context(), cache.PrefixCatalog)
		h.logger.Info(res.entity+" deleted", "id", existing.ID)
		w.WriteHeader(http.StatusNoContent)
	}
}
