// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the REST handlers behind /api: public reads of the
// parish content and the bearer-protected admin mutations.
package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/parish-go/internal/auth"
	"github.com/olegiv/parish-go/internal/cache"
	"github.com/olegiv/parish-go/internal/middleware"
	"github.com/olegiv/parish-go/internal/model"
	"github.com/olegiv/parish-go/internal/pagecontent"
	"github.com/olegiv/parish-go/internal/service"
	"github.com/olegiv/parish-go/internal/store"
)

// maxJSONBody caps JSON request bodies. Page documents are the largest.
const maxJSONBody = 1 << 20

// DefaultCacheTTL is used when Deps.CacheTTL is zero.
const DefaultCacheTTL = 5 * time.Minute

// Deps are the collaborators a Handler needs. Cache, Media, Login and
// Logger are optional.
type Deps struct {
	DB                *sql.DB
	Issuer            *auth.Issuer
	Cache             cache.Cacher
	CacheTTL          time.Duration
	Media             *service.MediaService
	Login             *middleware.LoginProtection
	AllowRegistration bool
	Logger            *slog.Logger
}

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	db                *sql.DB
	queries           *store.Queries
	issuer            *auth.Issuer
	cache             cache.Cacher
	media             *service.MediaService
	login             *middleware.LoginProtection
	allowRegistration bool
	logger            *slog.Logger
	now               func() time.Time
	startTime         time.Time

	pages    *cache.TypedCache[pagecontent.Content]
	pageList *cache.TypedCache[[]pagecontent.Content]
	catalogs *cache.TypedCache[[]model.CatalogEntry]
	slides   *cache.TypedCache[[]model.Slide]
	schedule *cache.TypedCache[[]model.MassDay]
	history  *cache.TypedCache[model.History]
	readings *cache.TypedCache[model.Reading]
}

// NewHandler creates a new API handler.
func NewHandler(d Deps) *Handler {
	ttl := d.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	c := d.Cache
	if c == nil {
		c = cache.NewMemoryCache(ttl, 0)
	}
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	media := d.Media
	if media == nil {
		media = service.NewMediaService(service.DefaultUploadDir, logger)
	}

	return &Handler{
		db:                d.DB,
		queries:           store.New(d.DB),
		issuer:            d.Issuer,
		cache:             c,
		media:             media,
		login:             d.Login,
		allowRegistration: d.AllowRegistration,
		logger:            logger,
		now:               time.Now,
		startTime:         time.Now(),

		pages:    cache.NewTypedCache[pagecontent.Content](c, ttl),
		pageList: cache.NewTypedCache[[]pagecontent.Content](c, ttl),
		catalogs: cache.NewTypedCache[[]model.CatalogEntry](c, ttl),
		slides:   cache.NewTypedCache[[]model.Slide](c, ttl),
		schedule: cache.NewTypedCache[[]model.MassDay](c, ttl),
		history:  cache.NewTypedCache[model.History](c, ttl),
		readings: cache.NewTypedCache[model.Reading](c, ttl),
	}
}

// Response is the standard API response wrapper.
type Response struct {
	Data any   `json:"data,omitempty"`
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

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, data any, meta *Meta) {
	WriteJSON(w, http.StatusOK, Response{Data: data, Meta: meta})
}

// WriteList writes a list with its length in meta.
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
	WriteJSON(w, statusCode, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
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

// WriteForbidden writes a 403 Forbidden response.
func WriteForbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, "forbidden", message, nil)
}

// WriteConflict writes a 409 Conflict response.
func WriteConflict(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusConflict, "conflict", message, nil)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, "internal_error", message, nil)
}

// WriteValidationError writes a 422 Unprocessable Entity response with field errors.
func WriteValidationError(w http.ResponseWriter, fieldErrors map[string]string) {
	WriteError(w, http.StatusUnprocessableEntity, "validation_error", "Validation failed", fieldErrors)
}

// SlugExistsChecker is a function that checks if a slug exists (returns count and error).
type SlugExistsChecker func() (int64, error)

// checkSlugUnique writes a validation error and returns false when the slug
// is taken.
func checkSlugUnique(w http.ResponseWriter, slugExists SlugExistsChecker) bool {
	exists, err := slugExists()
	if err != nil {
		WriteInternalError(w, "Failed to check slug")
		return false
	}
	if exists != 0 {
		WriteValidationError(w, map[string]string{"slug": "Slug already exists"})
		return false
	}
	return true
}

// parseIDParam reads the {id} URL parameter.
func parseIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// EntityFetcher is a function that fetches an entity by ID.
type EntityFetcher[T any] func(id int64) (T, error)

// requireEntityByID parses an ID from the URL and fetches the entity.
// Returns the entity and true if successful, or zero value and false if error (response written).
func requireEntityByID[T any](w http.ResponseWriter, r *http.Request, entityName string, fetch EntityFetcher[T]) (T, bool) {
	var zero T

	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid "+entityName+" ID", nil)
		return zero, false
	}

	entity, err := fetch(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, capitalizeFirst(entityName)+" not found")
		} else {
			WriteInternalError(w, "Failed to retrieve "+entityName)
		}
		return zero, false
	}

	return entity, true
}

// requireID parses the {id} URL parameter, writing 400 on failure.
func requireID(w http.ResponseWriter, r *http.Request, entityName string) (int64, bool) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid "+entityName+" ID", nil)
		return 0, false
	}
	return id, true
}

// writeStoreError maps a failed write to 404 or 500.
func (h *Handler) writeStoreError(w http.ResponseWriter, err error, entityName, action string) {
	if errors.Is(err, sql.ErrNoRows) {
		WriteNotFound(w, capitalizeFirst(entityName)+" not found")
		return
	}
	h.logger.Error("failed to "+action+" "+entityName, "error", err)
	WriteInternalError(w, "Failed to "+action+" "+entityName)
}

// capitalizeFirst returns s with the first letter capitalized.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// decodeJSON reads a JSON body into dst, writing 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return false
	}
	return true
}

// invalidate drops every cached key under prefix. A failure only costs
// freshness until the TTL expires, so it is logged.
func (h *Handler) invalidate(ctx context.Context, prefixes ...string) {
	for _, prefix := range prefixes {
		if err := h.cache.DeleteByPrefix(ctx, prefix); err != nil {
			h.logger.Warn("cache invalidation failed", "prefix", prefix, "error", err)
		}
	}
}

// listLimit reads ?limit=, defaulting to def and capped at max.
func listLimit(r *http.Request, def, max int64) int64 {
	n, err := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)
	if err != nil || n <= 0 {
		return def
	}
	return min(n, max)
}
