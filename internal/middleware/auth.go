// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for bearer authentication,
// rate limiting and response headers.
package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/olegiv/parish-go/internal/auth"
	"github.com/olegiv/parish-go/internal/store"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys set by BearerAuth.
const (
	ContextKeyAdmin  ContextKey = "admin"
	ContextKeyClaims ContextKey = "claims"
)

// APIError is the JSON error envelope.
type APIError struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// WriteAPIError writes a JSON error response.
func WriteAPIError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	apiErr := APIError{}
	apiErr.Error.Code = code
	apiErr.Error.Message = message
	apiErr.Error.Details = details

	_ = json.NewEncoder(w).Encode(apiErr)
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
// It returns an empty string when the header is missing or malformed.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// BearerAuth requires a valid admin token. The admin row is loaded so a
// deleted account loses access even while its token is unexpired.
func BearerAuth(issuer *auth.Issuer, db *sql.DB) func(http.Handler) http.Handler {
	queries := store.New(db)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := BearerToken(r)
			if raw == "" {
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Missing bearer token", nil)
				return
			}

			claims, err := issuer.Verify(raw)
			if err != nil {
				message := "Invalid token"
				if errors.Is(err, auth.ErrTokenExpired) {
					message = "Token has expired"
				}
				slog.Debug("token verification failed", "error", err, "path", r.URL.Path)
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", message, nil)
				return
			}

			admin, err := queries.GetAdminByID(r.Context(), claims.AdminID)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Invalid token", nil)
					return
				}
				slog.Error("failed to load admin", "error", err, "admin_id", claims.AdminID)
				WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to verify token", nil)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyAdmin, admin)
			ctx = context.WithValue(ctx, ContextKeyClaims, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetAdmin returns the authenticated admin, or nil outside BearerAuth.
func GetAdmin(r *http.Request) *store.Admin {
	admin, ok := r.Context().Value(ContextKeyAdmin).(store.Admin)
	if !ok {
		return nil
	}
	return &admin
}

// GetAdminID returns the authenticated admin's ID, or 0.
func GetAdminID(r *http.Request) int64 {
	if admin := GetAdmin(r); admin != nil {
		return admin.ID
	}
	return 0
}

// GetClaims returns the verified token claims.
func GetClaims(r *http.Request) (auth.Claims, bool) {
	claims, ok := r.Context().Value(ContextKeyClaims).(auth.Claims)
	return claims, ok
}
