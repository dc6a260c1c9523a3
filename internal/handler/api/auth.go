// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/mileusna/useragent"

	"github.com/olegiv/parish-go/internal/auth"
	"github.com/olegiv/parish-go/internal/middleware"
	"github.com/olegiv/parish-go/internal/model"
	"github.com/olegiv/parish-go/internal/store"
	"github.com/olegiv/parish-go/internal/util"
)

// Messages returned by the login endpoint.
const (
	msgInvalidCredentials = "Invalid email or password"
	msgRegistrationClosed = "Registration is closed"
)

// Audit list limits.
const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

func adminFromRow(a store.Admin) model.Admin {
	return model.Admin{
		ID:          a.ID,
		Email:       a.Email,
		CreatedAt:   a.CreatedAt,
		LastLoginAt: util.TimePtr(a.LastLoginAt),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Login handles POST /admin/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var creds model.Credentials
	if !decodeJSON(w, r, &creds) {
		return
	}
	email := normalizeEmail(creds.Email)
	if email == "" || creds.Password == "" {
		WriteBadRequest(w, "Email and password are required", nil)
		return
	}

	if h.login != nil {
		if locked, remaining := h.login.IsAccountLocked(email); locked {
			h.recordAdminEvent(r, email, model.AdminActionLoginFailed)
			WriteError(w, http.StatusTooManyRequests, "account_locked",
				fmt.Sprintf("Account temporarily locked. Try again in %s.", remaining.Round(time.Second)), nil)
			return
		}
	}

	admin, err := h.queries.GetAdminByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.failLogin(w, r, email)
			return
		}
		h.logger.Error("failed to load admin for login", "error", err)
		WriteInternalError(w, "Login failed")
		return
	}

	ok, err := auth.CheckPassword(creds.Password, admin.PasswordHash)
	if err != nil {
		h.logger.Error("failed to check admin password", "error", err, "admin_id", admin.ID)
		WriteInternalError(w, "Login failed")
		return
	}
	if !ok {
		h.failLogin(w, r, email)
		return
	}

	if h.login != nil {
		h.login.RecordSuccessfulLogin(email)
	}
	now := h.now().UTC()
	if auth.NeedsRehash(admin.PasswordHash) {
		if hash, err := auth.HashPassword(creds.Password); err == nil {
			if err := h.queries.UpdateAdminPassword(r.Context(), admin.ID, hash, now); err != nil {
				h.logger.Warn("failed to upgrade password hash", "error", err, "admin_id", admin.ID)
			}
		}
	}
	if err := h.queries.UpdateAdminLastLogin(r.Context(), admin.ID, now); err != nil {
		h.logger.Warn("failed to record last login", "error", err, "admin_id", admin.ID)
	}
	admin.LastLoginAt = sql.NullTime{Time: now, Valid: true}

	h.recordAdminEvent(r, email, model.AdminActionLoginSuccess)
	h.writeToken(w, http.StatusOK, admin)
}

func (h *Handler) failLogin(w http.ResponseWriter, r *http.Request, email string) {
	if h.login != nil {
		h.login.RecordFailedAttempt(email)
	}
	h.recordAdminEvent(r, email, model.AdminActionLoginFailed)
	h.logger.Info("login failed", "email", email, "ip", middleware.ClientIP(r))
	WriteUnauthorized(w, msgInvalidCredentials)
}

func (h *Handler) writeToken(w http.ResponseWriter, status int, admin store.Admin) {
	token, claims, err := h.issuer.Issue(admin.ID, admin.Email)
	if err != nil {
		h.logger.Error("failed to issue token", "error", err, "admin_id", admin.ID)
		WriteInternalError(w, "Failed to issue token")
		return
	}
	WriteJSON(w, status, Response{Data: model.LoginResponse{
		Token:     token,
		ExpiresAt: claims.ExpiresAt,
		Admin:     adminFromRow(admin),
	}})
}

// Register handles POST /admin/register. It is open while no admin exists,
// or always when registration is explicitly allowed.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var creds model.Credentials
	if !decodeJSON(w, r, &creds) {
		return
	}

	count, err := h.queries.CountAdmins(r.Context())
	if err != nil {
		h.logger.Error("failed to count admins", "error", err)
		WriteInternalError(w, "Registration failed")
		return
	}
	if count > 0 && !h.allowRegistration {
		WriteForbidden(w, msgRegistrationClosed)
		return
	}

	email := normalizeEmail(creds.Email)
	errs := map[string]string{}
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		errs["email"] = "A valid email address is required"
	}
	if len(creds.Password) < auth.MinPasswordLength {
		errs["password"] = fmt.Sprintf("Password must be at least %d characters", auth.MinPasswordLength)
	}
	if len(errs) > 0 {
		WriteValidationError(w, errs)
		return
	}

	if _, err := h.queries.GetAdminByEmail(r.Context(), email); err == nil {
		WriteConflict(w, "An admin with this email already exists")
		return
	} else if !errors.Is(err, sql.ErrNoRows) {
		h.logger.Error("failed to check admin email", "error", err)
		WriteInternalError(w, "Registration failed")
		return
	}

	hash, err := auth.HashPassword(creds.Password)
	if err != nil {
		h.logger.Error("failed to hash password", "error", err)
		WriteInternalError(w, "Registration failed")
		return
	}
	admin, err := h.queries.CreateAdmin(r.Context(), store.CreateAdminParams{
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    h.now().UTC(),
	})
	if err != nil {
		h.logger.Error("failed to create admin", "error", err)
		WriteInternalError(w, "Registration failed")
		return
	}

	h.logger.Info("admin registered", "admin_id", admin.ID, "email", admin.Email)
	h.recordAdminEvent(r, email, model.AdminActionRegister)
	h.writeToken(w, http.StatusCreated, admin)
}

// VerifyToken handles GET /admin/verify-token. BearerAuth has already
// rejected anything but a live token for an existing admin.
func (h *Handler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	admin := middleware.GetAdmin(r)
	if admin == nil {
		WriteUnauthorized(w, "Invalid token")
		return
	}
	WriteSuccess(w, model.VerifyResponse{Valid: true, Admin: adminFromRow(*admin)}, nil)
}

// recordAdminEvent writes a login audit row. The browser and OS come from
// the User-Agent header.
func (h *Handler) recordAdminEvent(r *http.Request, email, action string) {
	ua := useragent.Parse(r.UserAgent())
	_, err := h.queries.CreateAdminEvent(r.Context(), store.CreateAdminEventParams{
		AdminEmail: email,
		Action:     action,
		IPAddress:  middleware.ClientIP(r),
		Browser:    strings.TrimSpace(ua.Name + " " + ua.Version),
		OS:         strings.TrimSpace(ua.OS + " " + ua.OSVersion),
		CreatedAt:  h.now().UTC(),
	})
	if err != nil {
		h.logger.Warn("failed to record admin event", "error", err, "action", action)
	}
}

// ListAdminEvents handles GET /admin/events.
func (h *Handler) ListAdminEvents(w http.ResponseWriter, r *http.Request) {
	rows, err := h.queries.ListAdminEvents(r.Context(), listLimit(r, defaultAuditLimit, maxAuditLimit))
	if err != nil {
		h.logger.Error("failed to list admin events", "error", err)
		WriteInternalError(w, "Failed to list admin events")
		return
	}

	events := make([]model.AdminEvent, 0, len(rows))
	for _, e := range rows {
		events = append(events, model.AdminEvent{
			ID:         e.ID,
			AdminEmail: e.AdminEmail,
			Action:     e.Action,
			IP:         e.IPAddress,
			Browser:    e.Browser,
			OS:         e.OS,
			CreatedAt:  e.CreatedAt,
		})
	}
	WriteList(w, events)
}

// ListEventLog handles GET /admin/logs.
func (h *Handler) ListEventLog(w http.ResponseWriter, r *http.Request) {
	rows, err := h.queries.ListEventLog(r.Context(), listLimit(r, defaultAuditLimit, maxAuditLimit))
	if err != nil {
		h.logger.Error("failed to list event log", "error", err)
		WriteInternalError(w, "Failed to list event log")
		return
	}

	entries := make([]model.LogEntry, 0, len(rows))
	for _, e := range rows {
		entry := model.LogEntry{
			ID:        e.ID,
			Level:     e.Level,
			Category:  e.Category,
			Message:   e.Message,
			CreatedAt: e.CreatedAt,
		}
		if e.Metadata != "" {
			_ = json.Unmarshal([]byte(e.Metadata), &entry.Metadata)
		}
		entries = append(entries, entry)
	}
	WriteList(w, entries)
}
