// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the JSON shapes exchanged between the parish API
// and its clients.
package model

import "time"

// Log levels stored in the event log.
const (
	LogLevelInfo    = "info"
	LogLevelWarning = "warning"
	LogLevelError   = "error"
)

// Log categories
const (
	LogCategoryAuth      = "auth"
	LogCategoryContent   = "content"
	LogCategoryCache     = "cache"
	LogCategoryScheduler = "scheduler"
	LogCategorySystem    = "system"
)

// Admin audit actions
const (
	AdminActionLoginSuccess = "login_success"
	AdminActionLoginFailed  = "login_failed"
	AdminActionRegister     = "register"
)

// LogEntry is a persisted WARN+ log record.
type LogEntry struct {
	ID        int64          `json:"id"`
	Level     string         `json:"level"`
	Category  string         `json:"category"`
	Message   string         `json:"message"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// AdminEvent records a login attempt.
type AdminEvent struct {
	ID         int64     `json:"id"`
	AdminEmail string    `json:"adminEmail"`
	Action     string    `json:"action"`
	IP         string    `json:"ip"`
	Browser    string    `json:"browser"`
	OS         string    `json:"os"`
	CreatedAt  time.Time `json:"createdAt"`
}
