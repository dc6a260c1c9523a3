// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a slog handler that also persists WARN and
// ERROR records to the event_log table so admins can review them.
package logging

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/parish-go/internal/model"
	"github.com/olegiv/parish-go/internal/store"
)

// EventLogHandler wraps another handler and copies records at or above
// its level into the event log.
type EventLogHandler struct {
	inner   slog.Handler
	queries *store.Queries
	level   slog.Level
	attrs   []slog.Attr
}

// NewEventLogHandler forwards WARN and above to the event log.
func NewEventLogHandler(inner slog.Handler, db *sql.DB) *EventLogHandler {
	return NewEventLogHandlerWithLevel(inner, db, slog.LevelWarn)
}

// NewEventLogHandlerWithLevel forwards records at level and above.
func NewEventLogHandlerWithLevel(inner slog.Handler, db *sql.DB, level slog.Level) *EventLogHandler {
	return &EventLogHandler{
		inner:   inner,
		queries: store.New(db),
		level:   level,
	}
}

// Enabled implements slog.Handler.
func (h *EventLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *EventLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}

	if r.Level >= h.level {
		h.persist(r)
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *EventLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &EventLogHandler{
		inner:   h.inner.WithAttrs(attrs),
		queries: h.queries,
		level:   h.level,
		attrs:   append(append([]slog.Attr{}, h.attrs...), attrs...),
	}
}

// WithGroup implements slog.Handler.
func (h *EventLogHandler) WithGroup(name string) slog.Handler {
	return &EventLogHandler{
		inner:   h.inner.WithGroup(name),
		queries: h.queries,
		level:   h.level,
		attrs:   h.attrs,
	}
}

// persist writes the record with a background context so the row is kept
// even when the request that logged it was cancelled.
func (h *EventLogHandler) persist(r slog.Record) {
	attrs := make([]slog.Attr, 0, len(h.attrs)+r.NumAttrs())
	attrs = append(attrs, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)
		return true
	})

	category := ""
	metadata := make(map[string]string, len(attrs))
	for _, a := range attrs {
		if a.Key == "category" {
			category = a.Value.String()
			continue
		}
		metadata[a.Key] = a.Value.String()
	}
	if category == "" {
		category = inferCategory(r.Message)
	}

	meta, err := json.Marshal(metadata)
	if err != nil {
		meta = []byte("{}")
	}

	created := r.Time
	if created.IsZero() {
		created = time.Now()
	}

	_, _ = h.queries.CreateEventLog(context.Background(), store.CreateEventLogParams{
		Level:     levelName(r.Level),
		Category:  category,
		Message:   r.Message,
		Metadata:  string(meta),
		CreatedAt: created.UTC(),
	})
}

func levelName(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return model.LogLevelError
	case level >= slog.LevelWarn:
		return model.LogLevelWarning
	default:
		return model.LogLevelInfo
	}
}

func inferCategory(message string) string {
	msg := strings.ToLower(message)
	switch {
	case strings.Contains(msg, "login") || strings.Contains(msg, "token") || strings.Contains(msg, "auth"):
		return model.LogCategoryAuth
	case strings.Contains(msg, "page content") || strings.Contains(msg, "sacrament") ||
		strings.Contains(msg, "service") || strings.Contains(msg, "upload"):
		return model.LogCategoryContent
	case strings.Contains(msg, "cache"):
		return model.LogCategoryCache
	case strings.Contains(msg, "job") || strings.Contains(msg, "scheduler"):
		return model.LogCategoryScheduler
	default:
		return model.LogCategorySystem
	}
}
