// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

type CreateEventLogParams struct {
	Level     string
	Category  string
	Message   string
	Metadata  string
	CreatedAt time.Time
}

func (q *Queries) CreateEventLog(ctx context.Context, arg CreateEventLogParams) (EventLog, error) {
	var e EventLog
	err := q.db.QueryRowContext(ctx,
		`INSERT INTO event_log (level, category, message, metadata, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, level, category, message, metadata, created_at`,
		arg.Level, arg.Category, arg.Message, arg.Metadata, arg.CreatedAt).
		Scan(&e.ID, &e.Level, &e.Category, &e.Message, &e.Metadata, &e.CreatedAt)
	return e, err
}

// ListEventLog returns the newest log records first.
func (q *Queries) ListEventLog(ctx context.Context, limit int64) ([]EventLog, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, level, category, message, metadata, created_at
		FROM event_log ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	return collect(rows, func(s rowScanner) (EventLog, error) {
		var e EventLog
		err := s.Scan(&e.ID, &e.Level, &e.Category, &e.Message, &e.Metadata, &e.CreatedAt)
		return e, err
	})
}

// DeleteEventLogBefore prunes log records older than cutoff.
func (q *Queries) DeleteEventLogBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM event_log WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type CreateAdminEventParams struct {
	AdminEmail string
	Action     string
	IPAddress  string
	Browser    string
	OS         string
	CreatedAt  time.Time
}

func (q *Queries) CreateAdminEvent(ctx context.Context, arg CreateAdminEventParams) (AdminEvent, error) {
	var e AdminEvent
	err := q.db.QueryRowContext(ctx,
		`INSERT INTO admin_events (admin_email, action, ip_address, browser, os, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id, admin_email, action, ip_address, browser, os, created_at`,
		arg.AdminEmail, arg.Action, arg.IPAddress, arg.Browser, arg.OS, arg.CreatedAt).
		Scan(&e.ID, &e.AdminEmail, &e.Action, &e.IPAddress, &e.Browser, &e.OS, &e.CreatedAt)
	return e, err
}

// ListAdminEvents returns the newest audit rows first.
func (q *Queries) ListAdminEvents(ctx context.Context, limit int64) ([]AdminEvent, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, admin_email, action, ip_address, browser, os, created_at
		FROM admin_events ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	return collect(rows, func(s rowScanner) (AdminEvent, error) {
		var e AdminEvent
		err := s.Scan(&e.ID, &e.AdminEmail, &e.Action, &e.IPAddress, &e.Browser, &e.OS, &e.CreatedAt)
		return e, err
	})
}
