// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const adminColumns = `id, email, password_hash, last_login_at, created_at, updated_at`

func scanAdmin(s rowScanner) (Admin, error) {
	var a Admin
	err := s.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.LastLoginAt, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

type CreateAdminParams struct {
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

func (q *Queries) CreateAdmin(ctx context.Context, arg CreateAdminParams) (Admin, error) {
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO admins (email, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		RETURNING `+adminColumns,
		arg.Email, arg.PasswordHash, arg.CreatedAt, arg.CreatedAt)
	return scanAdmin(row)
}

func (q *Queries) GetAdminByEmail(ctx context.Context, email string) (Admin, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+adminColumns+` FROM admins WHERE email = ?`, email)
	return scanAdmin(row)
}

func (q *Queries) GetAdminByID(ctx context.Context, id int64) (Admin, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+adminColumns+` FROM admins WHERE id = ?`, id)
	return scanAdmin(row)
}

func (q *Queries) CountAdmins(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&n)
	return n, err
}

func (q *Queries) UpdateAdminLastLogin(ctx context.Context, id int64, at time.Time) error {
	return requireAffected(q.db.ExecContext(ctx,
		`UPDATE admins SET last_login_at = ? WHERE id = ?`, at, id))
}

func (q *Queries) UpdateAdminPassword(ctx context.Context, id int64, hash string, at time.Time) error {
	return requireAffected(q.db.ExecContext(ctx,
		`UPDATE admins SET password_hash = ?, updated_at = ? WHERE id = ?`, hash, at, id))
}
