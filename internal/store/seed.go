// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/parish-go/internal/auth"
)

// SeedAdmin creates the initial admin account when the admins table is empty.
// It does nothing when any admin already exists.
func SeedAdmin(ctx context.Context, db *sql.DB, email, password string) error {
	queries := New(db)

	count, err := queries.CountAdmins(ctx)
	if err != nil {
		return fmt.Errorf("counting admins: %w", err)
	}
	if count > 0 {
		slog.Debug("admin account exists, skipping seed")
		return nil
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return fmt.Errorf("seed admin email and password are required")
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	admin, err := queries.CreateAdmin(ctx, CreateAdminParams{
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("creating admin: %w", err)
	}

	slog.Info("created initial admin account", "id", admin.ID, "email", admin.Email)
	return nil
}
