// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"time"
)

// CatalogTable names one of the two tables sharing the catalog schema.
type CatalogTable string

const (
	TableSacraments CatalogTable = "sacraments"
	TableServices   CatalogTable = "services"
)

func (t CatalogTable) valid() error {
	if t != TableSacraments && t != TableServices {
		return fmt.Errorf("unknown catalog table %q", string(t))
	}
	return nil
}

const catalogColumns = `id, name, slug, title, description, image, requirements, process_steps, fees,
	schedule, contact_person, contact_info, sort_order, is_active, created_at, updated_at`

func scanCatalogEntry(s rowScanner) (CatalogEntry, error) {
	var e CatalogEntry
	err := s.Scan(&e.ID, &e.Name, &e.Slug, &e.Title, &e.Description, &e.Image,
		&e.Requirements, &e.ProcessSteps, &e.Fees, &e.Schedule, &e.ContactPerson,
		&e.ContactInfo, &e.SortOrder, &e.IsActive, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

// CatalogEntryParams carries the writable catalog columns.
type CatalogEntryParams struct {
	Name          string
	Slug          string
	Title         string
	Description   string
	Image         string
	Requirements  string
	ProcessSteps  string
	Fees          string
	Schedule      string
	ContactPerson string
	ContactInfo   string
	SortOrder     int64
	IsActive      bool
	Now           time.Time
}

// ListCatalog returns entries ordered by sort order then insertion.
func (q *Queries) ListCatalog(ctx context.Context, table CatalogTable, activeOnly bool) ([]CatalogEntry, error) {
	if err := table.valid(); err != nil {
		return nil, err
	}
	query := `SELECT ` + catalogColumns + ` FROM ` + string(table)
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY sort_order, id`

	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanCatalogEntry)
}

func (q *Queries) GetCatalogEntry(ctx context.Context, table CatalogTable, id int64) (CatalogEntry, error) {
	if err := table.valid(); err != nil {
		return CatalogEntry{}, err
	}
	row := q.db.QueryRowContext(ctx,
		`SELECT `+catalogColumns+` FROM `+string(table)+` WHERE id = ?`, id)
	return scanCatalogEntry(row)
}

func (q *Queries) CreateCatalogEntry(ctx context.Context, table CatalogTable, arg CatalogEntryParams) (CatalogEntry, error) {
	if err := table.valid(); err != nil {
		return CatalogEntry{}, err
	}
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO `+string(table)+` (name, slug, title, description, image, requirements,
			process_steps, fees, schedule, contact_person, contact_info, sort_order, is_active,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+catalogColumns,
		arg.Name, arg.Slug, arg.Title, arg.Description, arg.Image, arg.Requirements,
		arg.ProcessSteps, arg.Fees, arg.Schedule, arg.ContactPerson, arg.ContactInfo,
		arg.SortOrder, boolToInt(arg.IsActive), arg.Now, arg.Now)
	return scanCatalogEntry(row)
}

// UpdateCatalogEntry overwrites every writable column of the entry.
func (q *Queries) UpdateCatalogEntry(ctx context.Context, table CatalogTable, id int64, arg CatalogEntryParams) (CatalogEntry, error) {
	if err := table.valid(); err != nil {
		return CatalogEntry{}, err
	}
	row := q.db.QueryRowContext(ctx,
		`UPDATE `+string(table)+` SET name = ?, slug = ?, title = ?, description = ?, image = ?,
			requirements = ?, process_steps = ?, fees = ?, schedule = ?, contact_person = ?,
			contact_info = ?, sort_order = ?, is_active = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+catalogColumns,
		arg.Name, arg.Slug, arg.Title, arg.Description, arg.Image, arg.Requirements,
		arg.ProcessSteps, arg.Fees, arg.Schedule, arg.ContactPerson, arg.ContactInfo,
		arg.SortOrder, boolToInt(arg.IsActive), arg.Now, id)
	return scanCatalogEntry(row)
}

// ToggleCatalogEntry flips is_active and leaves every other column untouched.
func (q *Queries) ToggleCatalogEntry(ctx context.Context, table CatalogTable, id int64) (CatalogEntry, error) {
	if err := table.valid(); err != nil {
		return CatalogEntry{}, err
	}
	row := q.db.QueryRowContext(ctx,
		`UPDATE `+string(table)+` SET is_active = 1 - is_active
		WHERE id = ?
		RETURNING `+catalogColumns, id)
	return scanCatalogEntry(row)
}

func (q *Queries) DeleteCatalogEntry(ctx context.Context, table CatalogTable, id int64) error {
	if err := table.valid(); err != nil {
		return err
	}
	return requireAffected(q.db.ExecContext(ctx, `DELETE FROM `+string(table)+` WHERE id = ?`, id))
}

// CountCatalogSlug counts entries with slug, ignoring excludeID.
func (q *Queries) CountCatalogSlug(ctx context.Context, table CatalogTable, slug string, excludeID int64) (int64, error) {
	if err := table.valid(); err != nil {
		return 0, err
	}
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM `+string(table)+` WHERE slug = ? AND id != ?`, slug, excludeID).Scan(&n)
	return n, err
}
