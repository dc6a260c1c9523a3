// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

func scanPageContent(s rowScanner) (PageContent, error) {
	var p PageContent
	err := s.Scan(&p.PageName, &p.Document, &p.UpdatedBy, &p.UpdatedAt)
	return p, err
}

// GetPageContent returns sql.ErrNoRows when the page was never saved.
func (q *Queries) GetPageContent(ctx context.Context, pageName string) (PageContent, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT page_name, document, updated_by, updated_at FROM page_content WHERE page_name = ?`,
		pageName)
	return scanPageContent(row)
}

func (q *Queries) ListPageContent(ctx context.Context) ([]PageContent, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT page_name, document, updated_by, updated_at FROM page_content ORDER BY page_name`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanPageContent)
}

type UpsertPageContentParams struct {
	PageName  string
	Document  string
	UpdatedBy sql.NullInt64
	UpdatedAt time.Time
}

// UpsertPageContent replaces the whole document for a page.
func (q *Queries) UpsertPageContent(ctx context.Context, arg UpsertPageContentParams) (PageContent, error) {
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO page_content (page_name, document, updated_by, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(page_name) DO UPDATE SET
			document = excluded.document,
			updated_by = excluded.updated_by,
			updated_at = excluded.updated_at
		RETURNING page_name, document, updated_by, updated_at`,
		arg.PageName, arg.Document, arg.UpdatedBy, arg.UpdatedAt)
	return scanPageContent(row)
}
