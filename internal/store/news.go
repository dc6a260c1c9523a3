// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const newsColumns = `id, title, content, created_at, updated_at`

func scanNews(s rowScanner) (News, error) {
	var n News
	err := s.Scan(&n.ID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt)
	return n, err
}

type NewsParams struct {
	Title   string
	Content string
	Now     time.Time
}

// ListNews returns items in the order they were added.
func (q *Queries) ListNews(ctx context.Context) ([]News, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT `+newsColumns+` FROM news ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanNews)
}

func (q *Queries) CreateNews(ctx context.Context, arg NewsParams) (News, error) {
	return scanNews(q.db.QueryRowContext(ctx,
		`INSERT INTO news (title, content, created_at, updated_at)
		VALUES (?, ?, ?, ?) RETURNING `+newsColumns,
		arg.Title, arg.Content, arg.Now, arg.Now))
}

func (q *Queries) UpdateNews(ctx context.Context, id int64, arg NewsParams) (News, error) {
	return scanNews(q.db.QueryRowContext(ctx,
		`UPDATE news SET title = ?, content = ?, updated_at = ?
		WHERE id = ? RETURNING `+newsColumns,
		arg.Title, arg.Content, arg.Now, id))
}

func (q *Queries) DeleteNews(ctx context.Context, id int64) error {
	return requireAffected(q.db.ExecContext(ctx, `DELETE FROM news WHERE id = ?`, id))
}
