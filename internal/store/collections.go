// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Announcements

const announcementColumns = `id, title, content, image, created_at, updated_at`

func scanAnnouncement(s rowScanner) (Announcement, error) {
	var a Announcement
	err := s.Scan(&a.ID, &a.Title, &a.Content, &a.Image, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

type AnnouncementParams struct {
	Title   string
	Content string
	Image   string
	Now     time.Time
}

// ListAnnouncements returns the newest announcements first.
func (q *Queries) ListAnnouncements(ctx context.Context) ([]Announcement, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+announcementColumns+` FROM announcements ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanAnnouncement)
}

func (q *Queries) GetAnnouncement(ctx context.Context, id int64) (Announcement, error) {
	return scanAnnouncement(q.db.QueryRowContext(ctx,
		`SELECT `+announcementColumns+` FROM announcements WHERE id = ?`, id))
}

func (q *Queries) CreateAnnouncement(ctx context.Context, arg AnnouncementParams) (Announcement, error) {
	return scanAnnouncement(q.db.QueryRowContext(ctx,
		`INSERT INTO announcements (title, content, image, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?) RETURNING `+announcementColumns,
		arg.Title, arg.Content, arg.Image, arg.Now, arg.Now))
}

func (q *Queries) UpdateAnnouncement(ctx context.Context, id int64, arg AnnouncementParams) (Announcement, error) {
	return scanAnnouncement(q.db.QueryRowContext(ctx,
		`UPDATE announcements SET title = ?, content = ?, image = ?, updated_at = ?
		WHERE id = ? RETURNING `+announcementColumns,
		arg.Title, arg.Content, arg.Image, arg.Now, id))
}

func (q *Queries) DeleteAnnouncement(ctx context.Context, id int64) error {
	return requireAffected(q.db.ExecContext(ctx, `DELETE FROM announcements WHERE id = ?`, id))
}

// Events

const eventColumns = `id, title, date, description, image, created_at, updated_at`

func scanEvent(s rowScanner) (Event, error) {
	var e Event
	err := s.Scan(&e.ID, &e.Title, &e.Date, &e.Description, &e.Image, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

type EventParams struct {
	Title       string
	Date        string
	Description string
	Image       string
	Now         time.Time
}

// ListEvents returns events in date order.
func (q *Queries) ListEvents(ctx context.Context) ([]Event, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events ORDER BY date, id`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanEvent)
}

func (q *Queries) GetEvent(ctx context.Context, id int64) (Event, error) {
	return scanEvent(q.db.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = ?`, id))
}

func (q *Queries) CreateEvent(ctx context.Context, arg EventParams) (Event, error) {
	return scanEvent(q.db.QueryRowContext(ctx,
		`INSERT INTO events (title, date, description, image, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?) RETURNING `+eventColumns,
		arg.Title, arg.Date, arg.Description, arg.Image, arg.Now, arg.Now))
}

func (q *Queries) UpdateEvent(ctx context.Context, id int64, arg EventParams) (Event, error) {
	return scanEvent(q.db.QueryRowContext(ctx,
		`UPDATE events SET title = ?, date = ?, description = ?, image = ?, updated_at = ?
		WHERE id = ? RETURNING `+eventColumns,
		arg.Title, arg.Date, arg.Description, arg.Image, arg.Now, id))
}

func (q *Queries) DeleteEvent(ctx context.Context, id int64) error {
	return requireAffected(q.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id))
}

// Mass schedule

const massTimeColumns = `id, day, time, created_at`

func scanMassTime(s rowScanner) (MassTime, error) {
	var m MassTime
	err := s.Scan(&m.ID, &m.Day, &m.Time, &m.CreatedAt)
	return m, err
}

// ListMassTimes returns entries in insertion order.
func (q *Queries) ListMassTimes(ctx context.Context) ([]MassTime, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT `+massTimeColumns+` FROM mass_schedule ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanMassTime)
}

func (q *Queries) CreateMassTime(ctx context.Context, day, tm string, now time.Time) (MassTime, error) {
	return scanMassTime(q.db.QueryRowContext(ctx,
		`INSERT INTO mass_schedule (day, time, created_at) VALUES (?, ?, ?) RETURNING `+massTimeColumns,
		day, tm, now))
}

func (q *Queries) UpdateMassTime(ctx context.Context, id int64, day, tm string) (MassTime, error) {
	return scanMassTime(q.db.QueryRowContext(ctx,
		`UPDATE mass_schedule SET day = ?, time = ? WHERE id = ? RETURNING `+massTimeColumns,
		day, tm, id))
}

func (q *Queries) DeleteMassTime(ctx context.Context, id int64) error {
	return requireAffected(q.db.ExecContext(ctx, `DELETE FROM mass_schedule WHERE id = ?`, id))
}

// Priests

const priestColumns = `id, bio, created_at, updated_at`

func scanPriest(s rowScanner) (Priest, error) {
	var p Priest
	err := s.Scan(&p.ID, &p.Bio, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (q *Queries) ListPriests(ctx context.Context) ([]Priest, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT `+priestColumns+` FROM priests ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanPriest)
}

func (q *Queries) CreatePriest(ctx context.Context, bio string, now time.Time) (Priest, error) {
	return scanPriest(q.db.QueryRowContext(ctx,
		`INSERT INTO priests (bio, created_at, updated_at) VALUES (?, ?, ?) RETURNING `+priestColumns,
		bio, now, now))
}

func (q *Queries) UpdatePriest(ctx context.Context, id int64, bio string, now time.Time) (Priest, error) {
	return scanPriest(q.db.QueryRowContext(ctx,
		`UPDATE priests SET bio = ?, updated_at = ? WHERE id = ? RETURNING `+priestColumns,
		bio, now, id))
}

func (q *Queries) DeletePriest(ctx context.Context, id int64) error {
	return requireAffected(q.db.ExecContext(ctx, `DELETE FROM priests WHERE id = ?`, id))
}

// Readings

const readingColumns = `id, date, title, reading1, psalm, reading2, gospel, created_at, updated_at`

func scanReading(s rowScanner) (Reading, error) {
	var r Reading
	err := s.Scan(&r.ID, &r.Date, &r.Title, &r.Reading1, &r.Psalm, &r.Reading2, &r.Gospel,
		&r.CreatedAt, &r.UpdatedAt)
	return r, err
}

type ReadingParams struct {
	Date     string
	Title    string
	Reading1 string
	Psalm    string
	Reading2 string
	Gospel   string
	Now      time.Time
}

// ListReadings returns readings newest date first.
func (q *Queries) ListReadings(ctx context.Context) ([]Reading, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+readingColumns+` FROM readings ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanReading)
}

// GetReadingByDate returns the latest reading saved for date (YYYY-MM-DD).
func (q *Queries) GetReadingByDate(ctx context.Context, date string) (Reading, error) {
	return scanReading(q.db.QueryRowContext(ctx,
		`SELECT `+readingColumns+` FROM readings WHERE date = ? ORDER BY id DESC LIMIT 1`, date))
}

func (q *Queries) CreateReading(ctx context.Context, arg ReadingParams) (Reading, error) {
	return scanReading(q.db.QueryRowContext(ctx,
		`INSERT INTO readings (date, title, reading1, psalm, reading2, gospel, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING `+readingColumns,
		arg.Date, arg.Title, arg.Reading1, arg.Psalm, arg.Reading2, arg.Gospel, arg.Now, arg.Now))
}

func (q *Queries) UpdateReading(ctx context.Context, id int64, arg ReadingParams) (Reading, error) {
	return scanReading(q.db.QueryRowContext(ctx,
		`UPDATE readings SET date = ?, title = ?, reading1 = ?, psalm = ?, reading2 = ?, gospel = ?,
			updated_at = ?
		WHERE id = ? RETURNING `+readingColumns,
		arg.Date, arg.Title, arg.Reading1, arg.Psalm, arg.Reading2, arg.Gospel, arg.Now, id))
}

func (q *Queries) DeleteReading(ctx context.Context, id int64) error {
	return requireAffected(q.db.ExecContext(ctx, `DELETE FROM readings WHERE id = ?`, id))
}

// DeleteReadingsBefore removes readings dated strictly before date and
// returns how many rows were removed.
func (q *Queries) DeleteReadingsBefore(ctx context.Context, date string) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM readings WHERE date < ?`, date)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Slides

const slideColumns = `id, title, subtitle, image, sort_order, button_text, button_link, is_active,
	created_at, updated_at`

func scanSlide(s rowScanner) (Slide, error) {
	var sl Slide
	err := s.Scan(&sl.ID, &sl.Title, &sl.Subtitle, &sl.Image, &sl.SortOrder, &sl.ButtonText,
		&sl.ButtonLink, &sl.IsActive, &sl.CreatedAt, &sl.UpdatedAt)
	return sl, err
}

type SlideParams struct {
	Title      string
	Subtitle   string
	Image      string
	SortOrder  int64
	ButtonText string
	ButtonLink string
	IsActive   bool
	Now        time.Time
}

// ListSlides returns slides ordered by sort order.
func (q *Queries) ListSlides(ctx context.Context, activeOnly bool) ([]Slide, error) {
	query := `SELECT ` + slideColumns + ` FROM slides`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	rows, err := q.db.QueryContext(ctx, query+` ORDER BY sort_order, id`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanSlide)
}

func (q *Queries) GetSlide(ctx context.Context, id int64) (Slide, error) {
	return scanSlide(q.db.QueryRowContext(ctx, `SELECT `+slideColumns+` FROM slides WHERE id = ?`, id))
}

func (q *Queries) CreateSlide(ctx context.Context, arg SlideParams) (Slide, error) {
	return scanSlide(q.db.QueryRowContext(ctx,
		`INSERT INTO slides (title, subtitle, image, sort_order, button_text, button_link, is_active,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING `+slideColumns,
		arg.Title, arg.Subtitle, arg.Image, arg.SortOrder, arg.ButtonText, arg.ButtonLink,
		boolToInt(arg.IsActive), arg.Now, arg.Now))
}

func (q *Queries) UpdateSlide(ctx context.Context, id int64, arg SlideParams) (Slide, error) {
	return scanSlide(q.db.QueryRowContext(ctx,
		`UPDATE slides SET title = ?, subtitle = ?, image = ?, sort_order = ?, button_text = ?,
			button_link = ?, is_active = ?, updated_at = ?
		WHERE id = ? RETURNING `+slideColumns,
		arg.Title, arg.Subtitle, arg.Image, arg.SortOrder, arg.ButtonText, arg.ButtonLink,
		boolToInt(arg.IsActive), arg.Now, id))
}

// ToggleSlide flips is_active and leaves every other column untouched.
func (q *Queries) ToggleSlide(ctx context.Context, id int64) (Slide, error) {
	return scanSlide(q.db.QueryRowContext(ctx,
		`UPDATE slides SET is_active = 1 - is_active WHERE id = ? RETURNING `+slideColumns, id))
}

func (q *Queries) DeleteSlide(ctx context.Context, id int64) error {
	return requireAffected(q.db.ExecContext(ctx, `DELETE FROM slides WHERE id = ?`, id))
}

// History

// GetHistory returns the singleton history row, or an empty one if unset.
func (q *Queries) GetHistory(ctx context.Context) (History, error) {
	var h History
	err := q.db.QueryRowContext(ctx,
		`SELECT content, hero_image, updated_at FROM history WHERE id = 1`).
		Scan(&h.Content, &h.HeroImage, &h.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return History{}, nil
	}
	return h, err
}

// UpsertHistory stores content and, when heroImage is non-empty, replaces the image.
func (q *Queries) UpsertHistory(ctx context.Context, content, heroImage string, now time.Time) (History, error) {
	var h History
	err := q.db.QueryRowContext(ctx,
		`INSERT INTO history (id, content, hero_image, updated_at) VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			content = excluded.content,
			hero_image = CASE WHEN excluded.hero_image = '' THEN history.hero_image ELSE excluded.hero_image END,
			updated_at = excluded.updated_at
		RETURNING content, hero_image, updated_at`,
		content, heroImage, now).Scan(&h.Content, &h.HeroImage, &h.UpdatedAt)
	return h, err
}
