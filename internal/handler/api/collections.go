// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"time"

	"github.com/olegiv/parish-go/internal/cache"
	"github.com/olegiv/parish-go/internal/model"
	"github.com/olegiv/parish-go/internal/sanitize"
	"github.com/olegiv/parish-go/internal/service"
	"github.com/olegiv/parish-go/internal/store"
)

func validDate(s string) bool {
	_, err := time.Parse(time.DateOnly, s)
	return err == nil
}

// Announcements

func announcementFromRow(a store.Announcement) model.Announcement {
	return model.Announcement{
		ID:        a.ID,
		Title:     a.Title,
		Content:   a.Content,
		Image:     a.Image,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// ListAnnouncements handles GET /announcements, newest first.
func (h *Handler) ListAnnouncements(w http.ResponseWriter, r *http.Request) {
	rows, err := h.queries.ListAnnouncements(r.Context())
	if err != nil {
		h.logger.Error("failed to list announcements", "error", err)
		WriteInternalError(w, "Failed to list announcements")
		return
	}
	out := make([]model.Announcement, 0, len(rows))
	for _, a := range rows {
		out = append(out, announcementFromRow(a))
	}
	WriteList(w, out)
}

func cleanAnnouncement(a *model.Announcement) map[string]string {
	a.Title = sanitize.Text(a.Title)
	a.Content = sanitize.Text(a.Content)
	a.Image = sanitize.URL(a.Image)

	errs := map[string]string{}
	if a.Title == "" {
		errs["title"] = "title is required"
	}
	if a.Content == "" {
		errs["content"] = "content is required"
	}
	return errs
}

// CreateAnnouncement handles POST /announcements.
func (h *Handler) CreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	var in model.Announcement
	upload, ok := h.decodeEntity(w, r, &in, service.FolderAnnouncements)
	if !ok {
		return
	}
	if errs := cleanAnnouncement(&in); len(errs) > 0 {
		h.discardUpload(upload)
		WriteValidationError(w, errs)
		return
	}

	row, err := h.queries.CreateAnnouncement(r.Context(), store.AnnouncementParams{
		Title:   in.Title,
		Content: in.Content,
		Image:   pickImage(upload, in.Image, ""),
		Now:     h.now().UTC(),
	})
	if err != nil {
		h.discardUpload(upload)
		h.writeStoreError(w, err, "announcement", "create")
		return
	}
	WriteCreated(w, announcementFromRow(row))
}

// UpdateAnnouncement handles PUT /announcements/{id}.
func (h *Handler) UpdateAnnouncement(w http.ResponseWriter, r *http.Request) {
	existing, ok := requireEntityByID(w, r, "announcement", func(id int64) (store.Announcement, error) {
		return h.queries.GetAnnouncement(r.Context(), id)
	})
	if !ok {
		return
	}

	var in model.Announcement
	upload, ok := h.decodeEntity(w, r, &in, service.FolderAnnouncements)
	if !ok {
		return
	}
	if errs := cleanAnnouncement(&in); len(errs) > 0 {
		h.discardUpload(upload)
		WriteValidationError(w, errs)
		return
	}

	row, err := h.queries.UpdateAnnouncement(r.Context(), existing.ID, store.AnnouncementParams{
		Title:   in.Title,
		Content: in.Content,
		Image:   pickImage(upload, in.Image, existing.Image),
		Now:     h.now().UTC(),
	})
	if err != nil {
		h.discardUpload(upload)
		h.writeStoreError(w, err, "announcement", "update")
		return
	}
	h.media.Replace(existing.Image, row.Image)
	WriteSuccess(w, announcementFromRow(row), nil)
}

// DeleteAnnouncement handles DELETE /announcements/{id}.
func (h *Handler) DeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	existing, ok := requireEntityByID(w, r, "announcement", func(id int64) (store.Announcement, error) {
		return h.queries.GetAnnouncement(r.Context(), id)
	})
	if !ok {
		return
	}
	if err := h.queries.DeleteAnnouncement(r.Context(), existing.ID); err != nil {
		h.writeStoreError(w, err, "announcement", "delete")
		return
	}
	h.media.Replace(existing.Image, "")
	w.WriteHeader(http.StatusNoContent)
}

// Events

func eventFromRow(e store.Event) model.Event {
	return model.Event{
		ID:          e.ID,
		Title:       e.Title,
		Date:        e.Date,
		Description: e.Description,
		Image:       e.Image,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// ListEvents handles GET /events.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	rows, err := h.queries.ListEvents(r.Context())
	if err != nil {
		h.logger.Error("failed to list events", "error", err)
		WriteInternalError(w, "Failed to list events")
		return
	}
	out := make([]model.Event, 0, len(rows))
	for _, e := range rows {
		out = append(out, eventFromRow(e))
	}
	WriteList(w, out)
}

func cleanEvent(e *model.Event) map[string]string {
	e.Title = sanitize.Text(e.Title)
	e.Date = sanitize.Text(e.Date)
	e.Description = sanitize.Text(e.Description)
	e.Image = sanitize.URL(e.Image)

	errs := map[string]string{}
	if e.Title == "" {
		errs["title"] = "title is required"
	}
	if !validDate(e.Date) {
		errs["date"] = "date must be YYYY-MM-DD"
	}
	return errs
}

// CreateEvent handles POST /events.
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var in model.Event
	upload, ok := h.decodeEntity(w, r, &in, service.FolderEvents)
	if !ok {
		return
	}
	if errs := cleanEvent(&in); len(errs) > 0 {
		h.discardUpload(upload)
		WriteValidationError(w, errs)
		return
	}

	row, err := h.queries.CreateEvent(r.Context(), store.EventParams{
		Title:       in.Title,
		Date:        in.Date,
		Description: in.Description,
		Image:       pickImage(upload, in.Image, ""),
		Now:         h.now().UTC(),
	})
	if err != nil {
		h.discardUpload(upload)
		h.writeStoreError(w, err, "event", "create")
		return
	}
	WriteCreated(w, eventFromRow(row))
}

// UpdateEvent handles PUT /events/{id}.
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	existing, ok := requireEntityByID(w, r, "event", func(id int64) (store.Event, error) {
		return h.queries.GetEvent(r.Context(), id)
	})
	if !ok {
		return
	}

	var in model.Event
	upload, ok := h.decodeEntity(w, r, &in, service.FolderEvents)
	if !ok {
		return
	}
	if errs := cleanEvent(&in); len(errs) > 0 {
		h.discardUpload(upload)
		WriteValidationError(w, errs)
		return
	}

	row, err := h.queries.UpdateEvent(r.Context(), existing.ID, store.EventParams{
		Title:       in.Title,
		Date:        in.Date,
		Description: in.Description,
		Image:       pickImage(upload, in.Image, existing.Image),
		Now:         h.now().UTC(),
	})
	if err != nil {
		h.discardUpload(upload)
		h.writeStoreError(w, err, "event", "update")
		return
	}
	h.media.Replace(existing.Image, row.Image)
	WriteSuccess(w, eventFromRow(row), nil)
}

// DeleteEvent handles DELETE /events/{id}.
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	existing, ok := requireEntityByID(w, r, "event", func(id int64) (store.Event, error) {
		return h.queries.GetEvent(r.Context(), id)
	})
	if !ok {
		return
	}
	if err := h.queries.DeleteEvent(r.Context(), existing.ID); err != nil {
		h.writeStoreError(w, err, "event", "delete")
		return
	}
	h.media.Replace(existing.Image, "")
	w.WriteHeader(http.StatusNoContent)
}

// Mass schedule

// groupMassTimes groups rows by day in order of first appearance.
func groupMassTimes(rows []store.MassTime) []model.MassDay {
	days := []model.MassDay{}
	index := map[string]int{}
	for _, m := range rows {
		i, ok := index[m.Day]
		if !ok {
			i = len(days)
			index[m.Day] = i
			days = append(days, model.MassDay{Day: m.Day, Times: []model.MassTime{}})
		}
		days[i].Times = append(days[i].Times, model.MassTime{ID: m.ID, Day: m.Day, Time: m.Time})
	}
	return days
}

// ListMassSchedule handles GET /massschedule.
func (h *Handler) ListMassSchedule(w http.ResponseWriter, r *http.Request) {
	days, err := h.schedule.GetOrSet(r.Context(), massScheduleKey, func() ([]model.MassDay, error) {
		rows, err := h.queries.ListMassTimes(r.Context())
		if err != nil {
			return nil, err
		}
		return groupMassTimes(rows), nil
	})
	if err != nil {
		h.logger.Error("failed to list mass schedule", "error", err)
		WriteInternalError(w, "Failed to list mass schedule")
		return
	}
	WriteList(w, days)
}

func cleanMassTime(m *model.MassTime) map[string]string {
	m.Day = sanitize.Text(m.Day)
	m.Time = sanitize.Text(m.Time)

	errs := map[string]string{}
	if m.Day == "" {
		errs["day"] = "day is required"
	}
	if m.Time == "" {
		errs["time"] = "time is required"
	}
	return errs
}

// CreateMassTime handles POST /massschedule.
func (h *Handler) CreateMassTime(w http.ResponseWriter, r *http.Request) {
	var in model.MassTime
	if !decodeJSON(w, r, &in) {
		return
	}
	if errs := cleanMassTime(&in); len(errs) > 0 {
		WriteValidationError(w, errs)
		return
	}
	row, err := h.queries.CreateMassTime(r.Context(), in.Day, in.Time, h.now().UTC())
	if err != nil {
		h.writeStoreError(w, err, "mass time", "create")
		return
	}
	h.invalidate(r.Context(), massScheduleKey)
	WriteCreated(w, model.MassTime{ID: row.ID, Day: row.Day, Time: row.Time})
}

// UpdateMassTime handles PUT /massschedule/{id}.
func (h *Handler) UpdateMassTime(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, "mass time")
	if !ok {
		return
	}
	var in model.MassTime
	if !decodeJSON(w, r, &in) {
		return
	}
	if errs := cleanMassTime(&in); len(errs) > 0 {
		WriteValidationError(w, errs)
		return
	}
	row, err := h.queries.UpdateMassTime(r.Context(), id, in.Day, in.Time)
	if err != nil {
		h.writeStoreError(w, err, "mass time", "update")
		return
	}
	h.invalidate(r.Context(), massScheduleKey)
	WriteSuccess(w, model.MassTime{ID: row.ID, Day: row.Day, Time: row.Time}, nil)
}

// DeleteMassTime handles DELETE /massschedule/{id}.
func (h *Handler) DeleteMassTime(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, "mass time")
	if !ok {
		return
	}
	if err := h.queries.DeleteMassTime(r.Context(), id); err != nil {
		h.writeStoreError(w, err, "mass time", "delete")
		return
	}
	h.invalidate(r.Context(), massScheduleKey)
	w.WriteHeader(http.StatusNoContent)
}

// Priests

// ListPriests handles GET /priests.
func (h *Handler) ListPriests(w http.ResponseWriter, r *http.Request) {
	rows, err := h.queries.ListPriests(r.Context())
	if err != nil {
		h.logger.Error("failed to list priests", "error", err)
		WriteInternalError(w, "Failed to list priests")
		return
	}
	out := make([]model.Priest, 0, len(rows))
	for _, p := range rows {
		out = append(out, model.Priest{ID: p.ID, Bio: p.Bio})
	}
	WriteList(w, out)
}

func decodePriest(w http.ResponseWriter, r *http.Request) (model.Priest, bool) {
	var in model.Priest
	if !decodeJSON(w, r, &in) {
		return in, false
	}
	in.Bio = sanitize.Text(in.Bio)
	if in.Bio == "" {
		WriteValidationError(w, map[string]string{"bio": "bio is required"})
		return in, false
	}
	return in, true
}

// CreatePriest handles POST /priests.
func (h *Handler) CreatePriest(w http.ResponseWriter, r *http.Request) {
	in, ok := decodePriest(w, r)
	if !ok {
		return
	}
	row, err := h.queries.CreatePriest(r.Context(), in.Bio, h.now().UTC())
	if err != nil {
		h.writeStoreError(w, err, "priest", "create")
		return
	}
	WriteCreated(w, model.Priest{ID: row.ID, Bio: row.Bio})
}

// UpdatePriest handles PUT /priests/{id}.
func (h *Handler) UpdatePriest(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, "priest")
	if !ok {
		return
	}
	in, ok := decodePriest(w, r)
	if !ok {
		return
	}
	row, err := h.queries.UpdatePriest(r.Context(), id, in.Bio, h.now().UTC())
	if err != nil {
		h.writeStoreError(w, err, "priest", "update")
		return
	}
	WriteSuccess(w, model.Priest{ID: row.ID, Bio: row.Bio}, nil)
}

// DeletePriest handles DELETE /priests/{id}.
func (h *Handler) DeletePriest(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, "priest")
	if !ok {
		return
	}
	if err := h.queries.DeletePriest(r.Context(), id); err != nil {
		h.writeStoreError(w, err, "priest", "delete")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Readings

func readingFromRow(r store.Reading) model.Reading {
	return model.Reading{
		ID:       r.ID,
		Date:     r.Date,
		Title:    r.Title,
		Reading1: r.Reading1,
		Psalm:    r.Psalm,
		Reading2: r.Reading2,
		Gospel:   r.Gospel,
	}
}

// ListReadings handles GET /readings, newest date first.
func (h *Handler) ListReadings(w http.ResponseWriter, r *http.Request) {
	rows, err := h.queries.ListReadings(r.Context())
	if err != nil {
		h.logger.Error("failed to list readings", "error", err)
		WriteInternalError(w, "Failed to list readings")
		return
	}
	out := make([]model.Reading, 0, len(rows))
	for _, rd := range rows {
		out = append(out, readingFromRow(rd))
	}
	WriteList(w, out)
}

// TodayReading handles GET /readings/today using the server's local date.
func (h *Handler) TodayReading(w http.ResponseWriter, r *http.Request) {
	today := h.now().Format(time.DateOnly)
	reading, err := h.readings.GetOrSet(r.Context(), cache.ReadingsDateKey(today), func() (model.Reading, error) {
		row, err := h.queries.GetReadingByDate(r.Context(), today)
		if err != nil {
			return model.Reading{}, err
		}
		return readingFromRow(row), nil
	})
	if err != nil {
		h.writeStoreError(w, err, "reading", "load")
		return
	}
	WriteSuccess(w, reading, nil)
}

func decodeReading(w http.ResponseWriter, r *http.Request) (model.Reading, bool) {
	var in model.Reading
	if !decodeJSON(w, r, &in) {
		return in, false
	}
	in.Date = sanitize.Text(in.Date)
	in.Title = sanitize.Text(in.Title)
	in.Reading1 = sanitize.Text(in.Reading1)
	in.Psalm = sanitize.Text(in.Psalm)
	in.Reading2 = sanitize.Text(in.Reading2)
	in.Gospel = sanitize.Text(in.Gospel)

	if !validDate(in.Date) {
		WriteValidationError(w, map[string]string{"date": "date must be YYYY-MM-DD"})
		return in, false
	}
	return in, true
}

func readingParams(in model.Reading, now time.Time) store.ReadingParams {
	return store.ReadingParams{
		Date:     in.Date,
		Title:    in.Title,
		Reading1: in.Reading1,
		Psalm:    in.Psalm,
		Reading2: in.Reading2,
		Gospel:   in.Gospel,
		Now:      now,
	}
}

// CreateReading handles POST /readings.
func (h *Handler) CreateReading(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeReading(w, r)
	if !ok {
		return
	}
	row, err := h.queries.CreateReading(r.Context(), readingParams(in, h.now().UTC()))
	if err != nil {
		h.writeStoreError(w, err, "reading", "create")
		return
	}
	h.invalidate(r.Context(), cache.PrefixReadings)
	WriteCreated(w, readingFromRow(row))
}

// UpdateReading handles PUT /readings/{id}.
func (h *Handler) UpdateReading(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, "reading")
	if !ok {
		return
	}
	in, ok := decodeReading(w, r)
	if !ok {
		return
	}
	row, err := h.queries.UpdateReading(r.Context(), id, readingParams(in, h.now().UTC()))
	if err != nil {
		h.writeStoreError(w, err, "reading", "update")
		return
	}
	h.invalidate(r.Context(), cache.PrefixReadings)
	WriteSuccess(w, readingFromRow(row), nil)
}

// DeleteReading handles DELETE /readings/{id}.
func (h *Handler) DeleteReading(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, "reading")
	if !ok {
		return
	}
	if err := h.queries.DeleteReading(r.Context(), id); err != nil {
		h.writeStoreError(w, err, "reading", "delete")
		return
	}
	h.invalidate(r.Context(), cache.PrefixReadings)
	w.WriteHeader(http.StatusNoContent)
}

// History

func historyFromRow(row store.History) model.History {
	h := model.History{Content: row.Content, HeroImage: row.HeroImage}
	if !row.UpdatedAt.IsZero() {
		t := row.UpdatedAt
		h.UpdatedAt = &t
	}
	return h
}

// GetHistory handles GET /history. An unset history is returned empty.
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	hist, err := h.history.GetOrSet(r.Context(), historyKey, func() (model.History, error) {
		row, err := h.queries.GetHistory(r.Context())
		if err != nil {
			return model.History{}, err
		}
		return historyFromRow(row), nil
	})
	if err != nil {
		h.logger.Error("failed to load history", "error", err)
		WriteInternalError(w, "Failed to load history")
		return
	}
	WriteSuccess(w, hist, nil)
}

// UpdateHistory handles PUT /history. A new image replaces the old one;
// no image keeps it.
func (h *Handler) UpdateHistory(w http.ResponseWriter, r *http.Request) {
	current, err := h.queries.GetHistory(r.Context())
	if err != nil {
		h.logger.Error("failed to load history", "error", err)
		WriteInternalError(w, "Failed to load history")
		return
	}

	var in model.History
	upload, ok := h.decodeEntity(w, r, &in, service.FolderHistory)
	if !ok {
		return
	}
	in.Content = sanitize.Text(in.Content)
	in.HeroImage = sanitize.URL(in.HeroImage)
	if in.Content == "" {
		h.discardUpload(upload)
		WriteValidationError(w, map[string]string{"content": "content is required"})
		return
	}

	row, err := h.queries.UpsertHistory(r.Context(), in.Content, pickImage(upload, in.HeroImage, ""), h.now().UTC())
	if err != nil {
		h.discardUpload(upload)
		h.writeStoreError(w, err, "history", "save")
		return
	}
	h.media.Replace(current.HeroImage, row.HeroImage)
	h.invalidate(r.Context(), historyKey)
	WriteSuccess(w, historyFromRow(row), nil)
}
