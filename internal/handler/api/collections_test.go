// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/parish-go/internal/model"
	"github.com/olegiv/parish-go/internal/store"
)

func TestGroupMassTimes(t *testing.T) {
	rows := []store.MassTime{
		{ID: 1, Day: "Sunday", Time: "8:00 AM"},
		{ID: 2, Day: "Saturday", Time: "6:00 PM"},
		{ID: 3, Day: "Sunday", Time: "10:00 AM"},
	}

	want := []model.MassDay{
		{Day: "Sunday", Times: []model.MassTime{
			{ID: 1, Day: "Sunday", Time: "8:00 AM"},
			{ID: 3, Day: "Sunday", Time: "10:00 AM"},
		}},
		{Day: "Saturday", Times: []model.MassTime{{ID: 2, Day: "Saturday", Time: "6:00 PM"}}},
	}
	if diff := cmp.Diff(want, groupMassTimes(rows)); diff != "" {
		t.Errorf("groupMassTimes (-want +got):\n%s", diff)
	}
	assert.Empty(t, groupMassTimes(nil))
}

func TestMassSchedule(t *testing.T) {
	env := newTestEnv(t)

	// Prime the cache with an empty schedule.
	w := env.public(http.MethodGet, "/massschedule", "")
	assertStatusCode(t, w, http.StatusOK)
	assert.Empty(t, unmarshalData[[]model.MassDay](t, w))

	for _, body := range []string{
		`{"day":"Sunday","time":"8:00 AM"}`,
		`{"day":"Monday","time":"7:00 AM"}`,
		`{"day":"Sunday","time":"10:00 AM"}`,
	} {
		assertStatusCode(t, env.authed(http.MethodPost, "/massschedule", body), http.StatusCreated)
	}

	w = env.public(http.MethodGet, "/massschedule", "")
	days := unmarshalData[[]model.MassDay](t, w)
	require.Len(t, days, 2)
	assert.Equal(t, "Sunday", days[0].Day)
	assert.Len(t, days[0].Times, 2)
	assert.Equal(t, "Monday", days[1].Day)

	w = env.authed(http.MethodPost, "/massschedule", `{"day":"","time":"9:00"}`)
	assertStatusCode(t, w, http.StatusUnprocessableEntity)

	w = env.authed(http.MethodDelete, fmt.Sprintf("/massschedule/%d", days[1].Times[0].ID), "")
	assertStatusCode(t, w, http.StatusNoContent)
	w = env.public(http.MethodGet, "/massschedule", "")
	assert.Len(t, unmarshalData[[]model.MassDay](t, w), 1)
}

func TestTodayReading(t *testing.T) {
	env := newTestEnv(t)
	env.handler.now = func() time.Time { return time.Date(2025, 12, 25, 9, 0, 0, 0, time.Local) }

	w := env.public(http.MethodGet, "/readings/today", "")
	assertStatusCode(t, w, http.StatusNotFound)
	assertErrorResponse(t, w, "not_found")

	w = env.authed(http.MethodPost, "/readings",
		`{"date":"2025-12-25","title":"Nativity of the Lord","gospel":"<p>In the beginning was the Word</p>"}`)
	assertStatusCode(t, w, http.StatusCreated)
	env.authed(http.MethodPost, "/readings", `{"date":"2025-12-24","title":"Christmas Eve"}`)

	w = env.public(http.MethodGet, "/readings/today", "")
	assertStatusCode(t, w, http.StatusOK)
	got := unmarshalData[model.Reading](t, w)
	assert.Equal(t, "Nativity of the Lord", got.Title)

	w = env.public(http.MethodGet, "/readings", "")
	list := unmarshalData[[]model.Reading](t, w)
	require.Len(t, list, 2)
	assert.Equal(t, "2025-12-25", list[0].Date)
}

func TestCreateReading_InvalidDate(t *testing.T) {
	env := newTestEnv(t)

	w := env.authed(http.MethodPost, "/readings", `{"date":"25/12/2025","title":"Christmas"}`)
	assertStatusCode(t, w, http.StatusUnprocessableEntity)
	resp := assertErrorResponse(t, w, "validation_error")
	assert.Contains(t, resp.Error.Details, "date")
}

func TestSlides_ActiveFilter(t *testing.T) {
	env := newTestEnv(t)

	w := env.authed(http.MethodPost, "/slideshow",
		`{"title":"Welcome","image":"/images/slide1.jpg","order":1,"buttonText":"Visit","buttonLink":"/mass-times"}`)
	assertStatusCode(t, w, http.StatusCreated)
	first := unmarshalData[model.Slide](t, w)
	assert.True(t, first.IsActive)

	w = env.authed(http.MethodPost, "/slideshow", `{"title":"Lent","image":"/images/slide2.jpg","order":2,"isActive":false}`)
	assertStatusCode(t, w, http.StatusCreated)

	w = env.public(http.MethodGet, "/slideshow", "")
	active := unmarshalData[[]model.Slide](t, w)
	require.Len(t, active, 1)
	assert.Equal(t, first.ID, active[0].ID)

	w = env.authed(http.MethodGet, "/slideshow/admin", "")
	assert.Len(t, unmarshalData[[]model.Slide](t, w), 2)

	w = env.authed(http.MethodPatch, fmt.Sprintf("/slideshow/%d/toggle", first.ID), "")
	assertStatusCode(t, w, http.StatusOK)
	toggled := unmarshalData[model.Slide](t, w)
	if diff := cmp.Diff(first, toggled, cmpopts.IgnoreFields(model.Slide{}, "IsActive")); diff != "" {
		t.Errorf("toggle changed more than isActive (-before +after):\n%s", diff)
	}

	w = env.public(http.MethodGet, "/slideshow", "")
	assert.Empty(t, unmarshalData[[]model.Slide](t, w))
}

func TestCreateSlide_RequiresImage(t *testing.T) {
	env := newTestEnv(t)

	w := env.authed(http.MethodPost, "/slideshow", `{"title":"No picture"}`)
	assertStatusCode(t, w, http.StatusUnprocessableEntity)
	resp := assertErrorResponse(t, w, "validation_error")
	assert.Contains(t, resp.Error.Details, "image")
}

func TestAnnouncements(t *testing.T) {
	env := newTestEnv(t)

	w := env.authed(http.MethodPost, "/announcements", `{"title":"Bake Sale","content":"<p>Sunday after Mass</p>"}`)
	assertStatusCode(t, w, http.StatusCreated)
	created := unmarshalData[model.Announcement](t, w)

	w = env.authed(http.MethodPut, fmt.Sprintf("/announcements/%d", created.ID),
		`{"title":"Bake Sale moved","content":"<p>Saturday</p>","image":"/images/bake.jpg"}`)
	assertStatusCode(t, w, http.StatusOK)
	assert.Equal(t, "/images/bake.jpg", unmarshalData[model.Announcement](t, w).Image)

	w = env.public(http.MethodGet, "/announcements", "")
	list := unmarshalData[[]model.Announcement](t, w)
	require.Len(t, list, 1)
	assert.Equal(t, "Bake Sale moved", list[0].Title)
	assert.Equal(t, "Saturday", list[0].Content)

	assertStatusCode(t, env.authed(http.MethodDelete, fmt.Sprintf("/announcements/%d", created.ID), ""), http.StatusNoContent)
	assertStatusCode(t, env.authed(http.MethodPut, fmt.Sprintf("/announcements/%d", created.ID), `{"title":"x","content":"y"}`), http.StatusNotFound)
}

func TestCreateEvent_InvalidDate(t *testing.T) {
	env := newTestEnv(t)

	w := env.authed(http.MethodPost, "/events", `{"title":"Parish Picnic","date":"next sunday"}`)
	assertStatusCode(t, w, http.StatusUnprocessableEntity)

	w = env.authed(http.MethodPost, "/events", `{"title":"Parish Picnic","date":"2026-06-14"}`)
	assertStatusCode(t, w, http.StatusCreated)
}

func TestPriests(t *testing.T) {
	env := newTestEnv(t)

	w := env.authed(http.MethodPost, "/priests", `{"bio":"<script>x</script>"}`)
	assertStatusCode(t, w, http.StatusUnprocessableEntity)

	w = env.authed(http.MethodPost, "/priests", `{"bio":"<p>Ordained in 1998.</p>"}`)
	assertStatusCode(t, w, http.StatusCreated)

	w = env.public(http.MethodGet, "/priests", "")
	priests := unmarshalData[[]model.Priest](t, w)
	require.Len(t, priests, 1)
	assert.Equal(t, "Ordained in 1998.", priests[0].Bio)
}

func TestHistory(t *testing.T) {
	env := newTestEnv(t)

	w := env.public(http.MethodGet, "/history", "")
	assertStatusCode(t, w, http.StatusOK)
	assert.Empty(t, unmarshalData[model.History](t, w).Content)

	w = env.authed(http.MethodPut, "/history", `{"content":"<p>Founded in 1950.</p>","heroImage":"/images/old-church.jpg"}`)
	assertStatusCode(t, w, http.StatusOK)

	// Saving without an image keeps the current one.
	w = env.authed(http.MethodPut, "/history", `{"content":"Founded in 1951 & rebuilt in 1972."}`)
	assertStatusCode(t, w, http.StatusOK)

	w = env.public(http.MethodGet, "/history", "")
	got := unmarshalData[model.History](t, w)
	assert.Equal(t, "Founded in 1951 & rebuilt in 1972.", got.Content)
	assert.Equal(t, "/images/old-church.jpg", got.HeroImage)
	assert.NotNil(t, got.UpdatedAt)

	w = env.authed(http.MethodPut, "/history", `{"content":""}`)
	assertStatusCode(t, w, http.StatusUnprocessableEntity)
}
