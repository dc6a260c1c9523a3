// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/parish-go/internal/pagecontent"
	"github.com/olegiv/parish-go/internal/store"
)

const massTimesBody = `{
	"heroTitle": "Mass Schedule",
	"content": "Welcome to Mass.\nAll are invited.",
	"specialSchedules": [
		{"title": "Holy Week", "color": "purple", "icon": "cross",
		 "items": [{"day": "Good Friday", "time": "3:00 PM", "location": "Main Church"}]},
		{"title": "Christmas", "items": []}
	],
	"officeHours": [{"days": "Mon-Fri", "hours": "9-5"}],
	"officeEmergencyNote": "Call anytime for last rites",
	"contactSection": {"heading": "Contact", "phone": "555-0100", "email": "office@parish.org"}
}`

func TestGetPageContent_Defaults(t *testing.T) {
	env := newTestEnv(t)

	w := env.public(http.MethodGet, "/page-content/donate", "")
	assertStatusCode(t, w, http.StatusOK)
	got := unmarshalData[pagecontent.Content](t, w)
	assert.Equal(t, pagecontent.PageDonate, got.PageName)
	assert.Equal(t, "Support Our Church", got.HeroTitle)
	assert.Nil(t, got.MassTimes)
	assert.NotContains(t, w.Body.String(), "specialSchedules")

	w = env.public(http.MethodGet, "/page-content/mass-times", "")
	assertStatusCode(t, w, http.StatusOK)
	assert.Contains(t, w.Body.String(), `"specialSchedules":[]`)
	assert.Contains(t, w.Body.String(), `"officeHours":[]`)
}

func TestGetPageContent_UnknownPage(t *testing.T) {
	env := newTestEnv(t)

	w := env.public(http.MethodGet, "/page-content/bingo-night", "")
	assertStatusCode(t, w, http.StatusNotFound)
	assertErrorResponse(t, w, "not_found")

	w = env.authed(http.MethodPut, "/page-content/bingo-night", `{"heroTitle":"Bingo"}`)
	assertStatusCode(t, w, http.StatusNotFound)
}

func TestUpdatePageContent_MassTimesRoundTrip(t *testing.T) {
	env := newTestEnv(t)

	w := env.authed(http.MethodPut, "/page-content/mass-times", massTimesBody)
	assertStatusCode(t, w, http.StatusOK)

	want, err := pagecontent.NormalizeDocument([]byte(massTimesBody), pagecontent.PageMassTimes)
	require.NoError(t, err)

	w = env.public(http.MethodGet, "/page-content/mass-times", "")
	assertStatusCode(t, w, http.StatusOK)
	got := unmarshalData[pagecontent.Content](t, w)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mass-times content mismatch (-want +got):\n%s", diff)
	}

	row, err := store.New(env.db).GetPageContent(context.Background(), "mass-times")
	require.NoError(t, err)
	assert.Equal(t, env.admin.ID, row.UpdatedBy.Int64)
}

func TestUpdatePageContent_PlainTextSurvives(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"ampersand and less than", `Bread & Wine, 1 < 2`, "Bread & Wine, 1 < 2"},
		{"line breaks", "Founded in 1950.\nRebuilt in 1972.", "Founded in 1950.\nRebuilt in 1972."},
		{"markup stripped", `<p>Founded <b>1950</b></p>`, "Founded 1950"},
		{"encoded script stripped", `&lt;script&gt;alert(1)&lt;/script&gt;Welcome`, "Welcome"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := json.Marshal(map[string]string{"content": tt.in, "heroTitle": "Fish & Loaves"})
			require.NoError(t, err)

			w := env.authed(http.MethodPut, "/page-content/our-history", string(body))
			assertStatusCode(t, w, http.StatusOK)

			w = env.public(http.MethodGet, "/page-content/our-history", "")
			got := unmarshalData[pagecontent.Content](t, w)
			assert.Equal(t, tt.want, got.Content)
			assert.Equal(t, "Fish & Loaves", got.HeroTitle)
		})
	}
}

func TestUpdatePageContent_DropsScheduleForOtherPages(t *testing.T) {
	env := newTestEnv(t)

	w := env.authed(http.MethodPut, "/page-content/donate",
		`{"heroTitle":"Give Today","specialSchedules":[{"title":"Holy Week","items":[]}]}`)
	assertStatusCode(t, w, http.StatusOK)
	assert.NotContains(t, w.Body.String(), "specialSchedules")

	row, err := store.New(env.db).GetPageContent(context.Background(), "donate")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(row.Document), &doc))
	assert.Equal(t, "Give Today", doc["heroTitle"])
	for _, key := range []string{"specialSchedules", "officeHours", "officeEmergencyNote", "contactSection"} {
		assert.NotContains(t, doc, key)
	}
}

func TestUpdatePageContent_InvalidatesCache(t *testing.T) {
	env := newTestEnv(t)

	// Prime both cached views.
	assertStatusCode(t, env.public(http.MethodGet, "/page-content/priest", ""), http.StatusOK)
	assertStatusCode(t, env.public(http.MethodGet, "/page-content", ""), http.StatusOK)

	w := env.authed(http.MethodPut, "/page-content/priest", `{"heroTitle":"Father Joseph"}`)
	assertStatusCode(t, w, http.StatusOK)

	w = env.public(http.MethodGet, "/page-content/priest", "")
	got := unmarshalData[pagecontent.Content](t, w)
	assert.Equal(t, "Father Joseph", got.HeroTitle)
	assert.Equal(t, "Serving Our Community with Faith and Dedication", got.HeroSubtitle)

	w = env.public(http.MethodGet, "/page-content", "")
	assertStatusCode(t, w, http.StatusOK)
	pages := unmarshalData[[]pagecontent.Content](t, w)
	require.Len(t, pages, len(pagecontent.AllPageNames))
	for i, p := range pages {
		assert.Equal(t, pagecontent.AllPageNames[i], p.PageName)
		if p.PageName == pagecontent.PagePriest {
			assert.Equal(t, "Father Joseph", p.HeroTitle)
		}
	}
}

func TestUpdatePageContent_Validation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		page   string
		body   string
		status int
		field  string
	}{
		{"untitled schedule", "mass-times", `{"specialSchedules":[{"title":" ","items":[]}]}`, http.StatusUnprocessableEntity, "specialSchedules[0].title"},
		{"bad contact email", "mass-times", `{"contactSection":{"email":"nope"}}`, http.StatusUnprocessableEntity, "contactSection.email"},
		{"invalid json", "events", `{"heroTitle":`, http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.authed(http.MethodPut, "/page-content/"+tt.page, tt.body)
			assertStatusCode(t, w, tt.status)
			if tt.field != "" {
				resp := assertErrorResponse(t, w, "validation_error")
				assert.Contains(t, resp.Error.Details, tt.field)
			}
		})
	}
}

func TestUpdatePageContent_RequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	w := env.public(http.MethodPut, "/page-content/donate", `{"heroTitle":"x"}`)
	assertStatusCode(t, w, http.StatusUnauthorized)
}

func TestUploadPageImage(t *testing.T) {
	env := newTestEnv(t)

	w := env.authedMultipart(http.MethodPost, "/page-content/upload", nil, testPNG(t))
	assertStatusCode(t, w, http.StatusCreated)
	assert.Contains(t, w.Body.String(), "/uploads/page-content/")

	w = env.authedMultipart(http.MethodPost, "/page-content/upload", map[string]string{"alt": "x"}, nil)
	assertStatusCode(t, w, http.StatusUnprocessableEntity)

	w = env.authed(http.MethodPost, "/page-content/upload", `{}`)
	assertStatusCode(t, w, http.StatusBadRequest)
}
