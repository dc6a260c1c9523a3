// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/parish-go/internal/auth"
	"github.com/olegiv/parish-go/internal/cache"
	"github.com/olegiv/parish-go/internal/handler/api"
	"github.com/olegiv/parish-go/internal/model"
	"github.com/olegiv/parish-go/internal/pagecontent"
	"github.com/olegiv/parish-go/internal/service"
	"github.com/olegiv/parish-go/internal/testutil"
)

type staticToken string

func (s staticToken) Load() (string, error) { return string(s), nil }

type failingToken struct{}

func (failingToken) Load() (string, error) { return "", errors.New("disk gone") }

func TestClient_BearerHeader(t *testing.T) {
	tests := []struct {
		name   string
		tokens TokenSource
		want   string
	}{
		{"with token", staticToken("abc.def.ghi"), "Bearer abc.def.ghi"},
		{"empty token", staticToken(""), ""},
		{"no store", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.Header.Get("Authorization")
				_, _ = w.Write([]byte(`{"data":[],"meta":{"total":0}}`))
			}))
			defer srv.Close()

			_, err := New(srv.URL, tt.tokens).Priests().List(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_TokenLoadError(t *testing.T) {
	c := New("http://127.0.0.1:0", failingToken{})
	_, err := c.VerifyToken(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading token")
}

func TestClient_ErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":{"code":"validation_error","message":"Validation failed","details":{"title":"title is required"}}}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, nil).Events().Create(context.Background(), model.Event{})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "validation_error", apiErr.Code)
	assert.Equal(t, "title is required", apiErr.Details["title"])
	assert.True(t, errors.Is(err, ErrValidation))
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestClient_NonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL, nil).History(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	_, err := New(srv.URL, nil, WithTimeout(50*time.Millisecond)).History(context.Background())
	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

// newAPIServer runs the real API over a temp database and returns a token
// for its seeded admin.
func newAPIServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()

	db := testutil.TestDB(t)
	logger := testutil.TestLoggerSilent()
	mem := cache.NewMemoryCache(time.Minute, 0)
	t.Cleanup(func() { _ = mem.Close() })
	issuer := auth.NewIssuer("client-test-secret-0123456789abcdef", time.Hour)

	h := api.NewHandler(api.Deps{
		DB:     db,
		Issuer: issuer,
		Cache:  mem,
		Media:  service.NewMediaService(t.TempDir(), logger),
		Logger: logger,
	})
	r := chi.NewRouter()
	r.Mount("/api", h.Routes())
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	admin := testutil.CreateAdmin(t, db, "admin@parish.org", "correct-horse-battery")
	token, _, err := issuer.Issue(admin.ID, admin.Email)
	require.NoError(t, err)
	return srv, token
}

func TestClient_AgainstAPI(t *testing.T) {
	srv, token := newAPIServer(t)
	ctx := context.Background()

	anon := New(srv.URL+"/api", nil)
	admin := New(srv.URL+"/api/", staticToken(token))

	_, err := anon.Sacraments().Create(ctx, model.CatalogEntry{Name: "baptism", Title: "Holy Baptism"})
	assert.True(t, errors.Is(err, ErrUnauthorized))

	created, err := admin.Sacraments().Create(ctx, model.CatalogEntry{
		Name:     "baptism",
		Title:    "Holy Baptism",
		IsActive: true,
		ProcessSteps: []model.ProcessStep{
			{Step: 5, Title: "Register"},
			{Title: ""},
			{Step: 9, Title: "Attend seminar"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []model.ProcessStep{{Step: 1, Title: "Register"}, {Step: 2, Title: "Attend seminar"}}, created.ProcessSteps)

	toggled, err := admin.Sacraments().Toggle(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)

	public, err := anon.Sacraments().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, public)

	all, err := admin.Sacraments().ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, admin.Sacraments().Delete(ctx, created.ID))
	err = admin.Sacraments().Delete(ctx, created.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestClient_PageContentRoundTrip(t *testing.T) {
	srv, token := newAPIServer(t)
	ctx := context.Background()
	c := New(srv.URL+"/api", staticToken(token))

	page, err := c.PageContent(ctx, pagecontent.PageMassTimes)
	require.NoError(t, err)
	require.NotNil(t, page.MassTimes)

	page.HeroTitle = "Weekly Masses"
	page.MassTimes.SpecialSchedules = []pagecontent.SpecialSchedule{
		{Title: "Holy Week", Items: []pagecontent.ScheduleItem{{Day: "Thursday", Time: "7 PM", Location: "Main Church"}}},
		{Title: "Advent", Items: []pagecontent.ScheduleItem{}},
	}
	page.MassTimes.OfficeHours = []pagecontent.OfficeHour{
		{Days: "Mon-Fri", Hours: "9-5"},
		{Days: "Sat", Hours: "9-12"},
		{Days: "Sun", Hours: "Closed"},
	}
	page.MassTimes.ContactSection = pagecontent.ContactSection{
		Heading: "Office", Description: "Call us", Phone: "555-0100", Email: "office@parish.org",
	}

	saved, err := c.UpdatePageContent(ctx, pagecontent.PageMassTimes, page)
	require.NoError(t, err)
	if diff := cmp.Diff(page, saved); diff != "" {
		t.Errorf("saved page mismatch (-want +got):\n%s", diff)
	}

	got, err := c.PageContent(ctx, pagecontent.PageMassTimes)
	require.NoError(t, err)
	if diff := cmp.Diff(page, got); diff != "" {
		t.Errorf("reloaded page mismatch (-want +got):\n%s", diff)
	}

	_, err = c.PageContent(ctx, pagecontent.PageName("bingo"))
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestClient_UploadPageImage(t *testing.T) {
	srv, token := newAPIServer(t)

	_, err := New(srv.URL+"/api", staticToken(token)).
		UploadPageImage(context.Background(), "notes.txt", strings.NewReader("not an image"))
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Details, "image")
}
