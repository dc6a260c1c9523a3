// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/parish-go/internal/auth"
	"github.com/olegiv/parish-go/internal/cache"
	"github.com/olegiv/parish-go/internal/client"
	"github.com/olegiv/parish-go/internal/handler/api"
	"github.com/olegiv/parish-go/internal/model"
	"github.com/olegiv/parish-go/internal/service"
	"github.com/olegiv/parish-go/internal/session"
	"github.com/olegiv/parish-go/internal/testutil"
)

type ctlEnv struct {
	t         *testing.T
	apiURL    string
	tokenFile string
}

func newCtlEnv(t *testing.T) *ctlEnv {
	t.Helper()

	db := testutil.TestDB(t)
	logger := testutil.TestLoggerSilent()
	mem := cache.NewMemoryCache(time.Minute, 0)
	t.Cleanup(func() { _ = mem.Close() })

	h := api.NewHandler(api.Deps{
		DB:     db,
		Issuer: auth.NewIssuer("parishctl-test-secret-0123456789abcdef", time.Hour),
		Cache:  mem,
		Media:  service.NewMediaService(t.TempDir(), logger),
		Logger: logger,
	})
	r := chi.NewRouter()
	r.Mount("/api", h.Routes())
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	testutil.CreateAdmin(t, db, "admin@parish.org", "correct-horse-battery")

	e := &ctlEnv{
		t:         t,
		apiURL:    srv.URL + "/api",
		tokenFile: filepath.Join(t.TempDir(), "admin-token"),
	}
	t.Setenv("PARISH_API_URL", e.apiURL)
	t.Setenv("PARISH_TOKEN_FILE", e.tokenFile)
	return e
}

// run executes parishctl with stdin and returns stdout and the error.
func (e *ctlEnv) run(stdin string, args ...string) (string, error) {
	e.t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return stdout.String(), err
}

func (e *ctlEnv) mustRun(stdin string, args ...string) string {
	e.t.Helper()
	out, err := e.run(stdin, args...)
	require.NoError(e.t, err, "parishctl %s", strings.Join(args, " "))
	return out
}

func TestRun_Usage(t *testing.T) {
	var stdout, stderr bytes.Buffer

	err := run(context.Background(), nil, strings.NewReader(""), &stdout, &stderr)
	assert.True(t, errors.Is(err, errUsage))
	assert.Contains(t, stderr.String(), "sacrament list [-all]")

	stderr.Reset()
	err = run(context.Background(), []string{"bless"}, strings.NewReader(""), &stdout, &stderr)
	assert.True(t, errors.Is(err, errUsage))
	assert.Contains(t, stderr.String(), `unknown command "bless"`)

	require.NoError(t, run(context.Background(), []string{"-version"}, strings.NewReader(""), &stdout, &stderr))
	assert.True(t, strings.HasPrefix(stdout.String(), "parishctl "))
}

func TestRun_LoginAndStatus(t *testing.T) {
	e := newCtlEnv(t)

	out := e.mustRun("", "status")
	assert.Contains(t, out, "Session:    anonymous")
	assert.NotContains(t, out, "unreachable")

	_, err := e.run("", "login", "-email", "admin@parish.org", "-password", "wrong-password")
	require.Error(t, err)
	assert.Equal(t, session.MsgInvalidCredentials, err.Error())

	out = e.mustRun("correct-horse-battery\n", "login", "-email", "admin@parish.org")
	assert.Equal(t, "Signed in as admin@parish.org\n", out)

	out = e.mustRun("", "status")
	assert.Contains(t, out, "Session:    admin")
	assert.Contains(t, out, "Admin:      admin@parish.org")
	assert.Contains(t, out, "database")

	assert.Equal(t, "Signed out\n", e.mustRun("", "logout"))
	assert.Equal(t, "Signed out\n", e.mustRun("", "logout"))
	assert.Contains(t, e.mustRun("", "status"), "Session:    anonymous")
}

func TestRun_LoginRequiresEmail(t *testing.T) {
	e := newCtlEnv(t)

	_, err := e.run("", "login", "-password", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "-email is required")
}

func TestRun_StaleTokenIsPurged(t *testing.T) {
	e := newCtlEnv(t)
	require.NoError(t, session.NewFileStore(e.tokenFile).Save("not.a.token"))

	out := e.mustRun("", "status")
	assert.Contains(t, out, "Session:    anonymous")

	token, err := session.NewFileStore(e.tokenFile).Load()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestRun_Page(t *testing.T) {
	e := newCtlEnv(t)

	out := e.mustRun("", "page", "list")
	assert.Contains(t, out, "PAGE")
	assert.Contains(t, out, "mass-times")
	assert.Contains(t, out, "Support Our Church")

	doc := `{"heroTitle":"Give Generously","specialSchedules":[{"title":"Lent","items":[]}]}`
	_, err := e.run(doc, "page", "set", "donate")
	assert.ErrorIs(t, err, errNotSignedIn)

	e.mustRun("correct-horse-battery\n", "login", "-email", "admin@parish.org")

	out = e.mustRun(doc, "page", "set", "donate")
	assert.Contains(t, out, `"heroTitle": "Give Generously"`)
	assert.NotContains(t, out, "specialSchedules")

	out = e.mustRun("", "page", "get", "donate")
	assert.Contains(t, out, "Give Generously")
	assert.Contains(t, out, `"pageName": "donate"`)

	file := filepath.Join(t.TempDir(), "mass-times.json")
	require.NoError(t, writeFile(file, `{"heroTitle":"Masses","specialSchedules":[{"title":"Holy Week","items":[{"day":"Thursday","time":"7 PM"}]}]}`))
	out = e.mustRun("", "page", "set", "mass-times", "-file", file)
	assert.Contains(t, out, "Holy Week")

	out = e.mustRun("", "page", "list")
	assert.Contains(t, out, "Masses")

	_, err = e.run("", "page", "get", "bingo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown page "bingo"`)

	_, err = e.run("{not json", "page", "set", "donate")
	require.Error(t, err)
}

func TestRun_Sacrament(t *testing.T) {
	e := newCtlEnv(t)
	e.mustRun("correct-horse-battery\n", "login", "-email", "admin@parish.org")

	c := client.New(e.apiURL, session.NewFileStore(e.tokenFile))
	created, err := c.Sacraments().Create(context.Background(), model.CatalogEntry{
		Name:     "baptism",
		Title:    "Holy Baptism",
		IsActive: true,
	})
	require.NoError(t, err)
	id := strconv.FormatInt(created.ID, 10)

	out := e.mustRun("", "sacrament", "list")
	assert.Contains(t, out, "Holy Baptism")
	assert.Contains(t, out, "active")

	out = e.mustRun("", "sacrament", "toggle", id)
	assert.Equal(t, "Sacrament "+id+" (Holy Baptism) is now inactive\n", out)

	assert.NotContains(t, e.mustRun("", "sacrament", "list"), "Holy Baptism")
	assert.Contains(t, e.mustRun("", "sacrament", "list", "-all"), "inactive")

	assert.Equal(t, "Deleted sacrament "+id+"\n", e.mustRun("", "sacrament", "delete", id))
	_, err = e.run("", "sacrament", "delete", id)
	assert.ErrorIs(t, err, client.ErrNotFound)

	_, err = e.run("", "sacrament", "toggle", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid id")

	e.mustRun("", "logout")
	_, err = e.run("", "sacrament", "delete", id)
	assert.ErrorIs(t, err, errNotSignedIn)
}
