// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"image/color"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/disintegration/imaging"

	"github.com/olegiv/parish-go/internal/auth"
	"github.com/olegiv/parish-go/internal/cache"
	"github.com/olegiv/parish-go/internal/service"
	"github.com/olegiv/parish-go/internal/store"
	"github.com/olegiv/parish-go/internal/testutil"
)

const (
	testSecret        = "test-secret-key-for-parish-api-0123456789"
	testAdminEmail    = "admin@parish.org"
	testAdminPassword = "correct-horse-battery"
)

// testEnv is a handler over a migrated temp database with one admin.
type testEnv struct {
	t       *testing.T
	db      *sql.DB
	handler *Handler
	router  http.Handler
	admin   store.Admin
	token   string
	uploads string
}

// envOption adjusts the handler dependencies before the handler is built.
type envOption func(*Deps)

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	return buildTestEnv(t, true, opts...)
}

// newEmptyTestEnv has no admin account and no token.
func newEmptyTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	return buildTestEnv(t, false, opts...)
}

func buildTestEnv(t *testing.T, seedAdmin bool, opts ...envOption) *testEnv {
	t.Helper()

	db := testutil.TestDB(t)
	logger := testutil.TestLoggerSilent()
	mem := cache.NewMemoryCache(time.Minute, 0)
	t.Cleanup(func() { _ = mem.Close() })
	uploads := t.TempDir()

	deps := Deps{
		DB:     db,
		Issuer: auth.NewIssuer(testSecret, time.Hour),
		Cache:  mem,
		Media:  service.NewMediaService(uploads, logger),
		Logger: logger,
	}
	for _, opt := range opts {
		opt(&deps)
	}

	h := NewHandler(deps)
	env := &testEnv{
		t:       t,
		db:      db,
		handler: h,
		router:  h.Routes(),
		uploads: uploads,
	}

	if seedAdmin {
		env.admin = testutil.CreateAdmin(t, db, testAdminEmail, testAdminPassword)
		token, _, err := deps.Issuer.Issue(env.admin.ID, env.admin.Email)
		if err != nil {
			t.Fatalf("Issue: %v", err)
		}
		env.token = token
	}
	return env
}

// serve runs req through the router.
func (e *testEnv) serve(req *http.Request) *httptest.ResponseRecorder {
	e.t.Helper()
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// public sends an unauthenticated request with an optional JSON body.
func (e *testEnv) public(method, path, body string) *httptest.ResponseRecorder {
	e.t.Helper()
	return e.serve(newJSONRequest(method, path, body))
}

// authed sends the request with the admin's bearer token.
func (e *testEnv) authed(method, path, body string) *httptest.ResponseRecorder {
	e.t.Helper()
	req := newJSONRequest(method, path, body)
	req.Header.Set("Authorization", "Bearer "+e.token)
	return e.serve(req)
}

// authedMultipart posts fields and an optional image as multipart/form-data.
func (e *testEnv) authedMultipart(method, path string, fields map[string]string, image []byte) *httptest.ResponseRecorder {
	e.t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			e.t.Fatalf("WriteField: %v", err)
		}
	}
	if image != nil {
		part, err := mw.CreateFormFile(imageFormField, "upload.png")
		if err != nil {
			e.t.Fatalf("CreateFormFile: %v", err)
		}
		if _, err := part.Write(image); err != nil {
			e.t.Fatalf("writing image part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		e.t.Fatalf("closing multipart writer: %v", err)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+e.token)
	return e.serve(req)
}

// newJSONRequest creates an HTTP request with JSON body.
func newJSONRequest(method, path, body string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

// dataResponse is a generic wrapper for API responses with a "data" field.
type dataResponse[T any] struct {
	Data T     `json:"data"`
	Meta *Meta `json:"meta"`
}

// unmarshalData unmarshals a JSON response body into the specified type.
func unmarshalData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var resp dataResponse[T]
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response %q: %v", w.Body.String(), err)
	}
	return resp.Data
}

// assertStatusCode checks that the response has the expected status code.
func assertStatusCode(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Fatalf("expected status %d, got %d: %s", expected, w.Code, w.Body.String())
	}
}

// assertErrorResponse unmarshals and validates an error response.
func assertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedCode string) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Error.Code != expectedCode {
		t.Errorf("expected code %q, got %q", expectedCode, resp.Error.Code)
	}
	return resp
}

// testPNG encodes a small solid image for upload tests.
func testPNG(t *testing.T) []byte {
	t.Helper()
	img := imaging.New(8, 8, color.NRGBA{R: 200, G: 30, B: 30, A: 255})
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		t.Fatalf("encoding test image: %v", err)
	}
	return buf.Bytes()
}
