// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/parish-go/internal/model"
)

func TestNews(t *testing.T) {
	env := newTestEnv(t)

	w := env.public(http.MethodGet, "/news", "")
	assertStatusCode(t, w, http.StatusOK)
	assert.Empty(t, unmarshalData[[]model.News](t, w))

	w = env.authed(http.MethodPost, "/news", `{"title":"New roof","content":"Repairs start Monday & end Friday."}`)
	assertStatusCode(t, w, http.StatusCreated)
	first := unmarshalData[model.News](t, w)
	assert.Equal(t, "Repairs start Monday & end Friday.", first.Content)

	w = env.authed(http.MethodPost, "/news", `{"title":"Choir auditions","content":"Thursday at 7 PM"}`)
	assertStatusCode(t, w, http.StatusCreated)

	w = env.authed(http.MethodPut, fmt.Sprintf("/news/%d", first.ID), `{"title":"New roof finished","content":"Thank you, donors."}`)
	assertStatusCode(t, w, http.StatusOK)
	assert.Equal(t, "New roof finished", unmarshalData[model.News](t, w).Title)

	w = env.public(http.MethodGet, "/news", "")
	list := unmarshalData[[]model.News](t, w)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID, "items keep the order they were added")
	assert.Equal(t, "Thank you, donors.", list[0].Content)

	assertStatusCode(t, env.authed(http.MethodDelete, fmt.Sprintf("/news/%d", first.ID), ""), http.StatusNoContent)
	assertStatusCode(t, env.authed(http.MethodDelete, fmt.Sprintf("/news/%d", first.ID), ""), http.StatusNotFound)
	assertStatusCode(t, env.authed(http.MethodPut, fmt.Sprintf("/news/%d", first.ID), `{"title":"x","content":"y"}`), http.StatusNotFound)
}

func TestNews_Validation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{"missing title", `{"content":"Text"}`, "title"},
		{"missing content", `{"title":"Title"}`, "content"},
		{"markup only", `{"title":"<b></b>","content":"Text"}`, "title"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.authed(http.MethodPost, "/news", tt.body)
			assertStatusCode(t, w, http.StatusUnprocessableEntity)
			resp := assertErrorResponse(t, w, "validation_error")
			assert.Contains(t, resp.Error.Details, tt.wantField)
		})
	}

	w := env.authed(http.MethodPost, "/news", `{`)
	assertStatusCode(t, w, http.StatusBadRequest)
}

func TestNews_RequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	assertStatusCode(t, env.public(http.MethodPost, "/news", `{"title":"x","content":"y"}`), http.StatusUnauthorized)
	assertStatusCode(t, env.public(http.MethodDelete, "/news/1", ""), http.StatusUnauthorized)
}
