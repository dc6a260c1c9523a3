// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/olegiv/parish-go/internal/model"
)

// Resource is the create/update/delete half of a collection endpoint.
type Resource[T any] struct {
	c    *Client
	path string
}

func (r Resource[T]) itemPath(id int64) string {
	return fmt.Sprintf("%s/%d", r.path, id)
}

// Create posts v and returns the stored entity.
func (r Resource[T]) Create(ctx context.Context, v T) (T, error) {
	var out T
	err := r.c.do(ctx, http.MethodPost, r.path, v, &out)
	return out, err
}

// Update replaces entity id with v.
func (r Resource[T]) Update(ctx context.Context, id int64, v T) (T, error) {
	var out T
	err := r.c.do(ctx, http.MethodPut, r.itemPath(id), v, &out)
	return out, err
}

// Delete removes entity id.
func (r Resource[T]) Delete(ctx context.Context, id int64) error {
	return r.c.do(ctx, http.MethodDelete, r.itemPath(id), nil, nil)
}

// Collection adds the public listing.
type Collection[T any] struct {
	Resource[T]
}

// List returns the public listing.
func (r Collection[T]) List(ctx context.Context) ([]T, error) {
	var out []T
	err := r.c.do(ctx, http.MethodGet, r.path, nil, &out)
	return out, err
}

// Toggleable is a collection with an admin listing and an active flag.
type Toggleable[T any] struct {
	Collection[T]
}

// ListAll returns every entry, active or not. It requires a token.
func (r Toggleable[T]) ListAll(ctx context.Context) ([]T, error) {
	var out []T
	err := r.c.do(ctx, http.MethodGet, r.path+"/admin", nil, &out)
	return out, err
}

// Toggle flips the active flag of entry id.
func (r Toggleable[T]) Toggle(ctx context.Context, id int64) (T, error) {
	var out T
	err := r.c.do(ctx, http.MethodPatch, r.itemPath(id)+"/toggle", nil, &out)
	return out, err
}

func collection[T any](c *Client, path string) Collection[T] {
	return Collection[T]{Resource[T]{c: c, path: path}}
}

func toggleable[T any](c *Client, path string) Toggleable[T] {
	return Toggleable[T]{collection[T](c, path)}
}

func (c *Client) Announcements() Collection[model.Announcement] {
	return collection[model.Announcement](c, "/announcements")
}

func (c *Client) Events() Collection[model.Event] {
	return collection[model.Event](c, "/events")
}

func (c *Client) News() Collection[model.News] {
	return collection[model.News](c, "/news")
}

func (c *Client) Priests() Collection[model.Priest] {
	return collection[model.Priest](c, "/priests")
}

func (c *Client) Readings() Collection[model.Reading] {
	return collection[model.Reading](c, "/readings")
}

// MassTimes edits single rows; MassSchedule reads them grouped by day.
func (c *Client) MassTimes() Resource[model.MassTime] {
	return Resource[model.MassTime]{c: c, path: "/massschedule"}
}

func (c *Client) Sacraments() Toggleable[model.CatalogEntry] {
	return toggleable[model.CatalogEntry](c, "/sacraments")
}

func (c *Client) Services() Toggleable[model.CatalogEntry] {
	return toggleable[model.CatalogEntry](c, "/services")
}

func (c *Client) Slides() Toggleable[model.Slide] {
	return toggleable[model.Slide](c, "/slideshow")
}

// MassSchedule returns mass times grouped by day.
func (c *Client) MassSchedule(ctx context.Context) ([]model.MassDay, error) {
	var out []model.MassDay
	err := c.do(ctx, http.MethodGet, "/massschedule", nil, &out)
	return out, err
}

// TodayReading returns the reading dated today on the server.
func (c *Client) TodayReading(ctx context.Context) (model.Reading, error) {
	var out model.Reading
	err := c.do(ctx, http.MethodGet, "/readings/today", nil, &out)
	return out, err
}

func (c *Client) History(ctx context.Context) (model.History, error) {
	var out model.History
	err := c.do(ctx, http.MethodGet, "/history", nil, &out)
	return out, err
}

func (c *Client) UpdateHistory(ctx context.Context, h model.History) (model.History, error) {
	var out model.History
	err := c.do(ctx, http.MethodPut, "/history", h, &out)
	return out, err
}
