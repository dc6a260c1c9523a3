// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"time"

	"github.com/olegiv/parish-go/internal/model"
	"github.com/olegiv/parish-go/internal/pagecontent"
)

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (model.LoginResponse, error) {
	var out model.LoginResponse
	err := c.do(ctx, http.MethodPost, "/admin/login", model.Credentials{Email: email, Password: password}, &out)
	return out, err
}

// Register creates an admin account and returns its first token.
func (c *Client) Register(ctx context.Context, email, password string) (model.LoginResponse, error) {
	var out model.LoginResponse
	err := c.do(ctx, http.MethodPost, "/admin/register", model.Credentials{Email: email, Password: password}, &out)
	return out, err
}

// VerifyToken checks the stored token against the server.
func (c *Client) VerifyToken(ctx context.Context) (model.VerifyResponse, error) {
	var out model.VerifyResponse
	err := c.do(ctx, http.MethodGet, "/admin/verify-token", nil, &out)
	return out, err
}

// AdminEvents returns the most recent login audit rows.
func (c *Client) AdminEvents(ctx context.Context, limit int) ([]model.AdminEvent, error) {
	var out []model.AdminEvent
	err := c.do(ctx, http.MethodGet, "/admin/events?limit="+strconv.Itoa(limit), nil, &out)
	return out, err
}

// PageContent returns the normalized document of one page. Pages that were
// never saved come back with their fallback content.
func (c *Client) PageContent(ctx context.Context, name pagecontent.PageName) (pagecontent.Content, error) {
	var out pagecontent.Content
	err := c.do(ctx, http.MethodGet, "/page-content/"+url.PathEscape(string(name)), nil, &out)
	return out, err
}

// ListPageContent returns every page in editor order.
func (c *Client) ListPageContent(ctx context.Context) ([]pagecontent.Content, error) {
	var out []pagecontent.Content
	err := c.do(ctx, http.MethodGet, "/page-content", nil, &out)
	return out, err
}

// UpdatePageContent saves an edited page. The payload never carries
// mass-times keys for other pages.
func (c *Client) UpdatePageContent(ctx context.Context, name pagecontent.PageName, form pagecontent.Content) (pagecontent.Content, error) {
	var out pagecontent.Content
	err := c.do(ctx, http.MethodPut, "/page-content/"+url.PathEscape(string(name)),
		pagecontent.Denormalize(form, name), &out)
	return out, err
}

// UploadPageImage uploads an image for use in page content and returns its
// public path.
func (c *Client) UploadPageImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	return c.upload(ctx, "/page-content/upload", filename, r)
}

// UploadSlideImage uploads a slideshow image and returns its public path.
func (c *Client) UploadSlideImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	return c.upload(ctx, "/slideshow/upload", filename, r)
}

func (c *Client) upload(ctx context.Context, path, filename string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", filepath.Base(filename))
	if err != nil {
		return "", fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("copying upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("closing multipart body: %w", err)
	}

	var out model.UploadResult
	if err := c.send(ctx, http.MethodPost, path, &buf, mw.FormDataContentType(), &out); err != nil {
		return "", err
	}
	return out.FilePath, nil
}

// HealthStatus is the server health report. Checks are only filled in for
// authenticated callers.
type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    string    `json:"uptime"`
	Checks    map[string]struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"checks"`
}

// Health fetches the health report. An unhealthy server answers 503, which
// is returned as an *APIError.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	var out HealthStatus
	err := c.do(ctx, http.MethodGet, "/health", nil, &out)
	return out, err
}
