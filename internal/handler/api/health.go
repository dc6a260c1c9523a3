// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"syscall"
	"time"

	"github.com/olegiv/parish-go/internal/cache"
	"github.com/olegiv/parish-go/internal/middleware"
	"github.com/olegiv/parish-go/internal/version"
)

// Health check states.
const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

// minFreeSpace is the free space below which uploads are reported degraded.
const minFreeSpace = 100 * 1024 * 1024

// HealthStatus is the health response. Checks and version are only shown
// to callers with a valid admin token.
type HealthStatus struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Uptime    string           `json:"uptime,omitempty"`
	Version   *version.Info    `json:"version,omitempty"`
	Checks    map[string]Check `json:"checks,omitempty"`
}

// Check represents a single health check result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]Check{
		"database": h.checkDatabase(r.Context()),
		"disk":     h.checkDiskSpace(),
		"cache":    h.checkCache(),
	}

	overall := statusHealthy
	for _, c := range checks {
		if c.Status == statusUnhealthy {
			overall = statusUnhealthy
			break
		}
		if c.Status == statusDegraded {
			overall = statusDegraded
		}
	}

	code := http.StatusOK
	if overall == statusUnhealthy {
		code = http.StatusServiceUnavailable
	}

	resp := HealthStatus{Status: overall, Timestamp: h.now().UTC()}
	if h.isAdminRequest(r) {
		info := version.Get()
		resp.Uptime = time.Since(h.startTime).Round(time.Second).String()
		resp.Version = &info
		resp.Checks = checks
	}
	WriteJSON(w, code, Response{Data: resp})
}

// isAdminRequest reports whether the request carries a live admin token.
// Health is public, so no error is written when it does not.
func (h *Handler) isAdminRequest(r *http.Request) bool {
	raw := middleware.BearerToken(r)
	if raw == "" || h.issuer == nil {
		return false
	}
	_, err := h.issuer.Verify(raw)
	return err == nil
}

func (h *Handler) checkDatabase(ctx context.Context) Check {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	err := h.db.PingContext(ctx)
	latency := time.Since(start)

	if err != nil {
		return Check{Status: statusUnhealthy, Message: err.Error(), Latency: latency.String()}
	}
	return Check{Status: statusHealthy, Message: "Connected", Latency: latency.String()}
}

// checkDiskSpace checks available disk space in the uploads directory.
func (h *Handler) checkDiskSpace() Check {
	dir := h.media.UploadDir()
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return Check{Status: statusHealthy, Message: "Uploads directory does not exist yet"}
	}

	var stat syscall.Statfs_t
	if err := syscall.Statfs(dir, &stat); err != nil {
		return Check{Status: statusUnhealthy, Message: "Failed to check disk space: " + err.Error()}
	}

	available := stat.Bavail * uint64(stat.Bsize)
	if available < minFreeSpace {
		return Check{Status: statusDegraded, Message: "Low disk space: " + formatBytes(available) + " available"}
	}
	return Check{Status: statusHealthy, Message: formatBytes(available) + " available"}
}

// checkCache reports the hit rate. A failing Redis never makes the API
// unhealthy since reads fall through to the database.
func (h *Handler) checkCache() Check {
	sp, ok := h.cache.(cache.StatsProvider)
	if !ok {
		return Check{Status: statusHealthy}
	}
	stats := sp.Stats()
	return Check{
		Status:  statusHealthy,
		Message: fmt.Sprintf("%d items, %.0f%% hit rate", stats.Items, stats.HitRate),
	}
}

func formatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
