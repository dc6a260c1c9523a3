// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestProtection(t *testing.T, cfg LoginProtectionConfig) (*LoginProtection, *time.Time) {
	t.Helper()
	lp := NewLoginProtection(cfg)
	t.Cleanup(lp.Stop)

	now := time.Date(2026, 4, 5, 10, 0, 0, 0, time.UTC)
	lp.now = func() time.Time { return now }
	return lp, &now
}

func TestLoginProtection_LocksAfterMaxAttempts(t *testing.T) {
	lp, _ := newTestProtection(t, LoginProtectionConfig{MaxFailedAttempts: 3, LockoutDuration: time.Minute})

	for i := 0; i < 2; i++ {
		locked, _ := lp.RecordFailedAttempt("Rector@Parish.org")
		assert.False(t, locked)
	}
	assert.Equal(t, 1, lp.RemainingAttempts("rector@parish.org"))

	locked, d := lp.RecordFailedAttempt("rector@parish.org")
	assert.True(t, locked)
	assert.Equal(t, time.Minute, d)

	locked, remaining := lp.IsAccountLocked(" RECTOR@parish.org ")
	assert.True(t, locked)
	assert.Equal(t, time.Minute, remaining)
}

func TestLoginProtection_ExponentialBackoff(t *testing.T) {
	lp, now := newTestProtection(t, LoginProtectionConfig{MaxFailedAttempts: 2, LockoutDuration: time.Minute, AttemptWindow: time.Hour})

	var durations []time.Duration
	for round := 0; round < 3; round++ {
		lp.RecordFailedAttempt("a@parish.org")
		_, d := lp.RecordFailedAttempt("a@parish.org")
		durations = append(durations, d)
		*now = now.Add(d + time.Second)
	}
	assert.Equal(t, []time.Duration{time.Minute, 2 * time.Minute, 4 * time.Minute}, durations)
}

func TestLoginProtection_WindowResetsAndSuccessClears(t *testing.T) {
	lp, now := newTestProtection(t, LoginProtectionConfig{MaxFailedAttempts: 2, AttemptWindow: time.Minute})

	lp.RecordFailedAttempt("a@parish.org")
	*now = now.Add(2 * time.Minute)
	locked, _ := lp.RecordFailedAttempt("a@parish.org")
	assert.False(t, locked, "attempt outside the window starts a new count")

	lp.RecordSuccessfulLogin("a@parish.org")
	assert.Equal(t, 2, lp.RemainingAttempts("a@parish.org"))

	locked, _ = lp.IsAccountLocked("unknown@parish.org")
	assert.False(t, locked)
}

func TestLoginProtection_CleanupStaleEntries(t *testing.T) {
	lp, now := newTestProtection(t, LoginProtectionConfig{AttemptWindow: time.Minute})

	lp.RecordFailedAttempt("a@parish.org")
	*now = now.Add(time.Hour)
	lp.cleanupStaleEntries()

	lp.attemptsMu.RLock()
	defer lp.attemptsMu.RUnlock()
	assert.Empty(t, lp.failedAttempts)
}

func TestLoginProtection_Middleware(t *testing.T) {
	lp, _ := newTestProtection(t, LoginProtectionConfig{IPRateLimit: 0.001, IPBurst: 2})
	handler := lp.Middleware()(simpleOKHandler)

	post := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/login", nil)
		req.RemoteAddr = ip + ":5555"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, post("10.0.0.1"))
	assert.Equal(t, http.StatusOK, post("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, post("10.0.0.1"))
	assert.Equal(t, http.StatusOK, post("10.0.0.2"), "limits are per IP")

	req := httptest.NewRequest(http.MethodGet, "/api/admin/login", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code, "only POST is limited")
}
