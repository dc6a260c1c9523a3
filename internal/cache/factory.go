// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"log/slog"
	"time"
)

// Config selects and tunes a cache backend.
type Config struct {
	RedisURL   string
	Prefix     string
	DefaultTTL time.Duration
}

// Backend names reported by New.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// New returns a Redis cache when RedisURL is set and reachable, otherwise a
// memory cache. A Redis failure is logged and never fatal.
func New(cfg Config, logger *slog.Logger) (Cacher, string) {
	if logger == nil {
		logger = slog.Default()
	}
	ttl := cfg.DefaultTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	if cfg.RedisURL != "" {
		opts := DefaultRedisOptions()
		opts.URL = cfg.RedisURL
		opts.DefaultTTL = ttl
		if cfg.Prefix != "" {
			opts.Prefix = cfg.Prefix
		}

		rc, err := NewRedisCache(opts)
		if err == nil {
			return rc, BackendRedis
		}
		logger.Warn("redis cache unavailable, using memory cache", "error", err)
	}

	return NewMemoryCache(ttl, time.Minute), BackendMemory
}
