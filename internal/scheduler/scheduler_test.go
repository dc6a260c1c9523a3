// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/parish-go/internal/cache"
	"github.com/olegiv/parish-go/internal/model"
	"github.com/olegiv/parish-go/internal/store"
	"github.com/olegiv/parish-go/internal/testutil"
)

func TestScheduler_StartStop(t *testing.T) {
	db := testutil.TestDB(t)

	s := New(db, nil, Config{ReadingsRetentionDays: 30}, testutil.TestLoggerSilent())
	require.NoError(t, s.Start())
	assert.Len(t, s.Jobs(), 2)
	s.Stop()

	disabled := New(db, nil, Config{}, testutil.TestLoggerSilent())
	require.NoError(t, disabled.Start())
	assert.Len(t, disabled.Jobs(), 1, "readings job is skipped when retention is zero")
	disabled.Stop()
}

func TestPruneReadings(t *testing.T) {
	db := testutil.TestDB(t)
	ctx := context.Background()
	q := store.New(db)
	now := time.Date(2026, 5, 10, 3, 0, 0, 0, time.UTC)

	for _, date := range []string{"2026-01-01", "2026-04-09", "2026-04-10", "2026-05-10"} {
		_, err := q.CreateReading(ctx, store.ReadingParams{Date: date, Title: "Reading " + date, Now: now})
		require.NoError(t, err)
	}

	mc := cache.NewMemoryCache(time.Minute, 0)
	require.NoError(t, mc.Set(ctx, cache.ReadingsDateKey("2026-05-10"), []byte("[]"), 0))
	require.NoError(t, mc.Set(ctx, cache.PageContentKey("donate"), []byte("{}"), 0))

	s := New(db, mc, Config{ReadingsRetentionDays: 30}, testutil.TestLoggerSilent())
	s.now = func() time.Time { return now }

	removed, err := s.PruneReadings(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	readings, err := q.ListReadings(ctx)
	require.NoError(t, err)
	require.Len(t, readings, 2)
	assert.Equal(t, "2026-05-10", readings[0].Date)
	assert.Equal(t, "2026-04-10", readings[1].Date)

	_, err = mc.Get(ctx, cache.ReadingsDateKey("2026-05-10"))
	assert.ErrorIs(t, err, cache.ErrCacheMiss, "readings cache is invalidated")
	_, err = mc.Get(ctx, cache.PageContentKey("donate"))
	assert.NoError(t, err, "other keys survive")

	events, err := q.ListEventLog(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, model.LogCategoryScheduler, events[0].Category)

	removed, err = s.PruneReadings(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestPruneEventLog(t *testing.T) {
	db := testutil.TestDB(t)
	ctx := context.Background()
	q := store.New(db)
	now := time.Date(2026, 5, 10, 3, 0, 0, 0, time.UTC)

	for _, age := range []time.Duration{200 * 24 * time.Hour, 24 * time.Hour} {
		_, err := q.CreateEventLog(ctx, store.CreateEventLogParams{
			Level:     model.LogLevelWarning,
			Category:  model.LogCategorySystem,
			Message:   "disk almost full",
			Metadata:  "{}",
			CreatedAt: now.Add(-age),
		})
		require.NoError(t, err)
	}

	s := New(db, nil, Config{}, testutil.TestLoggerSilent())
	s.now = func() time.Time { return now }

	removed, err := s.PruneEventLog(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
}
