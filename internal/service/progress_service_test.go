package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressStreakRules(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := NewProgressService(newMemBlobStore(), nil)

	day1 := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)

	// First ever access starts a streak of 1.
	progress, err := svc.Record(ctx, day1)
	require.NoError(t, err)
	assert.Equal(t, 1, progress.Streak)
	assert.Equal(t, "2026-03-01", progress.LastAccess)

	// Same-day access leaves the streak unchanged.
	progress, err = svc.Record(ctx, day1.Add(8*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, progress.Streak)

	// Next-day access extends it.
	progress, err = svc.Record(ctx, day1.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 2, progress.Streak)

	progress, err = svc.Record(ctx, day1.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.Equal(t, 3, progress.Streak)

	// A gap resets to 1.
	progress, err = svc.Record(ctx, day1.AddDate(0, 0, 10))
	require.NoError(t, err)
	assert.Equal(t, 1, progress.Streak)
	assert.Equal(t, "2026-03-11", progress.LastAccess)
}

func TestProgressCurrentDoesNotRegisterAccess(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := NewProgressService(newMemBlobStore(), nil)

	assert.Equal(t, 0, svc.Current(ctx).Streak)

	_, err := svc.Record(ctx, time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	current := svc.Current(ctx)
	assert.Equal(t, 1, current.Streak)
	assert.Equal(t, "2026-03-01", current.LastAccess)
}

func TestProgressPersistsAcrossInstances(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	blobs := newMemBlobStore()

	first := NewProgressService(blobs, nil)
	_, err := first.Record(ctx, time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	second := NewProgressService(blobs, nil)
	assert.Equal(t, 1, second.Current(ctx).Streak)
}
