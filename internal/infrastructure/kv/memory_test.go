package kv

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_SetGetDelete(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", "v", time.Minute))
	v, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	require.NoError(t, m.Delete(ctx, "k"))
	_, err = m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_GetMissing(t *testing.T) {
	m := NewMemory()
	_, err := m.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_ExpiryIsLazy(t *testing.T) {
	now := time.Now()
	m := NewMemoryWithClock(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", "v", time.Minute))

	now = now.Add(61 * time.Second)
	_, err := m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_ExpiryBoundary(t *testing.T) {
	now := time.Now()
	m := NewMemoryWithClock(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", "v", time.Minute))

	// Exactly at the expiry instant the entry is already gone.
	now = now.Add(time.Minute)
	_, err := m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_IncrementStartsWindowOnce(t *testing.T) {
	now := time.Now()
	m := NewMemoryWithClock(func() time.Time { return now })
	ctx := context.Background()

	n, err := m.Increment(ctx, "ctr", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// A later hit must not extend the window.
	now = now.Add(50 * time.Second)
	n, err = m.Increment(ctx, "ctr", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	now = now.Add(11 * time.Second) // 61s past creation
	n, err = m.Increment(ctx, "ctr", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "expired counter restarts at 1")
}
