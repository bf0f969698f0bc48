package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yzchen14/GUITest/models"
)

func TestCache_TTL(t *testing.T) {
	c := New()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.SetWithTTL("k", "v", time.Minute)
	v, ok := c.Get("k")
	require.True(t, ok)
	require.Equal(t, "v", v)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get("k")
	require.False(t, ok)
}

func TestCache_NotesPages(t *testing.T) {
	ctx := context.Background()
	c := New()
	c.SetWithTTL("other", 1, time.Hour)

	_, version, ok := c.GetNotesPage(ctx, "1:20")
	require.False(t, ok)

	page := models.NotesPage{Total: 3}
	c.SetNotesPage(ctx, version, "1:20", page)

	got, _, ok := c.GetNotesPage(ctx, "1:20")
	require.True(t, ok)
	require.Equal(t, page, got)

	require.NoError(t, c.InvalidateNotes(ctx))
	_, _, ok = c.GetNotesPage(ctx, "1:20")
	require.False(t, ok)

	_, ok = c.Get("other")
	require.True(t, ok, "unrelated keys survive notes invalidation")
}

func TestCache_FillAcrossInvalidationDropped(t *testing.T) {
	ctx := context.Background()
	c := New()

	_, version, ok := c.GetNotesPage(ctx, "1:20")
	require.False(t, ok)

	require.NoError(t, c.InvalidateNotes(ctx))
	c.SetNotesPage(ctx, version, "1:20", models.NotesPage{Total: 0})

	_, fresh, ok := c.GetNotesPage(ctx, "1:20")
	require.False(t, ok)
	require.NotEqual(t, version, fresh)
}
