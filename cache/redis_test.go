package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/yzchen14/GUITest/models"
)

func TestRedis_DisabledWhenUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond})
	r := newRedis(ctx, client, zerolog.Nop())
	defer r.Close()

	require.False(t, r.Enabled())
	_, version, ok := r.GetNotesPage(ctx, "1:20")
	require.False(t, ok)
	r.SetNotesPage(ctx, version, "1:20", models.NotesPage{Total: 1})
	require.NoError(t, r.InvalidateNotes(ctx))
}

// Runs against a real Redis when TEST_REDIS_ADDR is set.
func TestRedis_PagesAndInvalidation(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	r := newRedis(ctx, redis.NewClient(&redis.Options{Addr: addr}), zerolog.Nop())
	defer r.Close()
	require.True(t, r.Enabled())

	page := models.NotesPage{Notes: []models.Note{}, Total: 7}
	_, version, _ := r.GetNotesPage(ctx, "test:1:20")
	r.SetNotesPage(ctx, version, "test:1:20", page)

	got, _, ok := r.GetNotesPage(ctx, "test:1:20")
	require.True(t, ok)
	require.Equal(t, page, got)

	require.NoError(t, r.InvalidateNotes(ctx))
	_, _, ok = r.GetNotesPage(ctx, "test:1:20")
	require.False(t, ok)

	// A fill stamped before the invalidation is never served.
	r.SetNotesPage(ctx, version, "test:1:20", page)
	_, _, ok = r.GetNotesPage(ctx, "test:1:20")
	require.False(t, ok)
}
