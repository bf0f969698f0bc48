package db

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/yzchen14/GUITest/models"
)

// Runs against a real Postgres when TEST_DATABASE_URL is set.
func TestDatabase_Notes(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	d, err := Connect(ctx, url, zerolog.Nop())
	require.NoError(t, err)
	defer d.Close()

	require.NoError(t, d.Migrate(ctx))

	before, err := d.CountNotes(ctx)
	require.NoError(t, err)

	note := models.NewNote(json.RawMessage(`{"data":"from test"}`), time.Now().Add(time.Hour))
	require.NoError(t, d.InsertNote(ctx, note))

	after, err := d.CountNotes(ctx)
	require.NoError(t, err)
	require.Equal(t, before+1, after)

	recent, err := d.RecentNotes(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	require.Equal(t, note.ID, recent[0].ID)
	require.JSONEq(t, `{"data":"from test"}`, string(recent[0].Payload))

	_, err = d.DB.ExecContext(ctx, `DELETE FROM notes WHERE id = $1`, note.ID)
	require.NoError(t, err)
}
