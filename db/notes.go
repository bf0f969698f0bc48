package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/yzchen14/GUITest/models"
)

func (d *Database) InsertNote(ctx context.Context, note models.Note) error {
	_, err := d.DB.ExecContext(ctx, InsertNoteQuery, note.ID, []byte(note.Payload), note.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}

func (d *Database) RecentNotes(ctx context.Context, limit, offset int) ([]models.Note, error) {
	rows, err := d.DB.QueryContext(ctx, RecentNotesQuery, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	notes := []models.Note{}
	for rows.Next() {
		var (
			note    models.Note
			payload []byte
		)
		if err := rows.Scan(&note.ID, &payload, &note.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		note.Payload = json.RawMessage(payload)
		note.CreatedAt = note.CreatedAt.UTC()
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notes: %w", err)
	}
	return notes, nil
}

func (d *Database) CountNotes(ctx context.Context) (int64, error) {
	var n int64
	if err := d.DB.QueryRowContext(ctx, CountNotesQuery).Scan(&n); err != nil {
		return 0, fmt.Errorf("count notes: %w", err)
	}
	return n, nil
}
