package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Note is one payload received on the data endpoint.
type Note struct {
	ID        uuid.UUID       `json:"id"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

func NewNote(payload json.RawMessage, now time.Time) Note {
	return Note{
		ID:        uuid.New(),
		Payload:   payload,
		CreatedAt: now.UTC(),
	}
}

// NotesPage is one page of notes plus the total count at read time.
type NotesPage struct {
	Notes []Note `json:"notes"`
	Total int64  `json:"total"`
}
