package db

const (
	CreateNotesTableQuery = `
        CREATE TABLE IF NOT EXISTS notes (
            id         UUID PRIMARY KEY,
            payload    JSONB NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`

	NotesTableExistsQuery = `SELECT to_regclass('notes')::text`

	InsertNoteQuery = `
        INSERT INTO notes (id, payload, created_at)
        VALUES ($1, $2, $3)`

	// Newest first; id breaks ties so pages are stable.
	RecentNotesQuery = `
        SELECT id, payload, created_at
        FROM notes
        ORDER BY created_at DESC, id DESC
        LIMIT $1 OFFSET $2`

	CountNotesQuery = `SELECT COUNT(*) FROM notes`
)
