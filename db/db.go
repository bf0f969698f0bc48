package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
)

const (
	connectAttempts = 3
	retryDelay      = 2 * time.Second
)

// Database wraps the Postgres pool backing the notes store.
type Database struct {
	DB  *sql.DB
	log zerolog.Logger
}

// Connect opens a Postgres pool, retrying a few times before giving up.
func Connect(ctx context.Context, url string, log zerolog.Logger) (*Database, error) {
	var lastErr error
	for i := 0; i < connectAttempts; i++ {
		log.Info().Msgf("🔄 Database connection attempt %d/%d...", i+1, connectAttempts)

		db, err := open(ctx, url)
		if err == nil {
			log.Info().Msg("✅ Successfully connected to database!")
			return &Database{DB: db, log: log}, nil
		}
		lastErr = err
		log.Warn().Err(err).Msgf("❌ Connection attempt %d failed", i+1)

		if i == connectAttempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}
	return nil, fmt.Errorf("connect to database after %d attempts: %w", connectAttempts, lastErr)
}

func open(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)
	return db, nil
}

// Migrate creates the notes table when missing and then verifies it is
// visible to this connection.
func (d *Database) Migrate(ctx context.Context) error {
	if _, err := d.DB.ExecContext(ctx, CreateNotesTableQuery); err != nil {
		return fmt.Errorf("create notes table: %w", err)
	}

	var name sql.NullString
	if err := d.DB.QueryRowContext(ctx, NotesTableExistsQuery).Scan(&name); err != nil {
		return fmt.Errorf("check notes table: %w", err)
	}
	if !name.Valid {
		return fmt.Errorf("notes table does not exist")
	}
	d.log.Info().Msg("✅ notes table exists!")
	return nil
}

func (d *Database) Close() error {
	return d.DB.Close()
}
