package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/yzchen14/GUITest/models"
	"github.com/yzchen14/GUITest/pkg/views"
)

type NoteStore interface {
	InsertNote(ctx context.Context, note models.Note) error
	RecentNotes(ctx context.Context, limit, offset int) ([]models.Note, error)
	CountNotes(ctx context.Context) (int64, error)
}

// NotesCache hands out a version with every lookup. SetNotesPage must drop
// the page when an invalidation happened after that version was read.
type NotesCache interface {
	GetNotesPage(ctx context.Context, key string) (models.NotesPage, int64, bool)
	SetNotesPage(ctx context.Context, version int64, key string, page models.NotesPage)
	InvalidateNotes(ctx context.Context) error
}

type NoteService struct {
	store NoteStore
	cache NotesCache
	log   zerolog.Logger
	group singleflight.Group
	now   func() time.Time
}

func NewNoteService(store NoteStore, cache NotesCache, log zerolog.Logger) *NoteService {
	return &NoteService{
		store: store,
		cache: cache,
		log:   log,
		now:   time.Now,
	}
}

// Record stores payload as a new note and invalidates cached listings.
func (s *NoteService) Record(ctx context.Context, payload json.RawMessage) (models.Note, error) {
	note := models.NewNote(payload, s.now())
	if err := s.store.InsertNote(ctx, note); err != nil {
		return models.Note{}, fmt.Errorf("record note: %w", err)
	}

	if err := s.cache.InvalidateNotes(ctx); err != nil {
		s.log.Warn().Err(err).Msg("Failed to invalidate notes cache")
	}
	s.log.Debug().Str("id", note.ID.String()).Msg("📝 Note recorded")
	return note, nil
}

// Recent returns one page of notes, newest first. Concurrent cache misses
// for the same page and cache version share a single store read.
func (s *NoteService) Recent(ctx context.Context, p views.PageParams) (models.NotesPage, error) {
	key := fmt.Sprintf("%d:%d", p.Page, p.PageSize)
	page, version, ok := s.cache.GetNotesPage(ctx, key)
	if ok {
		return page, nil
	}

	// The flight outlives any single caller's cancellation.
	flightCtx := context.WithoutCancel(ctx)
	v, err, shared := s.group.Do(fmt.Sprintf("%s@%d", key, version), func() (interface{}, error) {
		notes, err := s.store.RecentNotes(flightCtx, p.PageSize, p.Offset())
		if err != nil {
			return nil, err
		}
		total, err := s.store.CountNotes(flightCtx)
		if err != nil {
			return nil, err
		}
		page := models.NotesPage{Notes: notes, Total: total}
		s.cache.SetNotesPage(flightCtx, version, key, page)
		return page, nil
	})
	if err != nil {
		return models.NotesPage{}, fmt.Errorf("fetch notes: %w", err)
	}
	if shared {
		s.log.Debug().Str("key", key).Msg("notes read shared with concurrent request")
	}
	return v.(models.NotesPage), nil
}
