package db

import (
	"context"
	"sort"
	"sync"

	"github.com/yzchen14/GUITest/models"
)

// MemoryStore keeps notes in process memory. It is used when no
// DATABASE_URL is configured and in tests.
type MemoryStore struct {
	mu    sync.RWMutex
	notes []models.Note
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) InsertNote(_ context.Context, note models.Note) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notes = append(m.notes, note)
	return nil
}

func (m *MemoryStore) RecentNotes(_ context.Context, limit, offset int) ([]models.Note, error) {
	m.mu.RLock()
	sorted := make([]models.Note, len(m.notes))
	copy(sorted, m.notes)
	m.mu.RUnlock()

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].ID.String() > sorted[j].ID.String()
		}
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	if offset >= len(sorted) {
		return []models.Note{}, nil
	}
	end := offset + limit
	if end > len(sorted) {
		end = len(sorted)
	}
	return sorted[offset:end], nil
}

func (m *MemoryStore) CountNotes(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.notes)), nil
}
