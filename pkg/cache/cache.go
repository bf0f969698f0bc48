package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/yzchen14/GUITest/models"
)

const (
	notesPrefix   = "notes:"
	NotesCacheTTL = 5 * time.Minute
)

type CacheItem struct {
	Value      interface{}
	Expiration time.Time
}

// Cache is an in-process TTL cache. It backs the notes listing when Redis
// is not configured.
type Cache struct {
	items map[string]CacheItem
	mu    sync.RWMutex
	now   func() time.Time

	// notesGen is bumped by InvalidateNotes; fills stamped with an older
	// generation are dropped.
	notesGen int64
}

func New() *Cache {
	return &Cache{
		items: make(map[string]CacheItem),
		now:   time.Now,
	}
}

func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, exists := c.items[key]
	if !exists || c.now().After(item.Expiration) {
		return nil, false
	}
	return item.Value, true
}

func (c *Cache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = CacheItem{
		Value:      value,
		Expiration: c.now().Add(ttl),
	}
}

// InvalidatePrefix drops every key starting with prefix, plus anything
// already expired.
func (c *Cache) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, item := range c.items {
		if strings.HasPrefix(k, prefix) || now.After(item.Expiration) {
			delete(c.items, k)
		}
	}
}

func (c *Cache) GetNotesPage(_ context.Context, key string) (models.NotesPage, int64, bool) {
	c.mu.RLock()
	gen := c.notesGen
	c.mu.RUnlock()

	v, ok := c.Get(notesPrefix + key)
	if !ok {
		return models.NotesPage{}, gen, false
	}
	page, ok := v.(models.NotesPage)
	return page, gen, ok
}

// SetNotesPage stores page only if no invalidation happened since version
// was handed out by GetNotesPage.
func (c *Cache) SetNotesPage(_ context.Context, version int64, key string, page models.NotesPage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if version != c.notesGen {
		return
	}
	c.items[notesPrefix+key] = CacheItem{
		Value:      page,
		Expiration: c.now().Add(NotesCacheTTL),
	}
}

func (c *Cache) InvalidateNotes(_ context.Context) error {
	c.mu.Lock()
	c.notesGen++
	c.mu.Unlock()

	c.InvalidatePrefix(notesPrefix)
	return nil
}
