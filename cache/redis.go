package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/yzchen14/GUITest/config"
	"github.com/yzchen14/GUITest/models"
)

const (
	NOTES_CACHE_DURATION = 5 * time.Minute

	notesGenerationKey = "notes:gen"
)

// Redis caches pages of the notes listing. Invalidation bumps a generation
// counter so stale pages simply stop being addressed and age out.
type Redis struct {
	client  *redis.Client
	enabled bool
	log     zerolog.Logger
}

// NewRedis connects and pings. A failed ping leaves the cache disabled
// rather than failing startup.
func NewRedis(ctx context.Context, cfg config.RedisConfig, log zerolog.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Username: cfg.Username,
		Password: cfg.Password,
	})
	return newRedis(ctx, client, log)
}

func newRedis(ctx context.Context, client *redis.Client, log zerolog.Logger) *Redis {
	r := &Redis{client: client, log: log}
	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Warn().Err(err).Msg("❌ Redis connection failed, notes cache disabled")
		return r
	}
	r.enabled = true
	log.Info().Msg("✅ Redis connected successfully")
	return r
}

func (r *Redis) Enabled() bool {
	return r.enabled
}

func (r *Redis) generation(ctx context.Context) (int64, error) {
	gen, err := r.client.Get(ctx, notesGenerationKey).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return gen, err
}

func (r *Redis) pageKey(gen int64, key string) string {
	return fmt.Sprintf("notes:v%d:%s", gen, key)
}

// GetNotesPage also returns the generation it looked under, which the
// caller hands back to SetNotesPage. A version of -1 means the generation
// could not be read and the fill is skipped.
func (r *Redis) GetNotesPage(ctx context.Context, key string) (models.NotesPage, int64, bool) {
	if !r.enabled {
		return models.NotesPage{}, -1, false
	}

	gen, err := r.generation(ctx)
	if err != nil {
		r.log.Warn().Err(err).Msg("notes generation lookup failed")
		return models.NotesPage{}, -1, false
	}

	data, err := r.client.Get(ctx, r.pageKey(gen, key)).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.log.Warn().Err(err).Str("key", key).Msg("notes cache get failed")
		}
		r.log.Debug().Str("key", key).Msg("❌ Cache MISS for notes page")
		return models.NotesPage{}, gen, false
	}

	var page models.NotesPage
	if err := json.Unmarshal(data, &page); err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("notes cache entry unreadable")
		return models.NotesPage{}, gen, false
	}
	r.log.Debug().Str("key", key).Msg("✅ Cache HIT for notes page")
	return page, gen, true
}

// SetNotesPage writes under the generation read before the store query, so
// a page filled across an invalidation lands on a key nobody reads.
func (r *Redis) SetNotesPage(ctx context.Context, version int64, key string, page models.NotesPage) {
	if !r.enabled || version < 0 {
		return
	}

	data, err := json.Marshal(page)
	if err != nil {
		r.log.Warn().Err(err).Msg("notes page not cacheable")
		return
	}
	if err := r.client.Set(ctx, r.pageKey(version, key), data, NOTES_CACHE_DURATION).Err(); err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("Failed to cache notes page")
	}
}

func (r *Redis) InvalidateNotes(ctx context.Context) error {
	if !r.enabled {
		return nil
	}
	return r.client.Incr(ctx, notesGenerationKey).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}
