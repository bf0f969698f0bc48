package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/yzchen14/GUITest/cache"
	"github.com/yzchen14/GUITest/config"
	"github.com/yzchen14/GUITest/db"
	"github.com/yzchen14/GUITest/gateway"
	"github.com/yzchen14/GUITest/handlers"
	memcache "github.com/yzchen14/GUITest/pkg/cache"
	"github.com/yzchen14/GUITest/pkg/logging"
	"github.com/yzchen14/GUITest/pkg/template"
	"github.com/yzchen14/GUITest/services"
	"github.com/yzchen14/GUITest/view"
)

type Services struct {
	Store    services.NoteStore
	Notes    *services.NoteService
	Template *template.Renderer
	Gateway  *gateway.Client
	View     *view.View
	Server   *http.Server

	closers []func() error
}

func (s *Services) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		_ = s.closers[i]()
	}
}

// setupStore picks Postgres when DATABASE_URL is set, memory otherwise.
func setupStore(ctx context.Context, cfg *config.Config, log zerolog.Logger, s *Services) error {
	if cfg.Database.URL == "" {
		log.Info().Msg("💡 DATABASE_URL not set, keeping notes in memory")
		s.Store = db.NewMemoryStore()
		return nil
	}

	log.Info().Msg("🗄️ Initializing database...")
	database, err := db.Connect(ctx, cfg.Database.URL, logging.Component(log, "db"))
	if err != nil {
		return err
	}
	s.closers = append(s.closers, database.Close)

	if err := database.Migrate(ctx); err != nil {
		return err
	}
	s.Store = database
	return nil
}

func setupCache(ctx context.Context, cfg *config.Config, log zerolog.Logger, s *Services) services.NotesCache {
	if !cfg.Redis.Enabled() {
		log.Info().Msg("💡 REDIS_HOST not set, using in-process notes cache")
		return memcache.New()
	}

	r := cache.NewRedis(ctx, cfg.Redis, logging.Component(log, "redis"))
	s.closers = append(s.closers, r.Close)
	if !r.Enabled() {
		return memcache.New()
	}
	return r
}

func setupServices(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Services, error) {
	s := &Services{}

	if err := setupStore(ctx, cfg, log, s); err != nil {
		s.Close()
		return nil, err
	}
	notesCache := setupCache(ctx, cfg, log, s)
	s.Notes = services.NewNoteService(s.Store, notesCache, logging.Component(log, "notes"))

	renderer, err := template.NewRenderer()
	if err != nil {
		s.Close()
		return nil, err
	}
	s.Template = renderer

	s.Gateway = gateway.NewClient(cfg.Gateway.URL, cfg.Gateway.Timeout)
	s.View = view.New(s.Gateway, logging.Component(log, "view"))

	log.Info().Msg("🛣️ Setting up routes...")
	router := handlers.Router{
		API:     handlers.NewAPIHandler(s.Notes, cfg.Gateway.Greeting),
		Page:    handlers.NewPageHandler(s.View, s.Template),
		Limiter: handlers.NewRateLimiter(cfg.Limits.DataPerMinute, cfg.Limits.ViewPerMinute),
		Log:     logging.Component(log, "http"),

		AllowedOrigins: cfg.Gateway.AllowedOrigins,
	}

	s.Server = &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s, nil
}
