package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/yzchen14/GUITest/pkg/template"
)

type Router struct {
	API            *APIHandler
	Page           *PageHandler
	Limiter        *RateLimiter
	AllowedOrigins []string
	Log            zerolog.Logger
}

func (rt Router) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("GET /api/hello", rt.API.Hello)
	api.HandleFunc("POST /api/data", rt.Limiter.DataLimit.RateLimit(rt.API.ReceiveData))
	api.HandleFunc("GET /api/notes", rt.Limiter.ViewLimit.RateLimit(rt.API.ListNotes))

	mux := http.NewServeMux()
	mux.Handle("/api/", corsMiddleware(rt.AllowedOrigins, api))

	// Page and its form events
	mux.HandleFunc("GET /{$}", rt.Limiter.ViewLimit.RateLimit(rt.Page.Index))
	mux.HandleFunc("POST /draft", rt.Limiter.ViewLimit.RateLimit(rt.Page.Draft))
	mux.HandleFunc("POST /submit", rt.Limiter.SubmitLimit.RateLimit(rt.Page.Submit))

	mux.Handle("GET /static/", http.StripPrefix("/static/", template.Static()))

	return logRequests(rt.Log, recoverMiddleware(mux))
}
