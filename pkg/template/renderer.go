package template

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

type Renderer struct {
	templates *template.Template
}

// NewRenderer parses every embedded template.
func NewRenderer() (*Renderer, error) {
	t, err := template.New("").ParseFS(templateFS, "templates/*.html", "templates/components/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{templates: t}, nil
}

// Render executes name into a buffer first so a failing template never
// leaves a half-written response.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data interface{}) error {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

func (r *Renderer) RenderPage(w http.ResponseWriter, data interface{}) error {
	return r.Render(w, http.StatusOK, "layout", data)
}

func (r *Renderer) RenderPartial(w http.ResponseWriter, name string, data interface{}) error {
	return r.Render(w, http.StatusOK, name, data)
}

// Static serves the embedded stylesheet and friends.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
