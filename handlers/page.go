package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/yzchen14/GUITest/pkg/template"
	"github.com/yzchen14/GUITest/pkg/views"
	"github.com/yzchen14/GUITest/view"
)

// PageHandler renders the single page and routes its form events into the
// view.
type PageHandler struct {
	view     *view.View
	renderer *template.Renderer
}

func NewPageHandler(v *view.View, r *template.Renderer) *PageHandler {
	return &PageHandler{view: v, renderer: r}
}

func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.view.Mount(r.Context())
	h.renderPage(w, r, "")
}

// Draft receives every keystroke from the text field.
func (h *PageHandler) Draft(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad form", http.StatusBadRequest)
		return
	}
	h.view.UpdateDraft(r.PostForm.Get("input"))
	w.WriteHeader(http.StatusNoContent)
}

// Submit sends the draft and answers in place; it never redirects.
func (h *PageHandler) Submit(w http.ResponseWriter, r *http.Request) {
	htmx := isHTMX(r)

	// The posted field wins over whatever the last keystroke stored.
	if err := r.ParseForm(); err == nil {
		if vals, ok := r.PostForm["input"]; ok && len(vals) > 0 {
			h.view.UpdateDraft(vals[0])
		}
	}

	n := &confirmation{}
	// Failures are already logged by the view and have no visible path.
	_ = h.view.Submit(r.Context(), n)

	if htmx {
		if n.msg != "" {
			setTrigger(w, "showConfirmation", n.msg)
		}
		state := h.view.Snapshot()
		if err := h.renderer.RenderPartial(w, "draft-form", views.ToPageView(state.Message, state.Input)); err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("❌ Error rendering form")
		}
		return
	}
	h.renderPage(w, r, n.msg)
}

func (h *PageHandler) renderPage(w http.ResponseWriter, r *http.Request, confirmation string) {
	state := h.view.Snapshot()
	page := views.ToPageView(state.Message, state.Input)
	page.Confirmation = confirmation

	if err := h.renderer.RenderPage(w, page); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("❌ Error rendering page")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// confirmation captures the view's alert for the current request.
type confirmation struct {
	msg string
}

func (c *confirmation) Alert(msg string) {
	c.msg = msg
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

func setTrigger(w http.ResponseWriter, event, value string) {
	b, err := json.Marshal(map[string]string{event: value})
	if err != nil {
		return
	}
	w.Header().Set("HX-Trigger", string(b))
}
