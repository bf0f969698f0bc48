package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/yzchen14/GUITest/models"
	apperrors "github.com/yzchen14/GUITest/pkg/errors"
	"github.com/yzchen14/GUITest/pkg/views"
	"github.com/yzchen14/GUITest/services"
)

const maxPayloadBytes = 1 << 20

var (
	errNotObject    = errors.New("payload is not an object")
	errTrailingData = errors.New("trailing data after JSON object")
)

// APIHandler serves the JSON endpoints the view consumes.
type APIHandler struct {
	notes    *services.NoteService
	greeting string
}

func NewAPIHandler(notes *services.NoteService, greeting string) *APIHandler {
	return &APIHandler{notes: notes, greeting: greeting}
}

type helloResponse struct {
	Message string `json:"message"`
}

type receivedResponse struct {
	Received json.RawMessage `json:"received"`
}

func (h *APIHandler) Hello(w http.ResponseWriter, r *http.Request) {
	apperrors.WriteJSON(w, r, http.StatusOK, helloResponse{Message: h.greeting})
}

// ReceiveData accepts any JSON object, records it and echoes it back.
func (h *APIHandler) ReceiveData(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
	if err != nil {
		apperrors.HandleError(w, r, apperrors.New(apperrors.ErrValidation, "Request body too large or unreadable", err))
		return
	}

	payload, err := jsonObject(body)
	if err != nil {
		apperrors.HandleError(w, r, apperrors.New(apperrors.ErrUnprocessable, "Request body must be a JSON object", err))
		return
	}

	if _, err := h.notes.Record(r.Context(), payload); err != nil {
		apperrors.HandleError(w, r, err)
		return
	}

	apperrors.WriteJSON(w, r, http.StatusOK, receivedResponse{Received: payload})
}

func (h *APIHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	params := views.ParsePageParams(r.URL.Query())

	page, err := h.notes.Recent(r.Context(), params)
	if err != nil {
		apperrors.HandleError(w, r, err)
		return
	}

	items := page.Notes
	if items == nil {
		items = []models.Note{}
	}
	apperrors.WriteJSON(w, r, http.StatusOK, views.PaginatedResponse{
		Items: items,
		Pagination: views.Pagination{
			Page:       params.Page,
			PageSize:   params.PageSize,
			TotalItems: page.Total,
		},
	})
}

// jsonObject validates that body holds exactly one JSON object and returns
// it compacted.
func jsonObject(body []byte) (json.RawMessage, error) {
	var obj map[string]json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errNotObject
	}
	if dec.More() {
		return nil, errTrailingData
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, body); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
