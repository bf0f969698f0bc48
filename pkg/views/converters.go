package views

import (
	"time"

	"github.com/yzchen14/GUITest/models"
)

const AppTitle = "GUITest: Go + JSON gateway"

func ToNoteViews(notes []models.Note) []NoteView {
	out := make([]NoteView, len(notes))
	for i, n := range notes {
		out[i] = NoteView{
			ID:        n.ID.String(),
			Payload:   string(n.Payload),
			CreatedAt: n.CreatedAt.Format(time.RFC3339),
		}
	}
	return out
}

func ToPageView(message, input string) PageView {
	return PageView{
		Title:   AppTitle,
		Message: message,
		Input:   input,
	}
}
