package views

// PageView is what the index template renders.
type PageView struct {
	Title   string
	Message string
	Input   string

	// Confirmation is alerted on load when set; only used for plain form posts.
	Confirmation string
}

// NoteView is the CLI/JSON friendly projection of a stored note.
type NoteView struct {
	ID        string `json:"id"`
	Payload   string `json:"payload"`
	CreatedAt string `json:"created_at"`
}
