package domain

import (
	"strings"
	"time"
)

const excerptLen = 50

type Note struct {
	ID        int64
	ProjectID int64
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type NoteInput struct {
	ProjectID int64  `json:"project_id" validate:"gt=0"`
	Title     string `json:"title" validate:"required,max=100"`
	Content   string `json:"content"`
}

func NewNote(in NoteInput) (*Note, error) {
	in.Title = strings.TrimSpace(in.Title)

	verr := NewValidationError("note")
	checkStruct(verr, in)
	if err := verr.Err(); err != nil {
		return nil, err
	}
	return &Note{ProjectID: in.ProjectID, Title: in.Title, Content: in.Content}, nil
}

var markdownMarkers = strings.NewReplacer("#", "", "*", "", "`", "")

// Excerpt returns the first characters of the content with markdown
// markers removed, ending in "..." when truncated.
func (n *Note) Excerpt() string {
	plain := []rune(markdownMarkers.Replace(n.Content))
	if len(plain) <= excerptLen {
		return string(plain)
	}
	return string(plain[:excerptLen]) + "..."
}
