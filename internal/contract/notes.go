package contract

import "time"

type NoteSummary struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"project_id"`
	Title     string    `json:"title"`
	Excerpt   string    `json:"excerpt"`
	UpdatedAt time.Time `json:"updated_at"`
}

type NotePage struct {
	Notes []NoteSummary `json:"notes"`
	Page
}
