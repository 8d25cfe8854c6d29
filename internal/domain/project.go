package domain

import (
	"strings"
	"time"
)

const DefaultProjectColor = "#3498db"

type Project struct {
	ID        int64
	Name      string
	Color     string
	Icon      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ProjectInput struct {
	Name  string `json:"name" validate:"min=3"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
	Icon  string `json:"icon"`
}

// NewProject validates in and returns a project with defaults applied.
func NewProject(in ProjectInput) (*Project, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Color = strings.TrimSpace(in.Color)

	verr := NewValidationError("project")
	checkStruct(verr, in)
	if err := verr.Err(); err != nil {
		return nil, err
	}
	return &Project{
		Name:  in.Name,
		Color: CoalesceStr(in.Color, DefaultProjectColor),
		Icon:  strings.TrimSpace(in.Icon),
	}, nil
}
