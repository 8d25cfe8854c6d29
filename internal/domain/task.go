package domain

import (
	"strings"
	"time"
)

type Task struct {
	ID             int64
	ProjectID      int64
	HabitID        *int64
	Title          string
	DueDate        *time.Time
	CompletionMode CompletionMode
	CountGoal      int
	Location       Location
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type TaskInput struct {
	ProjectID      int64          `json:"project_id" validate:"gt=0"`
	HabitID        *int64         `json:"habit_id" validate:"omitempty,gt=0"`
	Title          string         `json:"title" validate:"required"`
	DueDate        *time.Time     `json:"due_date"`
	CompletionMode CompletionMode `json:"completion_mode" validate:"omitempty,oneof=1 2"`
	CountGoal      *int           `json:"count_goal" validate:"omitempty,gt=0"`
	Location       Location       `json:"location"`
}

func NewTask(in TaskInput) (*Task, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Location = in.Location.normalized()

	verr := NewValidationError("task")
	checkStruct(verr, in)
	in.Location.check(verr)
	if err := verr.Err(); err != nil {
		return nil, err
	}

	mode := in.CompletionMode
	if mode == 0 {
		mode = CompletionByCount
	}
	return &Task{
		ProjectID:      in.ProjectID,
		HabitID:        in.HabitID,
		Title:          in.Title,
		DueDate:        in.DueDate,
		CompletionMode: mode,
		CountGoal:      ValueOr(1, in.CountGoal),
		Location:       in.Location,
	}, nil
}

// IsOverdue reports whether the task had a due date before now.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now)
}
