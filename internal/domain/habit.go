package domain

import (
	"strings"
	"time"

	"github.com/nodusapp/nodus/internal/recurrence"
)

type Habit struct {
	ID             int64
	ProjectID      int64
	Title          string
	IsStrict       bool
	CompletionMode CompletionMode
	CountGoal      int
	DueMinutes     *int
	BeginAt        time.Time
	RecurrenceRule string
	Location       Location
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type HabitInput struct {
	ProjectID      int64          `json:"project_id" validate:"gt=0"`
	Title          string         `json:"title" validate:"required"`
	IsStrict       bool           `json:"is_strict"`
	CompletionMode CompletionMode `json:"completion_mode" validate:"omitempty,oneof=1 2"`
	CountGoal      *int           `json:"count_goal" validate:"omitempty,gt=0"`
	DueMinutes     *int           `json:"due_minutes" validate:"omitempty,gt=0"`
	BeginAt        *time.Time     `json:"begin_at"`
	RecurrenceRule string         `json:"recurrence_rule"`
	Location       Location       `json:"location"`
}

// NewHabit validates in and returns a habit with defaults applied. A
// non-empty recurrence rule must parse and is stored in canonical form.
func NewHabit(in HabitInput) (*Habit, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.RecurrenceRule = strings.TrimSpace(in.RecurrenceRule)
	in.Location = in.Location.normalized()

	verr := NewValidationError("habit")
	checkStruct(verr, in)
	in.Location.check(verr)

	rule := ""
	if in.RecurrenceRule != "" {
		r, err := recurrence.Parse(in.RecurrenceRule)
		if err != nil {
			verr.Add("recurrence_rule: %v", err)
		} else {
			rule = r.String()
		}
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	mode := in.CompletionMode
	if mode == 0 {
		mode = CompletionByCount
	}
	return &Habit{
		ProjectID:      in.ProjectID,
		Title:          in.Title,
		IsStrict:       in.IsStrict,
		CompletionMode: mode,
		CountGoal:      ValueOr(1, in.CountGoal),
		DueMinutes:     in.DueMinutes,
		BeginAt:        ValueOr(time.Now().UTC(), in.BeginAt),
		RecurrenceRule: rule,
		Location:       in.Location,
	}, nil
}

// Recurring reports whether the habit carries a recurrence rule.
func (h *Habit) Recurring() bool {
	return h.RecurrenceRule != ""
}
