package testutil

import (
	"time"

	"github.com/nodusapp/nodus/internal/domain"
)

// Project options
type ProjectOption func(*domain.Project)

func WithColor(c string) ProjectOption {
	return func(p *domain.Project) {
		p.Color = c
	}
}

func WithIcon(i string) ProjectOption {
	return func(p *domain.Project) {
		p.Icon = i
	}
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC().Truncate(time.Second)
	p := &domain.Project{
		Name:      name,
		Color:     domain.DefaultProjectColor,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Habit options
type HabitOption func(*domain.Habit)

func WithRule(rule string) HabitOption {
	return func(h *domain.Habit) {
		h.RecurrenceRule = rule
	}
}

func WithBeginAt(t time.Time) HabitOption {
	return func(h *domain.Habit) {
		h.BeginAt = t
	}
}

func WithHabitGoal(mode domain.CompletionMode, goal int) HabitOption {
	return func(h *domain.Habit) {
		h.CompletionMode = mode
		h.CountGoal = goal
	}
}

func WithDueMinutes(m int) HabitOption {
	return func(h *domain.Habit) {
		h.DueMinutes = &m
	}
}

func NewTestHabit(projectID int64, title string, opts ...HabitOption) *domain.Habit {
	now := time.Now().UTC().Truncate(time.Second)
	h := &domain.Habit{
		ProjectID:      projectID,
		Title:          title,
		CompletionMode: domain.CompletionByCount,
		CountGoal:      1,
		BeginAt:        now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Task options
type TaskOption func(*domain.Task)

func WithTaskGoal(mode domain.CompletionMode, goal int) TaskOption {
	return func(t *domain.Task) {
		t.CompletionMode = mode
		t.CountGoal = goal
	}
}

func WithTaskDueDate(d time.Time) TaskOption {
	return func(t *domain.Task) {
		t.DueDate = &d
	}
}

func WithHabitID(id int64) TaskOption {
	return func(t *domain.Task) {
		t.HabitID = &id
	}
}

func NewTestTask(projectID int64, title string, opts ...TaskOption) *domain.Task {
	now := time.Now().UTC().Truncate(time.Second)
	t := &domain.Task{
		ProjectID:      projectID,
		Title:          title,
		CompletionMode: domain.CompletionByCount,
		CountGoal:      1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewTestExecution builds a session on taskID. A zero end leaves it open.
func NewTestExecution(taskID int64, start, end time.Time) *domain.TaskExecution {
	e := &domain.TaskExecution{TaskID: taskID, StartTime: &start, CreatedAt: start, UpdatedAt: start}
	if !end.IsZero() {
		e.EndTime = &end
		e.UpdatedAt = end
	}
	return e
}

func NewTestFinance(projectID, currencyID int64, title string, amount float64) *domain.Finance {
	now := time.Now().UTC().Truncate(time.Second)
	return &domain.Finance{
		ProjectID:  projectID,
		Title:      title,
		Amount:     amount,
		CurrencyID: currencyID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func NewTestFinanceExecution(projectID, currencyID int64, date time.Time, amount float64) *domain.FinanceExecution {
	now := time.Now().UTC().Truncate(time.Second)
	return &domain.FinanceExecution{
		ProjectID:  projectID,
		Date:       date,
		Amount:     amount,
		CurrencyID: currencyID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func NewTestNote(projectID int64, title, content string) *domain.Note {
	now := time.Now().UTC().Truncate(time.Second)
	return &domain.Note{ProjectID: projectID, Title: title, Content: content, CreatedAt: now, UpdatedAt: now}
}
