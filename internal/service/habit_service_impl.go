package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/nodusapp/nodus/internal/contract"
	"github.com/nodusapp/nodus/internal/db"
	"github.com/nodusapp/nodus/internal/domain"
	"github.com/nodusapp/nodus/internal/events"
	"github.com/nodusapp/nodus/internal/recurrence"
	"github.com/nodusapp/nodus/internal/repository"
)

type habitService struct {
	habits   repository.HabitRepo
	projects repository.ProjectRepo
	uow      db.UnitOfWork
	rules    *recurrence.Cache
	events   events.Publisher
	limit    int
	now      clock
}

// NewHabitService builds the habit use cases. occurrenceLimit caps
// Occurrences when the caller passes no limit.
func NewHabitService(
	habits repository.HabitRepo,
	projects repository.ProjectRepo,
	uow db.UnitOfWork,
	rules *recurrence.Cache,
	publisher events.Publisher,
	occurrenceLimit int,
) HabitService {
	return &habitService{
		habits:   habits,
		projects: projects,
		uow:      uow,
		rules:    rules,
		events:   publisher,
		limit:    occurrenceLimit,
		now:      systemClock,
	}
}

func (s *habitService) Create(ctx context.Context, in domain.HabitInput) (*domain.Habit, error) {
	h, err := domain.NewHabit(in)
	if err != nil {
		return nil, err
	}
	if _, err := s.projects.GetByID(ctx, h.ProjectID); err != nil {
		return nil, err
	}

	now := s.now()
	if in.BeginAt == nil {
		h.BeginAt = now
	}
	h.BeginAt = h.BeginAt.UTC()
	h.CreatedAt, h.UpdatedAt = now, now
	if err := s.habits.Create(ctx, h); err != nil {
		return nil, err
	}

	s.publish(ctx, h)
	return h, nil
}

func (s *habitService) GetByID(ctx context.Context, id int64) (*domain.Habit, error) {
	return s.habits.GetByID(ctx, id)
}

func (s *habitService) ListByProject(ctx context.Context, projectID int64) ([]*domain.Habit, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	return s.habits.ListByProject(ctx, projectID)
}

func (s *habitService) Update(ctx context.Context, id int64, in domain.HabitInput) (*domain.Habit, error) {
	existing, err := s.habits.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	h, err := domain.NewHabit(in)
	if err != nil {
		return nil, err
	}
	if h.ProjectID != existing.ProjectID {
		if _, err := s.projects.GetByID(ctx, h.ProjectID); err != nil {
			return nil, err
		}
	}

	h.ID = existing.ID
	h.CreatedAt = existing.CreatedAt
	if in.BeginAt == nil {
		h.BeginAt = existing.BeginAt
	}
	h.BeginAt = h.BeginAt.UTC()
	h.UpdatedAt = s.now()
	if err := s.habits.Update(ctx, h); err != nil {
		return nil, err
	}

	s.publish(ctx, h)
	return h, nil
}

func (s *habitService) Delete(ctx context.Context, id int64) error {
	h, err := s.habits.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.habits.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, h)
	return nil
}

func (s *habitService) rule(h *domain.Habit) (recurrence.Rule, error) {
	r, err := s.rules.Parse(h.RecurrenceRule)
	if err != nil {
		return recurrence.Rule{}, fmt.Errorf("habit %d: %w", h.ID, err)
	}
	return r, nil
}

func (s *habitService) NextOccurrence(ctx context.Context, id int64, from time.Time) (*contract.HabitSchedule, error) {
	h, err := s.habits.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	schedule := &contract.HabitSchedule{HabitID: h.ID, Rule: h.RecurrenceRule}
	if !h.Recurring() {
		return schedule, nil
	}

	// A stored rule that no longer parses leaves the habit unscheduled.
	r, err := s.rule(h)
	var perr *recurrence.ParseError
	if errors.As(err, &perr) {
		return schedule, nil
	}
	if err != nil {
		return nil, err
	}
	schedule.Scheduled = true
	if next, ok := recurrence.NextOccurrence(r, from, h.BeginAt); ok {
		schedule.Next = &next
	}
	return schedule, nil
}

// Occurrences lists the habit's first occurrences from its start. A
// non-positive limit falls back to the configured one.
func (s *habitService) Occurrences(ctx context.Context, id int64, limit int) ([]time.Time, error) {
	h, err := s.habits.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !h.Recurring() {
		return []time.Time{}, nil
	}
	r, err := s.rule(h)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.limit
	}
	return slices.Collect(recurrence.Occurrences(r, h.BeginAt, limit)), nil
}

func (s *habitService) Calendar(ctx context.Context, id int64, from, to time.Time) ([]time.Time, error) {
	if to.Before(from) {
		return nil, domain.NewValidationError("habit calendar", "to must not be before from").Err()
	}
	h, err := s.habits.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !h.Recurring() {
		return []time.Time{}, nil
	}
	r, err := s.rule(h)
	if err != nil {
		return nil, err
	}
	return recurrence.Between(r, h.BeginAt, from, to), nil
}

// SpawnTask is idempotent per occurrence: when the habit already spawned a
// task due at that time, that task is returned.
func (s *habitService) SpawnTask(ctx context.Context, id int64, from time.Time) (*domain.Task, error) {
	var spawned *domain.Task
	var created bool
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		h, err := repository.NewSQLiteHabitRepo(tx).GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !h.Recurring() {
			return &domain.InvariantViolation{Reason: fmt.Sprintf("habit %d has no recurrence rule", id)}
		}
		r, err := s.rule(h)
		if err != nil {
			return err
		}
		next, ok := recurrence.NextOccurrence(r, from, h.BeginAt)
		if !ok {
			return &domain.InvariantViolation{Reason: fmt.Sprintf("habit %d has no occurrence after %s", id, from.Format(time.RFC3339))}
		}

		txTasks := repository.NewSQLiteTaskRepo(tx)
		existing, err := txTasks.ListByHabit(ctx, h.ID)
		if err != nil {
			return err
		}
		for _, t := range existing {
			if t.DueDate != nil && t.DueDate.Equal(next) {
				spawned = t
				return nil
			}
		}

		task, err := domain.NewTask(domain.TaskInput{
			ProjectID:      h.ProjectID,
			HabitID:        &h.ID,
			Title:          h.Title,
			DueDate:        &next,
			CompletionMode: h.CompletionMode,
			CountGoal:      &h.CountGoal,
			Location:       h.Location,
		})
		if err != nil {
			return err
		}
		now := s.now()
		task.CreatedAt, task.UpdatedAt = now, now
		if err := txTasks.Create(ctx, task); err != nil {
			return err
		}
		spawned, created = task, true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if created {
		s.events.Publish(ctx, events.Event{
			Topic:     events.TaskChanged,
			ProjectID: spawned.ProjectID,
			HabitID:   id,
			TaskID:    spawned.ID,
		})
	}
	return spawned, nil
}

func (s *habitService) publish(ctx context.Context, h *domain.Habit) {
	s.events.Publish(ctx, events.Event{Topic: events.HabitChanged, ProjectID: h.ProjectID, HabitID: h.ID})
}
