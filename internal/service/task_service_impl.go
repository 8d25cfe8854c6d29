package service

import (
	"context"
	"fmt"

	"github.com/nodusapp/nodus/internal/contract"
	"github.com/nodusapp/nodus/internal/domain"
	"github.com/nodusapp/nodus/internal/events"
	"github.com/nodusapp/nodus/internal/progress"
	"github.com/nodusapp/nodus/internal/repository"
)

type taskService struct {
	tasks      repository.TaskRepo
	executions repository.TaskExecutionRepo
	habits     repository.HabitRepo
	projects   repository.ProjectRepo
	events     events.Publisher
	now        clock
}

func NewTaskService(
	tasks repository.TaskRepo,
	executions repository.TaskExecutionRepo,
	habits repository.HabitRepo,
	projects repository.ProjectRepo,
	publisher events.Publisher,
) TaskService {
	return &taskService{
		tasks:      tasks,
		executions: executions,
		habits:     habits,
		projects:   projects,
		events:     publisher,
		now:        systemClock,
	}
}

// checkRefs verifies the task's project exists and that a linked habit
// belongs to it.
func (s *taskService) checkRefs(ctx context.Context, t *domain.Task) error {
	if _, err := s.projects.GetByID(ctx, t.ProjectID); err != nil {
		return err
	}
	if t.HabitID == nil {
		return nil
	}
	h, err := s.habits.GetByID(ctx, *t.HabitID)
	if err != nil {
		return err
	}
	if h.ProjectID != t.ProjectID {
		return domain.NewValidationError("task",
			fmt.Sprintf("habit %d belongs to project %d, not %d", h.ID, h.ProjectID, t.ProjectID))
	}
	return nil
}

func (s *taskService) Create(ctx context.Context, in domain.TaskInput) (*domain.Task, error) {
	t, err := domain.NewTask(in)
	if err != nil {
		return nil, err
	}
	if err := s.checkRefs(ctx, t); err != nil {
		return nil, err
	}

	t.DueDate = utcPtr(t.DueDate)
	now := s.now()
	t.CreatedAt, t.UpdatedAt = now, now
	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, err
	}

	s.publish(ctx, t)
	return t, nil
}

func (s *taskService) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	return s.tasks.GetByID(ctx, id)
}

func (s *taskService) ListByProject(ctx context.Context, projectID int64) ([]*domain.Task, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	return s.tasks.ListByProject(ctx, projectID)
}

func (s *taskService) Update(ctx context.Context, id int64, in domain.TaskInput) (*domain.Task, error) {
	existing, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	t, err := domain.NewTask(in)
	if err != nil {
		return nil, err
	}
	if err := s.checkRefs(ctx, t); err != nil {
		return nil, err
	}

	t.ID = existing.ID
	t.CreatedAt = existing.CreatedAt
	t.DueDate = utcPtr(t.DueDate)
	t.UpdatedAt = s.now()
	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, err
	}

	s.publish(ctx, t)
	return t, nil
}

func (s *taskService) Delete(ctx context.Context, id int64) error {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, t)
	return nil
}

func (s *taskService) Progress(ctx context.Context, id int64) (*contract.TaskProgress, error) {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	execs, err := s.executions.ListByTask(ctx, id)
	if err != nil {
		return nil, err
	}
	res, err := progress.Evaluate(t.CompletionMode, t.CountGoal, execs)
	if err != nil {
		return nil, fmt.Errorf("task %d: %w", id, err)
	}

	out := &contract.TaskProgress{
		TaskID:     t.ID,
		Title:      t.Title,
		Mode:       res.Mode,
		Progress:   res.Progress,
		Goal:       res.Goal,
		IsComplete: res.IsComplete,
		Percent:    res.Percent(),
	}
	for _, e := range execs {
		if e.Active() {
			out.ActiveExecutionID = &e.ID
			break
		}
	}
	return out, nil
}

func (s *taskService) publish(ctx context.Context, t *domain.Task) {
	var habitID int64
	if t.HabitID != nil {
		habitID = *t.HabitID
	}
	s.events.Publish(ctx, events.Event{Topic: events.TaskChanged, ProjectID: t.ProjectID, HabitID: habitID, TaskID: t.ID})
}
