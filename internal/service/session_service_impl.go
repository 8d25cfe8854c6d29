package service

import (
	"context"
	"fmt"
	"time"

	"github.com/nodusapp/nodus/internal/db"
	"github.com/nodusapp/nodus/internal/domain"
	"github.com/nodusapp/nodus/internal/events"
	"github.com/nodusapp/nodus/internal/locking"
	"github.com/nodusapp/nodus/internal/repository"
)

type sessionService struct {
	executions repository.TaskExecutionRepo
	tasks      repository.TaskRepo
	uow        db.UnitOfWork
	locker     locking.Locker
	events     events.Publisher
	observer   UseCaseObserver
	now        clock
}

func NewSessionService(
	executions repository.TaskExecutionRepo,
	tasks repository.TaskRepo,
	uow db.UnitOfWork,
	locker locking.Locker,
	publisher events.Publisher,
	observers ...UseCaseObserver,
) SessionService {
	return &sessionService{
		executions: executions,
		tasks:      tasks,
		uow:        uow,
		locker:     locker,
		events:     publisher,
		observer:   useCaseObserverOrNoop(observers),
		now:        systemClock,
	}
}

func taskLockKey(taskID int64) string {
	return fmt.Sprintf("task:%d", taskID)
}

// Start opens a session on the task. The open-session check and the insert
// share one transaction and run under the task's lock.
func (s *sessionService) Start(ctx context.Context, taskID int64) (exec *domain.TaskExecution, err error) {
	fields := map[string]any{"task_id": taskID}
	done := track(ctx, s.observer, "session-start", fields)
	defer func() { done(err) }()

	lock, err := s.locker.Acquire(ctx, taskLockKey(taskID))
	if err != nil {
		return nil, fmt.Errorf("locking task %d: %w", taskID, err)
	}
	defer lock.Release()

	var projectID int64
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		task, err := repository.NewSQLiteTaskRepo(tx).GetByID(ctx, taskID)
		if err != nil {
			return err
		}
		projectID = task.ProjectID

		txExecutions := repository.NewSQLiteTaskExecutionRepo(tx)
		active, err := txExecutions.GetActiveByTask(ctx, taskID)
		if err != nil {
			return err
		}
		if active != nil {
			return &domain.InvariantViolation{
				Reason: fmt.Sprintf("task %d already has an open session (%d)", taskID, active.ID),
			}
		}

		now := s.now()
		e, err := domain.NewTaskExecution(taskID, &now, nil)
		if err != nil {
			return err
		}
		e.CreatedAt, e.UpdatedAt = now, now
		if err := txExecutions.Create(ctx, e); err != nil {
			return err
		}
		exec = e
		return nil
	})
	if err != nil {
		return nil, err
	}

	fields["execution_id"] = exec.ID
	s.publish(ctx, projectID, exec)
	return exec, nil
}

// Stop closes an open session. Stopping a session twice is an invariant
// violation.
func (s *sessionService) Stop(ctx context.Context, executionID int64) (exec *domain.TaskExecution, err error) {
	done := track(ctx, s.observer, "session-stop", map[string]any{"execution_id": executionID})
	defer func() { done(err) }()

	var projectID int64
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txExecutions := repository.NewSQLiteTaskExecutionRepo(tx)
		e, err := txExecutions.GetByID(ctx, executionID)
		if err != nil {
			return err
		}
		task, err := repository.NewSQLiteTaskRepo(tx).GetByID(ctx, e.TaskID)
		if err != nil {
			return err
		}
		projectID = task.ProjectID

		now := s.now()
		if err := e.Stop(now); err != nil {
			return err
		}
		e.UpdatedAt = now
		if err := txExecutions.Update(ctx, e); err != nil {
			return err
		}
		exec = e
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, projectID, exec)
	return exec, nil
}

func (s *sessionService) ActiveSession(ctx context.Context, taskID int64) (*domain.TaskExecution, error) {
	if _, err := s.tasks.GetByID(ctx, taskID); err != nil {
		return nil, err
	}
	return s.executions.GetActiveByTask(ctx, taskID)
}

func (s *sessionService) Delete(ctx context.Context, executionID int64) (err error) {
	done := track(ctx, s.observer, "session-delete", map[string]any{"execution_id": executionID})
	defer func() { done(err) }()

	var deleted *domain.TaskExecution
	var projectID int64
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txExecutions := repository.NewSQLiteTaskExecutionRepo(tx)
		e, err := txExecutions.GetByID(ctx, executionID)
		if err != nil {
			return err
		}
		task, err := repository.NewSQLiteTaskRepo(tx).GetByID(ctx, e.TaskID)
		if err != nil {
			return err
		}
		projectID = task.ProjectID
		if err := txExecutions.Delete(ctx, executionID); err != nil {
			return err
		}
		deleted = e
		return nil
	})
	if err != nil {
		return err
	}

	s.publish(ctx, projectID, deleted)
	return nil
}

// Log records a completed session after the fact.
func (s *sessionService) Log(ctx context.Context, taskID int64, start, end time.Time) (exec *domain.TaskExecution, err error) {
	done := track(ctx, s.observer, "session-log", map[string]any{"task_id": taskID})
	defer func() { done(err) }()

	start, end = start.UTC(), end.UTC()
	e, err := domain.NewTaskExecution(taskID, &start, &end)
	if err != nil {
		return nil, err
	}
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	e.CreatedAt, e.UpdatedAt = now, now
	if err := s.executions.Create(ctx, e); err != nil {
		return nil, err
	}

	s.publish(ctx, task.ProjectID, e)
	return e, nil
}

// Update moves the session's start or end marker; nil leaves a marker as it
// is. A session that stays open after the update must be the task's only
// open one, so the check runs under the task's lock like Start.
func (s *sessionService) Update(ctx context.Context, executionID int64, start, end *time.Time) (exec *domain.TaskExecution, err error) {
	done := track(ctx, s.observer, "session-update", map[string]any{"execution_id": executionID})
	defer func() { done(err) }()

	current, err := s.executions.GetByID(ctx, executionID)
	if err != nil {
		return nil, err
	}
	lock, err := s.locker.Acquire(ctx, taskLockKey(current.TaskID))
	if err != nil {
		return nil, fmt.Errorf("locking task %d: %w", current.TaskID, err)
	}
	defer lock.Release()

	var projectID int64
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txExecutions := repository.NewSQLiteTaskExecutionRepo(tx)
		e, err := txExecutions.GetByID(ctx, executionID)
		if err != nil {
			return err
		}
		task, err := repository.NewSQLiteTaskRepo(tx).GetByID(ctx, e.TaskID)
		if err != nil {
			return err
		}
		projectID = task.ProjectID

		if err := e.Reschedule(utcPtr(start), utcPtr(end)); err != nil {
			return err
		}
		if e.EndTime == nil {
			active, err := txExecutions.GetActiveByTask(ctx, e.TaskID)
			if err != nil {
				return err
			}
			if active != nil && active.ID != e.ID {
				return &domain.InvariantViolation{
					Reason: fmt.Sprintf("task %d already has an open session (%d)", e.TaskID, active.ID),
				}
			}
		}
		e.UpdatedAt = s.now()
		if err := txExecutions.Update(ctx, e); err != nil {
			return err
		}
		exec = e
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, projectID, exec)
	return exec, nil
}

func (s *sessionService) ListByTask(ctx context.Context, taskID int64) ([]*domain.TaskExecution, error) {
	if _, err := s.tasks.GetByID(ctx, taskID); err != nil {
		return nil, err
	}
	return s.executions.ListByTask(ctx, taskID)
}

func (s *sessionService) publish(ctx context.Context, projectID int64, e *domain.TaskExecution) {
	s.events.Publish(ctx, events.Event{
		Topic:       events.TaskExecutionChanged,
		ProjectID:   projectID,
		TaskID:      e.TaskID,
		ExecutionID: e.ID,
	})
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
