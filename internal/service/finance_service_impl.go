package service

import (
	"context"
	"fmt"

	"github.com/nodusapp/nodus/internal/domain"
	"github.com/nodusapp/nodus/internal/events"
	"github.com/nodusapp/nodus/internal/repository"
)

type financeService struct {
	finances   repository.FinanceRepo
	projects   repository.ProjectRepo
	currencies repository.CurrencyRepo
	tasks      repository.TaskRepo
	habits     repository.HabitRepo
	events     events.Publisher
	now        clock
}

func NewFinanceService(
	finances repository.FinanceRepo,
	projects repository.ProjectRepo,
	currencies repository.CurrencyRepo,
	tasks repository.TaskRepo,
	habits repository.HabitRepo,
	publisher events.Publisher,
) FinanceService {
	return &financeService{
		finances:   finances,
		projects:   projects,
		currencies: currencies,
		tasks:      tasks,
		habits:     habits,
		events:     publisher,
		now:        systemClock,
	}
}

func (s *financeService) checkRefs(ctx context.Context, f *domain.Finance) error {
	if _, err := s.projects.GetByID(ctx, f.ProjectID); err != nil {
		return err
	}
	if _, err := s.currencies.GetByID(ctx, f.CurrencyID); err != nil {
		return err
	}
	verr := domain.NewValidationError("finance")
	if f.TaskID != nil {
		t, err := s.tasks.GetByID(ctx, *f.TaskID)
		if err != nil {
			return err
		}
		if t.ProjectID != f.ProjectID {
			verr.Add("task %d belongs to project %d, not %d", t.ID, t.ProjectID, f.ProjectID)
		}
	}
	if f.HabitID != nil {
		h, err := s.habits.GetByID(ctx, *f.HabitID)
		if err != nil {
			return err
		}
		if h.ProjectID != f.ProjectID {
			verr.Add("habit %d belongs to project %d, not %d", h.ID, h.ProjectID, f.ProjectID)
		}
	}
	return verr.Err()
}

func (s *financeService) Create(ctx context.Context, in domain.FinanceInput) (*domain.Finance, error) {
	f, err := domain.NewFinance(in)
	if err != nil {
		return nil, err
	}
	if err := s.checkRefs(ctx, f); err != nil {
		return nil, err
	}

	now := s.now()
	f.CreatedAt, f.UpdatedAt = now, now
	if err := s.finances.Create(ctx, f); err != nil {
		return nil, fmt.Errorf("creating finance: %w", err)
	}

	s.publish(ctx, f)
	return f, nil
}

func (s *financeService) GetByID(ctx context.Context, id int64) (*domain.Finance, error) {
	return s.finances.GetByID(ctx, id)
}

func (s *financeService) ListByProject(ctx context.Context, projectID int64) ([]*domain.Finance, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	return s.finances.ListByProject(ctx, projectID)
}

func (s *financeService) Update(ctx context.Context, id int64, in domain.FinanceInput) (*domain.Finance, error) {
	existing, err := s.finances.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	f, err := domain.NewFinance(in)
	if err != nil {
		return nil, err
	}
	if err := s.checkRefs(ctx, f); err != nil {
		return nil, err
	}

	f.ID = existing.ID
	f.CreatedAt = existing.CreatedAt
	f.UpdatedAt = s.now()
	if err := s.finances.Update(ctx, f); err != nil {
		return nil, err
	}

	s.publish(ctx, f)
	return f, nil
}

func (s *financeService) Delete(ctx context.Context, id int64) error {
	f, err := s.finances.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.finances.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, f)
	return nil
}

func (s *financeService) publish(ctx context.Context, f *domain.Finance) {
	e := events.Event{Topic: events.FinanceChanged, ProjectID: f.ProjectID, FinanceID: f.ID}
	if f.TaskID != nil {
		e.TaskID = *f.TaskID
	}
	if f.HabitID != nil {
		e.HabitID = *f.HabitID
	}
	s.events.Publish(ctx, e)
}
