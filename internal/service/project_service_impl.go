package service

import (
	"context"
	"strings"

	"github.com/nodusapp/nodus/internal/domain"
	"github.com/nodusapp/nodus/internal/repository"
)

type projectService struct {
	projects repository.ProjectRepo
	now      clock
}

func NewProjectService(projects repository.ProjectRepo) ProjectService {
	return &projectService{projects: projects, now: systemClock}
}

func (s *projectService) Create(ctx context.Context, in domain.ProjectInput) (*domain.Project, error) {
	p, err := domain.NewProject(in)
	if err != nil {
		return nil, err
	}
	now := s.now()
	p.CreatedAt, p.UpdatedAt = now, now
	if err := s.projects.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *projectService) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

func (s *projectService) List(ctx context.Context) ([]*domain.Project, error) {
	return s.projects.List(ctx)
}

func (s *projectService) Update(ctx context.Context, id int64, in domain.ProjectInput) (*domain.Project, error) {
	existing, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p, err := domain.NewProject(in)
	if err != nil {
		return nil, err
	}
	p.ID = existing.ID
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = s.now()
	if err := s.projects.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes the project together with everything that belongs to it.
func (s *projectService) Delete(ctx context.Context, id int64) error {
	return s.projects.Delete(ctx, id)
}

type currencyService struct {
	currencies repository.CurrencyRepo
}

func NewCurrencyService(currencies repository.CurrencyRepo) CurrencyService {
	return &currencyService{currencies: currencies}
}

func (s *currencyService) List(ctx context.Context) ([]*domain.Currency, error) {
	return s.currencies.List(ctx)
}

func (s *currencyService) GetByCode(ctx context.Context, code string) (*domain.Currency, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return nil, domain.NewValidationError("currency", "code must be 3 letters")
	}
	return s.currencies.GetByCode(ctx, code)
}
