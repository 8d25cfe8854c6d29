package repository

import (
	"context"

	"github.com/nodusapp/nodus/internal/domain"
)

// LedgerEntry is a finance execution joined with the finance record it
// realizes, if any, and its currency.
type LedgerEntry struct {
	Execution      domain.FinanceExecution
	FinanceTitle   string
	CurrencyCode   string
	CurrencySymbol string
}

// CurrencyTotal is the running total of one project's executions in a
// single currency.
type CurrencyTotal struct {
	CurrencyID int64
	Code       string
	Symbol     string
	Total      float64
	Count      int
}

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id int64) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id int64) error
}

type CurrencyRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Currency, error)
	GetByCode(ctx context.Context, code string) (*domain.Currency, error)
	List(ctx context.Context) ([]*domain.Currency, error)
}

type HabitRepo interface {
	Create(ctx context.Context, h *domain.Habit) error
	GetByID(ctx context.Context, id int64) (*domain.Habit, error)
	ListByProject(ctx context.Context, projectID int64) ([]*domain.Habit, error)
	Update(ctx context.Context, h *domain.Habit) error
	Delete(ctx context.Context, id int64) error
}

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id int64) (*domain.Task, error)
	ListByProject(ctx context.Context, projectID int64) ([]*domain.Task, error)
	ListByHabit(ctx context.Context, habitID int64) ([]*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id int64) error
}

type TaskExecutionRepo interface {
	Create(ctx context.Context, e *domain.TaskExecution) error
	GetByID(ctx context.Context, id int64) (*domain.TaskExecution, error)
	// GetActiveByTask returns the most recently created open session, or
	// nil when the task has none.
	GetActiveByTask(ctx context.Context, taskID int64) (*domain.TaskExecution, error)
	ListByTask(ctx context.Context, taskID int64) ([]*domain.TaskExecution, error)
	CountCompletedByTask(ctx context.Context, taskID int64) (int, error)
	Update(ctx context.Context, e *domain.TaskExecution) error
	Delete(ctx context.Context, id int64) error
}

type FinanceRepo interface {
	Create(ctx context.Context, f *domain.Finance) error
	GetByID(ctx context.Context, id int64) (*domain.Finance, error)
	ListByProject(ctx context.Context, projectID int64) ([]*domain.Finance, error)
	Update(ctx context.Context, f *domain.Finance) error
	Delete(ctx context.Context, id int64) error
}

type FinanceExecutionRepo interface {
	Create(ctx context.Context, e *domain.FinanceExecution) error
	GetByID(ctx context.Context, id int64) (*domain.FinanceExecution, error)
	Delete(ctx context.Context, id int64) error
	// SumByProject totals amounts, optionally for one currency. No rows
	// sum to zero.
	SumByProject(ctx context.Context, projectID int64, currencyID *int64) (float64, error)
	CountByProject(ctx context.Context, projectID int64) (int, error)
	ListByProjectPage(ctx context.Context, projectID int64, page, pageSize int) ([]LedgerEntry, PageInfo, error)
	TotalsByCurrency(ctx context.Context, projectID int64) ([]CurrencyTotal, error)
}

type NoteRepo interface {
	Create(ctx context.Context, n *domain.Note) error
	GetByID(ctx context.Context, id int64) (*domain.Note, error)
	Update(ctx context.Context, n *domain.Note) error
	Delete(ctx context.Context, id int64) error
	// Search matches text against title and content, newest updated first.
	// Empty text matches every note of the project.
	Search(ctx context.Context, projectID int64, text string, page, pageSize int) ([]*domain.Note, PageInfo, error)
}

