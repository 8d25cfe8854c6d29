package service

import (
	"context"
	"time"

	"github.com/nodusapp/nodus/internal/contract"
	"github.com/nodusapp/nodus/internal/domain"
)

type ProjectService interface {
	Create(ctx context.Context, in domain.ProjectInput) (*domain.Project, error)
	GetByID(ctx context.Context, id int64) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, id int64, in domain.ProjectInput) (*domain.Project, error)
	Delete(ctx context.Context, id int64) error
}

type CurrencyService interface {
	List(ctx context.Context) ([]*domain.Currency, error)
	GetByCode(ctx context.Context, code string) (*domain.Currency, error)
}

type HabitService interface {
	Create(ctx context.Context, in domain.HabitInput) (*domain.Habit, error)
	GetByID(ctx context.Context, id int64) (*domain.Habit, error)
	ListByProject(ctx context.Context, projectID int64) ([]*domain.Habit, error)
	// Update replaces every editable field with the values in in.
	Update(ctx context.Context, id int64, in domain.HabitInput) (*domain.Habit, error)
	Delete(ctx context.Context, id int64) error
	NextOccurrence(ctx context.Context, id int64, from time.Time) (*contract.HabitSchedule, error)
	Occurrences(ctx context.Context, id int64, limit int) ([]time.Time, error)
	// Calendar lists the occurrences within [from, to].
	Calendar(ctx context.Context, id int64, from, to time.Time) ([]time.Time, error)
	// SpawnTask creates the task for the habit's next occurrence at or
	// after from.
	SpawnTask(ctx context.Context, id int64, from time.Time) (*domain.Task, error)
}

type TaskService interface {
	Create(ctx context.Context, in domain.TaskInput) (*domain.Task, error)
	GetByID(ctx context.Context, id int64) (*domain.Task, error)
	ListByProject(ctx context.Context, projectID int64) ([]*domain.Task, error)
	Update(ctx context.Context, id int64, in domain.TaskInput) (*domain.Task, error)
	Delete(ctx context.Context, id int64) error
	Progress(ctx context.Context, id int64) (*contract.TaskProgress, error)
}

type SessionService interface {
	Start(ctx context.Context, taskID int64) (*domain.TaskExecution, error)
	Stop(ctx context.Context, executionID int64) (*domain.TaskExecution, error)
	// ActiveSession returns nil when the task has no open session.
	ActiveSession(ctx context.Context, taskID int64) (*domain.TaskExecution, error)
	Delete(ctx context.Context, executionID int64) error
	Log(ctx context.Context, taskID int64, start, end time.Time) (*domain.TaskExecution, error)
	// Update moves the given markers; a nil marker is kept.
	Update(ctx context.Context, executionID int64, start, end *time.Time) (*domain.TaskExecution, error)
	ListByTask(ctx context.Context, taskID int64) ([]*domain.TaskExecution, error)
}

type LedgerService interface {
	SumByProject(ctx context.Context, projectID int64, currencyID *int64) (float64, error)
	ListByProjectPaginated(ctx context.Context, projectID int64, page, pageSize int) (*contract.LedgerPage, error)
	TotalsByCurrency(ctx context.Context, projectID int64) ([]contract.CurrencyTotal, error)
	Record(ctx context.Context, in domain.FinanceExecutionInput) (*domain.FinanceExecution, error)
	// Execute realizes a finance record on date with its amount and currency.
	Execute(ctx context.Context, financeID int64, date time.Time) (*domain.FinanceExecution, error)
	Delete(ctx context.Context, id int64) error
}

type FinanceService interface {
	Create(ctx context.Context, in domain.FinanceInput) (*domain.Finance, error)
	GetByID(ctx context.Context, id int64) (*domain.Finance, error)
	ListByProject(ctx context.Context, projectID int64) ([]*domain.Finance, error)
	Update(ctx context.Context, id int64, in domain.FinanceInput) (*domain.Finance, error)
	Delete(ctx context.Context, id int64) error
}

type NoteService interface {
	Create(ctx context.Context, in domain.NoteInput) (*domain.Note, error)
	GetByID(ctx context.Context, id int64) (*domain.Note, error)
	Update(ctx context.Context, id int64, in domain.NoteInput) (*domain.Note, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, projectID int64, text string, page, pageSize int) (*contract.NotePage, error)
}
