// Package app wires repositories, the event bus and the use cases on top
// of an open database.
package app

import (
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/nodusapp/nodus/internal/config"
	"github.com/nodusapp/nodus/internal/db"
	"github.com/nodusapp/nodus/internal/events"
	"github.com/nodusapp/nodus/internal/locking"
	"github.com/nodusapp/nodus/internal/logging"
	"github.com/nodusapp/nodus/internal/recurrence"
	"github.com/nodusapp/nodus/internal/repository"
	"github.com/nodusapp/nodus/internal/service"
)

// Services is the full set of use cases plus the bus they publish on.
type Services struct {
	Bus *events.Bus

	Projects   service.ProjectService
	Currencies service.CurrencyService
	Habits     service.HabitService
	Tasks      service.TaskService
	Sessions   service.SessionService
	Ledger     service.LedgerService
	Finances   service.FinanceService
	Notes      service.NoteService
}

// New builds every service against database. Change events are logged at
// debug level; use case outcomes are logged when cfg.LogUseCases is set.
func New(database *sqlx.DB, cfg *config.Config, logger *slog.Logger) (*Services, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	rules, err := recurrence.NewCache(cfg.RuleCacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating rule cache: %w", err)
	}

	bus := events.NewBus(logging.WithComponent(logger, "events"))
	bus.SubscribeAll(events.NewLogSubscriber(logging.WithComponent(logger, "changes")))

	var observers []service.UseCaseObserver
	if cfg.LogUseCases {
		observers = append(observers, service.NewSlogUseCaseObserver(logger))
	}

	projects := repository.NewSQLiteProjectRepo(database)
	currencies := repository.NewSQLiteCurrencyRepo(database)
	habits := repository.NewSQLiteHabitRepo(database)
	tasks := repository.NewSQLiteTaskRepo(database)
	executions := repository.NewSQLiteTaskExecutionRepo(database)
	finances := repository.NewSQLiteFinanceRepo(database)
	finExecs := repository.NewSQLiteFinanceExecutionRepo(database)
	notes := repository.NewSQLiteNoteRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)

	return &Services{
		Bus:        bus,
		Projects:   service.NewProjectService(projects),
		Currencies: service.NewCurrencyService(currencies),
		Habits:     service.NewHabitService(habits, projects, uow, rules, bus, cfg.OccurrenceLimit),
		Tasks:      service.NewTaskService(tasks, executions, habits, projects, bus),
		Sessions:   service.NewSessionService(executions, tasks, uow, locking.NewMemoryLocker(), bus, observers...),
		Ledger:     service.NewLedgerService(finExecs, projects, uow, bus, observers...),
		Finances:   service.NewFinanceService(finances, projects, currencies, tasks, habits, bus),
		Notes:      service.NewNoteService(notes, projects, bus),
	}, nil
}
