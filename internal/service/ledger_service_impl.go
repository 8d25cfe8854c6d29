package service

import (
	"context"
	"fmt"
	"time"

	"github.com/nodusapp/nodus/internal/contract"
	"github.com/nodusapp/nodus/internal/db"
	"github.com/nodusapp/nodus/internal/domain"
	"github.com/nodusapp/nodus/internal/events"
	"github.com/nodusapp/nodus/internal/repository"
)

type ledgerService struct {
	executions repository.FinanceExecutionRepo
	projects   repository.ProjectRepo
	uow        db.UnitOfWork
	events     events.Publisher
	observer   UseCaseObserver
	now        clock
}

func NewLedgerService(
	executions repository.FinanceExecutionRepo,
	projects repository.ProjectRepo,
	uow db.UnitOfWork,
	publisher events.Publisher,
	observers ...UseCaseObserver,
) LedgerService {
	return &ledgerService{
		executions: executions,
		projects:   projects,
		uow:        uow,
		events:     publisher,
		observer:   useCaseObserverOrNoop(observers),
		now:        systemClock,
	}
}

func (s *ledgerService) SumByProject(ctx context.Context, projectID int64, currencyID *int64) (total float64, err error) {
	fields := map[string]any{"project_id": projectID}
	if currencyID != nil {
		fields["currency_id"] = *currencyID
	}
	done := track(ctx, s.observer, "ledger-sum", fields)
	defer func() { done(err) }()

	if _, err = s.projects.GetByID(ctx, projectID); err != nil {
		return 0, err
	}
	return s.executions.SumByProject(ctx, projectID, currencyID)
}

func (s *ledgerService) ListByProjectPaginated(ctx context.Context, projectID int64, page, pageSize int) (result *contract.LedgerPage, err error) {
	fields := map[string]any{"project_id": projectID, "page": page, "page_size": pageSize}
	done := track(ctx, s.observer, "ledger-page", fields)
	defer func() { done(err) }()

	if err = repository.CheckPage(page, pageSize); err != nil {
		return nil, err
	}
	if _, err = s.projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	entries, info, err := s.executions.ListByProjectPage(ctx, projectID, page, pageSize)
	if err != nil {
		return nil, err
	}

	rows := make([]contract.LedgerRow, len(entries))
	for i, e := range entries {
		rows[i] = contract.LedgerRow{
			ID:             e.Execution.ID,
			FinanceID:      e.Execution.FinanceID,
			FinanceTitle:   e.FinanceTitle,
			ProjectID:      e.Execution.ProjectID,
			Date:           e.Execution.Date,
			Amount:         e.Execution.Amount,
			CurrencyID:     e.Execution.CurrencyID,
			CurrencyCode:   e.CurrencyCode,
			CurrencySymbol: e.CurrencySymbol,
		}
	}
	fields["total"] = info.Total
	return &contract.LedgerPage{Rows: rows, Page: pageOf(info)}, nil
}

func (s *ledgerService) TotalsByCurrency(ctx context.Context, projectID int64) ([]contract.CurrencyTotal, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	totals, err := s.executions.TotalsByCurrency(ctx, projectID)
	if err != nil {
		return nil, err
	}
	out := make([]contract.CurrencyTotal, len(totals))
	for i, t := range totals {
		out[i] = contract.CurrencyTotal{
			CurrencyID: t.CurrencyID,
			Code:       t.Code,
			Symbol:     t.Symbol,
			Total:      t.Total,
			Count:      t.Count,
		}
	}
	return out, nil
}

// Record stores a realized money movement. A referenced finance record must
// belong to the same project.
func (s *ledgerService) Record(ctx context.Context, in domain.FinanceExecutionInput) (exec *domain.FinanceExecution, err error) {
	done := track(ctx, s.observer, "ledger-record", map[string]any{"project_id": in.ProjectID})
	defer func() { done(err) }()

	in.Date = in.Date.UTC()
	e, err := domain.NewFinanceExecution(in)
	if err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := repository.NewSQLiteProjectRepo(tx).GetByID(ctx, e.ProjectID); err != nil {
			return err
		}
		if _, err := repository.NewSQLiteCurrencyRepo(tx).GetByID(ctx, e.CurrencyID); err != nil {
			return err
		}
		if e.FinanceID != nil {
			f, err := repository.NewSQLiteFinanceRepo(tx).GetByID(ctx, *e.FinanceID)
			if err != nil {
				return err
			}
			if f.ProjectID != e.ProjectID {
				return domain.NewValidationError("finance execution",
					fmt.Sprintf("finance %d belongs to project %d, not %d", f.ID, f.ProjectID, e.ProjectID))
			}
		}
		now := s.now()
		e.CreatedAt, e.UpdatedAt = now, now
		return repository.NewSQLiteFinanceExecutionRepo(tx).Create(ctx, e)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, e)
	return e, nil
}

func (s *ledgerService) Execute(ctx context.Context, financeID int64, date time.Time) (exec *domain.FinanceExecution, err error) {
	done := track(ctx, s.observer, "ledger-execute", map[string]any{"finance_id": financeID})
	defer func() { done(err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		f, err := repository.NewSQLiteFinanceRepo(tx).GetByID(ctx, financeID)
		if err != nil {
			return err
		}
		e, err := domain.NewFinanceExecution(domain.FinanceExecutionInput{
			FinanceID:  &f.ID,
			ProjectID:  f.ProjectID,
			Date:       date.UTC(),
			Amount:     f.Amount,
			CurrencyID: f.CurrencyID,
		})
		if err != nil {
			return err
		}
		now := s.now()
		e.CreatedAt, e.UpdatedAt = now, now
		if err := repository.NewSQLiteFinanceExecutionRepo(tx).Create(ctx, e); err != nil {
			return err
		}
		exec = e
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, exec)
	return exec, nil
}

func (s *ledgerService) Delete(ctx context.Context, id int64) (err error) {
	done := track(ctx, s.observer, "ledger-delete", map[string]any{"execution_id": id})
	defer func() { done(err) }()

	var deleted *domain.FinanceExecution
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txExecutions := repository.NewSQLiteFinanceExecutionRepo(tx)
		e, err := txExecutions.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := txExecutions.Delete(ctx, id); err != nil {
			return err
		}
		deleted = e
		return nil
	})
	if err != nil {
		return err
	}

	s.publish(ctx, deleted)
	return nil
}

func (s *ledgerService) publish(ctx context.Context, e *domain.FinanceExecution) {
	var financeID int64
	if e.FinanceID != nil {
		financeID = *e.FinanceID
	}
	s.events.Publish(ctx, events.Event{
		Topic:       events.FinanceExecutionChanged,
		ProjectID:   e.ProjectID,
		FinanceID:   financeID,
		ExecutionID: e.ID,
	})
}
