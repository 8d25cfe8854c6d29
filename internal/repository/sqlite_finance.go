package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/nodusapp/nodus/internal/db"
	"github.com/nodusapp/nodus/internal/domain"
)

// SQLiteFinanceRepo implements FinanceRepo using a SQLite database.
type SQLiteFinanceRepo struct {
	store *SQLiteStore
}

func NewSQLiteFinanceRepo(d db.DBTX) *SQLiteFinanceRepo {
	return &SQLiteFinanceRepo{store: NewSQLiteStore(d)}
}

type financeRow struct {
	ID         int64         `db:"id"`
	ProjectID  int64         `db:"project_id"`
	TaskID     sql.NullInt64 `db:"task_id"`
	HabitID    sql.NullInt64 `db:"habit_id"`
	Title      string        `db:"title"`
	Amount     float64       `db:"amount"`
	CurrencyID int64         `db:"currency_id"`
	stamps
}

func (r *financeRow) toDomain() (*domain.Finance, error) {
	created, updated, err := r.stamps.parse()
	if err != nil {
		return nil, fmt.Errorf("finance %d: %w", r.ID, err)
	}
	return &domain.Finance{
		ID:         r.ID,
		ProjectID:  r.ProjectID,
		TaskID:     int64Ptr(r.TaskID),
		HabitID:    int64Ptr(r.HabitID),
		Title:      r.Title,
		Amount:     r.Amount,
		CurrencyID: r.CurrencyID,
		CreatedAt:  created,
		UpdatedAt:  updated,
	}, nil
}

func financeFields(f *domain.Finance) Fields {
	return Fields{
		"project_id":  f.ProjectID,
		"task_id":     nullableInt64(f.TaskID),
		"habit_id":    nullableInt64(f.HabitID),
		"title":       f.Title,
		"amount":      f.Amount,
		"currency_id": f.CurrencyID,
		"updated_at":  formatTime(f.UpdatedAt),
	}
}

func (r *SQLiteFinanceRepo) Create(ctx context.Context, f *domain.Finance) error {
	stampNew(&f.CreatedAt, &f.UpdatedAt)
	fields := financeFields(f)
	fields["created_at"] = formatTime(f.CreatedAt)
	id, err := r.store.Create(ctx, "finances", fields)
	if err != nil {
		return err
	}
	f.ID = id
	return nil
}

func (r *SQLiteFinanceRepo) GetByID(ctx context.Context, id int64) (*domain.Finance, error) {
	var row financeRow
	if err := r.store.Get(ctx, "finances", id, &row); err != nil {
		return nil, err
	}
	return row.toDomain()
}

func (r *SQLiteFinanceRepo) ListByProject(ctx context.Context, projectID int64) ([]*domain.Finance, error) {
	var rows []financeRow
	if err := r.store.Find(ctx, "finances", &rows, Query{Where: []Criterion{Eq("project_id", projectID)}}); err != nil {
		return nil, err
	}
	return convertRows(rows, (*financeRow).toDomain)
}

func (r *SQLiteFinanceRepo) Update(ctx context.Context, f *domain.Finance) error {
	if f.UpdatedAt.IsZero() {
		f.UpdatedAt = nowUTC()
	}
	return r.store.Update(ctx, "finances", f.ID, financeFields(f))
}

// Delete removes the finance record. Its executions stay in the ledger with
// finance_id cleared.
func (r *SQLiteFinanceRepo) Delete(ctx context.Context, id int64) error {
	return r.store.Delete(ctx, "finances", id)
}

// SQLiteFinanceExecutionRepo implements FinanceExecutionRepo and the ledger
// aggregate queries.
type SQLiteFinanceExecutionRepo struct {
	db    db.DBTX
	store *SQLiteStore
}

func NewSQLiteFinanceExecutionRepo(d db.DBTX) *SQLiteFinanceExecutionRepo {
	return &SQLiteFinanceExecutionRepo{db: d, store: NewSQLiteStore(d)}
}

type financeExecutionRow struct {
	ID         int64         `db:"id"`
	FinanceID  sql.NullInt64 `db:"finance_id"`
	ProjectID  int64         `db:"project_id"`
	Date       string        `db:"date"`
	Amount     float64       `db:"amount"`
	CurrencyID int64         `db:"currency_id"`
	stamps
}

func (r *financeExecutionRow) toDomain() (*domain.FinanceExecution, error) {
	created, updated, err := r.stamps.parse()
	if err != nil {
		return nil, fmt.Errorf("finance execution %d: %w", r.ID, err)
	}
	date, err := parseTime("date", r.Date)
	if err != nil {
		return nil, fmt.Errorf("finance execution %d: %w", r.ID, err)
	}
	return &domain.FinanceExecution{
		ID:         r.ID,
		FinanceID:  int64Ptr(r.FinanceID),
		ProjectID:  r.ProjectID,
		Date:       date,
		Amount:     r.Amount,
		CurrencyID: r.CurrencyID,
		CreatedAt:  created,
		UpdatedAt:  updated,
	}, nil
}

func (r *SQLiteFinanceExecutionRepo) Create(ctx context.Context, e *domain.FinanceExecution) error {
	stampNew(&e.CreatedAt, &e.UpdatedAt)
	id, err := r.store.Create(ctx, "finance_executions", Fields{
		"finance_id":  nullableInt64(e.FinanceID),
		"project_id":  e.ProjectID,
		"date":        formatTime(e.Date),
		"amount":      e.Amount,
		"currency_id": e.CurrencyID,
		"created_at":  formatTime(e.CreatedAt),
		"updated_at":  formatTime(e.UpdatedAt),
	})
	if err != nil {
		return err
	}
	e.ID = id
	return nil
}

func (r *SQLiteFinanceExecutionRepo) GetByID(ctx context.Context, id int64) (*domain.FinanceExecution, error) {
	var row financeExecutionRow
	if err := r.store.Get(ctx, "finance_executions", id, &row); err != nil {
		return nil, err
	}
	return row.toDomain()
}

func (r *SQLiteFinanceExecutionRepo) Delete(ctx context.Context, id int64) error {
	return r.store.Delete(ctx, "finance_executions", id)
}

func (r *SQLiteFinanceExecutionRepo) SumByProject(ctx context.Context, projectID int64, currencyID *int64) (float64, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM finance_executions WHERE project_id = ?`
	args := []any{projectID}
	if currencyID != nil {
		query += ` AND currency_id = ?`
		args = append(args, *currencyID)
	}
	var total float64
	if err := sqlx.GetContext(ctx, r.db, &total, query, args...); err != nil {
		return 0, fmt.Errorf("summing finance executions: %w", err)
	}
	return total, nil
}

func (r *SQLiteFinanceExecutionRepo) CountByProject(ctx context.Context, projectID int64) (int, error) {
	return r.store.Count(ctx, "finance_executions", Eq("project_id", projectID))
}

type ledgerRow struct {
	financeExecutionRow
	FinanceTitle   sql.NullString `db:"finance_title"`
	CurrencyCode   string         `db:"currency_code"`
	CurrencySymbol string         `db:"currency_symbol"`
}

// ListByProjectPage returns one page of the project's ledger, newest date
// first. A page past the end is empty but still reports the totals.
func (r *SQLiteFinanceExecutionRepo) ListByProjectPage(ctx context.Context, projectID int64, page, pageSize int) ([]LedgerEntry, PageInfo, error) {
	if err := CheckPage(page, pageSize); err != nil {
		return nil, PageInfo{}, err
	}
	total, err := r.CountByProject(ctx, projectID)
	if err != nil {
		return nil, PageInfo{}, err
	}

	info := NewPageInfo(page, pageSize, total)
	offset, ok := pageOffset(info)
	if !ok {
		return []LedgerEntry{}, info, nil
	}

	query := `SELECT fe.*, f.title AS finance_title, c.code AS currency_code, c.symbol AS currency_symbol
		FROM finance_executions fe
		LEFT JOIN finances f ON f.id = fe.finance_id
		JOIN currencies c ON c.id = fe.currency_id
		WHERE fe.project_id = ?
		ORDER BY fe.date DESC, fe.id DESC
		LIMIT ? OFFSET ?`
	var rows []ledgerRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, projectID, pageSize, offset); err != nil {
		return nil, PageInfo{}, fmt.Errorf("listing ledger page: %w", err)
	}

	entries := make([]LedgerEntry, 0, len(rows))
	for i := range rows {
		e, err := rows[i].financeExecutionRow.toDomain()
		if err != nil {
			return nil, PageInfo{}, err
		}
		entries = append(entries, LedgerEntry{
			Execution:      *e,
			FinanceTitle:   rows[i].FinanceTitle.String,
			CurrencyCode:   rows[i].CurrencyCode,
			CurrencySymbol: rows[i].CurrencySymbol,
		})
	}
	return entries, info, nil
}

func (r *SQLiteFinanceExecutionRepo) TotalsByCurrency(ctx context.Context, projectID int64) ([]CurrencyTotal, error) {
	query := `SELECT c.id AS currency_id, c.code, c.symbol,
			COALESCE(SUM(fe.amount), 0) AS total, COUNT(fe.id) AS count
		FROM finance_executions fe
		JOIN currencies c ON c.id = fe.currency_id
		WHERE fe.project_id = ?
		GROUP BY c.id, c.code, c.symbol
		ORDER BY c.id`
	var rows []struct {
		CurrencyID int64   `db:"currency_id"`
		Code       string  `db:"code"`
		Symbol     string  `db:"symbol"`
		Total      float64 `db:"total"`
		Count      int     `db:"count"`
	}
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, projectID); err != nil {
		return nil, fmt.Errorf("totalling finance executions by currency: %w", err)
	}
	totals := make([]CurrencyTotal, len(rows))
	for i, row := range rows {
		totals[i] = CurrencyTotal(row)
	}
	return totals, nil
}
