package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/nodusapp/nodus/internal/db"
	"github.com/nodusapp/nodus/internal/domain"
)

// SQLiteTaskExecutionRepo implements TaskExecutionRepo using a SQLite database.
type SQLiteTaskExecutionRepo struct {
	db    db.DBTX
	store *SQLiteStore
}

// NewSQLiteTaskExecutionRepo creates a new SQLiteTaskExecutionRepo.
func NewSQLiteTaskExecutionRepo(d db.DBTX) *SQLiteTaskExecutionRepo {
	return &SQLiteTaskExecutionRepo{db: d, store: NewSQLiteStore(d)}
}

type taskExecutionRow struct {
	ID        int64          `db:"id"`
	TaskID    int64          `db:"task_id"`
	StartTime sql.NullString `db:"start_time"`
	EndTime   sql.NullString `db:"end_time"`
	stamps
}

func (r *taskExecutionRow) toDomain() (*domain.TaskExecution, error) {
	created, updated, err := r.stamps.parse()
	if err != nil {
		return nil, fmt.Errorf("task execution %d: %w", r.ID, err)
	}
	start, err := parseNullableTime("start_time", r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("task execution %d: %w", r.ID, err)
	}
	end, err := parseNullableTime("end_time", r.EndTime)
	if err != nil {
		return nil, fmt.Errorf("task execution %d: %w", r.ID, err)
	}
	return &domain.TaskExecution{
		ID:        r.ID,
		TaskID:    r.TaskID,
		StartTime: start,
		EndTime:   end,
		CreatedAt: created,
		UpdatedAt: updated,
	}, nil
}

func taskExecutionFields(e *domain.TaskExecution) Fields {
	return Fields{
		"task_id":    e.TaskID,
		"start_time": nullableTime(e.StartTime),
		"end_time":   nullableTime(e.EndTime),
		"updated_at": formatTime(e.UpdatedAt),
	}
}

func (r *SQLiteTaskExecutionRepo) Create(ctx context.Context, e *domain.TaskExecution) error {
	stampNew(&e.CreatedAt, &e.UpdatedAt)
	fields := taskExecutionFields(e)
	fields["created_at"] = formatTime(e.CreatedAt)
	id, err := r.store.Create(ctx, "task_executions", fields)
	if err != nil {
		return err
	}
	e.ID = id
	return nil
}

func (r *SQLiteTaskExecutionRepo) GetByID(ctx context.Context, id int64) (*domain.TaskExecution, error) {
	var row taskExecutionRow
	if err := r.store.Get(ctx, "task_executions", id, &row); err != nil {
		return nil, err
	}
	return row.toDomain()
}

func (r *SQLiteTaskExecutionRepo) GetActiveByTask(ctx context.Context, taskID int64) (*domain.TaskExecution, error) {
	query := `SELECT * FROM task_executions
		WHERE task_id = ? AND start_time IS NOT NULL AND end_time IS NULL
		ORDER BY created_at DESC, id DESC LIMIT 1`
	var row taskExecutionRow
	if err := sqlx.GetContext(ctx, r.db, &row, query, taskID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting active task execution: %w", err)
	}
	return row.toDomain()
}

func (r *SQLiteTaskExecutionRepo) ListByTask(ctx context.Context, taskID int64) ([]*domain.TaskExecution, error) {
	var rows []taskExecutionRow
	if err := r.store.Find(ctx, "task_executions", &rows, Query{
		Where:   []Criterion{Eq("task_id", taskID)},
		OrderBy: []Order{{Column: "created_at", Desc: true}, {Column: "id", Desc: true}},
	}); err != nil {
		return nil, err
	}
	return convertRows(rows, (*taskExecutionRow).toDomain)
}

func (r *SQLiteTaskExecutionRepo) CountCompletedByTask(ctx context.Context, taskID int64) (int, error) {
	return r.store.Count(ctx, "task_executions",
		Eq("task_id", taskID),
		Criterion{Column: "end_time", Op: OpIsNotNull},
	)
}

func (r *SQLiteTaskExecutionRepo) Update(ctx context.Context, e *domain.TaskExecution) error {
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = nowUTC()
	}
	return r.store.Update(ctx, "task_executions", e.ID, taskExecutionFields(e))
}

func (r *SQLiteTaskExecutionRepo) Delete(ctx context.Context, id int64) error {
	return r.store.Delete(ctx, "task_executions", id)
}
