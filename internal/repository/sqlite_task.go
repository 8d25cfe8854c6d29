package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nodusapp/nodus/internal/db"
	"github.com/nodusapp/nodus/internal/domain"
)

// SQLiteTaskRepo implements TaskRepo using a SQLite database.
type SQLiteTaskRepo struct {
	store *SQLiteStore
}

func NewSQLiteTaskRepo(d db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{store: NewSQLiteStore(d)}
}

type taskRow struct {
	ID             int64          `db:"id"`
	ProjectID      int64          `db:"project_id"`
	HabitID        sql.NullInt64  `db:"habit_id"`
	Title          string         `db:"title"`
	DueDate        sql.NullString `db:"due_date"`
	CompletionMode int            `db:"completion_mode"`
	CountGoal      int            `db:"count_goal"`
	locationColumns
	stamps
}

func (r *taskRow) toDomain() (*domain.Task, error) {
	created, updated, err := r.stamps.parse()
	if err != nil {
		return nil, fmt.Errorf("task %d: %w", r.ID, err)
	}
	due, err := parseNullableTime("due_date", r.DueDate)
	if err != nil {
		return nil, fmt.Errorf("task %d: %w", r.ID, err)
	}
	return &domain.Task{
		ID:             r.ID,
		ProjectID:      r.ProjectID,
		HabitID:        int64Ptr(r.HabitID),
		Title:          r.Title,
		DueDate:        due,
		CompletionMode: domain.CompletionMode(r.CompletionMode),
		CountGoal:      r.CountGoal,
		Location:       r.locationColumns.toDomain(),
		CreatedAt:      created,
		UpdatedAt:      updated,
	}, nil
}

func taskFields(t *domain.Task) Fields {
	f := Fields{
		"project_id":      t.ProjectID,
		"habit_id":        nullableInt64(t.HabitID),
		"title":           t.Title,
		"due_date":        nullableTime(t.DueDate),
		"completion_mode": int(t.CompletionMode),
		"count_goal":      t.CountGoal,
		"updated_at":      formatTime(t.UpdatedAt),
	}
	locationFields(f, t.Location)
	return f
}

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	stampNew(&t.CreatedAt, &t.UpdatedAt)
	fields := taskFields(t)
	fields["created_at"] = formatTime(t.CreatedAt)
	id, err := r.store.Create(ctx, "tasks", fields)
	if err != nil {
		return err
	}
	t.ID = id
	return nil
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	var row taskRow
	if err := r.store.Get(ctx, "tasks", id, &row); err != nil {
		return nil, err
	}
	return row.toDomain()
}

// dueOrder sorts soonest due first. SQLite puts undated tasks ahead.
var dueOrder = []Order{{Column: "due_date"}, {Column: "id"}}

func (r *SQLiteTaskRepo) ListByProject(ctx context.Context, projectID int64) ([]*domain.Task, error) {
	var rows []taskRow
	if err := r.store.Find(ctx, "tasks", &rows, Query{
		Where:   []Criterion{Eq("project_id", projectID)},
		OrderBy: dueOrder,
	}); err != nil {
		return nil, err
	}
	return convertRows(rows, (*taskRow).toDomain)
}

func (r *SQLiteTaskRepo) ListByHabit(ctx context.Context, habitID int64) ([]*domain.Task, error) {
	var rows []taskRow
	if err := r.store.Find(ctx, "tasks", &rows, Query{
		Where:   []Criterion{Eq("habit_id", habitID)},
		OrderBy: dueOrder,
	}); err != nil {
		return nil, err
	}
	return convertRows(rows, (*taskRow).toDomain)
}

func (r *SQLiteTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = nowUTC()
	}
	return r.store.Update(ctx, "tasks", t.ID, taskFields(t))
}

// Delete removes the task and, by cascade, its executions.
func (r *SQLiteTaskRepo) Delete(ctx context.Context, id int64) error {
	return r.store.Delete(ctx, "tasks", id)
}
