package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nodusapp/nodus/internal/db"
	"github.com/nodusapp/nodus/internal/domain"
)

// locationColumns maps the optional location shared by habits and tasks.
type locationColumns struct {
	LocationName string          `db:"location_name"`
	LocationLat  sql.NullFloat64 `db:"location_lat"`
	LocationLon  sql.NullFloat64 `db:"location_lon"`
}

func (l locationColumns) toDomain() domain.Location {
	return domain.Location{Name: l.LocationName, Lat: floatPtr(l.LocationLat), Lon: floatPtr(l.LocationLon)}
}

func locationFields(f Fields, l domain.Location) {
	f["location_name"] = l.Name
	f["location_lat"] = nullableFloat(l.Lat)
	f["location_lon"] = nullableFloat(l.Lon)
}

// SQLiteHabitRepo implements HabitRepo using a SQLite database.
type SQLiteHabitRepo struct {
	store *SQLiteStore
}

func NewSQLiteHabitRepo(d db.DBTX) *SQLiteHabitRepo {
	return &SQLiteHabitRepo{store: NewSQLiteStore(d)}
}

type habitRow struct {
	ID             int64         `db:"id"`
	ProjectID      int64         `db:"project_id"`
	Title          string        `db:"title"`
	IsStrict       bool          `db:"is_strict"`
	CompletionMode int           `db:"completion_mode"`
	CountGoal      int           `db:"count_goal"`
	DueMinutes     sql.NullInt64 `db:"due_minutes"`
	BeginAt        string        `db:"begin_at"`
	RecurrenceRule string        `db:"recurrence_rule"`
	locationColumns
	stamps
}

func (r *habitRow) toDomain() (*domain.Habit, error) {
	created, updated, err := r.stamps.parse()
	if err != nil {
		return nil, fmt.Errorf("habit %d: %w", r.ID, err)
	}
	beginAt, err := parseTime("begin_at", r.BeginAt)
	if err != nil {
		return nil, fmt.Errorf("habit %d: %w", r.ID, err)
	}
	return &domain.Habit{
		ID:             r.ID,
		ProjectID:      r.ProjectID,
		Title:          r.Title,
		IsStrict:       r.IsStrict,
		CompletionMode: domain.CompletionMode(r.CompletionMode),
		CountGoal:      r.CountGoal,
		DueMinutes:     intPtr(r.DueMinutes),
		BeginAt:        beginAt,
		RecurrenceRule: r.RecurrenceRule,
		Location:       r.locationColumns.toDomain(),
		CreatedAt:      created,
		UpdatedAt:      updated,
	}, nil
}

func habitFields(h *domain.Habit) Fields {
	f := Fields{
		"project_id":      h.ProjectID,
		"title":           h.Title,
		"is_strict":       boolToInt(h.IsStrict),
		"completion_mode": int(h.CompletionMode),
		"count_goal":      h.CountGoal,
		"due_minutes":     nullableInt(h.DueMinutes),
		"begin_at":        formatTime(h.BeginAt),
		"recurrence_rule": h.RecurrenceRule,
		"updated_at":      formatTime(h.UpdatedAt),
	}
	locationFields(f, h.Location)
	return f
}

func (r *SQLiteHabitRepo) Create(ctx context.Context, h *domain.Habit) error {
	stampNew(&h.CreatedAt, &h.UpdatedAt)
	fields := habitFields(h)
	fields["created_at"] = formatTime(h.CreatedAt)
	id, err := r.store.Create(ctx, "habits", fields)
	if err != nil {
		return err
	}
	h.ID = id
	return nil
}

func (r *SQLiteHabitRepo) GetByID(ctx context.Context, id int64) (*domain.Habit, error) {
	var row habitRow
	if err := r.store.Get(ctx, "habits", id, &row); err != nil {
		return nil, err
	}
	return row.toDomain()
}

func (r *SQLiteHabitRepo) ListByProject(ctx context.Context, projectID int64) ([]*domain.Habit, error) {
	var rows []habitRow
	if err := r.store.Find(ctx, "habits", &rows, Query{Where: []Criterion{Eq("project_id", projectID)}}); err != nil {
		return nil, err
	}
	return convertRows(rows, (*habitRow).toDomain)
}

func (r *SQLiteHabitRepo) Update(ctx context.Context, h *domain.Habit) error {
	if h.UpdatedAt.IsZero() {
		h.UpdatedAt = nowUTC()
	}
	return r.store.Update(ctx, "habits", h.ID, habitFields(h))
}

// Delete removes the habit. Spawned tasks keep existing with habit_id
// cleared.
func (r *SQLiteHabitRepo) Delete(ctx context.Context, id int64) error {
	return r.store.Delete(ctx, "habits", id)
}
