package repository

import (
	"context"
	"fmt"

	"github.com/nodusapp/nodus/internal/db"
	"github.com/nodusapp/nodus/internal/domain"
)

// SQLiteProjectRepo implements ProjectRepo using a SQLite database.
type SQLiteProjectRepo struct {
	store *SQLiteStore
}

// NewSQLiteProjectRepo creates a new SQLiteProjectRepo.
func NewSQLiteProjectRepo(d db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{store: NewSQLiteStore(d)}
}

type projectRow struct {
	ID    int64  `db:"id"`
	Name  string `db:"name"`
	Color string `db:"color"`
	Icon  string `db:"icon"`
	stamps
}

func (r *projectRow) toDomain() (*domain.Project, error) {
	created, updated, err := r.stamps.parse()
	if err != nil {
		return nil, fmt.Errorf("project %d: %w", r.ID, err)
	}
	return &domain.Project{
		ID:        r.ID,
		Name:      r.Name,
		Color:     r.Color,
		Icon:      r.Icon,
		CreatedAt: created,
		UpdatedAt: updated,
	}, nil
}

func projectFields(p *domain.Project) Fields {
	return Fields{
		"name":       p.Name,
		"color":      p.Color,
		"icon":       p.Icon,
		"updated_at": formatTime(p.UpdatedAt),
	}
}

func (r *SQLiteProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	stampNew(&p.CreatedAt, &p.UpdatedAt)
	fields := projectFields(p)
	fields["created_at"] = formatTime(p.CreatedAt)
	id, err := r.store.Create(ctx, "projects", fields)
	if err != nil {
		return err
	}
	p.ID = id
	return nil
}

func (r *SQLiteProjectRepo) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	var row projectRow
	if err := r.store.Get(ctx, "projects", id, &row); err != nil {
		return nil, err
	}
	return row.toDomain()
}

func (r *SQLiteProjectRepo) List(ctx context.Context) ([]*domain.Project, error) {
	var rows []projectRow
	if err := r.store.Find(ctx, "projects", &rows, Query{OrderBy: []Order{{Column: "name"}, {Column: "id"}}}); err != nil {
		return nil, err
	}
	return convertRows(rows, (*projectRow).toDomain)
}

func (r *SQLiteProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = nowUTC()
	}
	return r.store.Update(ctx, "projects", p.ID, projectFields(p))
}

// Delete removes the project; habits, tasks, finances and notes cascade.
func (r *SQLiteProjectRepo) Delete(ctx context.Context, id int64) error {
	return r.store.Delete(ctx, "projects", id)
}

// SQLiteCurrencyRepo implements CurrencyRepo over the seeded currencies table.
type SQLiteCurrencyRepo struct {
	store *SQLiteStore
}

func NewSQLiteCurrencyRepo(d db.DBTX) *SQLiteCurrencyRepo {
	return &SQLiteCurrencyRepo{store: NewSQLiteStore(d)}
}

type currencyRow struct {
	ID     int64  `db:"id"`
	Code   string `db:"code"`
	Name   string `db:"name"`
	Symbol string `db:"symbol"`
	stamps
}

func (r *currencyRow) toDomain() (*domain.Currency, error) {
	created, updated, err := r.stamps.parse()
	if err != nil {
		return nil, fmt.Errorf("currency %d: %w", r.ID, err)
	}
	return &domain.Currency{
		ID:        r.ID,
		Code:      r.Code,
		Name:      r.Name,
		Symbol:    r.Symbol,
		CreatedAt: created,
		UpdatedAt: updated,
	}, nil
}

func (r *SQLiteCurrencyRepo) GetByID(ctx context.Context, id int64) (*domain.Currency, error) {
	var row currencyRow
	if err := r.store.Get(ctx, "currencies", id, &row); err != nil {
		return nil, err
	}
	return row.toDomain()
}

// GetByCode looks a currency up by its three-letter code, ignoring case.
func (r *SQLiteCurrencyRepo) GetByCode(ctx context.Context, code string) (*domain.Currency, error) {
	var rows []currencyRow
	if err := r.store.Find(ctx, "currencies", &rows, Query{Where: []Criterion{
		{Column: "code", Op: OpLike, Value: code},
	}}); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &domain.NotFoundError{Entity: "currency", Key: code}
	}
	return rows[0].toDomain()
}

func (r *SQLiteCurrencyRepo) List(ctx context.Context) ([]*domain.Currency, error) {
	var rows []currencyRow
	if err := r.store.Find(ctx, "currencies", &rows, Query{}); err != nil {
		return nil, err
	}
	return convertRows(rows, (*currencyRow).toDomain)
}
