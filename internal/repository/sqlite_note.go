package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/nodusapp/nodus/internal/db"
	"github.com/nodusapp/nodus/internal/domain"
)

// SQLiteNoteRepo implements NoteRepo using a SQLite database.
type SQLiteNoteRepo struct {
	store *SQLiteStore
}

func NewSQLiteNoteRepo(d db.DBTX) *SQLiteNoteRepo {
	return &SQLiteNoteRepo{store: NewSQLiteStore(d)}
}

type noteRow struct {
	ID        int64  `db:"id"`
	ProjectID int64  `db:"project_id"`
	Title     string `db:"title"`
	Content   string `db:"content"`
	stamps
}

func (r *noteRow) toDomain() (*domain.Note, error) {
	created, updated, err := r.stamps.parse()
	if err != nil {
		return nil, fmt.Errorf("note %d: %w", r.ID, err)
	}
	return &domain.Note{
		ID:        r.ID,
		ProjectID: r.ProjectID,
		Title:     r.Title,
		Content:   r.Content,
		CreatedAt: created,
		UpdatedAt: updated,
	}, nil
}

func noteFields(n *domain.Note) Fields {
	return Fields{
		"project_id": n.ProjectID,
		"title":      n.Title,
		"content":    n.Content,
		"updated_at": formatTime(n.UpdatedAt),
	}
}

func (r *SQLiteNoteRepo) Create(ctx context.Context, n *domain.Note) error {
	stampNew(&n.CreatedAt, &n.UpdatedAt)
	fields := noteFields(n)
	fields["created_at"] = formatTime(n.CreatedAt)
	id, err := r.store.Create(ctx, "notes", fields)
	if err != nil {
		return err
	}
	n.ID = id
	return nil
}

func (r *SQLiteNoteRepo) GetByID(ctx context.Context, id int64) (*domain.Note, error) {
	var row noteRow
	if err := r.store.Get(ctx, "notes", id, &row); err != nil {
		return nil, err
	}
	return row.toDomain()
}

func (r *SQLiteNoteRepo) Update(ctx context.Context, n *domain.Note) error {
	if n.UpdatedAt.IsZero() {
		n.UpdatedAt = nowUTC()
	}
	return r.store.Update(ctx, "notes", n.ID, noteFields(n))
}

func (r *SQLiteNoteRepo) Delete(ctx context.Context, id int64) error {
	return r.store.Delete(ctx, "notes", id)
}

func (r *SQLiteNoteRepo) Search(ctx context.Context, projectID int64, text string, page, pageSize int) ([]*domain.Note, PageInfo, error) {
	q := Query{
		Where:   []Criterion{Eq("project_id", projectID)},
		OrderBy: []Order{{Column: "updated_at", Desc: true}, {Column: "id", Desc: true}},
	}
	if text = strings.TrimSpace(text); text != "" {
		pattern := Contains(text)
		q.Where = append(q.Where, Or(Like("title", pattern), Like("content", pattern)))
	}

	var rows []noteRow
	info, err := r.store.Paginate(ctx, "notes", &rows, page, pageSize, q)
	if err != nil {
		return nil, PageInfo{}, err
	}
	notes, err := convertRows(rows, (*noteRow).toDomain)
	if err != nil {
		return nil, PageInfo{}, err
	}
	return notes, info, nil
}
