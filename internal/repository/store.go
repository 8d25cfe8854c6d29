package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/nodusapp/nodus/internal/db"
	"github.com/nodusapp/nodus/internal/domain"
)

var identPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// tables maps every table the store may touch to the entity name used in
// not-found errors.
var tables = map[string]string{
	"projects":           "project",
	"currencies":         "currency",
	"habits":             "habit",
	"tasks":              "task",
	"task_executions":    "task execution",
	"finances":           "finance",
	"finance_executions": "finance execution",
	"notes":              "note",
}

type Op string

const (
	OpEq        Op = "="
	OpNe        Op = "!="
	OpGt        Op = ">"
	OpLt        Op = "<"
	OpGte       Op = ">="
	OpLte       Op = "<="
	OpLike      Op = "LIKE"
	OpIn        Op = "IN"
	OpIsNull    Op = "IS NULL"
	OpIsNotNull Op = "IS NOT NULL"
)

// Criterion is one column filter. Value is ignored by the NULL operators and
// must be a slice for IN. LIKE patterns use backslash as the escape
// character. A criterion built by Or holds only Any.
type Criterion struct {
	Column string
	Op     Op
	Value  any
	Any    []Criterion
}

func Eq(column string, v any) Criterion   { return Criterion{Column: column, Op: OpEq, Value: v} }
func Like(column string, v any) Criterion { return Criterion{Column: column, Op: OpLike, Value: v} }
func IsNull(column string) Criterion      { return Criterion{Column: column, Op: OpIsNull} }

// Or matches when any of criteria matches.
func Or(criteria ...Criterion) Criterion { return Criterion{Any: criteria} }

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Contains returns a LIKE pattern matching text anywhere, with wildcards
// in text taken literally.
func Contains(text string) string {
	return "%" + likeEscaper.Replace(text) + "%"
}

type Order struct {
	Column string
	Desc   bool
}

// Query narrows and orders Find and Paginate. The default order is id ASC.
type Query struct {
	Where   []Criterion
	OrderBy []Order
}

// Fields holds column values for Create and Update.
type Fields map[string]any

// PageInfo describes one page of a paginated listing. Page is 1-indexed.
type PageInfo struct {
	Page       int
	PageSize   int
	Total      int
	TotalPages int
}

// Store is the generic persistence port. Rows decode into structs with db
// tags through sqlx.
type Store interface {
	Get(ctx context.Context, table string, id int64, dest any) error
	Find(ctx context.Context, table string, dest any, q Query) error
	Paginate(ctx context.Context, table string, dest any, page, pageSize int, q Query) (PageInfo, error)
	Create(ctx context.Context, table string, fields Fields) (int64, error)
	Update(ctx context.Context, table string, id int64, fields Fields) error
	Delete(ctx context.Context, table string, id int64) error
	Count(ctx context.Context, table string, criteria ...Criterion) (int, error)
}

// SQLiteStore implements Store over any DBTX, so it works the same inside
// and outside a transaction.
type SQLiteStore struct {
	db db.DBTX
}

func NewSQLiteStore(d db.DBTX) *SQLiteStore {
	return &SQLiteStore{db: d}
}

var _ Store = (*SQLiteStore)(nil)

func (s *SQLiteStore) Get(ctx context.Context, table string, id int64, dest any) error {
	if err := checkTable(table); err != nil {
		return err
	}
	query := fmt.Sprintf(`SELECT * FROM %s WHERE id = ?`, table)
	if err := sqlx.GetContext(ctx, s.db, dest, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &domain.NotFoundError{Entity: tables[table], ID: id}
		}
		return fmt.Errorf("getting %s %d: %w", tables[table], id, err)
	}
	return nil
}

func (s *SQLiteStore) Find(ctx context.Context, table string, dest any, q Query) error {
	if err := checkTable(table); err != nil {
		return err
	}
	where, args, err := buildWhere(q.Where)
	if err != nil {
		return err
	}
	order, err := buildOrder(q.OrderBy)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`SELECT * FROM %s%s%s`, table, where, order)
	if err := sqlx.SelectContext(ctx, s.db, dest, query, args...); err != nil {
		return fmt.Errorf("finding %s rows: %w", tables[table], err)
	}
	return nil
}

func (s *SQLiteStore) Paginate(ctx context.Context, table string, dest any, page, pageSize int, q Query) (PageInfo, error) {
	if err := CheckPage(page, pageSize); err != nil {
		return PageInfo{}, err
	}
	if err := checkTable(table); err != nil {
		return PageInfo{}, err
	}
	total, err := s.Count(ctx, table, q.Where...)
	if err != nil {
		return PageInfo{}, err
	}
	where, args, err := buildWhere(q.Where)
	if err != nil {
		return PageInfo{}, err
	}
	order, err := buildOrder(q.OrderBy)
	if err != nil {
		return PageInfo{}, err
	}
	info := NewPageInfo(page, pageSize, total)
	offset, ok := pageOffset(info)
	if !ok {
		return info, nil
	}
	query := fmt.Sprintf(`SELECT * FROM %s%s%s LIMIT ? OFFSET ?`, table, where, order)
	args = append(args, pageSize, offset)
	if err := sqlx.SelectContext(ctx, s.db, dest, query, args...); err != nil {
		return PageInfo{}, fmt.Errorf("paginating %s rows: %w", tables[table], err)
	}
	return info, nil
}

func (s *SQLiteStore) Create(ctx context.Context, table string, fields Fields) (int64, error) {
	if err := checkTable(table); err != nil {
		return 0, err
	}
	cols, args, err := sortedFields(fields)
	if err != nil {
		return 0, err
	}
	if len(cols) == 0 {
		return 0, fmt.Errorf("inserting %s: no fields", tables[table])
	}
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		table, strings.Join(cols, ", "), strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", "))
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("inserting %s: %w", tables[table], err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading %s id: %w", tables[table], err)
	}
	return id, nil
}

func (s *SQLiteStore) Update(ctx context.Context, table string, id int64, fields Fields) error {
	if err := checkTable(table); err != nil {
		return err
	}
	cols, args, err := sortedFields(fields)
	if err != nil {
		return err
	}
	if len(cols) == 0 {
		return fmt.Errorf("updating %s: no fields", tables[table])
	}
	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = c + " = ?"
	}
	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = ?`, table, strings.Join(sets, ", "))
	res, err := s.db.ExecContext(ctx, query, append(args, id)...)
	if err != nil {
		return fmt.Errorf("updating %s: %w", tables[table], err)
	}
	return expectAffected(res, table, id)
}

func (s *SQLiteStore) Delete(ctx context.Context, table string, id int64) error {
	if err := checkTable(table); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, table), id)
	if err != nil {
		return fmt.Errorf("deleting %s: %w", tables[table], err)
	}
	return expectAffected(res, table, id)
}

func (s *SQLiteStore) Count(ctx context.Context, table string, criteria ...Criterion) (int, error) {
	if err := checkTable(table); err != nil {
		return 0, err
	}
	where, args, err := buildWhere(criteria)
	if err != nil {
		return 0, err
	}
	var n int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s%s`, table, where)
	if err := sqlx.GetContext(ctx, s.db, &n, query, args...); err != nil {
		return 0, fmt.Errorf("counting %s rows: %w", tables[table], err)
	}
	return n, nil
}

// CheckPage rejects pages and sizes below 1.
func CheckPage(page, pageSize int) error {
	verr := domain.NewValidationError("page")
	if page < 1 {
		verr.Add("page must be at least 1, got %d", page)
	}
	if pageSize < 1 {
		verr.Add("page size must be at least 1, got %d", pageSize)
	}
	return verr.Err()
}

func NewPageInfo(page, pageSize, total int) PageInfo {
	return PageInfo{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: total/pageSize + min(total%pageSize, 1),
	}
}

// pageOffset returns the row offset of the page. It reports false for a page
// past the last row, so huge page numbers never reach the OFFSET clause.
func pageOffset(info PageInfo) (int, bool) {
	if info.Page-1 >= info.TotalPages {
		return 0, false
	}
	return (info.Page - 1) * info.PageSize, true
}

func checkTable(table string) error {
	if _, ok := tables[table]; !ok || !identPattern.MatchString(table) {
		return fmt.Errorf("unknown table %q", table)
	}
	return nil
}

func checkColumn(column string) error {
	if !identPattern.MatchString(column) {
		return fmt.Errorf("invalid column name %q", column)
	}
	return nil
}

func buildWhere(criteria []Criterion) (string, []any, error) {
	if len(criteria) == 0 {
		return "", nil, nil
	}
	clauses := make([]string, 0, len(criteria))
	var args []any
	for _, c := range criteria {
		clause, cargs, err := c.toSQL()
		if err != nil {
			return "", nil, err
		}
		clauses = append(clauses, clause)
		args = append(args, cargs...)
	}
	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

func (c Criterion) toSQL() (string, []any, error) {
	if c.Any != nil {
		if len(c.Any) == 0 {
			return "1 = 0", nil, nil
		}
		clauses := make([]string, 0, len(c.Any))
		var args []any
		for _, sub := range c.Any {
			clause, subArgs, err := sub.toSQL()
			if err != nil {
				return "", nil, err
			}
			clauses = append(clauses, clause)
			args = append(args, subArgs...)
		}
		return "(" + strings.Join(clauses, " OR ") + ")", args, nil
	}
	if err := checkColumn(c.Column); err != nil {
		return "", nil, err
	}
	switch c.Op {
	case OpIsNull, OpIsNotNull:
		return c.Column + " " + string(c.Op), nil, nil
	case OpIn:
		v := reflect.ValueOf(c.Value)
		if v.Kind() != reflect.Slice {
			return "", nil, fmt.Errorf("IN on %s needs a slice, got %T", c.Column, c.Value)
		}
		if v.Len() == 0 {
			return "1 = 0", nil, nil
		}
		return sqlx.In(c.Column+" IN (?)", c.Value)
	case OpLike:
		return c.Column + ` LIKE ? ESCAPE '\'`, []any{c.Value}, nil
	case OpEq, OpNe, OpGt, OpLt, OpGte, OpLte:
		return c.Column + " " + string(c.Op) + " ?", []any{c.Value}, nil
	default:
		return "", nil, fmt.Errorf("unsupported operator %q", c.Op)
	}
}

func buildOrder(orders []Order) (string, error) {
	if len(orders) == 0 {
		return " ORDER BY id", nil
	}
	parts := make([]string, 0, len(orders))
	for _, o := range orders {
		if err := checkColumn(o.Column); err != nil {
			return "", err
		}
		dir := "ASC"
		if o.Desc {
			dir = "DESC"
		}
		parts = append(parts, o.Column+" "+dir)
	}
	return " ORDER BY " + strings.Join(parts, ", "), nil
}

// sortedFields returns column names in a stable order with matching args.
func sortedFields(fields Fields) ([]string, []any, error) {
	cols := make([]string, 0, len(fields))
	for c := range fields {
		if err := checkColumn(c); err != nil {
			return nil, nil, err
		}
		cols = append(cols, c)
	}
	sort.Strings(cols)
	args := make([]any, len(cols))
	for i, c := range cols {
		args[i] = fields[c]
	}
	return cols, args, nil
}

func expectAffected(res sql.Result, table string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected %s rows: %w", tables[table], err)
	}
	if n == 0 {
		return &domain.NotFoundError{Entity: tables[table], ID: id}
	}
	return nil
}
