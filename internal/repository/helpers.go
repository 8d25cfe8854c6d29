package repository

import (
	"database/sql"
	"fmt"
	"time"
)

// timeLayout is fixed width in UTC, so text order matches time order.
const timeLayout = time.RFC3339

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(column, s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s: %w", column, err)
	}
	return t, nil
}

// parseNullableTime parses a sql.NullString into a *time.Time.
// Returns nil if the value is NULL or empty.
func parseNullableTime(column string, s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := parseTime(column, s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// nullableTime converts a *time.Time to a value suitable for SQLite storage.
// Returns nil (SQL NULL) if the pointer is nil.
func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableInt64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func int64Ptr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

// boolToInt converts a Go bool to an integer (0 or 1) for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// stamps carries the created_at/updated_at columns shared by every table.
type stamps struct {
	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
}

func (s stamps) parse() (time.Time, time.Time, error) {
	created, err := parseTime("created_at", s.CreatedAt)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	updated, err := parseTime("updated_at", s.UpdatedAt)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return created, updated, nil
}

// convertRows maps every row through fn, stopping at the first error.
func convertRows[R any, T any](rows []R, fn func(*R) (*T, error)) ([]*T, error) {
	out := make([]*T, 0, len(rows))
	for i := range rows {
		v, err := fn(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func nowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// stampNew fills zero creation stamps with the current time.
func stampNew(created, updated *time.Time) {
	if created.IsZero() {
		*created = nowUTC()
	}
	if updated.IsZero() {
		*updated = *created
	}
}
