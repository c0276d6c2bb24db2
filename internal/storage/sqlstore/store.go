// Package sqlstore holds the habit and notification queries shared by the
// SQLite and Postgres backends.
package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/sixtysix/internal/migration"
)

// ErrNotFound is returned when a habit does not exist.
var ErrNotFound = errors.New("not found")

// timeLayout is fixed width and always UTC so stored instants sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type Store struct {
	DB      *sql.DB
	Dialect migration.Dialect
}

func (s *Store) exec(query string, args ...any) (sql.Result, error) {
	return s.DB.Exec(s.Dialect.Rebind(query), args...)
}

func (s *Store) queryRow(query string, args ...any) *sql.Row {
	return s.DB.QueryRow(s.Dialect.Rebind(query), args...)
}

func (s *Store) query(query string, args ...any) (*sql.Rows, error) {
	return s.DB.Query(s.Dialect.Rebind(query), args...)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func formatNullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func parseTime(col, val string) (time.Time, error) {
	t, err := time.Parse(timeLayout, val)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", col, err)
	}
	return t, nil
}

func parseNullTime(col string, val sql.NullString) (*time.Time, error) {
	if !val.Valid {
		return nil, nil
	}
	t, err := parseTime(col, val.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
