package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/MrJamesThe3rd/fonda/internal/ledger"
)

// Store writes ledger records straight into Postgres, for deployments that reach the
// database directly instead of through PostgREST.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Insert stores rows with one INSERT ... RETURNING * statement. The column list is the
// union of the rows' keys; a row lacking a column gets the column default.
func (s *Store) Insert(ctx context.Context, collection string, rows []ledger.Record) ([]ledger.Record, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	query, args, err := buildInsert(collection, rows)
	if err != nil {
		return nil, err
	}

	result, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("inserting into %s: %w", collection, err)
	}

	return scanRecords(result)
}

// List returns the rows of collection whose date lies within [from, to], oldest first.
// A zero bound is left open.
func (s *Store) List(ctx context.Context, collection string, from, to time.Time) ([]map[string]any, error) {
	query := `SELECT * FROM ` + pgx.Identifier{collection}.Sanitize() + ` WHERE TRUE`

	var args []any

	argIdx := 1

	if !from.IsZero() {
		query += fmt.Sprintf(" AND date >= $%d", argIdx)

		args = append(args, from.Format(time.DateOnly))
		argIdx++
	}

	if !to.IsZero() {
		query += fmt.Sprintf(" AND date <= $%d", argIdx)

		args = append(args, to.Format(time.DateOnly))
	}

	query += " ORDER BY date ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", collection, err)
	}

	return scanRecords(rows)
}

func buildInsert(collection string, rows []ledger.Record) (string, []any, error) {
	table := pgx.Identifier{collection}.Sanitize()
	columns := columnsOf(rows)

	if len(columns) == 0 {
		if len(rows) > 1 {
			return "", nil, errors.New("cannot insert several rows without columns")
		}

		return `INSERT INTO ` + table + ` DEFAULT VALUES RETURNING *`, nil, nil
	}

	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = pgx.Identifier{c}.Sanitize()
	}

	var (
		args   []any
		tuples = make([]string, 0, len(rows))
	)

	for _, row := range rows {
		placeholders := make([]string, len(columns))

		for i, c := range columns {
			v, ok := row[c]
			if !ok {
				placeholders[i] = "DEFAULT"
				continue
			}

			arg, err := sqlValue(v)
			if err != nil {
				return "", nil, fmt.Errorf("column %s: %w", c, err)
			}

			args = append(args, arg)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}

		tuples = append(tuples, "("+strings.Join(placeholders, ", ")+")")
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s RETURNING *",
		table, strings.Join(quoted, ", "), strings.Join(tuples, ", "))

	return query, args, nil
}

func columnsOf(rows []ledger.Record) []string {
	seen := make(map[string]struct{})

	var columns []string

	for _, row := range rows {
		for k := range row {
			if _, ok := seen[k]; ok {
				continue
			}

			seen[k] = struct{}{}
			columns = append(columns, k)
		}
	}

	sort.Strings(columns)

	return columns
}

// sqlValue converts decoded JSON values into something database/sql can bind.
// Objects and arrays are bound as JSON text for json/jsonb columns.
func sqlValue(v any) (any, error) {
	switch v := v.(type) {
	case json.Number:
		return v.String(), nil
	case map[string]any, []any:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}

		return string(b), nil
	}

	return v, nil
}

func scanRecords(rows *sql.Rows) ([]ledger.Record, error) {
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading columns: %w", err)
	}

	var records []ledger.Record

	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))

		for i := range values {
			dest[i] = &values[i]
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		rec := make(ledger.Record, len(columns))
		for i, c := range columns {
			if b, ok := values[i].([]byte); ok {
				rec[c] = string(b)
				continue
			}

			rec[c] = values[i]
		}

		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	return records, nil
}
