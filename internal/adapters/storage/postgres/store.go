package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"health-directory/internal/ports/recordstore"
)

// Store implementa recordstore.Store sobre tablas con columna id text/uuid.
// Las filas salen con row_to_json y entran con json_populate_record, así el
// esquema manda sobre los tipos.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

var _ recordstore.Store = (*Store)(nil)

// where arma "WHERE a = $n AND ..." empezando en argN.
func where(filters []recordstore.Filter, argN int) (string, []any) {
	if len(filters) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(filters))
	args := make([]any, 0, len(filters))
	for _, f := range filters {
		parts = append(parts, fmt.Sprintf("t.%s = $%d", f.Column, argN))
		args = append(args, sqlValue(f.Value))
		argN++
	}
	return " WHERE " + strings.Join(parts, " AND "), args
}

func sqlValue(v any) any {
	switch t := v.(type) {
	case json.Number:
		return t.String()
	}
	return v
}

func (s *Store) Select(ctx context.Context, q recordstore.Query) ([]json.RawMessage, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	sb := strings.Builder{}
	sb.WriteString("SELECT row_to_json(t) FROM " + q.Table + " t")

	w, args := where(q.Filters, 1)
	sb.WriteString(w)

	if len(q.Order) > 0 {
		parts := make([]string, 0, len(q.Order))
		for _, o := range q.Order {
			dir := "ASC"
			if o.Desc {
				dir = "DESC"
			}
			parts = append(parts, fmt.Sprintf("t.%s %s NULLS LAST", o.Column, dir))
		}
		sb.WriteString(" ORDER BY " + strings.Join(parts, ", "))
	}
	if q.Limit > 0 {
		sb.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)+1))
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]json.RawMessage, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		out = append(out, json.RawMessage(raw))
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, table, id string) (json.RawMessage, error) {
	if err := recordstore.ValidateTable(table); err != nil {
		return nil, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, recordstore.ErrNotFound
	}

	var raw []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT row_to_json(t) FROM "+table+" t WHERE t.id::text = $1", id,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, recordstore.ErrNotFound
		}
		return nil, err
	}
	return raw, nil
}

func (s *Store) Insert(ctx context.Context, table string, row any) (json.RawMessage, error) {
	if err := recordstore.ValidateTable(table); err != nil {
		return nil, err
	}
	r, err := recordstore.ToRow(row)
	if err != nil {
		return nil, err
	}
	if _, err := r.ID(); err != nil {
		return nil, err
	}
	cols, err := columns(r)
	if err != nil {
		return nil, err
	}

	// Sólo las columnas presentes; el resto toma el default de la tabla.
	q := fmt.Sprintf(
		"INSERT INTO %[1]s AS t (%[2]s) SELECT %[2]s FROM json_populate_record(NULL::%[1]s, $1::json) RETURNING row_to_json(t)",
		table, strings.Join(cols, ", "),
	)

	var raw []byte
	if err := s.db.QueryRowContext(ctx, q, string(r.Raw())).Scan(&raw); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("%w: %s", recordstore.ErrConflict, pgErr.Detail)
		}
		return nil, err
	}
	return raw, nil
}

func (s *Store) Update(ctx context.Context, table, id string, patch any) (json.RawMessage, error) {
	if err := recordstore.ValidateTable(table); err != nil {
		return nil, err
	}
	p, err := recordstore.ToRow(patch)
	if err != nil {
		return nil, err
	}
	delete(p, "id")
	if len(p) == 0 {
		return s.Get(ctx, table, id)
	}
	cols, err := columns(p)
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf(
		"UPDATE %[1]s AS t SET (%[2]s) = (SELECT %[2]s FROM json_populate_record(NULL::%[1]s, $1::json)) WHERE t.id::text = $2 RETURNING row_to_json(t)",
		table, strings.Join(cols, ", "),
	)
	if len(cols) == 1 {
		// Postgres exige ROW(...) para un único elemento en SET (a) = (...)
		q = fmt.Sprintf(
			"UPDATE %[1]s AS t SET %[2]s = (SELECT %[2]s FROM json_populate_record(NULL::%[1]s, $1::json)) WHERE t.id::text = $2 RETURNING row_to_json(t)",
			table, cols[0],
		)
	}

	var raw []byte
	if err := s.db.QueryRowContext(ctx, q, string(p.Raw()), id).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, recordstore.ErrNotFound
		}
		return nil, err
	}
	return raw, nil
}

func (s *Store) Delete(ctx context.Context, table, id string) error {
	if err := recordstore.ValidateTable(table); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, "DELETE FROM "+table+" t WHERE t.id::text = $1", id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return recordstore.ErrNotFound
	}
	return nil
}

func (s *Store) Count(ctx context.Context, table string, filters ...recordstore.Filter) (int, error) {
	if err := recordstore.ValidateTable(table); err != nil {
		return 0, err
	}
	if err := recordstore.ValidateFilters(filters); err != nil {
		return 0, err
	}

	w, args := where(filters, 1)
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT count(*) FROM "+table+" t"+w, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// columns devuelve las keys validadas y ordenadas (SQL estable).
func columns(r recordstore.Row) ([]string, error) {
	cols := make([]string, 0, len(r))
	for k := range r {
		if err := recordstore.ValidateColumn(k); err != nil {
			return nil, err
		}
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols, nil
}
