// AngelaMos | 2026
// sql.go

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/angelamos/gymstack/internal/core"
)

const (
	pgUniqueViolation = "23505"
	pgInvalidText     = "22P02"
)

type sqlStore[T any] struct {
	db          core.DBTX
	table       string
	columns     []string
	insertQuery string
}

// New builds a SQL-backed Store for one table. columns lists the insertable
// columns; they must match the entity's db tags.
func New[T any](db core.DBTX, table string, columns []string) Store[T] {
	placeholders := make([]string, len(columns))
	for i, col := range columns {
		placeholders[i] = ":" + col
	}

	insertQuery := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) RETURNING *",
		table,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
	)

	return &sqlStore[T]{
		db:          db,
		table:       table,
		columns:     columns,
		insertQuery: insertQuery,
	}
}

func (s *sqlStore[T]) WithTx(tx *sqlx.Tx) Store[T] {
	bound := *s
	bound.db = tx
	return &bound
}

func (s *sqlStore[T]) FindByID(ctx context.Context, id string) (*T, error) {
	return s.FindOne(ctx, Query{Filter: Filter{"id": id}})
}

func (s *sqlStore[T]) FindOne(ctx context.Context, q Query) (*T, error) {
	query, args := s.selectQuery(q, 1)

	var entity T
	err := s.db.GetContext(ctx, &entity, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find %s: %w", s.table, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", s.table, translateError(err))
	}

	return &entity, nil
}

func (s *sqlStore[T]) Find(ctx context.Context, q Query) ([]T, error) {
	query, args := s.selectQuery(q, q.Limit)

	var entities []T
	if err := s.db.SelectContext(ctx, &entities, query, args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", s.table, translateError(err))
	}

	return entities, nil
}

func (s *sqlStore[T]) Create(ctx context.Context, entity *T) error {
	rows, err := sqlx.NamedQueryContext(ctx, s.db, s.insertQuery, entity)
	if err != nil {
		return fmt.Errorf("create %s: %w", s.table, translateError(err))
	}
	defer rows.Close() //nolint:errcheck // read-side close

	if !rows.Next() {
		return fmt.Errorf("create %s: no row returned", s.table)
	}

	if err := rows.StructScan(entity); err != nil {
		return fmt.Errorf("create %s: %w", s.table, err)
	}

	return rows.Err()
}

func (s *sqlStore[T]) BulkCreate(ctx context.Context, entities []T) error {
	if len(entities) == 0 {
		return nil
	}

	query := strings.TrimSuffix(s.insertQuery, " RETURNING *")
	if _, err := sqlx.NamedExecContext(ctx, s.db, query, entities); err != nil {
		return fmt.Errorf("bulk create %s: %w", s.table, translateError(err))
	}

	return nil
}

func (s *sqlStore[T]) Update(
	ctx context.Context,
	id string,
	set map[string]any,
) (*T, error) {
	setClause, args := buildSet(set, 1)
	args = append(args, id)

	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE id = $%d RETURNING *",
		s.table,
		setClause,
		len(args),
	)

	var entity T
	err := s.db.GetContext(ctx, &entity, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update %s: %w", s.table, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", s.table, translateError(err))
	}

	return &entity, nil
}

func (s *sqlStore[T]) UpdateMany(
	ctx context.Context,
	q Query,
	set map[string]any,
) (int64, error) {
	setClause, args := buildSet(set, 1)
	whereClause, args := buildWhere(q.Filter, args)

	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE %s",
		s.table,
		setClause,
		whereClause,
	)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("update %s: %w", s.table, translateError(err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update %s: %w", s.table, err)
	}

	return rows, nil
}

func (s *sqlStore[T]) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", s.table)

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", s.table, translateError(err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s: %w", s.table, err)
	}

	if rows == 0 {
		return fmt.Errorf("delete %s: %w", s.table, core.ErrNotFound)
	}

	return nil
}

func (s *sqlStore[T]) Count(ctx context.Context, q Query) (int64, error) {
	whereClause, args := buildWhere(q.Filter, nil)

	query := fmt.Sprintf(
		"SELECT COUNT(*) FROM %s WHERE %s",
		s.table,
		whereClause,
	)

	var total int64
	if err := s.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("count %s: %w", s.table, translateError(err))
	}

	return total, nil
}

func (s *sqlStore[T]) EstimatedCount(ctx context.Context) (int64, error) {
	query := `SELECT reltuples::bigint FROM pg_class WHERE relname = $1`

	var estimate int64
	err := s.db.GetContext(ctx, &estimate, query, s.table)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("estimate %s: %w", s.table, err)
	}

	// reltuples is -1 before the table is first analyzed.
	if estimate < 0 {
		estimate = 0
	}

	return estimate, nil
}

func (s *sqlStore[T]) GroupCount(
	ctx context.Context,
	column string,
	q Query,
) (map[string]int64, error) {
	whereClause, args := buildWhere(q.Filter, nil)

	query := fmt.Sprintf(
		"SELECT %s AS key, COUNT(*) AS total FROM %s WHERE %s GROUP BY %s",
		column,
		s.table,
		whereClause,
		column,
	)

	var groups []struct {
		Key   sql.NullString `db:"key"`
		Total int64          `db:"total"`
	}
	if err := s.db.SelectContext(ctx, &groups, query, args...); err != nil {
		return nil, fmt.Errorf("group %s: %w", s.table, translateError(err))
	}

	out := make(map[string]int64, len(groups))
	for _, g := range groups {
		if g.Key.Valid {
			out[g.Key.String] = g.Total
		}
	}

	return out, nil
}

func (s *sqlStore[T]) Distinct(
	ctx context.Context,
	column string,
	q Query,
) ([]string, error) {
	whereClause, args := buildWhere(q.Filter, nil)

	query := fmt.Sprintf(
		"SELECT DISTINCT %s FROM %s WHERE %s ORDER BY %s",
		column,
		s.table,
		whereClause,
		column,
	)

	var values []string
	if err := s.db.SelectContext(ctx, &values, query, args...); err != nil {
		return nil, fmt.Errorf("distinct %s: %w", s.table, translateError(err))
	}

	return values, nil
}

func (s *sqlStore[T]) selectQuery(q Query, limit int) (string, []any) {
	cols := "*"
	if len(q.Columns) > 0 {
		cols = strings.Join(q.Columns, ", ")
	}

	whereClause, args := buildWhere(q.Filter, nil)

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s WHERE %s", cols, s.table, whereClause)

	if q.Sort != "" {
		fmt.Fprintf(&b, " ORDER BY %s", q.Sort)
	}

	if limit > 0 {
		args = append(args, limit)
		fmt.Fprintf(&b, " LIMIT $%d", len(args))
	}

	if q.Offset > 0 {
		args = append(args, q.Offset)
		fmt.Fprintf(&b, " OFFSET $%d", len(args))
	}

	return b.String(), args
}

// buildWhere renders a filter as ANDed conditions with deterministic column
// order. nil values become IS NULL, NotNull becomes IS NOT NULL.
func buildWhere(f Filter, args []any) (string, []any) {
	if len(f) == 0 {
		return "TRUE", args
	}

	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	conditions := make([]string, 0, len(keys))
	for _, k := range keys {
		switch v := f[k]; v {
		case nil:
			conditions = append(conditions, k+" IS NULL")
		case any(NotNull):
			conditions = append(conditions, k+" IS NOT NULL")
		default:
			args = append(args, v)
			conditions = append(conditions, fmt.Sprintf("%s = $%d", k, len(args)))
		}
	}

	return strings.Join(conditions, " AND "), args
}

func buildSet(set map[string]any, argStart int) (string, []any) {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]any, 0, len(keys))
	assignments := make([]string, 0, len(keys))
	for _, k := range keys {
		if set[k] == nil {
			assignments = append(assignments, k+" = NULL")
			continue
		}
		args = append(args, set[k])
		assignments = append(
			assignments,
			fmt.Sprintf("%s = $%d", k, argStart+len(args)-1),
		)
	}

	return strings.Join(assignments, ", "), args
}

func translateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return core.ErrDuplicateKey
		case pgInvalidText:
			return core.ErrInvalidInput
		}
	}
	return err
}
