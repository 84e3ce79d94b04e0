// AngelaMos | 2026
// repository.go

package attendance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/angelamos/gymstack/internal/core"
	"github.com/angelamos/gymstack/internal/store"
)

type Repository interface {
	CheckIn(ctx context.Context, userID, source string) (*AttendanceRecord, error)
	CloseOpen(ctx context.Context, userID string) (*AttendanceRecord, error)
	GetOpen(ctx context.Context, userID string) (*AttendanceRecord, error)
	History(
		ctx context.Context,
		userID string,
		params HistoryParams,
	) (*store.Page[AttendanceRecord], error)
	CurrentOccupancy(ctx context.Context) (int64, error)
	LogAccess(ctx context.Context, entry *AccessLogEntry) error
	AccessLog(
		ctx context.Context,
		params store.PageParams,
	) (*store.Page[AccessLogEntry], error)
}

type repository struct {
	records *store.Repository[AttendanceRecord]
	log     *store.Repository[AccessLogEntry]
	db      core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{
		records: store.NewRepository(
			store.New[AttendanceRecord](db, "attendance_records", Columns),
		),
		log: store.NewRepository(
			store.New[AccessLogEntry](db, "access_log", AccessLogColumns),
		),
		db: db,
	}
}

// CheckIn inserts a new open record only if the user has none. The guard and
// the insert are one statement, so two concurrent check-ins cannot both pass:
// the row-level conflict resolves in the database and the loser sees zero
// rows back.
func (r *repository) CheckIn(
	ctx context.Context,
	userID, source string,
) (*AttendanceRecord, error) {
	query := `
		INSERT INTO attendance_records (id, user_id, source)
		SELECT $1, $2, $3
		WHERE NOT EXISTS (
			SELECT 1 FROM attendance_records
			WHERE user_id = $2 AND checked_out_at IS NULL
		)
		RETURNING id, user_id, checked_in_at, checked_out_at, source, created_at`

	var record AttendanceRecord
	err := r.db.GetContext(ctx, &record, query, uuid.New().String(), userID, source)
	if err != nil {
		return nil, classifyCheckInError(err)
	}

	return &record, nil
}

// classifyCheckInError folds both "already checked in" shapes into one
// conflict: zero rows back from the guarded insert, or a unique violation
// from attendance_one_open_visit when two inserts pass the guard under
// read committed and the loser hits the partial index.
func classifyCheckInError(err error) error {
	var pgErr *pgconn.PgError
	if errors.Is(err, sql.ErrNoRows) ||
		(errors.As(err, &pgErr) && pgErr.Code == "23505") {
		return fmt.Errorf("check in: %w", core.ErrConflict)
	}
	return fmt.Errorf("check in: %w", err)
}

// CloseOpen stamps the open record, if any. Zero rows means there was no
// open visit to close.
func (r *repository) CloseOpen(
	ctx context.Context,
	userID string,
) (*AttendanceRecord, error) {
	query := `
		UPDATE attendance_records
		SET checked_out_at = NOW()
		WHERE user_id = $1 AND checked_out_at IS NULL
		RETURNING id, user_id, checked_in_at, checked_out_at, source, created_at`

	var record AttendanceRecord
	err := r.db.GetContext(ctx, &record, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("close open visit: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("close open visit: %w", err)
	}

	return &record, nil
}

func (r *repository) GetOpen(
	ctx context.Context,
	userID string,
) (*AttendanceRecord, error) {
	return r.records.Store().FindOne(ctx, store.Query{
		Filter: store.Filter{"user_id": userID, "checked_out_at": nil},
	})
}

// History needs range predicates on checked_in_at, which the filter map does
// not express, so the query is built here.
func (r *repository) History(
	ctx context.Context,
	userID string,
	params HistoryParams,
) (*store.Page[AttendanceRecord], error) {
	params.Normalize()

	where := "user_id = $1"
	args := []any{userID}

	if params.From != nil {
		args = append(args, *params.From)
		where += " AND checked_in_at >= $" + strconv.Itoa(len(args))
	}
	if params.To != nil {
		args = append(args, *params.To)
		where += " AND checked_in_at < $" + strconv.Itoa(len(args))
	}

	countQuery := "SELECT COUNT(*) FROM attendance_records WHERE " + where

	var total int64
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, fmt.Errorf("count history: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, user_id, checked_in_at, checked_out_at, source, created_at
		FROM attendance_records
		WHERE %s
		ORDER BY checked_in_at DESC
		LIMIT %d OFFSET %d`, where, params.Limit, params.Offset())

	records := []AttendanceRecord{}
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	return &store.Page[AttendanceRecord]{
		Data:       records,
		Pagination: store.NewPagination(params.PageParams, total),
	}, nil
}

func (r *repository) CurrentOccupancy(ctx context.Context) (int64, error) {
	return r.records.Store().Count(ctx, store.Query{
		Filter: store.Filter{"checked_out_at": nil},
	})
}

func (r *repository) LogAccess(
	ctx context.Context,
	entry *AccessLogEntry,
) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	return r.log.Create(ctx, entry)
}

func (r *repository) AccessLog(
	ctx context.Context,
	params store.PageParams,
) (*store.Page[AccessLogEntry], error) {
	return r.log.Paginate(ctx, store.Query{
		Sort: "occurred_at DESC",
	}, params)
}
