// AngelaMos | 2026
// repository.go

package class

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/angelamos/gymstack/internal/core"
	"github.com/angelamos/gymstack/internal/store"
)

var (
	ErrClassFull         = errors.New("class is full")
	ErrScheduleCanceled  = errors.New("schedule canceled")
	ErrAlreadyRegistered = errors.New("already registered")
)

type Repository interface {
	CreateClass(ctx context.Context, c *FitnessClass) error
	GetClass(ctx context.Context, id string) (*FitnessClass, error)
	UpdateClass(
		ctx context.Context,
		id string,
		set map[string]any,
	) (*FitnessClass, error)
	DeleteClass(ctx context.Context, id string) error
	ListClasses(
		ctx context.Context,
		params ListClassesParams,
	) (*store.Page[FitnessClass], error)
	Categories(ctx context.Context) ([]string, error)

	CreateSchedule(ctx context.Context, s *ClassSchedule) error
	GetSchedule(ctx context.Context, id string) (*scheduleRow, error)
	CancelSchedule(ctx context.Context, id string) error
	ListSchedules(
		ctx context.Context,
		params ListSchedulesParams,
	) (*store.Page[scheduleRow], error)

	Register(
		ctx context.Context,
		scheduleID, userID string,
	) (*ClassRegistration, error)
	CancelRegistration(ctx context.Context, scheduleID, userID string) error
	ListRegistrations(
		ctx context.Context,
		scheduleID string,
		params store.PageParams,
	) (*store.Page[ClassRegistration], error)
	ListUserRegistrations(
		ctx context.Context,
		userID string,
		params store.PageParams,
	) (*store.Page[ClassRegistration], error)
}

// scheduleRow is a schedule with its live registration count attached.
type scheduleRow struct {
	ClassSchedule
	Registered int64 `db:"registered"`
}

type repository struct {
	classes       *store.Repository[FitnessClass]
	schedules     *store.Repository[ClassSchedule]
	registrations *store.Repository[ClassRegistration]
	db            *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{
		classes: store.NewRepository(
			store.New[FitnessClass](db, "fitness_classes", ClassColumns),
		),
		schedules: store.NewRepository(
			store.New[ClassSchedule](db, "class_schedules", ScheduleColumns),
		),
		registrations: store.NewRepository(
			store.New[ClassRegistration](
				db,
				"class_registrations",
				RegistrationColumns,
			),
		),
		db: db,
	}
}

func (r *repository) CreateClass(ctx context.Context, c *FitnessClass) error {
	return r.classes.Create(ctx, c)
}

func (r *repository) GetClass(
	ctx context.Context,
	id string,
) (*FitnessClass, error) {
	return r.classes.FindActive(ctx, id)
}

func (r *repository) UpdateClass(
	ctx context.Context,
	id string,
	set map[string]any,
) (*FitnessClass, error) {
	set["updated_at"] = time.Now()
	return r.classes.Store().Update(ctx, id, set)
}

func (r *repository) DeleteClass(ctx context.Context, id string) error {
	return r.classes.SoftDelete(ctx, id)
}

func (r *repository) ListClasses(
	ctx context.Context,
	params ListClassesParams,
) (*store.Page[FitnessClass], error) {
	filter := store.Filter{}
	if params.Category != "" {
		filter["category"] = params.Category
	}

	return r.classes.Paginate(ctx, store.Query{
		Filter: store.NotDeleted(filter),
		Sort:   "name ASC",
	}, params.PageParams)
}

func (r *repository) Categories(ctx context.Context) ([]string, error) {
	return r.classes.Store().Distinct(ctx, "category", store.Query{
		Filter: store.NotDeleted(nil),
	})
}

func (r *repository) CreateSchedule(
	ctx context.Context,
	s *ClassSchedule,
) error {
	return r.schedules.Create(ctx, s)
}

const scheduleSelect = `
	SELECT
		s.id, s.class_id, s.instructor_id, s.room, s.starts_at, s.ends_at,
		s.capacity, s.canceled_at, s.created_at, s.updated_at,
		(
			SELECT COUNT(*) FROM class_registrations cr
			WHERE cr.schedule_id = s.id AND cr.canceled_at IS NULL
		) AS registered
	FROM class_schedules s`

func (r *repository) GetSchedule(
	ctx context.Context,
	id string,
) (*scheduleRow, error) {
	query := scheduleSelect + ` WHERE s.id = $1`

	var row scheduleRow
	err := r.db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get schedule: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get schedule: %w", translateError(err))
	}

	return &row, nil
}

func (r *repository) CancelSchedule(ctx context.Context, id string) error {
	query := `
		UPDATE class_schedules
		SET canceled_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND canceled_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("cancel schedule: %w", translateError(err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("cancel schedule: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("cancel schedule: %w", core.ErrNotFound)
	}

	return nil
}

// ListSchedules returns upcoming, non-canceled schedules. Past occurrences
// stay in the table for attendance reporting but are not listed here.
func (r *repository) ListSchedules(
	ctx context.Context,
	params ListSchedulesParams,
) (*store.Page[scheduleRow], error) {
	params.Normalize()

	where := "s.canceled_at IS NULL AND s.starts_at >= NOW()"
	args := []any{}

	if params.ClassID != "" {
		args = append(args, params.ClassID)
		where += " AND s.class_id = $1"
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM class_schedules s WHERE " + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, fmt.Errorf("count schedules: %w", translateError(err))
	}

	query := fmt.Sprintf(
		"%s WHERE %s ORDER BY s.starts_at ASC LIMIT %d OFFSET %d",
		scheduleSelect,
		where,
		params.Limit,
		params.Offset(),
	)

	rows := []scheduleRow{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list schedules: %w", translateError(err))
	}

	return &store.Page[scheduleRow]{
		Data:       rows,
		Pagination: store.NewPagination(params.PageParams, total),
	}, nil
}

// Register is the admission-control critical section. The schedule row is
// locked FOR UPDATE before the registration count is read, so concurrent
// registrations for the same schedule serialize and the capacity check
// cannot be raced past.
func (r *repository) Register(
	ctx context.Context,
	scheduleID, userID string,
) (*ClassRegistration, error) {
	var reg ClassRegistration

	err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var sched struct {
			Capacity   int        `db:"capacity"`
			CanceledAt *time.Time `db:"canceled_at"`
		}

		lockQuery := `
			SELECT capacity, canceled_at FROM class_schedules
			WHERE id = $1
			FOR UPDATE`

		err := tx.GetContext(ctx, &sched, lockQuery, scheduleID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("lock schedule: %w", core.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("lock schedule: %w", translateError(err))
		}

		if sched.CanceledAt != nil {
			return ErrScheduleCanceled
		}

		var count int
		countQuery := `
			SELECT COUNT(*) FROM class_registrations
			WHERE schedule_id = $1 AND canceled_at IS NULL`

		if err := tx.GetContext(ctx, &count, countQuery, scheduleID); err != nil {
			return fmt.Errorf("count registrations: %w", translateError(err))
		}

		if count >= sched.Capacity {
			return ErrClassFull
		}

		reg = ClassRegistration{
			ID:         uuid.New().String(),
			ScheduleID: scheduleID,
			UserID:     userID,
		}

		err = r.registrations.Store().WithTx(tx).Create(ctx, &reg)
		if errors.Is(err, core.ErrDuplicateKey) {
			return ErrAlreadyRegistered
		}
		if err != nil {
			return fmt.Errorf("insert registration: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &reg, nil
}

func (r *repository) CancelRegistration(
	ctx context.Context,
	scheduleID, userID string,
) error {
	query := `
		UPDATE class_registrations
		SET canceled_at = NOW()
		WHERE schedule_id = $1 AND user_id = $2 AND canceled_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, scheduleID, userID)
	if err != nil {
		return fmt.Errorf("cancel registration: %w", translateError(err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("cancel registration: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("cancel registration: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) ListRegistrations(
	ctx context.Context,
	scheduleID string,
	params store.PageParams,
) (*store.Page[ClassRegistration], error) {
	return r.registrations.Paginate(ctx, store.Query{
		Filter: store.Filter{"schedule_id": scheduleID, "canceled_at": nil},
		Sort:   "registered_at ASC",
	}, params)
}

func (r *repository) ListUserRegistrations(
	ctx context.Context,
	userID string,
	params store.PageParams,
) (*store.Page[ClassRegistration], error) {
	return r.registrations.Paginate(ctx, store.Query{
		Filter: store.Filter{"user_id": userID, "canceled_at": nil},
		Sort:   "registered_at DESC",
	}, params)
}

func translateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "22P02" {
		return core.ErrInvalidInput
	}
	return err
}
