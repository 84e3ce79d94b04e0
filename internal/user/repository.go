// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"fmt"
	"time"

	"github.com/angelamos/gymstack/internal/core"
	"github.com/angelamos/gymstack/internal/store"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, id string, set map[string]any) (*User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	IncrementTokenVersion(ctx context.Context, id string) error
	SoftDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
	List(ctx context.Context, params ListUsersParams) (*store.Page[User], error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	EstimatedTotal(ctx context.Context) (int64, error)
	CountActive(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
	CountByPlan(ctx context.Context) (map[string]int64, error)
}

type repository struct {
	*store.Repository[User]
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{
		Repository: store.NewRepository(store.New[User](db, "users", Columns)),
		db:         db,
	}
}

func (r *repository) GetByID(ctx context.Context, id string) (*User, error) {
	return r.FindActive(ctx, id)
}

func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
) (*User, error) {
	return r.Store().FindOne(ctx, store.Query{
		Filter: store.NotDeleted(store.Filter{"email": email}),
	})
}

func (r *repository) Update(
	ctx context.Context,
	id string,
	set map[string]any,
) (*User, error) {
	set["updated_at"] = time.Now()
	return r.Store().Update(ctx, id, set)
}

func (r *repository) UpdatePassword(
	ctx context.Context,
	id, passwordHash string,
) error {
	rows, err := r.Store().UpdateMany(ctx,
		store.Query{Filter: store.NotDeleted(store.Filter{"id": id})},
		map[string]any{
			"password_hash": passwordHash,
			"updated_at":    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update password: %w", core.ErrNotFound)
	}

	return nil
}

// IncrementTokenVersion invalidates every outstanding access token for the
// user. The increment is a SQL expression, so it bypasses the generic store.
func (r *repository) IncrementTokenVersion(
	ctx context.Context,
	id string,
) error {
	query := `
		UPDATE users
		SET token_version = token_version + 1, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("increment token version: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("increment token version: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("increment token version: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) List(
	ctx context.Context,
	params ListUsersParams,
) (*store.Page[User], error) {
	filter := store.Filter{}
	if params.Role != "" {
		filter["role"] = params.Role
	}
	if params.Status != "" {
		filter["status"] = params.Status
	}

	return r.Paginate(ctx, store.Query{
		Filter: store.NotDeleted(filter),
		Sort:   "created_at DESC",
	}, params.PageParams)
}

func (r *repository) ExistsByEmail(
	ctx context.Context,
	email string,
) (bool, error) {
	count, err := r.Store().Count(ctx, store.Query{
		Filter: store.NotDeleted(store.Filter{"email": email}),
	})
	if err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}

	return count > 0, nil
}

func (r *repository) EstimatedTotal(ctx context.Context) (int64, error) {
	return r.Store().EstimatedCount(ctx)
}

func (r *repository) CountActive(ctx context.Context) (int64, error) {
	return r.Store().Count(ctx, store.Query{
		Filter: store.NotDeleted(store.Filter{"status": StatusActive}),
	})
}

func (r *repository) CountByStatus(
	ctx context.Context,
) (map[string]int64, error) {
	return r.Store().GroupCount(ctx, "status", store.Query{
		Filter: store.NotDeleted(nil),
	})
}

func (r *repository) CountByPlan(
	ctx context.Context,
) (map[string]int64, error) {
	return r.Store().GroupCount(ctx, "plan_id", store.Query{
		Filter: store.NotDeleted(store.Filter{"plan_id": store.NotNull}),
	})
}
