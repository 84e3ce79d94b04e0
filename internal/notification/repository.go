// AngelaMos | 2026
// repository.go

package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/angelamos/gymstack/internal/core"
	"github.com/angelamos/gymstack/internal/store"
)

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	CreateMany(ctx context.Context, ns []Notification) error
	List(
		ctx context.Context,
		userID string,
		params store.PageParams,
	) (*store.Page[Notification], error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, userID, id string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}

type repository struct {
	*store.Repository[Notification]
}

func NewRepository(db core.DBTX) Repository {
	return &repository{
		Repository: store.NewRepository(
			store.New[Notification](db, "notifications", Columns),
		),
	}
}

func (r *repository) CreateMany(ctx context.Context, ns []Notification) error {
	return r.Store().BulkCreate(ctx, ns)
}

func (r *repository) List(
	ctx context.Context,
	userID string,
	params store.PageParams,
) (*store.Page[Notification], error) {
	return r.Paginate(ctx, store.Query{
		Filter: store.Filter{"user_id": userID},
		Sort:   "created_at DESC",
	}, params)
}

func (r *repository) UnreadCount(
	ctx context.Context,
	userID string,
) (int64, error) {
	return r.Store().Count(ctx, store.Query{
		Filter: store.Filter{"user_id": userID, "read_at": nil},
	})
}

// MarkRead only stamps the caller's own unread notification; someone else's
// id falls out as not found.
func (r *repository) MarkRead(ctx context.Context, userID, id string) error {
	rows, err := r.Store().UpdateMany(ctx,
		store.Query{
			Filter: store.Filter{"id": id, "user_id": userID, "read_at": nil},
		},
		map[string]any{"read_at": time.Now()},
	)
	if err != nil {
		return fmt.Errorf("mark read: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("mark read: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) MarkAllRead(
	ctx context.Context,
	userID string,
) (int64, error) {
	rows, err := r.Store().UpdateMany(ctx,
		store.Query{
			Filter: store.Filter{"user_id": userID, "read_at": nil},
		},
		map[string]any{"read_at": time.Now()},
	)
	if err != nil {
		return 0, fmt.Errorf("mark all read: %w", err)
	}

	return rows, nil
}
