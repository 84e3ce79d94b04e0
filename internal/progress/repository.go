// AngelaMos | 2026
// repository.go

package progress

import (
	"context"
	"fmt"

	"github.com/angelamos/gymstack/internal/core"
	"github.com/angelamos/gymstack/internal/store"
)

type Repository interface {
	Create(ctx context.Context, snapshot *MemberProgress) error
	Latest(ctx context.Context, userID string) (*MemberProgress, error)
	First(ctx context.Context, userID string) (*MemberProgress, error)
	CountForUser(ctx context.Context, userID string) (int64, error)
	History(
		ctx context.Context,
		userID string,
		params store.PageParams,
	) (*store.Page[MemberProgress], error)
}

type repository struct {
	*store.Repository[MemberProgress]
}

func NewRepository(db core.DBTX) Repository {
	return &repository{
		Repository: store.NewRepository(
			store.New[MemberProgress](db, "member_progress", Columns),
		),
	}
}

func (r *repository) Latest(
	ctx context.Context,
	userID string,
) (*MemberProgress, error) {
	return r.endpointSnapshot(ctx, userID, "recorded_at DESC")
}

func (r *repository) First(
	ctx context.Context,
	userID string,
) (*MemberProgress, error) {
	return r.endpointSnapshot(ctx, userID, "recorded_at ASC")
}

func (r *repository) endpointSnapshot(
	ctx context.Context,
	userID, sort string,
) (*MemberProgress, error) {
	found, err := r.Store().Find(ctx, store.Query{
		Filter: store.Filter{"user_id": userID},
		Sort:   sort,
		Limit:  1,
	})
	if err != nil {
		return nil, fmt.Errorf("find snapshot: %w", err)
	}

	if len(found) == 0 {
		return nil, fmt.Errorf("find snapshot: %w", core.ErrNotFound)
	}

	return &found[0], nil
}

func (r *repository) CountForUser(
	ctx context.Context,
	userID string,
) (int64, error) {
	return r.Store().Count(ctx, store.Query{
		Filter: store.Filter{"user_id": userID},
	})
}

func (r *repository) History(
	ctx context.Context,
	userID string,
	params store.PageParams,
) (*store.Page[MemberProgress], error) {
	return r.Paginate(ctx, store.Query{
		Filter: store.Filter{"user_id": userID},
		Sort:   "recorded_at DESC",
	}, params)
}
