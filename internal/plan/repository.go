// AngelaMos | 2026
// repository.go

package plan

import (
	"context"
	"time"

	"github.com/angelamos/gymstack/internal/core"
	"github.com/angelamos/gymstack/internal/store"
)

type Repository interface {
	Create(ctx context.Context, p *MembershipPlan) error
	GetByID(ctx context.Context, id string) (*MembershipPlan, error)
	Update(
		ctx context.Context,
		id string,
		set map[string]any,
	) (*MembershipPlan, error)
	SoftDelete(ctx context.Context, id string) error
	List(
		ctx context.Context,
		params ListPlansParams,
	) (*store.Page[MembershipPlan], error)
}

type repository struct {
	*store.Repository[MembershipPlan]
}

func NewRepository(db core.DBTX) Repository {
	return &repository{
		Repository: store.NewRepository(
			store.New[MembershipPlan](db, "membership_plans", Columns),
		),
	}
}

func (r *repository) GetByID(
	ctx context.Context,
	id string,
) (*MembershipPlan, error) {
	return r.FindActive(ctx, id)
}

func (r *repository) Update(
	ctx context.Context,
	id string,
	set map[string]any,
) (*MembershipPlan, error) {
	set["updated_at"] = time.Now()
	return r.Store().Update(ctx, id, set)
}

func (r *repository) List(
	ctx context.Context,
	params ListPlansParams,
) (*store.Page[MembershipPlan], error) {
	filter := store.Filter{}
	if params.ActiveOnly {
		filter["active"] = true
	}

	return r.Paginate(ctx, store.Query{
		Filter: store.NotDeleted(filter),
		Sort:   "price_cents ASC",
	}, params.PageParams)
}
