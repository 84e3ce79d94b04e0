// AngelaMos | 2026
// repository.go

package equipment

import (
	"context"
	"fmt"
	"time"

	"github.com/angelamos/gymstack/internal/core"
	"github.com/angelamos/gymstack/internal/store"
)

type Repository interface {
	Create(ctx context.Context, e *Equipment) error
	GetByID(ctx context.Context, id string) (*Equipment, error)
	Update(ctx context.Context, id string, set map[string]any) (*Equipment, error)
	SoftDelete(ctx context.Context, id string) error
	List(
		ctx context.Context,
		params ListEquipmentParams,
	) (*store.Page[Equipment], error)
	Categories(ctx context.Context) ([]string, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

type repository struct {
	*store.Repository[Equipment]
}

func NewRepository(db core.DBTX) Repository {
	return &repository{
		Repository: store.NewRepository(
			store.New[Equipment](db, "equipment", Columns),
		),
	}
}

func (r *repository) GetByID(
	ctx context.Context,
	id string,
) (*Equipment, error) {
	return r.FindActive(ctx, id)
}

func (r *repository) Update(
	ctx context.Context,
	id string,
	set map[string]any,
) (*Equipment, error) {
	set["updated_at"] = time.Now()
	return r.Store().Update(ctx, id, set)
}

func (r *repository) List(
	ctx context.Context,
	params ListEquipmentParams,
) (*store.Page[Equipment], error) {
	filter := store.Filter{}
	if params.Category != "" {
		filter["category"] = params.Category
	}
	if params.Status != "" {
		filter["status"] = params.Status
	}

	return r.Paginate(ctx, store.Query{
		Filter: store.NotDeleted(filter),
		Sort:   "name ASC",
	}, params.PageParams)
}

func (r *repository) Categories(ctx context.Context) ([]string, error) {
	categories, err := r.Store().Distinct(ctx, "category", store.Query{
		Filter: store.NotDeleted(nil),
	})
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (r *repository) CountByStatus(
	ctx context.Context,
) (map[string]int64, error) {
	return r.Store().GroupCount(ctx, "status", store.Query{
		Filter: store.NotDeleted(nil),
	})
}
