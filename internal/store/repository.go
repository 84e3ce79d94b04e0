// AngelaMos | 2026
// repository.go

package store

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/angelamos/gymstack/internal/core"
)

// Repository is the uniform per-entity facade over a Store. It carries no
// entity-specific logic; domain packages embed it and add their own
// conditional writes.
type Repository[T any] struct {
	store Store[T]
}

func NewRepository[T any](s Store[T]) *Repository[T] {
	return &Repository[T]{store: s}
}

func (r *Repository[T]) Store() Store[T] {
	return r.store
}

func (r *Repository[T]) FindByID(ctx context.Context, id string) (*T, error) {
	return r.store.FindByID(ctx, id)
}

// FindActive is FindByID restricted to non-deleted rows, the default read
// path for soft-deleted entities.
func (r *Repository[T]) FindActive(ctx context.Context, id string) (*T, error) {
	return r.store.FindOne(ctx, Query{
		Filter: NotDeleted(Filter{"id": id}),
	})
}

func (r *Repository[T]) Create(ctx context.Context, entity *T) error {
	return r.store.Create(ctx, entity)
}

func (r *Repository[T]) SoftDelete(ctx context.Context, id string) error {
	rows, err := r.store.UpdateMany(ctx,
		Query{Filter: Filter{"id": id, "deleted_at": nil}},
		map[string]any{"deleted_at": time.Now()},
	)
	if err != nil {
		return fmt.Errorf("soft delete: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("soft delete: %w", core.ErrNotFound)
	}

	return nil
}

func (r *Repository[T]) Restore(ctx context.Context, id string) error {
	rows, err := r.store.UpdateMany(ctx,
		Query{Filter: Filter{"id": id, "deleted_at": NotNull}},
		map[string]any{"deleted_at": nil},
	)
	if err != nil {
		return fmt.Errorf("restore: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("restore: %w", core.ErrNotFound)
	}

	return nil
}

// Paginate runs the filtered find and the count concurrently and folds them
// into the fixed page envelope. The two reads do not share a snapshot; under
// concurrent writes total and data may disagree by a row. Accepted
// trade-off for list endpoints.
func (r *Repository[T]) Paginate(
	ctx context.Context,
	q Query,
	params PageParams,
) (*Page[T], error) {
	params.Normalize()

	pageQuery := q
	pageQuery.Limit = params.Limit
	pageQuery.Offset = params.Offset()

	var (
		data  []T
		total int64
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		found, err := r.store.Find(gctx, pageQuery)
		if err != nil {
			return err
		}
		data = found
		return nil
	})

	g.Go(func() error {
		count, err := r.store.Count(gctx, Query{Filter: q.Filter})
		if err != nil {
			return err
		}
		total = count
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("paginate: %w", err)
	}

	if data == nil {
		data = []T{}
	}

	return &Page[T]{
		Data:       data,
		Pagination: NewPagination(params, total),
	}, nil
}
