// AngelaMos | 2026
// store.go

// Package store provides the generic persistence layer: a per-entity
// Store capability interface over the SQL database, and a Repository
// built generically on top of it. Domain services compose repositories;
// no store-native types escape past them.
package store

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Store is the adapter contract for one entity kind. Reads return plain
// snapshots; stateful updates go through conditional writes (Update /
// UpdateMany with a filter), never through live handles.
type Store[T any] interface {
	FindByID(ctx context.Context, id string) (*T, error)
	FindOne(ctx context.Context, q Query) (*T, error)
	Find(ctx context.Context, q Query) ([]T, error)

	Create(ctx context.Context, entity *T) error
	BulkCreate(ctx context.Context, entities []T) error

	// Update applies set to the row matching id and returns the
	// post-update state. Zero matched rows yields core.ErrNotFound.
	Update(ctx context.Context, id string, set map[string]any) (*T, error)

	// UpdateMany applies set to every row matching q and reports how
	// many rows were touched. Matching nothing is not an error.
	UpdateMany(ctx context.Context, q Query, set map[string]any) (int64, error)

	Delete(ctx context.Context, id string) error

	Count(ctx context.Context, q Query) (int64, error)

	// EstimatedCount is the fast approximate row count for
	// dashboard-scale numbers. Use Count where correctness matters.
	EstimatedCount(ctx context.Context) (int64, error)

	// GroupCount groups matching rows by column and counts each group.
	GroupCount(ctx context.Context, column string, q Query) (map[string]int64, error)

	Distinct(ctx context.Context, column string, q Query) ([]string, error)

	// WithTx returns a copy of the store bound to tx so repository calls
	// can participate in a core.InTx unit of work.
	WithTx(tx *sqlx.Tx) Store[T]
}

type Filter map[string]any

type notNullMarker struct{}

// NotNull marks a filter value as "IS NOT NULL"; a nil filter value
// means "IS NULL".
var NotNull = notNullMarker{}

// Query describes a filtered read. Sort and Columns are interpolated into
// SQL and must come from code, never from request input.
type Query struct {
	Filter  Filter
	Sort    string
	Columns []string
	Limit   int
	Offset  int
}

// NotDeleted returns f extended with the soft-delete exclusion every
// default read path applies.
func NotDeleted(f Filter) Filter {
	out := make(Filter, len(f)+1)
	for k, v := range f {
		out[k] = v
	}
	out["deleted_at"] = nil
	return out
}
