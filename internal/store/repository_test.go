// AngelaMos | 2026
// repository_test.go

package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/gymstack/internal/core"
)

type fakeEntity struct {
	ID string
}

// fakeStore serves canned data and records the queries it sees.
type fakeStore struct {
	mu          sync.Mutex
	data        []fakeEntity
	total       int64
	updatedRows int64
	lastFind    Query
	lastUpdate  Query
	findErr     error
}

func (f *fakeStore) FindByID(_ context.Context, id string) (*fakeEntity, error) {
	return &fakeEntity{ID: id}, nil
}

func (f *fakeStore) FindOne(_ context.Context, _ Query) (*fakeEntity, error) {
	if len(f.data) == 0 {
		return nil, core.ErrNotFound
	}
	return &f.data[0], nil
}

func (f *fakeStore) Find(_ context.Context, q Query) ([]fakeEntity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	f.lastFind = q
	return f.data, nil
}

func (f *fakeStore) Create(_ context.Context, _ *fakeEntity) error { return nil }

func (f *fakeStore) BulkCreate(_ context.Context, _ []fakeEntity) error {
	return nil
}

func (f *fakeStore) Update(
	_ context.Context,
	id string,
	_ map[string]any,
) (*fakeEntity, error) {
	return &fakeEntity{ID: id}, nil
}

func (f *fakeStore) UpdateMany(
	_ context.Context,
	q Query,
	_ map[string]any,
) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastUpdate = q
	return f.updatedRows, nil
}

func (f *fakeStore) Delete(_ context.Context, _ string) error { return nil }

func (f *fakeStore) Count(_ context.Context, _ Query) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.total, nil
}

func (f *fakeStore) EstimatedCount(_ context.Context) (int64, error) {
	return f.total, nil
}

func (f *fakeStore) GroupCount(
	_ context.Context,
	_ string,
	_ Query,
) (map[string]int64, error) {
	return nil, nil
}

func (f *fakeStore) Distinct(
	_ context.Context,
	_ string,
	_ Query,
) ([]string, error) {
	return nil, nil
}

func (f *fakeStore) WithTx(_ *sqlx.Tx) Store[fakeEntity] { return f }

func TestPaginate(t *testing.T) {
	fs := &fakeStore{
		data:  []fakeEntity{{ID: "a"}, {ID: "b"}},
		total: 120,
	}
	repo := NewRepository[fakeEntity](fs)

	page, err := repo.Paginate(
		context.Background(),
		Query{Sort: "created_at DESC"},
		PageParams{Page: 2, Limit: 50},
	)
	require.NoError(t, err)

	assert.Len(t, page.Data, 2)
	assert.Equal(t, int64(120), page.Pagination.Total)
	assert.Equal(t, 3, page.Pagination.TotalPages)
	assert.True(t, page.Pagination.HasNext)
	assert.True(t, page.Pagination.HasPrev)

	assert.Equal(t, 50, fs.lastFind.Limit)
	assert.Equal(t, 50, fs.lastFind.Offset)
	assert.Equal(t, "created_at DESC", fs.lastFind.Sort)
}

func TestPaginateNormalizesParams(t *testing.T) {
	fs := &fakeStore{total: 10}
	repo := NewRepository[fakeEntity](fs)

	page, err := repo.Paginate(context.Background(), Query{}, PageParams{
		Page:  -1,
		Limit: 9999,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, page.Pagination.Page)
	assert.Equal(t, MaxLimit, page.Pagination.Limit)
	assert.Equal(t, MaxLimit, fs.lastFind.Limit)
	assert.Equal(t, 0, fs.lastFind.Offset)
}

func TestPaginateEmptyDataIsNotNil(t *testing.T) {
	fs := &fakeStore{data: nil, total: 0}
	repo := NewRepository[fakeEntity](fs)

	page, err := repo.Paginate(context.Background(), Query{}, PageParams{})
	require.NoError(t, err)

	require.NotNil(t, page.Data)
	assert.Empty(t, page.Data)
}

func TestPaginatePropagatesError(t *testing.T) {
	fs := &fakeStore{findErr: errors.New("boom")}
	repo := NewRepository[fakeEntity](fs)

	_, err := repo.Paginate(context.Background(), Query{}, PageParams{})
	require.Error(t, err)
}

func TestSoftDelete(t *testing.T) {
	fs := &fakeStore{updatedRows: 1}
	repo := NewRepository[fakeEntity](fs)

	require.NoError(t, repo.SoftDelete(context.Background(), "id-1"))

	// The delete is conditional on the row still being live.
	assert.Equal(t, "id-1", fs.lastUpdate.Filter["id"])
	assert.Nil(t, fs.lastUpdate.Filter["deleted_at"])
}

func TestSoftDeleteMissing(t *testing.T) {
	fs := &fakeStore{updatedRows: 0}
	repo := NewRepository[fakeEntity](fs)

	err := repo.SoftDelete(context.Background(), "ghost")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestRestore(t *testing.T) {
	fs := &fakeStore{updatedRows: 1}
	repo := NewRepository[fakeEntity](fs)

	require.NoError(t, repo.Restore(context.Background(), "id-1"))
	assert.Equal(t, NotNull, fs.lastUpdate.Filter["deleted_at"])
}

func TestRestoreNotDeleted(t *testing.T) {
	fs := &fakeStore{updatedRows: 0}
	repo := NewRepository[fakeEntity](fs)

	err := repo.Restore(context.Background(), "id-1")
	assert.ErrorIs(t, err, core.ErrNotFound)
}
