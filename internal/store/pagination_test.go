// AngelaMos | 2026
// pagination_test.go

package store

import (
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageParamsNormalize(t *testing.T) {
	tests := []struct {
		name      string
		in        PageParams
		wantPage  int
		wantLimit int
	}{
		{"defaults", PageParams{}, 1, DefaultLimit},
		{"negative page", PageParams{Page: -3, Limit: 10}, 1, 10},
		{"zero limit", PageParams{Page: 2, Limit: 0}, 2, DefaultLimit},
		{"limit above max", PageParams{Page: 1, Limit: 5000}, 1, MaxLimit},
		{"limit at max", PageParams{Page: 1, Limit: MaxLimit}, 1, MaxLimit},
		{"limit of one", PageParams{Page: 1, Limit: 1}, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.Normalize()
			assert.Equal(t, tt.wantPage, tt.in.Page)
			assert.Equal(t, tt.wantLimit, tt.in.Limit)
		})
	}
}

func TestPageParamsOffset(t *testing.T) {
	p := PageParams{Page: 3, Limit: 50}
	assert.Equal(t, 100, p.Offset())

	p = PageParams{Page: 1, Limit: 50}
	assert.Equal(t, 0, p.Offset())
}

func TestPageParamsFromRequest(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  PageParams
	}{
		{"empty", "", PageParams{}},
		{"both set", "page=2&limit=25", PageParams{Page: 2, Limit: 25}},
		{"unparseable", "page=abc&limit=xyz", PageParams{}},
		{"partial", "page=4", PageParams{Page: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/?"+tt.query, nil)
			assert.Equal(t, tt.want, PageParamsFromRequest(r))
		})
	}
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(PageParams{Page: 1, Limit: 50}, 120)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, int64(120), p.Total)
	assert.True(t, p.HasNext)
	assert.False(t, p.HasPrev)

	p = NewPagination(PageParams{Page: 2, Limit: 50}, 120)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrev)

	p = NewPagination(PageParams{Page: 3, Limit: 50}, 120)
	assert.False(t, p.HasNext)
	assert.True(t, p.HasPrev)
}

func TestNewPaginationEmpty(t *testing.T) {
	p := NewPagination(PageParams{Page: 1, Limit: 50}, 0)

	// An empty result set still reports one page so clients always have a
	// valid page number to stand on.
	assert.Equal(t, 1, p.TotalPages)
	assert.False(t, p.HasNext)
	assert.False(t, p.HasPrev)
}

func TestNewPaginationExactBoundary(t *testing.T) {
	p := NewPagination(PageParams{Page: 2, Limit: 50}, 100)
	assert.Equal(t, 2, p.TotalPages)
	assert.False(t, p.HasNext)
}

func TestMapPage(t *testing.T) {
	in := &Page[int]{
		Data:       []int{1, 2, 3},
		Pagination: NewPagination(PageParams{Page: 1, Limit: 50}, 3),
	}

	out := MapPage(in, func(v *int) string {
		return strconv.Itoa(*v * 10)
	})

	require.Len(t, out.Data, 3)
	assert.Equal(t, []string{"10", "20", "30"}, out.Data)
	assert.Equal(t, in.Pagination, out.Pagination)
}

func TestMapPageEmpty(t *testing.T) {
	in := &Page[int]{
		Data:       nil,
		Pagination: NewPagination(PageParams{Page: 1, Limit: 50}, 0),
	}

	out := MapPage(in, func(v *int) int { return *v })

	// Data serializes as [] rather than null.
	require.NotNil(t, out.Data)
	assert.Empty(t, out.Data)
}
