// AngelaMos | 2026
// pagination.go

package store

import (
	"net/http"
	"strconv"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

type PageParams struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Normalize clamps page to >= 1 and limit to [1, MaxLimit], defaulting
// limit to DefaultLimit when unset.
func (p *PageParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
}

func (p *PageParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PageParamsFromRequest reads page and limit from the query string.
// Unparseable values come back as zero and are clamped by Normalize.
func PageParamsFromRequest(r *http.Request) PageParams {
	return PageParams{
		Page:  intQuery(r, "page"),
		Limit: intQuery(r, "limit"),
	}
}

func intQuery(r *http.Request, key string) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return 0
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}

	return parsed
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

type Page[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

func NewPagination(params PageParams, total int64) Pagination {
	totalPages := int((total + int64(params.Limit) - 1) / int64(params.Limit))
	if totalPages < 1 {
		totalPages = 1
	}

	return Pagination{
		Page:       params.Page,
		Limit:      params.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    params.Page < totalPages,
		HasPrev:    params.Page > 1,
	}
}

// MapPage converts a page's data while keeping its pagination, for
// projecting entities into response shapes at the service boundary.
func MapPage[T, U any](p *Page[T], fn func(*T) U) *Page[U] {
	out := make([]U, 0, len(p.Data))
	for i := range p.Data {
		out = append(out, fn(&p.Data[i]))
	}
	return &Page[U]{Data: out, Pagination: p.Pagination}
}
