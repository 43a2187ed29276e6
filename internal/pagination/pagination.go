// Package pagination resolves page/limit/skip values for listing endpoints.
package pagination

import "math"

// Pagination is a resolved page window.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Skip  int `json:"-"`
}

// Defaults holds the configured fallback values.
type Defaults struct {
	Page  int
	Limit int
}

// Resolve picks the requested page and limit, falling back to the configured defaults when a
// value is absent (zero). The limit has no upper bound.
func Resolve(requestedPage, requestedLimit, defaultPage, defaultLimit int) Pagination {
	page := requestedPage
	if page == 0 {
		page = defaultPage
	}
	limit := requestedLimit
	if limit == 0 {
		limit = defaultLimit
	}
	p := Pagination{Page: page, Limit: limit, Skip: math.MaxInt}
	if !p.Overflows() {
		p.Skip = (page - 1) * limit
	}
	return p
}

// Overflows reports whether (Page-1)*Limit does not fit in an int. Skip saturates in that case.
func (p Pagination) Overflows() bool {
	return p.Page > 1 && p.Limit > 0 && p.Page-1 > math.MaxInt/p.Limit
}

// Resolve applies d as the fallback values.
func (d Defaults) Resolve(requestedPage, requestedLimit int) Pagination {
	return Resolve(requestedPage, requestedLimit, d.Page, d.Limit)
}

// Page is the listing envelope returned by every paginated endpoint.
type Page[T any] struct {
	Data  []T   `json:"data"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// NewPage builds a Page, never returning a nil Data slice.
func NewPage[T any](data []T, total int64, p Pagination) Page[T] {
	if data == nil {
		data = []T{}
	}
	return Page[T]{Data: data, Total: total, Page: p.Page, Limit: p.Limit}
}
