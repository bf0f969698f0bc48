package views

import (
	"net/url"
	"strconv"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
}

type PaginatedResponse struct {
	Items      interface{} `json:"items"`
	Pagination Pagination  `json:"pagination"`
}

type PageParams struct {
	Page     int
	PageSize int
}

// ParsePageParams reads page and page_size, falling back to defaults for
// anything missing or out of range.
func ParsePageParams(q url.Values) PageParams {
	p := PageParams{Page: 1, PageSize: DefaultPageSize}

	if v, err := strconv.Atoi(q.Get("page")); err == nil && v > 0 {
		p.Page = v
	}
	if v, err := strconv.Atoi(q.Get("page_size")); err == nil && v > 0 && v <= MaxPageSize {
		p.PageSize = v
	}
	return p
}

func (p PageParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}
