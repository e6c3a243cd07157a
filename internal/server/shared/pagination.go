package shared

import (
	"net/http"
	"strconv"
)

const (
	// DefaultPerPage matches what list pages request.
	DefaultPerPage = 50
	// MaxPerPage caps page size server-side.
	MaxPerPage = 100
)

// ListFilters represents standard list query filters.
type ListFilters struct {
	Page    int
	PerPage int
	Search  string

	// Entity specific filters
	Category     string
	LowStockOnly bool
	CustomerType string
	ActiveOnly   bool
}

// ParseListFilters reads the common pagination and search parameters.
func ParseListFilters(r *http.Request) ListFilters {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return ListFilters{
		Page:    page,
		PerPage: perPage,
		Search:  q.Get("search"),
	}
}

// Offset returns the row offset for the current page.
func (f ListFilters) Offset() int {
	offset := (f.Page - 1) * f.PerPage
	if offset < 0 {
		return 0
	}
	return offset
}

// ListResponse is the pagination envelope every list endpoint returns.
type ListResponse[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalPages int `json:"total_pages"`
}

// NewListResponse assembles the envelope, computing total_pages.
func NewListResponse[T any](items []T, total int, f ListFilters) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if f.PerPage > 0 {
		totalPages = (total + f.PerPage - 1) / f.PerPage
	}
	return ListResponse[T]{
		Items:      items,
		Total:      total,
		Page:       f.Page,
		PerPage:    f.PerPage,
		TotalPages: totalPages,
	}
}
