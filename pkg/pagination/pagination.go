// Package pagination turns page/per_page query values into LIMIT/OFFSET and
// describes the resulting page to API clients.
package pagination

import "strconv"

const (
	DefaultPerPage = 15
	MaxPerPage     = 100
)

// PaginationParams is the requested page, 1-based
type PaginationParams struct {
	Page    int `form:"page" json:"page"`
	PerPage int `form:"per_page" json:"per_page"`
}

func DefaultPagination() *PaginationParams {
	return &PaginationParams{Page: 1, PerPage: DefaultPerPage}
}

// FromQuery parses raw query values. Anything unparsable falls back to the default.
func FromQuery(page, perPage string) *PaginationParams {
	p := &PaginationParams{}
	p.Page, _ = strconv.Atoi(page)
	p.PerPage, _ = strconv.Atoi(perPage)
	p.Validate()
	return p
}

// Validate clamps Page to at least 1 and PerPage into 1..MaxPerPage.
func (p *PaginationParams) Validate() {
	p.Page = max(p.Page, 1)
	switch {
	case p.PerPage < 1:
		p.PerPage = DefaultPerPage
	case p.PerPage > MaxPerPage:
		p.PerPage = MaxPerPage
	}
}

func (p *PaginationParams) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Pagination describes the page returned alongside a list.
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
}

func NewPagination(page, perPage int, total int64) *Pagination {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	pages := int((total + int64(perPage) - 1) / int64(perPage))
	return &Pagination{
		CurrentPage: page,
		PerPage:     perPage,
		Total:       total,
		TotalPages:  pages,
		HasNext:     page < pages,
		HasPrev:     page > 1,
	}
}

// PaginatedResult is one page of items
type PaginatedResult[T any] struct {
	Items      []T         `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

// NewPaginatedResult never renders items as JSON null.
func NewPaginatedResult[T any](items []T, page *Pagination) *PaginatedResult[T] {
	if items == nil {
		items = make([]T, 0)
	}
	return &PaginatedResult[T]{Items: items, Pagination: page}
}
