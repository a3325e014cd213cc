// Package pagination holds the page arithmetic shared by the product query
// builder and API responses.
package pagination

import "math"

const (
	// DefaultPage is used when the requested page is missing or below 1.
	DefaultPage = 1
	// DefaultPageSize is used when the requested page size is missing or below 1.
	DefaultPageSize = 20
)

// Pagination describes one page of a result set.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// Normalize replaces out-of-range values with the defaults.
func Normalize(page, pageSize int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return page, pageSize
}

// Offset returns the number of rows to skip before the given page. It
// saturates at math.MaxInt instead of overflowing, so a huge page always lies
// past the end of any result set.
func Offset(page, pageSize int) int {
	page, pageSize = Normalize(page, pageSize)
	if page-1 > math.MaxInt/pageSize {
		return math.MaxInt
	}
	return (page - 1) * pageSize
}

// TotalPages returns ceil(total/pageSize), which is 0 for an empty result.
func TotalPages(total int64, pageSize int) int {
	if total <= 0 {
		return 0
	}
	_, pageSize = Normalize(DefaultPage, pageSize)
	size := int64(pageSize)
	return int((total + size - 1) / size)
}

// New builds the pagination block for a page of a result set of size total.
// The page is not clamped to TotalPages; a page past the end is simply empty.
func New(page, pageSize int, total int64) Pagination {
	page, pageSize = Normalize(page, pageSize)
	if total < 0 {
		total = 0
	}
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: TotalPages(total, pageSize),
	}
}

// HasNext reports whether another page follows this one.
func (p Pagination) HasNext() bool {
	return p.Page < p.TotalPages
}
