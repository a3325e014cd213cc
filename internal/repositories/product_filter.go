package repositories

import "catalog/pkg/pagination"

// SortKey names a sortable product column.
type SortKey string

const (
	SortNone      SortKey = ""
	SortPrice     SortKey = "price"
	SortRating    SortKey = "rating"
	SortCreatedAt SortKey = "created_at"
	// SortRelevance is accepted but has no ranking function; it behaves like SortNone.
	SortRelevance SortKey = "relevance"
)

// ParseSortKey returns the sort key for s, or SortNone if s is not recognized.
func ParseSortKey(s string) SortKey {
	switch k := SortKey(s); k {
	case SortPrice, SortRating, SortCreatedAt, SortRelevance:
		return k
	default:
		return SortNone
	}
}

// Column returns the column to order by, or "" when the key imposes no order.
func (k SortKey) Column() string {
	switch k {
	case SortPrice, SortRating, SortCreatedAt:
		return string(k)
	default:
		return ""
	}
}

// Direction is the sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection returns Asc for "asc" and Desc for anything else.
func ParseDirection(s string) Direction {
	if Direction(s) == Asc {
		return Asc
	}
	return Desc
}

// ProductFilter is the per-request set of product list parameters.
// Nil pointers and an empty CategoryIDs mean "no constraint".
type ProductFilter struct {
	Page        int
	PageSize    int
	Query       *string
	MinPrice    *float64
	MaxPrice    *float64
	InStock     *bool
	CategoryIDs []uint
	Sort        SortKey
	Direction   Direction
}

// Normalized returns a copy with pagination defaults and direction applied.
func (f ProductFilter) Normalized() ProductFilter {
	f.Page, f.PageSize = pagination.Normalize(f.Page, f.PageSize)
	if f.Direction != Asc {
		f.Direction = Desc
	}
	if f.Query != nil && *f.Query == "" {
		f.Query = nil
	}
	return f
}

// Offset is the number of matching rows skipped before the requested page.
func (f ProductFilter) Offset() int {
	return pagination.Offset(f.Page, f.PageSize)
}
