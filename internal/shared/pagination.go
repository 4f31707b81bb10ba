package shared

import "math"

// MaxPerPage caps the page size so a single request cannot read an
// unbounded slice of the collection.
const MaxPerPage = 100

// DefaultPerPage is applied when the caller does not specify a limit.
const DefaultPerPage = 10

// Pagination contains metadata for paginated listings.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"pages"`
}

// NewPagination computes pagination metadata.
func NewPagination(page, perPage, total int) Pagination {
	page, perPage = Normalize(page, perPage)
	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	return Pagination{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages}
}

// Normalize coerces page and perPage into their valid ranges.
func Normalize(page, perPage int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return page, perPage
}

// Offset returns the skip count for the normalized page and perPage.
func Offset(page, perPage int) int {
	page, perPage = Normalize(page, perPage)
	return (page - 1) * perPage
}
