package messages

import "github.com/foliohq/folio/internal/shared"

// ListQuery is the normalized pagination/filter/sort specification for a
// message listing.
type ListQuery struct {
	Page    int
	Limit   int
	Status  string
	Search  string
	SortBy  string
	SortDir string
}

// filter composes the status constraint and the free-text search into an
// explicit AND of tagged variants. Search text is matched literally.
func (q ListQuery) filter() shared.Filter {
	var parts shared.And
	if q.Status != "" && q.Status != StatusAll {
		parts = append(parts, shared.Equals{Column: "status", Value: q.Status})
	}
	if q.Search != "" {
		parts = append(parts, shared.TextSearchOr{Columns: searchColumns, Needle: q.Search})
	}
	if len(parts) == 0 {
		return shared.None{}
	}
	return parts
}

func (q ListQuery) sortColumn() string {
	if col, ok := sortColumns[q.SortBy]; ok {
		return col
	}
	return "created_at"
}

func (q ListQuery) sortDirection() string {
	if q.SortDir == "asc" {
		return "ASC"
	}
	return "DESC"
}
