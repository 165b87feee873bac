package domain

// SortDirection represents ordering direction for sortable fields.
type SortDirection string

const (
	SortDirectionAsc  SortDirection = "asc"
	SortDirectionDesc SortDirection = "desc"
)

// PaginationRequest describes one bounded page query against a table.
// SearchTerm, when non-empty, is matched case-insensitively as a
// substring across SearchFields (OR-combined). Filters are equality
// predicates; an empty value or the literal "all" means no filtering on
// that column.
type PaginationRequest struct {
	Page          int
	PageSize      int
	SortField     string
	SortDirection SortDirection
	SearchTerm    string
	SearchFields  []string
	Filters       map[string]string
}

// PaginationResult carries one page of records plus the exact count of
// all rows matching the filter, independent of the page window.
type PaginationResult struct {
	Data       []Record `json:"data"`
	TotalCount int      `json:"totalCount"`
}
