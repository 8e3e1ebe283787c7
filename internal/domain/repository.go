// Package domain provides shared business-layer types.
package domain

// ListFilter contains common filtering options for list operations.
type ListFilter struct {
	// Search performs a substring search on searchable fields
	Search string

	// OrderBy specifies sorting (e.g. "created_at DESC")
	OrderBy string

	// Pagination
	Limit  int
	Offset int
}

// DefaultListFilter returns sensible defaults.
func DefaultListFilter() ListFilter {
	return ListFilter{
		Limit:   50,
		OrderBy: "created_at DESC",
	}
}

// ListResult contains paginated results.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}
