package domain

// PaginationParams selects a page of results for list queries. Pages are
// 1-based.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Offset converts the page number into a 0-based row offset.
func (p PaginationParams) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// Limit returns the page size, never negative.
func (p PaginationParams) Limit() int {
	if p.PageSize < 0 {
		return 0
	}
	return p.PageSize
}
