package helpers

import (
	"net/http"
	"strconv"

	"eventportals/internal/domain"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

func queryInt(r *http.Request, key string, fallback int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

// ParsePagination reads page and page_size from the query string. Missing
// or malformed values fall back to the defaults and page_size is capped at
// MaxPageSize, so handlers never see an unbounded query.
func ParsePagination(r *http.Request) domain.PaginationParams {
	page := queryInt(r, "page", DefaultPage)
	pageSize := queryInt(r, "page_size", DefaultPageSize)
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return domain.PaginationParams{Page: page, PageSize: pageSize}
}

// PaginationMeta is the pagination block attached to list responses.
// swagger:model PaginationMeta
type PaginationMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPaginationMeta derives TotalPages as ceil(total/pageSize); a zero
// pageSize yields zero pages rather than dividing by zero.
func NewPaginationMeta(page, pageSize, total int) PaginationMeta {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return PaginationMeta{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}
