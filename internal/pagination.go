package internal

import "math"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type PageParams struct {
	Page     int
	PageSize int
}

// NormalizePage clamps paging inputs to page >= 1 and 1 <= pageSize <= 100,
// applying defaults for zero values.
func NormalizePage(page, pageSize int) PageParams {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return PageParams{Page: page, PageSize: pageSize}
}

func (p PageParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

type PageMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
}

func NewPageMeta(total int64, params PageParams) PageMeta {
	return PageMeta{
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(params.PageSize))),
	}
}
