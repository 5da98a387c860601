// Package paging slices an ordered result set into pages and computes the
// navigation metadata clients need.
package paging

import (
	"github.com/avdmitry/inventory-service/internal/inventory/apperr"
)

// Params are the client-supplied page coordinates. PageNumber is 1-based.
type Params struct {
	PageNumber int
	PageSize   int
}

// Validate rejects zero and negative page coordinates.
func (p Params) Validate() error {
	if p.PageNumber <= 0 || p.PageSize <= 0 {
		return apperr.Validation(apperr.MsgInvalidPaging)
	}
	return nil
}

// PagedList is one page of an ordered result set plus the counts needed for
// page navigation. It is computed fresh per request, never cached.
type PagedList[T any] struct {
	Items       []T `json:"items"`
	CurrentPage int `json:"currentPage"`
	PageSize    int `json:"pageSize"`
	TotalCount  int `json:"totalCount"`
	TotalPages  int `json:"totalPages"`
}

// NewPagedList cuts the page [(pageNumber-1)*pageSize, pageNumber*pageSize)
// out of items. A page past the end yields empty Items with the metadata
// intact. params must have been validated.
func NewPagedList[T any](items []T, params Params) PagedList[T] {
	total := len(items)
	start := (params.PageNumber - 1) * params.PageSize
	if start > total {
		start = total
	}
	end := start + params.PageSize
	if end > total {
		end = total
	}
	page := make([]T, end-start)
	copy(page, items[start:end])
	return PagedList[T]{
		Items:       page,
		CurrentPage: params.PageNumber,
		PageSize:    params.PageSize,
		TotalCount:  total,
		TotalPages:  (total + params.PageSize - 1) / params.PageSize,
	}
}
