package pagination

import (
	"errors"
	"fmt"
	"strings"
)

// Sort orders.
const (
	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"
)

// Validation errors.
var (
	ErrNegative          = errors.New("pagination values cannot be negative")
	ErrMixedModes        = errors.New("page and offset parameters are mutually exclusive")
	ErrPageWithoutSize   = errors.New("page requires page-size")
	ErrSizeWithoutPage   = errors.New("page-size requires page")
	ErrInvalidSortFormat = errors.New("invalid sort format: use 'field' or 'field:order'")
	ErrInvalidSortOrder  = errors.New("sort order must be 'asc' or 'desc'")
	ErrInvalidSortField  = errors.New("invalid sort field")
)

// PaginationParams holds the paging flags of a list command. Zero values
// disable paging.
//
//nolint:revive // PaginationParams is the canonical name for this exported type.
type PaginationParams struct {
	Limit    int
	Offset   int
	Page     int
	PageSize int
}

// Validate checks bounds and that only one mode is used.
func (p PaginationParams) Validate() error {
	if p.Limit < 0 || p.Offset < 0 || p.Page < 0 || p.PageSize < 0 {
		return ErrNegative
	}
	if p.Page > 0 && p.Offset > 0 {
		return ErrMixedModes
	}
	if p.Page > 0 && p.PageSize == 0 {
		return ErrPageWithoutSize
	}
	if p.PageSize > 0 && p.Page == 0 {
		return ErrSizeWithoutPage
	}
	return nil
}

// IsPageBased reports whether page mode is active.
func (p PaginationParams) IsPageBased() bool { return p.Page > 0 }

// offsetLimit resolves the window; limit 0 means unbounded.
func (p PaginationParams) offsetLimit() (int, int) {
	if p.IsPageBased() {
		return (p.Page - 1) * p.PageSize, p.PageSize
	}
	return p.Offset, p.Limit
}

// Apply returns the window of items selected by p. A page past the end
// shows the last page; an offset past the end yields nothing.
func Apply[T any](p PaginationParams, items []T) []T {
	if len(items) == 0 {
		return items
	}
	offset, limit := p.offsetLimit()
	if p.IsPageBased() && offset >= len(items) {
		offset = ((len(items) - 1) / p.PageSize) * p.PageSize
	}
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

const sortPartsMax = 2

// ParseSort splits "field" or "field:order". The order defaults to asc;
// an empty expression yields an empty field.
func ParseSort(expr string) (string, string, error) {
	if strings.TrimSpace(expr) == "" {
		return "", SortOrderAsc, nil
	}
	parts := strings.Split(expr, ":")
	if len(parts) > sortPartsMax {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidSortFormat, expr)
	}
	field := strings.TrimSpace(parts[0])
	if field == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidSortFormat, expr)
	}
	order := SortOrderAsc
	if len(parts) == sortPartsMax {
		order = strings.ToLower(strings.TrimSpace(parts[1]))
	}
	if order != SortOrderAsc && order != SortOrderDesc {
		return "", "", fmt.Errorf("%w: got %q", ErrInvalidSortOrder, order)
	}
	return field, order, nil
}
