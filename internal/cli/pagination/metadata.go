package pagination

// PaginationMeta describes the window shown of a list.
//
//nolint:revive // PaginationMeta is the canonical name for this exported type.
type PaginationMeta struct {
	CurrentPage int  `json:"current_page" yaml:"current_page"`
	PageSize    int  `json:"page_size" yaml:"page_size"`
	TotalPages  int  `json:"total_pages" yaml:"total_pages"`
	TotalItems  int  `json:"total_items" yaml:"total_items"`
	HasPrevious bool `json:"has_previous" yaml:"has_previous"`
	HasNext     bool `json:"has_next" yaml:"has_next"`
}

// NewPaginationMeta builds the metadata for total items. Without paging the
// whole list is one page.
func NewPaginationMeta(p PaginationParams, total int) PaginationMeta {
	size := p.PageSize
	if size == 0 {
		size = p.Limit
	}
	if size == 0 {
		size = total
	}

	page := p.Page
	if page == 0 && p.Offset > 0 && size > 0 {
		page = p.Offset/size + 1
	}
	if page == 0 {
		page = 1
	}

	pages := 0
	if size > 0 {
		pages = (total + size - 1) / size
	}
	if page > pages && pages > 0 {
		page = pages
	}

	return PaginationMeta{
		CurrentPage: page,
		PageSize:    size,
		TotalPages:  pages,
		TotalItems:  total,
		HasPrevious: page > 1,
		HasNext:     page < pages,
	}
}
