package query

import "github.com/anipix/anipix/internal/models"

const (
	// GalleryPageSize is the page size of the main gallery
	GalleryPageSize = 27
	// SearchPageSize is the page size of the search view
	SearchPageSize = 12
)

// Page is a bounded slice of a result set plus pagination metadata
type Page struct {
	Items      []*models.ImageRecord `json:"items"`
	PageNumber int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
	TotalItems int                   `json:"total_items"`
	TotalPages int                   `json:"total_pages"`
}

// Paginate slices results into the requested page. A page number past the
// last page yields no items rather than an error. Page numbers below 1 are
// treated as 1 and a non-positive page size as a single page of everything.
func Paginate(results []*models.ImageRecord, pageNumber, pageSize int) Page {
	if pageNumber < 1 {
		pageNumber = 1
	}
	if pageSize <= 0 {
		pageSize = max(len(results), 1)
	}

	total := len(results)
	page := Page{
		Items:      []*models.ImageRecord{},
		PageNumber: pageNumber,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: total / pageSize,
	}

	if total%pageSize != 0 {
		page.TotalPages++
	}

	// Checked before multiplying so huge page numbers cannot overflow
	if pageNumber > page.TotalPages {
		return page
	}
	start := (pageNumber - 1) * pageSize
	end := start + min(pageSize, total-start)
	page.Items = results[start:end:end]

	return page
}

// Start is the 1-based position of the first item on the page, or 0 when the
// page is empty
func (p Page) Start() int {
	if len(p.Items) == 0 || p.PageNumber < 1 || p.PageNumber > p.TotalPages {
		return 0
	}
	return (p.PageNumber-1)*p.PageSize + 1
}

// End is the 1-based position of the last item on the page
func (p Page) End() int {
	start := p.Start()
	if start == 0 {
		return 0
	}
	return start + len(p.Items) - 1
}

// HasPrev reports whether an earlier page exists
func (p Page) HasPrev() bool {
	return p.PageNumber > 1 && p.TotalPages > 0
}

// HasNext reports whether a later page exists
func (p Page) HasNext() bool {
	return p.PageNumber < p.TotalPages
}
