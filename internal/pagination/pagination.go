// Package pagination holds the page arithmetic shared by the API server and its clients.
package pagination

const (
	// DefaultPageSize is the transaction page size when none is requested.
	DefaultPageSize = 8
	// MaxPageSize caps page_size; larger requests are clamped.
	MaxPageSize = 100
	// WindowSize is how many page numbers a pager shows at once.
	WindowSize = 5
)

// PageRequest holds pagination parameters parsed from query strings.
type PageRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1"`
	Limit    int `form:"limit" binding:"omitempty,min=1"`
}

// Defaults fills in default values when page or page_size are not provided. limit is an
// alias for page_size and page_size is clamped to MaxPageSize.
func (p *PageRequest) Defaults() {
	if p.Page == 0 {
		p.Page = 1
	}
	if p.PageSize == 0 {
		p.PageSize = p.Limit
	}
	if p.PageSize == 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
}

// Offset returns the SQL OFFSET for the current page.
func (p *PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// PageResponse is a page of items in the shape the transaction endpoint returns.
type PageResponse[T any] struct {
	Results []T `json:"results"`
	Count   int `json:"count"`
}

// NewPageResponse creates a PageResponse from the given data and total count.
func NewPageResponse[T any](data []T, count int) PageResponse[T] {
	if data == nil {
		data = []T{}
	}
	return PageResponse[T]{Results: data, Count: count}
}

// TotalPages returns ceil(count / pageSize). A non-positive page size means a single
// unbounded page.
func TotalPages(count, pageSize int) int {
	if count <= 0 {
		return 0
	}
	if pageSize <= 0 {
		return 1
	}
	return (count + pageSize - 1) / pageSize
}

// Window returns up to size consecutive page numbers centred on current and clamped to
// [1, total].
func Window(current, total, size int) []int {
	if total <= 0 || size <= 0 {
		return nil
	}
	if size > total {
		size = total
	}
	current = clamp(current, 1, total)

	start := current - size/2
	start = clamp(start, 1, total-size+1)

	pages := make([]int, size)
	for i := range pages {
		pages[i] = start + i
	}
	return pages
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
