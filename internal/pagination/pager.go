package pagination

// Pager tracks the client's position in a paged collection. It is a value type; every
// move returns the new state.
type Pager struct {
	Page     int
	PageSize int
	Count    int
}

// NewPager starts at page 1. A non-positive size falls back to DefaultPageSize.
func NewPager(pageSize int) Pager {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return Pager{Page: 1, PageSize: pageSize}
}

// TotalPages returns ceil(Count / PageSize).
func (p Pager) TotalPages() int {
	return TotalPages(p.Count, p.PageSize)
}

// HasPrev reports whether a previous page exists.
func (p Pager) HasPrev() bool {
	return p.Page > 1
}

// HasNext reports whether a next page exists.
func (p Pager) HasNext() bool {
	return p.Page < p.TotalPages()
}

// Next moves forward one page when possible.
func (p Pager) Next() Pager {
	if p.HasNext() {
		p.Page++
	}
	return p
}

// Prev moves back one page when possible.
func (p Pager) Prev() Pager {
	if p.HasPrev() {
		p.Page--
	}
	return p
}

// GoTo jumps to page n, clamped to the known page range.
func (p Pager) GoTo(n int) Pager {
	total := p.TotalPages()
	if total == 0 {
		p.Page = 1
		return p
	}
	p.Page = clamp(n, 1, total)
	return p
}

// WithCount records a fresh total count. If the current page no longer exists (the last
// item of the last page was deleted) the page moves back to the new last page.
func (p Pager) WithCount(count int) Pager {
	p.Count = count
	switch total := p.TotalPages(); {
	case total == 0 || p.Page < 1:
		p.Page = 1
	case p.Page > total:
		p.Page = total
	}
	return p
}

// Window returns the page numbers to show, at most WindowSize of them.
func (p Pager) Window() []int {
	return Window(p.Page, p.TotalPages(), WindowSize)
}
