package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalPages(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		pageSize int
		want     int
	}{
		{name: "37 items of 8", count: 37, pageSize: 8, want: 5},
		{name: "exact multiple", count: 40, pageSize: 8, want: 5},
		{name: "one extra", count: 41, pageSize: 8, want: 6},
		{name: "empty", count: 0, pageSize: 8, want: 0},
		{name: "single item", count: 1, pageSize: 8, want: 1},
		{name: "unbounded page", count: 37, pageSize: 0, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TotalPages(tt.count, tt.pageSize))
		})
	}
}

func TestWindow(t *testing.T) {
	tests := []struct {
		name    string
		current int
		total   int
		want    []int
	}{
		{name: "first of ten", current: 1, total: 10, want: []int{1, 2, 3, 4, 5}},
		{name: "last of ten", current: 10, total: 10, want: []int{6, 7, 8, 9, 10}},
		{name: "centred", current: 5, total: 10, want: []int{3, 4, 5, 6, 7}},
		{name: "near end", current: 9, total: 10, want: []int{6, 7, 8, 9, 10}},
		{name: "second page", current: 2, total: 10, want: []int{1, 2, 3, 4, 5}},
		{name: "fewer pages than window", current: 2, total: 3, want: []int{1, 2, 3}},
		{name: "no pages", current: 1, total: 0, want: nil},
		{name: "current past end", current: 12, total: 10, want: []int{6, 7, 8, 9, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Window(tt.current, tt.total, WindowSize))
		})
	}
}

func TestWindow_AlwaysContainsCurrent(t *testing.T) {
	for total := 1; total <= 12; total++ {
		for current := 1; current <= total; current++ {
			w := Window(current, total, WindowSize)
			assert.Contains(t, w, current)
			assert.LessOrEqual(t, len(w), WindowSize)
			assert.GreaterOrEqual(t, w[0], 1)
			assert.LessOrEqual(t, w[len(w)-1], total)
		}
	}
}

func TestPageRequest_Defaults(t *testing.T) {
	tests := []struct {
		name     string
		req      PageRequest
		wantPage int
		wantSize int
	}{
		{name: "empty", req: PageRequest{}, wantPage: 1, wantSize: DefaultPageSize},
		{name: "limit alias", req: PageRequest{Limit: 5}, wantPage: 1, wantSize: 5},
		{name: "page size wins over limit", req: PageRequest{PageSize: 10, Limit: 5}, wantPage: 1, wantSize: 10},
		{name: "clamped", req: PageRequest{Page: 3, PageSize: 500}, wantPage: 3, wantSize: MaxPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			req.Defaults()
			assert.Equal(t, tt.wantPage, req.Page)
			assert.Equal(t, tt.wantSize, req.PageSize)
		})
	}

	req := PageRequest{Page: 3, PageSize: 8}
	assert.Equal(t, 16, req.Offset())
}

func TestPager_Navigation(t *testing.T) {
	p := NewPager(8).WithCount(37)
	assert.Equal(t, 5, p.TotalPages())
	assert.False(t, p.HasPrev())
	assert.True(t, p.HasNext())

	assert.Equal(t, 1, p.Prev().Page)
	p = p.GoTo(5)
	assert.True(t, p.HasPrev())
	assert.False(t, p.HasNext())
	assert.Equal(t, 5, p.Next().Page)

	assert.Equal(t, 5, p.GoTo(99).Page)
	assert.Equal(t, 1, p.GoTo(-1).Page)
}

func TestPager_WithCountShrinks(t *testing.T) {
	p := NewPager(8).WithCount(33).GoTo(5)
	assert.Equal(t, 5, p.Page)

	p = p.WithCount(32)
	assert.Equal(t, 4, p.Page)

	p = p.WithCount(0)
	assert.Equal(t, 1, p.Page)
	assert.False(t, p.HasNext())
}

func TestPager_EmptyCollection(t *testing.T) {
	p := NewPager(0)
	assert.Equal(t, DefaultPageSize, p.PageSize)
	assert.Equal(t, 0, p.TotalPages())
	assert.False(t, p.HasPrev())
	assert.False(t, p.HasNext())
	assert.Empty(t, p.Window())
}
