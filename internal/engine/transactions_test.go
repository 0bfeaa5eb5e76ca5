package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/GRBadas/Planilha-Django/internal/model"
	"github.com/GRBadas/Planilha-Django/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func pageOf(count int, ids ...int) *service.TransactionPage {
	results := make([]model.Transaction, 0, len(ids))
	for _, id := range ids {
		results = append(results, model.Transaction{ID: id, Description: "tx", Amount: model.MustAmount("1"), Direction: model.DirectionOut, CategoryID: 1})
	}
	return &service.TransactionPage{Results: results, Count: count}
}

func TestTransactionList_LoadSetsPager(t *testing.T) {
	api := new(MockAPI)
	api.On("ListTransactions", mock.Anything, 1, 8).Return(pageOf(37, 1, 2, 3, 4, 5, 6, 7, 8), nil)

	list := NewTransactionList(api, 8)
	page := list.Load(context.Background())

	assert.Equal(t, StatusPopulated, page.Status)
	_, pager := list.Snapshot()
	assert.Equal(t, 5, pager.TotalPages())
	assert.False(t, pager.HasPrev())
	assert.True(t, pager.HasNext())
	assert.Equal(t, []int{1, 2, 3, 4, 5}, pager.Window())
}

func TestTransactionList_NavigationBounds(t *testing.T) {
	api := new(MockAPI)
	api.On("ListTransactions", mock.Anything, 1, 8).Return(pageOf(10, 1, 2, 3, 4, 5, 6, 7, 8), nil).Once()
	api.On("ListTransactions", mock.Anything, 2, 8).Return(pageOf(10, 9, 10), nil).Once()

	list := NewTransactionList(api, 8)
	list.Load(context.Background())

	list.Prev(context.Background())
	page := list.Next(context.Background())
	assert.Len(t, page.Items, 2)

	list.Next(context.Background())
	_, pager := list.Snapshot()
	assert.Equal(t, 2, pager.Page)
	api.AssertNumberOfCalls(t, "ListTransactions", 2)
}

func TestTransactionList_ClampsWhenPageDisappears(t *testing.T) {
	api := new(MockAPI)
	api.On("ListTransactions", mock.Anything, 1, 8).Return(pageOf(9, 1, 2, 3, 4, 5, 6, 7, 8), nil).Once()
	api.On("ListTransactions", mock.Anything, 2, 8).Return(pageOf(9, 9), nil).Once()

	list := NewTransactionList(api, 8)
	list.Load(context.Background())
	list.GoTo(context.Background(), 2)

	// The only item on page 2 is deleted elsewhere; page 2 now reports the shrunken count.
	api.On("ListTransactions", mock.Anything, 2, 8).Return(pageOf(8), nil).Once()
	api.On("ListTransactions", mock.Anything, 1, 8).Return(pageOf(8, 1, 2, 3, 4, 5, 6, 7, 8), nil).Once()

	page := list.Load(context.Background())
	_, pager := list.Snapshot()
	assert.Equal(t, 1, pager.Page)
	assert.Len(t, page.Items, 8)
}

func TestTransactionList_LoadFailure(t *testing.T) {
	api := new(MockAPI)
	api.On("ListTransactions", mock.Anything, 1, 8).Return(nil, errors.New("timeout"))

	list := NewTransactionList(api, 8)
	page := list.Load(context.Background())

	assert.Equal(t, StatusError, page.Status)
	assert.Empty(t, page.Items)
	require.Error(t, page.Err)
}

func TestTransactionList_EmptyState(t *testing.T) {
	api := new(MockAPI)
	api.On("ListTransactions", mock.Anything, 1, 8).Return(pageOf(0), nil)

	list := NewTransactionList(api, 8)
	page := list.Load(context.Background())

	assert.Equal(t, StatusEmpty, page.Status)
	_, pager := list.Snapshot()
	assert.False(t, pager.HasNext())
}
