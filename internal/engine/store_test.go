package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/GRBadas/Planilha-Django/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestStore_ListCardsDegradesSilently(t *testing.T) {
	api := new(MockAPI)
	api.On("ListCards", mock.Anything).Return(nil, errors.New("connection refused"))

	store := NewStore(api)
	cards := store.ListCards(context.Background())

	assert.NotNil(t, cards)
	assert.Empty(t, cards)
	assert.Equal(t, StatusError, store.Cards().Status)
	assert.EqualError(t, store.Cards().Err, "connection refused")
	api.AssertExpectations(t)
}

func TestStore_ListCategories(t *testing.T) {
	api := new(MockAPI)
	api.On("ListCategories", mock.Anything).Return([]model.Category{{ID: 1, Name: "Food"}}, nil)

	store := NewStore(api)
	categories := store.ListCategories(context.Background())

	assert.Equal(t, []model.Category{{ID: 1, Name: "Food"}}, categories)
	assert.Equal(t, StatusPopulated, store.Categories().Status)
}

func TestStore_LoadReferenceDataIndependentFailures(t *testing.T) {
	api := new(MockAPI)
	api.On("ListCards", mock.Anything).Return(nil, errors.New("cards down"))
	api.On("ListCategories", mock.Anything).Return([]model.Category{}, nil)

	store := NewStore(api)
	cards, categories := store.LoadReferenceData(context.Background())

	assert.Equal(t, StatusError, cards.Status)
	assert.Equal(t, StatusEmpty, categories.Status)
	api.AssertExpectations(t)
}

func TestStore_Spending(t *testing.T) {
	api := new(MockAPI)
	totals := []model.CategoryTotal{{Category: "Food", Total: model.MustAmount("10")}}
	api.On("SpendingByCategory", mock.Anything).Return(totals, nil)

	store := NewStore(api)
	assert.Equal(t, StatusLoading, store.Spending().Status)
	assert.Equal(t, totals, store.RefreshSpending(context.Background()).Items)
}
