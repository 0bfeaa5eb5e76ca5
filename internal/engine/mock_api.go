package engine

import (
	"context"

	"github.com/GRBadas/Planilha-Django/internal/model"
	"github.com/GRBadas/Planilha-Django/internal/service"
	"github.com/stretchr/testify/mock"
)

// MockAPI is a testify mock of service.API.
type MockAPI struct {
	mock.Mock
}

var _ service.API = (*MockAPI)(nil)

// ListCards implements service.API.
func (m *MockAPI) ListCards(ctx context.Context) ([]model.Card, error) {
	args := m.Called(ctx)
	cards, _ := args.Get(0).([]model.Card)
	return cards, args.Error(1)
}

// CreateCard implements service.API.
func (m *MockAPI) CreateCard(ctx context.Context, card model.Card) (*model.Card, error) {
	args := m.Called(ctx, card)
	saved, _ := args.Get(0).(*model.Card)
	return saved, args.Error(1)
}

// UpdateCard implements service.API.
func (m *MockAPI) UpdateCard(ctx context.Context, id int, card model.Card) (*model.Card, error) {
	args := m.Called(ctx, id, card)
	saved, _ := args.Get(0).(*model.Card)
	return saved, args.Error(1)
}

// DeleteCard implements service.API.
func (m *MockAPI) DeleteCard(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

// ListCategories implements service.API.
func (m *MockAPI) ListCategories(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	categories, _ := args.Get(0).([]model.Category)
	return categories, args.Error(1)
}

// CreateCategory implements service.API.
func (m *MockAPI) CreateCategory(ctx context.Context, category model.Category) (*model.Category, error) {
	args := m.Called(ctx, category)
	saved, _ := args.Get(0).(*model.Category)
	return saved, args.Error(1)
}

// UpdateCategory implements service.API.
func (m *MockAPI) UpdateCategory(ctx context.Context, id int, category model.Category) (*model.Category, error) {
	args := m.Called(ctx, id, category)
	saved, _ := args.Get(0).(*model.Category)
	return saved, args.Error(1)
}

// DeleteCategory implements service.API.
func (m *MockAPI) DeleteCategory(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

// ListTransactions implements service.API.
func (m *MockAPI) ListTransactions(ctx context.Context, page, pageSize int) (*service.TransactionPage, error) {
	args := m.Called(ctx, page, pageSize)
	result, _ := args.Get(0).(*service.TransactionPage)
	return result, args.Error(1)
}

// CreateTransaction implements service.API.
func (m *MockAPI) CreateTransaction(ctx context.Context, input model.TransactionInput) (*model.Transaction, error) {
	args := m.Called(ctx, input)
	saved, _ := args.Get(0).(*model.Transaction)
	return saved, args.Error(1)
}

// UpdateTransaction implements service.API.
func (m *MockAPI) UpdateTransaction(ctx context.Context, id int, input model.TransactionInput) (*model.Transaction, error) {
	args := m.Called(ctx, id, input)
	saved, _ := args.Get(0).(*model.Transaction)
	return saved, args.Error(1)
}

// DeleteTransaction implements service.API.
func (m *MockAPI) DeleteTransaction(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

// SpendingByCategory implements service.API.
func (m *MockAPI) SpendingByCategory(ctx context.Context) ([]model.CategoryTotal, error) {
	args := m.Called(ctx)
	totals, _ := args.Get(0).([]model.CategoryTotal)
	return totals, args.Error(1)
}
