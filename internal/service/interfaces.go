// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/GRBadas/Planilha-Django/internal/model"
)

// TransactionPage is one page of the transaction collection plus the total row count.
type TransactionPage struct {
	Results []model.Transaction `json:"results"`
	Count   int                 `json:"count"`
}

// CardAPI is the remote card collection.
type CardAPI interface {
	ListCards(ctx context.Context) ([]model.Card, error)
	CreateCard(ctx context.Context, card model.Card) (*model.Card, error)
	UpdateCard(ctx context.Context, id int, card model.Card) (*model.Card, error)
	DeleteCard(ctx context.Context, id int) error
}

// CategoryAPI is the remote category collection.
type CategoryAPI interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	CreateCategory(ctx context.Context, category model.Category) (*model.Category, error)
	UpdateCategory(ctx context.Context, id int, category model.Category) (*model.Category, error)
	DeleteCategory(ctx context.Context, id int) error
}

// TransactionAPI is the remote transaction collection and its aggregate.
type TransactionAPI interface {
	ListTransactions(ctx context.Context, page, pageSize int) (*TransactionPage, error)
	CreateTransaction(ctx context.Context, input model.TransactionInput) (*model.Transaction, error)
	UpdateTransaction(ctx context.Context, id int, input model.TransactionInput) (*model.Transaction, error)
	DeleteTransaction(ctx context.Context, id int) error
	SpendingByCategory(ctx context.Context) ([]model.CategoryTotal, error)
}

// API is the full REST surface the client consumes.
type API interface {
	CardAPI
	CategoryAPI
	TransactionAPI
}

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// Storage defines the contract for the server's persistence layer.
type Storage interface {
	// Card operations
	ListCards(ctx context.Context) ([]model.Card, error)
	GetCard(ctx context.Context, id int) (*model.Card, error)
	CreateCard(ctx context.Context, card model.Card) (*model.Card, error)
	UpdateCard(ctx context.Context, id int, card model.Card) (*model.Card, error)
	DeleteCard(ctx context.Context, id int) error

	// Category operations
	ListCategories(ctx context.Context) ([]model.Category, error)
	GetCategory(ctx context.Context, id int) (*model.Category, error)
	CreateCategory(ctx context.Context, name string) (*model.Category, error)
	UpdateCategory(ctx context.Context, id int, name string) (*model.Category, error)
	DeleteCategory(ctx context.Context, id int) error

	// Transaction operations
	ListTransactions(ctx context.Context, offset, limit int) ([]model.Transaction, int, error)
	GetTransaction(ctx context.Context, id int) (*model.Transaction, error)
	CreateTransaction(ctx context.Context, input model.TransactionInput) (*model.Transaction, error)
	UpdateTransaction(ctx context.Context, id int, input model.TransactionInput) (*model.Transaction, error)
	DeleteTransaction(ctx context.Context, id int) error
	SpendingByCategory(ctx context.Context) ([]model.CategoryTotal, error)

	// Maintenance
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
