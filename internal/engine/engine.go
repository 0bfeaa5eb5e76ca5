// Package engine implements the client-side workflows for cards, categories and
// transactions: cached reads, validated writes, delete confirmation and the
// re-fetching that keeps dependent collections current after a write.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GRBadas/Planilha-Django/internal/common"
	"github.com/GRBadas/Planilha-Django/internal/model"
	"github.com/GRBadas/Planilha-Django/internal/pagination"
	"github.com/GRBadas/Planilha-Django/internal/service"
)

// Engine coordinates reads and writes against the API.
type Engine struct {
	api          service.API
	confirmer    service.Confirmer
	invalidator  *Invalidator
	store        *Store
	transactions *TransactionList
}

// Config holds configuration options for the engine.
type Config struct {
	Dependencies Dependencies
	PageSize     int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		PageSize:     pagination.DefaultPageSize,
		Dependencies: DefaultDependencies(),
	}
}

// New creates an engine with the default configuration.
func New(api service.API, confirmer service.Confirmer) *Engine {
	return NewWithConfig(api, confirmer, DefaultConfig())
}

// NewWithConfig creates an engine with custom configuration.
func NewWithConfig(api service.API, confirmer service.Confirmer, config Config) *Engine {
	inv := NewInvalidator(config.Dependencies)
	store := NewStore(api)
	list := NewTransactionList(api, config.PageSize)
	store.Register(inv)
	list.Register(inv)

	return &Engine{
		api:          api,
		confirmer:    confirmer,
		invalidator:  inv,
		store:        store,
		transactions: list,
	}
}

// Store returns the cached reference collections.
func (e *Engine) Store() *Store { return e.store }

// Transactions returns the paged transaction list.
func (e *Engine) Transactions() *TransactionList { return e.transactions }

// Invalidator returns the engine's invalidator.
func (e *Engine) Invalidator() *Invalidator { return e.invalidator }

// SaveCard normalizes and validates card, then creates it (ID 0) or updates it.
func (e *Engine) SaveCard(ctx context.Context, card model.Card) (*model.Card, error) {
	card = card.Normalize()
	if err := card.Validate(); err != nil {
		return nil, err
	}

	var (
		saved *model.Card
		err   error
	)
	if card.ID == 0 {
		saved, err = e.api.CreateCard(ctx, card)
	} else {
		saved, err = e.api.UpdateCard(ctx, card.ID, card)
	}
	if err != nil {
		return nil, err
	}

	slog.Info("saved card", "id", saved.ID, "name", saved.Name)
	e.invalidator.Invalidate(ctx, EntityCard)
	return saved, nil
}

// DeleteCard asks for confirmation and deletes card. It reports false with no API call
// when the user declines.
func (e *Engine) DeleteCard(ctx context.Context, card model.Card) (bool, error) {
	return e.confirmDelete(ctx, fmt.Sprintf("Delete card %q?", card.Name), EntityCard, func(ctx context.Context) error {
		return e.api.DeleteCard(ctx, card.ID)
	})
}

// SaveCategory validates category, then creates it (ID 0) or renames it.
func (e *Engine) SaveCategory(ctx context.Context, category model.Category) (*model.Category, error) {
	if err := category.Validate(); err != nil {
		return nil, err
	}

	var (
		saved *model.Category
		err   error
	)
	if category.ID == 0 {
		saved, err = e.api.CreateCategory(ctx, category)
	} else {
		saved, err = e.api.UpdateCategory(ctx, category.ID, category)
	}
	if err != nil {
		return nil, err
	}

	slog.Info("saved category", "id", saved.ID, "name", saved.Name)
	e.invalidator.Invalidate(ctx, EntityCategory)
	return saved, nil
}

// DeleteCategory asks for confirmation and deletes category. The server also deletes the
// category's transactions.
func (e *Engine) DeleteCategory(ctx context.Context, category model.Category) (bool, error) {
	prompt := fmt.Sprintf("Delete category %q and all of its transactions?", category.Name)
	return e.confirmDelete(ctx, prompt, EntityCategory, func(ctx context.Context) error {
		return e.api.DeleteCategory(ctx, category.ID)
	})
}

// CreateTransaction submits form as a new transaction.
func (e *Engine) CreateTransaction(ctx context.Context, form *TransactionForm) (*model.Transaction, error) {
	var created *model.Transaction
	err := form.Submit(ctx, func(ctx context.Context, input model.TransactionInput) error {
		var err error
		created, err = e.api.CreateTransaction(ctx, input)
		return err
	})
	if err != nil {
		return nil, err
	}

	e.invalidator.Invalidate(ctx, EntityTransaction)
	return created, nil
}

// SubmitEdit writes the open editor's form and closes the editor on success. On failure
// the editor stays open with its fields and the error message.
func (e *Engine) SubmitEdit(ctx context.Context) (*model.Transaction, error) {
	edit := e.transactions.Editing()
	if edit == nil {
		return nil, ErrNoEdit
	}

	var updated *model.Transaction
	err := edit.Form.Submit(ctx, func(ctx context.Context, input model.TransactionInput) error {
		var err error
		updated, err = e.api.UpdateTransaction(ctx, edit.Original.ID, input)
		return err
	})
	if err != nil {
		return nil, err
	}

	e.transactions.closeEdit(edit)
	e.invalidator.Invalidate(ctx, EntityTransaction)
	return updated, nil
}

// DeleteTransaction asks for confirmation and deletes t.
func (e *Engine) DeleteTransaction(ctx context.Context, t model.Transaction) (bool, error) {
	prompt := fmt.Sprintf("Delete transaction %q of %s?", t.Description, t.Amount.BRL())
	return e.confirmDelete(ctx, prompt, EntityTransaction, func(ctx context.Context) error {
		return e.api.DeleteTransaction(ctx, t.ID)
	})
}

func (e *Engine) confirmDelete(ctx context.Context, prompt string, entity Entity, del func(context.Context) error) (bool, error) {
	ok, err := e.confirmer.Confirm(ctx, prompt)
	if err != nil {
		return false, fmt.Errorf("confirming delete: %w", err)
	}
	if !ok {
		return false, nil
	}

	if err := del(ctx); err != nil {
		return false, err
	}

	common.LogInfo("deleted", common.Fields{"entity": string(entity)})
	e.invalidator.Invalidate(ctx, entity)
	return true, nil
}

// Recent fetches the newest n transactions without touching the paged list.
func (e *Engine) Recent(ctx context.Context, n int) Collection[model.Transaction] {
	return Reduce(Loading[model.Transaction](), fetch(ctx, EntityTransaction, func(ctx context.Context) ([]model.Transaction, error) {
		page, err := e.api.ListTransactions(ctx, 1, n)
		if err != nil {
			return nil, err
		}
		return page.Results, nil
	}))
}
