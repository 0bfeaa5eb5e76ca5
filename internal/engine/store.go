package engine

import (
	"context"
	"sync"

	"github.com/GRBadas/Planilha-Django/internal/common"
	"github.com/GRBadas/Planilha-Django/internal/model"
	"github.com/GRBadas/Planilha-Django/internal/service"
	"golang.org/x/sync/errgroup"
)

// Store holds the latest fetched card, category and spending collections. Reads never
// fail outward: a failed fetch is logged and leaves an empty collection in the error
// state.
type Store struct {
	api        service.API
	cards      Collection[model.Card]
	categories Collection[model.Category]
	spending   Collection[model.CategoryTotal]
	mu         sync.RWMutex
}

// NewStore creates a store whose collections start loading.
func NewStore(api service.API) *Store {
	return &Store{
		api:        api,
		cards:      Loading[model.Card](),
		categories: Loading[model.Category](),
		spending:   Loading[model.CategoryTotal](),
	}
}

// ListCards fetches cards, returning an empty list on failure.
func (s *Store) ListCards(ctx context.Context) []model.Card {
	return s.RefreshCards(ctx).Items
}

// ListCategories fetches categories, returning an empty list on failure.
func (s *Store) ListCategories(ctx context.Context) []model.Category {
	return s.RefreshCategories(ctx).Items
}

// RefreshCards re-fetches cards and returns the new collection state.
func (s *Store) RefreshCards(ctx context.Context) Collection[model.Card] {
	s.mu.Lock()
	s.cards = Reduce(s.cards, FetchStarted[model.Card]())
	s.mu.Unlock()

	next := fetch(ctx, EntityCard, s.api.ListCards)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cards = Reduce(s.cards, next)
	return s.cards
}

// RefreshCategories re-fetches categories and returns the new collection state.
func (s *Store) RefreshCategories(ctx context.Context) Collection[model.Category] {
	s.mu.Lock()
	s.categories = Reduce(s.categories, FetchStarted[model.Category]())
	s.mu.Unlock()

	next := fetch(ctx, EntityCategory, s.api.ListCategories)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = Reduce(s.categories, next)
	return s.categories
}

// RefreshSpending re-fetches the spend-by-category aggregate.
func (s *Store) RefreshSpending(ctx context.Context) Collection[model.CategoryTotal] {
	s.mu.Lock()
	s.spending = Reduce(s.spending, FetchStarted[model.CategoryTotal]())
	s.mu.Unlock()

	next := fetch(ctx, EntitySpending, s.api.SpendingByCategory)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.spending = Reduce(s.spending, next)
	return s.spending
}

// LoadReferenceData fetches cards and categories concurrently. Both fetches always run to
// completion; neither failure cancels the other.
func (s *Store) LoadReferenceData(ctx context.Context) (Collection[model.Card], Collection[model.Category]) {
	var (
		cards      Collection[model.Card]
		categories Collection[model.Category]
		g          errgroup.Group
	)
	g.Go(func() error {
		cards = s.RefreshCards(ctx)
		return nil
	})
	g.Go(func() error {
		categories = s.RefreshCategories(ctx)
		return nil
	})
	_ = g.Wait()
	return cards, categories
}

// Cards returns the latest card collection without fetching.
func (s *Store) Cards() Collection[model.Card] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cards
}

// Categories returns the latest category collection without fetching.
func (s *Store) Categories() Collection[model.Category] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.categories
}

// Spending returns the latest aggregate without fetching.
func (s *Store) Spending() Collection[model.CategoryTotal] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.spending
}

// Register hooks the store's collections into inv.
func (s *Store) Register(inv *Invalidator) {
	inv.Register(EntityCard, func(ctx context.Context) error {
		return s.RefreshCards(ctx).Err
	})
	inv.Register(EntityCategory, func(ctx context.Context) error {
		return s.RefreshCategories(ctx).Err
	})
	inv.Register(EntitySpending, func(ctx context.Context) error {
		return s.RefreshSpending(ctx).Err
	})
}

func fetch[T any](ctx context.Context, entity Entity, list func(context.Context) ([]T, error)) Action[T] {
	items, err := list(ctx)
	if err != nil {
		common.LogWarn(err, "failed to load collection", common.Fields{"collection": string(entity)})
	}
	return FetchResult(items, err)
}
