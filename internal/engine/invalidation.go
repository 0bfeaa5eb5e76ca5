package engine

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Entity names a remote collection.
type Entity string

const (
	// EntityCard is the card collection.
	EntityCard Entity = "cards"
	// EntityCategory is the category collection.
	EntityCategory Entity = "categories"
	// EntityTransaction is the paged transaction collection.
	EntityTransaction Entity = "transactions"
	// EntitySpending is the spend-by-category aggregate.
	EntitySpending Entity = "spending"
)

// Dependencies maps a written entity to every collection that must be re-fetched after
// the write succeeds.
type Dependencies map[Entity][]Entity

// DefaultDependencies is the invalidation table. Transactions move card balances and
// limits on the server, so a transaction write also invalidates cards and the aggregate.
func DefaultDependencies() Dependencies {
	return Dependencies{
		EntityCard:        {EntityCard},
		EntityCategory:    {EntityCategory},
		EntityTransaction: {EntityTransaction, EntityCard, EntitySpending},
	}
}

// For returns the collections invalidated by a write to e. An entity missing from the
// table invalidates only itself.
func (d Dependencies) For(e Entity) []Entity {
	if deps, ok := d[e]; ok {
		return deps
	}
	return []Entity{e}
}

// Refresher re-fetches one collection.
type Refresher func(ctx context.Context) error

// Invalidator runs the refreshers registered for the collections a write invalidates.
type Invalidator struct {
	deps       Dependencies
	refreshers map[Entity][]Refresher
	mu         sync.RWMutex
}

// NewInvalidator creates an invalidator over deps.
func NewInvalidator(deps Dependencies) *Invalidator {
	if deps == nil {
		deps = DefaultDependencies()
	}
	return &Invalidator{
		deps:       deps,
		refreshers: make(map[Entity][]Refresher),
	}
}

// Dependencies returns the table the invalidator uses.
func (i *Invalidator) Dependencies() Dependencies {
	return i.deps
}

// Register adds a refresher for entity.
func (i *Invalidator) Register(entity Entity, r Refresher) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.refreshers[entity] = append(i.refreshers[entity], r)
}

// Invalidate re-fetches every collection that depends on written, concurrently, and
// returns the invalidated entities. Refresh failures are logged and do not fail the write
// that caused them.
func (i *Invalidator) Invalidate(ctx context.Context, written Entity) []Entity {
	targets := i.deps.For(written)

	i.mu.RLock()
	var jobs []Refresher
	for _, target := range targets {
		jobs = append(jobs, i.refreshers[target]...)
	}
	i.mu.RUnlock()

	var g errgroup.Group
	for _, job := range jobs {
		g.Go(func() error {
			return job(ctx)
		})
	}
	if err := g.Wait(); err != nil {
		slog.Warn("refresh after write failed", "written", written, "error", err)
	}
	return targets
}
