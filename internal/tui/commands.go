package tui

import (
	"context"

	"github.com/GRBadas/Planilha-Django/internal/engine"
	"github.com/GRBadas/Planilha-Django/internal/model"
	tea "github.com/charmbracelet/bubbletea"
)

// requestContext bounds a single read or save.
func (m Model) requestContext() (context.Context, context.CancelFunc) {
	if m.config.RequestTimeout <= 0 {
		return context.WithCancel(m.ctx)
	}
	return context.WithTimeout(m.ctx, m.config.RequestTimeout)
}

// loadScreen starts the fetches the current screen renders from.
func (m Model) loadScreen() tea.Cmd {
	switch m.screen {
	case ScreenDashboard:
		return m.loadDashboard(m.gen)
	case ScreenCards:
		return m.loadCards(m.gen)
	case ScreenCategories:
		return m.loadCategories(m.gen)
	case ScreenTransactions:
		return tea.Batch(m.loadPage(m.gen, (*engine.TransactionList).Load), m.loadReference(m.gen))
	case ScreenNewTransaction:
		return m.loadReference(m.gen)
	default:
		return nil
	}
}

func (m Model) loadDashboard(gen int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()

		return dashboardLoadedMsg{
			gen:      gen,
			spending: m.engine.Store().RefreshSpending(ctx),
			recent:   m.engine.Recent(ctx, m.config.RecentCount),
		}
	}
}

func (m Model) loadCards(gen int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		return cardsLoadedMsg{gen: gen, cards: m.engine.Store().RefreshCards(ctx)}
	}
}

func (m Model) loadCategories(gen int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		return categoriesLoadedMsg{gen: gen, categories: m.engine.Store().RefreshCategories(ctx)}
	}
}

func (m Model) loadReference(gen int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		cards, categories := m.engine.Store().LoadReferenceData(ctx)
		return referenceLoadedMsg{gen: gen, cards: cards, categories: categories}
	}
}

// loadPage runs a page move (Load, Next, Prev) and reports the resulting snapshot.
func (m Model) loadPage(gen int, move func(*engine.TransactionList, context.Context) engine.Collection[model.Transaction]) tea.Cmd {
	list := m.engine.Transactions()
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		move(list, ctx)
		page, pager := list.Snapshot()
		return pageLoadedMsg{gen: gen, page: page, pager: pager}
	}
}

func (m Model) goToPage(gen, n int) tea.Cmd {
	return m.loadPage(gen, func(l *engine.TransactionList, ctx context.Context) engine.Collection[model.Transaction] {
		return l.GoTo(ctx, n)
	})
}

// write wraps a save or delete into a command whose result carries itself for retry.
func (m Model) write(gen int, entity engine.Entity, action writeAction, bounded bool, run func(context.Context) (bool, error)) tea.Cmd {
	var cmd tea.Cmd
	cmd = func() tea.Msg {
		var (
			ctx    context.Context
			cancel context.CancelFunc
		)
		if bounded {
			ctx, cancel = m.requestContext()
		} else {
			ctx, cancel = context.WithCancel(m.ctx)
		}
		defer cancel()

		applied, err := run(ctx)
		return writeDoneMsg{gen: gen, entity: entity, action: action, applied: applied, err: err, retry: cmd}
	}
	return cmd
}

func (m Model) saveCard(gen int, card model.Card) tea.Cmd {
	return m.write(gen, engine.EntityCard, actionSave, true, func(ctx context.Context) (bool, error) {
		_, err := m.engine.SaveCard(ctx, card)
		return err == nil, err
	})
}

func (m Model) saveCategory(gen int, category model.Category) tea.Cmd {
	return m.write(gen, engine.EntityCategory, actionSave, true, func(ctx context.Context) (bool, error) {
		_, err := m.engine.SaveCategory(ctx, category)
		return err == nil, err
	})
}

func (m Model) createTransaction(gen int, form *engine.TransactionForm) tea.Cmd {
	return m.write(gen, engine.EntityTransaction, actionSave, true, func(ctx context.Context) (bool, error) {
		_, err := m.engine.CreateTransaction(ctx, form)
		return err == nil, err
	})
}

func (m Model) submitEdit(gen int) tea.Cmd {
	return m.write(gen, engine.EntityTransaction, actionSave, true, func(ctx context.Context) (bool, error) {
		_, err := m.engine.SubmitEdit(ctx)
		return err == nil, err
	})
}

// Deletes block on the confirmation dialog, so they run without the request timeout.

func (m Model) deleteCard(gen int, card model.Card) tea.Cmd {
	return m.write(gen, engine.EntityCard, actionDelete, false, func(ctx context.Context) (bool, error) {
		return m.engine.DeleteCard(ctx, card)
	})
}

func (m Model) deleteCategory(gen int, category model.Category) tea.Cmd {
	return m.write(gen, engine.EntityCategory, actionDelete, false, func(ctx context.Context) (bool, error) {
		return m.engine.DeleteCategory(ctx, category)
	})
}

func (m Model) deleteTransaction(gen int, t model.Transaction) tea.Cmd {
	return m.write(gen, engine.EntityTransaction, actionDelete, false, func(ctx context.Context) (bool, error) {
		return m.engine.DeleteTransaction(ctx, t)
	})
}
