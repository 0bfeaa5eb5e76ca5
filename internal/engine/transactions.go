package engine

import (
	"context"
	"errors"
	"sync"

	"github.com/GRBadas/Planilha-Django/internal/common"
	"github.com/GRBadas/Planilha-Django/internal/model"
	"github.com/GRBadas/Planilha-Django/internal/pagination"
	"github.com/GRBadas/Planilha-Django/internal/service"
)

// TransactionList is the paged transaction view: the current page, the pager and an
// optional edit in progress.
type TransactionList struct {
	api     service.TransactionAPI
	editing *TransactionEdit
	page    Collection[model.Transaction]
	pager   pagination.Pager
	mu      sync.Mutex
}

// TransactionEdit is an open editor over a copy of one transaction.
type TransactionEdit struct {
	Form     *TransactionForm
	Original model.Transaction
}

// NewTransactionList creates a list starting at page 1.
func NewTransactionList(api service.TransactionAPI, pageSize int) *TransactionList {
	return &TransactionList{
		api:   api,
		pager: pagination.NewPager(pageSize),
		page:  Loading[model.Transaction](),
	}
}

// Snapshot returns the current page state and pager.
func (l *TransactionList) Snapshot() (Collection[model.Transaction], pagination.Pager) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.page, l.pager
}

// Load fetches the current page. If the collection shrank so the page no longer exists,
// the last existing page is fetched instead.
func (l *TransactionList) Load(ctx context.Context) Collection[model.Transaction] {
	l.mu.Lock()
	l.page = Reduce(l.page, FetchStarted[model.Transaction]())
	pager := l.pager
	l.mu.Unlock()

	result, err := l.api.ListTransactions(ctx, pager.Page, pager.PageSize)
	if err == nil {
		if clamped := pager.WithCount(result.Count); clamped.Page != pager.Page {
			pager = clamped
			result, err = l.api.ListTransactions(ctx, pager.Page, pager.PageSize)
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		common.LogWarn(err, "failed to load collection", common.Fields{"collection": string(EntityTransaction), "page": pager.Page})
		l.page = Reduce(l.page, FetchFailed[model.Transaction](err))
		return l.page
	}
	l.pager = pager.WithCount(result.Count)
	l.page = Reduce(l.page, FetchSucceeded(result.Results))
	return l.page
}

// Next loads the next page; it does nothing on the last page.
func (l *TransactionList) Next(ctx context.Context) Collection[model.Transaction] {
	return l.move(ctx, pagination.Pager.Next)
}

// Prev loads the previous page; it does nothing on the first page.
func (l *TransactionList) Prev(ctx context.Context) Collection[model.Transaction] {
	return l.move(ctx, pagination.Pager.Prev)
}

// GoTo loads page n, clamped to the known range.
func (l *TransactionList) GoTo(ctx context.Context, n int) Collection[model.Transaction] {
	return l.move(ctx, func(p pagination.Pager) pagination.Pager { return p.GoTo(n) })
}

func (l *TransactionList) move(ctx context.Context, step func(pagination.Pager) pagination.Pager) Collection[model.Transaction] {
	l.mu.Lock()
	next := step(l.pager)
	if next.Page == l.pager.Page {
		current := l.page
		l.mu.Unlock()
		return current
	}
	l.pager = next
	l.mu.Unlock()
	return l.Load(ctx)
}

// BeginEdit opens an editor over a copy of t.
func (l *TransactionList) BeginEdit(t model.Transaction, cards []model.Card) *TransactionEdit {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.editing = &TransactionEdit{Original: t, Form: NewEditForm(t, cards)}
	return l.editing
}

// Editing returns the open editor, or nil.
func (l *TransactionList) Editing() *TransactionEdit {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.editing
}

// CancelEdit closes the editor without writing.
func (l *TransactionList) CancelEdit() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.editing = nil
}

func (l *TransactionList) closeEdit(edit *TransactionEdit) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.editing == edit {
		l.editing = nil
	}
}

// Register hooks the list into inv so transaction writes reload the current page.
func (l *TransactionList) Register(inv *Invalidator) {
	inv.Register(EntityTransaction, func(ctx context.Context) error {
		return l.Load(ctx).Err
	})
}

// ErrNoEdit is returned when SubmitEdit is called without an open editor.
var ErrNoEdit = errors.New("no transaction is being edited")
