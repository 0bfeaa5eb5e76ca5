package sheets

import (
	"context"
	"fmt"
	"time"

	"github.com/GRBadas/Planilha-Django/internal/model"
	"github.com/GRBadas/Planilha-Django/internal/pagination"
	"github.com/GRBadas/Planilha-Django/internal/service"
)

// Tab names.
const (
	SpendingTab     = "Gastos"
	TransactionsTab = "Transacoes"
)

// Report is everything one export writes.
type Report struct {
	GeneratedAt  time.Time
	Spending     []model.CategoryTotal
	Transactions []model.Transaction
	TotalIn      model.Amount
	TotalOut     model.Amount
}

// ReportWriter writes a report somewhere.
type ReportWriter interface {
	Write(ctx context.Context, report Report) error
}

// NewReport totals transactions by direction.
func NewReport(spending []model.CategoryTotal, transactions []model.Transaction, now time.Time) Report {
	r := Report{
		GeneratedAt:  now,
		Spending:     spending,
		Transactions: transactions,
	}
	for _, t := range transactions {
		if t.Direction == model.DirectionIn {
			r.TotalIn = r.TotalIn.Add(t.Amount)
		} else {
			r.TotalOut = r.TotalOut.Add(t.Amount)
		}
	}
	return r
}

// CollectReport reads the spending aggregate and every transaction page from api.
// onPage, when set, is called after each page with the number fetched so far and the
// total count.
func CollectReport(ctx context.Context, api service.TransactionAPI, onPage func(fetched, total int)) (Report, error) {
	spending, err := api.SpendingByCategory(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("failed to fetch spending: %w", err)
	}

	var all []model.Transaction
	pager := pagination.NewPager(pagination.MaxPageSize)
	for {
		page, err := api.ListTransactions(ctx, pager.Page, pager.PageSize)
		if err != nil {
			return Report{}, fmt.Errorf("failed to fetch transactions page %d: %w", pager.Page, err)
		}
		all = append(all, page.Results...)
		pager = pager.WithCount(page.Count)
		if onPage != nil {
			onPage(len(all), page.Count)
		}
		if !pager.HasNext() || len(page.Results) == 0 {
			break
		}
		pager = pager.Next()
	}

	return NewReport(spending, all, time.Now()), nil
}
