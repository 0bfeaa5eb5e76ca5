package sheets

import (
	"fmt"

	"github.com/GRBadas/Planilha-Django/internal/model"
)

// spendingRows lays out the spend-by-category tab. Shares are formulas over the total row.
func spendingRows(r Report) [][]any {
	values := make([][]any, 0, len(r.Spending)+5)
	values = append(values, []any{"Categoria", "Total", "Participação"})

	totalRow := len(r.Spending) + 2
	for i, s := range r.Spending {
		row := i + 2
		values = append(values, []any{
			s.Category,
			s.Total.Float64(),
			fmt.Sprintf("=IF(B%d=0,0,B%d/B%d)", totalRow, row, totalRow),
		})
	}
	values = append(values,
		[]any{"Total", fmt.Sprintf("=SUM(B2:B%d)", totalRow-1), ""},
		[]any{},
		[]any{"Entradas", r.TotalIn.Float64()},
		[]any{"Saídas", r.TotalOut.Float64()},
		[]any{"Gerado em", r.GeneratedAt.Format("2006-01-02 15:04")},
	)
	return values
}

// ledgerRows lays out one row per transaction in the order given.
func ledgerRows(r Report) [][]any {
	values := make([][]any, 0, len(r.Transactions)+1)
	values = append(values, []any{"ID", "Data", "Descrição", "Valor", "Tipo", "Cartão", "Categoria"})
	for _, t := range r.Transactions {
		values = append(values, []any{
			t.ID,
			model.FormatDate(t.Date),
			t.Description,
			t.SignedAmount().Float64(),
			t.Direction.Label(),
			t.CardName,
			t.CategoryName,
		})
	}
	return values
}
