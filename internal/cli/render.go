package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/GRBadas/Planilha-Django/internal/model"
	"github.com/GRBadas/Planilha-Django/internal/pagination"
)

const noCard = "-"

func newTable(w io.Writer, headers ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	styled := make([]string, len(headers))
	rules := make([]string, len(headers))
	for i, h := range headers {
		styled[i] = TableHeaderStyle.Render(h)
		rules[i] = strings.Repeat("-", max(len(h), 4))
	}
	fmt.Fprintln(tw, strings.Join(styled, "\t"))
	fmt.Fprintln(tw, strings.Join(rules, "\t"))
	return tw
}

// RenderCards writes the cards table. Credit cards show their remaining limit and debit
// cards their balance.
func RenderCards(w io.Writer, cards []model.Card) error {
	if len(cards) == 0 {
		_, err := fmt.Fprintln(w, InfoStyle.Render("No cards yet. Use 'planilha cards add' to create one."))
		return err
	}

	tw := newTable(w, "ID", "Name", "Type", "Available")
	for _, c := range cards {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", c.ID, c.Name, c.Kind.Label(), c.Available().BRL())
	}
	return tw.Flush()
}

// RenderCategories writes the categories table.
func RenderCategories(w io.Writer, categories []model.Category) error {
	if len(categories) == 0 {
		_, err := fmt.Fprintln(w, InfoStyle.Render("No categories yet. Use 'planilha categories add' to create one."))
		return err
	}

	tw := newTable(w, "ID", "Name")
	for _, c := range categories {
		fmt.Fprintf(tw, "%d\t%s\n", c.ID, c.Name)
	}
	return tw.Flush()
}

// RenderTransactions writes one page of transactions followed by the pager line.
func RenderTransactions(w io.Writer, items []model.Transaction, pager pagination.Pager) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, InfoStyle.Render("No transactions yet."))
		return err
	}

	tw := newTable(w, "ID", "Date", "Description", "Amount", "Card", "Category")
	for _, t := range items {
		card := t.CardName
		if card == "" {
			card = noCard
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.Date.Format("02/01/2006"), t.Description,
			FormatAmount(t.Amount, t.Direction), card, t.CategoryName)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintln(w, SubtleStyle.Render(FormatPager(pager)))
	return err
}

// FormatPager renders the page window, bracketing the current page:
// "‹ 1 [2] 3 4 5 › (page 2 of 9, 70 transactions)".
func FormatPager(p pagination.Pager) string {
	var b strings.Builder
	if p.HasPrev() {
		b.WriteString("‹ ")
	}
	for i, n := range p.Window() {
		if i > 0 {
			b.WriteByte(' ')
		}
		if n == p.Page {
			fmt.Fprintf(&b, "[%d]", n)
		} else {
			fmt.Fprintf(&b, "%d", n)
		}
	}
	if p.HasNext() {
		b.WriteString(" ›")
	}
	fmt.Fprintf(&b, " (page %d of %d, %d transactions)", p.Page, max(p.TotalPages(), 1), p.Count)
	return b.String()
}

// RenderSpending writes spending per category with each category's share of the total.
func RenderSpending(w io.Writer, totals []model.CategoryTotal) error {
	if len(totals) == 0 {
		_, err := fmt.Fprintln(w, InfoStyle.Render("No spending recorded."))
		return err
	}

	sum := model.AmountFromCents(0)
	for _, t := range totals {
		sum = sum.Add(t.Total)
	}

	tw := newTable(w, "Category", "Total", "Share")
	for _, t := range totals {
		share := 0.0
		if !sum.IsZero() {
			share = t.Total.Float64() / sum.Float64() * 100
		}
		fmt.Fprintf(tw, "%s\t%s\t%5.1f%%\n", t.Category, t.Total.BRL(), share)
	}
	fmt.Fprintf(tw, "%s\t%s\t\n", BoldStyle.Render("Total"), BoldStyle.Render(sum.BRL()))
	return tw.Flush()
}
