package components

import (
	"fmt"
	"strings"

	"github.com/GRBadas/Planilha-Django/internal/engine"
	"github.com/GRBadas/Planilha-Django/internal/model"
	"github.com/GRBadas/Planilha-Django/internal/pagination"
	"github.com/GRBadas/Planilha-Django/internal/tui/themes"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TransactionTableModel shows one page of transactions with the page window below it.
type TransactionTableModel struct {
	theme  themes.Theme
	page   engine.Collection[model.Transaction]
	table  table.Model
	pager  pagination.Pager
	width  int
	height int
}

// NewTransactionTable creates an empty, loading table.
func NewTransactionTable(theme themes.Theme) TransactionTableModel {
	t := table.New(
		table.WithFocused(true),
		table.WithHeight(pagination.DefaultPageSize),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Border).
		BorderBottom(true).
		Bold(false)
	s.Selected = theme.Selected
	t.SetStyles(s)

	m := TransactionTableModel{
		theme:  theme,
		table:  t,
		page:   engine.Loading[model.Transaction](),
		pager:  pagination.NewPager(pagination.DefaultPageSize),
		width:  80,
		height: 24,
	}
	m.updateColumnWidths()
	return m
}

// SetPage replaces the rows and pager. The cursor stays on the same row index when it
// still exists.
func (m *TransactionTableModel) SetPage(page engine.Collection[model.Transaction], pager pagination.Pager) {
	m.page = page
	m.pager = pager
	m.table.SetRows(m.buildRows())
	if m.table.Cursor() >= len(page.Items) {
		m.table.SetCursor(max(0, len(page.Items)-1))
	}
}

// Page returns the rows being shown.
func (m TransactionTableModel) Page() engine.Collection[model.Transaction] {
	return m.page
}

// Pager returns the pager being shown.
func (m TransactionTableModel) Pager() pagination.Pager {
	return m.pager
}

// Selected returns the transaction under the cursor.
func (m TransactionTableModel) Selected() (model.Transaction, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.page.Items) {
		return model.Transaction{}, false
	}
	return m.page.Items[i], true
}

// Update handles cursor movement.
func (m TransactionTableModel) Update(msg tea.Msg) (TransactionTableModel, tea.Cmd) {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the table, or the collection placeholder when there are no rows.
func (m TransactionTableModel) View() string {
	if placeholder := CollectionPlaceholder(m.theme, m.page.Status, m.page.Err, len(m.page.Items), "No transactions yet."); placeholder != "" {
		return placeholder
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.table.View(), "", m.renderPager())
}

// renderPager renders "‹ 1 2 [3] 4 5 ›" with the current page highlighted.
func (m TransactionTableModel) renderPager() string {
	muted := lipgloss.NewStyle().Foreground(m.theme.Muted)
	parts := make([]string, 0, pagination.WindowSize+2)
	if m.pager.HasPrev() {
		parts = append(parts, "‹")
	}
	for _, n := range m.pager.Window() {
		label := fmt.Sprintf("%d", n)
		if n == m.pager.Page {
			label = m.theme.Selected.Render(" " + label + " ")
		}
		parts = append(parts, label)
	}
	if m.pager.HasNext() {
		parts = append(parts, "›")
	}

	summary := muted.Render(fmt.Sprintf("page %d of %d · %d transactions",
		m.pager.Page, max(m.pager.TotalPages(), 1), m.pager.Count))
	return strings.Join(parts, " ") + "  " + summary
}

func (m TransactionTableModel) buildRows() []table.Row {
	rows := make([]table.Row, 0, len(m.page.Items))
	for _, t := range m.page.Items {
		sign := "-"
		if t.Direction == model.DirectionIn {
			sign = "+"
		}
		card := t.CardName
		if card == "" && t.CardID != nil {
			card = fmt.Sprintf("#%d", *t.CardID)
		}
		if card == "" {
			card = "-"
		}
		category := t.CategoryName
		if category == "" {
			category = fmt.Sprintf("#%d", t.CategoryID)
		}
		rows = append(rows, table.Row{
			model.FormatDate(t.Date),
			t.Description,
			sign + t.Amount.BRL(),
			card,
			category,
		})
	}
	return rows
}

// Resize updates the component size.
func (m *TransactionTableModel) Resize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetHeight(max(3, min(height-4, m.pager.PageSize+1)))
	m.updateColumnWidths()
}

// updateColumnWidths adjusts column widths to the available space.
func (m *TransactionTableModel) updateColumnWidths() {
	available := max(m.width-4, 60)
	m.table.SetColumns([]table.Column{
		{Title: "Date", Width: 10},
		{Title: "Description", Width: max(15, int(float64(available)*0.35))},
		{Title: "Amount", Width: max(12, int(float64(available)*0.17))},
		{Title: "Card", Width: max(8, int(float64(available)*0.17))},
		{Title: "Category", Width: max(10, int(float64(available)*0.18))},
	})
}
