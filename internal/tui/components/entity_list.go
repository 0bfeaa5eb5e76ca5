package components

import (
	"fmt"

	"github.com/GRBadas/Planilha-Django/internal/engine"
	"github.com/GRBadas/Planilha-Django/internal/model"
	"github.com/GRBadas/Planilha-Django/internal/tui/themes"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// EntityListModel is a selectable table over a fetched collection.
type EntityListModel[T any] struct {
	theme themes.Theme
	items engine.Collection[T]
	row   func(T) table.Row
	table table.Model
	empty string
}

// NewEntityList creates a list with the given columns; row renders one item.
func NewEntityList[T any](theme themes.Theme, columns []table.Column, row func(T) table.Row, empty string) EntityListModel[T] {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Border).
		BorderBottom(true).
		Bold(false)
	s.Selected = theme.Selected
	t.SetStyles(s)

	return EntityListModel[T]{
		theme: theme,
		items: engine.Loading[T](),
		row:   row,
		table: t,
		empty: empty,
	}
}

// NewCardList creates the card table.
func NewCardList(theme themes.Theme) EntityListModel[model.Card] {
	return NewEntityList(theme, []table.Column{
		{Title: "ID", Width: 5},
		{Title: "Name", Width: 24},
		{Title: "Type", Width: 8},
		{Title: "Limit / Balance", Width: 18},
	}, func(c model.Card) table.Row {
		return table.Row{fmt.Sprintf("%d", c.ID), c.Name, c.Kind.Label(), c.Available().BRL()}
	}, "No cards registered yet.")
}

// NewCategoryList creates the category table.
func NewCategoryList(theme themes.Theme) EntityListModel[model.Category] {
	return NewEntityList(theme, []table.Column{
		{Title: "ID", Width: 5},
		{Title: "Name", Width: 32},
	}, func(c model.Category) table.Row {
		return table.Row{fmt.Sprintf("%d", c.ID), themes.GetCategoryIcon(c.Name) + " " + c.Name}
	}, "No categories registered yet.")
}

// SetItems replaces the collection.
func (m *EntityListModel[T]) SetItems(items engine.Collection[T]) {
	m.items = items
	rows := make([]table.Row, 0, len(items.Items))
	for _, item := range items.Items {
		rows = append(rows, m.row(item))
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(0, len(rows)-1))
	}
}

// Items returns the collection.
func (m EntityListModel[T]) Items() engine.Collection[T] {
	return m.items
}

// Selected returns the item under the cursor.
func (m EntityListModel[T]) Selected() (T, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.items.Items) {
		var zero T
		return zero, false
	}
	return m.items.Items[i], true
}

// Update handles cursor movement.
func (m EntityListModel[T]) Update(msg tea.Msg) (EntityListModel[T], tea.Cmd) {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the table, or the collection placeholder.
func (m EntityListModel[T]) View() string {
	if placeholder := CollectionPlaceholder(m.theme, m.items.Status, m.items.Err, len(m.items.Items), m.empty); placeholder != "" {
		return placeholder
	}
	return m.table.View()
}

// Resize updates the component height.
func (m *EntityListModel[T]) Resize(_, height int) {
	m.table.SetHeight(max(3, height-2))
}
