package components

import (
	"fmt"
	"strings"

	"github.com/GRBadas/Planilha-Django/internal/engine"
	"github.com/GRBadas/Planilha-Django/internal/model"
	"github.com/GRBadas/Planilha-Django/internal/tui/themes"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// SpendingChartModel renders spend by category as horizontal bars scaled to the largest
// category.
type SpendingChartModel struct {
	theme    themes.Theme
	bar      progress.Model
	spending engine.Collection[model.CategoryTotal]
	width    int
}

// NewSpendingChartModel creates an empty chart.
func NewSpendingChartModel(theme themes.Theme) SpendingChartModel {
	bar := progress.New(progress.WithDefaultGradient())
	bar.ShowPercentage = false
	bar.Width = 30

	return SpendingChartModel{
		theme:    theme,
		bar:      bar,
		spending: engine.Loading[model.CategoryTotal](),
		width:    80,
	}
}

// SetSpending replaces the chart data.
func (m *SpendingChartModel) SetSpending(c engine.Collection[model.CategoryTotal]) {
	m.spending = c
}

// Spending returns the chart data.
func (m SpendingChartModel) Spending() engine.Collection[model.CategoryTotal] {
	return m.spending
}

// View renders the chart.
func (m SpendingChartModel) View() string {
	title := m.theme.Title.Render("Spending by category")
	if placeholder := CollectionPlaceholder(m.theme, m.spending.Status, m.spending.Err, len(m.spending.Items), "No spending recorded yet."); placeholder != "" {
		return lipgloss.JoinVertical(lipgloss.Left, title, placeholder)
	}

	items := m.spending.Items
	labelWidth := 0
	var largest, total model.Amount
	for _, item := range items {
		labelWidth = max(labelWidth, len([]rune(item.Category)))
		if item.Total.Cmp(largest) > 0 {
			largest = item.Total
		}
		total = total.Add(item.Total)
	}
	labelWidth = min(labelWidth, 20)

	bar := m.bar
	bar.Width = max(10, m.width-labelWidth-24)

	lines := make([]string, 0, len(items)+2)
	for _, item := range items {
		share := 0.0
		if largest.IsPositive() {
			share = item.Total.Float64() / largest.Float64()
		}
		label := fmt.Sprintf("%s %-*s", themes.GetCategoryIcon(item.Category), labelWidth, Truncate(item.Category, labelWidth))
		lines = append(lines, fmt.Sprintf("%s %s %s", label, bar.ViewAs(share), m.theme.Outflow.Render(item.Total.BRL())))
	}
	lines = append(lines, "", m.theme.Bold.Render("Total: "+total.BRL()))

	return lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(lines, "\n"))
}

// Resize updates the component width.
func (m *SpendingChartModel) Resize(width int) {
	m.width = width
}
