package tui

import (
	"fmt"
	"strings"

	"github.com/GRBadas/Planilha-Django/internal/model"
	"github.com/GRBadas/Planilha-Django/internal/tui/components"
	"github.com/charmbracelet/lipgloss"
)

// wideLayout is the terminal width from which the dashboard shows its panels side by side.
const wideLayout = 110

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	body := m.renderBody()
	if m.confirm != nil {
		body = m.confirm.View()
	}

	sections := []string{m.renderTabs(), "", body, "", m.renderStatusBar()}
	if !m.formOpen() && m.confirm == nil {
		sections = append(sections, m.help.View(m.keymap))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) formOpen() bool {
	return m.cardForm != nil || m.categoryForm != nil || m.editForm != nil || m.screen == ScreenNewTransaction
}

// renderTabs renders the screen switcher.
func (m Model) renderTabs() string {
	muted := lipgloss.NewStyle().Foreground(m.theme.Muted)
	tabs := make([]string, 0, screenCount)
	for s := ScreenDashboard; s < screenCount; s++ {
		label := fmt.Sprintf(" %d %s ", int(s)+1, s)
		if s == m.screen {
			tabs = append(tabs, m.theme.Selected.Render(label))
		} else {
			tabs = append(tabs, muted.Render(label))
		}
	}
	return m.theme.Bold.Render("💰 Planilha  ") + strings.Join(tabs, muted.Render("│"))
}

func (m Model) renderBody() string {
	switch m.screen {
	case ScreenDashboard:
		return m.renderDashboard()
	case ScreenCards:
		if m.cardForm != nil {
			return m.cardForm.View()
		}
		return lipgloss.JoinVertical(lipgloss.Left, m.theme.Title.Render("Cards"), m.cards.View())
	case ScreenCategories:
		if m.categoryForm != nil {
			return m.categoryForm.View()
		}
		return lipgloss.JoinVertical(lipgloss.Left, m.theme.Title.Render("Categories"), m.categories.View())
	case ScreenTransactions:
		if m.editForm != nil {
			return m.editForm.View()
		}
		return lipgloss.JoinVertical(lipgloss.Left, m.theme.Title.Render("Transactions"), m.transactions.View())
	case ScreenNewTransaction:
		return m.newForm.View()
	default:
		return ""
	}
}

// renderDashboard renders the spending chart next to (or above) the latest transactions.
func (m Model) renderDashboard() string {
	chart := m.spending.View()
	recent := m.renderRecent()
	if m.width >= wideLayout {
		half := m.width / 2
		return lipgloss.JoinHorizontal(
			lipgloss.Top,
			lipgloss.NewStyle().Width(half).Render(chart),
			m.theme.Normal.Render(" │ "),
			recent,
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left, chart, "", recent)
}

func (m Model) renderRecent() string {
	title := m.theme.Title.Render("Latest transactions")
	if placeholder := components.CollectionPlaceholder(m.theme, m.recent.Status, m.recent.Err, len(m.recent.Items), "No transactions yet."); placeholder != "" {
		return lipgloss.JoinVertical(lipgloss.Left, title, placeholder)
	}

	muted := lipgloss.NewStyle().Foreground(m.theme.Muted)
	lines := make([]string, 0, len(m.recent.Items))
	for _, t := range m.recent.Items {
		lines = append(lines, fmt.Sprintf("%s  %-24s %s  %s",
			muted.Render(model.FormatDate(t.Date)),
			components.Truncate(t.Description, 24),
			components.SignedAmount(m.theme, t),
			muted.Render(t.CategoryName),
		))
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(lines, "\n"))
}

// renderStatusBar shows the last write failure with its retry hint, or the last notice.
func (m Model) renderStatusBar() string {
	muted := lipgloss.NewStyle().Foreground(m.theme.Muted)
	switch {
	case m.failure != "":
		hint := ""
		if m.retry != nil {
			hint = muted.Render("  [r] Retry")
		}
		return m.theme.StatusError.Render("✗ "+m.failure) + hint
	case m.notice != "":
		return m.theme.StatusSuccess.Render("✓ " + m.notice)
	default:
		return muted.Render(m.screen.String())
	}
}
