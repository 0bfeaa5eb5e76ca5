package components

import (
	"github.com/GRBadas/Planilha-Django/internal/common"
	"github.com/GRBadas/Planilha-Django/internal/engine"
	"github.com/GRBadas/Planilha-Django/internal/model"
	"github.com/GRBadas/Planilha-Django/internal/tui/themes"
	"github.com/charmbracelet/lipgloss"
)

// LoadFailureMessage is shown for a collection whose fetch failed.
const LoadFailureMessage = "could not load data"

// CollectionPlaceholder renders the non-populated states of a collection: loading, error
// (with the retry hint) and empty. It returns "" when there are items to show, including
// the previous items of a collection being re-fetched.
func CollectionPlaceholder(theme themes.Theme, status engine.Status, err error, count int, empty string) string {
	muted := lipgloss.NewStyle().Foreground(theme.Muted)
	switch status {
	case engine.StatusLoading:
		if count > 0 {
			return ""
		}
		return muted.Render("Loading...")
	case engine.StatusError:
		msg := common.UserMessage(err, LoadFailureMessage)
		return lipgloss.JoinVertical(lipgloss.Left,
			theme.StatusError.Render("✗ "+msg),
			muted.Render("[r] Retry"),
		)
	case engine.StatusEmpty:
		return muted.Render(empty)
	default:
		return ""
	}
}

// Truncate shortens s to maxLen runes with an ellipsis.
func Truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// SignedAmount renders a transaction amount with its sign and flow color.
func SignedAmount(theme themes.Theme, t model.Transaction) string {
	if t.Direction == model.DirectionIn {
		return theme.Inflow.Render("+" + t.Amount.BRL())
	}
	return theme.Outflow.Render("-" + t.Amount.BRL())
}
