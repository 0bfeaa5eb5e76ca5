package components

import (
	"github.com/GRBadas/Planilha-Django/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ConfirmModel is a y/n dialog for destructive actions.
type ConfirmModel struct {
	theme    themes.Theme
	prompt   string
	width    int
	height   int
	answered bool
}

// NewConfirmModel creates a dialog asking prompt.
func NewConfirmModel(prompt string, theme themes.Theme) ConfirmModel {
	return ConfirmModel{
		prompt: prompt,
		theme:  theme,
	}
}

// Update handles messages. The first y/n (or esc) answers the dialog; later keys are
// ignored.
func (m ConfirmModel) Update(msg tea.Msg) (ConfirmModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.answered {
			return m, nil
		}
		switch msg.String() {
		case "y", "Y", "s", "S":
			m.answered = true
			return m, answer(true)
		case "n", "N", "esc":
			m.answered = true
			return m, answer(false)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

func answer(ok bool) tea.Cmd {
	return func() tea.Msg {
		return ConfirmResultMsg{Confirmed: ok}
	}
}

// Prompt returns the question being asked.
func (m ConfirmModel) Prompt() string {
	return m.prompt
}

// View renders the dialog.
func (m ConfirmModel) View() string {
	hint := lipgloss.NewStyle().Foreground(m.theme.Muted).Render("[y] Yes  [n/Esc] No")
	content := lipgloss.JoinVertical(
		lipgloss.Left,
		m.theme.StatusWarning.Render("⚠ Confirm"),
		"",
		m.theme.Normal.Render(m.prompt),
		"",
		hint,
	)

	box := m.theme.RoundedBox.Render(content)
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// Resize updates the component size.
func (m *ConfirmModel) Resize(width, height int) {
	m.width = width
	m.height = height
}
