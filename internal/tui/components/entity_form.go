package components

import (
	"fmt"
	"strings"

	"github.com/GRBadas/Planilha-Django/internal/common"
	"github.com/GRBadas/Planilha-Django/internal/model"
	"github.com/GRBadas/Planilha-Django/internal/tui/themes"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// CardFormModel creates or edits a card. The money field is the limit for credit cards
// and the balance for debit cards; switching the kind moves the value across.
type CardFormModel struct {
	theme      themes.Theme
	err        string
	name       textinput.Model
	money      textinput.Model
	kinds      chooser
	id         int
	focus      int
	submitting bool
}

// NewCardFormModel creates a form pre-filled from card; a zero ID creates a new card.
func NewCardFormModel(card model.Card, theme themes.Theme) CardFormModel {
	name := textinput.New()
	name.Placeholder = "Card name"
	name.CharLimit = model.MaxNameLength
	name.SetValue(card.Name)
	name.Focus()

	money := textinput.New()
	money.Placeholder = "0.00"
	money.CharLimit = 16
	switch {
	case card.Limit != nil:
		money.SetValue(card.Limit.String())
	case card.Balance != nil:
		money.SetValue(card.Balance.String())
	}

	kinds := chooser{options: []option{
		{value: string(model.CardKindCredit), label: model.CardKindCredit.Label()},
		{value: string(model.CardKindDebit), label: model.CardKindDebit.Label()},
	}}
	kinds.selectValue(string(card.Kind))

	return CardFormModel{
		theme: theme,
		name:  name,
		money: money,
		kinds: kinds,
		id:    card.ID,
	}
}

// Card builds the card from the fields. An unparseable amount is left unset so the card
// rules report it.
func (m CardFormModel) Card() model.Card {
	card := model.Card{
		ID:   m.id,
		Name: strings.TrimSpace(m.name.Value()),
		Kind: model.CardKind(m.kinds.value()),
	}
	raw := strings.ReplaceAll(strings.TrimSpace(m.money.Value()), ",", ".")
	if raw == "" {
		return card
	}
	amount, err := model.ParseAmount(raw)
	if err != nil {
		return card
	}
	if card.IsCredit() {
		card.Limit = &amount
	} else {
		card.Balance = &amount
	}
	return card
}

// Finished records the result of the save; a failure stays on screen.
func (m *CardFormModel) Finished(err error) {
	m.submitting = false
	m.err = ""
	if err != nil {
		m.err = common.UserMessage(err, common.DefaultWriteFailure)
	}
}

// Err returns the message of the last failed save.
func (m CardFormModel) Err() string {
	return m.err
}

// Update handles messages.
func (m CardFormModel) Update(msg tea.Msg) (CardFormModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || m.submitting {
		return m, nil
	}

	switch key.String() {
	case "esc":
		return m, func() tea.Msg { return FormCancelledMsg{} }
	case "tab", "down":
		m.setFocus((m.focus + 1) % 3)
		return m, nil
	case "shift+tab", "up":
		m.setFocus((m.focus + 2) % 3)
		return m, nil
	case "enter", "ctrl+s":
		m.submitting = true
		card := m.Card()
		return m, func() tea.Msg { return CardSubmitMsg{Card: card} }
	}

	var cmd tea.Cmd
	switch m.focus {
	case 0:
		m.name, cmd = m.name.Update(msg)
	case 1:
		switch key.String() {
		case "left", "h":
			m.kinds.move(-1)
		case "right", "l", " ":
			m.kinds.move(1)
		}
	case 2:
		m.money, cmd = m.money.Update(msg)
	}
	return m, cmd
}

func (m *CardFormModel) setFocus(field int) {
	m.focus = field
	m.name.Blur()
	m.money.Blur()
	switch field {
	case 0:
		m.name.Focus()
	case 2:
		m.money.Focus()
	}
}

// View renders the form.
func (m CardFormModel) View() string {
	title := "New card"
	if m.id != 0 {
		title = "Edit card"
	}
	moneyLabel := "Balance"
	if model.CardKind(m.kinds.value()) == model.CardKindCredit {
		moneyLabel = "Limit"
	}

	kind := m.theme.Normal.Render(m.kinds.label())
	if m.focus == 1 {
		kind = "‹ " + m.theme.Selected.Render(m.kinds.label()) + " ›"
	}

	rows := []string{
		m.theme.Title.Render(title),
		m.field(0, "Name", m.name.View()),
		m.field(1, "Type", kind),
		m.field(2, moneyLabel, m.money.View()),
		"",
	}
	return lipgloss.JoinVertical(lipgloss.Left, append(rows, m.footer()...)...)
}

func (m CardFormModel) field(i int, label, value string) string {
	return fieldLine(m.theme, i == m.focus, label, value)
}

func (m CardFormModel) footer() []string {
	return formFooter(m.theme, m.submitting, m.err)
}

// CategoryFormModel creates or renames a category.
type CategoryFormModel struct {
	theme      themes.Theme
	err        string
	name       textinput.Model
	id         int
	submitting bool
}

// NewCategoryFormModel creates a form pre-filled from category.
func NewCategoryFormModel(category model.Category, theme themes.Theme) CategoryFormModel {
	name := textinput.New()
	name.Placeholder = "Category name"
	name.CharLimit = model.MaxNameLength
	name.SetValue(category.Name)
	name.Focus()

	return CategoryFormModel{theme: theme, name: name, id: category.ID}
}

// Category builds the category from the field.
func (m CategoryFormModel) Category() model.Category {
	return model.Category{ID: m.id, Name: strings.TrimSpace(m.name.Value())}
}

// Finished records the result of the save.
func (m *CategoryFormModel) Finished(err error) {
	m.submitting = false
	m.err = ""
	if err != nil {
		m.err = common.UserMessage(err, common.DefaultWriteFailure)
	}
}

// Err returns the message of the last failed save.
func (m CategoryFormModel) Err() string {
	return m.err
}

// Update handles messages.
func (m CategoryFormModel) Update(msg tea.Msg) (CategoryFormModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || m.submitting {
		return m, nil
	}
	switch key.String() {
	case "esc":
		return m, func() tea.Msg { return FormCancelledMsg{} }
	case "enter", "ctrl+s":
		m.submitting = true
		category := m.Category()
		return m, func() tea.Msg { return CategorySubmitMsg{Category: category} }
	}
	var cmd tea.Cmd
	m.name, cmd = m.name.Update(msg)
	return m, cmd
}

// View renders the form.
func (m CategoryFormModel) View() string {
	title := "New category"
	if m.id != 0 {
		title = "Rename category"
	}
	rows := []string{
		m.theme.Title.Render(title),
		fieldLine(m.theme, true, "Name", m.name.View()),
		"",
	}
	return lipgloss.JoinVertical(lipgloss.Left, append(rows, formFooter(m.theme, m.submitting, m.err)...)...)
}

func fieldLine(theme themes.Theme, focused bool, label, value string) string {
	marker := "  "
	if focused {
		marker = lipgloss.NewStyle().Foreground(theme.Primary).Render("> ")
	}
	return fmt.Sprintf("%s%-12s %s", marker, label, value)
}

func formFooter(theme themes.Theme, submitting bool, errMsg string) []string {
	muted := lipgloss.NewStyle().Foreground(theme.Muted)
	status := ""
	switch {
	case submitting:
		status = muted.Render("Saving...")
	case errMsg != "":
		status = theme.StatusError.Render("✗ " + errMsg)
	}
	return []string{status, muted.Render("[Tab] Next  [Enter] Save  [Esc] Cancel")}
}
