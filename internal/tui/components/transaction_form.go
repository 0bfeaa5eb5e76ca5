package components

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/GRBadas/Planilha-Django/internal/engine"
	"github.com/GRBadas/Planilha-Django/internal/model"
	"github.com/GRBadas/Planilha-Django/internal/tui/themes"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Form fields in focus order.
const (
	fieldDescription = iota
	fieldAmount
	fieldDate
	fieldDirection
	fieldCard
	fieldCategory
	fieldCount
)

type option struct {
	value string
	label string
}

// chooser is a left/right selector over a fixed option list. Until options are loaded it
// holds the wanted value so pre-filled ids survive.
type chooser struct {
	want    string
	options []option
	index   int
}

func (c *chooser) move(step int) {
	if len(c.options) == 0 {
		return
	}
	c.index = (c.index + step + len(c.options)) % len(c.options)
}

func (c chooser) value() string {
	if len(c.options) == 0 {
		return c.want
	}
	if c.index < 0 || c.index >= len(c.options) {
		return ""
	}
	return c.options[c.index].value
}

func (c chooser) label() string {
	if len(c.options) == 0 || c.index < 0 || c.index >= len(c.options) {
		return "-"
	}
	return c.options[c.index].label
}

// selectValue points the chooser at v, falling back to the first option.
func (c *chooser) selectValue(v string) {
	c.index = 0
	c.want = ""
	if len(c.options) == 0 {
		c.want = v
		return
	}
	for i, o := range c.options {
		if o.value == v {
			c.index = i
			return
		}
	}
}

// TransactionFormModel edits the fields of an engine.TransactionForm. Every edit is pushed
// into the form so its credit-inflow check runs while typing; submission is left to the
// parent, which owns the request.
type TransactionFormModel struct {
	theme      themes.Theme
	form       *engine.TransactionForm
	today      func() time.Time
	title      string
	inputs     []textinput.Model
	directions chooser
	cards      chooser
	categories chooser
	focus      int
	width      int
	submitting bool
}

// NewTransactionFormModel wraps form. title heads the form ("New transaction",
// "Edit transaction").
func NewTransactionFormModel(form *engine.TransactionForm, title string, theme themes.Theme) TransactionFormModel {
	inputs := make([]textinput.Model, fieldDirection)
	placeholders := []string{"Description", "0.00", model.DateLayout}
	limits := []int{255, 16, 10}
	for i := range inputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.CharLimit = limits[i]
		in.Width = 40
		inputs[i] = in
	}

	m := TransactionFormModel{
		theme:  theme,
		form:   form,
		today:  time.Now,
		title:  title,
		inputs: inputs,
		directions: chooser{options: []option{
			{value: string(model.DirectionOut), label: "↓ " + model.DirectionOut.Label()},
			{value: string(model.DirectionIn), label: "↑ " + model.DirectionIn.Label()},
		}},
		width: 80,
	}
	m.load(form.Values())
	m.inputs[fieldDescription].Focus()
	return m
}

// load copies v into the inputs and choosers. An empty date starts at today.
func (m *TransactionFormModel) load(v engine.FormValues) {
	m.inputs[fieldDescription].SetValue(v.Description)
	m.inputs[fieldAmount].SetValue(v.Amount)
	date := v.Date
	if date == "" {
		date = model.FormatDate(m.today())
	}
	m.inputs[fieldDate].SetValue(date)
	m.directions.selectValue(v.Direction)
	m.cards.selectValue(v.CardID)
	m.categories.selectValue(v.CategoryID)
}

// SetOptions replaces the card and category choices, keeping the current selections when
// they still exist.
func (m *TransactionFormModel) SetOptions(cards []model.Card, categories []model.Category) {
	card, category := m.cards.value(), m.categories.value()

	cardOptions := []option{{value: "", label: "No card"}}
	for _, c := range cards {
		cardOptions = append(cardOptions, option{value: strconv.Itoa(c.ID), label: fmt.Sprintf("%s (%s)", c.Name, c.Kind.Label())})
	}
	m.cards = chooser{options: cardOptions}
	m.cards.selectValue(card)

	categoryOptions := make([]option, 0, len(categories))
	for _, c := range categories {
		categoryOptions = append(categoryOptions, option{value: strconv.Itoa(c.ID), label: c.Name})
	}
	m.categories = chooser{options: categoryOptions}
	m.categories.selectValue(category)

	if !m.submitting {
		m.form.SetCards(cards)
		m.sync()
	}
}

// Values returns the field contents.
func (m TransactionFormModel) Values() engine.FormValues {
	return engine.FormValues{
		Description: m.inputs[fieldDescription].Value(),
		Amount:      strings.ReplaceAll(m.inputs[fieldAmount].Value(), ",", "."),
		Date:        m.inputs[fieldDate].Value(),
		Direction:   m.directions.value(),
		CardID:      m.cards.value(),
		CategoryID:  m.categories.value(),
	}
}

// Form returns the wrapped form.
func (m TransactionFormModel) Form() *engine.TransactionForm {
	return m.form
}

// Submitting reports whether a submission is waiting on the parent.
func (m TransactionFormModel) Submitting() bool {
	return m.submitting
}

// Finished is called by the parent once the submission completed. A successful submit
// cleared the form, so the inputs reload from it.
func (m *TransactionFormModel) Finished() {
	m.submitting = false
	if m.form.Outcome() == engine.OutcomeSuccess {
		m.load(m.form.Values())
		m.setFocus(fieldDescription)
	}
}

func (m *TransactionFormModel) sync() {
	m.form.SetValues(m.Values())
}

// Update handles messages.
func (m TransactionFormModel) Update(msg tea.Msg) (TransactionFormModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.submitting {
		return m, nil
	}

	switch key.String() {
	case "esc":
		return m, func() tea.Msg { return FormCancelledMsg{} }
	case "tab", "down":
		m.setFocus((m.focus + 1) % fieldCount)
		return m, nil
	case "shift+tab", "up":
		m.setFocus((m.focus + fieldCount - 1) % fieldCount)
		return m, nil
	case "ctrl+s":
		return m.submit()
	case "enter":
		if m.focus == fieldCount-1 {
			return m.submit()
		}
		m.setFocus(m.focus + 1)
		return m, nil
	}

	if c := m.focusedChooser(); c != nil {
		switch key.String() {
		case "left", "h":
			c.move(-1)
		case "right", "l", " ":
			c.move(1)
		}
		m.sync()
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	m.sync()
	return m, cmd
}

func (m TransactionFormModel) submit() (TransactionFormModel, tea.Cmd) {
	m.submitting = true
	values := m.Values()
	return m, func() tea.Msg { return TransactionSubmitMsg{Values: values} }
}

func (m *TransactionFormModel) focusedChooser() *chooser {
	switch m.focus {
	case fieldDirection:
		return &m.directions
	case fieldCard:
		return &m.cards
	case fieldCategory:
		return &m.categories
	default:
		return nil
	}
}

func (m *TransactionFormModel) setFocus(field int) {
	m.focus = field
	for i := range m.inputs {
		if i == field {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

// View renders the form.
func (m TransactionFormModel) View() string {
	muted := lipgloss.NewStyle().Foreground(m.theme.Muted)
	labels := []string{"Description", "Amount", "Date", "Type", "Card", "Category"}

	lines := []string{m.theme.Title.Render(m.title)}
	for i, label := range labels {
		marker := "  "
		if i == m.focus {
			marker = lipgloss.NewStyle().Foreground(m.theme.Primary).Render("> ")
		}
		var value string
		switch i {
		case fieldDirection:
			value = m.renderChooser(m.directions, i)
		case fieldCard:
			value = m.renderChooser(m.cards, i)
		case fieldCategory:
			value = m.renderChooser(m.categories, i)
		default:
			value = m.inputs[i].View()
		}
		lines = append(lines, fmt.Sprintf("%s%-12s %s", marker, label, value))
	}

	lines = append(lines, "", m.renderStatus(), "", muted.Render("[Tab] Next  [←→] Choose  [Enter/Ctrl+S] Save  [Esc] Cancel"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m TransactionFormModel) renderChooser(c chooser, field int) string {
	if field == m.focus {
		return "‹ " + m.theme.Selected.Render(c.label()) + " ›"
	}
	return m.theme.Normal.Render(c.label())
}

func (m TransactionFormModel) renderStatus() string {
	if m.submitting {
		return lipgloss.NewStyle().Foreground(m.theme.Muted).Render("Saving...")
	}
	switch m.form.Outcome() {
	case engine.OutcomeSuccess:
		return m.theme.StatusSuccess.Render("✓ " + m.form.Message())
	case engine.OutcomeError:
		return m.theme.StatusError.Render("✗ " + m.form.Message())
	default:
		return ""
	}
}

// Resize updates the component width.
func (m *TransactionFormModel) Resize(width int) {
	m.width = width
	for i := range m.inputs {
		m.inputs[i].Width = max(20, min(60, width-20))
	}
}
