package tui

import (
	"context"
	"fmt"

	"github.com/GRBadas/Planilha-Django/internal/common"
	"github.com/GRBadas/Planilha-Django/internal/engine"
	"github.com/GRBadas/Planilha-Django/internal/model"
	"github.com/GRBadas/Planilha-Django/internal/tui/components"
	"github.com/GRBadas/Planilha-Django/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Screen is one of the dashboard's top-level views.
type Screen int

const (
	ScreenDashboard Screen = iota
	ScreenCards
	ScreenCategories
	ScreenTransactions
	ScreenNewTransaction
	screenCount
)

func (s Screen) String() string {
	switch s {
	case ScreenDashboard:
		return "Dashboard"
	case ScreenCards:
		return "Cards"
	case ScreenCategories:
		return "Categories"
	case ScreenTransactions:
		return "Transactions"
	case ScreenNewTransaction:
		return "New transaction"
	default:
		return "unknown"
	}
}

const deleteFailure = "could not delete, please try again"

// Model holds the dashboard state. Every screen mount bumps gen; fetch results tagged with
// an older gen are discarded.
type Model struct {
	ctx          context.Context
	engine       *engine.Engine
	recorder     *Recorder
	confirm      *components.ConfirmModel
	confirmReply chan<- bool
	cardForm     *components.CardFormModel
	categoryForm *components.CategoryFormModel
	editForm     *components.TransactionFormModel
	retry        tea.Cmd
	recent       engine.Collection[model.Transaction]
	theme        themes.Theme
	keymap       KeyMap
	help         help.Model
	config       Config
	failure      string
	notice       string
	newForm      components.TransactionFormModel
	spending     components.SpendingChartModel
	cards        components.EntityListModel[model.Card]
	categories   components.EntityListModel[model.Category]
	transactions components.TransactionTableModel
	screen       Screen
	gen          int
	width        int
	height       int
	showHelp     bool
	quitting     bool
}

// newModel creates a model on the dashboard screen.
func newModel(ctx context.Context, eng *engine.Engine, cfg Config) Model {
	theme := cfg.Theme
	m := Model{
		ctx:          ctx,
		engine:       eng,
		config:       cfg,
		theme:        theme,
		keymap:       DefaultKeyMap(),
		help:         help.New(),
		recorder:     NewRecorder(cfg.Record),
		spending:     components.NewSpendingChartModel(theme),
		recent:       engine.Loading[model.Transaction](),
		cards:        components.NewCardList(theme),
		categories:   components.NewCategoryList(theme),
		transactions: components.NewTransactionTable(theme),
		newForm:      components.NewTransactionFormModel(engine.NewTransactionForm(nil), "New transaction", theme),
		screen:       ScreenDashboard,
		gen:          1,
		width:        cfg.Width,
		height:       cfg.Height,
		showHelp:     cfg.ShowHelp,
	}
	m.help.ShowAll = m.showHelp
	m.resize()
	return m
}

// Init loads the first screen.
func (m Model) Init() tea.Cmd {
	return m.loadScreen()
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.recorder.RecordState(next, msg)
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case confirmRequestMsg:
		dialog := components.NewConfirmModel(msg.prompt, m.theme)
		dialog.Resize(m.width, m.bodyHeight())
		m.confirm = &dialog
		m.confirmReply = msg.reply

	case components.ConfirmResultMsg:
		m.answerConfirm(msg.Confirmed)

	case dashboardLoadedMsg:
		if msg.gen == m.gen {
			m.spending.SetSpending(msg.spending)
			m.recent = msg.recent
		}

	case cardsLoadedMsg:
		if msg.gen == m.gen {
			m.cards.SetItems(msg.cards)
		}

	case categoriesLoadedMsg:
		if msg.gen == m.gen {
			m.categories.SetItems(msg.categories)
		}

	case referenceLoadedMsg:
		if msg.gen == m.gen {
			m.cards.SetItems(msg.cards)
			m.categories.SetItems(msg.categories)
			m.newForm.SetOptions(msg.cards.Items, msg.categories.Items)
			if m.editForm != nil {
				m.editForm.SetOptions(msg.cards.Items, msg.categories.Items)
			}
		}

	case pageLoadedMsg:
		if msg.gen == m.gen {
			m.transactions.SetPage(msg.page, msg.pager)
		}

	case writeDoneMsg:
		return m.handleWriteDone(msg)

	case components.CardSubmitMsg:
		return m, m.saveCard(m.gen, msg.Card)

	case components.CategorySubmitMsg:
		return m, m.saveCategory(m.gen, msg.Category)

	case components.TransactionSubmitMsg:
		return m.handleTransactionSubmit(msg)

	case components.FormCancelledMsg:
		return m.closeForm()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.keymap.ForceQuit) {
		return m.quit()
	}

	if m.confirm != nil {
		dialog, cmd := m.confirm.Update(msg)
		m.confirm = &dialog
		return m, cmd
	}

	var cmd tea.Cmd
	switch {
	case m.cardForm != nil:
		form, c := m.cardForm.Update(msg)
		m.cardForm, cmd = &form, c
		return m, cmd
	case m.categoryForm != nil:
		form, c := m.categoryForm.Update(msg)
		m.categoryForm, cmd = &form, c
		return m, cmd
	case m.editForm != nil:
		form, c := m.editForm.Update(msg)
		m.editForm, cmd = &form, c
		return m, cmd
	case m.screen == ScreenNewTransaction:
		m.newForm, cmd = m.newForm.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		return m.quit()
	case key.Matches(msg, m.keymap.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return m, nil
	case key.Matches(msg, m.keymap.Retry):
		return m.retryOrRefresh()
	case key.Matches(msg, m.keymap.NextScreen):
		return m.mount((m.screen + 1) % screenCount)
	case key.Matches(msg, m.keymap.Dashboard):
		return m.mount(ScreenDashboard)
	case key.Matches(msg, m.keymap.Cards):
		return m.mount(ScreenCards)
	case key.Matches(msg, m.keymap.Categories):
		return m.mount(ScreenCategories)
	case key.Matches(msg, m.keymap.Transactions):
		return m.mount(ScreenTransactions)
	case key.Matches(msg, m.keymap.NewTransaction):
		return m.mount(ScreenNewTransaction)
	}

	switch m.screen {
	case ScreenCards:
		return m.handleCardsKey(msg)
	case ScreenCategories:
		return m.handleCategoriesKey(msg)
	case ScreenTransactions:
		return m.handleTransactionsKey(msg)
	case ScreenDashboard:
		if key.Matches(msg, m.keymap.New) {
			return m.mount(ScreenNewTransaction)
		}
	}
	return m, nil
}

func (m Model) handleCardsKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.New):
		form := components.NewCardFormModel(model.Card{Kind: model.CardKindCredit}, m.theme)
		m.cardForm = &form
	case key.Matches(msg, m.keymap.Edit):
		if card, ok := m.cards.Selected(); ok {
			form := components.NewCardFormModel(card, m.theme)
			m.cardForm = &form
		}
	case key.Matches(msg, m.keymap.Delete):
		if card, ok := m.cards.Selected(); ok {
			m.clearStatus()
			return m, m.deleteCard(m.gen, card)
		}
	default:
		var cmd tea.Cmd
		m.cards, cmd = m.cards.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleCategoriesKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.New):
		form := components.NewCategoryFormModel(model.Category{}, m.theme)
		m.categoryForm = &form
	case key.Matches(msg, m.keymap.Edit):
		if category, ok := m.categories.Selected(); ok {
			form := components.NewCategoryFormModel(category, m.theme)
			m.categoryForm = &form
		}
	case key.Matches(msg, m.keymap.Delete):
		if category, ok := m.categories.Selected(); ok {
			m.clearStatus()
			return m, m.deleteCategory(m.gen, category)
		}
	default:
		var cmd tea.Cmd
		m.categories, cmd = m.categories.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleTransactionsKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	pager := m.transactions.Pager()
	switch {
	case key.Matches(msg, m.keymap.PrevPage):
		if pager.HasPrev() {
			return m, m.loadPage(m.gen, (*engine.TransactionList).Prev)
		}
	case key.Matches(msg, m.keymap.NextPage):
		if pager.HasNext() {
			return m, m.loadPage(m.gen, (*engine.TransactionList).Next)
		}
	case key.Matches(msg, m.keymap.FirstPage):
		return m, m.goToPage(m.gen, 1)
	case key.Matches(msg, m.keymap.LastPage):
		return m, m.goToPage(m.gen, pager.TotalPages())
	case key.Matches(msg, m.keymap.New):
		return m.mount(ScreenNewTransaction)
	case key.Matches(msg, m.keymap.Edit):
		if t, ok := m.transactions.Selected(); ok {
			cards, categories := m.cards.Items().Items, m.categories.Items().Items
			edit := m.engine.Transactions().BeginEdit(t, cards)
			form := components.NewTransactionFormModel(edit.Form, "Edit transaction", m.theme)
			form.SetOptions(cards, categories)
			form.Resize(m.width)
			m.editForm = &form
		}
	case key.Matches(msg, m.keymap.Delete):
		if t, ok := m.transactions.Selected(); ok {
			m.clearStatus()
			return m, m.deleteTransaction(m.gen, t)
		}
	default:
		var cmd tea.Cmd
		m.transactions, cmd = m.transactions.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleTransactionSubmit(msg components.TransactionSubmitMsg) (Model, tea.Cmd) {
	if m.editForm != nil {
		m.editForm.Form().SetValues(msg.Values)
		return m, m.submitEdit(m.gen)
	}
	form := m.newForm.Form()
	form.SetValues(msg.Values)
	return m, m.createTransaction(m.gen, form)
}

func (m Model) handleWriteDone(msg writeDoneMsg) (Model, tea.Cmd) {
	if msg.gen != m.gen {
		return m, nil
	}
	if msg.err == nil && msg.applied {
		m.syncFromEngine()
	}

	if msg.action == actionSave {
		switch {
		case msg.entity == engine.EntityCard && m.cardForm != nil:
			m.cardForm.Finished(msg.err)
			if msg.err == nil {
				m.cardForm = nil
				m.notice = "Card saved"
			}
		case msg.entity == engine.EntityCategory && m.categoryForm != nil:
			m.categoryForm.Finished(msg.err)
			if msg.err == nil {
				m.categoryForm = nil
				m.notice = "Category saved"
			}
		case msg.entity == engine.EntityTransaction && m.editForm != nil:
			m.editForm.Finished()
			if msg.err == nil {
				m.editForm = nil
				m.notice = "Transaction updated"
			}
		case msg.entity == engine.EntityTransaction:
			m.newForm.Finished()
		}
		return m, nil
	}

	switch {
	case msg.err != nil:
		m.failure = common.UserMessage(msg.err, deleteFailure)
		m.retry = msg.retry
	case !msg.applied:
		m.notice = "Nothing was deleted"
	default:
		m.notice = fmt.Sprintf("%s deleted", entityLabel(msg.entity))
	}
	return m, nil
}

// syncFromEngine copies the engine's collections after a write; the write's invalidation
// has already re-fetched whatever it affected.
func (m *Model) syncFromEngine() {
	store := m.engine.Store()
	cards, categories := store.Cards(), store.Categories()
	m.cards.SetItems(cards)
	m.categories.SetItems(categories)
	m.spending.SetSpending(store.Spending())
	page, pager := m.engine.Transactions().Snapshot()
	m.transactions.SetPage(page, pager)
	if m.screen == ScreenNewTransaction {
		m.newForm.SetOptions(cards.Items, categories.Items)
	}
}

func (m Model) closeForm() (Model, tea.Cmd) {
	switch {
	case m.cardForm != nil:
		m.cardForm = nil
	case m.categoryForm != nil:
		m.categoryForm = nil
	case m.editForm != nil:
		m.engine.Transactions().CancelEdit()
		m.editForm = nil
	case m.screen == ScreenNewTransaction:
		return m.mount(ScreenDashboard)
	}
	return m, nil
}

// mount switches to screen and starts its fetches under a new generation.
func (m Model) mount(screen Screen) (Model, tea.Cmd) {
	if m.editForm != nil {
		m.engine.Transactions().CancelEdit()
	}
	m.screen = screen
	m.gen++
	m.cardForm = nil
	m.categoryForm = nil
	m.editForm = nil
	m.clearStatus()
	m.markLoading()
	return m, m.loadScreen()
}

// markLoading moves the screen's collections to loading, keeping their items on screen.
func (m *Model) markLoading() {
	switch m.screen {
	case ScreenDashboard:
		m.spending.SetSpending(engine.Reduce(m.spending.Spending(), engine.FetchStarted[model.CategoryTotal]()))
		m.recent = engine.Reduce(m.recent, engine.FetchStarted[model.Transaction]())
	case ScreenCards:
		m.cards.SetItems(engine.Reduce(m.cards.Items(), engine.FetchStarted[model.Card]()))
	case ScreenCategories:
		m.categories.SetItems(engine.Reduce(m.categories.Items(), engine.FetchStarted[model.Category]()))
	case ScreenTransactions:
		m.transactions.SetPage(engine.Reduce(m.transactions.Page(), engine.FetchStarted[model.Transaction]()), m.transactions.Pager())
	}
}

// retryOrRefresh re-runs the last failed write, or re-fetches the current screen.
func (m Model) retryOrRefresh() (Model, tea.Cmd) {
	if m.retry != nil {
		cmd := m.retry
		m.clearStatus()
		return m, cmd
	}
	return m.mount(m.screen)
}

func (m *Model) clearStatus() {
	m.failure = ""
	m.notice = ""
	m.retry = nil
}

// answerConfirm delivers the dialog's answer to the waiting command.
func (m *Model) answerConfirm(ok bool) {
	if m.confirmReply != nil {
		m.confirmReply <- ok
	}
	m.confirm = nil
	m.confirmReply = nil
}

func (m Model) quit() (Model, tea.Cmd) {
	if m.confirm != nil {
		m.answerConfirm(false)
	}
	m.quitting = true
	m.recorder.Close()
	return m, tea.Quit
}

// resize adjusts component sizes to the terminal.
func (m *Model) resize() {
	body := m.bodyHeight()
	m.help.Width = m.width
	m.transactions.Resize(m.width, body)
	m.cards.Resize(m.width, body-2)
	m.categories.Resize(m.width, body-2)
	m.newForm.Resize(m.width)
	if m.editForm != nil {
		m.editForm.Resize(m.width)
	}
	if m.width >= wideLayout {
		m.spending.Resize(m.width / 2)
	} else {
		m.spending.Resize(m.width)
	}
	if m.confirm != nil {
		m.confirm.Resize(m.width, body)
	}
}

// bodyHeight is the height left after the tabs, status bar and help line.
func (m Model) bodyHeight() int {
	return max(5, m.height-6)
}

func entityLabel(e engine.Entity) string {
	switch e {
	case engine.EntityCard:
		return "Card"
	case engine.EntityCategory:
		return "Category"
	case engine.EntityTransaction:
		return "Transaction"
	default:
		return string(e)
	}
}
