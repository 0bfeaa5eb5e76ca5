package tui

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/GRBadas/Planilha-Django/internal/common"
	"github.com/GRBadas/Planilha-Django/internal/engine"
	"github.com/GRBadas/Planilha-Django/internal/model"
	"github.com/GRBadas/Planilha-Django/internal/service"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var may1 = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

func testModel(api service.API, confirmer service.Confirmer) Model {
	cfg := defaultConfig()
	cfg.Width = 120
	cfg.Height = 40
	return newModel(context.Background(), engine.New(api, confirmer), cfg)
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func press(m Model, s string) (Model, tea.Cmd) {
	next, cmd := m.Update(keyPress(s))
	return next.(Model), cmd
}

func send(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// drain runs cmd (expanding batches) and feeds every resulting message back into m.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			m = drain(t, m, c)
		}
		return m
	}
	if msg == nil {
		return m
	}
	next, follow := send(m, msg)
	return drain(t, next, follow)
}

func txPage(count int, txs ...model.Transaction) *service.TransactionPage {
	return &service.TransactionPage{Results: txs, Count: count}
}

func sampleTx(id int) model.Transaction {
	return model.Transaction{
		ID:           id,
		Description:  "Padaria",
		Amount:       model.MustAmount("12.50"),
		Date:         may1,
		Direction:    model.DirectionOut,
		CategoryID:   3,
		CategoryName: "Alimentação",
	}
}

func TestModel_DashboardLoadsSpendingAndRecent(t *testing.T) {
	api := &engine.MockAPI{}
	api.On("SpendingByCategory", mock.Anything).Return([]model.CategoryTotal{
		{Category: "Alimentação", Total: model.MustAmount("250")},
		{Category: "Transporte", Total: model.MustAmount("80")},
	}, nil)
	api.On("ListTransactions", mock.Anything, 1, 5).Return(txPage(1, sampleTx(1)), nil)

	m := testModel(api, engine.AlwaysConfirm)
	assert.Contains(t, m.View(), "Loading...")

	m = drain(t, m, m.Init())

	view := m.View()
	assert.Contains(t, view, "Spending by category")
	assert.Contains(t, view, "Alimentação")
	assert.Contains(t, view, "R$ 330,00")
	assert.Contains(t, view, "Padaria")
	api.AssertExpectations(t)
}

func TestModel_ResultsForLeftScreenAreDiscarded(t *testing.T) {
	m := testModel(&engine.MockAPI{}, engine.AlwaysConfirm)
	stale := m.gen

	m, _ = press(m, "2")
	require.Equal(t, ScreenCards, m.screen)
	require.Greater(t, m.gen, stale)

	m, _ = send(m, dashboardLoadedMsg{
		gen:      stale,
		spending: engine.Reduce(engine.Loading[model.CategoryTotal](), engine.FetchSucceeded([]model.CategoryTotal{{Category: "Lazer", Total: model.MustAmount("9")}})),
		recent:   engine.Reduce(engine.Loading[model.Transaction](), engine.FetchSucceeded([]model.Transaction{sampleTx(1)})),
	})
	assert.Equal(t, engine.StatusLoading, m.spending.Spending().Status)
	assert.Equal(t, engine.StatusLoading, m.recent.Status)

	m, _ = send(m, cardsLoadedMsg{gen: stale, cards: engine.Reduce(engine.Loading[model.Card](), engine.FetchSucceeded([]model.Card{{ID: 1, Name: "Old"}}))})
	assert.Equal(t, engine.StatusLoading, m.cards.Items().Status)

	m, _ = send(m, cardsLoadedMsg{gen: m.gen, cards: engine.Reduce(engine.Loading[model.Card](), engine.FetchSucceeded([]model.Card{{ID: 2, Name: "Nubank", Kind: model.CardKindDebit}}))})
	assert.Equal(t, engine.StatusPopulated, m.cards.Items().Status)
	assert.Contains(t, m.View(), "Nubank")
}

func TestModel_LoadFailureShowsRetryAndRefetches(t *testing.T) {
	api := &engine.MockAPI{}
	api.On("ListCategories", mock.Anything).Return(nil, &common.APIError{StatusCode: 500}).Once()
	api.On("ListCategories", mock.Anything).Return([]model.Category{{ID: 1, Name: "Lazer"}}, nil).Once()

	m := testModel(api, engine.AlwaysConfirm)
	m, cmd := press(m, "3")
	m = drain(t, m, cmd)

	view := m.View()
	assert.Contains(t, view, "[r] Retry")
	assert.Equal(t, engine.StatusError, m.categories.Items().Status)

	m, cmd = press(m, "r")
	m = drain(t, m, cmd)
	assert.Equal(t, engine.StatusPopulated, m.categories.Items().Status)
	assert.Contains(t, m.View(), "Lazer")
	api.AssertExpectations(t)
}

// fakeProgram records what the confirmer posts.
type fakeProgram struct {
	msgs chan tea.Msg
}

func (p *fakeProgram) Send(msg tea.Msg) {
	p.msgs <- msg
}

func TestModel_DeleteWaitsForConfirmation(t *testing.T) {
	tests := []struct {
		name       string
		answer     string
		wantNotice string
		wantDelete bool
	}{
		{name: "confirmed", answer: "y", wantDelete: true, wantNotice: "Card deleted"},
		{name: "declined", answer: "n", wantDelete: false, wantNotice: "Nothing was deleted"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit := model.MustAmount("1000")
			card := model.Card{ID: 3, Name: "Visa", Kind: model.CardKindCredit, Limit: &limit}
			api := &engine.MockAPI{}
			if tt.wantDelete {
				api.On("DeleteCard", mock.Anything, 3).Return(nil)
				api.On("ListCards", mock.Anything).Return([]model.Card{}, nil)
			}

			program := &fakeProgram{msgs: make(chan tea.Msg, 1)}
			confirmer := NewConfirmer()
			confirmer.Attach(program)

			m := testModel(api, confirmer)
			m, _ = press(m, "2")
			m, _ = send(m, cardsLoadedMsg{gen: m.gen, cards: engine.Reduce(engine.Loading[model.Card](), engine.FetchSucceeded([]model.Card{card}))})

			m, cmd := press(m, "d")
			require.NotNil(t, cmd)
			done := make(chan tea.Msg, 1)
			go func() { done <- cmd() }()

			var request tea.Msg
			select {
			case request = <-program.msgs:
			case <-time.After(time.Second):
				t.Fatal("no confirmation requested")
			}
			m, _ = send(m, request)
			require.NotNil(t, m.confirm)
			assert.Contains(t, m.View(), `Delete card "Visa"?`)

			m, cmd = press(m, tt.answer)
			m = drain(t, m, cmd)
			assert.Nil(t, m.confirm)

			var result tea.Msg
			select {
			case result = <-done:
			case <-time.After(time.Second):
				t.Fatal("delete did not finish")
			}
			m, _ = send(m, result)

			assert.Equal(t, tt.wantNotice, m.notice)
			if !tt.wantDelete {
				api.AssertNotCalled(t, "DeleteCard", mock.Anything, mock.Anything)
			}
			api.AssertExpectations(t)
		})
	}
}

func TestModel_DeleteFailureOffersRetry(t *testing.T) {
	tx := sampleTx(9)
	api := &engine.MockAPI{}
	api.On("ListTransactions", mock.Anything, 1, 8).Return(txPage(1, tx), nil)
	api.On("ListCards", mock.Anything).Return([]model.Card{}, nil)
	api.On("ListCategories", mock.Anything).Return([]model.Category{{ID: 3, Name: "Alimentação"}}, nil)
	api.On("DeleteTransaction", mock.Anything, 9).Return(&common.APIError{StatusCode: 409, Detail: "transaction is locked"}).Once()

	m := testModel(api, engine.AlwaysConfirm)
	m, cmd := press(m, "4")
	m = drain(t, m, cmd)
	require.Contains(t, m.View(), "Padaria")

	m, cmd = press(m, "d")
	m = drain(t, m, cmd)

	view := m.View()
	assert.Contains(t, view, "transaction is locked")
	assert.Contains(t, view, "[r] Retry")
	require.NotNil(t, m.retry)

	api.On("DeleteTransaction", mock.Anything, 9).Return(nil).Once()
	api.On("SpendingByCategory", mock.Anything).Return([]model.CategoryTotal{}, nil)
	m, cmd = press(m, "r")
	assert.Empty(t, m.failure)
	m = drain(t, m, cmd)
	assert.Equal(t, "Transaction deleted", m.notice)
	api.AssertNumberOfCalls(t, "DeleteTransaction", 2)
}

func TestModel_CreateTransactionFromForm(t *testing.T) {
	api := &engine.MockAPI{}
	api.On("ListCards", mock.Anything).Return([]model.Card{}, nil)
	api.On("ListCategories", mock.Anything).Return([]model.Category{{ID: 3, Name: "Mercado"}}, nil)
	api.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(in model.TransactionInput) bool {
		return in.Description == "Feira" && in.Amount.String() == "54.30" &&
			in.Direction == model.DirectionOut && in.CategoryID == 3 && in.CardID == nil
	})).Return(&model.Transaction{ID: 1}, nil)
	api.On("ListTransactions", mock.Anything, 1, 8).Return(txPage(1, sampleTx(1)), nil)
	api.On("SpendingByCategory", mock.Anything).Return([]model.CategoryTotal{}, nil)

	m := testModel(api, engine.AlwaysConfirm)
	m, cmd := press(m, "5")
	m = drain(t, m, cmd)
	require.Equal(t, ScreenNewTransaction, m.screen)

	m, _ = press(m, "Feira")
	m, _ = press(m, "tab")
	m, _ = press(m, "54,30")

	m, cmd = press(m, "ctrl+s")
	m = drain(t, m, cmd)

	assert.Contains(t, m.View(), engine.MsgSaved)
	assert.Empty(t, m.newForm.Values().Description, "fields clear after a successful save")
	api.AssertExpectations(t)
}

func TestModel_EditFailureKeepsEditorOpen(t *testing.T) {
	tx := sampleTx(4)
	api := &engine.MockAPI{}
	api.On("ListTransactions", mock.Anything, 1, 8).Return(txPage(1, tx), nil)
	api.On("ListCards", mock.Anything).Return([]model.Card{}, nil)
	api.On("ListCategories", mock.Anything).Return([]model.Category{{ID: 3, Name: "Alimentação"}}, nil)
	api.On("UpdateTransaction", mock.Anything, 4, mock.Anything).Return(nil, &common.APIError{StatusCode: 400, Detail: "category does not exist"})

	m := testModel(api, engine.AlwaysConfirm)
	m, cmd := press(m, "4")
	m = drain(t, m, cmd)

	m, _ = press(m, "e")
	require.NotNil(t, m.editForm)
	assert.Equal(t, "Padaria", m.editForm.Values().Description)
	assert.Equal(t, "3", m.editForm.Values().CategoryID)

	m, cmd = press(m, "ctrl+s")
	m = drain(t, m, cmd)
	require.NotNil(t, m.editForm, "a failed edit stays open")
	assert.Contains(t, m.View(), "category does not exist")
	assert.Equal(t, "Padaria", m.editForm.Values().Description)

	m, cmd = press(m, "esc")
	m = drain(t, m, cmd)
	assert.Nil(t, m.editForm)
	assert.Nil(t, m.engine.Transactions().Editing())
}

func TestModel_PagesThroughTransactions(t *testing.T) {
	api := &engine.MockAPI{}
	api.On("ListTransactions", mock.Anything, 1, 8).Return(txPage(20, sampleTx(1)), nil)
	api.On("ListTransactions", mock.Anything, 2, 8).Return(txPage(20, sampleTx(2)), nil)
	api.On("ListTransactions", mock.Anything, 3, 8).Return(txPage(20, sampleTx(3)), nil)
	api.On("ListCards", mock.Anything).Return([]model.Card{}, nil)
	api.On("ListCategories", mock.Anything).Return([]model.Category{}, nil)

	m := testModel(api, engine.AlwaysConfirm)
	m, cmd := press(m, "4")
	m = drain(t, m, cmd)
	assert.Contains(t, m.View(), "page 1 of 3")

	_, cmd = press(m, "h")
	assert.Nil(t, cmd, "no previous page")

	m, cmd = press(m, "right")
	m = drain(t, m, cmd)
	assert.Contains(t, m.View(), "page 2 of 3")

	m, cmd = press(m, "G")
	m = drain(t, m, cmd)
	assert.Equal(t, 3, m.transactions.Pager().Page)

	_, cmd = press(m, "l")
	assert.Nil(t, cmd, "no next page")
}

func TestModel_SaveCardThroughForm(t *testing.T) {
	api := &engine.MockAPI{}
	api.On("CreateCard", mock.Anything, mock.MatchedBy(func(c model.Card) bool {
		return c.Name == "Inter" && c.Kind == model.CardKindDebit && c.Balance != nil && c.Balance.String() == "150.00" && c.Limit == nil
	})).Return(&model.Card{ID: 8, Name: "Inter", Kind: model.CardKindDebit}, nil)
	api.On("ListCards", mock.Anything).Return([]model.Card{{ID: 8, Name: "Inter", Kind: model.CardKindDebit}}, nil)

	m := testModel(api, engine.AlwaysConfirm)
	m, _ = press(m, "2")
	m, _ = press(m, "n")
	require.NotNil(t, m.cardForm)

	m, _ = press(m, "Inter")
	m, _ = press(m, "tab")
	m, _ = press(m, "right")
	m, _ = press(m, "tab")
	m, _ = press(m, "150")

	m, cmd := press(m, "enter")
	m = drain(t, m, cmd)

	assert.Nil(t, m.cardForm)
	assert.Equal(t, "Card saved", m.notice)
	assert.Contains(t, m.View(), "Inter")
	api.AssertExpectations(t)
}

func TestModel_InvalidCardStaysInForm(t *testing.T) {
	api := &engine.MockAPI{}
	m := testModel(api, engine.AlwaysConfirm)
	m, _ = press(m, "2")
	m, _ = press(m, "n")
	m, _ = press(m, "Visa")

	m, cmd := press(m, "enter")
	m = drain(t, m, cmd)

	require.NotNil(t, m.cardForm)
	assert.Contains(t, m.View(), "credit cards need a limit greater than zero")
	api.AssertNotCalled(t, "CreateCard", mock.Anything, mock.Anything)
}

func TestModel_QuitAnswersOpenDialog(t *testing.T) {
	m := testModel(&engine.MockAPI{}, engine.AlwaysConfirm)
	reply := make(chan bool, 1)
	m, _ = send(m, confirmRequestMsg{prompt: "Delete?", reply: reply})
	require.NotNil(t, m.confirm)

	m, cmd := press(m, "ctrl+c")
	assert.NotNil(t, cmd)
	assert.True(t, m.quitting)
	assert.False(t, <-reply)
	assert.Empty(t, m.View())
}

func TestModel_TabCyclesScreens(t *testing.T) {
	m := testModel(&engine.MockAPI{}, engine.AlwaysConfirm)
	seen := []Screen{m.screen}
	for range screenCount {
		m, _ = press(m, "tab")
		seen = append(seen, m.screen)
	}
	assert.Equal(t, []Screen{ScreenDashboard, ScreenCards, ScreenCategories, ScreenTransactions, ScreenNewTransaction, ScreenDashboard}, seen)
}

func TestRecorder_WritesFrames(t *testing.T) {
	rec := NewRecorder(true)
	require.NotEmpty(t, rec.Dir())
	t.Cleanup(func() { _ = os.RemoveAll(rec.Dir()) })

	m := testModel(&engine.MockAPI{}, engine.AlwaysConfirm)
	rec.RecordState(m, tea.WindowSizeMsg{Width: 120, Height: 40})
	rec.Close()

	frame, err := os.ReadFile(filepath.Join(rec.Dir(), "frame-0001.txt"))
	require.NoError(t, err)
	assert.Equal(t, m.View(), string(frame))

	log, err := os.ReadFile(filepath.Join(rec.Dir(), "messages.jsonl"))
	require.NoError(t, err)
	assert.Contains(t, string(log), `"type":"tea.WindowSizeMsg"`)
	assert.Contains(t, string(log), `"screen":"Dashboard"`)

	assert.Empty(t, NewRecorder(false).Dir())
}
