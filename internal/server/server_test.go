package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/GRBadas/Planilha-Django/internal/api"
	"github.com/GRBadas/Planilha-Django/internal/common"
	"github.com/GRBadas/Planilha-Django/internal/model"
	"github.com/GRBadas/Planilha-Django/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var may1 = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

type fixture struct {
	db     *testutil.TestDB
	ts     *httptest.Server
	client *api.Client
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ts := httptest.NewServer(New(db.Storage, DefaultConfig()).Handler())
	t.Cleanup(ts.Close)

	cfg := api.DefaultConfig()
	cfg.BaseURL = ts.URL + "/api/"
	cfg.ReadRetry.MaxAttempts = 1
	client, err := api.NewClient(cfg, ts.Client())
	require.NoError(t, err)

	return &fixture{db: db, ts: ts, client: client}
}

func (f *fixture) request(t *testing.T, method, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, f.ts.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func TestCardsRoundTrip(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	created, err := f.client.CreateCard(ctx, testutil.CreditCard("Visa", "1000"))
	require.NoError(t, err)
	assert.Positive(t, created.ID)
	assert.Equal(t, model.CardKindCredit, created.Kind)
	require.NotNil(t, created.Limit)
	assert.Equal(t, "1000.00", created.Limit.String())
	assert.Nil(t, created.Balance)

	cards, err := f.client.ListCards(ctx)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "Visa", cards[0].Name)

	created.Name = "Visa Gold"
	updated, err := f.client.UpdateCard(ctx, created.ID, *created)
	require.NoError(t, err)
	assert.Equal(t, "Visa Gold", updated.Name)

	require.NoError(t, f.client.DeleteCard(ctx, created.ID))
	cards, err = f.client.ListCards(ctx)
	require.NoError(t, err)
	assert.Empty(t, cards)
}

func TestCreateCardRejectsInvalidKind(t *testing.T) {
	f := setup(t)

	resp, body := f.request(t, http.MethodPost, "/api/cartoes/", `{"nome":"X","tipo":"pix"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "tipo: must be credito or debito", body["detail"])
	assert.Equal(t, "INVALID_INPUT", body["code"])
}

func TestCreateCardRejectsCreditWithoutLimit(t *testing.T) {
	f := setup(t)

	_, err := f.client.CreateCard(context.Background(), model.Card{Name: "Visa", Kind: model.CardKindCredit})
	require.Error(t, err)

	var apiErr *common.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "credit cards need a limit greater than zero", apiErr.Detail)
}

func TestCategoryDuplicateIsConflict(t *testing.T) {
	f := setup(t)
	f.db.MustCreateCategory("Food")

	_, err := f.client.CreateCategory(context.Background(), model.Category{Name: "Food"})
	var apiErr *common.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "a category with this name already exists", common.UserMessage(err, "fallback"))
}

func TestTransactionLifecycleMovesCardBalance(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	food := f.db.MustCreateCategory("Food")
	debit := f.db.MustCreateCard(testutil.DebitCard("Nubank", "100"))

	tx, err := f.client.CreateTransaction(ctx, model.TransactionInput{
		Description: "Lunch",
		Amount:      model.MustAmount("30"),
		Date:        may1,
		Direction:   model.DirectionOut,
		CardID:      model.IntPtr(debit.ID),
		CategoryID:  food.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Food", tx.CategoryName)
	assert.Equal(t, "Nubank", tx.CardName)
	assert.Equal(t, may1, tx.Date)

	card, err := f.db.Storage.GetCard(ctx, debit.ID)
	require.NoError(t, err)
	assert.Equal(t, "70.00", card.Balance.String())

	in := tx.Input()
	in.Amount = model.MustAmount("50")
	_, err = f.client.UpdateTransaction(ctx, tx.ID, in)
	require.NoError(t, err)

	card, err = f.db.Storage.GetCard(ctx, debit.ID)
	require.NoError(t, err)
	assert.Equal(t, "50.00", card.Balance.String())

	require.NoError(t, f.client.DeleteTransaction(ctx, tx.ID))
	card, err = f.db.Storage.GetCard(ctx, debit.ID)
	require.NoError(t, err)
	assert.Equal(t, "100.00", card.Balance.String())
}

func TestCreateTransactionValidation(t *testing.T) {
	f := setup(t)
	food := f.db.MustCreateCategory("Food")
	visa := f.db.MustCreateCard(testutil.CreditCard("Visa", "100"))

	tests := []struct {
		name   string
		body   string
		status int
		detail string
	}{
		{
			name:   "zero amount",
			body:   `{"descricao":"x","valor":"0","data":"2024-05-01","tipo":"saida","categoria":1}`,
			status: http.StatusBadRequest,
			detail: "valor: must be greater than zero",
		},
		{
			name:   "bad date",
			body:   `{"descricao":"x","valor":10,"data":"01/05/2024","tipo":"saida","categoria":1}`,
			status: http.StatusBadRequest,
			detail: "data: must be a date in YYYY-MM-DD format",
		},
		{
			name:   "missing description",
			body:   `{"valor":10,"data":"2024-05-01","tipo":"saida","categoria":1}`,
			status: http.StatusBadRequest,
			detail: "descricao: this field is required",
		},
		{
			name:   "inflow on credit card",
			body:   `{"descricao":"x","valor":10,"data":"2024-05-01","tipo":"entrada","categoria":1,"cartao":` + strconv.Itoa(visa.ID) + `}`,
			status: http.StatusBadRequest,
			detail: "credit cards do not accept inflows",
		},
		{
			name:   "over the limit",
			body:   `{"descricao":"x","valor":"150.00","data":"2024-05-01","tipo":"saida","categoria":1,"cartao":` + strconv.Itoa(visa.ID) + `}`,
			status: http.StatusBadRequest,
			detail: "insufficient credit limit",
		},
		{
			name:   "unknown category",
			body:   `{"descricao":"x","valor":10,"data":"2024-05-01","tipo":"saida","categoria":99}`,
			status: http.StatusBadRequest,
			detail: "category does not exist",
		},
	}
	require.Equal(t, 1, food.ID)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := f.request(t, http.MethodPost, "/api/transacoes/", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.detail, body["detail"])
		})
	}
}

func TestListTransactionsPaginates(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	food := f.db.MustCreateCategory("Food")
	for i := 0; i < 10; i++ {
		f.db.MustCreateTransaction(model.TransactionInput{
			Description: "item",
			Amount:      model.MustAmount("1"),
			Date:        may1.AddDate(0, 0, i),
			Direction:   model.DirectionOut,
			CategoryID:  food.ID,
		})
	}

	page, err := f.client.ListTransactions(ctx, 1, 8)
	require.NoError(t, err)
	assert.Equal(t, 10, page.Count)
	require.Len(t, page.Results, 8)
	assert.Equal(t, may1.AddDate(0, 0, 9), page.Results[0].Date, "newest first")

	page, err = f.client.ListTransactions(ctx, 2, 8)
	require.NoError(t, err)
	assert.Len(t, page.Results, 2)

	_, err = f.client.ListTransactions(ctx, 3, 8)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Equal(t, "Invalid page.", common.UserMessage(err, ""))
}

func TestListTransactionsLimitAlias(t *testing.T) {
	f := setup(t)
	food := f.db.MustCreateCategory("Food")
	for i := 0; i < 3; i++ {
		f.db.MustCreateTransaction(model.TransactionInput{
			Description: "item",
			Amount:      model.MustAmount("1"),
			Date:        may1,
			Direction:   model.DirectionOut,
			CategoryID:  food.ID,
		})
	}

	resp, body := f.request(t, http.MethodGet, "/api/transacoes/?limit=2", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(3), body["count"])
	assert.Len(t, body["results"], 2)
}

func TestEmptyFirstPageIsNotAnError(t *testing.T) {
	f := setup(t)

	page, err := f.client.ListTransactions(context.Background(), 1, 8)
	require.NoError(t, err)
	assert.Zero(t, page.Count)
	assert.Empty(t, page.Results)
}

func TestSpendingByCategoryCountsOutflowsOnly(t *testing.T) {
	f := setup(t)
	food := f.db.MustCreateCategory("Food")
	rent := f.db.MustCreateCategory("Rent")
	salary := f.db.MustCreateCategory("Salary")

	seed := func(cat model.Category, amount string, dir model.Direction) {
		f.db.MustCreateTransaction(model.TransactionInput{
			Description: cat.Name, Amount: model.MustAmount(amount), Date: may1,
			Direction: dir, CategoryID: cat.ID,
		})
	}
	seed(food, "30", model.DirectionOut)
	seed(food, "20", model.DirectionOut)
	seed(rent, "900", model.DirectionOut)
	seed(salary, "5000", model.DirectionIn)

	totals, err := f.client.SpendingByCategory(context.Background())
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, "Rent", totals[0].Category)
	assert.Equal(t, "900.00", totals[0].Total.String())
	assert.Equal(t, "Food", totals[1].Category)
	assert.Equal(t, "50.00", totals[1].Total.String())
}

func TestDeleteCardKeepsTransactions(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	food := f.db.MustCreateCategory("Food")
	debit := f.db.MustCreateCard(testutil.DebitCard("Nubank", "100"))
	tx := f.db.MustCreateTransaction(model.TransactionInput{
		Description: "Lunch", Amount: model.MustAmount("10"), Date: may1,
		Direction: model.DirectionOut, CardID: model.IntPtr(debit.ID), CategoryID: food.ID,
	})

	require.NoError(t, f.client.DeleteCard(ctx, debit.ID))

	page, err := f.client.ListTransactions(ctx, 1, 8)
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, tx.ID, page.Results[0].ID)
	assert.Nil(t, page.Results[0].CardID)
}

func TestCardKindChangeWithTransactionsIsConflict(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	food := f.db.MustCreateCategory("Food")
	debit := f.db.MustCreateCard(testutil.DebitCard("Nubank", "100"))
	f.db.MustCreateTransaction(model.TransactionInput{
		Description: "Lunch", Amount: model.MustAmount("10"), Date: may1,
		Direction: model.DirectionOut, CardID: model.IntPtr(debit.ID), CategoryID: food.ID,
	})

	_, err := f.client.UpdateCard(ctx, debit.ID, testutil.CreditCard("Nubank", "500"))
	var apiErr *common.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "card type cannot change while it has transactions", apiErr.Detail)

	card, err := f.db.Storage.GetCard(ctx, debit.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CardKindDebit, card.Kind)
	assert.Equal(t, "90.00", card.Balance.String())
}

func TestUnknownIDIsNotFound(t *testing.T) {
	f := setup(t)

	for _, path := range []string{"/api/cartoes/42/", "/api/categorias/42/", "/api/transacoes/42/", "/api/cartoes/abc/"} {
		resp, body := f.request(t, http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		assert.Equal(t, "Not found.", body["detail"], path)
	}
}

func TestRequestIDHeader(t *testing.T) {
	f := setup(t)

	resp, _ := f.request(t, http.MethodGet, "/api/health/", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(requestIDHeader))
}

func TestToAppErrorDefaultsToInternal(t *testing.T) {
	appErr := toAppError(errors.New("disk on fire"))
	assert.Equal(t, http.StatusInternalServerError, appErr.StatusCode)
	assert.Equal(t, "INTERNAL_ERROR", appErr.Code)
}
