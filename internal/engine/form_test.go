package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/GRBadas/Planilha-Django/internal/common"
	"github.com/GRBadas/Planilha-Django/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCards() []model.Card {
	limit := model.MustAmount("1000")
	balance := model.MustAmount("200")
	return []model.Card{
		{ID: 1, Name: "Visa", Kind: model.CardKindCredit, Limit: &limit},
		{ID: 2, Name: "Conta", Kind: model.CardKindDebit, Balance: &balance},
	}
}

func validValues() FormValues {
	return FormValues{
		Description: "Mercado",
		Amount:      "54.30",
		Date:        "2024-05-01",
		Direction:   "saida",
		CardID:      "1",
		CategoryID:  "3",
	}
}

func TestValidateTransaction_RuleOrder(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(v *FormValues)
		wantMsg string
	}{
		{name: "valid", mutate: func(*FormValues) {}},
		{name: "zero amount", mutate: func(v *FormValues) { v.Amount = "0" }, wantMsg: MsgAmountNotPositive},
		{name: "negative amount", mutate: func(v *FormValues) { v.Amount = "-5" }, wantMsg: MsgAmountNotPositive},
		{name: "non numeric amount", mutate: func(v *FormValues) { v.Amount = "abc" }, wantMsg: MsgAmountNotPositive},
		{name: "amount below one cent", mutate: func(v *FormValues) { v.Amount = "0.001" }, wantMsg: MsgAmountNotPositive},
		{name: "fraction of a cent", mutate: func(v *FormValues) { v.Amount = "54.305" }, wantMsg: MsgAmountPrecision},
		{name: "trailing zero decimals", mutate: func(v *FormValues) { v.Amount = "54.300" }},
		{
			name: "amount checked before required fields",
			mutate: func(v *FormValues) {
				v.Amount = ""
				v.CategoryID = ""
			},
			wantMsg: MsgAmountNotPositive,
		},
		{name: "missing date", mutate: func(v *FormValues) { v.Date = "" }, wantMsg: MsgMissingFields},
		{name: "missing direction", mutate: func(v *FormValues) { v.Direction = "" }, wantMsg: MsgMissingFields},
		{name: "missing category", mutate: func(v *FormValues) { v.CategoryID = "" }, wantMsg: MsgMissingFields},
		{name: "blank description", mutate: func(v *FormValues) { v.Description = "  " }, wantMsg: MsgMissingFields},
		{name: "malformed date", mutate: func(v *FormValues) { v.Date = "01/05/2024" }, wantMsg: MsgInvalidDate},
		{name: "date with trailing text", mutate: func(v *FormValues) { v.Date = "2024-05-01xyz" }, wantMsg: MsgInvalidDate},
		{name: "date with time part", mutate: func(v *FormValues) { v.Date = "2024-05-01T10:00:00Z" }},
		{
			name: "required fields checked before credit rule",
			mutate: func(v *FormValues) {
				v.Direction = "entrada"
				v.Date = ""
			},
			wantMsg: MsgMissingFields,
		},
		{name: "credit card inflow", mutate: func(v *FormValues) { v.Direction = "entrada" }, wantMsg: MsgCreditInflow},
		{
			name: "debit card inflow",
			mutate: func(v *FormValues) {
				v.Direction = "entrada"
				v.CardID = "2"
			},
		},
		{
			name: "inflow without card",
			mutate: func(v *FormValues) {
				v.Direction = "entrada"
				v.CardID = ""
			},
		},
		{name: "bad card id", mutate: func(v *FormValues) { v.CardID = "visa" }, wantMsg: MsgInvalidCard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validValues()
			tt.mutate(&v)

			_, err := ValidateTransaction(v, testCards())
			if tt.wantMsg == "" {
				require.NoError(t, err)
				return
			}
			var validationErr *model.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.wantMsg, validationErr.Message)
		})
	}
}

func TestValidateTransaction_NormalizesPayload(t *testing.T) {
	v := validValues()
	v.Amount = "54,3"
	v.Description = "  Mercado "

	input, err := ValidateTransaction(v, testCards())
	require.NoError(t, err)
	assert.Equal(t, "Mercado", input.Description)
	assert.Equal(t, "54.30", input.Amount.String())
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), input.Date)
	assert.Equal(t, model.DirectionOut, input.Direction)
	assert.Equal(t, model.IntPtr(1), input.CardID)
	assert.Equal(t, 3, input.CategoryID)
}

func TestTransactionForm_SuccessClearsFields(t *testing.T) {
	form := NewTransactionForm(testCards())
	form.SetValues(validValues())

	var sent model.TransactionInput
	err := form.Submit(context.Background(), func(_ context.Context, in model.TransactionInput) error {
		assert.Equal(t, FormSubmitting, form.State())
		sent = in
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, "Mercado", sent.Description)
	assert.Equal(t, FormIdle, form.State())
	assert.Equal(t, OutcomeSuccess, form.Outcome())
	assert.Equal(t, MsgSaved, form.Message())
	assert.Equal(t, FormValues{}, form.Values())
}

func TestTransactionForm_ErrorPreservesFields(t *testing.T) {
	form := NewTransactionForm(testCards())
	form.SetValues(validValues())

	serverErr := &common.APIError{StatusCode: 400, Detail: "insufficient credit limit", Message: "ignored"}
	err := form.Submit(context.Background(), func(context.Context, model.TransactionInput) error {
		return serverErr
	})

	require.Error(t, err)
	assert.Equal(t, FormIdle, form.State())
	assert.Equal(t, OutcomeError, form.Outcome())
	assert.Equal(t, "insufficient credit limit", form.Message())
	assert.Equal(t, validValues(), form.Values())
}

func TestTransactionForm_ErrorMessageFallback(t *testing.T) {
	form := NewTransactionForm(nil)
	form.SetValues(validValues())

	_ = form.Submit(context.Background(), func(context.Context, model.TransactionInput) error {
		return &common.APIError{StatusCode: 500}
	})
	assert.Equal(t, common.DefaultWriteFailure, form.Message())

	_ = form.Submit(context.Background(), func(context.Context, model.TransactionInput) error {
		return errors.New("dial tcp: connection refused")
	})
	assert.Equal(t, "dial tcp: connection refused", form.Message())
}

func TestTransactionForm_ValidationFailureSkipsSend(t *testing.T) {
	form := NewTransactionForm(testCards())
	v := validValues()
	v.Amount = "0"
	form.SetValues(v)

	called := false
	err := form.Submit(context.Background(), func(context.Context, model.TransactionInput) error {
		called = true
		return nil
	})

	require.Error(t, err)
	assert.False(t, called)
	assert.Equal(t, MsgAmountNotPositive, form.Message())
	assert.Equal(t, v, form.Values())
}

func TestTransactionForm_RejectsDuplicateSubmit(t *testing.T) {
	form := NewTransactionForm(testCards())
	form.SetValues(validValues())

	_, err := form.Begin()
	require.NoError(t, err)
	assert.Equal(t, FormSubmitting, form.State())

	_, err = form.Begin()
	assert.ErrorIs(t, err, common.ErrSubmitInFlight)

	form.Finish(nil)
	assert.Equal(t, FormIdle, form.State())
}

func TestTransactionForm_ConcurrentAccessDuringSubmit(t *testing.T) {
	form := NewTransactionForm(testCards())
	form.SetValues(validValues())

	sending := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- form.Submit(context.Background(), func(context.Context, model.TransactionInput) error {
			close(sending)
			<-release
			return nil
		})
	}()

	<-sending
	for i := 0; i < 50; i++ {
		assert.Equal(t, FormSubmitting, form.State())
		_ = form.Message()
		_ = form.Outcome()
		_ = form.Values()
		form.SetCards(testCards())
	}
	err := form.Submit(context.Background(), func(context.Context, model.TransactionInput) error {
		t.Error("second submit must not send")
		return nil
	})
	assert.ErrorIs(t, err, common.ErrSubmitInFlight)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, FormIdle, form.State())
	assert.Equal(t, OutcomeSuccess, form.Outcome())
	assert.Equal(t, MsgSaved, form.Message())
	assert.Equal(t, FormValues{}, form.Values())
}

func TestTransactionForm_ReactiveCreditCheck(t *testing.T) {
	form := NewTransactionForm(testCards())
	v := validValues()
	v.Direction = "entrada"
	form.SetValues(v)

	assert.Equal(t, OutcomeError, form.Outcome())
	assert.Equal(t, MsgCreditInflow, form.Message())

	v.CardID = "2"
	form.SetValues(v)
	assert.Equal(t, OutcomeNone, form.Outcome())
	assert.Empty(t, form.Message())
}

func TestNewEditForm_CopiesTransaction(t *testing.T) {
	tx := model.Transaction{
		ID:          5,
		Description: "Uber",
		Amount:      model.MustAmount("23.9"),
		Date:        time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC),
		Direction:   model.DirectionOut,
		CardID:      model.IntPtr(2),
		CategoryID:  4,
	}

	form := NewEditForm(tx, testCards())
	assert.Equal(t, FormValues{
		Description: "Uber",
		Amount:      "23.90",
		Date:        "2024-06-02",
		Direction:   "saida",
		CardID:      "2",
		CategoryID:  "4",
	}, form.Values())
}
