package engine

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/GRBadas/Planilha-Django/internal/common"
	"github.com/GRBadas/Planilha-Django/internal/model"
)

// Validation messages, in rule order.
const (
	MsgAmountNotPositive = "amount must be greater than zero"
	MsgAmountPrecision   = "amount must have at most two decimal places"
	MsgMissingFields     = "fill in description, date, direction and category"
	MsgInvalidDate       = "date must be in YYYY-MM-DD format"
	MsgInvalidCard       = "select a valid card"
	MsgCreditInflow      = "credit cards do not accept inflows"
	MsgSaved             = "transaction saved"
)

// FormValues is the raw, string-typed content of a transaction form.
type FormValues struct {
	Description string
	Amount      string
	Date        string
	Direction   string
	CardID      string
	CategoryID  string
}

// ValuesFromTransaction pre-fills a form for editing t.
func ValuesFromTransaction(t model.Transaction) FormValues {
	v := FormValues{
		Description: t.Description,
		Amount:      t.Amount.String(),
		Date:        model.FormatDate(t.Date),
		Direction:   string(t.Direction),
		CategoryID:  strconv.Itoa(t.CategoryID),
	}
	if t.CardID != nil {
		v.CardID = strconv.Itoa(*t.CardID)
	}
	return v
}

// ValidateTransaction applies the form rules in order and returns the normalized payload
// or the first failure:
//  1. the amount parses to at least one cent with no fraction of a cent;
//  2. description, date, direction and category are present;
//  3. a credit card cannot receive an inflow.
func ValidateTransaction(v FormValues, cards []model.Card) (model.TransactionInput, error) {
	amount, err := model.ParseAmount(v.Amount)
	if err != nil || amount.Cents() <= 0 {
		return model.TransactionInput{}, &model.ValidationError{Field: "valor", Message: MsgAmountNotPositive}
	}
	if amount.HasSubCents() {
		return model.TransactionInput{}, &model.ValidationError{Field: "valor", Message: MsgAmountPrecision}
	}

	description := strings.TrimSpace(v.Description)
	direction := model.Direction(strings.TrimSpace(v.Direction))
	categoryID, catErr := strconv.Atoi(strings.TrimSpace(v.CategoryID))
	if description == "" || strings.TrimSpace(v.Date) == "" || !direction.Valid() || catErr != nil || categoryID <= 0 {
		return model.TransactionInput{}, &model.ValidationError{Field: missingField(v), Message: MsgMissingFields}
	}

	date, err := model.ParseDate(v.Date)
	if err != nil {
		return model.TransactionInput{}, &model.ValidationError{Field: "data", Message: MsgInvalidDate}
	}

	cardID, err := parseOptionalID(v.CardID)
	if err != nil {
		return model.TransactionInput{}, &model.ValidationError{Field: "cartao", Message: MsgInvalidCard}
	}

	if err := checkCreditInflow(cardID, direction, cards); err != nil {
		return model.TransactionInput{}, err
	}

	return model.TransactionInput{
		Description: description,
		Amount:      amount,
		Date:        date,
		Direction:   direction,
		CardID:      cardID,
		CategoryID:  categoryID,
	}, nil
}

func checkCreditInflow(cardID *int, direction model.Direction, cards []model.Card) error {
	if cardID == nil || direction != model.DirectionIn {
		return nil
	}
	if card, ok := model.FindCard(cards, *cardID); ok && card.IsCredit() {
		return &model.ValidationError{Field: "tipo", Message: MsgCreditInflow}
	}
	return nil
}

func missingField(v FormValues) string {
	switch {
	case strings.TrimSpace(v.Description) == "":
		return "descricao"
	case strings.TrimSpace(v.Date) == "":
		return "data"
	case !model.Direction(strings.TrimSpace(v.Direction)).Valid():
		return "tipo"
	default:
		return "categoria"
	}
}

func parseOptionalID(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return nil, strconv.ErrSyntax
	}
	return &id, nil
}

// FormState is where a form is in its submit cycle.
type FormState int

const (
	// FormIdle accepts edits and submissions.
	FormIdle FormState = iota
	// FormValidating is checking the rules.
	FormValidating
	// FormSubmitting has a request in flight; further submissions are rejected.
	FormSubmitting
)

func (s FormState) String() string {
	switch s {
	case FormIdle:
		return "idle"
	case FormValidating:
		return "validating"
	case FormSubmitting:
		return "submitting"
	default:
		return "unknown"
	}
}

// FormOutcome is the result of the last submission, shown until the next one.
type FormOutcome int

const (
	// OutcomeNone means nothing was submitted yet.
	OutcomeNone FormOutcome = iota
	// OutcomeSuccess means the last submission was accepted.
	OutcomeSuccess
	// OutcomeError means validation or the request failed.
	OutcomeError
)

// TransactionForm drives a transaction editor through
// idle -> validating -> submitting -> idle, recording the outcome.
// Fields survive a failed submission and are cleared after a successful one.
// A form is safe for concurrent use; Submit does not hold the lock while sending.
type TransactionForm struct {
	mu      sync.Mutex
	cards   []model.Card
	message string
	values  FormValues
	state   FormState
	outcome FormOutcome
}

// NewTransactionForm creates an empty form. cards feed the credit-inflow rule.
func NewTransactionForm(cards []model.Card) *TransactionForm {
	return &TransactionForm{cards: cards}
}

// NewEditForm creates a form pre-filled from t.
func NewEditForm(t model.Transaction, cards []model.Card) *TransactionForm {
	return &TransactionForm{cards: cards, values: ValuesFromTransaction(t)}
}

// SetCards replaces the cards used by the credit-inflow rule.
func (f *TransactionForm) SetCards(cards []model.Card) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cards = cards
	f.recheckCreditInflow()
}

// Values returns the current field contents.
func (f *TransactionForm) Values() FormValues {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

// State returns the submit state.
func (f *TransactionForm) State() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Outcome returns the result of the last submission.
func (f *TransactionForm) Outcome() FormOutcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.outcome
}

// Message returns the text to show for the current outcome.
func (f *TransactionForm) Message() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.message
}

// SetValues replaces all fields. Choosing a credit card with an inflow direction flags the
// conflict immediately, before any submission.
func (f *TransactionForm) SetValues(v FormValues) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = v
	f.recheckCreditInflow()
}

// recheckCreditInflow expects f.mu to be held.
func (f *TransactionForm) recheckCreditInflow() {
	cardID, err := parseOptionalID(f.values.CardID)
	if err != nil {
		return
	}
	if conflict := checkCreditInflow(cardID, model.Direction(f.values.Direction), f.cards); conflict != nil {
		f.outcome = OutcomeError
		f.message = MsgCreditInflow
		return
	}
	if f.message == MsgCreditInflow {
		f.outcome = OutcomeNone
		f.message = ""
	}
}

// Begin validates the form and, when valid, moves it to submitting and returns the
// payload. A form already submitting returns common.ErrSubmitInFlight.
func (f *TransactionForm) Begin() (model.TransactionInput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == FormSubmitting {
		return model.TransactionInput{}, common.ErrSubmitInFlight
	}

	f.state = FormValidating
	input, err := ValidateTransaction(f.values, f.cards)
	if err != nil {
		f.state = FormIdle
		f.outcome = OutcomeError
		f.message = common.UserMessage(err, common.DefaultWriteFailure)
		return model.TransactionInput{}, err
	}

	f.state = FormSubmitting
	f.outcome = OutcomeNone
	f.message = ""
	return input, nil
}

// Finish records the result of the request started by Begin.
func (f *TransactionForm) Finish(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = FormIdle
	if err != nil {
		f.outcome = OutcomeError
		f.message = common.UserMessage(err, common.DefaultWriteFailure)
		return
	}
	f.outcome = OutcomeSuccess
	f.message = MsgSaved
	f.values = FormValues{}
}

// Submit runs Begin, send and Finish in sequence.
func (f *TransactionForm) Submit(ctx context.Context, send func(context.Context, model.TransactionInput) error) error {
	input, err := f.Begin()
	if err != nil {
		return err
	}
	err = send(ctx, input)
	f.Finish(err)
	return err
}
