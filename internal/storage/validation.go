package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/GRBadas/Planilha-Django/internal/model"
)

// Validation and business-rule errors.
var (
	ErrNilContext        = errors.New("context cannot be nil")
	ErrEmptyString       = errors.New("string parameter cannot be empty")
	ErrInvalidID         = errors.New("id must be positive")
	ErrCreditInflow      = errors.New("credit cards do not accept inflows")
	ErrInsufficientLimit = errors.New("insufficient credit limit")
	ErrUnknownCard       = errors.New("card does not exist")
	ErrUnknownCategory   = errors.New("category does not exist")
	ErrCardKindLocked    = errors.New("card type cannot change while it has transactions")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateID(id int) error {
	if id <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidID, id)
	}
	return nil
}

// validateTransactionInput checks the fields the schema cannot.
func validateTransactionInput(in model.TransactionInput) error {
	if strings.TrimSpace(in.Description) == "" {
		return &model.ValidationError{Field: "descricao", Message: "description is required"}
	}
	if in.Amount.Cents() <= 0 {
		return &model.ValidationError{Field: "valor", Message: "amount must be greater than zero"}
	}
	if in.Amount.HasSubCents() {
		return &model.ValidationError{Field: "valor", Message: "amount must have at most two decimal places"}
	}
	if in.Date.IsZero() {
		return &model.ValidationError{Field: "data", Message: "date is required"}
	}
	if !in.Direction.Valid() {
		return &model.ValidationError{Field: "tipo", Message: "direction must be entrada or saida"}
	}
	if in.CategoryID <= 0 {
		return &model.ValidationError{Field: "categoria", Message: "category is required"}
	}
	return nil
}
