package components

import (
	"github.com/GRBadas/Planilha-Django/internal/engine"
	"github.com/GRBadas/Planilha-Django/internal/model"
)

// TransactionSubmitMsg asks the parent to write the form's values.
type TransactionSubmitMsg struct {
	Values engine.FormValues
}

// CardSubmitMsg asks the parent to save a card.
type CardSubmitMsg struct {
	Card model.Card
}

// CategorySubmitMsg asks the parent to save a category.
type CategorySubmitMsg struct {
	Category model.Category
}

// FormCancelledMsg closes the open form without writing.
type FormCancelledMsg struct{}

// ConfirmResultMsg carries the answer from a confirmation dialog.
type ConfirmResultMsg struct {
	Confirmed bool
}
