package engine

import (
	"context"

	"github.com/GRBadas/Planilha-Django/internal/service"
)

// ConfirmFunc adapts a function to service.Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

// Confirm implements service.Confirmer.
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// AlwaysConfirm approves every prompt. It backs non-interactive runs such as --yes.
var AlwaysConfirm service.Confirmer = ConfirmFunc(func(context.Context, string) (bool, error) {
	return true, nil
})
