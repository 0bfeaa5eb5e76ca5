package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/GRBadas/Planilha-Django/internal/common"
	"github.com/GRBadas/Planilha-Django/internal/model"
)

// ImportStatus is the outcome of importing one row.
type ImportStatus int

// Import outcomes.
const (
	ImportCreated ImportStatus = iota
	ImportValid
	ImportSkipped
	ImportFailed
)

// ImportResult describes one imported row. Err holds the validation or API failure.
type ImportResult struct {
	Err         error
	Transaction *model.Transaction
	Values      FormValues
	Index       int
	Status      ImportStatus
}

// ImportSummary counts the outcomes of an import.
type ImportSummary struct {
	Results []ImportResult
	Created int
	Valid   int
	Skipped int
	Failed  int
}

// ImportOptions controls Import.
type ImportOptions struct {
	// OnResult is called after each row.
	OnResult func(ImportResult)
	// DryRun validates every row without creating anything.
	DryRun bool
}

// Import validates each row with the transaction form rules and creates the valid ones.
// Rows failing validation are skipped and API failures are recorded; neither stops the
// import. Dependent collections are refreshed once at the end if anything was created.
// Cancelling ctx stops after the current row.
func (e *Engine) Import(ctx context.Context, rows []FormValues, opts ImportOptions) (ImportSummary, error) {
	cards := e.store.ListCards(ctx)
	summary := ImportSummary{Results: make([]ImportResult, 0, len(rows))}

	var stopErr error
	for i, values := range rows {
		if err := ctx.Err(); err != nil {
			stopErr = fmt.Errorf("%w: %w", common.ErrCancelled, err)
			break
		}

		result := ImportResult{Index: i, Values: values}
		input, err := ValidateTransaction(values, cards)
		switch {
		case err != nil:
			result.Status, result.Err = ImportSkipped, err
			summary.Skipped++
		case opts.DryRun:
			result.Status = ImportValid
			summary.Valid++
		default:
			created, err := e.api.CreateTransaction(ctx, input)
			if err != nil {
				result.Status, result.Err = ImportFailed, err
				summary.Failed++
				common.LogWarn(err, "import row failed", common.Fields{"row": i, "description": input.Description})
			} else {
				result.Status, result.Transaction = ImportCreated, created
				summary.Created++
			}
		}

		summary.Results = append(summary.Results, result)
		if opts.OnResult != nil {
			opts.OnResult(result)
		}
	}

	if summary.Created > 0 {
		// Refresh even when ctx was cancelled mid-import.
		e.invalidator.Invalidate(context.WithoutCancel(ctx), EntityTransaction)
	}
	common.LogInfo("import finished", common.Fields{
		"created": summary.Created,
		"skipped": summary.Skipped,
		"failed":  summary.Failed,
	})

	return summary, stopErr
}

// IsValidationFailure reports whether err is a form rule failure rather than an API error.
func IsValidationFailure(err error) bool {
	var ve *model.ValidationError
	return errors.As(err, &ve)
}
