package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/GRBadas/Planilha-Django/internal/cli"
	"github.com/GRBadas/Planilha-Django/internal/common"
	"github.com/GRBadas/Planilha-Django/internal/engine"
	"github.com/GRBadas/Planilha-Django/internal/ofx"
	"github.com/spf13/cobra"
)

func importOFXCmd() *cobra.Command {
	var (
		categoryID int
		cardID     int
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "import-ofx <file>...",
		Short: "Import transactions from OFX/QFX statements",
		Long: `Import every line of one or more OFX/QFX bank or credit card statements.

All lines go to --category (and --card when given). Each line is checked with the same
rules as the transaction form: lines that fail, such as inflows on a credit card, are
skipped and reported. Lines repeated across files are imported once.`,
		Example: `  planilha import-ofx extrato.ofx --category 3
  planilha import-ofx fatura-*.qfx --category 5 --card 2 --dry-run`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			handler := cli.NewInterruptHandler(out, "Import", "Lines imported before the interrupt were kept.")
			ctx := handler.HandleInterrupts(cmd.Context())

			parser := ofx.NewParser()
			var drafts []ofx.Draft
			for _, path := range args {
				f, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", path, err)
				}
				parsed, err := parser.ParseFile(ctx, f)
				f.Close()
				if err != nil {
					return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
				}
				drafts = append(drafts, parsed...)
			}
			drafts = ofx.Dedupe(drafts)
			if len(drafts) == 0 {
				fmt.Fprintln(out, cli.FormatInfo("No transactions found in the given files."))
				return nil
			}

			var card *int
			if cardID > 0 {
				card = &cardID
			}
			rows := make([]engine.FormValues, len(drafts))
			for i, d := range drafts {
				rows[i] = d.Values(categoryID, card)
			}

			eng, _, err := connect(engine.AlwaysConfirm)
			if err != nil {
				return err
			}

			description := "Importing"
			if dryRun {
				description = "Checking"
			}
			bar := cli.NewProgressBar(out, len(rows), description)
			summary, err := eng.Import(ctx, rows, engine.ImportOptions{
				DryRun: dryRun,
				OnResult: func(engine.ImportResult) {
					_ = bar.Add(1)
				},
			})
			_ = bar.Finish()

			for _, r := range summary.Results {
				switch r.Status {
				case engine.ImportSkipped:
					fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("Skipped %s %q: %s", r.Values.Date, r.Values.Description, common.UserMessage(r.Err, "invalid line"))))
				case engine.ImportFailed:
					fmt.Fprintln(out, cli.FormatError(fmt.Sprintf("Failed %s %q: %s", r.Values.Date, r.Values.Description, common.UserMessage(r.Err, common.DefaultWriteFailure))))
				}
			}

			if dryRun {
				fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Dry run: %d valid, %d skipped.", summary.Valid, summary.Skipped)))
			} else {
				fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Imported %d, skipped %d, failed %d.", summary.Created, summary.Skipped, summary.Failed)))
			}

			if err != nil && !(errors.Is(err, common.ErrCancelled) && handler.WasInterrupted()) {
				return err
			}
			if summary.Failed > 0 {
				return fmt.Errorf("%d lines could not be imported", summary.Failed)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&categoryID, "category", "c", 0, "category ID for every imported line (required)")
	cmd.Flags().IntVar(&cardID, "card", 0, "card ID for every imported line")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "check the lines without creating anything")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}
