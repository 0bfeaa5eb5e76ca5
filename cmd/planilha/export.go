package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GRBadas/Planilha-Django/internal/cli"
	"github.com/GRBadas/Planilha-Django/internal/config"
	"github.com/GRBadas/Planilha-Django/internal/sheets"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// newReportWriter is replaced in tests to keep exports off the network.
var newReportWriter = func(ctx context.Context, cfg sheets.Config) (sheets.ReportWriter, error) {
	return sheets.NewWriter(ctx, cfg, slog.Default())
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export spending and transactions to Google Sheets",
		Long: `Write the spending by category and the full transaction ledger to a Google
Sheets spreadsheet, replacing the tabs written by the previous export.

Authenticate first with 'planilha auth sheets' or configure sheets.service_account_path.
Without a spreadsheet ID a new spreadsheet named sheets.spreadsheet_name is created.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			sheetsCfg, err := config.LoadSheetsConfig(viper.GetViper())
			if err != nil {
				return fmt.Errorf("google sheets is not configured: %w", err)
			}

			client, err := newClient()
			if err != nil {
				return err
			}

			var bar *progressbar.ProgressBar
			report, err := sheets.CollectReport(ctx, client, func(fetched, total int) {
				if bar == nil {
					bar = cli.NewProgressBar(out, total, "Reading transactions")
				}
				_ = bar.Set(fetched)
			})
			if bar != nil {
				_ = bar.Finish()
			}
			if err != nil {
				return err
			}

			writer, err := newReportWriter(ctx, *sheetsCfg)
			if err != nil {
				return err
			}
			if err := writer.Write(ctx, report); err != nil {
				return fmt.Errorf("failed to export: %w", err)
			}

			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Exported %d categories and %d transactions.",
				len(report.Spending), len(report.Transactions))))
			return nil
		},
	}

	cmd.Flags().String("spreadsheet-id", "", "spreadsheet to write to (overrides sheets.spreadsheet_id)")
	cmd.Flags().String("spreadsheet-name", "", "title for a newly created spreadsheet")
	_ = viper.BindPFlag("sheets.spreadsheet_id", cmd.Flags().Lookup("spreadsheet-id"))
	_ = viper.BindPFlag("sheets.spreadsheet_name", cmd.Flags().Lookup("spreadsheet-name"))

	return cmd
}
