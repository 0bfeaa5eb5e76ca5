package main

import (
	"github.com/GRBadas/Planilha-Django/internal/config"
	"github.com/GRBadas/Planilha-Django/internal/engine"
	"github.com/GRBadas/Planilha-Django/internal/tui"
	"github.com/GRBadas/Planilha-Django/internal/tui/themes"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func dashboardCmd() *cobra.Command {
	var record bool

	cmd := &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"ui"},
		Short:   "Open the interactive dashboard",
		Long: `Browse spending by category, cards, categories and transactions in a terminal UI.

Keys: 1-5 switch screens, n adds, e edits, d deletes, r retries, ? shows help, q quits.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			engineCfg := engine.DefaultConfig()
			engineCfg.PageSize = config.PageSize(viper.GetViper())

			return tui.Run(cmd.Context(), client,
				tui.WithEngineConfig(engineCfg),
				tui.WithTheme(themes.GetTheme(viper.GetString("tui.theme"))),
				tui.WithRecorder(record),
			)
		},
	}

	cmd.Flags().String("theme", "default", "color theme (default, catppuccin-mocha)")
	cmd.Flags().BoolVar(&record, "record", false, "record every frame to a temporary directory for debugging")
	_ = viper.BindPFlag("tui.theme", cmd.Flags().Lookup("theme"))

	return cmd
}
