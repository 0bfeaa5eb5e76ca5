package main

import (
	"fmt"

	"github.com/GRBadas/Planilha-Django/internal/cli"
	"github.com/GRBadas/Planilha-Django/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the REST API server",
		Long: `Serve the cards, categories and transactions API from a local SQLite database.

The database lives at database.path and is migrated on startup.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			cfg := server.DefaultConfig()
			cfg.Addr = viper.GetString("server.addr")
			if origins := viper.GetStringSlice("server.allowed_origins"); len(origins) > 0 {
				cfg.AllowedOrigins = origins
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo(fmt.Sprintf("Serving the API on %s (Ctrl+C to stop)", cfg.Addr)))
			return server.New(store, cfg).Run(ctx)
		},
	}

	cmd.Flags().String("addr", "", "listen address (overrides server.addr)")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))

	return cmd
}
