package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/GRBadas/Planilha-Django/internal/api"
	"github.com/GRBadas/Planilha-Django/internal/cli"
	"github.com/GRBadas/Planilha-Django/internal/common"
	"github.com/GRBadas/Planilha-Django/internal/config"
	"github.com/GRBadas/Planilha-Django/internal/engine"
	"github.com/GRBadas/Planilha-Django/internal/model"
	"github.com/GRBadas/Planilha-Django/internal/pagination"
	"github.com/GRBadas/Planilha-Django/internal/service"
	"github.com/GRBadas/Planilha-Django/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// newClient builds the REST client from api.* settings.
func newClient() (*api.Client, error) {
	cfg, err := config.LoadAPIConfig(viper.GetViper())
	if err != nil {
		return nil, err
	}
	return api.NewClient(cfg, nil)
}

// newEngine wires the client into an engine using the configured page size.
func newEngine(client service.API, confirmer service.Confirmer) *engine.Engine {
	cfg := engine.DefaultConfig()
	cfg.PageSize = config.PageSize(viper.GetViper())
	return engine.NewWithConfig(client, confirmer, cfg)
}

// connect is newClient followed by newEngine.
func connect(confirmer service.Confirmer) (*engine.Engine, *api.Client, error) {
	client, err := newClient()
	if err != nil {
		return nil, nil, err
	}
	return newEngine(client, confirmer), client, nil
}

// confirmerFor asks on the command's terminal unless --yes was given.
func confirmerFor(cmd *cobra.Command, yes bool) service.Confirmer {
	if yes {
		return engine.AlwaysConfirm
	}
	return cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
}

// initStorage opens the server database with proper path expansion and migrates it.
func initStorage(ctx context.Context) (service.Storage, error) {
	store, err := storage.NewSQLiteStorage(config.DatabasePath(viper.GetViper()))
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

// loadFailure turns a collection that failed to load into an error for the command line.
func loadFailure[T any](what string, c engine.Collection[T]) error {
	if c.Status != engine.StatusError {
		return nil
	}
	return fmt.Errorf("failed to load %s: %s", what, common.UserMessage(c.Err, "could not load data"))
}

func findCard(ctx context.Context, client service.CardAPI, id int) (model.Card, error) {
	cards, err := client.ListCards(ctx)
	if err != nil {
		return model.Card{}, fmt.Errorf("failed to list cards: %w", err)
	}
	card, ok := model.FindCard(cards, id)
	if !ok {
		return model.Card{}, fmt.Errorf("card %d: %w", id, common.ErrNotFound)
	}
	return card, nil
}

func findCategory(ctx context.Context, client service.CategoryAPI, id int) (model.Category, error) {
	categories, err := client.ListCategories(ctx)
	if err != nil {
		return model.Category{}, fmt.Errorf("failed to list categories: %w", err)
	}
	for _, c := range categories {
		if c.ID == id {
			return c, nil
		}
	}
	return model.Category{}, fmt.Errorf("category %d: %w", id, common.ErrNotFound)
}

// findTransaction pages through the collection; the API has no single-transaction read.
func findTransaction(ctx context.Context, client service.TransactionAPI, id int) (model.Transaction, error) {
	pager := pagination.NewPager(pagination.MaxPageSize)
	for {
		page, err := client.ListTransactions(ctx, pager.Page, pager.PageSize)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("failed to list transactions: %w", err)
		}
		for _, t := range page.Results {
			if t.ID == id {
				return t, nil
			}
		}
		pager = pager.WithCount(page.Count)
		if !pager.HasNext() || len(page.Results) == 0 {
			return model.Transaction{}, fmt.Errorf("transaction %d: %w", id, common.ErrNotFound)
		}
		pager = pager.Next()
	}
}

// reportDelete prints the outcome of a confirmed or declined delete.
func reportDelete(cmd *cobra.Command, what string, deleted bool) {
	if !deleted {
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("Nothing was deleted."))
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(what+" deleted."))
}
