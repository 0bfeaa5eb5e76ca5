package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/GRBadas/Planilha-Django/internal/cli"
	"github.com/GRBadas/Planilha-Django/internal/engine"
	"github.com/GRBadas/Planilha-Django/internal/model"
	"github.com/spf13/cobra"
)

func transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"tx"},
		Short:   "Manage transactions",
		Long:    `List, add, update, and delete inflows and outflows.`,
	}

	cmd.AddCommand(listTransactionsCmd())
	cmd.AddCommand(addTransactionCmd())
	cmd.AddCommand(updateTransactionCmd())
	cmd.AddCommand(deleteTransactionCmd())

	return cmd
}

func listTransactionsCmd() *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions one page at a time",
		Long:  `Display a page of transactions, newest first, followed by the page window.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, _, err := connect(engine.AlwaysConfirm)
			if err != nil {
				return err
			}

			list := eng.Transactions()
			items := list.Load(cmd.Context())
			if page > 1 && items.Status != engine.StatusError {
				items = list.GoTo(cmd.Context(), page)
			}
			if err := loadFailure("transactions", items); err != nil {
				return err
			}

			_, pager := list.Snapshot()
			return cli.RenderTransactions(cmd.OutOrStdout(), items.Items, pager)
		},
	}
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page to show")

	return cmd
}

// transactionFlags mirror the transaction form fields.
type transactionFlags struct {
	description string
	amount      string
	date        string
	direction   string
	card        int
	category    int
}

func (f *transactionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "what the money was for")
	cmd.Flags().StringVarP(&f.amount, "amount", "a", "", "amount, e.g. 42.90")
	cmd.Flags().StringVar(&f.date, "date", "", "date as YYYY-MM-DD (default today)")
	cmd.Flags().StringVarP(&f.direction, "type", "t", string(model.DirectionOut), "entrada or saida")
	cmd.Flags().IntVar(&f.card, "card", 0, "card ID (0 for none)")
	cmd.Flags().IntVarP(&f.category, "category", "c", 0, "category ID")
}

// apply overwrites v with the flags the user set.
func (f *transactionFlags) apply(cmd *cobra.Command, v engine.FormValues) engine.FormValues {
	changed := cmd.Flags().Changed
	if changed("description") {
		v.Description = f.description
	}
	if changed("amount") {
		v.Amount = f.amount
	}
	if changed("date") {
		v.Date = f.date
	}
	if changed("type") || v.Direction == "" {
		v.Direction = f.direction
	}
	if changed("card") {
		v.CardID = ""
		if f.card > 0 {
			v.CardID = strconv.Itoa(f.card)
		}
	}
	if changed("category") {
		v.CategoryID = strconv.Itoa(f.category)
	}
	return v
}

func addTransactionCmd() *cobra.Command {
	var flags transactionFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new transaction",
		Long: `Record an inflow or outflow. Description, amount and category are asked for
when not given as flags.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			eng, _, err := connect(engine.AlwaysConfirm)
			if err != nil {
				return err
			}

			values := flags.apply(cmd, engine.FormValues{Date: model.FormatDate(time.Now())})
			prompter := cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
			if values, err = askMissing(ctx, eng, prompter, values); err != nil {
				return err
			}

			cards, _ := eng.Store().LoadReferenceData(ctx)
			form := engine.NewTransactionForm(cards.Items)
			form.SetValues(values)

			created, err := eng.CreateTransaction(ctx, form)
			if err != nil {
				return fmt.Errorf("failed to create transaction: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Recorded %q (ID: %d)", created.Description, created.ID)))
			return nil
		},
	}
	flags.register(cmd)

	return cmd
}

// askMissing prompts for the required fields that were not given as flags.
func askMissing(ctx context.Context, eng *engine.Engine, prompter *cli.Prompter, v engine.FormValues) (engine.FormValues, error) {
	var err error
	if v.Description == "" {
		if v.Description, err = prompter.Ask(ctx, "Description", ""); err != nil {
			return v, err
		}
	}
	if v.Amount == "" {
		if v.Amount, err = prompter.Ask(ctx, "Amount", ""); err != nil {
			return v, err
		}
	}
	if v.CategoryID != "" {
		return v, nil
	}

	categories := eng.Store().RefreshCategories(ctx)
	if err := loadFailure("categories", categories); err != nil {
		return v, err
	}
	if len(categories.Items) == 0 {
		return v, fmt.Errorf("no categories yet; create one with 'planilha categories add'")
	}

	names := make([]string, len(categories.Items))
	for i, c := range categories.Items {
		names[i] = c.Name
	}
	choice, err := prompter.Choose(ctx, "Category", names)
	if err != nil {
		return v, err
	}
	for _, c := range categories.Items {
		if c.Name == choice {
			v.CategoryID = strconv.Itoa(c.ID)
		}
	}
	return v, nil
}

func updateTransactionCmd() *cobra.Command {
	var flags transactionFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a transaction",
		Long:  `Change fields of an existing transaction. Fields that are not given keep their current value.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			eng, client, err := connect(engine.AlwaysConfirm)
			if err != nil {
				return err
			}

			current, err := findTransaction(ctx, client, id)
			if err != nil {
				return err
			}

			cards, _ := eng.Store().LoadReferenceData(ctx)
			edit := eng.Transactions().BeginEdit(current, cards.Items)
			edit.Form.SetValues(flags.apply(cmd, edit.Form.Values()))

			updated, err := eng.SubmitEdit(ctx)
			if err != nil {
				return fmt.Errorf("failed to update transaction: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Updated %q (ID: %d)", updated.Description, updated.ID)))
			return nil
		},
	}
	flags.register(cmd)

	return cmd
}

func deleteTransactionCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			eng, client, err := connect(confirmerFor(cmd, yes))
			if err != nil {
				return err
			}

			t, err := findTransaction(cmd.Context(), client, id)
			if err != nil {
				return err
			}

			deleted, err := eng.DeleteTransaction(cmd.Context(), t)
			if err != nil {
				return fmt.Errorf("failed to delete transaction: %w", err)
			}
			reportDelete(cmd, "Transaction", deleted)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}

func spendingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "spending",
		Short: "Show spending by category",
		Long:  `Display the total of outflows per category and each category's share.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, _, err := connect(engine.AlwaysConfirm)
			if err != nil {
				return err
			}

			spending := eng.Store().RefreshSpending(cmd.Context())
			if err := loadFailure("spending", spending); err != nil {
				return err
			}
			return cli.RenderSpending(cmd.OutOrStdout(), spending.Items)
		},
	}
}
