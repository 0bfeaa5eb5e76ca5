package main

import (
	"fmt"
	"strings"

	"github.com/GRBadas/Planilha-Django/internal/cli"
	"github.com/GRBadas/Planilha-Django/internal/engine"
	"github.com/GRBadas/Planilha-Django/internal/model"
	"github.com/spf13/cobra"
)

func cardsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cards",
		Short: "Manage credit and debit cards",
		Long:  `List, add, update, and delete the cards transactions can be charged to.`,
	}

	cmd.AddCommand(listCardsCmd())
	cmd.AddCommand(addCardCmd())
	cmd.AddCommand(updateCardCmd())
	cmd.AddCommand(deleteCardCmd())

	return cmd
}

func listCardsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all cards",
		Long:  `Display every card with its remaining limit (credit) or balance (debit).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, _, err := connect(engine.AlwaysConfirm)
			if err != nil {
				return err
			}

			cards := eng.Store().RefreshCards(cmd.Context())
			if err := loadFailure("cards", cards); err != nil {
				return err
			}
			return cli.RenderCards(cmd.OutOrStdout(), cards.Items)
		},
	}
}

// cardFlags are the optional fields shared by add and update.
type cardFlags struct {
	kind    string
	limit   string
	balance string
}

func (f *cardFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.kind, "type", string(model.CardKindCredit), "card type (credito, debito)")
	cmd.Flags().StringVar(&f.limit, "limit", "", "credit limit")
	cmd.Flags().StringVar(&f.balance, "balance", "", "debit balance")
}

// apply copies the flags the user set onto card.
func (f *cardFlags) apply(cmd *cobra.Command, card model.Card) (model.Card, error) {
	if cmd.Flags().Changed("type") || card.Kind == "" {
		card.Kind = model.CardKind(strings.ToLower(f.kind))
	}
	if cmd.Flags().Changed("limit") {
		limit, err := parseMoneyFlag("limit", f.limit)
		if err != nil {
			return card, err
		}
		card.Limit = &limit
	}
	if cmd.Flags().Changed("balance") {
		balance, err := parseMoneyFlag("balance", f.balance)
		if err != nil {
			return card, err
		}
		card.Balance = &balance
	}
	return card, nil
}

func parseMoneyFlag(name, value string) (model.Amount, error) {
	amount, err := model.ParseAmount(strings.ReplaceAll(strings.TrimSpace(value), ",", "."))
	if err != nil {
		return model.Amount{}, fmt.Errorf("invalid --%s %q: %w", name, value, err)
	}
	return amount, nil
}

func addCardCmd() *cobra.Command {
	var flags cardFlags

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new card",
		Long: `Create a card. Credit cards need --limit; debit cards take an optional --balance
that defaults to zero.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			card, err := flags.apply(cmd, model.Card{Name: args[0]})
			if err != nil {
				return err
			}

			eng, _, err := connect(engine.AlwaysConfirm)
			if err != nil {
				return err
			}

			saved, err := eng.SaveCard(cmd.Context(), card)
			if err != nil {
				return fmt.Errorf("failed to create card: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Created card %q (ID: %d)", saved.Name, saved.ID)))
			return nil
		},
	}
	flags.register(cmd)

	return cmd
}

func updateCardCmd() *cobra.Command {
	var (
		flags cardFlags
		name  string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a card",
		Long: `Change a card's name, type, limit or balance. Fields that are not given keep
their current value; switching type drops the field the new type does not use.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			eng, client, err := connect(engine.AlwaysConfirm)
			if err != nil {
				return err
			}

			card, err := findCard(cmd.Context(), client, id)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("name") {
				card.Name = name
			}
			if card, err = flags.apply(cmd, card); err != nil {
				return err
			}

			saved, err := eng.SaveCard(cmd.Context(), card)
			if err != nil {
				return fmt.Errorf("failed to update card: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Updated card %q (ID: %d)", saved.Name, saved.ID)))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new card name")
	flags.register(cmd)

	return cmd
}

func deleteCardCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a card",
		Long:  `Delete a card after confirmation. Its transactions are kept without a card.`,
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

			card, err := findCard(cmd.Context(), client, id)
			if err != nil {
				return err
			}

			deleted, err := eng.DeleteCard(cmd.Context(), card)
			if err != nil {
				return fmt.Errorf("failed to delete card: %w", err)
			}
			reportDelete(cmd, "Card", deleted)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}
