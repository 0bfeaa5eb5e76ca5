package main

import (
	"fmt"

	"github.com/GRBadas/Planilha-Django/internal/cli"
	"github.com/GRBadas/Planilha-Django/internal/engine"
	"github.com/GRBadas/Planilha-Django/internal/model"
	"github.com/spf13/cobra"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage transaction categories",
		Long:  `List, add, rename, and delete the categories transactions are grouped by.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(renameCategoryCmd())
	cmd.AddCommand(deleteCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, _, err := connect(engine.AlwaysConfirm)
			if err != nil {
				return err
			}

			categories := eng.Store().RefreshCategories(cmd.Context())
			if err := loadFailure("categories", categories); err != nil {
				return err
			}
			return cli.RenderCategories(cmd.OutOrStdout(), categories.Items)
		},
	}
}

func addCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, _, err := connect(engine.AlwaysConfirm)
			if err != nil {
				return err
			}

			saved, err := eng.SaveCategory(cmd.Context(), model.Category{Name: args[0]})
			if err != nil {
				return fmt.Errorf("failed to create category: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Created category %q (ID: %d)", saved.Name, saved.ID)))
			return nil
		},
	}
}

func renameCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rename <id> <name>",
		Aliases: []string{"update"},
		Short:   "Rename a category",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			eng, _, err := connect(engine.AlwaysConfirm)
			if err != nil {
				return err
			}

			saved, err := eng.SaveCategory(cmd.Context(), model.Category{ID: id, Name: args[1]})
			if err != nil {
				return fmt.Errorf("failed to rename category: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Renamed category %d to %q", saved.ID, saved.Name)))
			return nil
		},
	}
}

func deleteCategoryCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category",
		Long:  `Delete a category after confirmation. Its transactions are deleted with it.`,
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

			category, err := findCategory(cmd.Context(), client, id)
			if err != nil {
				return err
			}

			deleted, err := eng.DeleteCategory(cmd.Context(), category)
			if err != nil {
				return fmt.Errorf("failed to delete category: %w", err)
			}
			reportDelete(cmd, "Category", deleted)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}
