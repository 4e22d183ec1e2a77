package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vimoney/vimoney/internal/common"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage spending categories",
		Long:  `List, add, and delete the spending categories the classifier suggests.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(deleteCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			categories, err := store.Categories(ctx)
			if err != nil {
				return fmt.Errorf("failed to get categories: %w", err)
			}

			if len(categories) == 0 {
				color.Yellow("No categories yet. Use 'vimoney categories add' to create one.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			header := color.New(color.Bold)
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				header.Sprint("ID"), header.Sprint("Icon"), header.Sprint("Name"))
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				strings.Repeat("-", 36), strings.Repeat("-", 4), strings.Repeat("-", 20))

			for _, cat := range categories {
				fmt.Fprintf(w, "%s\t%s\t%s\n", cat.ID, cat.Icon, cat.Name)
			}

			return nil
		},
	}
}

func addCategoryCmd() *cobra.Command {
	var icon string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			cat, err := store.CreateCategory(ctx, args[0], icon)
			if err != nil {
				return fmt.Errorf("failed to create category: %w", err)
			}

			color.Green("Created category %s %s (%s)", cat.Icon, cat.Name, cat.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&icon, "icon", "", "emoji icon shown next to the category")
	return cmd
}

func deleteCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category",
		Long: `Deactivate a category. Existing transactions keep their history; the
classifier stops suggesting the category after its next retrain.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteCategory(ctx, args[0]); err != nil {
				if errors.Is(err, common.ErrNotFound) {
					return fmt.Errorf("no category with id %q", args[0])
				}
				return fmt.Errorf("failed to delete category: %w", err)
			}

			color.Green("Deleted category %s", args[0])
			return nil
		},
	}
}
