package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vimoney/vimoney/internal/classifier"
	"github.com/vimoney/vimoney/internal/model"
)

func txCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Record and list transactions",
	}

	cmd.AddCommand(addTxCmd())
	cmd.AddCommand(listTxCmd())

	return cmd
}

func addTxCmd() *cobra.Command {
	var categoryID string

	cmd := &cobra.Command{
		Use:   "add <note> <amount>",
		Short: "Record a transaction",
		Long: `Record a spending transaction. When no category is given the classifier
suggests one; categorized notes feed the next incremental retrain.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			amount, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[1], err)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			models, err := initModelStore()
			if err != nil {
				return err
			}
			defer func() { _ = models.Close() }()

			engine := classifier.NewEngine(store, models)
			defer engine.Flush()

			note := args[0]

			if categoryID == "" {
				if pred := engine.PredictCategory(ctx, note); pred != nil {
					categoryID = pred.CategoryID
					color.Cyan("Suggested category: %s %s (%.0f%% confident)",
						pred.CategoryIcon, pred.CategoryName, pred.Confidence*100)
				}
			}

			txn := &model.Transaction{Note: note, Amount: amount, CategoryID: categoryID}
			if err := store.AddTransaction(ctx, txn); err != nil {
				return fmt.Errorf("failed to add transaction: %w", err)
			}

			if categoryID != "" {
				engine.LearnFromNewTransaction(ctx, note, categoryID)
			}

			color.Green("Recorded %s (%s ₫)", note, args[1])
			return nil
		},
	}

	cmd.Flags().StringVar(&categoryID, "category", "", "category id (omit to let the classifier suggest one)")
	return cmd
}

func listTxCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent transactions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			txns, err := store.GetTransactions(ctx, limit)
			if err != nil {
				return fmt.Errorf("failed to list transactions: %w", err)
			}

			if len(txns) == 0 {
				color.Yellow("No transactions recorded yet.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			header := color.New(color.Bold)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				header.Sprint("Date"), header.Sprint("Note"), header.Sprint("Amount"), header.Sprint("Category"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 10), strings.Repeat("-", 30), strings.Repeat("-", 12), strings.Repeat("-", 36))

			for _, txn := range txns {
				cat := txn.CategoryID
				if cat == "" {
					cat = "(uncategorized)"
				}
				fmt.Fprintf(w, "%s\t%s\t%.0f\t%s\n",
					txn.Date.Format("2006-01-02"), txn.Note, txn.Amount, cat)
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum transactions to show (0 for all)")
	return cmd
}
