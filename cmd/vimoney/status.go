package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vimoney/vimoney/internal/config"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show data and model state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

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

			categories, err := store.Categories(ctx)
			if err != nil {
				return err
			}
			txns, err := store.GetTransactions(ctx, 0)
			if err != nil {
				return err
			}
			corrections, err := store.GetCorrections(ctx, 0)
			if err != nil {
				return err
			}
			keys, err := models.Keys(ctx)
			if err != nil {
				return err
			}

			bold := color.New(color.Bold)
			fmt.Printf("%s %s\n", bold.Sprint("Data dir:"), config.DataDir())
			fmt.Printf("  categories    %d\n", len(categories))
			fmt.Printf("  transactions  %d\n", len(txns))
			fmt.Printf("  corrections   %d\n", len(corrections))

			fmt.Printf("%s\n", bold.Sprint("Trained models:"))
			if len(keys) == 0 {
				color.Yellow("  none — models train on first use")
				return nil
			}
			for _, k := range keys {
				fmt.Printf("  %s\n", k)
			}
			return nil
		},
	}
}
