package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vimoney/vimoney/internal/budget"
	"github.com/vimoney/vimoney/internal/classifier"
	"github.com/vimoney/vimoney/internal/lifestyle"
)

func resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Forget all trained models",
		Long: `Delete every trained model: the category classifier, the lifestyle
extractor, and the budget predictor. Transactions, corrections, and
categories are kept; each model retrains on its next use.`,
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

			classifier.NewEngine(store, models).ClearModel(ctx)
			lifestyle.NewExtractor(models).Reset(ctx)
			budget.NewPredictor(models).Reset(ctx)

			color.Green("All models cleared. They retrain automatically on next use.")
			return nil
		},
	}
}
