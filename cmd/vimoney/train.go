package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vimoney/vimoney/internal/classifier"
)

func trainCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Retrain the category classifier",
		Long: `Rebuild the classifier's vocabulary and category profiles from the
corrections log and recent categorized transactions.`,
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

			engine := classifier.NewEngine(store, models)
			defer engine.Flush()

			result := engine.TrainModel(ctx, force)
			if !result.Success {
				color.Red("Training failed: %s", result.Message)
				return fmt.Errorf("training failed: %s", result.Message)
			}

			color.Green("Trained on %d samples", result.Samples)
			fmt.Printf("  self-check accuracy %.0f%%\n", result.Accuracy*100)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "retrain even when a model already exists")
	return cmd
}
