package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vimoney/vimoney/internal/lifestyle"
)

func lifestyleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lifestyle <description>",
		Short: "Extract lifestyle signals from a free-text description",
		Long: `Read structured lifestyle signals out of a short self-description, e.g.

  vimoney lifestyle "thuê nhà ở hà nội, hay ăn ngoài, đang trả nợ"

The first run trains the extractor on synthetic phrases; later runs load
the saved model.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			models, err := initModelStore()
			if err != nil {
				return err
			}
			defer func() { _ = models.Close() }()

			// A one-shot CLI process trains synchronously; push the
			// background run out so it cannot overlap.
			extractor := lifestyle.NewExtractor(models, lifestyle.WithTrainDelay(time.Hour))
			signals := extractor.Infer(ctx, args[0])
			if !extractor.Ready() {
				color.Yellow("Training the lifestyle extractor (first run)...")
				if err := extractor.Train(ctx); err != nil {
					return fmt.Errorf("lifestyle training failed: %w", err)
				}
				signals = extractor.Infer(ctx, args[0])
			}

			yn := map[bool]string{true: "yes", false: "no"}
			fmt.Printf("rent:          %s\n", yn[signals.HasRent])
			fmt.Printf("debt:          %s\n", yn[signals.HasDebt])
			fmt.Printf("savings goal:  %s\n", yn[signals.HasSavingsGoal])
			fmt.Printf("minimal:       %s\n", yn[signals.MinimalLiving])
			fmt.Printf("food out:      %s\n", signals.FoodOutFrequency)
			fmt.Printf("social:        %s\n", signals.SocialSpending)
			fmt.Printf("luxury:        %s\n", signals.LuxuryInterest)
			fmt.Printf("location:      %s\n", signals.Location)
			if signals.RentEstimate > 0 {
				fmt.Printf("rent estimate: %.0f ₫/month\n", signals.RentEstimate)
			}
			return nil
		},
	}
}
