package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vimoney/vimoney/internal/classifier"
	"github.com/vimoney/vimoney/internal/model"
)

func classifyCmd() *cobra.Command {
	var showAlternatives bool

	cmd := &cobra.Command{
		Use:   "classify <note>",
		Short: "Suggest a category for a transaction note",
		Long: `Run the classifier over a free-text note, e.g.

  vimoney classify "cà phê với bạn"

Trains on first use when enough categorized data exists.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			if !showAlternatives {
				pred := engine.PredictCategory(ctx, args[0])
				if pred == nil {
					color.Yellow("No confident suggestion. Categorize a few transactions first, or pick a category by hand.")
					return nil
				}
				color.Green("%s %s", pred.CategoryIcon, pred.CategoryName)
				fmt.Printf("  confidence %.0f%%  (%s)\n", pred.Confidence*100, pred.CategoryID)
				return nil
			}

			ranked := engine.PredictCategoryWithAlternatives(ctx, args[0])
			if ranked.Primary.CategoryID == "" {
				color.Yellow("No confident suggestion. Categorize a few transactions first, or pick a category by hand.")
				return nil
			}

			color.Green("%s %s  %d%%", ranked.Primary.CategoryIcon, ranked.Primary.CategoryName, ranked.Primary.Confidence)
			for _, alt := range ranked.Alternatives {
				fmt.Printf("  %s %s  %d%%\n", alt.CategoryIcon, alt.CategoryName, alt.Confidence)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showAlternatives, "alternatives", false, "show up to two runner-up categories")
	return cmd
}

func correctCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "correct <note> <category-id>",
		Short: "Correct a wrong suggestion",
		Long: `Tell the classifier the right category for a note it got wrong.
Corrections outweigh ordinary transactions during retraining, so a few
of them quickly reshape the suggestions.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if _, err := store.GetCategoryByID(ctx, args[1]); err != nil {
				return fmt.Errorf("unknown category %q: %w", args[1], err)
			}

			c := &model.Correction{Text: args[0], CategoryID: args[1]}
			if err := store.AddCorrection(ctx, c); err != nil {
				return fmt.Errorf("failed to record correction: %w", err)
			}

			models, err := initModelStore()
			if err != nil {
				return err
			}
			defer func() { _ = models.Close() }()

			engine := classifier.NewEngine(store, models)
			engine.LearnFromCorrection(ctx, args[0], args[1])
			engine.Flush()

			color.Green("Thanks — %q will lean toward %s from now on.", args[0], args[1])
			return nil
		},
	}
}
