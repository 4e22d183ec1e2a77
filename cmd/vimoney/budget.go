package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/vimoney/vimoney/internal/budget"
	"github.com/vimoney/vimoney/internal/lifestyle"
	"github.com/vimoney/vimoney/internal/model"
	"github.com/vimoney/vimoney/internal/synthetic"
)

func budgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Predict and tune a monthly budget split",
	}

	cmd.AddCommand(budgetPredictCmd())
	cmd.AddCommand(budgetTrainCmd())
	cmd.AddCommand(budgetAdjustCmd())
	cmd.AddCommand(budgetResetCmd())

	return cmd
}

func budgetPredictCmd() *cobra.Command {
	var (
		income   float64
		describe string
		month    int
		holiday  bool
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Suggest a needs/wants/savings allocation",
		Long: `Predict a three-way budget split for a monthly income, e.g.

  vimoney budget predict --income 15000000 --describe "thuê nhà hcm, hay cà phê"

Without --describe the prediction uses neutral lifestyle signals.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if income <= 0 {
				return fmt.Errorf("--income must be positive")
			}
			if month == 0 {
				month = int(time.Now().Month())
			}
			if month < 1 || month > 12 {
				return fmt.Errorf("--month must be 1-12")
			}
			if !cmd.Flags().Changed("holiday") {
				holiday = synthetic.IsHolidayMonth(month)
			}

			models, err := initModelStore()
			if err != nil {
				return err
			}
			defer func() { _ = models.Close() }()

			signals := model.DefaultSignals()
			if describe != "" {
				extractor := lifestyle.NewExtractor(models, lifestyle.WithTrainDelay(time.Hour))
				signals = extractor.Infer(ctx, describe)
				if !extractor.Ready() {
					if err := extractor.Train(ctx); err == nil {
						signals = extractor.Infer(ctx, describe)
					}
				}
			}

			predictor := budget.NewPredictor(models)
			if err := predictor.Initialize(ctx); err != nil {
				color.Yellow("Model unavailable (%v); using rule-based split.", err)
			}

			pred := predictor.Predict(ctx, income, signals.Encode(), month, holiday)
			printBudget(income, pred)
			return nil
		},
	}

	cmd.Flags().Float64Var(&income, "income", 0, "monthly income in ₫ (required)")
	cmd.Flags().StringVar(&describe, "describe", "", "lifestyle description fed to the signal extractor")
	cmd.Flags().IntVar(&month, "month", 0, "calendar month 1-12 (default: current)")
	cmd.Flags().BoolVar(&holiday, "holiday", false, "treat the month as holiday season (default: derived from month)")
	_ = cmd.MarkFlagRequired("income")
	return cmd
}

func budgetTrainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "train",
		Short: "Rebuild the budget model from scratch",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			models, err := initModelStore()
			if err != nil {
				return err
			}
			defer func() { _ = models.Close() }()

			bar := progressbar.NewOptions(budget.ColdStartEpochs,
				progressbar.OptionSetDescription("training"),
				progressbar.OptionShowCount(),
			)

			predictor := budget.NewPredictor(models)
			err = predictor.Train(ctx, func(_ model.EpochStats) {
				_ = bar.Add(1)
			})
			fmt.Println()
			if err != nil {
				return fmt.Errorf("budget training failed: %w", err)
			}

			history := predictor.TrainingHistory()
			final := history[len(history)-1]
			color.Green("Trained %d epochs (final loss %.4f)", len(history), final.Loss)
			return nil
		},
	}
}

func budgetAdjustCmd() *cobra.Command {
	var (
		income   float64
		needs    float64
		wants    float64
		savings  float64
		describe string
		month    int
	)

	cmd := &cobra.Command{
		Use:   "adjust",
		Short: "Feed back your final allocation",
		Long: `Fine-tune the budget model on the split you actually chose, e.g.

  vimoney budget adjust --income 15000000 --needs 0.5 --wants 0.2 --savings 0.3

A few adjustments gently shift future predictions toward your habits.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if income <= 0 {
				return fmt.Errorf("--income must be positive")
			}
			if needs <= 0 || wants <= 0 || savings <= 0 {
				return fmt.Errorf("all three ratios must be positive")
			}
			if month == 0 {
				month = int(time.Now().Month())
			}

			models, err := initModelStore()
			if err != nil {
				return err
			}
			defer func() { _ = models.Close() }()

			signals := model.DefaultSignals()
			if describe != "" {
				extractor := lifestyle.NewExtractor(models, lifestyle.WithTrainDelay(time.Hour))
				signals = extractor.Infer(ctx, describe)
			}

			predictor := budget.NewPredictor(models)
			if err := predictor.Initialize(ctx); err != nil {
				return fmt.Errorf("budget model unavailable: %w", err)
			}

			err = predictor.LearnFromCorrection(ctx, model.TrainingData{
				Income:           income,
				LifestyleSignals: signals.Encode(),
				TargetRatios:     [3]float64{needs, wants, savings},
				Month:            month,
				IsHolidaySeason:  synthetic.IsHolidayMonth(month),
			})
			if err != nil {
				return fmt.Errorf("failed to learn from adjustment: %w", err)
			}

			color.Green("Noted — future predictions will lean toward your split.")
			return nil
		},
	}

	cmd.Flags().Float64Var(&income, "income", 0, "monthly income in ₫ (required)")
	cmd.Flags().Float64Var(&needs, "needs", 0, "chosen needs ratio (required)")
	cmd.Flags().Float64Var(&wants, "wants", 0, "chosen wants ratio (required)")
	cmd.Flags().Float64Var(&savings, "savings", 0, "chosen savings ratio (required)")
	cmd.Flags().StringVar(&describe, "describe", "", "lifestyle description fed to the signal extractor")
	cmd.Flags().IntVar(&month, "month", 0, "calendar month 1-12 (default: current)")
	_ = cmd.MarkFlagRequired("income")
	_ = cmd.MarkFlagRequired("needs")
	_ = cmd.MarkFlagRequired("wants")
	_ = cmd.MarkFlagRequired("savings")
	return cmd
}

func budgetResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Forget the trained budget model",
		RunE: func(cmd *cobra.Command, _ []string) error {
			models, err := initModelStore()
			if err != nil {
				return err
			}
			defer func() { _ = models.Close() }()

			predictor := budget.NewPredictor(models)
			predictor.Reset(cmd.Context())

			color.Green("Budget model cleared; predictions fall back to the 50/30/20 rules until retrained.")
			return nil
		},
	}
}

func printBudget(income float64, pred model.BudgetPrediction) {
	bold := color.New(color.Bold)
	fmt.Printf("%s  (model %s, %.0f%% confident)\n",
		bold.Sprint("Suggested monthly split"), pred.ModelVersion, pred.Confidence*100)
	fmt.Printf("  needs    %5.1f%%   %12.0f ₫\n", pred.NeedsRatio*100, pred.NeedsRatio*income)
	fmt.Printf("  wants    %5.1f%%   %12.0f ₫\n", pred.WantsRatio*100, pred.WantsRatio*income)
	fmt.Printf("  savings  %5.1f%%   %12.0f ₫\n", pred.SavingsRatio*100, pred.SavingsRatio*income)
}
