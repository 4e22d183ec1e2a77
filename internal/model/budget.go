package model

import "time"

// BudgetPrediction is a three-way allocation of monthly income. The three
// ratios are non-negative and sum to 1 within floating tolerance.
type BudgetPrediction struct {
	PredictedAt  time.Time
	ModelVersion string
	NeedsRatio   float64
	WantsRatio   float64
	SavingsRatio float64
	Confidence   float64
	Elapsed      time.Duration
}

// TrainingData is one budget-predictor example: either synthetic or a
// user's final (possibly adjusted) allocation fed back for fine-tuning.
type TrainingData struct {
	LifestyleSignals []float64
	TargetRatios     [3]float64
	Income           float64
	Month            int
	IsHolidaySeason  bool
}

// EpochStats records one training epoch for the budget predictor.
type EpochStats struct {
	Epoch    int
	Loss     float64
	Accuracy float64
}
