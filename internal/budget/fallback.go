package budget

import (
	"time"

	"github.com/vimoney/vimoney/internal/model"
	"github.com/vimoney/vimoney/internal/synthetic"
)

// fallbackConfidence is deliberately low so the UI asks the user to
// confirm rather than trusting a rule-of-thumb allocation.
const fallbackConfidence = 0.3

// fallback serves a rule-based allocation for the window before
// cold-start training completes, so Predict never fails. It starts from
// the classic 50/30/20 split and nudges by the decoded signals.
func (p *Predictor) fallback(income float64, signals []float64, month int, holiday bool, start time.Time) model.BudgetPrediction {
	needs, wants, savings := 0.50, 0.30, 0.20

	var decoded model.LifestyleSignals
	if len(signals) == model.SignalDim {
		decoded = model.DecodeSignals(signals)
	} else {
		decoded = model.DefaultSignals()
	}

	if decoded.HasDebt {
		needs += 0.10
		wants -= 0.05
		savings -= 0.05
	}
	if decoded.MinimalLiving {
		savings += 0.10
		wants -= 0.10
	}
	if decoded.HasSavingsGoal {
		savings += 0.05
		wants -= 0.05
	}
	if decoded.SocialSpending == model.LevelHigh || decoded.LuxuryInterest == model.LevelHigh {
		wants += 0.05
		savings -= 0.05
	}
	if income > 0 && income < 8_000_000 {
		needs += 0.05
		savings -= 0.05
	}
	if holiday || synthetic.IsHolidayMonth(month) {
		wants += 0.05
		savings -= 0.05
	}

	ratios := [3]float64{needs, wants, savings}
	for i := range ratios {
		if ratios[i] < 0.05 {
			ratios[i] = 0.05
		}
	}
	sum := ratios[0] + ratios[1] + ratios[2]
	for i := range ratios {
		ratios[i] /= sum
	}

	return model.BudgetPrediction{
		NeedsRatio:   ratios[0],
		WantsRatio:   ratios[1],
		SavingsRatio: ratios[2],
		Confidence:   fallbackConfidence,
		ModelVersion: FallbackVersion,
		PredictedAt:  start,
		Elapsed:      time.Since(start),
	}
}
