package synthetic

import (
	"math/rand"

	"github.com/vimoney/vimoney/internal/model"
)

// Archetype is a named lifestyle profile carrying a hand-tuned target
// allocation. The cold-start dataset cross-products these with income
// brackets and all twelve months.
type Archetype struct {
	Name    string
	Signals model.LifestyleSignals
	Ratios  [3]float64 // needs, wants, savings
}

// Archetypes are the six cold-start lifestyle profiles.
func Archetypes() []Archetype {
	return []Archetype{
		{
			Name: "Minimal Living",
			Signals: model.LifestyleSignals{
				MinimalLiving:    true,
				HasSavingsGoal:   true,
				FoodOutFrequency: model.LevelLow,
				SocialSpending:   model.LevelLow,
				LuxuryInterest:   model.LevelLow,
				Location:         model.LocationOther,
			},
			Ratios: [3]float64{0.45, 0.15, 0.40},
		},
		{
			Name: "Debt Repayment",
			Signals: model.LifestyleSignals{
				HasRent:          true,
				HasDebt:          true,
				FoodOutFrequency: model.LevelLow,
				SocialSpending:   model.LevelLow,
				LuxuryInterest:   model.LevelLow,
				Location:         model.LocationHCM,
			},
			Ratios: [3]float64{0.60, 0.15, 0.25},
		},
		{
			Name: "Young Professional",
			Signals: model.LifestyleSignals{
				HasRent:          true,
				HasSavingsGoal:   true,
				FoodOutFrequency: model.LevelMedium,
				SocialSpending:   model.LevelMedium,
				LuxuryInterest:   model.LevelMedium,
				Location:         model.LocationHanoi,
			},
			Ratios: [3]float64{0.50, 0.30, 0.20},
		},
		{
			Name: "Family Focused",
			Signals: model.LifestyleSignals{
				HasSavingsGoal:   true,
				FoodOutFrequency: model.LevelLow,
				SocialSpending:   model.LevelLow,
				LuxuryInterest:   model.LevelMedium,
				Location:         model.LocationOther,
			},
			Ratios: [3]float64{0.55, 0.25, 0.20},
		},
		{
			Name: "Dedicated Saver",
			Signals: model.LifestyleSignals{
				HasSavingsGoal:   true,
				MinimalLiving:    true,
				FoodOutFrequency: model.LevelLow,
				SocialSpending:   model.LevelMedium,
				LuxuryInterest:   model.LevelLow,
				Location:         model.LocationHCM,
			},
			Ratios: [3]float64{0.45, 0.20, 0.35},
		},
		{
			Name: "Social Butterfly",
			Signals: model.LifestyleSignals{
				HasRent:          true,
				FoodOutFrequency: model.LevelHigh,
				SocialSpending:   model.LevelHigh,
				LuxuryInterest:   model.LevelHigh,
				Location:         model.LocationHCM,
			},
			Ratios: [3]float64{0.45, 0.40, 0.15},
		},
	}
}

// incomeBrackets are monthly incomes in VND spanning the supported range.
var incomeBrackets = []float64{
	3_000_000, 5_000_000, 8_000_000, 12_000_000, 20_000_000, 35_000_000, 60_000_000,
}

// IsHolidayMonth reports whether a month falls in the Tết/holiday window,
// when wants spending rises at the expense of savings.
func IsHolidayMonth(month int) bool {
	return month == 12 || month == 1 || month == 2
}

// GenerateBudget builds the cold-start dataset: every archetype crossed
// with every income bracket and every month, ratios nudged by income level
// and holiday season, plus a noised duplicate pass (±10% income, ±2.5%
// ratio jitter) for generalization.
func GenerateBudget(seed int64) []model.TrainingData {
	rng := rand.New(rand.NewSource(seed))
	var data []model.TrainingData

	for _, arch := range Archetypes() {
		signals := arch.Signals.Encode()
		for _, income := range incomeBrackets {
			for month := 1; month <= 12; month++ {
				ratios := adjustRatios(arch.Ratios, income, month)
				data = append(data, model.TrainingData{
					Income:           income,
					LifestyleSignals: signals,
					TargetRatios:     ratios,
					Month:            month,
					IsHolidaySeason:  IsHolidayMonth(month),
				})
			}
		}
	}

	// Noised duplicates improve generalization beyond the exact brackets.
	base := len(data)
	for i := 0; i < base; i++ {
		d := data[i]
		d.Income *= 1 + (rng.Float64()*0.2 - 0.1)
		for j := range d.TargetRatios {
			d.TargetRatios[j] += rng.Float64()*0.05 - 0.025
			if d.TargetRatios[j] < 0 {
				d.TargetRatios[j] = 0
			}
		}
		d.TargetRatios = normalizeRatios(d.TargetRatios)
		data = append(data, d)
	}

	return data
}

// adjustRatios nudges an archetype's base allocation: low incomes push
// the needs share up, high incomes free up savings, and holiday months
// shift savings toward wants.
func adjustRatios(base [3]float64, income float64, month int) [3]float64 {
	r := base
	switch {
	case income < 8_000_000:
		r[0] += 0.08
		r[1] -= 0.03
		r[2] -= 0.05
	case income > 30_000_000:
		r[0] -= 0.05
		r[2] += 0.05
	}
	if IsHolidayMonth(month) {
		r[1] += 0.05
		r[2] -= 0.05
	}
	for i := range r {
		if r[i] < 0.05 {
			r[i] = 0.05
		}
	}
	return normalizeRatios(r)
}

func normalizeRatios(r [3]float64) [3]float64 {
	sum := r[0] + r[1] + r[2]
	if sum == 0 {
		return [3]float64{1.0 / 3, 1.0 / 3, 1.0 / 3}
	}
	for i := range r {
		r[i] /= sum
	}
	return r
}
