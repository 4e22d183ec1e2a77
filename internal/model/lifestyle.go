package model

// Level is a coarse three-way intensity for a lifestyle habit.
type Level string

// Lifestyle habit levels.
const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Location is the user's home city group, used for rent estimation.
type Location string

// Supported location groups.
const (
	LocationHanoi Location = "hanoi"
	LocationHCM   Location = "hcm"
	LocationOther Location = "other"
)

// SignalDim is the length of the encoded lifestyle signal vector:
// 4 binary slots plus four 3-way one-hot groups.
const SignalDim = 16

// LifestyleSignals is the structured output of the lifestyle extractor.
// RentEstimate is derived from HasRent and Location, never predicted.
type LifestyleSignals struct {
	FoodOutFrequency Level
	SocialSpending   Level
	LuxuryInterest   Level
	Location         Location
	RentEstimate     float64
	HasRent          bool
	HasDebt          bool
	HasSavingsGoal   bool
	MinimalLiving    bool
}

// DefaultSignals returns the safe fallback used before the extractor has
// trained, or whenever inference fails: everything false, low, and other.
func DefaultSignals() LifestyleSignals {
	return LifestyleSignals{
		FoodOutFrequency: LevelLow,
		SocialSpending:   LevelLow,
		LuxuryInterest:   LevelLow,
		Location:         LocationOther,
	}
}

// Encode lays the signals out as the 16-dim network vector: binary flags
// first, then one-hot groups for food, social, luxury, and location.
func (s LifestyleSignals) Encode() []float64 {
	v := make([]float64, SignalDim)
	if s.HasRent {
		v[0] = 1
	}
	if s.HasDebt {
		v[1] = 1
	}
	if s.HasSavingsGoal {
		v[2] = 1
	}
	if s.MinimalLiving {
		v[3] = 1
	}
	encodeLevel(v[4:7], s.FoodOutFrequency)
	encodeLevel(v[7:10], s.SocialSpending)
	encodeLevel(v[10:13], s.LuxuryInterest)
	encodeLocation(v[13:16], s.Location)
	return v
}

// DecodeSignals turns 16 raw network outputs back into structured signals.
// Binary slots threshold at 0.5; one-hot groups decode by arg-max with
// ties broken toward the earliest slot. RentEstimate is left zero for the
// caller to derive.
func DecodeSignals(raw []float64) LifestyleSignals {
	if len(raw) < SignalDim {
		return DefaultSignals()
	}
	return LifestyleSignals{
		HasRent:          raw[0] >= 0.5,
		HasDebt:          raw[1] >= 0.5,
		HasSavingsGoal:   raw[2] >= 0.5,
		MinimalLiving:    raw[3] >= 0.5,
		FoodOutFrequency: decodeLevel(raw[4:7]),
		SocialSpending:   decodeLevel(raw[7:10]),
		LuxuryInterest:   decodeLevel(raw[10:13]),
		Location:         decodeLocation(raw[13:16]),
	}
}

func encodeLevel(dst []float64, l Level) {
	switch l {
	case LevelHigh:
		dst[2] = 1
	case LevelMedium:
		dst[1] = 1
	default:
		dst[0] = 1
	}
}

func encodeLocation(dst []float64, loc Location) {
	switch loc {
	case LocationHanoi:
		dst[0] = 1
	case LocationHCM:
		dst[1] = 1
	default:
		dst[2] = 1
	}
}

func decodeLevel(group []float64) Level {
	switch argMax(group) {
	case 1:
		return LevelMedium
	case 2:
		return LevelHigh
	default:
		return LevelLow
	}
}

func decodeLocation(group []float64) Location {
	switch argMax(group) {
	case 0:
		return LocationHanoi
	case 1:
		return LocationHCM
	default:
		return LocationOther
	}
}

func argMax(xs []float64) int {
	best := 0
	for i, x := range xs {
		if x > xs[best] {
			best = i
		}
	}
	return best
}
