package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		signals LifestyleSignals
	}{
		{name: "defaults", signals: DefaultSignals()},
		{
			name: "everything set",
			signals: LifestyleSignals{
				HasRent:          true,
				HasDebt:          true,
				HasSavingsGoal:   true,
				MinimalLiving:    true,
				FoodOutFrequency: LevelHigh,
				SocialSpending:   LevelMedium,
				LuxuryInterest:   LevelLow,
				Location:         LocationHCM,
			},
		},
		{
			name: "hanoi medium",
			signals: LifestyleSignals{
				FoodOutFrequency: LevelMedium,
				SocialSpending:   LevelHigh,
				LuxuryInterest:   LevelMedium,
				Location:         LocationHanoi,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := tt.signals.Encode()
			require.Len(t, encoded, SignalDim)
			assert.Equal(t, tt.signals, DecodeSignals(encoded))
		})
	}
}

func TestDecodeSignals_Thresholds(t *testing.T) {
	raw := make([]float64, SignalDim)
	raw[0] = 0.5  // exactly at the threshold counts as set
	raw[1] = 0.49 // just under does not
	raw[4], raw[5], raw[6] = 0.2, 0.2, 0.2 // tie decodes to the earliest slot

	got := DecodeSignals(raw)
	assert.True(t, got.HasRent)
	assert.False(t, got.HasDebt)
	assert.Equal(t, LevelLow, got.FoodOutFrequency)
}

func TestDecodeSignals_ShortInputFallsBack(t *testing.T) {
	assert.Equal(t, DefaultSignals(), DecodeSignals([]float64{1, 2, 3}))
}

func TestSampleSourceWeight(t *testing.T) {
	assert.InDelta(t, 3.0, SourceCorrection.Weight(), 1e-12)
	assert.InDelta(t, 1.0, SourceTransaction.Weight(), 1e-12)
}

func TestTrainingSampleKey(t *testing.T) {
	a := TrainingSample{Text: "trà sữa", CategoryID: "c1", Source: SourceTransaction}
	b := TrainingSample{Text: "trà sữa", CategoryID: "c1", Source: SourceCorrection}
	c := TrainingSample{Text: "trà sữa", CategoryID: "c2"}

	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
}
