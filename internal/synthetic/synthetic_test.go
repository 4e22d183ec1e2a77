package synthetic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vimoney/vimoney/internal/model"
)

func TestGenerateLifestyle(t *testing.T) {
	examples := GenerateLifestyle(700, 1)
	require.Len(t, examples, 700)

	for _, ex := range examples {
		assert.NotEmpty(t, ex.Text)
		require.Len(t, ex.Target, model.SignalDim)

		// Each one-hot group has exactly one active slot.
		for _, group := range [][]float64{ex.Target[4:7], ex.Target[7:10], ex.Target[10:13], ex.Target[13:16]} {
			var sum float64
			for _, x := range group {
				sum += x
			}
			assert.InDelta(t, 1.0, sum, 1e-9)
		}
	}
}

func TestGenerateLifestyle_Deterministic(t *testing.T) {
	a := GenerateLifestyle(50, 7)
	b := GenerateLifestyle(50, 7)
	assert.Equal(t, a, b)
}

func TestGenerateBudget(t *testing.T) {
	data := GenerateBudget(1)

	// 6 archetypes x 7 brackets x 12 months, doubled by the noise pass.
	require.Len(t, data, 6*7*12*2)

	for _, d := range data {
		sum := d.TargetRatios[0] + d.TargetRatios[1] + d.TargetRatios[2]
		assert.InDelta(t, 1.0, sum, 1e-9)
		for _, r := range d.TargetRatios {
			assert.GreaterOrEqual(t, r, 0.0)
			assert.LessOrEqual(t, r, 1.0)
		}
		assert.Len(t, d.LifestyleSignals, model.SignalDim)
		assert.Positive(t, d.Income)
	}
}

func TestAdjustRatios(t *testing.T) {
	base := [3]float64{0.50, 0.30, 0.20}

	t.Run("low income raises needs share", func(t *testing.T) {
		low := adjustRatios(base, 3_000_000, 6)
		mid := adjustRatios(base, 12_000_000, 6)
		assert.Greater(t, low[0], mid[0])
	})

	t.Run("holiday months trade savings for wants", func(t *testing.T) {
		holiday := adjustRatios(base, 12_000_000, 1)
		normal := adjustRatios(base, 12_000_000, 6)
		assert.Greater(t, holiday[1], normal[1])
		assert.Less(t, holiday[2], normal[2])
	})

	t.Run("always a valid simplex", func(t *testing.T) {
		for _, income := range []float64{1_000_000, 8_000_000, 90_000_000} {
			for month := 1; month <= 12; month++ {
				r := adjustRatios(base, income, month)
				assert.InDelta(t, 1.0, r[0]+r[1]+r[2], 1e-9)
			}
		}
	})
}
